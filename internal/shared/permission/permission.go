package permission

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// Role is the closed set of access levels. Keeping it a typed enum with one
// decision function here replaces scattered string comparisons.
type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// AssignableRoles are the roles an identity record may carry. Anonymous is a
// request property, never stored.
var AssignableRoles = []Role{RoleUser, RoleModerator, RoleAdmin}

// ParseRole validates a stored or submitted role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleModerator, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid role: %q", s)
}

// CanModerate reports whether the role may act on other users' content.
func (r Role) CanModerate() bool {
	return r == RoleModerator || r == RoleAdmin
}

// Subject is the requesting principal, anonymous or authenticated.
type Subject struct {
	UserID   uuid.UUID
	Username string
	Role     Role
}

// Anonymous returns the unauthenticated subject.
func Anonymous() Subject {
	return Subject{Role: RoleAnonymous}
}

func (s Subject) Authenticated() bool {
	return s.Role != RoleAnonymous && s.Role != ""
}

// ResourceKind names the entity classes the evaluator knows about.
type ResourceKind string

const (
	KindCategory ResourceKind = "category"
	KindGenre    ResourceKind = "genre"
	KindTitle    ResourceKind = "title"
	KindReview   ResourceKind = "review"
	KindComment  ResourceKind = "comment"
	KindUser     ResourceKind = "user"
)

// SafeMethod reports whether the HTTP method is read-only.
func SafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// CanAttempt is the route-level check, evaluated before any storage fetch so
// a denied subject learns nothing about resource existence.
//
// Catalog kinds (category/genre/title) are world-readable, admin-writable.
// Review and comment kinds are world-readable; any authenticated subject may
// attempt a write (ownership is settled by CanActOn afterwards). The user
// kind is admin-only in both directions - the /users/me path bypasses this
// check by design.
func CanAttempt(s Subject, method string, kind ResourceKind) bool {
	switch kind {
	case KindCategory, KindGenre, KindTitle:
		return SafeMethod(method) || s.Role == RoleAdmin
	case KindReview, KindComment:
		return SafeMethod(method) || s.Authenticated()
	case KindUser:
		return s.Role == RoleAdmin
	}
	return false
}

// CanActOn is the object-level check for owned resources (reviews and
// comments): reads are open, writes need authorship or moderation rights.
func CanActOn(s Subject, method string, authorID uuid.UUID) bool {
	if SafeMethod(method) {
		return true
	}
	if s.Authenticated() && s.UserID == authorID {
		return true
	}
	return s.Role.CanModerate()
}

// IsAdmin is the strict check for the user-management resource.
func IsAdmin(s Subject) bool {
	return s.Role == RoleAdmin
}
