package permission

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func subject(role Role) Subject {
	return Subject{UserID: uuid.New(), Username: string(role) + "-1", Role: role}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"user", "moderator", "admin"} {
		role, err := ParseRole(valid)
		assert.NoError(t, err)
		assert.Equal(t, Role(valid), role)
	}

	for _, invalid := range []string{"", "anonymous", "superuser", "Admin"} {
		_, err := ParseRole(invalid)
		assert.Error(t, err, "role %q should not parse", invalid)
	}
}

func TestCanAttemptCatalog(t *testing.T) {
	kinds := []ResourceKind{KindCategory, KindGenre, KindTitle}

	for _, kind := range kinds {
		// Safe methods are open to everyone, anonymous included.
		for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
			assert.True(t, CanAttempt(Anonymous(), method, kind))
			assert.True(t, CanAttempt(subject(RoleUser), method, kind))
		}

		// Writes are admin-only.
		for _, method := range []string{http.MethodPost, http.MethodPatch, http.MethodDelete} {
			assert.False(t, CanAttempt(Anonymous(), method, kind))
			assert.False(t, CanAttempt(subject(RoleUser), method, kind))
			assert.False(t, CanAttempt(subject(RoleModerator), method, kind))
			assert.True(t, CanAttempt(subject(RoleAdmin), method, kind))
		}
	}
}

func TestCanAttemptReviewsAndComments(t *testing.T) {
	for _, kind := range []ResourceKind{KindReview, KindComment} {
		assert.True(t, CanAttempt(Anonymous(), http.MethodGet, kind))
		assert.False(t, CanAttempt(Anonymous(), http.MethodPost, kind))

		// Any authenticated subject may attempt a write; ownership is
		// checked at the object level.
		assert.True(t, CanAttempt(subject(RoleUser), http.MethodPost, kind))
		assert.True(t, CanAttempt(subject(RoleModerator), http.MethodDelete, kind))
	}
}

func TestCanAttemptUserManagement(t *testing.T) {
	assert.False(t, CanAttempt(Anonymous(), http.MethodGet, KindUser))
	assert.False(t, CanAttempt(subject(RoleUser), http.MethodGet, KindUser))
	assert.False(t, CanAttempt(subject(RoleModerator), http.MethodPost, KindUser))
	assert.True(t, CanAttempt(subject(RoleAdmin), http.MethodGet, KindUser))
	assert.True(t, CanAttempt(subject(RoleAdmin), http.MethodDelete, KindUser))
}

func TestCanActOn(t *testing.T) {
	author := subject(RoleUser)
	otherUser := subject(RoleUser)
	moderator := subject(RoleModerator)
	admin := subject(RoleAdmin)

	// Reads are open regardless of ownership.
	assert.True(t, CanActOn(Anonymous(), http.MethodGet, author.UserID))
	assert.True(t, CanActOn(otherUser, http.MethodGet, author.UserID))

	// The author may modify their own resource.
	assert.True(t, CanActOn(author, http.MethodPatch, author.UserID))
	assert.True(t, CanActOn(author, http.MethodDelete, author.UserID))

	// A different plain user may not.
	assert.False(t, CanActOn(otherUser, http.MethodPatch, author.UserID))
	assert.False(t, CanActOn(otherUser, http.MethodDelete, author.UserID))

	// Moderators and admins may act on anyone's resource.
	assert.True(t, CanActOn(moderator, http.MethodPatch, author.UserID))
	assert.True(t, CanActOn(moderator, http.MethodDelete, author.UserID))
	assert.True(t, CanActOn(admin, http.MethodDelete, author.UserID))

	// Anonymous never writes.
	assert.False(t, CanActOn(Anonymous(), http.MethodDelete, author.UserID))
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, IsAdmin(subject(RoleAdmin)))
	assert.False(t, IsAdmin(subject(RoleModerator)))
	assert.False(t, IsAdmin(subject(RoleUser)))
	assert.False(t, IsAdmin(Anonymous()))
}
