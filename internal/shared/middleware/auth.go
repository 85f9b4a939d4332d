package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"reviewdb-backend/internal/shared/permission"
	"reviewdb-backend/internal/shared/response"
	"reviewdb-backend/pkg/jwt"
)

const subjectKey = "subject"

// GetSubject returns the requesting principal set by the auth middleware.
// Routes without auth middleware see the anonymous subject.
func GetSubject(c *gin.Context) permission.Subject {
	if v, exists := c.Get(subjectKey); exists {
		if s, ok := v.(permission.Subject); ok {
			return s
		}
	}
	return permission.Anonymous()
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

func subjectFromClaims(claims *jwt.Claims) (permission.Subject, bool) {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return permission.Subject{}, false
	}
	role, err := permission.ParseRole(claims.Role)
	if err != nil {
		return permission.Subject{}, false
	}
	return permission.Subject{
		UserID:   userID,
		Username: claims.Username,
		Role:     role,
	}, true
}

// RequireAuth rejects requests without a valid bearer token and stores the
// authenticated subject on the context.
func RequireAuth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, "missing or malformed authorization header")
			c.Abort()
			return
		}

		claims, err := manager.ValidateToken(token)
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		subject, ok := subjectFromClaims(claims)
		if !ok {
			response.Unauthorized(c, "invalid token claims")
			c.Abort()
			return
		}

		c.Set(subjectKey, subject)
		c.Next()
	}
}

// OptionalAuth resolves a subject when a token is presented but lets
// anonymous requests through. A presented-but-invalid token is still a 401:
// silently downgrading it to anonymous would mask expiry bugs on the client.
func OptionalAuth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Set(subjectKey, permission.Anonymous())
			c.Next()
			return
		}

		claims, err := manager.ValidateToken(token)
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		subject, ok := subjectFromClaims(claims)
		if !ok {
			response.Unauthorized(c, "invalid token claims")
			c.Abort()
			return
		}

		c.Set(subjectKey, subject)
		c.Next()
	}
}

// Attempt is the route-level permission gate. It runs after an auth
// middleware and consults the evaluator before any storage fetch, so a
// denied subject learns nothing about resource existence. Anonymous denials
// map to 401, authenticated ones to 403.
func Attempt(kind permission.ResourceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := GetSubject(c)
		if !permission.CanAttempt(subject, c.Request.Method, kind) {
			if !subject.Authenticated() {
				response.Unauthorized(c, "authentication required")
			} else {
				response.Forbidden(c, "insufficient role for this operation")
			}
			c.Abort()
			return
		}
		c.Next()
	}
}

// AnonymousOnly rejects already-authenticated callers on the signup and
// token-exchange endpoints.
func AnonymousOnly(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}
		if _, err := manager.ValidateToken(token); err == nil {
			response.BadRequest(c, "endpoint is for anonymous callers only")
			c.Abort()
			return
		}
		c.Next()
	}
}
