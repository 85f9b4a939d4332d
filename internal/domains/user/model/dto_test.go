package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	valid := []string{"alice", "Bob_42", "user.name", "a+b@c-d"}
	for _, username := range valid {
		assert.NoError(t, ValidateUsername(username), username)
	}

	invalid := []string{
		"",
		"me", // reserved by the /users/me route
		"has space",
		"weird!char",
	}
	for _, username := range invalid {
		assert.Error(t, ValidateUsername(username), username)
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"alice@example.com",
		"alice@Example.COM",
		"Alice@Example.COM",
		"first.last+tag@sub.example.org",
	}
	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), email)
	}

	invalid := []string{"", "not-an-email", "a@b", "@example.com"}
	for _, email := range invalid {
		assert.Error(t, ValidateEmail(email), email)
	}
}

func TestCreateUserRequest_MixedCaseEmail(t *testing.T) {
	req := CreateUserRequest{Username: "alice", Email: "Alice@Example.COM"}
	assert.NoError(t, req.Validate())
}

func TestCreateUserRequest_Role(t *testing.T) {
	base := CreateUserRequest{Username: "alice", Email: "alice@example.com"}

	for _, role := range []string{"", "user", "moderator", "admin"} {
		req := base
		req.Role = role
		assert.NoError(t, req.Validate(), role)
	}

	for _, role := range []string{"anonymous", "superuser", "ADMIN"} {
		req := base
		req.Role = role
		assert.Error(t, req.Validate(), role)
	}
}

func TestListUsersRequest_Normalization(t *testing.T) {
	req := ListUsersRequest{Page: -3, Limit: 10000}
	assert.NoError(t, req.Validate())
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, 20, req.Limit)
}
