package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(fn func(c *gin.Context)) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	fn(c)
	return rec
}

func TestSuccessEnvelope(t *testing.T) {
	rec := record(func(c *gin.Context) {
		SuccessWithMeta(c, http.StatusOK, []string{"a", "b"}, &Meta{Page: 2, Limit: 10, Total: 42})
	})

	assert.Equal(t, http.StatusOK, rec.Code)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Nil(t, env.Error)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 42, env.Meta.Total)
}

func TestErrorEnvelope(t *testing.T) {
	cases := []struct {
		fn     func(c *gin.Context)
		status int
		code   string
	}{
		{func(c *gin.Context) { BadRequest(c, "nope") }, http.StatusBadRequest, "BAD_REQUEST"},
		{func(c *gin.Context) { Unauthorized(c, "nope") }, http.StatusUnauthorized, "UNAUTHORIZED"},
		{func(c *gin.Context) { Forbidden(c, "nope") }, http.StatusForbidden, "FORBIDDEN"},
		{func(c *gin.Context) { NotFound(c, "nope") }, http.StatusNotFound, "NOT_FOUND"},
		{func(c *gin.Context) { InternalServerError(c, "nope") }, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tc := range cases {
		rec := record(tc.fn)
		assert.Equal(t, tc.status, rec.Code, tc.code)

		var env Envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		assert.False(t, env.Success)
		require.NotNil(t, env.Error, tc.code)
		assert.Equal(t, tc.code, env.Error.Code)
		assert.Equal(t, "nope", env.Error.Message)
	}
}
