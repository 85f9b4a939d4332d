// Package response renders the JSON envelope every endpoint replies with:
//
//	{"success": true, "data": ..., "meta": {...}}
//	{"success": false, "error": {"code": ..., "message": ..., "details": ...}}
//
// Handlers never call c.JSON directly; going through these helpers keeps the
// envelope uniform across domains.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Error carries a stable machine-readable code alongside the human message.
type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Meta describes the page a list response was cut from.
type Meta struct {
	Page  int `json:"page,omitempty"`
	Limit int `json:"limit,omitempty"`
	Total int `json:"total,omitempty"`
}

func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

func SuccessWithMeta(c *gin.Context, status int, data interface{}, meta *Meta) {
	c.JSON(status, Envelope{Success: true, Data: data, Meta: meta})
}

func fail(c *gin.Context, status int, code, message string, details interface{}) {
	c.JSON(status, Envelope{
		Success: false,
		Error:   &Error{Code: code, Message: message, Details: details},
	})
}

// ErrorWithDetails is for errors that carry structure worth exposing, like
// per-field validation failures.
func ErrorWithDetails(c *gin.Context, status int, code, message string, details interface{}) {
	fail(c, status, code, message, details)
}

func BadRequest(c *gin.Context, message string) {
	fail(c, http.StatusBadRequest, "BAD_REQUEST", message, nil)
}

func Unauthorized(c *gin.Context, message string) {
	fail(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

func Forbidden(c *gin.Context, message string) {
	fail(c, http.StatusForbidden, "FORBIDDEN", message, nil)
}

func NotFound(c *gin.Context, message string) {
	fail(c, http.StatusNotFound, "NOT_FOUND", message, nil)
}

func InternalServerError(c *gin.Context, message string) {
	fail(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message, nil)
}
