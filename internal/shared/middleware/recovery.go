package middleware

import (
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"reviewdb-backend/internal/shared/response"
)

// Recovery turns a handler panic into a 500 in the standard envelope instead
// of a dropped connection. The stack goes to the log, never to the client.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString("request_id")).
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				response.InternalServerError(c, "internal server error")
				c.Abort()
			}
		}()

		c.Next()
	}
}
