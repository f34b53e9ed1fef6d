package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookreview-backend/internal/shared"
)

const RequestIDHeader = "X-Request-ID"

// RequestID honours an incoming X-Request-ID or generates one, and echoes it back
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}

		c.Set(shared.ContextKeyRequestID, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
