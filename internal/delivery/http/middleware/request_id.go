package middleware

import (
	"context"

	"portfolio-backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = string(domain.KeyRequestID)

// RequestID tags each request with an ID, reusing a sane inbound X-Request-ID.
// The ID is stored on the gin context, the request context and the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(domain.RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}

		c.Set(requestIDKey, id)
		c.Header(domain.RequestIDHeader, id)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), domain.KeyRequestID, id))

		c.Next()
	}
}
