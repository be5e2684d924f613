package middleware

import (
	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // Request ID generation
	"github.com/sirupsen/logrus" // Logging
)

const (
	RequestIDHeader = "X-Request-ID" // Propagated or generated request ID
	RequestIDKey    = "requestID"    // gin context key
)

// RequestID reuses an incoming X-Request-ID or generates one, and echoes it
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString() // Replace missing or malformed IDs
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Logger returns a log entry tagged with the request ID
func Logger(c *gin.Context) *logrus.Entry {
	return logrus.WithField("request_id", c.GetString(RequestIDKey))
}
