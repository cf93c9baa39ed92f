package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/crewdesk-api/internal/constants"
	"github.com/yukikurage/crewdesk-api/internal/logger"
	"go.uber.org/zap"
)

// RequestID tags each request with an id and a logger carrying it. An id
// sent by the client is kept.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Writer.Header().Set(constants.HeaderRequestID, requestID)
		c.Set(constants.ContextKeyRequestID, requestID)

		log := logger.GetLogger().With(zap.String("request_id", requestID))
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), log))

		c.Next()
	}
}
