package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/crewdesk-api/internal/constants"
	apierrors "github.com/yukikurage/crewdesk-api/internal/errors"
	"github.com/yukikurage/crewdesk-api/internal/services"
)

// RequireAuth checks if the user is authenticated via session
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, _ := session.Get(constants.ContextKeyUserID).(string)
		tenantID, _ := session.Get(constants.ContextKeyTenantID).(string)

		if userID == "" || tenantID == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Store the actor in context for easy access in handlers
		c.Set(constants.ContextKeyActor, services.Actor{TenantID: tenantID, UserID: userID})
		c.Next()
	}
}

// GetActor retrieves the signed-in actor from context
func GetActor(c *gin.Context) (services.Actor, bool) {
	value, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return services.Actor{}, false
	}
	actor, ok := value.(services.Actor)
	return actor, ok
}
