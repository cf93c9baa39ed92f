package handlers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/crewdesk-api/internal/constants"
	apierrors "github.com/yukikurage/crewdesk-api/internal/errors"
	"github.com/yukikurage/crewdesk-api/internal/hierarchy"
	"github.com/yukikurage/crewdesk-api/internal/lifecycle"
	"github.com/yukikurage/crewdesk-api/internal/logger"
	"github.com/yukikurage/crewdesk-api/internal/middleware"
	"github.com/yukikurage/crewdesk-api/internal/services"
	"go.uber.org/zap"
)

// respondError maps service errors to API errors.
func respondError(c *gin.Context, err error) {
	switch {
	// Authentication
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, "Invalid username or password")
	case errors.Is(err, services.ErrAccountDisabled):
		apierrors.AccountDisabled(c, "Your account has been disabled")
	case errors.Is(err, services.ErrTenantNotFound):
		apierrors.TenantNotFound(c, "Workspace not found")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.Unauthorized(c, "Session is no longer valid")

	// Validation
	case errors.Is(err, services.ErrMissingField):
		apierrors.MissingField(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrInvalidManager),
		errors.Is(err, services.ErrInvalidOnboardRole),
		errors.Is(err, services.ErrInvalidAssignee),
		errors.Is(err, services.ErrRawInputRequired),
		errors.Is(err, lifecycle.ErrNoSteps),
		errors.Is(err, lifecycle.ErrTitleRequired),
		errors.Is(err, lifecycle.ErrEmptyComment),
		errors.Is(err, hierarchy.ErrMalformedFile):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, hierarchy.ErrMissingHeader),
		errors.Is(err, hierarchy.ErrMalformedHeader):
		apierrors.BadRequestWithDetails(c, err.Error(), gin.H{"columns": hierarchy.Header})

	// Access and lookups
	case errors.Is(err, services.ErrForbidden):
		apierrors.Forbidden(c, "You do not have permission to perform this action")
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrTeammateNotFound),
		errors.Is(err, services.ErrNotificationNotFound),
		errors.Is(err, lifecycle.ErrStepNotFound):
		apierrors.NotFound(c, err.Error())

	// Distillation
	case errors.Is(err, services.ErrDistillationFailed):
		apierrors.DistillationFailed(c, "Could not turn the description into steps, please try again")
	case errors.Is(err, services.ErrDistillerNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())

	default:
		logger.FromGin(c).Error("Request failed", zap.Error(err))
		apierrors.InternalError(c, "Internal server error")
	}
}

// requireActor returns the signed-in actor or responds with 401.
func requireActor(c *gin.Context) (services.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
	}
	return actor, ok
}
