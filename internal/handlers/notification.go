package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/crewdesk-api/internal/dto"
	"github.com/yukikurage/crewdesk-api/internal/services"
	"github.com/yukikurage/crewdesk-api/internal/utils"
)

// NotificationHandler serves the current user's inbox.
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// ListNotifications returns the inbox, newest first. ?unread=true limits it
// to unread notifications.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	notifications, total, err := h.notificationService.ListNotifications(c.Request.Context(), actor, services.ListNotificationsInput{
		UnreadOnly: c.Query("unread") == "true",
		Pagination: params,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToNotificationListResponse(notifications, params, total))
}

// UnreadCount returns the badge count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	count, err := h.notificationService.UnreadCount(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// MarkRead marks one notification as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	n, err := h.notificationService.MarkRead(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToNotificationDTO(*n))
}

// MarkAllRead marks the whole inbox as read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	changed, err := h.notificationService.MarkAllRead(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": changed})
}
