package services

import (
	"context"

	"github.com/yukikurage/crewdesk-api/internal/models"
	"github.com/yukikurage/crewdesk-api/internal/notify"
	"github.com/yukikurage/crewdesk-api/internal/store"
	"github.com/yukikurage/crewdesk-api/internal/utils"
)

var ErrNotificationNotFound = notify.ErrNotificationNotFound

// NotificationService serves the actor's inbox.
type NotificationService struct {
	store *store.Store
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(s *store.Store) *NotificationService {
	return &NotificationService{store: s}
}

// ListNotificationsInput represents filters for the inbox
type ListNotificationsInput struct {
	UnreadOnly bool
	Pagination utils.PaginationParams
}

// ListNotifications returns one page of the actor's inbox, newest first, and
// the total number of matching notifications.
func (s *NotificationService) ListNotifications(ctx context.Context, actor Actor, input ListNotificationsInput) ([]models.Notification, int, error) {
	var (
		page  []models.Notification
		total int
	)
	err := s.store.Read(ctx, actor.TenantID, func(ws *store.Workspace) error {
		user, err := actorIn(ws, actor)
		if err != nil {
			return err
		}

		inbox := notify.Inbox(ws.Notifications, user.ID, input.UnreadOnly)
		total = len(inbox)
		page = utils.Paginate(inbox, input.Pagination)
		return nil
	})
	return page, total, err
}

// UnreadCount returns the number of unread notifications of the actor.
func (s *NotificationService) UnreadCount(ctx context.Context, actor Actor) (int, error) {
	var count int
	err := s.store.Read(ctx, actor.TenantID, func(ws *store.Workspace) error {
		user, err := actorIn(ws, actor)
		if err != nil {
			return err
		}
		count = notify.UnreadCount(ws.Notifications, user.ID)
		return nil
	})
	return count, err
}

// MarkRead marks one of the actor's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, actor Actor, notificationID string) (*models.Notification, error) {
	var updated models.Notification
	err := s.store.Write(ctx, actor.TenantID, func(ws *store.Workspace) error {
		user, err := actorIn(ws, actor)
		if err != nil {
			return err
		}
		n, err := notify.MarkRead(ws, user.ID, notificationID)
		if err != nil {
			return err
		}
		updated = *n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// MarkAllRead marks every notification of the actor as read and returns how
// many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, actor Actor) (int, error) {
	var changed int
	err := s.store.Write(ctx, actor.TenantID, func(ws *store.Workspace) error {
		user, err := actorIn(ws, actor)
		if err != nil {
			return err
		}
		changed = notify.MarkAllRead(ws, user.ID)
		return nil
	})
	return changed, err
}
