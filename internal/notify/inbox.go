package notify

import (
	"errors"
	"sort"

	"github.com/yukikurage/crewdesk-api/internal/models"
	"github.com/yukikurage/crewdesk-api/internal/store"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Inbox returns userID's notifications, most recent first. Records with the
// same timestamp keep reverse insertion order.
func Inbox(notifications []models.Notification, userID string, unreadOnly bool) []models.Notification {
	out := make([]models.Notification, 0)
	for i := len(notifications) - 1; i >= 0; i-- {
		n := notifications[i]
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// UnreadCount drives the badge shown next to the inbox.
func UnreadCount(notifications []models.Notification, userID string) int {
	count := 0
	for _, n := range notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count
}

// MarkRead flips one of userID's notifications to read. Notifications of
// other users are reported as not found.
func MarkRead(ws *store.Workspace, userID, notificationID string) (*models.Notification, error) {
	n := ws.NotificationByID(notificationID)
	if n == nil || n.UserID != userID {
		return nil, ErrNotificationNotFound
	}
	n.IsRead = true
	return n, nil
}

// MarkAllRead returns how many notifications changed.
func MarkAllRead(ws *store.Workspace, userID string) int {
	changed := 0
	for i := range ws.Notifications {
		n := &ws.Notifications[i]
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			changed++
		}
	}
	return changed
}
