// Package notify turns task lifecycle events into notification records.
package notify

import (
	"fmt"
	"time"

	"github.com/yukikurage/crewdesk-api/internal/clock"
	"github.com/yukikurage/crewdesk-api/internal/models"
)

// Dispatcher computes recipients and builds notifications. It does not store
// them; callers append the returned records to the workspace.
type Dispatcher struct {
	clock clock.Clock
	newID clock.IDFunc
}

func NewDispatcher(c clock.Clock, newID clock.IDFunc) *Dispatcher {
	if c == nil {
		c = clock.System
	}
	if newID == nil {
		newID = clock.NewID
	}
	return &Dispatcher{clock: c, newID: newID}
}

// OnAssigned notifies the assignee. A missing or inactive user yields no
// notification and no error.
func (d *Dispatcher) OnAssigned(task models.Task, assignee *models.User) []models.Notification {
	if assignee == nil || !assignee.IsActive {
		return nil
	}

	now := d.clock.Now()
	return []models.Notification{
		d.build(task, assignee.ID, models.NotificationTaskAssigned,
			"New task assigned",
			fmt.Sprintf("You have been assigned %q.", task.Title),
			now),
	}
}

// OnCompleted notifies the completing teammate's direct manager and the
// tenant admin. The two recipients are not deduplicated: a manager who is also
// the admin receives two notifications.
func (d *Dispatcher) OnCompleted(task models.Task, teammate models.Teammate, manager, admin *models.User) []models.Notification {
	now := d.clock.Now()
	message := completionMessage(task, teammate)

	var out []models.Notification
	if manager != nil && manager.IsActive {
		out = append(out, d.build(task, manager.ID, models.NotificationTaskCompleted, "Task completed", message, now))
	}
	if admin != nil {
		out = append(out, d.build(task, admin.ID, models.NotificationTaskCompleted, "Task completed", message, now))
	}
	return out
}

// OnCommentAdded notifies each active recipient once.
func (d *Dispatcher) OnCommentAdded(task models.Task, comment models.Comment, recipients ...*models.User) []models.Notification {
	now := d.clock.Now()
	message := fmt.Sprintf("%s commented on %q: %s", comment.AuthorName, task.Title, comment.Text)

	seen := make(map[string]struct{}, len(recipients))
	var out []models.Notification
	for _, user := range recipients {
		if user == nil || !user.IsActive {
			continue
		}
		if _, dup := seen[user.ID]; dup {
			continue
		}
		seen[user.ID] = struct{}{}
		out = append(out, d.build(task, user.ID, models.NotificationCommentAdded, "New comment", message, now))
	}
	return out
}

func (d *Dispatcher) build(task models.Task, userID string, kind models.NotificationType, title, message string, now time.Time) models.Notification {
	return models.Notification{
		ID:            d.newID(),
		TenantID:      task.TenantID,
		UserID:        userID,
		Title:         title,
		Message:       message,
		Type:          kind,
		RelatedTaskID: task.ID,
		IsRead:        false,
		Timestamp:     now,
	}
}

func completionMessage(task models.Task, teammate models.Teammate) string {
	if teammate.Name == "" {
		return fmt.Sprintf("%q has been completed.", task.Title)
	}
	return fmt.Sprintf("%s completed %q.", teammate.Name, task.Title)
}
