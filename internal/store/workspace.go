package store

import (
	"strings"

	"github.com/yukikurage/crewdesk-api/internal/models"
)

// Workspace is the in-memory object graph of one tenant. Slices keep
// insertion order, which is the order views are built in.
type Workspace struct {
	Tenant        models.Tenant
	Users         []models.User
	Teammates     []models.Teammate
	Tasks         []models.Task
	Notifications []models.Notification
}

// UserByID returns a pointer into ws.Users, or nil.
func (ws *Workspace) UserByID(id string) *models.User {
	for i := range ws.Users {
		if ws.Users[i].ID == id {
			return &ws.Users[i]
		}
	}
	return nil
}

// UserByUsername matches usernames case-insensitively.
func (ws *Workspace) UserByUsername(username string) *models.User {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil
	}
	for i := range ws.Users {
		if ws.Users[i].HasUsername(username) {
			return &ws.Users[i]
		}
	}
	return nil
}

// UserByTeammateID returns the user linked to a teammate record, or nil.
func (ws *Workspace) UserByTeammateID(teammateID string) *models.User {
	for i := range ws.Users {
		if ws.Users[i].IsTeammateOf(teammateID) {
			return &ws.Users[i]
		}
	}
	return nil
}

// Admin returns the first admin user of the tenant.
func (ws *Workspace) Admin() *models.User {
	for i := range ws.Users {
		if ws.Users[i].Role.Normalize() == models.RoleAdmin {
			return &ws.Users[i]
		}
	}
	return nil
}

func (ws *Workspace) TeammateByID(id string) *models.Teammate {
	for i := range ws.Teammates {
		if ws.Teammates[i].ID == id {
			return &ws.Teammates[i]
		}
	}
	return nil
}

func (ws *Workspace) TaskByID(id string) *models.Task {
	for i := range ws.Tasks {
		if ws.Tasks[i].ID == id {
			return &ws.Tasks[i]
		}
	}
	return nil
}

func (ws *Workspace) NotificationByID(id string) *models.Notification {
	for i := range ws.Notifications {
		if ws.Notifications[i].ID == id {
			return &ws.Notifications[i]
		}
	}
	return nil
}

// UsernameTaken reports whether any user of the tenant already uses username.
func (ws *Workspace) UsernameTaken(username string) bool {
	return ws.UserByUsername(username) != nil
}

// Clone returns a deep copy, so a write can be staged and thrown away.
func (ws *Workspace) Clone() *Workspace {
	out := &Workspace{
		Tenant:        ws.Tenant,
		Users:         make([]models.User, len(ws.Users)),
		Teammates:     make([]models.Teammate, len(ws.Teammates)),
		Tasks:         make([]models.Task, len(ws.Tasks)),
		Notifications: make([]models.Notification, len(ws.Notifications)),
	}

	for i, u := range ws.Users {
		u.TeammateID = cloneString(u.TeammateID)
		out.Users[i] = u
	}
	for i, t := range ws.Teammates {
		t.ManagerID = cloneString(t.ManagerID)
		out.Teammates[i] = t
	}
	for i, t := range ws.Tasks {
		out.Tasks[i] = CloneTask(t)
	}
	copy(out.Notifications, ws.Notifications)

	return out
}

// CloneTask deep-copies a task including its steps and comments.
func CloneTask(t models.Task) models.Task {
	t.AssigneeID = cloneString(t.AssigneeID)
	t.DueDate = cloneTime(t.DueDate)
	t.CompletedAt = cloneTime(t.CompletedAt)
	t.Steps = append([]models.TaskStep(nil), t.Steps...)
	t.Comments = append([]models.Comment(nil), t.Comments...)
	return t
}
