package notify

import (
	"github.com/yukikurage/crewdesk-api/internal/models"
	"github.com/yukikurage/crewdesk-api/internal/store"
)

// AssigneeUser resolves a teammate id to its active user. Inconsistent data
// (no linked user, or a deactivated one) resolves to nil.
func AssigneeUser(ws *store.Workspace, teammateID string) *models.User {
	user := ws.UserByTeammateID(teammateID)
	if user == nil || !user.IsActive {
		return nil
	}
	return user
}

// DirectManager resolves the teammate's managerId to an active user.
func DirectManager(ws *store.Workspace, teammate models.Teammate) *models.User {
	if teammate.ManagerID == nil {
		return nil
	}
	manager := ws.UserByID(*teammate.ManagerID)
	if manager == nil || !manager.IsActive {
		return nil
	}
	return manager
}

// CommentRecipients decides who hears about a new comment: everyone involved
// in the task except the author. That is the assignee, the assignee's direct
// manager and, for tasks nobody is assigned to, the admin.
func CommentRecipients(ws *store.Workspace, task models.Task, authorID string) []*models.User {
	var candidates []*models.User
	if task.AssigneeID != nil {
		candidates = append(candidates, AssigneeUser(ws, *task.AssigneeID))
		if teammate := ws.TeammateByID(*task.AssigneeID); teammate != nil {
			candidates = append(candidates, DirectManager(ws, *teammate))
		}
	} else {
		candidates = append(candidates, ws.Admin())
	}

	out := make([]*models.User, 0, len(candidates))
	for _, user := range candidates {
		if user != nil && user.ID != authorID {
			out = append(out, user)
		}
	}
	return out
}
