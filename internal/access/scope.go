// Package access derives what a user may see inside their own tenant.
//
// Every function here is pure and expects its inputs to be already filtered
// to the caller's tenant.
package access

import "github.com/yukikurage/crewdesk-api/internal/models"

// VisibleTasks returns the tasks user may see, in input order.
func VisibleTasks(user models.User, tasks []models.Task, teammates []models.Teammate) []models.Task {
	visible := make([]models.Task, 0, len(tasks))
	reports := directReportIDs(user, teammates)
	for _, task := range tasks {
		if canView(user, task, reports) {
			visible = append(visible, task)
		}
	}
	return visible
}

// CanViewTask is the single-task form of VisibleTasks.
func CanViewTask(user models.User, task models.Task, teammates []models.Teammate) bool {
	return canView(user, task, directReportIDs(user, teammates))
}

// VisibleTeammates returns the directory entries user may see. Managers see
// their direct reports only; the hierarchy is not walked transitively.
func VisibleTeammates(user models.User, teammates []models.Teammate) []models.Teammate {
	switch user.Role.Normalize() {
	case models.RoleAdmin:
		return append([]models.Teammate{}, teammates...)
	case models.RoleManager:
		return filterTeammates(teammates, func(t models.Teammate) bool {
			return t.ReportsTo(user.ID)
		})
	default:
		return []models.Teammate{}
	}
}

// AvailableAssignees lists the active teammates user may assign work to.
func AvailableAssignees(user models.User, teammates []models.Teammate) []models.Teammate {
	switch user.Role.Normalize() {
	case models.RoleAdmin:
		return filterTeammates(teammates, func(t models.Teammate) bool {
			return t.IsActive
		})
	case models.RoleManager:
		return filterTeammates(teammates, func(t models.Teammate) bool {
			return t.IsActive && t.ReportsTo(user.ID)
		})
	default:
		return []models.Teammate{}
	}
}

// CanAssign reports whether teammateID is among user's available assignees.
func CanAssign(user models.User, teammateID string, teammates []models.Teammate) bool {
	for _, t := range AvailableAssignees(user, teammates) {
		if t.ID == teammateID {
			return true
		}
	}
	return false
}

func canView(user models.User, task models.Task, reports map[string]struct{}) bool {
	switch user.Role.Normalize() {
	case models.RoleAdmin:
		return true
	case models.RoleManager:
		if task.AssigneeID == nil {
			return false
		}
		if user.IsTeammateOf(*task.AssigneeID) {
			return true
		}
		_, ok := reports[*task.AssigneeID]
		return ok
	default:
		return user.TeammateID != nil && task.IsAssignedTo(*user.TeammateID)
	}
}

// directReportIDs is only populated for managers.
func directReportIDs(user models.User, teammates []models.Teammate) map[string]struct{} {
	ids := make(map[string]struct{})
	if user.Role.Normalize() != models.RoleManager {
		return ids
	}
	for _, t := range teammates {
		if t.ReportsTo(user.ID) {
			ids[t.ID] = struct{}{}
		}
	}
	return ids
}

func filterTeammates(teammates []models.Teammate, keep func(models.Teammate) bool) []models.Teammate {
	out := make([]models.Teammate, 0, len(teammates))
	for _, t := range teammates {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
