package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/yukikurage/crewdesk-api/internal/models"
	"github.com/yukikurage/crewdesk-api/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWorkspaceRepository is a GORM implementation of WorkspaceRepository
type GormWorkspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepository {
	return &GormWorkspaceRepository{db: db}
}

// LoadWorkspace loads the tenant and all of its collections
func (r *GormWorkspaceRepository) LoadWorkspace(ctx context.Context, tenantID string) (*store.Workspace, error) {
	db := r.db.WithContext(ctx)

	var tenant models.Tenant
	if err := db.Where("id = ?", tenantID).First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to load tenant: %w", err)
	}

	ws := &store.Workspace{Tenant: tenant}

	if err := db.Where("tenant_id = ?", tenantID).Order("position ASC").Find(&ws.Users).Error; err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	if err := db.Where("tenant_id = ?", tenantID).Order("position ASC").Find(&ws.Teammates).Error; err != nil {
		return nil, fmt.Errorf("failed to load teammates: %w", err)
	}

	err := db.Where("tenant_id = ?", tenantID).
		Preload("Steps", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		Preload("Comments", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("position ASC")
		}).
		Order("position ASC").
		Find(&ws.Tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	if err := db.Where("tenant_id = ?", tenantID).Order("position ASC").Find(&ws.Notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}

	return ws, nil
}

// SaveWorkspace replaces every persisted row of the tenant with the contents of ws
func (r *GormWorkspaceRepository) SaveWorkspace(ctx context.Context, ws *store.Workspace) error {
	tenantID := ws.Tenant.ID
	rows := flatten(ws)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&rows.tenant).Error; err != nil {
			return fmt.Errorf("failed to save tenant: %w", err)
		}

		// Steps and comments are keyed by task, so clear them before the tasks go
		var taskIDs []string
		if err := tx.Model(&models.Task{}).Where("tenant_id = ?", tenantID).Pluck("id", &taskIDs).Error; err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		if len(taskIDs) > 0 {
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskStep{}).Error; err != nil {
				return fmt.Errorf("failed to clear task steps: %w", err)
			}
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.Comment{}).Error; err != nil {
				return fmt.Errorf("failed to clear comments: %w", err)
			}
		}

		for _, model := range []interface{}{&models.Task{}, &models.Notification{}, &models.Teammate{}, &models.User{}} {
			if err := tx.Where("tenant_id = ?", tenantID).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to clear tenant rows: %w", err)
			}
		}

		if len(rows.users) > 0 {
			if err := tx.Create(&rows.users).Error; err != nil {
				return fmt.Errorf("failed to save users: %w", err)
			}
		}
		if len(rows.teammates) > 0 {
			if err := tx.Create(&rows.teammates).Error; err != nil {
				return fmt.Errorf("failed to save teammates: %w", err)
			}
		}
		if len(rows.tasks) > 0 {
			if err := tx.Omit(clause.Associations).Create(&rows.tasks).Error; err != nil {
				return fmt.Errorf("failed to save tasks: %w", err)
			}
		}
		if len(rows.steps) > 0 {
			if err := tx.Create(&rows.steps).Error; err != nil {
				return fmt.Errorf("failed to save task steps: %w", err)
			}
		}
		if len(rows.comments) > 0 {
			if err := tx.Create(&rows.comments).Error; err != nil {
				return fmt.Errorf("failed to save comments: %w", err)
			}
		}
		if len(rows.notifications) > 0 {
			if err := tx.Create(&rows.notifications).Error; err != nil {
				return fmt.Errorf("failed to save notifications: %w", err)
			}
		}

		return nil
	})
}

// ListTenantIDs lists the ids of every persisted tenant
func (r *GormWorkspaceRepository) ListTenantIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&models.Tenant{}).Order("created_at ASC").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	return ids, nil
}

type workspaceRows struct {
	tenant        models.Tenant
	users         []models.User
	teammates     []models.Teammate
	tasks         []models.Task
	steps         []models.TaskStep
	comments      []models.Comment
	notifications []models.Notification
}

// flatten copies ws into insertable rows, recording each row's position in
// its collection so LoadWorkspace can restore the order.
func flatten(ws *store.Workspace) workspaceRows {
	rows := workspaceRows{tenant: ws.Tenant}

	for i, u := range ws.Users {
		u.Position = i
		rows.users = append(rows.users, u)
	}
	for i, tm := range ws.Teammates {
		tm.Position = i
		rows.teammates = append(rows.teammates, tm)
	}
	for i, task := range ws.Tasks {
		for j, step := range task.Steps {
			step.TaskID = task.ID
			step.Position = j
			rows.steps = append(rows.steps, step)
		}
		for j, comment := range task.Comments {
			comment.TaskID = task.ID
			comment.Position = j
			rows.comments = append(rows.comments, comment)
		}
		task.Position = i
		task.Steps = nil
		task.Comments = nil
		rows.tasks = append(rows.tasks, task)
	}
	for i, n := range ws.Notifications {
		n.Position = i
		rows.notifications = append(rows.notifications, n)
	}

	return rows
}
