package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/crewdesk-api/internal/access"
	"github.com/yukikurage/crewdesk-api/internal/clock"
	"github.com/yukikurage/crewdesk-api/internal/constants"
	"github.com/yukikurage/crewdesk-api/internal/lifecycle"
	"github.com/yukikurage/crewdesk-api/internal/logger"
	"github.com/yukikurage/crewdesk-api/internal/metrics"
	"github.com/yukikurage/crewdesk-api/internal/models"
	"github.com/yukikurage/crewdesk-api/internal/notify"
	"github.com/yukikurage/crewdesk-api/internal/store"
	"go.uber.org/zap"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrRawInputRequired    = errors.New("raw input is required")
	ErrInvalidAssignee     = errors.New("assignee is not available to this user")
	ErrDistillationFailed  = errors.New("task distillation failed")
	ErrDistillationNoSteps = errors.New("distillation produced no steps")
)

// TaskService handles task business logic
type TaskService struct {
	store          *store.Store
	distiller      Distiller
	dispatcher     *notify.Dispatcher
	clock          clock.Clock
	newID          clock.IDFunc
	distillTimeout time.Duration
}

// NewTaskService creates a new TaskService. A nil distiller disables
// distillation; tasks can still be created from explicit steps.
func NewTaskService(s *store.Store, distiller Distiller, c clock.Clock, newID clock.IDFunc, distillTimeout time.Duration) *TaskService {
	if c == nil {
		c = clock.System
	}
	if newID == nil {
		newID = clock.NewID
	}
	return &TaskService{
		store:          s,
		distiller:      distiller,
		dispatcher:     notify.NewDispatcher(c, newID),
		clock:          c,
		newID:          newID,
		distillTimeout: distillTimeout,
	}
}

// CreateTaskInput represents input for creating a task. When Steps is empty
// the steps are distilled from RawInput.
type CreateTaskInput struct {
	Title      string
	RawInput   string
	Steps      []string
	AssigneeID *string
	DueDate    *time.Time
	Priority   string
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status *models.TaskStatus
}

// Distill previews the checklist for a raw description without creating anything.
func (s *TaskService) Distill(ctx context.Context, actor Actor, raw string) (*Distillation, error) {
	if err := s.ensureAuthor(ctx, actor); err != nil {
		return nil, err
	}

	d, err := s.distill(ctx, raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateTask creates a pending task and notifies its assignee. Distillation
// runs before the tenant is locked; if it fails no task is created.
func (s *TaskService) CreateTask(ctx context.Context, actor Actor, input CreateTaskInput) (*models.Task, error) {
	if err := s.ensureAuthor(ctx, actor); err != nil {
		return nil, err
	}

	title := input.Title
	steps := input.Steps
	if len(steps) == 0 {
		d, err := s.distill(ctx, input.RawInput)
		if err != nil {
			return nil, err
		}
		steps = d.Steps
		if strings.TrimSpace(title) == "" {
			title = d.SuggestedTitle
		}
	}

	var task models.Task
	var notifications []models.Notification
	err := s.store.Write(ctx, actor.TenantID, func(ws *store.Workspace) error {
		user, err := actorIn(ws, actor)
		if err != nil {
			return err
		}
		if !user.Role.CanManage() {
			return ErrForbidden
		}
		if input.AssigneeID != nil && !access.CanAssign(*user, *input.AssigneeID, ws.Teammates) {
			return ErrInvalidAssignee
		}

		task, err = lifecycle.NewTask(lifecycle.NewTaskInput{
			TenantID:   ws.Tenant.ID,
			Title:      title,
			RawInput:   input.RawInput,
			Steps:      steps,
			AssigneeID: input.AssigneeID,
			DueDate:    input.DueDate,
			Priority:   models.ParsePriority(input.Priority),
		}, s.clock.Now(), s.newID)
		if err != nil {
			return err
		}
		ws.Tasks = append(ws.Tasks, task)

		if task.AssigneeID != nil {
			notifications = s.dispatcher.OnAssigned(task, notify.AssigneeUser(ws, *task.AssigneeID))
			ws.Notifications = append(ws.Notifications, notifications...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordNotifications(notifications)
	logger.FromContext(ctx).Info("Task created",
		zap.String("task_id", task.ID),
		zap.Int("steps", len(task.Steps)),
		zap.Int("notifications", len(notifications)),
	)
	return &task, nil
}

// ListTasks returns the tasks visible to the actor in workspace order
func (s *TaskService) ListTasks(ctx context.Context, actor Actor, input ListTasksInput) ([]models.Task, error) {
	var tasks []models.Task
	err := s.store.Read(ctx, actor.TenantID, func(ws *store.Workspace) error {
		user, err := actorIn(ws, actor)
		if err != nil {
			return err
		}

		visible := access.VisibleTasks(*user, ws.Tasks, ws.Teammates)
		tasks = make([]models.Task, 0, len(visible))
		for _, task := range visible {
			if input.Status != nil && task.Status != *input.Status {
				continue
			}
			tasks = append(tasks, store.CloneTask(task))
		}
		return nil
	})
	return tasks, err
}

// GetTask returns a task the actor can see. Tasks outside the actor's scope
// are reported as not found.
func (s *TaskService) GetTask(ctx context.Context, actor Actor, taskID string) (*models.Task, error) {
	var task models.Task
	err := s.store.Read(ctx, actor.TenantID, func(ws *store.Workspace) error {
		_, found, err := visibleTask(ws, actor, taskID)
		if err != nil {
			return err
		}
		task = store.CloneTask(*found)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// AssignTask hands a task to another teammate and notifies them.
func (s *TaskService) AssignTask(ctx context.Context, actor Actor, taskID, teammateID string) (*models.Task, error) {
	var task models.Task
	var notifications []models.Notification
	err := s.store.Write(ctx, actor.TenantID, func(ws *store.Workspace) error {
		user, found, err := visibleTask(ws, actor, taskID)
		if err != nil {
			return err
		}
		if !user.Role.CanManage() {
			return ErrForbidden
		}
		if !access.CanAssign(*user, teammateID, ws.Teammates) {
			return ErrInvalidAssignee
		}

		assignee := teammateID
		found.AssigneeID = &assignee
		notifications = s.dispatcher.OnAssigned(*found, notify.AssigneeUser(ws, teammateID))
		ws.Notifications = append(ws.Notifications, notifications...)
		task = store.CloneTask(*found)
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordNotifications(notifications)
	return &task, nil
}

// ToggleStep flips a step on a visible task. Completing the last open step
// notifies the assignee's manager and the admin.
func (s *TaskService) ToggleStep(ctx context.Context, actor Actor, taskID, stepID string) (*models.Task, lifecycle.Transition, error) {
	var (
		task          models.Task
		transition    lifecycle.Transition
		notifications []models.Notification
	)
	err := s.store.Write(ctx, actor.TenantID, func(ws *store.Workspace) error {
		_, found, err := visibleTask(ws, actor, taskID)
		if err != nil {
			return err
		}

		transition, err = lifecycle.ToggleStep(found, stepID, s.clock.Now())
		if err != nil {
			return err
		}

		if transition == lifecycle.TransitionCompleted {
			var teammate models.Teammate
			var manager *models.User
			if found.AssigneeID != nil {
				if tm := ws.TeammateByID(*found.AssigneeID); tm != nil {
					teammate = *tm
					manager = notify.DirectManager(ws, teammate)
				}
			}
			notifications = s.dispatcher.OnCompleted(*found, teammate, manager, ws.Admin())
			ws.Notifications = append(ws.Notifications, notifications...)
		}
		task = store.CloneTask(*found)
		return nil
	})
	if err != nil {
		return nil, lifecycle.TransitionNone, err
	}

	if transition != lifecycle.TransitionNone {
		metrics.TaskTransitions.WithLabelValues(transition.String()).Inc()
		logger.FromContext(ctx).Info("Task status changed",
			zap.String("task_id", task.ID),
			zap.String("transition", transition.String()),
			zap.Int("notifications", len(notifications)),
		)
	}
	recordNotifications(notifications)
	return &task, transition, nil
}

// AddComment appends a comment to a visible task and notifies the people
// involved in it.
func (s *TaskService) AddComment(ctx context.Context, actor Actor, taskID, text string) (*models.Comment, error) {
	var comment models.Comment
	var notifications []models.Notification
	err := s.store.Write(ctx, actor.TenantID, func(ws *store.Workspace) error {
		user, found, err := visibleTask(ws, actor, taskID)
		if err != nil {
			return err
		}

		comment, err = lifecycle.AppendComment(found, text, lifecycle.Author{
			Name: user.Name,
			Role: user.Role.Normalize(),
		}, s.clock.Now(), s.newID)
		if err != nil {
			return err
		}

		recipients := notify.CommentRecipients(ws, *found, user.ID)
		notifications = s.dispatcher.OnCommentAdded(*found, comment, recipients...)
		ws.Notifications = append(ws.Notifications, notifications...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	recordNotifications(notifications)
	return &comment, nil
}

func (s *TaskService) ensureAuthor(ctx context.Context, actor Actor) error {
	return s.store.Read(ctx, actor.TenantID, func(ws *store.Workspace) error {
		user, err := actorIn(ws, actor)
		if err != nil {
			return err
		}
		if !user.Role.CanManage() {
			return ErrForbidden
		}
		return nil
	})
}

// distill calls the distiller under the configured timeout and cleans up its
// output. It never holds a tenant lock.
func (s *TaskService) distill(ctx context.Context, raw string) (Distillation, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Distillation{}, ErrRawInputRequired
	}
	if s.distiller == nil {
		return Distillation{}, ErrDistillerNotConfigured
	}

	if s.distillTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.distillTimeout)
		defer cancel()
	}

	d, err := s.distiller.Distill(ctx, raw)
	if err != nil {
		logger.FromContext(ctx).Warn("Distillation failed", zap.Error(err))
		return Distillation{}, fmt.Errorf("%w: %w", ErrDistillationFailed, err)
	}

	steps := make([]string, 0, len(d.Steps))
	for _, step := range d.Steps {
		if step = strings.TrimSpace(step); step != "" {
			steps = append(steps, step)
		}
		if len(steps) == constants.MaxDistilledSteps {
			break
		}
	}
	if len(steps) == 0 {
		return Distillation{}, fmt.Errorf("%w: %w", ErrDistillationFailed, ErrDistillationNoSteps)
	}

	return Distillation{
		SuggestedTitle: strings.TrimSpace(d.SuggestedTitle),
		Steps:          steps,
	}, nil
}

// visibleTask resolves the actor and a task inside the actor's scope.
func visibleTask(ws *store.Workspace, actor Actor, taskID string) (*models.User, *models.Task, error) {
	user, err := actorIn(ws, actor)
	if err != nil {
		return nil, nil, err
	}
	task := ws.TaskByID(taskID)
	if task == nil || !access.CanViewTask(*user, *task, ws.Teammates) {
		return nil, nil, ErrTaskNotFound
	}
	return user, task, nil
}

func recordNotifications(notifications []models.Notification) {
	for _, n := range notifications {
		metrics.NotificationsEmitted.WithLabelValues(string(n.Type)).Inc()
	}
}
