// Package lifecycle owns the task state machine.
//
// A task starts pending and becomes completed only when every one of its
// steps is completed. Un-completing any step on a completed task reopens it.
// A task without steps never completes on its own.
package lifecycle

import (
	"errors"
	"strings"
	"time"

	"github.com/yukikurage/crewdesk-api/internal/clock"
	"github.com/yukikurage/crewdesk-api/internal/models"
)

var (
	ErrNoSteps       = errors.New("a task needs at least one step")
	ErrStepNotFound  = errors.New("step not found")
	ErrTitleRequired = errors.New("title is required")
	ErrEmptyComment  = errors.New("comment text cannot be empty")
)

// Transition is what a single step toggle did to the task status.
type Transition int

const (
	TransitionNone Transition = iota
	TransitionCompleted
	TransitionReopened
)

func (t Transition) String() string {
	switch t {
	case TransitionCompleted:
		return "completed"
	case TransitionReopened:
		return "reopened"
	default:
		return "none"
	}
}

// NewTaskInput carries everything a task is created with.
type NewTaskInput struct {
	TenantID   string
	Title      string
	RawInput   string
	Steps      []string
	AssigneeID *string
	DueDate    *time.Time
	Priority   models.TaskPriority
}

// NewTask builds a pending task with its complete, ordered step list. Blank
// step texts are dropped; if nothing remains the task is rejected.
func NewTask(input NewTaskInput, now time.Time, newID clock.IDFunc) (models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return models.Task{}, ErrTitleRequired
	}

	taskID := newID()
	steps := make([]models.TaskStep, 0, len(input.Steps))
	for _, text := range input.Steps {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		steps = append(steps, models.TaskStep{
			ID:       newID(),
			TaskID:   taskID,
			Position: len(steps),
			Text:     text,
		})
	}
	if len(steps) == 0 {
		return models.Task{}, ErrNoSteps
	}

	priority := input.Priority
	if priority == "" {
		priority = models.TaskPriorityModerate
	}

	return models.Task{
		ID:         taskID,
		TenantID:   input.TenantID,
		Title:      title,
		RawInput:   input.RawInput,
		AssigneeID: input.AssigneeID,
		Status:     models.TaskStatusPending,
		Priority:   priority,
		DueDate:    input.DueDate,
		CreatedAt:  now,
		Steps:      steps,
		Comments:   []models.Comment{},
	}, nil
}

// ToggleStep flips one step and recomputes the task status. The returned
// transition is TransitionCompleted at most once per pending→completed change,
// never once per step.
func ToggleStep(task *models.Task, stepID string, now time.Time) (Transition, error) {
	idx := -1
	for i := range task.Steps {
		if task.Steps[i].ID == stepID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return TransitionNone, ErrStepNotFound
	}

	task.Steps[idx].IsCompleted = !task.Steps[idx].IsCompleted
	return recompute(task, now), nil
}

// AllStepsDone is false for an empty step list.
func AllStepsDone(task models.Task) bool {
	if len(task.Steps) == 0 {
		return false
	}
	for _, step := range task.Steps {
		if !step.IsCompleted {
			return false
		}
	}
	return true
}

// Progress returns how many steps are completed out of the total.
func Progress(task models.Task) (done, total int) {
	for _, step := range task.Steps {
		if step.IsCompleted {
			done++
		}
	}
	return done, len(task.Steps)
}

func recompute(task *models.Task, now time.Time) Transition {
	allDone := AllStepsDone(*task)
	switch {
	case allDone && task.Status != models.TaskStatusCompleted:
		task.Status = models.TaskStatusCompleted
		completedAt := now
		task.CompletedAt = &completedAt
		return TransitionCompleted
	case !allDone && task.Status == models.TaskStatusCompleted:
		task.Status = models.TaskStatusPending
		task.CompletedAt = nil
		return TransitionReopened
	default:
		return TransitionNone
	}
}

// Author identifies who wrote a comment.
type Author struct {
	Name string
	Role models.Role
}

// AppendComment adds a comment to the end of the task's thread.
func AppendComment(task *models.Task, text string, author Author, now time.Time, newID clock.IDFunc) (models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Comment{}, ErrEmptyComment
	}

	comment := models.Comment{
		ID:         newID(),
		TaskID:     task.ID,
		Text:       text,
		AuthorName: author.Name,
		AuthorRole: author.Role,
		Timestamp:  now,
	}
	task.Comments = append(task.Comments, comment)
	return comment, nil
}
