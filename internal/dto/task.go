package dto

import (
	"time"

	"github.com/yukikurage/crewdesk-api/internal/lifecycle"
	"github.com/yukikurage/crewdesk-api/internal/models"
	"github.com/yukikurage/crewdesk-api/internal/services"
)

// TaskStepDTO represents a checklist step in API responses
type TaskStepDTO struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	IsCompleted bool   `json:"is_completed"`
}

// CommentDTO represents a task comment in API responses
type CommentDTO struct {
	ID         string      `json:"id"`
	Text       string      `json:"text"`
	AuthorName string      `json:"author_name"`
	AuthorRole models.Role `json:"author_role"`
	Timestamp  time.Time   `json:"timestamp"`
}

// ProgressDTO counts completed steps
type ProgressDTO struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	RawInput    string              `json:"raw_input"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	AssigneeID  *string             `json:"assignee_id"`
	DueDate     *time.Time          `json:"due_date"`
	CompletedAt *time.Time          `json:"completed_at"`
	CreatedAt   time.Time           `json:"created_at"`
	Progress    ProgressDTO         `json:"progress"`
	Steps       []TaskStepDTO       `json:"steps"`
	Comments    []CommentDTO        `json:"comments"`
}

// TaskListItemDTO represents a task in list responses (minimal data)
type TaskListItemDTO struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	AssigneeID  *string             `json:"assignee_id"`
	DueDate     *time.Time          `json:"due_date"`
	CompletedAt *time.Time          `json:"completed_at"`
	CreatedAt   time.Time           `json:"created_at"`
	Progress    ProgressDTO         `json:"progress"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskListItemDTO `json:"tasks"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalCount int64             `json:"total_count"`
	TotalPages int               `json:"total_pages"`
}

// ToggleStepResponse is returned after a step toggle
type ToggleStepResponse struct {
	Task       TaskDTO `json:"task"`
	Transition string  `json:"transition"`
}

// DistillationDTO is the checklist preview
type DistillationDTO struct {
	Title string   `json:"title"`
	Steps []string `json:"steps"`
}

// Conversion functions

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	done, total := lifecycle.Progress(task)
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		RawInput:    task.RawInput,
		Status:      task.Status,
		Priority:    task.Priority,
		AssigneeID:  task.AssigneeID,
		DueDate:     task.DueDate,
		CompletedAt: task.CompletedAt,
		CreatedAt:   task.CreatedAt,
		Progress:    ProgressDTO{Done: done, Total: total},
		Steps:       make([]TaskStepDTO, len(task.Steps)),
		Comments:    make([]CommentDTO, len(task.Comments)),
	}

	for i, step := range task.Steps {
		dto.Steps[i] = TaskStepDTO{
			ID:          step.ID,
			Text:        step.Text,
			IsCompleted: step.IsCompleted,
		}
	}
	for i, comment := range task.Comments {
		dto.Comments[i] = ToCommentDTO(comment)
	}

	return dto
}

// ToCommentDTO converts a Comment model to CommentDTO
func ToCommentDTO(comment models.Comment) CommentDTO {
	return CommentDTO{
		ID:         comment.ID,
		Text:       comment.Text,
		AuthorName: comment.AuthorName,
		AuthorRole: comment.AuthorRole,
		Timestamp:  comment.Timestamp,
	}
}

// ToTaskListItemDTO converts a Task model to TaskListItemDTO
func ToTaskListItemDTO(task models.Task) TaskListItemDTO {
	done, total := lifecycle.Progress(task)
	return TaskListItemDTO{
		ID:          task.ID,
		Title:       task.Title,
		Status:      task.Status,
		Priority:    task.Priority,
		AssigneeID:  task.AssigneeID,
		DueDate:     task.DueDate,
		CompletedAt: task.CompletedAt,
		CreatedAt:   task.CreatedAt,
		Progress:    ProgressDTO{Done: done, Total: total},
	}
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskListItemDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskListItemDTO(task)
	}

	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		totalPages++
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}

// ToDistillationDTO converts a distillation preview
func ToDistillationDTO(d services.Distillation) DistillationDTO {
	return DistillationDTO{
		Title: d.SuggestedTitle,
		Steps: d.Steps,
	}
}
