package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/crewdesk-api/internal/dto"
	apierrors "github.com/yukikurage/crewdesk-api/internal/errors"
	"github.com/yukikurage/crewdesk-api/internal/models"
	"github.com/yukikurage/crewdesk-api/internal/services"
	"github.com/yukikurage/crewdesk-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the tasks visible to the current user
// Can filter by status
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var input services.ListTasksInput
	if status := c.Query("status"); status != "" {
		s := models.TaskStatus(status)
		if s != models.TaskStatusPending && s != models.TaskStatusCompleted {
			apierrors.BadRequest(c, "Invalid status")
			return
		}
		input.Status = &s
	}

	params := utils.GetPaginationParams(c)

	tasks, err := h.taskService.ListTasks(c.Request.Context(), actor, input)
	if err != nil {
		respondError(c, err)
		return
	}

	page := utils.Paginate(tasks, params)
	c.JSON(http.StatusOK, dto.ToTaskListResponse(page, params.Page, params.Limit, int64(len(tasks))))
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DistillTask previews the checklist for a raw description
func (h *TaskHandler) DistillTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req struct {
		RawInput string `json:"raw_input" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	d, err := h.taskService.Distill(c.Request.Context(), actor, req.RawInput)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDistillationDTO(*d))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req struct {
		Title      string     `json:"title"`
		RawInput   string     `json:"raw_input"`
		Steps      []string   `json:"steps"`
		AssigneeID *string    `json:"assignee_id"`
		DueDate    *time.Time `json:"due_date"`
		Priority   string     `json:"priority"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), actor, services.CreateTaskInput{
		Title:      req.Title,
		RawInput:   req.RawInput,
		Steps:      req.Steps,
		AssigneeID: req.AssigneeID,
		DueDate:    req.DueDate,
		Priority:   req.Priority,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// AssignTask hands a task to a teammate
func (h *TaskHandler) AssignTask(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req struct {
		AssigneeID string `json:"assignee_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.AssignTask(c.Request.Context(), actor, c.Param("id"), req.AssigneeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ToggleStep flips one checklist step
func (h *TaskHandler) ToggleStep(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	task, transition, err := h.taskService.ToggleStep(c.Request.Context(), actor, c.Param("id"), c.Param("step_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToggleStepResponse{
		Task:       dto.ToTaskDTO(*task),
		Transition: transition.String(),
	})
}

// AddComment appends a comment to a task
func (h *TaskHandler) AddComment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	comment, err := h.taskService.AddComment(c.Request.Context(), actor, c.Param("id"), req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}
