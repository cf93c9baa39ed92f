package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/crewdesk-api/internal/constants"
	"github.com/yukikurage/crewdesk-api/internal/dto"
	apierrors "github.com/yukikurage/crewdesk-api/internal/errors"
	"github.com/yukikurage/crewdesk-api/internal/services"
)

// DirectoryHandler serves the staff directory.
type DirectoryHandler struct {
	directoryService *services.DirectoryService
}

// NewDirectoryHandler creates a new DirectoryHandler.
func NewDirectoryHandler(directoryService *services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{
		directoryService: directoryService,
	}
}

// ListTeammates returns the teammates visible to the current user
func (h *DirectoryHandler) ListTeammates(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	teammates, err := h.directoryService.ListTeammates(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"teammates": dto.ToTeammateDTOs(teammates)})
}

// ListAssignees returns the teammates the current user may assign tasks to
func (h *DirectoryHandler) ListAssignees(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	teammates, err := h.directoryService.ListAssignees(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignees": dto.ToTeammateDTOs(teammates)})
}

// Onboard adds a teammate or manager to the directory
func (h *DirectoryHandler) Onboard(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	type OnboardRequest struct {
		Name       string  `json:"name"`
		Username   string  `json:"username"`
		Password   string  `json:"password"`
		Email      string  `json:"email"`
		Contact    string  `json:"contact"`
		JobProfile string  `json:"job_profile"`
		Skills     string  `json:"skills"`
		Role       string  `json:"role"`
		ManagerID  *string `json:"manager_id"`
	}

	var req OnboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	teammate, err := h.directoryService.Onboard(c.Request.Context(), actor, services.OnboardInput{
		Name:       req.Name,
		Username:   req.Username,
		Password:   req.Password,
		Email:      req.Email,
		Contact:    req.Contact,
		JobProfile: req.JobProfile,
		Skills:     req.Skills,
		Role:       req.Role,
		ManagerID:  req.ManagerID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTeammateDTO(*teammate))
}

// UpdateTeammate edits a teammate's profile
func (h *DirectoryHandler) UpdateTeammate(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	type UpdateTeammateRequest struct {
		Name       *string `json:"name"`
		Email      *string `json:"email"`
		Contact    *string `json:"contact"`
		JobProfile *string `json:"job_profile"`
		Skills     *string `json:"skills"`
	}

	var req UpdateTeammateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	teammate, err := h.directoryService.UpdateProfile(c.Request.Context(), actor, c.Param("id"), services.UpdateProfileInput{
		Name:       req.Name,
		Email:      req.Email,
		Contact:    req.Contact,
		JobProfile: req.JobProfile,
		Skills:     req.Skills,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeammateDTO(*teammate))
}

// ActivateTeammate restores access for a teammate
func (h *DirectoryHandler) ActivateTeammate(c *gin.Context) {
	h.setActive(c, true)
}

// DeactivateTeammate revokes access for a teammate without deleting it
func (h *DirectoryHandler) DeactivateTeammate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *DirectoryHandler) setActive(c *gin.Context, active bool) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	teammate, err := h.directoryService.SetActive(c.Request.Context(), actor, c.Param("id"), active)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTeammateDTO(*teammate))
}

// Import loads teammates from a CSV upload. The file may be sent as the
// "file" field of a multipart form or as the raw request body.
func (h *DirectoryHandler) Import(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, constants.MaxImportBytes)

	var body io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			apierrors.BadRequest(c, "Missing import file")
			return
		}
		file, err := header.Open()
		if err != nil {
			apierrors.BadRequest(c, "Unreadable import file")
			return
		}
		defer file.Close()
		body = file
	}

	result, err := h.directoryService.Import(c.Request.Context(), actor, body)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToImportResultDTO(*result))
}

// Export downloads the directory as CSV
func (h *DirectoryHandler) Export(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	data, err := h.directoryService.Export(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="directory.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
