package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"teamboard/internal/repository"
	"teamboard/internal/service"
)

type ProjectHandler struct {
	projects *service.ProjectService
	files    *service.FileService
}

func NewProjectHandler(projects *service.ProjectService, files *service.FileService) *ProjectHandler {
	return &ProjectHandler{projects: projects, files: files}
}

type createProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	TeamID      int    `json:"teamId" binding:"required"`
	Color       string `json:"color" binding:"omitempty,hexcolor"`
	StartDate   string `json:"startDate" binding:"required"`
	DueDate     string `json:"dueDate"`
}

type updateProjectRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color" binding:"omitempty,hexcolor"`
	StartDate   *string `json:"startDate"`
	DueDate     *string `json:"dueDate"`
}

// parseDate accepts both date-only and RFC 3339 values, the two shapes the
// client sends.
func parseDate(value string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func badDate(c *gin.Context, field string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":  "validation failed",
		"fields": []service.FieldError{{Field: field, Message: "must be a date (YYYY-MM-DD or RFC 3339)"}},
	})
}

// List handles GET /api/projects?teamId=.
func (h *ProjectHandler) List(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Query("teamId"))
	if err != nil || teamID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "teamId query parameter is required"})
		return
	}
	projects, err := h.projects.ListByTeam(c.Request.Context(), callerID(c), teamID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// Create handles POST /api/projects.
func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	start, ok := parseDate(req.StartDate)
	if !ok {
		badDate(c, "startDate")
		return
	}
	var due *time.Time
	if req.DueDate != "" {
		d, ok := parseDate(req.DueDate)
		if !ok {
			badDate(c, "dueDate")
			return
		}
		due = &d
	}
	p, err := h.projects.Create(c.Request.Context(), callerID(c), service.ProjectInput{
		Name:        req.Name,
		Description: req.Description,
		TeamID:      req.TeamID,
		Color:       req.Color,
		StartDate:   start,
		DueDate:     due,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Get handles GET /api/projects/:id.
func (h *ProjectHandler) Get(c *gin.Context) {
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := h.projects.Get(c.Request.Context(), callerID(c), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Update handles PUT /api/projects/:id.
func (h *ProjectHandler) Update(c *gin.Context) {
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req updateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	patch := repository.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	}
	if req.StartDate != nil {
		start, ok := parseDate(*req.StartDate)
		if !ok {
			badDate(c, "startDate")
			return
		}
		patch.StartDate = &start
	}
	if req.DueDate != nil {
		due, ok := parseDate(*req.DueDate)
		if !ok {
			badDate(c, "dueDate")
			return
		}
		patch.DueDate = &due
	}
	p, err := h.projects.Update(c.Request.Context(), callerID(c), projectID, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Delete handles DELETE /api/projects/:id.
func (h *ProjectHandler) Delete(c *gin.Context) {
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.projects.Delete(c.Request.Context(), callerID(c), projectID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project deleted"})
}

// Files handles GET /api/projects/:id/files.
func (h *ProjectHandler) Files(c *gin.Context) {
	projectID, ok := idParam(c, "id")
	if !ok {
		return
	}
	files, err := h.files.ListByProject(c.Request.Context(), callerID(c), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, files)
}
