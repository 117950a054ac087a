package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"teamboard/internal/repository"
	"teamboard/internal/service"
)

type TaskHandler struct {
	tasks    *service.TaskService
	comments *service.CommentService
	files    *service.FileService
}

func NewTaskHandler(tasks *service.TaskService, comments *service.CommentService, files *service.FileService) *TaskHandler {
	return &TaskHandler{tasks: tasks, comments: comments, files: files}
}

type createTaskRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	ProjectID   int      `json:"projectId" binding:"required"`
	AssigneeID  *int     `json:"assigneeId"`
	Status      string   `json:"status" binding:"omitempty,oneof=todo 'in progress' review complete"`
	Priority    string   `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     string   `json:"dueDate"`
	Tags        []string `json:"tags"`
	Order       int      `json:"order"`
}

type updateTaskRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	AssigneeID  *int      `json:"assigneeId"`
	Status      *string   `json:"status"`
	Priority    *string   `json:"priority"`
	DueDate     *string   `json:"dueDate"`
	Tags        *[]string `json:"tags"`
	Order       *int      `json:"order"`
}

type moveTaskRequest struct {
	Status string `json:"status" binding:"required"`
	Order  *int   `json:"order" binding:"required"`
}

type commentRequest struct {
	Content string `json:"content" binding:"required"`
}

// List handles GET /api/tasks?projectId= or ?assigneeId=.
func (h *TaskHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	if raw := c.Query("projectId"); raw != "" {
		projectID, err := strconv.Atoi(raw)
		if err != nil || projectID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid projectId"})
			return
		}
		tasks, err := h.tasks.ListByProject(ctx, callerID(c), projectID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, tasks)
		return
	}
	if raw := c.Query("assigneeId"); raw != "" {
		assigneeID, err := strconv.Atoi(raw)
		if err != nil || assigneeID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assigneeId"})
			return
		}
		tasks, err := h.tasks.ListByAssignee(ctx, callerID(c), assigneeID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, tasks)
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "projectId or assigneeId query parameter is required"})
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if !bindJSON(c, &req) {
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
	t, err := h.tasks.Create(c.Request.Context(), callerID(c), service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     due,
		Tags:        req.Tags,
		Order:       req.Order,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// Get handles GET /api/tasks/:id.
func (h *TaskHandler) Get(c *gin.Context) {
	taskID, ok := idParam(c, "id")
	if !ok {
		return
	}
	t, err := h.tasks.Get(c.Request.Context(), callerID(c), taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Update handles PUT /api/tasks/:id.
func (h *TaskHandler) Update(c *gin.Context) {
	taskID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req updateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	patch := repository.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		Status:      req.Status,
		Priority:    req.Priority,
		Tags:        req.Tags,
		Order:       req.Order,
	}
	if req.DueDate != nil {
		due, ok := parseDate(*req.DueDate)
		if !ok {
			badDate(c, "dueDate")
			return
		}
		patch.DueDate = &due
	}
	t, err := h.tasks.Update(c.Request.Context(), callerID(c), taskID, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Move handles PUT /api/tasks/:id/status, the kanban drag target.
func (h *TaskHandler) Move(c *gin.Context) {
	taskID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req moveTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.tasks.Move(c.Request.Context(), callerID(c), taskID, req.Status, *req.Order)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Delete handles DELETE /api/tasks/:id.
func (h *TaskHandler) Delete(c *gin.Context) {
	taskID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.tasks.Delete(c.Request.Context(), callerID(c), taskID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task deleted"})
}

// Comments handles GET /api/tasks/:id/comments.
func (h *TaskHandler) Comments(c *gin.Context) {
	taskID, ok := idParam(c, "id")
	if !ok {
		return
	}
	comments, err := h.comments.ListByTask(c.Request.Context(), callerID(c), taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// PostComment handles POST /api/tasks/:id/comments.
func (h *TaskHandler) PostComment(c *gin.Context) {
	taskID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req commentRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := h.comments.Create(c.Request.Context(), callerID(c), taskID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// DeleteComment handles DELETE /api/comments/:id.
func (h *TaskHandler) DeleteComment(c *gin.Context) {
	commentID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.comments.Delete(c.Request.Context(), callerID(c), commentID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

// Files handles GET /api/tasks/:id/files.
func (h *TaskHandler) Files(c *gin.Context) {
	taskID, ok := idParam(c, "id")
	if !ok {
		return
	}
	files, err := h.files.ListByTask(c.Request.Context(), callerID(c), taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, files)
}
