package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamboard/internal/service"
)

type FileHandler struct {
	files *service.FileService
}

func NewFileHandler(files *service.FileService) *FileHandler {
	return &FileHandler{files: files}
}

type uploadFileRequest struct {
	Name      string `json:"name" binding:"required"`
	URL       string `json:"url"`
	Size      int64  `json:"size" binding:"omitempty,min=0"`
	Type      string `json:"type"`
	ProjectID int    `json:"projectId" binding:"required"`
	TaskID    *int   `json:"taskId"`
}

// Upload handles POST /api/files. Only metadata is stored; there is no
// storage engine behind the URL.
func (h *FileHandler) Upload(c *gin.Context) {
	var req uploadFileRequest
	if !bindJSON(c, &req) {
		return
	}
	f, err := h.files.Upload(c.Request.Context(), callerID(c), service.FileInput{
		Name:      req.Name,
		URL:       req.URL,
		Size:      req.Size,
		Type:      req.Type,
		ProjectID: req.ProjectID,
		TaskID:    req.TaskID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

// Delete handles DELETE /api/files/:id.
func (h *FileHandler) Delete(c *gin.Context) {
	fileID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.files.Delete(c.Request.Context(), callerID(c), fileID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "file deleted"})
}
