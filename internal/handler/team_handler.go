package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamboard/internal/repository"
	"teamboard/internal/service"
)

type TeamHandler struct {
	teams    *service.TeamService
	messages *service.MessageService
}

func NewTeamHandler(teams *service.TeamService, messages *service.MessageService) *TeamHandler {
	return &TeamHandler{teams: teams, messages: messages}
}

type createTeamRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type updateTeamRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type addMemberRequest struct {
	UserID int    `json:"userId" binding:"required"`
	Role   string `json:"role" binding:"omitempty,oneof=admin member guest"`
}

type messageRequest struct {
	Content string `json:"content" binding:"required"`
}

// List handles GET /api/teams and returns the caller's teams.
func (h *TeamHandler) List(c *gin.Context) {
	teams, err := h.teams.List(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

// Create handles POST /api/teams.
func (h *TeamHandler) Create(c *gin.Context) {
	var req createTeamRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.teams.Create(c.Request.Context(), callerID(c), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// Get handles GET /api/teams/:id.
func (h *TeamHandler) Get(c *gin.Context) {
	teamID, ok := idParam(c, "id")
	if !ok {
		return
	}
	t, err := h.teams.Get(c.Request.Context(), callerID(c), teamID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Update handles PUT /api/teams/:id.
func (h *TeamHandler) Update(c *gin.Context) {
	teamID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req updateTeamRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.teams.Update(c.Request.Context(), callerID(c), teamID, repository.TeamPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Delete handles DELETE /api/teams/:id.
func (h *TeamHandler) Delete(c *gin.Context) {
	teamID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.teams.Delete(c.Request.Context(), callerID(c), teamID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "team deleted"})
}

// Members handles GET /api/teams/:id/members.
func (h *TeamHandler) Members(c *gin.Context) {
	teamID, ok := idParam(c, "id")
	if !ok {
		return
	}
	members, err := h.teams.Members(c.Request.Context(), callerID(c), teamID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// AddMember handles POST /api/teams/:id/members.
func (h *TeamHandler) AddMember(c *gin.Context) {
	teamID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req addMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.teams.AddMember(c.Request.Context(), callerID(c), teamID, req.UserID, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// RemoveMember handles DELETE /api/teams/:id/members/:userId.
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	teamID, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	if err := h.teams.RemoveMember(c.Request.Context(), callerID(c), teamID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "member removed"})
}

// Messages handles GET /api/teams/:id/messages.
func (h *TeamHandler) Messages(c *gin.Context) {
	teamID, ok := idParam(c, "id")
	if !ok {
		return
	}
	msgs, err := h.messages.ListByTeam(c.Request.Context(), callerID(c), teamID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// PostMessage handles POST /api/teams/:id/messages.
func (h *TeamHandler) PostMessage(c *gin.Context) {
	teamID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req messageRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.messages.Create(c.Request.Context(), callerID(c), teamID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// DeleteMessage handles DELETE /api/messages/:id.
func (h *TeamHandler) DeleteMessage(c *gin.Context) {
	messageID, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.messages.Delete(c.Request.Context(), callerID(c), messageID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "message deleted"})
}
