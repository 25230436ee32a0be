package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamly/project-management-api/internal/dto"
	apierrors "github.com/teamly/project-management-api/internal/errors"
	"github.com/teamly/project-management-api/internal/middleware"
	"github.com/teamly/project-management-api/internal/services"
)

type ProjectMemberHandler struct {
	projectService *services.ProjectService
}

func NewProjectMemberHandler(projectService *services.ProjectService) *ProjectMemberHandler {
	return &ProjectMemberHandler{
		projectService: projectService,
	}
}

// ListMembers returns a project's memberships for callers who can view the project
func (h *ProjectMemberHandler) ListMembers(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	memberships, err := h.projectService.ListMembers(projectID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": dto.ToProjectMemberDTOs(memberships)})
}

// CreateMemberNotAllowed rejects direct project membership creation
func (h *ProjectMemberHandler) CreateMemberNotAllowed(c *gin.Context) {
	apierrors.MethodNotAllowed(c, "Project memberships must be assigned through the assign-member endpoint")
}

// AssignMember enrolls an organization member into the project (admin/manager only)
func (h *ProjectMemberHandler) AssignMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type AssignMemberRequest struct {
		UserID uint64 `json:"user_id" binding:"required"`
	}

	var req AssignMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	membership, err := h.projectService.AssignMember(projectID, req.UserID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectMemberDTO(*membership))
}

// RemoveMember removes a project membership and clears the member's
// assignments within the project (admin/manager only)
func (h *ProjectMemberHandler) RemoveMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	if err := h.projectService.RemoveMember(projectID, targetID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project member removed successfully"})
}
