package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamly/project-management-api/internal/dto"
	apierrors "github.com/teamly/project-management-api/internal/errors"
	"github.com/teamly/project-management-api/internal/middleware"
	"github.com/teamly/project-management-api/internal/models"
	"github.com/teamly/project-management-api/internal/services"
)

type OrganizationMemberHandler struct {
	membershipService *services.MembershipService
}

func NewOrganizationMemberHandler(membershipService *services.MembershipService) *OrganizationMemberHandler {
	return &OrganizationMemberHandler{
		membershipService: membershipService,
	}
}

// ListMembers returns an organization's memberships (admin/manager only)
func (h *OrganizationMemberHandler) ListMembers(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	orgID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	memberships, err := h.membershipService.ListMembers(orgID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": dto.ToMembershipDTOs(memberships)})
}

// GetMember returns one membership (admin/manager only)
func (h *OrganizationMemberHandler) GetMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	orgID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	membership, err := h.membershipService.GetMembership(orgID, targetID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMembershipDTO(*membership))
}

// CreateMemberNotAllowed rejects direct membership creation. Memberships come
// into existence only through invite acceptance or project auto-enrollment.
func (h *OrganizationMemberHandler) CreateMemberNotAllowed(c *gin.Context) {
	apierrors.MethodNotAllowed(c, "New members must be added via the invitation system")
}

// UpdateMemberRole changes a member's role (admin only)
func (h *OrganizationMemberHandler) UpdateMemberRole(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	orgID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	type UpdateRoleRequest struct {
		Role models.OrganizationRole `json:"role" binding:"required"`
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	membership, err := h.membershipService.UpdateMemberRole(orgID, targetID, userID, req.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToMembershipDTO(*membership))
}

// RemoveMember removes a member and cascades their project access (admin only)
func (h *OrganizationMemberHandler) RemoveMember(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	orgID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	if err := h.membershipService.RemoveMember(orgID, targetID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}
