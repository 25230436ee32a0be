package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamly/project-management-api/internal/dto"
	apierrors "github.com/teamly/project-management-api/internal/errors"
	"github.com/teamly/project-management-api/internal/middleware"
	"github.com/teamly/project-management-api/internal/models"
	"github.com/teamly/project-management-api/internal/services"
)

type InviteHandler struct {
	membershipService *services.MembershipService
}

func NewInviteHandler(membershipService *services.MembershipService) *InviteHandler {
	return &InviteHandler{
		membershipService: membershipService,
	}
}

// CreateInvite invites a user to an organization by email (admin only). A
// failed email delivery is reported as an error, but the invite row survives it.
func (h *InviteHandler) CreateInvite(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	orgID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type CreateInviteRequest struct {
		Email string                  `json:"email" binding:"required"`
		Role  models.OrganizationRole `json:"role" binding:"required"`
	}

	var req CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	invite, err := h.membershipService.InviteMember(orgID, userID, req.Email, req.Role)
	if err != nil {
		if errors.Is(err, services.ErrInviteEmailDelivery) {
			// The invite row is already committed; only the delivery failed.
			apierrors.InternalError(c, err.Error())
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"invite": dto.ToInviteDTO(*invite)})
}

// AcceptInvite consumes an invite token for the authenticated user
func (h *InviteHandler) AcceptInvite(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type AcceptInviteRequest struct {
		Token string `json:"token" binding:"required"`
	}

	var req AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	membership, err := h.membershipService.AcceptInvite(req.Token, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToMembershipDTO(*membership))
}
