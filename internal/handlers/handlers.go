package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/teamly/project-management-api/internal/errors"
	"github.com/teamly/project-management-api/internal/services"
)

// parseIDParam parses a numeric path parameter.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// respondServiceError maps a service error onto the API error taxonomy.
// Unrecognized errors become opaque 500s so internals never leak.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrOrganizationNotFound),
		errors.Is(err, services.ErrProjectNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrMembershipNotFound),
		errors.Is(err, services.ErrProjectMemberNotFound),
		errors.Is(err, services.ErrNotificationNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInviteNotFound),
		errors.Is(err, services.ErrAlreadyMember),
		errors.Is(err, services.ErrAlreadyProjectMember),
		errors.Is(err, services.ErrNotOrganizationMember),
		errors.Is(err, services.ErrAssigneeNotProjectMember),
		errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrOrganizationNameRequired),
		errors.Is(err, services.ErrProjectNameRequired),
		errors.Is(err, services.ErrTaskTitleRequired),
		errors.Is(err, services.ErrTaskStatusRequired),
		errors.Is(err, services.ErrInvalidTaskStatus),
		errors.Is(err, services.ErrInvalidTaskPriority),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrCommentTextRequired),
		errors.Is(err, services.ErrCannotRemoveSelf),
		errors.Is(err, services.ErrInviteEmailRequired),
		errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
