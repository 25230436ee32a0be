package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/teamly/project-management-api/internal/auth"
	apierrors "github.com/teamly/project-management-api/internal/errors"
	"github.com/teamly/project-management-api/internal/realtime"
)

type WSHandler struct {
	hub    *realtime.Hub
	tokens *auth.TokenManager
}

func NewWSHandler(hub *realtime.Hub, tokens *auth.TokenManager) *WSHandler {
	return &WSHandler{
		hub:    hub,
		tokens: tokens,
	}
}

// Serve upgrades the connection to a websocket for notification delivery.
// Browsers cannot set an Authorization header on a websocket handshake, so
// the access token arrives as a query parameter and is verified before the upgrade.
func (h *WSHandler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		apierrors.Unauthorized(c, "Missing token")
		return
	}

	userID, err := h.tokens.VerifyAccess(token)
	if err != nil {
		apierrors.Unauthorized(c, "Invalid or expired token")
		return
	}

	h.hub.Serve(c.Writer, c.Request, userID)
}
