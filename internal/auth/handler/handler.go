// Package handler exposes employee authentication over HTTP.
package handler

import (
	"github.com/gin-gonic/gin"

	"solarfield_backend/internal/auth/service"
	"solarfield_backend/internal/auth/transport"
	"solarfield_backend/platform/apperr"
	"solarfield_backend/platform/httpkit"
)

// Handler handles auth HTTP requests.
type Handler struct {
	svc *service.Service
}

// New creates an auth handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid request body"))
		return
	}

	resp, err := h.svc.SignIn(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Me handles GET /auth/me.
func (h *Handler) Me(c *gin.Context) {
	principal := httpkit.MustGetIdentity(c)
	if principal == nil {
		return
	}

	profile, err := h.svc.Me(c.Request.Context(), principal.EmployeeID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, profile)
}
