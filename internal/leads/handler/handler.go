// Package handler exposes the leads module over HTTP.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"solarfield_backend/internal/leads/service"
	"solarfield_backend/internal/leads/transport"
	"solarfield_backend/platform/apperr"
	"solarfield_backend/platform/httpkit"
)

// Handler handles lead HTTP requests.
type Handler struct {
	svc *service.Service
}

// New creates a leads handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// CreateEnquiry handles POST /enquiry, the public marketing-site form.
func (h *Handler) CreateEnquiry(c *gin.Context) {
	var req transport.CreateEnquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid request body"))
		return
	}

	lead, err := h.svc.CreateEnquiry(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, lead)
}

// List handles GET /leads. Field employees see their own leads, supervisors
// see everything.
func (h *Handler) List(c *gin.Context) {
	principal := httpkit.MustGetIdentity(c)
	if principal == nil {
		return
	}

	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid query parameters"))
		return
	}

	page, err := h.svc.List(c.Request.Context(), principal, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, page)
}

// Assign handles POST /leads/assignment/create.
func (h *Handler) Assign(c *gin.Context) {
	principal := httpkit.MustGetIdentity(c)
	if principal == nil {
		return
	}

	var req transport.AssignLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid request body"))
		return
	}

	assignment, err := h.svc.Assign(c.Request.Context(), principal, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, assignment)
}

// UpdateStatus handles PATCH /leads/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	principal := httpkit.MustGetIdentity(c)
	if principal == nil {
		return
	}

	leadID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || leadID <= 0 {
		httpkit.HandleError(c, apperr.BadRequest("invalid lead id"))
		return
	}

	var req transport.UpdateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid request body"))
		return
	}

	lead, err := h.svc.UpdateStatus(c.Request.Context(), principal, leadID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}
