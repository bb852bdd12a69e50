// Package handler exposes the My Tasks aggregator over HTTP.
package handler

import (
	"github.com/gin-gonic/gin"

	jobstransport "solarfield_backend/internal/jobs/transport"
	leadstransport "solarfield_backend/internal/leads/transport"
	"solarfield_backend/internal/mytasks/service"
	"solarfield_backend/platform/apperr"
	"solarfield_backend/platform/httpkit"
)

// Handler handles My Tasks HTTP requests.
type Handler struct {
	svc *service.Service
}

// New creates a My Tasks handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Overview handles GET /mytasks/overview.
func (h *Handler) Overview(c *gin.Context) {
	principal := httpkit.MustGetIdentity(c)
	if principal == nil {
		return
	}

	overview, err := h.svc.Overview(c.Request.Context(), principal.EmployeeID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, overview)
}

// MyLeads handles GET /mytasks/myLeads.
func (h *Handler) MyLeads(c *gin.Context) {
	principal := httpkit.MustGetIdentity(c)
	if principal == nil {
		return
	}

	var req leadstransport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid query parameters"))
		return
	}

	page, err := h.svc.MyLeads(c.Request.Context(), principal.EmployeeID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, page)
}

// MyJobs handles GET /mytasks/myJobs.
func (h *Handler) MyJobs(c *gin.Context) {
	principal := httpkit.MustGetIdentity(c)
	if principal == nil {
		return
	}

	var req jobstransport.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid query parameters"))
		return
	}

	page, err := h.svc.MyJobs(c.Request.Context(), principal.EmployeeID(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, page)
}
