// Package handler exposes the jobs module over HTTP.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"solarfield_backend/internal/jobs/service"
	"solarfield_backend/internal/jobs/transport"
	"solarfield_backend/platform/apperr"
	"solarfield_backend/platform/httpkit"
)

// Handler handles job HTTP requests.
type Handler struct {
	svc *service.Service
}

// New creates a jobs handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Create handles POST /jobs/create.
func (h *Handler) Create(c *gin.Context) {
	principal := httpkit.MustGetIdentity(c)
	if principal == nil {
		return
	}

	var req transport.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid request body"))
		return
	}

	job, err := h.svc.Create(c.Request.Context(), principal, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, job)
}

// List handles GET /jobs, scoped to the principal unless supervisor.
func (h *Handler) List(c *gin.Context) {
	principal := httpkit.MustGetIdentity(c)
	if principal == nil {
		return
	}

	var req transport.ListJobsRequest
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

// ListAll handles GET /jobs/allJobs, the supervisory joined listing.
func (h *Handler) ListAll(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.svc.ListAll(c.Request.Context(), page, limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateStatus handles PUT /jobs/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	principal := httpkit.MustGetIdentity(c)
	if principal == nil {
		return
	}

	jobID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || jobID <= 0 {
		httpkit.HandleError(c, apperr.BadRequest("invalid job id"))
		return
	}

	var req transport.UpdateJobStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.BadRequest("invalid request body"))
		return
	}

	job, err := h.svc.UpdateStatus(c.Request.Context(), principal, jobID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, job)
}

// Assign handles POST /jobs/assignment/create.
func (h *Handler) Assign(c *gin.Context) {
	principal := httpkit.MustGetIdentity(c)
	if principal == nil {
		return
	}

	var req transport.AssignJobRequest
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
