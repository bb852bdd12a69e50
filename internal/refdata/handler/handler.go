// Package handler exposes the reference data lookups over HTTP.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"solarfield_backend/internal/refdata/repository"
	"solarfield_backend/platform/httpkit"
)

// Handler serves reference data lookups.
type Handler struct {
	repo *repository.Repo
}

// New creates a reference data handler.
func New(repo *repository.Repo) *Handler {
	return &Handler{repo: repo}
}

// Countries handles GET /refdata/countries.
func (h *Handler) Countries(c *gin.Context) {
	countries, err := h.repo.Countries(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, countries)
}

// States handles GET /refdata/states?country_id=.
func (h *Handler) States(c *gin.Context) {
	countryID, _ := strconv.ParseInt(c.Query("country_id"), 10, 64)

	states, err := h.repo.States(c.Request.Context(), countryID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, states)
}

// Districts handles GET /refdata/districts?state_id=.
func (h *Handler) Districts(c *gin.Context) {
	stateID, _ := strconv.ParseInt(c.Query("state_id"), 10, 64)

	districts, err := h.repo.Districts(c.Request.Context(), stateID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, districts)
}

// Packages handles GET /refdata/packages.
func (h *Handler) Packages(c *gin.Context) {
	packages, err := h.repo.Packages(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, packages)
}

// Employees handles GET /refdata/employees?role=, used by assignment pickers.
func (h *Handler) Employees(c *gin.Context) {
	employees, err := h.repo.Employees(c.Request.Context(), c.Query("role"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, employees)
}
