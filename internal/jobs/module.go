// Package jobs wires the job entity manager and the assignment coordinator.
package jobs

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"solarfield_backend/internal/events"
	apphttp "solarfield_backend/internal/http"
	"solarfield_backend/internal/jobs/handler"
	"solarfield_backend/internal/jobs/repository"
	"solarfield_backend/internal/jobs/service"
	"solarfield_backend/platform/logger"
	appvalidator "solarfield_backend/platform/validator"
)

// Module bundles the jobs bounded context.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// New wires the jobs module.
func New(pool *pgxpool.Pool, bus events.Bus, val *appvalidator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, val, log)
	return &Module{
		handler: handler.New(svc),
		service: svc,
	}
}

// Name implements apphttp.Module.
func (m *Module) Name() string { return "jobs" }

// Service exposes the job service for cross-module composition (My Tasks).
func (m *Module) Service() *service.Service { return m.service }

// RegisterRoutes mounts the job routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/jobs", m.handler.List)
	ctx.Protected.POST("/jobs/create", m.handler.Create)
	ctx.Protected.PUT("/jobs/:id/status", m.handler.UpdateStatus)

	ctx.Supervisor.GET("/jobs/allJobs", m.handler.ListAll)
	ctx.Supervisor.POST("/jobs/assignment/create", m.handler.Assign)
}
