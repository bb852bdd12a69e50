// Package leads wires the lead entity manager: public enquiry intake, scoped
// listings and status transitions.
package leads

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"solarfield_backend/internal/events"
	apphttp "solarfield_backend/internal/http"
	"solarfield_backend/internal/leads/handler"
	"solarfield_backend/internal/leads/repository"
	"solarfield_backend/internal/leads/service"
	"solarfield_backend/platform/logger"
	appvalidator "solarfield_backend/platform/validator"
)

// Module bundles the leads bounded context.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// New wires the leads module. It subscribes to job creation so a lead that
// turns into a job is closed as Converted.
func New(pool *pgxpool.Pool, bus events.Bus, val *appvalidator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, val, log)
	m := &Module{
		handler: handler.New(svc),
		service: svc,
	}

	bus.Subscribe(events.JobCreated{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		created, ok := event.(events.JobCreated)
		if !ok || created.LeadID == nil {
			return nil
		}
		return svc.MarkConverted(ctx, *created.LeadID, created.CreatedBy, created.JobCode)
	}))

	return m
}

// Name implements apphttp.Module.
func (m *Module) Name() string { return "leads" }

// Service exposes the lead service for cross-module composition (My Tasks).
func (m *Module) Service() *service.Service { return m.service }

// RegisterRoutes mounts the lead routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public enquiry intake stays outside auth but behind the stricter limiter.
	ctx.V1.POST("/enquiry", ctx.PublicRateLimiter.RateLimit(), m.handler.CreateEnquiry)

	ctx.Protected.GET("/leads", m.handler.List)
	ctx.Protected.PATCH("/leads/:id/status", m.handler.UpdateStatus)

	ctx.Supervisor.POST("/leads/assignment/create", m.handler.Assign)
}
