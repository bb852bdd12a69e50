// Package mytasks wires the per-employee task aggregator and keeps its
// overview cache coherent with lead and job writes.
package mytasks

import (
	"context"

	"solarfield_backend/internal/events"
	apphttp "solarfield_backend/internal/http"
	"solarfield_backend/internal/mytasks/handler"
	"solarfield_backend/internal/mytasks/service"
	"solarfield_backend/platform/logger"
)

// Module bundles the My Tasks bounded context.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// New wires the My Tasks module and subscribes the cache invalidation to the
// write-side events.
func New(leads service.LeadSource, jobs service.JobSource, cache *service.OverviewCache, bus events.Bus, log *logger.Logger) *Module {
	svc := service.New(leads, jobs, cache, log)
	m := &Module{
		handler: handler.New(svc),
		service: svc,
	}

	invalidate := events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		if employeeID, ok := employeeFor(event); ok {
			svc.InvalidateOverview(ctx, employeeID)
		}
		return nil
	})
	bus.Subscribe(events.LeadStatusChanged{}.EventName(), invalidate)
	bus.Subscribe(events.LeadAssigned{}.EventName(), invalidate)
	bus.Subscribe(events.JobStatusChanged{}.EventName(), invalidate)
	bus.Subscribe(events.JobAssigned{}.EventName(), invalidate)

	return m
}

// employeeFor extracts the employee whose overview a write affects.
func employeeFor(event events.Event) (int64, bool) {
	switch e := event.(type) {
	case events.LeadStatusChanged:
		return e.EmployeeID, true
	case events.LeadAssigned:
		return e.EmployeeID, true
	case events.JobStatusChanged:
		return e.EmployeeID, true
	case events.JobAssigned:
		return e.EmployeeID, true
	}
	return 0, false
}

// Name implements apphttp.Module.
func (m *Module) Name() string { return "mytasks" }

// RegisterRoutes mounts the My Tasks routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/mytasks/overview", m.handler.Overview)
	ctx.Protected.GET("/mytasks/myLeads", m.handler.MyLeads)
	ctx.Protected.GET("/mytasks/myJobs", m.handler.MyJobs)
}
