// Package refdata wires the read-only reference data provider that populates
// the enquiry, job and assignment forms.
package refdata

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "solarfield_backend/internal/http"
	"solarfield_backend/internal/refdata/handler"
	"solarfield_backend/internal/refdata/repository"
)

// Module bundles the reference data bounded context.
type Module struct {
	handler *handler.Handler
}

// New wires the reference data module.
func New(pool *pgxpool.Pool) *Module {
	return &Module{handler: handler.New(repository.New(pool))}
}

// Name implements apphttp.Module.
func (m *Module) Name() string { return "refdata" }

// RegisterRoutes mounts the reference data routes. Authoring is out of scope;
// these are lookups only.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/refdata/countries", m.handler.Countries)
	ctx.Protected.GET("/refdata/states", m.handler.States)
	ctx.Protected.GET("/refdata/districts", m.handler.Districts)
	ctx.Protected.GET("/refdata/packages", m.handler.Packages)

	ctx.Supervisor.GET("/refdata/employees", m.handler.Employees)
}
