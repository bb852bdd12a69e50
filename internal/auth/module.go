// Package auth wires employee authentication: login and profile lookup.
package auth

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"solarfield_backend/internal/auth/handler"
	"solarfield_backend/internal/auth/repository"
	"solarfield_backend/internal/auth/service"
	apphttp "solarfield_backend/internal/http"
	"solarfield_backend/platform/config"
	"solarfield_backend/platform/logger"
	appvalidator "solarfield_backend/platform/validator"
)

// Module bundles the auth bounded context.
type Module struct {
	handler *handler.Handler
}

// New wires the auth module.
func New(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *appvalidator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), cfg, val, log)
	return &Module{handler: handler.New(svc)}
}

// Name implements apphttp.Module.
func (m *Module) Name() string { return "auth" }

// RegisterRoutes mounts the auth routes. Login shares the public rate
// limiter with the enquiry form.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/auth/login", ctx.PublicRateLimiter.RateLimit(), m.handler.Login)
	ctx.Protected.GET("/auth/me", m.handler.Me)
}
