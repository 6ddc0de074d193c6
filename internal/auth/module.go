// Package auth provides the admin authentication module.
package auth

import (
	"nytro_assessment_backend/internal/auth/handler"
	"nytro_assessment_backend/internal/auth/service"
	apphttp "nytro_assessment_backend/internal/http"
	"nytro_assessment_backend/platform/config"
	"nytro_assessment_backend/platform/logger"
	"nytro_assessment_backend/platform/validator"
)

// Module is the auth module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the auth module with all dependencies wired.
func NewModule(cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(cfg, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Service exposes the auth service.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts auth routes with the stricter auth rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	authGroup.POST("/sign-in", m.handler.SignIn)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
