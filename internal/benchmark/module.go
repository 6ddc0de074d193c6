// Package benchmark wires the industry benchmark feature: percentile data
// seeded from YAML, stored in PostgreSQL, and served read-only over HTTP.
package benchmark

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"nytro_assessment_backend/internal/benchmark/handler"
	"nytro_assessment_backend/internal/benchmark/repository"
	"nytro_assessment_backend/internal/benchmark/service"
	apphttp "nytro_assessment_backend/internal/http"
	"nytro_assessment_backend/platform/logger"
)

// Module bundles the benchmark handler, service, and repository.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates the benchmark module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "benchmark"
}

// Service exposes the benchmark service for other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// Seed loads the seed file and upserts its rows. Called once at startup.
func (m *Module) Seed(ctx context.Context, path string) error {
	return m.service.Seed(ctx, path)
}

// RegisterRoutes mounts the benchmark routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/benchmarks", m.handler.ListIndustries)
	ctx.V1.GET("/benchmarks/:industry", m.handler.GetByIndustry)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
