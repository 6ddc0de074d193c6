// Package assessment wires the assessment bounded context: submission,
// scoring, results, report delivery, and the post-scoring fan-out.
package assessment

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"nytro_assessment_backend/internal/assessment/handler"
	"nytro_assessment_backend/internal/assessment/repository"
	"nytro_assessment_backend/internal/assessment/service"
	"nytro_assessment_backend/internal/crm"
	"nytro_assessment_backend/internal/email"
	"nytro_assessment_backend/internal/events"
	apphttp "nytro_assessment_backend/internal/http"
	"nytro_assessment_backend/internal/pdf"
	"nytro_assessment_backend/internal/report"
	"nytro_assessment_backend/internal/scheduler"
	"nytro_assessment_backend/platform/config"
	"nytro_assessment_backend/platform/logger"
	"nytro_assessment_backend/platform/validator"
)

// Narrator is re-exported so the composition root can declare the optional
// AI generator without importing the service package directly.
type Narrator = service.Narrator

// Collaborators are the cross-module dependencies injected by the
// composition root. Optional fields may stay nil; the service degrades
// gracefully without them.
type Collaborators struct {
	Narrator   service.Narrator
	Mailer     email.Sender
	PDF        *pdf.Generator
	Storage    report.Storage
	Benchmarks service.BenchmarkProvider
	CRM        crm.Syncer
	Tasks      scheduler.TaskScheduler
	Bus        events.Bus
}

// Module is the assessment bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates the assessment module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, cfg *config.Config, collab Collaborators, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)

	svc := service.New(service.Deps{
		Repo:          repo,
		Narrator:      collab.Narrator,
		Mailer:        collab.Mailer,
		PDF:           collab.PDF,
		Storage:       collab.Storage,
		Benchmarks:    collab.Benchmarks,
		CRM:           collab.CRM,
		Tasks:         collab.Tasks,
		Bus:           collab.Bus,
		AppBaseURL:    cfg.GetAppBaseURL(),
		FollowupDelay: cfg.GetFollowupDelay(),
		Log:           log,
	})
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "assessment"
}

// Service exposes the assessment service for the worker and event handlers.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the assessment routes. The public write endpoints
// share the stricter rate limiter; result reads are only limited globally.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.V1.Group("/assessments")
	public.Use(ctx.AuthRateLimiter.RateLimit())
	public.POST("", m.handler.Submit)
	public.POST("/:id/score", m.handler.Score)
	public.POST("/:id/email-report", m.handler.EmailReport)

	ctx.V1.GET("/assessments/:id/results", m.handler.Results)
	ctx.V1.GET("/assessments/:id/report.pdf", m.handler.ReportPDF)

	ctx.Admin.GET("/assessments", m.handler.List)
}

// RegisterHandlers subscribes the post-scoring fan-out to the event bus.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.AssessmentScored{}.EventName(), m)
}

// Handle routes events to the appropriate service method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.AssessmentScored:
		return m.service.HandleScored(ctx, e)
	default:
		return nil
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
