package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nytro_assessment_backend/internal/assessment"
	"nytro_assessment_backend/internal/auth"
	"nytro_assessment_backend/internal/benchmark"
	"nytro_assessment_backend/internal/crm"
	"nytro_assessment_backend/internal/email"
	"nytro_assessment_backend/internal/events"
	apphttp "nytro_assessment_backend/internal/http"
	"nytro_assessment_backend/internal/http/router"
	"nytro_assessment_backend/internal/narrative"
	"nytro_assessment_backend/internal/pdf"
	"nytro_assessment_backend/internal/report"
	"nytro_assessment_backend/internal/scheduler"
	"nytro_assessment_backend/platform/config"
	"nytro_assessment_backend/platform/db"
	"nytro_assessment_backend/platform/logger"
	"nytro_assessment_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	taskClient, closeTasks := initTaskClient(cfg, log)
	if closeTasks != nil {
		defer closeTasks()
	}

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// Report storage (MinIO); reports are generated on demand when unset
	reportStorage := initReportStorage(ctx, cfg, log)

	// Gotenberg PDF generator
	var pdfGen *pdf.Generator
	if cfg.IsGotenbergEnabled() {
		pdfGen = pdf.NewGenerator(pdf.NewGotenbergClient(
			cfg.GetGotenbergURL(),
			cfg.GetGotenbergUsername(),
			cfg.GetGotenbergPassword(),
		))
		log.Info("gotenberg PDF generator initialized", "url", cfg.GetGotenbergURL())
	}

	// CRM sync is a noop unless a HubSpot API key is configured
	crmSyncer := crm.NewSyncer(cfg)
	if cfg.IsHubSpotEnabled() {
		log.Info("hubspot CRM sync enabled")
	}

	// AI narrative generator; the assessment service falls back to the
	// deterministic recommendation builder when this stays nil
	var narrator assessment.Narrator
	if cfg.IsAIEnabled() {
		gen, err := narrative.NewGenerator(narrative.Config{
			APIKey:  cfg.GetOpenAIAPIKey(),
			BaseURL: cfg.GetOpenAIBaseURL(),
			Model:   cfg.GetOpenAIModel(),
		})
		if err != nil {
			log.Error("failed to initialize narrative generator", "error", err)
			panic("failed to initialize narrative generator: " + err.Error())
		}
		narrator = gen
		log.Info("AI narrative generator initialized", "model", cfg.GetOpenAIModel())
	} else {
		log.Warn("OPENAI_API_KEY not configured; using deterministic recommendations")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	benchmarkModule := benchmark.NewModule(pool, log)
	if path := cfg.GetBenchmarkSeedPath(); path != "" {
		if err := withRetry(ctx, log, "benchmark seed", 3, 2*time.Second, func() error {
			return benchmarkModule.Seed(ctx, path)
		}); err != nil {
			log.Error("failed to seed industry benchmarks", "error", err, "path", path)
			panic("failed to seed industry benchmarks: " + err.Error())
		}
	}

	authModule := auth.NewModule(cfg, val, log)

	collaborators := assessment.Collaborators{
		Narrator:   narrator,
		Mailer:     sender,
		PDF:        pdfGen,
		Storage:    reportStorage,
		Benchmarks: benchmarkModule.Service(),
		CRM:        crmSyncer,
		Bus:        eventBus,
	}
	if taskClient != nil {
		collaborators.Tasks = taskClient
	}

	assessmentModule := assessment.NewModule(pool, cfg, collaborators, val, log)
	assessmentModule.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			assessmentModule,
			benchmarkModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initTaskClient builds the asynq task client. Without Redis the followup
// email and CRM sync tasks are skipped rather than failing startup.
func initTaskClient(cfg config.QueueConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisAddr() == "" {
		log.Warn("REDIS_ADDR not configured; followup emails and CRM sync disabled")
		return nil, nil
	}

	taskClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize task client", "error", err)
		return nil, nil
	}

	return taskClient, func() {
		_ = taskClient.Close()
	}
}

func initReportStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) report.Storage {
	if !cfg.IsMinIOEnabled() {
		log.Warn("MINIO_ENDPOINT not configured; report PDFs generated on demand only")
		return report.NoopStorage{}
	}

	storage, err := report.NewMinIOStorage(ctx, cfg)
	if err != nil {
		log.Error("failed to initialize report storage", "error", err)
		panic("failed to initialize report storage: " + err.Error())
	}
	log.Info("report storage initialized", "bucket", cfg.GetMinioBucketReportPDFs())
	return storage
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
