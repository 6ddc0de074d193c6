// The worker binary consumes the asynq task queue: followup emails scheduled
// after scoring and CRM sync jobs. It shares the assessment service with the
// API binary but exposes no HTTP surface.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nytro_assessment_backend/internal/assessment"
	"nytro_assessment_backend/internal/benchmark"
	"nytro_assessment_backend/internal/crm"
	"nytro_assessment_backend/internal/email"
	"nytro_assessment_backend/internal/events"
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

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env, "redis", cfg.GetRedisAddr())

	if cfg.GetRedisAddr() == "" {
		log.Error("REDIS_ADDR is required for the worker")
		panic("REDIS_ADDR is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= 5; attempt++ {
		p, err := db.NewPool(ctx, cfg)
		if err == nil {
			pool = p
			break
		}
		log.Warn("database connection failed", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(attempt*attempt) * 2 * time.Second):
		}
	}
	if pool == nil {
		panic("failed to connect to database")
	}
	defer pool.Close()
	log.Info("database connection established")

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	var reportStorage report.Storage = report.NoopStorage{}
	if cfg.IsMinIOEnabled() {
		storage, err := report.NewMinIOStorage(ctx, cfg)
		if err != nil {
			log.Error("failed to initialize report storage", "error", err)
			panic("failed to initialize report storage: " + err.Error())
		}
		reportStorage = storage
	}

	var pdfGen *pdf.Generator
	if cfg.IsGotenbergEnabled() {
		pdfGen = pdf.NewGenerator(pdf.NewGotenbergClient(
			cfg.GetGotenbergURL(),
			cfg.GetGotenbergUsername(),
			cfg.GetGotenbergPassword(),
		))
	}

	val := validator.New()
	eventBus := events.NewInMemoryBus(log)
	benchmarkModule := benchmark.NewModule(pool, log)

	assessmentModule := assessment.NewModule(pool, cfg, assessment.Collaborators{
		Mailer:     sender,
		PDF:        pdfGen,
		Storage:    reportStorage,
		Benchmarks: benchmarkModule.Service(),
		CRM:        crm.NewSyncer(cfg),
		Bus:        eventBus,
	}, val, log)

	svc := assessmentModule.Service()
	worker, err := scheduler.NewWorker(cfg, svc, svc, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	log.Info("worker listening for tasks")
	worker.Run(ctx)
	log.Info("worker stopped")
}
