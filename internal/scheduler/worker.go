package scheduler

import (
	"context"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"nytro_assessment_backend/platform/config"
	"nytro_assessment_backend/platform/logger"
)

// FollowupSender sends the delayed follow-up email for a scored assessment.
// Implemented by the assessment service.
type FollowupSender interface {
	SendFollowup(ctx context.Context, assessmentID uuid.UUID) error
}

// CRMSyncer pushes a scored assessment to the CRM.
// Implemented by the assessment service.
type CRMSyncer interface {
	SyncToCRM(ctx context.Context, assessmentID uuid.UUID) error
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	followup FollowupSender
	crm      CRMSyncer
	log      *logger.Logger
}

func NewWorker(cfg config.QueueConfig, followup FollowupSender, crm CRMSyncer, log *logger.Logger) (*Worker, error) {
	server := asynq.NewServer(redisOpt(cfg), asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"default": 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		followup: followup,
		crm:      crm,
		log:      log,
	}

	mux.HandleFunc(TaskFollowupEmail, w.handleFollowupEmail)
	mux.HandleFunc(TaskCRMSync, w.handleCRMSync)

	return w, nil
}

func (w *Worker) handleFollowupEmail(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFollowupEmailPayload(task)
	if err != nil {
		return err
	}

	assessmentID, err := uuid.Parse(payload.AssessmentID)
	if err != nil {
		return err
	}

	if err := w.followup.SendFollowup(ctx, assessmentID); err != nil {
		w.log.Warn("followup email failed", "assessmentId", assessmentID, "error", err)
		return err
	}

	w.log.Info("followup email sent", "assessmentId", assessmentID)
	return nil
}

func (w *Worker) handleCRMSync(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseCRMSyncPayload(task)
	if err != nil {
		return err
	}

	assessmentID, err := uuid.Parse(payload.AssessmentID)
	if err != nil {
		return err
	}

	if err := w.crm.SyncToCRM(ctx, assessmentID); err != nil {
		w.log.Warn("crm sync failed", "assessmentId", assessmentID, "error", err)
		return err
	}

	w.log.Info("crm sync completed", "assessmentId", assessmentID)
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
