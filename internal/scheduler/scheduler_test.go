package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type testQueueConfig struct {
	addr string
}

func (c testQueueConfig) GetRedisAddr() string            { return c.addr }
func (c testQueueConfig) GetRedisPassword() string        { return "" }
func (c testQueueConfig) GetFollowupDelay() time.Duration { return 72 * time.Hour }

func TestFollowupEmailPayloadRoundTrip(t *testing.T) {
	task, err := NewFollowupEmailTask(FollowupEmailPayload{AssessmentID: "a7f1c2d3"})
	if err != nil {
		t.Fatalf("NewFollowupEmailTask: %v", err)
	}
	if task.Type() != TaskFollowupEmail {
		t.Fatalf("unexpected task type %q", task.Type())
	}

	payload, err := ParseFollowupEmailPayload(task)
	if err != nil {
		t.Fatalf("ParseFollowupEmailPayload: %v", err)
	}
	if payload.AssessmentID != "a7f1c2d3" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestParseCRMSyncPayloadRejectsGarbage(t *testing.T) {
	task := asynq.NewTask(TaskCRMSync, []byte("not json"))
	if _, err := ParseCRMSyncPayload(task); err == nil {
		t.Fatal("expected error for invalid payload")
	}
}

func TestClientSchedulesFollowup(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(testQueueConfig{addr: srv.Addr()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	runAt := time.Now().Add(72 * time.Hour)
	err = client.ScheduleFollowupEmail(context.Background(), FollowupEmailPayload{AssessmentID: "abc"}, runAt)
	if err != nil {
		t.Fatalf("ScheduleFollowupEmail: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: srv.Addr()})
	defer inspector.Close()

	tasks, err := inspector.ListScheduledTasks("default")
	if err != nil {
		t.Fatalf("ListScheduledTasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 scheduled task, got %d", len(tasks))
	}
	if tasks[0].Type != TaskFollowupEmail {
		t.Fatalf("unexpected task type %q", tasks[0].Type)
	}
}

func TestClientEnqueuesCRMSync(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(testQueueConfig{addr: srv.Addr()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	err = client.EnqueueCRMSync(context.Background(), CRMSyncPayload{AssessmentID: "abc"})
	if err != nil {
		t.Fatalf("EnqueueCRMSync: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: srv.Addr()})
	defer inspector.Close()

	tasks, err := inspector.ListPendingTasks("default")
	if err != nil {
		t.Fatalf("ListPendingTasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 pending task, got %d", len(tasks))
	}
	if tasks[0].Type != TaskCRMSync {
		t.Fatalf("unexpected task type %q", tasks[0].Type)
	}
}
