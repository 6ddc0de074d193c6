// Package scheduler provides background task scheduling over asynq.
// Scoring an assessment enqueues two follow-on jobs: a delayed follow-up
// email and a near-immediate CRM sync. Both are retried by asynq on failure.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskFollowupEmail = "assessment.followup_email"

const TaskCRMSync = "assessment.crm_sync"

type FollowupEmailPayload struct {
	AssessmentID string `json:"assessmentId"`
}

type CRMSyncPayload struct {
	AssessmentID string `json:"assessmentId"`
}

func NewFollowupEmailTask(payload FollowupEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFollowupEmail, data), nil
}

func ParseFollowupEmailPayload(task *asynq.Task) (FollowupEmailPayload, error) {
	var payload FollowupEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FollowupEmailPayload{}, err
	}
	return payload, nil
}

func NewCRMSyncTask(payload CRMSyncPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCRMSync, data), nil
}

func ParseCRMSyncPayload(task *asynq.Task) (CRMSyncPayload, error) {
	var payload CRMSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CRMSyncPayload{}, err
	}
	return payload, nil
}
