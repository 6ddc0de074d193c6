// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"nytro_assessment_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// AssessmentSubmitted is published when a respondent submits a questionnaire.
type AssessmentSubmitted struct {
	BaseEvent
	AssessmentID uuid.UUID `json:"assessmentId"`
	RespondentID uuid.UUID `json:"respondentId"`
	Email        string    `json:"email"`
}

func (e AssessmentSubmitted) EventName() string { return "assessment.submitted" }

// AssessmentScored is published after scoring completes and results are
// persisted. Subscribers fan out the report PDF, follow-up email, and CRM
// sync; none of them can fail the scoring request.
type AssessmentScored struct {
	BaseEvent
	AssessmentID uuid.UUID `json:"assessmentId"`
	RespondentID uuid.UUID `json:"respondentId"`
	Email        string    `json:"email"`
	OverallScore int       `json:"overallScore"`
	Outcome      string    `json:"outcome"`
}

func (e AssessmentScored) EventName() string { return "assessment.scored" }
