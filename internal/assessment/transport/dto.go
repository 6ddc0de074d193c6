// Package transport defines the request and response DTOs for the
// assessment endpoints, plus the mapping between the wire shape of a
// questionnaire and the engine's response document.
package transport

import (
	"github.com/google/uuid"

	"nytro_assessment_backend/internal/assessment/engine"
)

// LeverAnswer is one questionnaire answer on the wire. Present may be
// omitted; Applicable defaults to true when omitted.
type LeverAnswer struct {
	Present    *bool `json:"present,omitempty"`
	Applicable *bool `json:"applicable,omitempty"`
}

// CalibrationPayload carries the optional funnel questions as entered.
type CalibrationPayload struct {
	MonthlyLeads string `json:"monthlyLeads,omitempty"`
	MeetingRate  string `json:"meetingRate,omitempty"`
	SalesCycle   string `json:"salesCycle,omitempty"`
}

// SubmitAssessmentRequest is the public questionnaire submission.
type SubmitAssessmentRequest struct {
	Email       string                            `json:"email" validate:"required,email"`
	Company     string                            `json:"company" validate:"required,min=1,max=200"`
	Industry    *string                           `json:"industry,omitempty" validate:"omitempty,max=100"`
	CompanySize *string                           `json:"companySize,omitempty" validate:"omitempty,max=50"`
	Phone       *string                           `json:"phone,omitempty" validate:"omitempty,max=30"`
	Responses   map[string]map[string]LeverAnswer `json:"responses" validate:"required"`
	Calibration *CalibrationPayload               `json:"calibration,omitempty"`
}

// SubmitAssessmentResponse returns the created identifiers.
type SubmitAssessmentResponse struct {
	AssessmentID uuid.UUID `json:"assessmentId"`
	RespondentID uuid.UUID `json:"respondentId"`
}

// GapPayload is one ranked gap in the results payload.
type GapPayload struct {
	Module string `json:"module"`
	Lever  string `json:"lever"`
	Name   string `json:"name"`
	Weight int    `json:"weight"`
	Impact int    `json:"computedImpact"`
}

// GrowthLever is one recommended action in the results payload.
type GrowthLever struct {
	Name           string `json:"name"`
	Why            string `json:"why"`
	ExpectedImpact string `json:"expectedImpact"`
	Confidence     string `json:"confidence"`
	FirstStep      string `json:"firstStep"`
}

// BenchmarkPayload compares one module score against industry percentiles.
type BenchmarkPayload struct {
	Module string `json:"module"`
	Score  *int   `json:"score"`
	P25    int    `json:"p25"`
	P50    int    `json:"p50"`
	P75    int    `json:"p75"`
}

// ResultsResponse is the scored assessment as returned by score and results.
type ResultsResponse struct {
	AssessmentID  uuid.UUID          `json:"assessmentId"`
	OverallScore  int                `json:"overallScore"`
	Outcome       string             `json:"outcome"`
	Confidence    string             `json:"confidence"`
	ModuleScores  map[string]*int    `json:"moduleScores"`
	Gaps          []GapPayload       `json:"gaps"`
	Summary       string             `json:"summary"`
	GrowthLevers  []GrowthLever      `json:"growthLevers"`
	RiskFlags     []string           `json:"riskFlags"`
	Prerequisites []string           `json:"prerequisites"`
	Benchmarks    []BenchmarkPayload `json:"benchmarks,omitempty"`
	ScoredAt      string             `json:"scoredAt"`
}

// EmailReportResponse acknowledges a report email send.
type EmailReportResponse struct {
	Status string `json:"status"`
}

// ListAssessmentsRequest is the admin list query.
type ListAssessmentsRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}

// AssessmentSummary is one row in the admin list.
type AssessmentSummary struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Company      string    `json:"company"`
	Industry     *string   `json:"industry"`
	CompanySize  *string   `json:"companySize"`
	OverallScore *int      `json:"overallScore"`
	Outcome      *string   `json:"outcome"`
	CreatedAt    string    `json:"createdAt"`
	ScoredAt     *string   `json:"scoredAt"`
}

// AssessmentListResponse is the paginated admin list.
type AssessmentListResponse struct {
	Items      []AssessmentSummary `json:"items"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
	TotalPages int                 `json:"totalPages"`
}

// ToResponseDocument converts wire answers into the engine document.
// An answer is materialized only when present was explicitly set or the
// lever was explicitly marked inapplicable; anything else counts as
// unanswered. Applicable defaults to true.
func ToResponseDocument(responses map[string]map[string]LeverAnswer) engine.ResponseDocument {
	doc := make(engine.ResponseDocument, len(responses))
	for module, levers := range responses {
		for lever, answer := range levers {
			applicable := true
			if answer.Applicable != nil {
				applicable = *answer.Applicable
			}
			if answer.Present == nil && applicable {
				continue
			}

			present := false
			if answer.Present != nil {
				present = *answer.Present
			}
			if !applicable {
				// An inapplicable lever can never count as present.
				present = false
			}

			m, ok := doc[engine.ModuleKey(module)]
			if !ok {
				m = make(map[engine.LeverKey]engine.LeverResponse)
				doc[engine.ModuleKey(module)] = m
			}
			m[engine.LeverKey(lever)] = engine.LeverResponse{
				Present:    present,
				Applicable: applicable,
			}
		}
	}
	return doc
}

// FromResponseDocument converts an engine document back to the wire shape,
// used when echoing stored responses.
func FromResponseDocument(doc engine.ResponseDocument) map[string]map[string]LeverAnswer {
	out := make(map[string]map[string]LeverAnswer, len(doc))
	for module, levers := range doc {
		m := make(map[string]LeverAnswer, len(levers))
		for lever, resp := range levers {
			present := resp.Present
			applicable := resp.Applicable
			m[string(lever)] = LeverAnswer{Present: &present, Applicable: &applicable}
		}
		out[string(module)] = m
	}
	return out
}
