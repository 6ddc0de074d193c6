// Package narrative turns scored assessments into advisor-style prose,
// either through an LLM agent or a deterministic fallback built from the
// ranked gaps.
package narrative

import "nytro_assessment_backend/internal/assessment/engine"

// Calibration carries the optional funnel answers collected alongside the
// questionnaire. All three fields are free-text as entered.
type Calibration struct {
	MonthlyLeads string `json:"monthlyLeads"`
	MeetingRate  string `json:"meetingRate"`
	SalesCycle   string `json:"salesCycle"`
}

// Input is everything the prompt is allowed to reference. The generator
// must not reach beyond these fields.
type Input struct {
	Company       string
	Industry      string
	Scores        engine.ModuleScores
	Summary       engine.Summary
	Gaps          []engine.Gap
	GapNames      []string
	Stack         []string
	Prerequisites []string
	Confidence    engine.Confidence
	Calibration   *Calibration
}

// Lever is one recommended growth action.
type Lever struct {
	Name           string            `json:"name"`
	Why            string            `json:"why"`
	ExpectedImpact string            `json:"expectedImpact"`
	Confidence     engine.Confidence `json:"confidence"`
	FirstStep      string            `json:"firstStep"`
}

// Recommendation is the advisory payload stored with the assessment.
type Recommendation struct {
	Summary string   `json:"summary"`
	Levers  []Lever  `json:"levers"`
	Risks   []string `json:"risks"`
}
