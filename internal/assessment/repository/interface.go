package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Respondent is the person who filled in the questionnaire, upserted by email.
type Respondent struct {
	ID          uuid.UUID `db:"id"`
	Email       string    `db:"email"`
	Company     string    `db:"company"`
	Industry    *string   `db:"industry"`
	CompanySize *string   `db:"company_size"`
	Phone       *string   `db:"phone"`
	CreatedAt   string    `db:"created_at"`
	UpdatedAt   string    `db:"updated_at"`
}

// Assessment is one submitted questionnaire with its scoring state.
// Scoring columns stay NULL until the assessment is scored.
type Assessment struct {
	ID            uuid.UUID       `db:"id"`
	RespondentID  uuid.UUID       `db:"respondent_id"`
	Industry      *string         `db:"industry"`
	CompanySize   *string         `db:"company_size"`
	Responses     json.RawMessage `db:"responses"`
	Calibration   json.RawMessage `db:"calibration"`
	OverallScore  *int            `db:"overall_score"`
	Outcome       *string         `db:"outcome"`
	Confidence    *string         `db:"confidence"`
	ModuleScores  json.RawMessage `db:"module_scores"`
	Gaps          json.RawMessage `db:"gaps"`
	GrowthLevers  json.RawMessage `db:"growth_levers"`
	RiskFlags     json.RawMessage `db:"risk_flags"`
	Prerequisites json.RawMessage `db:"prerequisites"`
	Summary       *string         `db:"summary"`
	ReportFileKey *string         `db:"report_file_key"`
	ScoredAt      *time.Time      `db:"scored_at"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// UpsertRespondentParams contains parameters for creating or refreshing a respondent.
type UpsertRespondentParams struct {
	Email       string
	Company     string
	Industry    *string
	CompanySize *string
	Phone       *string
}

// CreateAssessmentParams contains parameters for creating an assessment row.
type CreateAssessmentParams struct {
	RespondentID uuid.UUID
	Industry     *string
	CompanySize  *string
	Responses    json.RawMessage
	Calibration  json.RawMessage
}

// SaveScoresParams contains the full scoring output persisted in one update.
type SaveScoresParams struct {
	ID            uuid.UUID
	OverallScore  int
	Outcome       string
	Confidence    string
	ModuleScores  json.RawMessage
	Gaps          json.RawMessage
	GrowthLevers  json.RawMessage
	RiskFlags     json.RawMessage
	Prerequisites json.RawMessage
	Summary       string
	ScoredAt      time.Time
}

// ListParams controls admin list pagination.
type ListParams struct {
	Limit  int
	Offset int
}

// ListItem is one admin list row joined with its respondent.
type ListItem struct {
	ID           uuid.UUID
	Email        string
	Company      string
	Industry     *string
	CompanySize  *string
	OverallScore *int
	Outcome      *string
	CreatedAt    time.Time
	ScoredAt     *time.Time
}

// AssessmentReader provides read operations for assessments.
type AssessmentReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Assessment, error)
	GetRespondent(ctx context.Context, id uuid.UUID) (Respondent, error)
	List(ctx context.Context, params ListParams) ([]ListItem, int, error)
}

// AssessmentWriter provides write operations for assessments.
type AssessmentWriter interface {
	UpsertRespondent(ctx context.Context, params UpsertRespondentParams) (Respondent, error)
	CreateAssessment(ctx context.Context, params CreateAssessmentParams) (Assessment, error)
	SaveScores(ctx context.Context, params SaveScoresParams) error
	SetReportFileKey(ctx context.Context, id uuid.UUID, fileKey string) error
}

// Repository combines all assessment repository operations.
type Repository interface {
	AssessmentReader
	AssessmentWriter
}
