package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"nytro_assessment_backend/platform/apperr"
)

const assessmentNotFoundMessage = "assessment not found"

const assessmentColumns = `
	id, respondent_id, industry, company_size, responses, calibration,
	overall_score, outcome, confidence, module_scores, gaps, growth_levers,
	risk_flags, prerequisites, summary, report_file_key, scored_at,
	created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new assessment repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// UpsertRespondent creates a respondent or refreshes the profile fields of
// an existing one, keyed on email.
func (r *Repo) UpsertRespondent(ctx context.Context, params UpsertRespondentParams) (Respondent, error) {
	query := `
		INSERT INTO NYT_respondents (email, company, industry, company_size, phone)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET
			company = EXCLUDED.company,
			industry = COALESCE(EXCLUDED.industry, NYT_respondents.industry),
			company_size = COALESCE(EXCLUDED.company_size, NYT_respondents.company_size),
			phone = COALESCE(EXCLUDED.phone, NYT_respondents.phone),
			updated_at = now()
		RETURNING id, email, company, industry, company_size, phone, created_at, updated_at`

	var resp Respondent
	var createdAt, updatedAt time.Time

	err := r.pool.QueryRow(ctx, query,
		params.Email, params.Company, params.Industry, params.CompanySize, params.Phone,
	).Scan(
		&resp.ID, &resp.Email, &resp.Company, &resp.Industry, &resp.CompanySize, &resp.Phone,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return Respondent{}, fmt.Errorf("upsert respondent: %w", err)
	}

	resp.CreatedAt = createdAt.Format(time.RFC3339)
	resp.UpdatedAt = updatedAt.Format(time.RFC3339)

	return resp, nil
}

// GetRespondent retrieves a respondent by ID.
func (r *Repo) GetRespondent(ctx context.Context, id uuid.UUID) (Respondent, error) {
	query := `
		SELECT id, email, company, industry, company_size, phone, created_at, updated_at
		FROM NYT_respondents
		WHERE id = $1`

	var resp Respondent
	var createdAt, updatedAt time.Time

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&resp.ID, &resp.Email, &resp.Company, &resp.Industry, &resp.CompanySize, &resp.Phone,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Respondent{}, apperr.NotFound("respondent not found")
		}
		return Respondent{}, fmt.Errorf("get respondent: %w", err)
	}

	resp.CreatedAt = createdAt.Format(time.RFC3339)
	resp.UpdatedAt = updatedAt.Format(time.RFC3339)

	return resp, nil
}

// CreateAssessment inserts a new unscored assessment row.
func (r *Repo) CreateAssessment(ctx context.Context, params CreateAssessmentParams) (Assessment, error) {
	query := `
		INSERT INTO NYT_assessments (respondent_id, industry, company_size, responses, calibration)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + assessmentColumns

	rows, err := r.pool.Query(ctx, query,
		params.RespondentID, params.Industry, params.CompanySize, params.Responses, params.Calibration,
	)
	if err != nil {
		return Assessment{}, fmt.Errorf("create assessment: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Assessment{}, fmt.Errorf("create assessment: %w", err)
		}
		return Assessment{}, fmt.Errorf("create assessment: no row returned")
	}

	return scanAssessment(rows)
}

// GetByID retrieves an assessment by its ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM NYT_assessments WHERE id = $1`

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return Assessment{}, fmt.Errorf("get assessment: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Assessment{}, fmt.Errorf("get assessment: %w", err)
		}
		return Assessment{}, apperr.NotFound(assessmentNotFoundMessage)
	}

	return scanAssessment(rows)
}

// SaveScores persists the full scoring output in one update.
func (r *Repo) SaveScores(ctx context.Context, params SaveScoresParams) error {
	query := `
		UPDATE NYT_assessments SET
			overall_score = $2,
			outcome = $3,
			confidence = $4,
			module_scores = $5,
			gaps = $6,
			growth_levers = $7,
			risk_flags = $8,
			prerequisites = $9,
			summary = $10,
			scored_at = $11,
			report_file_key = NULL,
			updated_at = now()
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query,
		params.ID, params.OverallScore, params.Outcome, params.Confidence,
		params.ModuleScores, params.Gaps, params.GrowthLevers, params.RiskFlags,
		params.Prerequisites, params.Summary, params.ScoredAt,
	)
	if err != nil {
		return fmt.Errorf("save assessment scores: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(assessmentNotFoundMessage)
	}

	return nil
}

// SetReportFileKey records the object storage key of the generated PDF.
func (r *Repo) SetReportFileKey(ctx context.Context, id uuid.UUID, fileKey string) error {
	query := `UPDATE NYT_assessments SET report_file_key = $2, updated_at = now() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, fileKey)
	if err != nil {
		return fmt.Errorf("set report file key: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(assessmentNotFoundMessage)
	}

	return nil
}

// List retrieves assessments joined with their respondents, newest first.
func (r *Repo) List(ctx context.Context, params ListParams) ([]ListItem, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM NYT_assessments`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count assessments: %w", err)
	}

	query := `
		SELECT a.id, r.email, r.company, a.industry, a.company_size,
			a.overall_score, a.outcome, a.created_at, a.scored_at
		FROM NYT_assessments a
		JOIN NYT_respondents r ON r.id = a.respondent_id
		ORDER BY a.created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	var items []ListItem
	for rows.Next() {
		var item ListItem
		err := rows.Scan(
			&item.ID, &item.Email, &item.Company, &item.Industry, &item.CompanySize,
			&item.OverallScore, &item.Outcome, &item.CreatedAt, &item.ScoredAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan assessment row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate assessments: %w", err)
	}

	return items, total, nil
}

func scanAssessment(rows pgx.Rows) (Assessment, error) {
	var a Assessment
	err := rows.Scan(
		&a.ID, &a.RespondentID, &a.Industry, &a.CompanySize, &a.Responses, &a.Calibration,
		&a.OverallScore, &a.Outcome, &a.Confidence, &a.ModuleScores, &a.Gaps, &a.GrowthLevers,
		&a.RiskFlags, &a.Prerequisites, &a.Summary, &a.ReportFileKey, &a.ScoredAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return Assessment{}, fmt.Errorf("scan assessment: %w", err)
	}
	return a, nil
}
