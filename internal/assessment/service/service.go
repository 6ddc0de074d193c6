// Package service orchestrates the assessment lifecycle: submission,
// scoring through the engine and narrative generator, persistence, and the
// post-scoring fan-out to PDF, email, and CRM. Scoring itself never fails
// because a collaborator failed; those errors are logged and absorbed.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"nytro_assessment_backend/internal/assessment/engine"
	"nytro_assessment_backend/internal/assessment/repository"
	"nytro_assessment_backend/internal/assessment/transport"
	benchrepo "nytro_assessment_backend/internal/benchmark/repository"
	"nytro_assessment_backend/internal/crm"
	"nytro_assessment_backend/internal/email"
	"nytro_assessment_backend/internal/events"
	"nytro_assessment_backend/internal/narrative"
	"nytro_assessment_backend/internal/pdf"
	"nytro_assessment_backend/internal/report"
	"nytro_assessment_backend/internal/scheduler"
	"nytro_assessment_backend/platform/apperr"
	"nytro_assessment_backend/platform/logger"
	"nytro_assessment_backend/platform/phone"
	"nytro_assessment_backend/platform/sanitize"
)

// Narrator produces the advisory narrative for a scored assessment.
// Implemented by narrative.Generator; nil means AI is disabled.
type Narrator interface {
	Generate(ctx context.Context, input narrative.Input) (narrative.Recommendation, error)
}

// BenchmarkProvider looks up industry percentiles for results commentary.
type BenchmarkProvider interface {
	PercentilesFor(ctx context.Context, industry string) (map[string]benchrepo.Benchmark, error)
}

// Deps bundles the service's collaborators.
type Deps struct {
	Repo          repository.Repository
	Narrator      Narrator
	Mailer        email.Sender
	PDF           *pdf.Generator
	Storage       report.Storage
	Benchmarks    BenchmarkProvider
	CRM           crm.Syncer
	Tasks         scheduler.TaskScheduler
	Bus           events.Bus
	AppBaseURL    string
	FollowupDelay time.Duration
	Log           *logger.Logger
}

// Service implements the assessment use cases.
type Service struct {
	repo          repository.Repository
	weights       engine.Weights
	narrator      Narrator
	mailer        email.Sender
	pdfGen        *pdf.Generator
	storage       report.Storage
	benchmarks    BenchmarkProvider
	crmSync       crm.Syncer
	tasks         scheduler.TaskScheduler
	bus           events.Bus
	appBaseURL    string
	followupDelay time.Duration
	log           *logger.Logger
}

// New creates a new assessment service.
func New(deps Deps) *Service {
	return &Service{
		repo:          deps.Repo,
		weights:       engine.DefaultWeights(),
		narrator:      deps.Narrator,
		mailer:        deps.Mailer,
		pdfGen:        deps.PDF,
		storage:       deps.Storage,
		benchmarks:    deps.Benchmarks,
		crmSync:       deps.CRM,
		tasks:         deps.Tasks,
		bus:           deps.Bus,
		appBaseURL:    strings.TrimRight(deps.AppBaseURL, "/"),
		followupDelay: deps.FollowupDelay,
		log:           deps.Log,
	}
}

// Submit validates and stores a questionnaire submission. The respondent is
// upserted by email; each submission creates a fresh assessment row.
func (s *Service) Submit(ctx context.Context, req transport.SubmitAssessmentRequest) (transport.SubmitAssessmentResponse, error) {
	if err := validateBusinessEmail(req.Email); err != nil {
		return transport.SubmitAssessmentResponse{}, err
	}
	if len(req.Responses) == 0 {
		return transport.SubmitAssessmentResponse{}, apperr.BadRequest("responses are required")
	}

	var phonePtr *string
	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		if normalized != "" {
			phonePtr = &normalized
		}
	}

	respondent, err := s.repo.UpsertRespondent(ctx, repository.UpsertRespondentParams{
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Company:     sanitize.Text(req.Company),
		Industry:    sanitize.TextPtr(req.Industry),
		CompanySize: sanitize.TextPtr(req.CompanySize),
		Phone:       phonePtr,
	})
	if err != nil {
		return transport.SubmitAssessmentResponse{}, err
	}

	responsesJSON, err := json.Marshal(req.Responses)
	if err != nil {
		return transport.SubmitAssessmentResponse{}, fmt.Errorf("marshal responses: %w", err)
	}

	var calibrationJSON json.RawMessage
	if req.Calibration != nil {
		calibrationJSON, err = json.Marshal(req.Calibration)
		if err != nil {
			return transport.SubmitAssessmentResponse{}, fmt.Errorf("marshal calibration: %w", err)
		}
	}

	assessment, err := s.repo.CreateAssessment(ctx, repository.CreateAssessmentParams{
		RespondentID: respondent.ID,
		Industry:     sanitize.TextPtr(req.Industry),
		CompanySize:  sanitize.TextPtr(req.CompanySize),
		Responses:    responsesJSON,
		Calibration:  calibrationJSON,
	})
	if err != nil {
		return transport.SubmitAssessmentResponse{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.AssessmentSubmitted{
			BaseEvent:    events.NewBaseEvent(),
			AssessmentID: assessment.ID,
			RespondentID: respondent.ID,
			Email:        respondent.Email,
		})
	}

	s.log.Info("assessment submitted", "assessmentId", assessment.ID, "respondentId", respondent.ID)

	return transport.SubmitAssessmentResponse{
		AssessmentID: assessment.ID,
		RespondentID: respondent.ID,
	}, nil
}

// Score runs the engine over the stored responses, asks the narrator for a
// recommendation (falling back deterministically), persists everything, and
// publishes the scored event for the fan-out.
func (s *Service) Score(ctx context.Context, id uuid.UUID) (transport.ResultsResponse, error) {
	assessment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ResultsResponse{}, err
	}
	respondent, err := s.repo.GetRespondent(ctx, assessment.RespondentID)
	if err != nil {
		return transport.ResultsResponse{}, err
	}

	var wireResponses map[string]map[string]transport.LeverAnswer
	if err := json.Unmarshal(assessment.Responses, &wireResponses); err != nil {
		return transport.ResultsResponse{}, fmt.Errorf("unmarshal responses: %w", err)
	}
	doc := transport.ToResponseDocument(wireResponses)

	scores := engine.ScoreAll(doc, s.weights)
	summary := engine.Aggregate(scores, s.weights)
	gaps := engine.RankGaps(doc, s.weights)
	advisories := engine.EvaluateAdvisories(doc, scores, s.weights)
	confidence := engine.EstimateConfidence(doc)
	stack := engine.ExtractStack(doc)

	input := narrative.Input{
		Company:       respondent.Company,
		Industry:      derefOr(assessment.Industry, ""),
		Scores:        scores,
		Summary:       summary,
		Gaps:          gaps,
		GapNames:      gapDisplayNames(gaps),
		Stack:         stack,
		Prerequisites: advisories.Prerequisites,
		Confidence:    confidence,
		Calibration:   calibrationFromJSON(assessment.Calibration),
	}

	rec := s.recommend(ctx, input)

	riskFlags := mergeRisks(advisories.Risks, rec.Risks)
	scoredAt := time.Now().UTC()

	params, err := buildSaveParams(id, summary, confidence, scores, gaps, rec, riskFlags, advisories.Prerequisites, scoredAt)
	if err != nil {
		return transport.ResultsResponse{}, err
	}
	if err := s.repo.SaveScores(ctx, params); err != nil {
		return transport.ResultsResponse{}, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.AssessmentScored{
			BaseEvent:    events.NewBaseEvent(),
			AssessmentID: id,
			RespondentID: respondent.ID,
			Email:        respondent.Email,
			OverallScore: summary.Overall,
			Outcome:      string(summary.Outcome),
		})
	}

	s.log.Info("assessment scored",
		"assessmentId", id,
		"overall", summary.Overall,
		"outcome", summary.Outcome,
		"confidence", confidence,
	)

	return s.buildResultsResponse(ctx, id, assessment.Industry, summary.Overall, string(summary.Outcome),
		string(confidence), scores, gaps, rec, riskFlags, advisories.Prerequisites, scoredAt), nil
}

// Results returns the stored scoring output for an assessment.
func (s *Service) Results(ctx context.Context, id uuid.UUID) (transport.ResultsResponse, error) {
	assessment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.ResultsResponse{}, err
	}
	if assessment.ScoredAt == nil {
		return transport.ResultsResponse{}, apperr.BadRequest("assessment has not been scored yet")
	}

	resp := transport.ResultsResponse{
		AssessmentID: assessment.ID,
		OverallScore: derefInt(assessment.OverallScore),
		Outcome:      derefOr(assessment.Outcome, ""),
		Confidence:   derefOr(assessment.Confidence, ""),
		Summary:      derefOr(assessment.Summary, ""),
		ScoredAt:     assessment.ScoredAt.UTC().Format(time.RFC3339),
	}
	unmarshalInto(assessment.ModuleScores, &resp.ModuleScores, s.log, "moduleScores")
	unmarshalInto(assessment.Gaps, &resp.Gaps, s.log, "gaps")
	unmarshalInto(assessment.GrowthLevers, &resp.GrowthLevers, s.log, "growthLevers")
	unmarshalInto(assessment.RiskFlags, &resp.RiskFlags, s.log, "riskFlags")
	unmarshalInto(assessment.Prerequisites, &resp.Prerequisites, s.log, "prerequisites")

	resp.Benchmarks = s.benchmarksFor(ctx, assessment.Industry, resp.ModuleScores)

	return resp, nil
}

// List returns the paginated admin view of assessments.
func (s *Service) List(ctx context.Context, req transport.ListAssessmentsRequest) (transport.AssessmentListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	items, total, err := s.repo.List(ctx, repository.ListParams{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return transport.AssessmentListResponse{}, err
	}

	summaries := make([]transport.AssessmentSummary, len(items))
	for i, item := range items {
		summaries[i] = transport.AssessmentSummary{
			ID:           item.ID,
			Email:        item.Email,
			Company:      item.Company,
			Industry:     item.Industry,
			CompanySize:  item.CompanySize,
			OverallScore: item.OverallScore,
			Outcome:      item.Outcome,
			CreatedAt:    item.CreatedAt.UTC().Format(time.RFC3339),
		}
		if item.ScoredAt != nil {
			scored := item.ScoredAt.UTC().Format(time.RFC3339)
			summaries[i].ScoredAt = &scored
		}
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}

	return transport.AssessmentListResponse{
		Items:      summaries,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// recommend asks the narrator and falls back deterministically on any
// failure or when AI is disabled.
func (s *Service) recommend(ctx context.Context, input narrative.Input) narrative.Recommendation {
	if s.narrator == nil {
		return narrative.Fallback(input, s.weights)
	}

	rec, err := s.narrator.Generate(ctx, input)
	if err != nil {
		s.log.Warn("narrative generation failed, using fallback", "error", err)
		return narrative.Fallback(input, s.weights)
	}
	return rec
}

func (s *Service) benchmarksFor(ctx context.Context, industry *string, scores map[string]*int) []transport.BenchmarkPayload {
	if s.benchmarks == nil || industry == nil {
		return nil
	}

	byDim, err := s.benchmarks.PercentilesFor(ctx, *industry)
	if err != nil {
		s.log.Warn("benchmark lookup failed", "industry", *industry, "error", err)
		return nil
	}
	if len(byDim) == 0 {
		return nil
	}

	var out []transport.BenchmarkPayload
	for _, module := range engine.ModuleOrder {
		b, ok := byDim[string(module)]
		if !ok {
			continue
		}
		out = append(out, transport.BenchmarkPayload{
			Module: string(module),
			Score:  scores[string(module)],
			P25:    b.P25,
			P50:    b.P50,
			P75:    b.P75,
		})
	}
	return out
}

func (s *Service) buildResultsResponse(ctx context.Context, id uuid.UUID, industry *string,
	overall int, outcome, confidence string, scores engine.ModuleScores, gaps []engine.Gap,
	rec narrative.Recommendation, riskFlags, prerequisites []string, scoredAt time.Time) transport.ResultsResponse {

	resp := transport.ResultsResponse{
		AssessmentID:  id,
		OverallScore:  overall,
		Outcome:       outcome,
		Confidence:    confidence,
		ModuleScores:  moduleScoresPayload(scores),
		Gaps:          gapPayloads(gaps),
		Summary:       rec.Summary,
		GrowthLevers:  growthLeverPayloads(rec.Levers),
		RiskFlags:     riskFlags,
		Prerequisites: prerequisites,
		ScoredAt:      scoredAt.Format(time.RFC3339),
	}
	resp.Benchmarks = s.benchmarksFor(ctx, industry, resp.ModuleScores)
	return resp
}

func (s *Service) resultsURL(id uuid.UUID) string {
	return fmt.Sprintf("%s/results/%s", s.appBaseURL, id)
}

func buildSaveParams(id uuid.UUID, summary engine.Summary, confidence engine.Confidence,
	scores engine.ModuleScores, gaps []engine.Gap, rec narrative.Recommendation,
	riskFlags, prerequisites []string, scoredAt time.Time) (repository.SaveScoresParams, error) {

	scoresJSON, err := json.Marshal(moduleScoresPayload(scores))
	if err != nil {
		return repository.SaveScoresParams{}, fmt.Errorf("marshal module scores: %w", err)
	}
	gapsJSON, err := json.Marshal(gapPayloads(gaps))
	if err != nil {
		return repository.SaveScoresParams{}, fmt.Errorf("marshal gaps: %w", err)
	}
	leversJSON, err := json.Marshal(growthLeverPayloads(rec.Levers))
	if err != nil {
		return repository.SaveScoresParams{}, fmt.Errorf("marshal growth levers: %w", err)
	}
	risksJSON, err := json.Marshal(riskFlags)
	if err != nil {
		return repository.SaveScoresParams{}, fmt.Errorf("marshal risk flags: %w", err)
	}
	prereqJSON, err := json.Marshal(prerequisites)
	if err != nil {
		return repository.SaveScoresParams{}, fmt.Errorf("marshal prerequisites: %w", err)
	}

	return repository.SaveScoresParams{
		ID:            id,
		OverallScore:  summary.Overall,
		Outcome:       string(summary.Outcome),
		Confidence:    string(confidence),
		ModuleScores:  scoresJSON,
		Gaps:          gapsJSON,
		GrowthLevers:  leversJSON,
		RiskFlags:     risksJSON,
		Prerequisites: prereqJSON,
		Summary:       rec.Summary,
		ScoredAt:      scoredAt,
	}, nil
}

func moduleScoresPayload(scores engine.ModuleScores) map[string]*int {
	out := make(map[string]*int, len(scores))
	for module, score := range scores {
		out[string(module)] = score
	}
	return out
}

func gapPayloads(gaps []engine.Gap) []transport.GapPayload {
	out := make([]transport.GapPayload, len(gaps))
	for i, g := range gaps {
		out[i] = transport.GapPayload{
			Module: string(g.Module),
			Lever:  string(g.Lever),
			Name:   engine.LeverDisplayName(g.Module, g.Lever),
			Weight: g.Weight,
			Impact: g.Impact,
		}
	}
	return out
}

func growthLeverPayloads(levers []narrative.Lever) []transport.GrowthLever {
	out := make([]transport.GrowthLever, len(levers))
	for i, l := range levers {
		out[i] = transport.GrowthLever{
			Name:           l.Name,
			Why:            l.Why,
			ExpectedImpact: l.ExpectedImpact,
			Confidence:     string(l.Confidence),
			FirstStep:      l.FirstStep,
		}
	}
	return out
}

func gapDisplayNames(gaps []engine.Gap) []string {
	names := make([]string, len(gaps))
	for i, g := range gaps {
		names[i] = engine.LeverDisplayName(g.Module, g.Lever)
	}
	return names
}

// mergeRisks combines the deterministic advisory risks with the narrative
// risks, advisory first, dropping duplicates.
func mergeRisks(advisory, narrativeRisks []string) []string {
	out := make([]string, 0, len(advisory)+len(narrativeRisks))
	seen := make(map[string]bool, len(advisory)+len(narrativeRisks))
	for _, lists := range [][]string{advisory, narrativeRisks} {
		for _, r := range lists {
			if r == "" || seen[r] {
				continue
			}
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

func calibrationFromJSON(raw json.RawMessage) *narrative.Calibration {
	if len(raw) == 0 {
		return nil
	}
	var cal narrative.Calibration
	if err := json.Unmarshal(raw, &cal); err != nil {
		return nil
	}
	if cal.MonthlyLeads == "" && cal.MeetingRate == "" && cal.SalesCycle == "" {
		return nil
	}
	return &cal
}

func unmarshalInto(raw json.RawMessage, target any, log *logger.Logger, field string) {
	if len(raw) == 0 {
		return
	}
	if err := json.Unmarshal(raw, target); err != nil {
		log.Warn("corrupt stored assessment field", "field", field, "error", err)
	}
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
