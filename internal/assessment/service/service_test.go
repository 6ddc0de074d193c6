package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"nytro_assessment_backend/internal/assessment/repository"
	"nytro_assessment_backend/internal/assessment/transport"
	"nytro_assessment_backend/internal/email"
	"nytro_assessment_backend/platform/apperr"
	"nytro_assessment_backend/platform/logger"
)

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	respondents map[uuid.UUID]repository.Respondent
	byEmail     map[string]uuid.UUID
	assessments map[uuid.UUID]repository.Assessment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		respondents: make(map[uuid.UUID]repository.Respondent),
		byEmail:     make(map[string]uuid.UUID),
		assessments: make(map[uuid.UUID]repository.Assessment),
	}
}

func (f *fakeRepo) UpsertRespondent(ctx context.Context, params repository.UpsertRespondentParams) (repository.Respondent, error) {
	if id, ok := f.byEmail[params.Email]; ok {
		resp := f.respondents[id]
		resp.Company = params.Company
		if params.Phone != nil {
			resp.Phone = params.Phone
		}
		f.respondents[id] = resp
		return resp, nil
	}

	resp := repository.Respondent{
		ID:          uuid.New(),
		Email:       params.Email,
		Company:     params.Company,
		Industry:    params.Industry,
		CompanySize: params.CompanySize,
		Phone:       params.Phone,
	}
	f.respondents[resp.ID] = resp
	f.byEmail[resp.Email] = resp.ID
	return resp, nil
}

func (f *fakeRepo) GetRespondent(ctx context.Context, id uuid.UUID) (repository.Respondent, error) {
	resp, ok := f.respondents[id]
	if !ok {
		return repository.Respondent{}, apperr.NotFound("respondent not found")
	}
	return resp, nil
}

func (f *fakeRepo) CreateAssessment(ctx context.Context, params repository.CreateAssessmentParams) (repository.Assessment, error) {
	a := repository.Assessment{
		ID:           uuid.New(),
		RespondentID: params.RespondentID,
		Industry:     params.Industry,
		CompanySize:  params.CompanySize,
		Responses:    params.Responses,
		Calibration:  params.Calibration,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.assessments[a.ID] = a
	return a, nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (repository.Assessment, error) {
	a, ok := f.assessments[id]
	if !ok {
		return repository.Assessment{}, apperr.NotFound("assessment not found")
	}
	return a, nil
}

func (f *fakeRepo) SaveScores(ctx context.Context, params repository.SaveScoresParams) error {
	a, ok := f.assessments[params.ID]
	if !ok {
		return apperr.NotFound("assessment not found")
	}
	a.OverallScore = &params.OverallScore
	a.Outcome = &params.Outcome
	a.Confidence = &params.Confidence
	a.ModuleScores = params.ModuleScores
	a.Gaps = params.Gaps
	a.GrowthLevers = params.GrowthLevers
	a.RiskFlags = params.RiskFlags
	a.Prerequisites = params.Prerequisites
	a.Summary = &params.Summary
	a.ScoredAt = &params.ScoredAt
	a.ReportFileKey = nil
	f.assessments[params.ID] = a
	return nil
}

func (f *fakeRepo) SetReportFileKey(ctx context.Context, id uuid.UUID, fileKey string) error {
	a, ok := f.assessments[id]
	if !ok {
		return apperr.NotFound("assessment not found")
	}
	a.ReportFileKey = &fileKey
	f.assessments[id] = a
	return nil
}

func (f *fakeRepo) List(ctx context.Context, params repository.ListParams) ([]repository.ListItem, int, error) {
	var items []repository.ListItem
	for _, a := range f.assessments {
		r := f.respondents[a.RespondentID]
		items = append(items, repository.ListItem{
			ID:           a.ID,
			Email:        r.Email,
			Company:      r.Company,
			OverallScore: a.OverallScore,
			Outcome:      a.Outcome,
			CreatedAt:    a.CreatedAt,
			ScoredAt:     a.ScoredAt,
		})
	}
	return items, len(items), nil
}

// fakeMailer records sent emails.
type fakeMailer struct {
	followupTo    string
	followupLever string
	reportTo      string
}

func (m *fakeMailer) SendReportEmail(ctx context.Context, toEmail, company string, overallScore int, outcome, resultsURL string, attachments ...email.Attachment) error {
	m.reportTo = toEmail
	return nil
}

func (m *fakeMailer) SendFollowupEmail(ctx context.Context, toEmail, company, topLever, resultsURL string) error {
	m.followupTo = toEmail
	m.followupLever = topLever
	return nil
}

func (m *fakeMailer) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return nil
}

func newTestService(repo repository.Repository, mailer email.Sender) *Service {
	return New(Deps{
		Repo:          repo,
		Mailer:        mailer,
		AppBaseURL:    "https://assess.example.com/",
		FollowupDelay: 72 * time.Hour,
		Log:           logger.New("development"),
	})
}

func boolPtr(v bool) *bool { return &v }

func submitFixture(t *testing.T, svc *Service) transport.SubmitAssessmentResponse {
	t.Helper()

	industry := "saas"
	req := transport.SubmitAssessmentRequest{
		Email:    "jane@acmecorp.com",
		Company:  "Acme Corp",
		Industry: &industry,
		Responses: map[string]map[string]transport.LeverAnswer{
			"infra": {
				"crm": {Present: boolPtr(true)},
			},
		},
	}

	result, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return result
}

func TestSubmitCreatesRespondentAndAssessment(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeMailer{})

	result := submitFixture(t, svc)

	if result.AssessmentID == uuid.Nil || result.RespondentID == uuid.Nil {
		t.Fatalf("expected non-nil ids: %+v", result)
	}
	if _, ok := repo.assessments[result.AssessmentID]; !ok {
		t.Fatal("assessment not stored")
	}
}

func TestSubmitRejectsConsumerEmail(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeMailer{})

	_, err := svc.Submit(context.Background(), transport.SubmitAssessmentRequest{
		Email:   "jane@gmail.com",
		Company: "Acme Corp",
		Responses: map[string]map[string]transport.LeverAnswer{
			"infra": {"crm": {Present: boolPtr(true)}},
		},
	})
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestSubmitRejectsEmptyResponses(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeMailer{})

	_, err := svc.Submit(context.Background(), transport.SubmitAssessmentRequest{
		Email:     "jane@acmecorp.com",
		Company:   "Acme Corp",
		Responses: map[string]map[string]transport.LeverAnswer{},
	})
	if err == nil {
		t.Fatal("expected error for empty responses")
	}
}

func TestSubmitNormalizesPhone(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeMailer{})

	phoneRaw := "(415) 555-2671"
	_, err := svc.Submit(context.Background(), transport.SubmitAssessmentRequest{
		Email:   "jane@acmecorp.com",
		Company: "Acme Corp",
		Phone:   &phoneRaw,
		Responses: map[string]map[string]transport.LeverAnswer{
			"infra": {"crm": {Present: boolPtr(true)}},
		},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	id := repo.byEmail["jane@acmecorp.com"]
	resp := repo.respondents[id]
	if resp.Phone == nil || *resp.Phone != "+14155552671" {
		t.Fatalf("expected normalized phone, got %v", resp.Phone)
	}
}

func TestScorePersistsAndUsesFallback(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeMailer{})

	submitted := submitFixture(t, svc)

	result, err := svc.Score(context.Background(), submitted.AssessmentID)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	// infra: 1 of 4 levers present (coverage 25), 6 of 16 weighted points
	// (weighted 38), blended 0.6*25 + 0.4*38 = 30.
	infra := result.ModuleScores["infra"]
	if infra == nil || *infra != 30 {
		t.Fatalf("unexpected infra score: %v", infra)
	}
	if result.Outcome == "" || result.Confidence == "" {
		t.Fatalf("incomplete result: %+v", result)
	}
	if result.Summary != "Assessment completed successfully. Here are your key growth opportunities." {
		t.Fatalf("expected fallback summary, got %q", result.Summary)
	}
	if len(result.GrowthLevers) != 3 {
		t.Fatalf("expected 3 fallback levers, got %d", len(result.GrowthLevers))
	}
	if len(result.Prerequisites) == 0 {
		t.Fatal("expected CRM prerequisite advisory")
	}

	stored := repo.assessments[submitted.AssessmentID]
	if stored.ScoredAt == nil || stored.OverallScore == nil {
		t.Fatal("scores not persisted")
	}
	if *stored.OverallScore != result.OverallScore {
		t.Fatalf("stored overall %d != returned %d", *stored.OverallScore, result.OverallScore)
	}
}

func TestResultsRequiresScoring(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeMailer{})

	submitted := submitFixture(t, svc)

	_, err := svc.Results(context.Background(), submitted.AssessmentID)
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request for unscored assessment, got %v", err)
	}
}

func TestResultsRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeMailer{})

	submitted := submitFixture(t, svc)
	scored, err := svc.Score(context.Background(), submitted.AssessmentID)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	results, err := svc.Results(context.Background(), submitted.AssessmentID)
	if err != nil {
		t.Fatalf("Results: %v", err)
	}

	if results.OverallScore != scored.OverallScore || results.Outcome != scored.Outcome {
		t.Fatalf("results mismatch: %+v vs %+v", results, scored)
	}
	if len(results.Gaps) != len(scored.Gaps) {
		t.Fatalf("gap count mismatch: %d vs %d", len(results.Gaps), len(scored.Gaps))
	}
}

func TestSendFollowupUsesTopLever(t *testing.T) {
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	svc := newTestService(repo, mailer)

	submitted := submitFixture(t, svc)
	scored, err := svc.Score(context.Background(), submitted.AssessmentID)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	if err := svc.SendFollowup(context.Background(), submitted.AssessmentID); err != nil {
		t.Fatalf("SendFollowup: %v", err)
	}

	if mailer.followupTo != "jane@acmecorp.com" {
		t.Fatalf("unexpected recipient %q", mailer.followupTo)
	}
	if mailer.followupLever != scored.GrowthLevers[0].Name {
		t.Fatalf("expected top lever %q, got %q", scored.GrowthLevers[0].Name, mailer.followupLever)
	}
}

func TestScoreNotFound(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeMailer{})

	_, err := svc.Score(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
