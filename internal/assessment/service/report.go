package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"nytro_assessment_backend/internal/assessment/engine"
	"nytro_assessment_backend/internal/assessment/repository"
	"nytro_assessment_backend/internal/assessment/transport"
	"nytro_assessment_backend/internal/crm"
	"nytro_assessment_backend/internal/email"
	"nytro_assessment_backend/internal/events"
	"nytro_assessment_backend/internal/pdf"
	"nytro_assessment_backend/internal/scheduler"
	"nytro_assessment_backend/platform/apperr"
)

const reportFileName = "leadgen-assessment-report.pdf"

// HandleScored is the fan-out run after an assessment is scored: generate
// and store the report PDF, schedule the follow-up email, and enqueue the
// CRM sync. Each leg fails independently; failures are logged upstream and
// never reach the respondent.
func (s *Service) HandleScored(ctx context.Context, event events.AssessmentScored) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if _, err := s.ReportPDF(ctx, event.AssessmentID); err != nil {
			s.log.Warn("report pdf generation failed", "assessmentId", event.AssessmentID, "error", err)
		}
		return nil
	})

	g.Go(func() error {
		if s.tasks == nil {
			return nil
		}
		runAt := time.Now().Add(s.followupDelay)
		err := s.tasks.ScheduleFollowupEmail(ctx, scheduler.FollowupEmailPayload{
			AssessmentID: event.AssessmentID.String(),
		}, runAt)
		if err != nil {
			s.log.Warn("followup email scheduling failed", "assessmentId", event.AssessmentID, "error", err)
		}
		return nil
	})

	g.Go(func() error {
		if s.tasks == nil {
			return nil
		}
		err := s.tasks.EnqueueCRMSync(ctx, scheduler.CRMSyncPayload{
			AssessmentID: event.AssessmentID.String(),
		})
		if err != nil {
			s.log.Warn("crm sync enqueue failed", "assessmentId", event.AssessmentID, "error", err)
		}
		return nil
	})

	return g.Wait()
}

// ReportPDF returns the report PDF for a scored assessment, generating and
// storing it on first access. Regenerating after a re-score overwrites the
// stored object since the key is deterministic per assessment.
func (s *Service) ReportPDF(ctx context.Context, id uuid.UUID) ([]byte, error) {
	assessment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if assessment.ScoredAt == nil {
		return nil, apperr.BadRequest("assessment has not been scored yet")
	}

	// SaveScores clears the file key, so a set key always refers to the
	// current scoring run.
	if assessment.ReportFileKey != nil {
		data, err := s.storage.FetchReport(ctx, *assessment.ReportFileKey)
		if err == nil {
			return data, nil
		}
		s.log.Warn("stored report fetch failed, regenerating", "assessmentId", id, "error", err)
	}

	if s.pdfGen == nil {
		return nil, apperr.Internal("pdf generation is not configured")
	}

	respondent, err := s.repo.GetRespondent(ctx, assessment.RespondentID)
	if err != nil {
		return nil, err
	}

	data, err := s.buildReportData(ctx, assessment, respondent)
	if err != nil {
		return nil, err
	}

	pdfBytes, err := s.pdfGen.Generate(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("generate report pdf: %w", err)
	}

	fileKey, err := s.storage.StoreReport(ctx, id, pdfBytes)
	if err != nil {
		s.log.Warn("report upload failed", "assessmentId", id, "error", err)
		return pdfBytes, nil
	}
	if err := s.repo.SetReportFileKey(ctx, id, fileKey); err != nil {
		s.log.Warn("report file key update failed", "assessmentId", id, "error", err)
	}

	return pdfBytes, nil
}

// EmailReport sends the results email to the respondent, attaching the PDF
// when it can be produced.
func (s *Service) EmailReport(ctx context.Context, id uuid.UUID) error {
	assessment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if assessment.ScoredAt == nil {
		return apperr.BadRequest("assessment has not been scored yet")
	}

	respondent, err := s.repo.GetRespondent(ctx, assessment.RespondentID)
	if err != nil {
		return err
	}

	var attachments []email.Attachment
	if pdfBytes, err := s.ReportPDF(ctx, id); err == nil {
		attachments = append(attachments, email.Attachment{
			Content:  pdfBytes,
			FileName: reportFileName,
			MIMEType: "application/pdf",
		})
	} else {
		s.log.Warn("sending report email without attachment", "assessmentId", id, "error", err)
	}

	err = s.mailer.SendReportEmail(ctx, respondent.Email, respondent.Company,
		derefInt(assessment.OverallScore), derefOr(assessment.Outcome, ""),
		s.resultsURL(id), attachments...)
	if err != nil {
		return fmt.Errorf("send report email: %w", err)
	}

	s.log.Info("report email sent", "assessmentId", id, "to", respondent.Email)
	return nil
}

// SendFollowup sends the delayed follow-up email. Called from the worker.
func (s *Service) SendFollowup(ctx context.Context, id uuid.UUID) error {
	assessment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if assessment.ScoredAt == nil {
		return nil
	}

	respondent, err := s.repo.GetRespondent(ctx, assessment.RespondentID)
	if err != nil {
		return err
	}

	topLever := topLeverName(assessment)
	if topLever == "" {
		topLever = "your highest-impact growth lever"
	}

	return s.mailer.SendFollowupEmail(ctx, respondent.Email, respondent.Company, topLever, s.resultsURL(id))
}

// SyncToCRM pushes a scored assessment to the CRM. Called from the worker.
func (s *Service) SyncToCRM(ctx context.Context, id uuid.UUID) error {
	if s.crmSync == nil {
		return nil
	}

	assessment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if assessment.ScoredAt == nil {
		return nil
	}

	respondent, err := s.repo.GetRespondent(ctx, assessment.RespondentID)
	if err != nil {
		return err
	}

	var levers []transport.GrowthLever
	unmarshalInto(assessment.GrowthLevers, &levers, s.log, "growthLevers")
	var riskFlags []string
	unmarshalInto(assessment.RiskFlags, &riskFlags, s.log, "riskFlags")

	topLevers := make([]crm.SyncLever, 0, 3)
	for i, l := range levers {
		if i == 3 {
			break
		}
		topLevers = append(topLevers, crm.SyncLever{
			Name:           l.Name,
			ExpectedImpact: l.ExpectedImpact,
		})
	}

	input := crm.SyncInput{
		Email:        respondent.Email,
		Company:      respondent.Company,
		Industry:     derefOr(assessment.Industry, ""),
		CompanySize:  derefOr(assessment.CompanySize, ""),
		Phone:        derefOr(respondent.Phone, ""),
		OverallScore: derefInt(assessment.OverallScore),
		TopLevers:    topLevers,
		RiskFlags:    riskFlags,
		ReportURL:    s.resultsURL(id),
	}

	result, err := s.crmSync.SyncAssessment(ctx, input)
	if err != nil {
		return fmt.Errorf("crm sync: %w", err)
	}

	s.log.Info("assessment synced to crm",
		"assessmentId", id,
		"contactId", result.ContactID,
		"dealId", result.DealID,
	)
	return nil
}

func (s *Service) buildReportData(ctx context.Context, assessment repository.Assessment, respondent repository.Respondent) (pdf.ReportData, error) {
	var moduleScores map[string]*int
	unmarshalInto(assessment.ModuleScores, &moduleScores, s.log, "moduleScores")
	var gaps []transport.GapPayload
	unmarshalInto(assessment.Gaps, &gaps, s.log, "gaps")
	var levers []transport.GrowthLever
	unmarshalInto(assessment.GrowthLevers, &levers, s.log, "growthLevers")
	var riskFlags []string
	unmarshalInto(assessment.RiskFlags, &riskFlags, s.log, "riskFlags")
	var prerequisites []string
	unmarshalInto(assessment.Prerequisites, &prerequisites, s.log, "prerequisites")

	modules := make([]pdf.ModuleRow, 0, len(engine.ModuleOrder))
	for _, module := range engine.ModuleOrder {
		modules = append(modules, pdf.ModuleRow{
			Name:  engine.ModuleDisplayName(module),
			Score: moduleScores[string(module)],
		})
	}

	gapRows := make([]pdf.GapRow, 0, len(gaps))
	for i, g := range gaps {
		if i == 10 {
			break
		}
		gapRows = append(gapRows, pdf.GapRow{
			Name:   g.Name,
			Module: engine.ModuleDisplayName(engine.ModuleKey(g.Module)),
			Impact: g.Impact,
		})
	}

	leverRows := make([]pdf.LeverRow, 0, len(levers))
	for _, l := range levers {
		leverRows = append(leverRows, pdf.LeverRow{
			Name:           l.Name,
			Why:            l.Why,
			ExpectedImpact: l.ExpectedImpact,
			FirstStep:      l.FirstStep,
		})
	}

	var benchmarkRows []pdf.BenchmarkRow
	for _, b := range s.benchmarksFor(ctx, assessment.Industry, moduleScores) {
		benchmarkRows = append(benchmarkRows, pdf.BenchmarkRow{
			Module: engine.ModuleDisplayName(engine.ModuleKey(b.Module)),
			Score:  b.Score,
			P25:    b.P25,
			P50:    b.P50,
			P75:    b.P75,
		})
	}

	return pdf.ReportData{
		Company:       respondent.Company,
		Industry:      derefOr(assessment.Industry, ""),
		GeneratedAt:   time.Now().UTC(),
		Overall:       derefInt(assessment.OverallScore),
		Outcome:       derefOr(assessment.Outcome, ""),
		Confidence:    derefOr(assessment.Confidence, ""),
		Modules:       modules,
		Gaps:          gapRows,
		Summary:       derefOr(assessment.Summary, ""),
		Levers:        leverRows,
		Risks:         riskFlags,
		Prerequisites: prerequisites,
		Benchmarks:    benchmarkRows,
		ResultsURL:    s.resultsURL(assessment.ID),
	}, nil
}

func topLeverName(assessment repository.Assessment) string {
	var levers []transport.GrowthLever
	if err := json.Unmarshal(assessment.GrowthLevers, &levers); err == nil && len(levers) > 0 {
		return levers[0].Name
	}

	var gaps []transport.GapPayload
	if err := json.Unmarshal(assessment.Gaps, &gaps); err == nil && len(gaps) > 0 {
		return gaps[0].Name
	}

	return ""
}
