package narrative

import (
	"strings"
	"testing"

	"nytro_assessment_backend/internal/assessment/engine"
)

func TestBuildRecommendationPrompt_InterpolatesInputsOnly(t *testing.T) {
	seventy := 70
	input := Input{
		Company:    "Acme",
		Industry:   "SaaS",
		Scores:     engine.ModuleScores{engine.ModuleInbound: &seventy},
		Summary:    engine.Summary{Overall: 70, Outcome: engine.OutcomeMomentum},
		GapNames:   []string{"CRM System"},
		Stack:      []string{"Marketing Automation Platform"},
		Confidence: engine.ConfidenceMedium,
		Gaps: []engine.Gap{
			{Module: engine.ModuleInfra, Lever: "crm", Weight: 6, Impact: 6},
		},
	}

	prompt := buildRecommendationPrompt(input)
	for _, want := range []string{
		"Company: Acme",
		"Industry: SaaS",
		`"inbound":70`,
		`"outbound":null`,
		`"overall":70`,
		"infra.crm: present=false, weight=6, impact=6",
		"No calibration data provided",
		"CRITICAL GUARDRAILS:",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestBuildRecommendationPrompt_CalibrationIncludedWhenPresent(t *testing.T) {
	input := Input{
		Calibration: &Calibration{MonthlyLeads: "100-500", MeetingRate: "10%", SalesCycle: "30-60 days"},
	}
	prompt := buildRecommendationPrompt(input)
	if !strings.Contains(prompt, "Monthly Leads: 100-500") {
		t.Fatalf("calibration data missing from prompt")
	}
	if strings.Contains(prompt, "No calibration data provided") {
		t.Fatalf("calibration fallback line present despite data")
	}
}

func TestBuildRecommendationPrompt_CapsGapAnalysisAtTen(t *testing.T) {
	w := engine.DefaultWeights()
	gaps := engine.RankGaps(engine.ResponseDocument{}, w)
	input := Input{Gaps: gaps}

	prompt := buildRecommendationPrompt(input)
	if got := strings.Count(prompt, "present=false, weight="); got != 10 {
		t.Fatalf("expected 10 gap lines, got %d", got)
	}
}
