package narrative

import (
	"strings"
	"testing"

	"nytro_assessment_backend/internal/assessment/engine"
)

func TestFallback_TopThreeGapsByName(t *testing.T) {
	w := engine.DefaultWeights()
	input := Input{
		Confidence: engine.ConfidenceMedium,
		Gaps: []engine.Gap{
			{Module: engine.ModuleInfra, Lever: "crm", Weight: 6, Impact: 6},
			{Module: engine.ModuleOutbound, Lever: "deliverability", Weight: 6, Impact: 6},
			{Module: engine.ModuleContent, Lever: "caseStudies", Weight: 5, Impact: 5},
			{Module: engine.ModulePaid, Lever: "retargeting", Weight: 4, Impact: 4},
		},
	}

	rec := Fallback(input, w)
	if rec.Summary != "Assessment completed successfully. Here are your key growth opportunities." {
		t.Fatalf("unexpected summary: %q", rec.Summary)
	}
	if len(rec.Levers) != 3 {
		t.Fatalf("expected 3 levers, got %d", len(rec.Levers))
	}

	wantNames := []string{"CRM System", "Email Deliverability", "Case Studies & Success Stories"}
	for i, want := range wantNames {
		if rec.Levers[i].Name != want {
			t.Fatalf("lever %d: expected %s, got %s", i, want, rec.Levers[i].Name)
		}
		if rec.Levers[i].Confidence != engine.ConfidenceMedium {
			t.Fatalf("lever %d: confidence not propagated", i)
		}
	}

	// Weight-6 gaps normalize to 100% of the heaviest lever.
	if !strings.HasPrefix(rec.Levers[0].ExpectedImpact, "100%") {
		t.Fatalf("expected 100%% impact for weight-6 gap, got %q", rec.Levers[0].ExpectedImpact)
	}
	if rec.Risks == nil || len(rec.Risks) != 0 {
		t.Fatalf("fallback risks must be empty but serializable, got %v", rec.Risks)
	}
}

func TestFallback_NoGapsUsesLowestModules(t *testing.T) {
	w := engine.DefaultWeights()
	ninety, forty := 90, 40
	input := Input{
		Confidence: engine.ConfidenceLow,
		Scores: engine.ModuleScores{
			engine.ModuleInbound: &ninety,
			engine.ModulePaid:    &forty,
			// the rest nil, treated as zero
		},
	}

	rec := Fallback(input, w)
	if len(rec.Levers) != 3 {
		t.Fatalf("expected 3 module levers, got %d", len(rec.Levers))
	}
	for _, lever := range rec.Levers {
		if lever.Name == "Inbound Marketing" {
			t.Fatalf("highest-scoring module recommended")
		}
		if !strings.Contains(lever.Why, "/100") {
			t.Fatalf("module lever missing score context: %q", lever.Why)
		}
	}
}

func TestFallback_Deterministic(t *testing.T) {
	w := engine.DefaultWeights()
	input := Input{
		Confidence: engine.ConfidenceHigh,
		Gaps: []engine.Gap{
			{Module: engine.ModuleNurture, Lever: "drip", Weight: 5, Impact: 5},
		},
	}

	first := Fallback(input, w)
	for i := 0; i < 5; i++ {
		again := Fallback(input, w)
		if again.Summary != first.Summary || len(again.Levers) != len(first.Levers) {
			t.Fatalf("fallback not deterministic")
		}
		if again.Levers[0] != first.Levers[0] {
			t.Fatalf("fallback lever drifted between runs")
		}
	}
}
