package engine

import "testing"

// Full-pipeline runs over two representative documents, checking that the
// scoring, aggregation, gap and advisory stages agree with each other.

func TestPipeline_SingleApplicableLever(t *testing.T) {
	w := DefaultWeights()

	// Only infra.crm applies and it is present. Every other lever is
	// explicitly marked not applicable.
	doc := ResponseDocument{}
	for _, module := range ModuleOrder {
		doc[module] = map[LeverKey]LeverResponse{}
		for _, lw := range w.Levers[module] {
			doc[module][lw.Lever] = LeverResponse{Applicable: false}
		}
	}
	doc[ModuleInfra]["crm"] = LeverResponse{Present: true, Applicable: true}

	scores := ScoreAll(doc, w)
	for _, module := range ModuleOrder {
		if module == ModuleInfra {
			intPtrEq(t, scores[module], 100)
			continue
		}
		if scores[module] != nil {
			t.Fatalf("module %s should score nil, got %d", module, *scores[module])
		}
	}

	summary := Aggregate(scores, w)
	if summary.Overall != 100 {
		t.Fatalf("overall should be 100, got %d", summary.Overall)
	}
	if summary.Outcome != OutcomeOptimization {
		t.Fatalf("expected optimization outcome, got %s", summary.Outcome)
	}

	if gaps := RankGaps(doc, w); len(gaps) != 0 {
		t.Fatalf("no applicable lever is absent, yet got %d gaps", len(gaps))
	}

	adv := EvaluateAdvisories(doc, scores, w)
	if containsString(adv.Prerequisites, "Marketing infrastructure needs improvement before advanced tactics") {
		t.Fatalf("infra prerequisite fired with infra at 100")
	}
	// CRM presence alone still queues the hygiene note.
	if !containsString(adv.Prerequisites, "CRM hygiene needs improvement before advanced automation") {
		t.Fatalf("expected crm hygiene prerequisite, got %v", adv.Prerequisites)
	}
	if len(adv.Risks) != 0 {
		t.Fatalf("expected no risks, got %v", adv.Risks)
	}
}

func TestPipeline_EverythingApplicableNothingDone(t *testing.T) {
	w := DefaultWeights()

	doc := ResponseDocument{}
	total := 0
	for _, module := range ModuleOrder {
		doc[module] = map[LeverKey]LeverResponse{}
		for _, lw := range w.Levers[module] {
			doc[module][lw.Lever] = LeverResponse{Present: false, Applicable: true}
			total++
		}
	}

	scores := ScoreAll(doc, w)
	for _, module := range ModuleOrder {
		intPtrEq(t, scores[module], 0)
	}

	summary := Aggregate(scores, w)
	if summary.Overall != 0 || summary.Outcome != OutcomeFoundation {
		t.Fatalf("expected 0/foundation, got %d/%s", summary.Overall, summary.Outcome)
	}

	gaps := RankGaps(doc, w)
	if len(gaps) != total {
		t.Fatalf("expected %d gaps, got %d", total, len(gaps))
	}
	for i := 1; i < len(gaps); i++ {
		if gaps[i].Impact > gaps[i-1].Impact {
			t.Fatalf("gaps not sorted by impact at %d: %d after %d", i, gaps[i].Impact, gaps[i-1].Impact)
		}
	}

	adv := EvaluateAdvisories(doc, scores, w)
	if !containsString(adv.Prerequisites, "Marketing infrastructure needs improvement before advanced tactics") {
		t.Fatalf("infra prerequisite should fire at score 0, got %v", adv.Prerequisites)
	}
	// No capability is present, so neither hygiene notes nor risks apply.
	if len(adv.Prerequisites) != 1 {
		t.Fatalf("expected only the infra prerequisite, got %v", adv.Prerequisites)
	}
	if len(adv.Risks) != 0 {
		t.Fatalf("expected no risks, got %v", adv.Risks)
	}

	if got := EstimateConfidence(doc); got != ConfidenceLow {
		t.Fatalf("fully answered but anchorless document should be low, got %s", got)
	}
}
