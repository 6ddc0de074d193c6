package engine

import "testing"

func TestRankGaps_HeavierAbsentLeverRanksFirst(t *testing.T) {
	w := DefaultWeights()
	// Two absent applicable levers: crm (weight 6) and realtimeSync
	// (weight 2). Everything else explicitly inapplicable.
	doc := ResponseDocument{}
	for _, module := range ModuleOrder {
		doc[module] = map[LeverKey]LeverResponse{}
		for _, lw := range w.Levers[module] {
			doc[module][lw.Lever] = LeverResponse{Applicable: false}
		}
	}
	doc[ModuleInfra]["crm"] = LeverResponse{Present: false, Applicable: true}
	doc[ModuleInfra]["realtimeSync"] = LeverResponse{Present: false, Applicable: true}

	gaps := RankGaps(doc, w)
	if len(gaps) != 2 {
		t.Fatalf("expected 2 gaps, got %d", len(gaps))
	}
	if gaps[0].Lever != "crm" || gaps[0].Impact != 6 {
		t.Fatalf("expected crm impact 6 first, got %s impact %d", gaps[0].Lever, gaps[0].Impact)
	}
	if gaps[1].Lever != "realtimeSync" || gaps[1].Impact != 2 {
		t.Fatalf("expected realtimeSync impact 2 second, got %s impact %d", gaps[1].Lever, gaps[1].Impact)
	}
}

func TestRankGaps_PresentAndInapplicableLeversAreNotGaps(t *testing.T) {
	w := DefaultWeights()
	doc := ResponseDocument{
		ModuleAttr: {
			"multiTouch":  {Present: true, Applicable: true},
			"dashboards":  {Applicable: false},
			"ctaTracking": {Present: false, Applicable: true},
		},
	}

	gaps := RankGaps(doc, w)
	for _, gap := range gaps {
		if gap.Module == ModuleAttr && gap.Lever == "multiTouch" {
			t.Fatalf("present lever reported as gap")
		}
		if gap.Module == ModuleAttr && gap.Lever == "dashboards" {
			t.Fatalf("inapplicable lever reported as gap")
		}
		if gap.Impact <= 0 {
			t.Fatalf("gap %s.%s has non-positive impact %d", gap.Module, gap.Lever, gap.Impact)
		}
	}
}

func TestRankGaps_StableOnTies(t *testing.T) {
	w := DefaultWeights()
	// Empty document: every lever is an applicable absent gap. The four
	// weight-6 levers must keep canonical table order among themselves.
	gaps := RankGaps(ResponseDocument{}, w)

	var sixes []Gap
	for _, gap := range gaps {
		if gap.Impact == 6 {
			sixes = append(sixes, gap)
		}
	}
	wantOrder := []LeverKey{"deliverability", "scoringTriggers", "crm", "multiTouch"}
	if len(sixes) != len(wantOrder) {
		t.Fatalf("expected %d weight-6 gaps, got %d", len(wantOrder), len(sixes))
	}
	for i, want := range wantOrder {
		if sixes[i].Lever != want {
			t.Fatalf("weight-6 tie order broken at %d: expected %s, got %s", i, want, sixes[i].Lever)
		}
	}
}

func TestEvaluateAdvisories_InfraThreshold(t *testing.T) {
	w := DefaultWeights()
	low, high := 39, 40
	doc := ResponseDocument{}

	adv := EvaluateAdvisories(doc, ModuleScores{ModuleInfra: &low}, w)
	if !containsString(adv.Prerequisites, "Marketing infrastructure needs improvement before advanced tactics") {
		t.Fatalf("expected infra prerequisite at score 39, got %v", adv.Prerequisites)
	}

	adv = EvaluateAdvisories(doc, ModuleScores{ModuleInfra: &high}, w)
	if containsString(adv.Prerequisites, "Marketing infrastructure needs improvement before advanced tactics") {
		t.Fatalf("infra prerequisite fired at score 40")
	}
}

func TestEvaluateAdvisories_PresenceRules(t *testing.T) {
	w := DefaultWeights()
	infraOK := 80
	scores := ModuleScores{ModuleInfra: &infraOK}
	doc := ResponseDocument{
		ModuleOutbound: {
			"deliverability": {Present: true, Applicable: true},
		},
		ModuleInfra: {
			"crm": {Present: true, Applicable: true},
		},
		ModuleAttr: {
			"multiTouch": {Present: true, Applicable: true},
		},
	}

	adv := EvaluateAdvisories(doc, scores, w)
	want := []string{
		"Email deliverability needs improvement before scaling outbound",
		"CRM hygiene needs improvement before advanced automation",
		"Attribution tracking needs improvement before scaling spend",
	}
	for _, msg := range want {
		if !containsString(adv.Prerequisites, msg) {
			t.Fatalf("missing prerequisite %q in %v", msg, adv.Prerequisites)
		}
	}
}

func TestEvaluateAdvisories_RiskRules(t *testing.T) {
	w := DefaultWeights()
	infraOK := 80
	scores := ModuleScores{ModuleInfra: &infraOK}
	doc := ResponseDocument{
		ModulePaid: {
			"ppc": {Present: true, Applicable: true},
		},
		ModuleNurture: {
			"drip": {Present: true, Applicable: true},
		},
		ModuleOutbound: {
			"sequences": {Present: true, Applicable: true},
		},
	}

	adv := EvaluateAdvisories(doc, scores, w)
	want := []string{
		"Paid traffic may leak without strong bottom-of-funnel content",
		"Lead scoring needs improvement to optimize nurture sequences",
		"Outbound sequences may underperform without proper deliverability",
	}
	for _, msg := range want {
		if !containsString(adv.Risks, msg) {
			t.Fatalf("missing risk %q in %v", msg, adv.Risks)
		}
	}

	// Satisfying the counterpart levers silences each risk.
	doc[ModuleContent] = map[LeverKey]LeverResponse{"boFuAssets": {Present: true, Applicable: true}}
	doc[ModuleNurture]["scoringTriggers"] = LeverResponse{Present: true, Applicable: true}
	doc[ModuleOutbound]["deliverability"] = LeverResponse{Present: true, Applicable: true}

	adv = EvaluateAdvisories(doc, scores, w)
	if len(adv.Risks) != 0 {
		t.Fatalf("expected no risks, got %v", adv.Risks)
	}
}

func TestEvaluateAdvisories_InapplicableLeverNeverContributes(t *testing.T) {
	w := DefaultWeights()
	infraOK := 80
	scores := ModuleScores{ModuleInfra: &infraOK}

	// An inapplicable deliverability lever must not trigger the
	// presence-based prerequisite.
	doc := ResponseDocument{
		ModuleOutbound: {
			"deliverability": {Applicable: false},
		},
	}
	adv := EvaluateAdvisories(doc, scores, w)
	if containsString(adv.Prerequisites, "Email deliverability needs improvement before scaling outbound") {
		t.Fatalf("inapplicable lever triggered an advisory")
	}
}

func TestTopGrowthModules_ThreeLowest(t *testing.T) {
	ten, twenty, ninety := 10, 20, 90
	scores := ModuleScores{
		ModuleInbound: &ninety,
		ModulePaid:    &ten,
		ModuleNurture: &twenty,
		// remaining modules nil -> treated as zero, ahead of 10 and 20
	}

	top := TopGrowthModules(scores)
	if len(top) != 3 {
		t.Fatalf("expected 3 modules, got %d", len(top))
	}
	for _, module := range top {
		if module == ModuleInbound {
			t.Fatalf("highest-scoring module ranked as growth priority")
		}
	}
}

func TestExtractStack_PresentInfraLeversOnly(t *testing.T) {
	doc := ResponseDocument{
		ModuleInfra: {
			"crm":                 {Present: true, Applicable: true},
			"marketingAutomation": {Present: false, Applicable: true},
			"enrichment":          {Applicable: false},
		},
	}

	stack := ExtractStack(doc)
	if len(stack) != 1 {
		t.Fatalf("expected 1 stack entry, got %v", stack)
	}
	if stack[0] != "CRM System" {
		t.Fatalf("expected CRM System, got %s", stack[0])
	}
}

func containsString(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
