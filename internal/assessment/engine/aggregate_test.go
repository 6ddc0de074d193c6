package engine

import "testing"

func TestAggregate_WeightedAverageSkipsNilModules(t *testing.T) {
	// A 100-score module at weight 20 against a 0-score module at weight
	// 10, everything else nil: round(2000/30) = 67.
	w := DefaultWeights()
	w.Modules[ModuleNurture] = 10
	hundred, zero := 100, 0
	scores := ModuleScores{
		ModuleInbound: &hundred,
		ModuleNurture: &zero,
	}

	summary := Aggregate(scores, w)
	if summary.Overall != 67 {
		t.Fatalf("expected overall 67, got %d", summary.Overall)
	}
	if summary.Outcome != OutcomeMomentum {
		t.Fatalf("expected Momentum, got %s", summary.Outcome)
	}
}

func TestAggregate_AllNilDefaultsToZeroFoundation(t *testing.T) {
	summary := Aggregate(ModuleScores{}, DefaultWeights())
	if summary.Overall != 0 {
		t.Fatalf("expected overall 0, got %d", summary.Overall)
	}
	if summary.Outcome != OutcomeFoundation {
		t.Fatalf("expected Foundation, got %s", summary.Outcome)
	}
}

func TestAggregate_OutcomeBands(t *testing.T) {
	cases := []struct {
		overall int
		want    Outcome
	}{
		{0, OutcomeFoundation},
		{49, OutcomeFoundation},
		{50, OutcomeMomentum},
		{74, OutcomeMomentum},
		{75, OutcomeOptimization},
		{100, OutcomeOptimization},
	}
	for _, tc := range cases {
		if got := outcomeFor(tc.overall); got != tc.want {
			t.Fatalf("overall %d: expected %s, got %s", tc.overall, tc.want, got)
		}
	}
}

func TestAggregate_BoundedByModuleScores(t *testing.T) {
	w := DefaultWeights()
	scores := make(ModuleScores)
	for i, module := range ModuleOrder {
		v := (i * 17) % 101
		value := v
		scores[module] = &value
	}

	summary := Aggregate(scores, w)
	if summary.Overall < 0 || summary.Overall > 100 {
		t.Fatalf("overall %d out of bounds", summary.Overall)
	}
}
