package narrative

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"nytro_assessment_backend/internal/assessment/engine"
)

const fallbackSummary = "Assessment completed successfully. Here are your key growth opportunities."

// Fallback builds a deterministic recommendation from engine output alone.
// It is substituted whenever the generator is unavailable or fails, so it
// must never depend on anything the generator produced.
func Fallback(input Input, weights engine.Weights) Recommendation {
	levers := fallbackLevers(input, weights)
	return Recommendation{
		Summary: fallbackSummary,
		Levers:  levers,
		Risks:   []string{},
	}
}

func fallbackLevers(input Input, weights engine.Weights) []Lever {
	if len(input.Gaps) == 0 {
		return leversFromLowestModules(input)
	}

	maxWeight := weights.MaxLeverWeight()
	if maxWeight == 0 {
		maxWeight = 1
	}

	gaps := input.Gaps
	if len(gaps) > 3 {
		gaps = gaps[:3]
	}

	levers := make([]Lever, 0, len(gaps))
	for _, gap := range gaps {
		name := engine.LeverDisplayName(gap.Module, gap.Lever)
		impactPercent := int(math.Round(float64(gap.Impact) / float64(maxWeight) * 100))
		levers = append(levers, Lever{
			Name:           name,
			Why:            fmt.Sprintf("This %s shows significant room for improvement based on your current maturity level.", strings.ToLower(name)),
			ExpectedImpact: fmt.Sprintf("%d%% improvement in lead quality and conversion rates", impactPercent),
			Confidence:     input.Confidence,
			FirstStep:      fmt.Sprintf("Review your current %s processes and identify quick wins.", strings.ToLower(name)),
		})
	}
	return levers
}

// leversFromLowestModules covers the degenerate case where nothing is
// absent: recommend the three lowest-scoring modules instead.
func leversFromLowestModules(input Input) []Lever {
	ranked := make([]engine.ModuleKey, len(engine.ModuleOrder))
	copy(ranked, engine.ModuleOrder)
	score := func(m engine.ModuleKey) int {
		if s := input.Scores[m]; s != nil {
			return *s
		}
		return 0
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return score(ranked[i]) < score(ranked[j])
	})

	levers := make([]Lever, 0, 3)
	for _, module := range ranked[:3] {
		name := engine.ModuleDisplayName(module)
		levers = append(levers, Lever{
			Name:           name,
			Why:            fmt.Sprintf("Your current score in this area (%d/100) indicates significant room for improvement.", score(module)),
			ExpectedImpact: "High - Building foundational capabilities will create compound growth",
			Confidence:     input.Confidence,
			FirstStep:      fmt.Sprintf("Start by implementing basic %s processes.", strings.ToLower(name)),
		})
	}
	return levers
}
