package engine

import "math"

// Aggregate combines module scores into the overall score and outcome band.
// Modules that produced no score are excluded from both sides of the
// weighted average, not treated as zero. When every module is nil the
// overall defaults to 0.
func Aggregate(scores ModuleScores, weights Weights) Summary {
	var weightedSum, weightSum int
	for _, module := range ModuleOrder {
		score := scores[module]
		if score == nil {
			continue
		}
		w := weights.Modules[module]
		weightedSum += *score * w
		weightSum += w
	}

	overall := 0
	if weightSum > 0 {
		overall = int(math.Round(float64(weightedSum) / float64(weightSum)))
	}

	return Summary{Overall: overall, Outcome: outcomeFor(overall)}
}

func outcomeFor(overall int) Outcome {
	switch {
	case overall < 50:
		return OutcomeFoundation
	case overall < 75:
		return OutcomeMomentum
	default:
		return OutcomeOptimization
	}
}
