package engine

import "math"

// ScoreModule computes the 0-100 maturity score for a single module, or nil
// when no lever in the table is applicable to the respondent.
//
// The score blends two views of the same answers: coverage (what fraction
// of applicable levers are present) and weighted presence (how much of the
// table's weight the present levers carry). A pure weighted score would
// over-penalize a respondent missing one heavy lever; pure coverage would
// ignore that some levers matter far more than others. The blend is fixed
// at 60% coverage, 40% weighted.
//
// A lever in the weight table with no recorded answer counts as applicable
// and absent: it was part of the questionnaire, so it counts against
// coverage. Only an explicit Applicable=false removes a lever.
func ScoreModule(responses map[LeverKey]LeverResponse, table []LeverWeight) *int {
	var (
		applicableCount int
		presentCount    int
		weightSum       int
		presentWeight   int
	)

	for _, lw := range table {
		resp, ok := responses[lw.Lever]
		if !ok {
			resp = LeverResponse{Present: false, Applicable: true}
		}
		if !resp.Applicable {
			continue
		}
		applicableCount++
		weightSum += lw.Weight
		if resp.Present {
			presentCount++
			presentWeight += lw.Weight
		}
	}

	if applicableCount == 0 {
		return nil
	}

	coverageScore := roundPct(presentCount, applicableCount)
	weightedScore := 0
	if weightSum > 0 {
		weightedScore = roundPct(presentWeight, weightSum)
	}

	score := int(math.Round(0.6*float64(coverageScore) + 0.4*float64(weightedScore)))
	return &score
}

// ScoreAll scores every module of the document against the weight tables.
// Modules always appear in the result map; unsatisfiable ones map to nil.
func ScoreAll(doc ResponseDocument, weights Weights) ModuleScores {
	scores := make(ModuleScores, len(ModuleOrder))
	for _, module := range ModuleOrder {
		scores[module] = ScoreModule(doc[module], weights.Levers[module])
	}
	return scores
}

func roundPct(numerator, denominator int) int {
	return int(math.Round(100 * float64(numerator) / float64(denominator)))
}
