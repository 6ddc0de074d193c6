package engine

import "sort"

// RankGaps walks the full lever weight table and returns every absent
// applicable lever, sorted by impact descending. Impact is the weight the
// lever would contribute if present, so the head of the list is the
// fastest way to move the score. Ties keep table order (stable sort).
//
// Levers answered Applicable=false are skipped entirely; unanswered levers
// count as absent, same as in scoring.
func RankGaps(doc ResponseDocument, weights Weights) []Gap {
	var gaps []Gap
	for _, module := range ModuleOrder {
		for _, lw := range weights.Levers[module] {
			resp := doc.response(module, lw.Lever)
			if !resp.Applicable {
				continue
			}
			impact := lw.Weight
			if resp.Present {
				impact = 0
			}
			if impact <= 0 {
				continue
			}
			gaps = append(gaps, Gap{
				Module:  module,
				Lever:   lw.Lever,
				Present: resp.Present,
				Weight:  lw.Weight,
				Impact:  impact,
			})
		}
	}

	sort.SliceStable(gaps, func(i, j int) bool { return gaps[i].Impact > gaps[j].Impact })
	return gaps
}

// EvaluateAdvisories runs the fixed prerequisite/risk rule table. Each rule
// is independent; several may fire at once. The strings are advisory
// commentary only and never feed back into scoring.
func EvaluateAdvisories(doc ResponseDocument, scores ModuleScores, weights Weights) Advisories {
	var adv Advisories

	infraScore := 0
	if s := scores[ModuleInfra]; s != nil {
		infraScore = *s
	}
	if infraScore < weights.InfraPrereqThreshold {
		adv.Prerequisites = append(adv.Prerequisites,
			"Marketing infrastructure needs improvement before advanced tactics")
	}
	// The next three fire on mere presence. That is the shipped behavior of
	// the binary model: flagging the capability at all queues it for a
	// hygiene review before scaling on top of it.
	if doc.present(ModuleOutbound, "deliverability") {
		adv.Prerequisites = append(adv.Prerequisites,
			"Email deliverability needs improvement before scaling outbound")
	}
	if doc.present(ModuleInfra, "crm") {
		adv.Prerequisites = append(adv.Prerequisites,
			"CRM hygiene needs improvement before advanced automation")
	}
	if doc.present(ModuleAttr, "multiTouch") {
		adv.Prerequisites = append(adv.Prerequisites,
			"Attribution tracking needs improvement before scaling spend")
	}

	if doc.present(ModulePaid, "ppc") && !doc.present(ModuleContent, "boFuAssets") {
		adv.Risks = append(adv.Risks,
			"Paid traffic may leak without strong bottom-of-funnel content")
	}
	if !doc.present(ModuleNurture, "scoringTriggers") && doc.present(ModuleNurture, "drip") {
		adv.Risks = append(adv.Risks,
			"Lead scoring needs improvement to optimize nurture sequences")
	}
	if doc.present(ModuleOutbound, "sequences") && !doc.present(ModuleOutbound, "deliverability") {
		adv.Risks = append(adv.Risks,
			"Outbound sequences may underperform without proper deliverability")
	}

	return adv
}

// TopGrowthModules returns the three lowest-scoring modules, nil scores
// counting as zero. Used by the fallback recommendation when the document
// has no lever gaps at all.
func TopGrowthModules(scores ModuleScores) []ModuleKey {
	ranked := make([]ModuleKey, len(ModuleOrder))
	copy(ranked, ModuleOrder)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scoreOrZero(scores[ranked[i]]) < scoreOrZero(scores[ranked[j]])
	})
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}
	return ranked
}

// ExtractStack lists the infrastructure capabilities the respondent has in
// place, as display names. Fed to the narrative prompt so recommendations
// can reference the existing stack.
func ExtractStack(doc ResponseDocument) []string {
	stack := make([]string, 0, 4)
	for _, lever := range []LeverKey{"crm", "marketingAutomation", "enrichment", "realtimeSync"} {
		if doc.present(ModuleInfra, lever) {
			stack = append(stack, LeverDisplayName(ModuleInfra, lever))
		}
	}
	return stack
}

func scoreOrZero(s *int) int {
	if s == nil {
		return 0
	}
	return *s
}
