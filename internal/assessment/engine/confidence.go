package engine

// EstimateConfidence rates data sufficiency for the whole document.
//
// A lever counts as answered when it carries any recorded response,
// including an explicit Applicable=false. The two anchor checks require a
// positive answer on at least one heavy infra lever and one heavy
// attribution lever, since those anchor the narrative's credibility.
//
// The thresholds intentionally do not partition cleanly: a document with 18
// or more answers that misses an anchor falls through medium's upper bound
// straight to low. That boundary is shipped behavior and must be kept.
func EstimateConfidence(doc ResponseDocument) Confidence {
	var answeredLevers, modulesAnswered int
	for _, module := range ModuleOrder {
		count := len(doc[module])
		answeredLevers += count
		if count > 0 {
			modulesAnswered++
		}
	}

	hasInfraAnchor := doc.present(ModuleInfra, "crm") || doc.present(ModuleInfra, "marketingAutomation")
	hasAttrAnchor := doc.present(ModuleAttr, "multiTouch") || doc.present(ModuleAttr, "dashboards")

	switch {
	case answeredLevers >= 18 && modulesAnswered >= 5 && hasInfraAnchor && hasAttrAnchor:
		return ConfidenceHigh
	case answeredLevers >= 9 && answeredLevers < 18:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
