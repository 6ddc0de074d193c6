package engine

// LeverWeight pairs a lever with its module-local pipeline-impact weight.
// Slice order is the canonical table order and doubles as the tie-breaker
// for gap ranking, so it must stay stable.
type LeverWeight struct {
	Lever  LeverKey
	Weight int
}

// Weights is the full static configuration of the engine: lever weight
// tables, module weights for the overall blend, and the advisory
// threshold. It is loaded once at process start and passed explicitly into
// every computation; the engine holds no ambient state.
type Weights struct {
	Levers  map[ModuleKey][]LeverWeight
	Modules map[ModuleKey]int

	// InfraPrereqThreshold is the infra module score below which the
	// "infrastructure must mature first" prerequisite fires.
	InfraPrereqThreshold int
}

// DefaultWeights returns the hand-tuned production weight tables.
func DefaultWeights() Weights {
	return Weights{
		Levers: map[ModuleKey][]LeverWeight{
			ModuleInbound: {
				{Lever: "seo", Weight: 3},
				{Lever: "leadMagnets", Weight: 4},
				{Lever: "webinars", Weight: 3},
			},
			ModuleOutbound: {
				{Lever: "sequences", Weight: 5},
				{Lever: "deliverability", Weight: 6},
				{Lever: "linkedin", Weight: 4},
				{Lever: "phone", Weight: 2},
			},
			ModuleContent: {
				{Lever: "blog", Weight: 2},
				{Lever: "caseStudies", Weight: 5},
				{Lever: "moFuAssets", Weight: 3},
				{Lever: "boFuAssets", Weight: 5},
				{Lever: "distribution", Weight: 2},
			},
			ModulePaid: {
				{Lever: "ppc", Weight: 4},
				{Lever: "linkedinLeadGen", Weight: 5},
				{Lever: "retargeting", Weight: 4},
				{Lever: "socialAds", Weight: 2},
				{Lever: "abm", Weight: 3},
			},
			ModuleNurture: {
				{Lever: "drip", Weight: 5},
				{Lever: "scoringTriggers", Weight: 6},
				{Lever: "intentSignals", Weight: 4},
				{Lever: "reactivation", Weight: 3},
			},
			ModuleInfra: {
				{Lever: "crm", Weight: 6},
				{Lever: "marketingAutomation", Weight: 5},
				{Lever: "enrichment", Weight: 3},
				{Lever: "realtimeSync", Weight: 2},
			},
			ModuleAttr: {
				{Lever: "multiTouch", Weight: 6},
				{Lever: "dashboards", Weight: 4},
				{Lever: "ctaTracking", Weight: 3},
			},
		},
		Modules: map[ModuleKey]int{
			ModuleInbound:  20,
			ModuleOutbound: 18,
			ModuleContent:  15,
			ModulePaid:     18,
			ModuleNurture:  18,
			ModuleInfra:    6,
			ModuleAttr:     5,
		},
		InfraPrereqThreshold: 40,
	}
}

// MaxLeverWeight returns the largest weight in any lever table, used to
// normalize impact values into percentages for display.
func (w Weights) MaxLeverWeight() int {
	max := 1
	for _, levers := range w.Levers {
		for _, lw := range levers {
			if lw.Weight > max {
				max = lw.Weight
			}
		}
	}
	return max
}
