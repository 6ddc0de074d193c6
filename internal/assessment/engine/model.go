// Package engine implements the scoring and gap-analysis core of the
// assessment. Everything in this package is a pure function of its inputs:
// no I/O, no shared state, safe to call from any number of goroutines.
package engine

// ModuleKey identifies one of the seven fixed assessment modules.
type ModuleKey string

const (
	ModuleInbound  ModuleKey = "inbound"
	ModuleOutbound ModuleKey = "outbound"
	ModuleContent  ModuleKey = "content"
	ModulePaid     ModuleKey = "paid"
	ModuleNurture  ModuleKey = "nurture"
	ModuleInfra    ModuleKey = "infra"
	ModuleAttr     ModuleKey = "attr"
)

// ModuleOrder is the canonical module ordering used for stable iteration.
var ModuleOrder = []ModuleKey{
	ModuleInbound,
	ModuleOutbound,
	ModuleContent,
	ModulePaid,
	ModuleNurture,
	ModuleInfra,
	ModuleAttr,
}

// LeverKey identifies a lever within its module, e.g. "deliverability".
type LeverKey string

// LeverResponse is one answered lever. Applicable=false means the lever is
// not relevant to this respondent and is excluded from scoring entirely,
// which is not the same thing as Present=false (absent but counted).
// A response must never be both inapplicable and present.
type LeverResponse struct {
	Present    bool
	Applicable bool
}

// ResponseDocument holds all answered levers for one respondent.
// A lever missing from the document was never answered: it still counts
// against coverage as applicable-but-absent, but does not count toward
// confidence. The document is treated as immutable once built.
type ResponseDocument map[ModuleKey]map[LeverKey]LeverResponse

// ModuleScores maps each module to its 0-100 score, or nil when the module
// had no applicable levers.
type ModuleScores map[ModuleKey]*int

// Outcome is the three-band classification of the overall score.
type Outcome string

const (
	OutcomeFoundation   Outcome = "Foundation"
	OutcomeMomentum     Outcome = "Momentum"
	OutcomeOptimization Outcome = "Optimization"
)

// Summary is the aggregated result over all scored modules.
type Summary struct {
	Overall int
	Outcome Outcome
}

// Gap is one absent applicable lever, ranked by how much weighted score it
// leaves on the table.
type Gap struct {
	Module  ModuleKey `json:"module"`
	Lever   LeverKey  `json:"lever"`
	Present bool      `json:"present"`
	Weight  int       `json:"weight"`
	Impact  int       `json:"computedImpact"`
}

// Advisories are the prerequisite and risk flags derived from specific
// lever combinations. They are commentary only and never feed back into
// the numeric model.
type Advisories struct {
	Prerequisites []string
	Risks         []string
}

// Confidence rates how much of the questionnaire was meaningfully answered.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// answered reports whether the lever has a recorded answer of any kind.
func (d ResponseDocument) answered(module ModuleKey, lever LeverKey) bool {
	_, ok := d[module][lever]
	return ok
}

// response returns the recorded answer, or the applicable-but-absent
// default when the lever was never answered.
func (d ResponseDocument) response(module ModuleKey, lever LeverKey) LeverResponse {
	if resp, ok := d[module][lever]; ok {
		return resp
	}
	return LeverResponse{Present: false, Applicable: true}
}

// present reports whether the lever was answered present and applicable.
func (d ResponseDocument) present(module ModuleKey, lever LeverKey) bool {
	resp, ok := d[module][lever]
	return ok && resp.Applicable && resp.Present
}
