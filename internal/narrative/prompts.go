package narrative

import (
	"encoding/json"
	"fmt"
	"strings"

	"nytro_assessment_backend/internal/assessment/engine"
)

const systemPrompt = "You are a B2B demand generation strategist. Return only valid JSON."

const guardrails = `CRITICAL GUARDRAILS:
- "Do not invent metrics or stack. Tie every recommendation to a specific lever gap or calibration answer."
- "If inputs are sparse, lower confidence and state that more data is needed."
- "If a module has no present levers, do not invent recommendations. Offer prerequisites only."
- "Prefer actions that measurably reduce CAC or shorten time to first meeting."
- "No absolutes, no hand-wavy advice. Use verbs, owners, and simple measures."
- "Keep tone neutral and non-judgmental."
- "Focus on the 3 lowest-scoring areas, but balance critique with encouragement."
- "Use the tone of a strategic coach: clear, forward-looking, never negative or passive-aggressive."
- "Avoid jargon and judgmental phrasing. Replace 'lacks,' 'fails,' or 'missing' with 'could strengthen,' 'has room to refine,' or 'is ready to expand.'"
- "Consider their current tech stack when making recommendations."
- "Be honest about their current maturity level: if overall score is 0-20, acknowledge they're starting from the beginning; if 20-40, they have some basics in place; if 40+, they have a solid foundation."
- "Don't claim they have a 'strong foundation' or 'promising maturity' if their overall score is below 30."
- "For very low scores (0-15), focus on foundational recommendations rather than advanced strategies."
- "Prioritize levers with highest ROI-to-effort ratio."
- "Consider interdependencies (e.g., content fuels both inbound and nurture)."
- "Flag if foundational infra is missing before recommending advanced tactics."
- "If overall < 20: Focus ONLY on foundational capabilities (CRM, basic content, one channel)."
- "If overall < 30: Add 'Start here: [foundational step]' before advanced recommendations."
- "If calibration data is missing, acknowledge limitations in recommendations."`

// buildRecommendationPrompt renders the main advisory prompt. Every value
// interpolated here is engine output or respondent-entered text; the model
// is told it may use nothing else.
func buildRecommendationPrompt(input Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a B2B growth strategist for mid-market tech companies. Use ONLY the supplied inputs. Do NOT invent metrics, percentages, or tools. Tie each recommendation to a specific lever gap. If inputs are sparse, state that confidence is low.\n\n")
	fmt.Fprintf(&b, "Company: %s\n", input.Company)
	fmt.Fprintf(&b, "Industry: %s\n", input.Industry)
	fmt.Fprintf(&b, "Scores: %s\n", scoresJSON(input.Scores, input.Summary))
	fmt.Fprintf(&b, "Gaps: %s\n", strings.Join(input.GapNames, ", "))
	fmt.Fprintf(&b, "Stack: %s\n", strings.Join(input.Stack, ", "))
	fmt.Fprintf(&b, "Confidence Level: %s\n", input.Confidence)
	fmt.Fprintf(&b, "Prerequisites: %s\n\n", strings.Join(input.Prerequisites, ", "))

	b.WriteString("Top Gap Analysis (use only these computed values):\n")
	gaps := input.Gaps
	if len(gaps) > 10 {
		gaps = gaps[:10]
	}
	for _, gap := range gaps {
		fmt.Fprintf(&b, "%s.%s: present=%t, weight=%d, impact=%d\n", gap.Module, gap.Lever, gap.Present, gap.Weight, gap.Impact)
	}
	b.WriteString("\n")

	if c := input.Calibration; c != nil {
		fmt.Fprintf(&b, "Calibration Data: Monthly Leads: %s, Meeting Rate: %s, Sales Cycle: %s\n\n", c.MonthlyLeads, c.MeetingRate, c.SalesCycle)
	} else {
		b.WriteString("No calibration data provided\n\n")
	}

	b.WriteString(`Return ONLY valid JSON in this exact format:
{
  "summary": "string, 120-160 words, neutral tone",
  "levers": [
    {"name": "string", "why": "string", "expectedImpact": "string", "confidence": "low|medium|high", "firstStep": "string"}
  ],
  "risks": ["string", "string"]
}

`)
	b.WriteString(guardrails)
	b.WriteString("\n")

	return b.String()
}

type promptScores struct {
	Inbound  *int `json:"inbound"`
	Outbound *int `json:"outbound"`
	Content  *int `json:"content"`
	Paid     *int `json:"paid"`
	Nurture  *int `json:"nurture"`
	Infra    *int `json:"infra"`
	Attr     *int `json:"attr"`
	Overall  int  `json:"overall"`
}

func scoresJSON(scores engine.ModuleScores, summary engine.Summary) string {
	payload, err := json.Marshal(promptScores{
		Inbound:  scores[engine.ModuleInbound],
		Outbound: scores[engine.ModuleOutbound],
		Content:  scores[engine.ModuleContent],
		Paid:     scores[engine.ModulePaid],
		Nurture:  scores[engine.ModuleNurture],
		Infra:    scores[engine.ModuleInfra],
		Attr:     scores[engine.ModuleAttr],
		Overall:  summary.Overall,
	})
	if err != nil {
		return "{}"
	}
	return string(payload)
}
