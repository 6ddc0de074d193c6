package narrative

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeRecommendation parses model output into a Recommendation. Models
// occasionally wrap JSON in markdown fences or prepend commentary, so the
// decoder trims to the outermost object before unmarshalling.
func decodeRecommendation(raw string) (Recommendation, error) {
	var rec Recommendation

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return rec, fmt.Errorf("empty model output")
	}

	trimmed = stripCodeFence(trimmed)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end <= start {
		return rec, fmt.Errorf("no JSON object in model output")
	}

	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &rec); err != nil {
		return rec, fmt.Errorf("decode recommendation: %w", err)
	}
	if strings.TrimSpace(rec.Summary) == "" {
		return rec, fmt.Errorf("recommendation missing summary")
	}
	return rec, nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
