package narrative

import "testing"

func TestDecodeRecommendation_PlainJSON(t *testing.T) {
	raw := `{"summary":"Solid start.","levers":[{"name":"CRM System","why":"w","expectedImpact":"e","confidence":"medium","firstStep":"f"}],"risks":["r1"]}`
	rec, err := decodeRecommendation(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if rec.Summary != "Solid start." || len(rec.Levers) != 1 || len(rec.Risks) != 1 {
		t.Fatalf("unexpected recommendation: %+v", rec)
	}
}

func TestDecodeRecommendation_FencedAndPrefixed(t *testing.T) {
	cases := []string{
		"```json\n{\"summary\":\"ok\",\"levers\":[],\"risks\":[]}\n```",
		"```\n{\"summary\":\"ok\",\"levers\":[],\"risks\":[]}\n```",
		"Here is the result:\n{\"summary\":\"ok\",\"levers\":[],\"risks\":[]}",
	}
	for _, raw := range cases {
		rec, err := decodeRecommendation(raw)
		if err != nil {
			t.Fatalf("decode failed for %q: %v", raw, err)
		}
		if rec.Summary != "ok" {
			t.Fatalf("unexpected summary %q for %q", rec.Summary, raw)
		}
	}
}

func TestDecodeRecommendation_Rejects(t *testing.T) {
	cases := []string{
		"",
		"no json here",
		`{"levers":[],"risks":[]}`,
		`{"summary": "truncated`,
	}
	for _, raw := range cases {
		if _, err := decodeRecommendation(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
