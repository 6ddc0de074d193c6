package pdf

import (
	"strings"
	"testing"
	"time"
)

func TestRenderReportHTML(t *testing.T) {
	sixty := 60
	data := ReportData{
		Company:     "Acme",
		Industry:    "SaaS",
		GeneratedAt: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Overall:     60,
		Outcome:     "Momentum",
		Confidence:  "medium",
		Modules: []ModuleRow{
			{Name: "Inbound Marketing", Score: &sixty},
			{Name: "Attribution & Analytics", Score: nil},
		},
		Gaps: []GapRow{
			{Name: "CRM System", Module: "Marketing Infrastructure", Impact: 6},
		},
		Summary:    "A steady base with clear next steps.",
		Risks:      []string{"Outbound sequences may underperform without proper deliverability"},
		ResultsURL: "https://example.com/results/abc",
	}

	html, err := renderReportHTML(data)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	doc := string(html)
	for _, want := range []string{
		"Acme",
		"Momentum",
		"Inbound Marketing",
		"Not applicable",
		"CRM System",
		"data:image/png;base64,",
		"March 14, 2026",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("report html missing %q", want)
		}
	}
}

func TestRenderReportHTML_NoResultsURLSkipsQR(t *testing.T) {
	html, err := renderReportHTML(ReportData{GeneratedAt: time.Now()})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if strings.Contains(string(html), "data:image/png") {
		t.Fatalf("qr code rendered without a results url")
	}
}
