// Package pdf renders the assessment report as a PDF. The report is built
// as HTML and converted through a Gotenberg instance; a QR code linking
// back to the online results is embedded on the cover.
package pdf

import (
	"bytes"
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

//go:embed templates/report.html
var reportTemplateFS embed.FS

// ModuleRow is one scored module on the report scorecard.
type ModuleRow struct {
	Name  string
	Score *int // nil renders as N/A
}

// GapRow is one ranked gap on the report.
type GapRow struct {
	Name   string
	Module string
	Impact int
}

// LeverRow is one recommended growth lever.
type LeverRow struct {
	Name           string
	Why            string
	ExpectedImpact string
	FirstStep      string
}

// BenchmarkRow compares a module score against its industry percentiles.
type BenchmarkRow struct {
	Module string
	Score  *int
	P25    int
	P50    int
	P75    int
}

// ReportData holds everything the report template renders.
type ReportData struct {
	Company       string
	Industry      string
	GeneratedAt   time.Time
	Overall       int
	Outcome       string
	Confidence    string
	Modules       []ModuleRow
	Gaps          []GapRow
	Summary       string
	Levers        []LeverRow
	Risks         []string
	Prerequisites []string
	Benchmarks    []BenchmarkRow
	ResultsURL    string

	// QRCodeDataURI is filled in by the generator; templates render it
	// as an inline image.
	QRCodeDataURI template.URL
}

// Generator renders report PDFs through Gotenberg.
type Generator struct {
	client *GotenbergClient
}

// NewGenerator wraps a Gotenberg client.
func NewGenerator(client *GotenbergClient) *Generator {
	return &Generator{client: client}
}

// Generate renders the report HTML and converts it to PDF bytes.
func (g *Generator) Generate(ctx context.Context, data ReportData) ([]byte, error) {
	html, err := renderReportHTML(data)
	if err != nil {
		return nil, err
	}
	return g.client.ConvertHTML(ctx, html, DefaultContentOpts())
}

func renderReportHTML(data ReportData) ([]byte, error) {
	if data.ResultsURL != "" {
		uri, err := qrCodeDataURI(data.ResultsURL)
		if err != nil {
			return nil, fmt.Errorf("report qr code: %w", err)
		}
		data.QRCodeDataURI = uri
	}

	tmpl, err := template.ParseFS(reportTemplateFS, "templates/report.html")
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute report template: %w", err)
	}
	return buf.Bytes(), nil
}

func qrCodeDataURI(url string) (template.URL, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, 160)
	if err != nil {
		return "", err
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), nil
}
