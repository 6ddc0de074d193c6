package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"nytro_assessment_backend/platform/config"
)

// Attachment represents a file attachment for an email.
type Attachment struct {
	Content  []byte // raw file bytes (will be base64-encoded for Brevo)
	FileName string // e.g. "leadgen-assessment-report.pdf"
	MIMEType string // e.g. "application/pdf"
}

type Sender interface {
	SendReportEmail(ctx context.Context, toEmail, company string, overallScore int, outcome, resultsURL string, attachments ...Attachment) error
	SendFollowupEmail(ctx context.Context, toEmail, company, topLever, resultsURL string) error
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
}

type NoopSender struct{}

func (NoopSender) SendReportEmail(ctx context.Context, toEmail, company string, overallScore int, outcome, resultsURL string, attachments ...Attachment) error {
	return nil
}

func (NoopSender) SendFollowupEmail(ctx context.Context, toEmail, company, topLever, resultsURL string) error {
	return nil
}

func (NoopSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return nil
}

type BrevoSender struct {
	apiKey    string
	fromName  string
	fromEmail string
	client    *http.Client
}

type brevoAttachment struct {
	Content string `json:"content"` // base64-encoded file content
	Name    string `json:"name"`
}

type brevoEmailRequest struct {
	Sender struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"sender"`
	To []struct {
		Email string `json:"email"`
	} `json:"to"`
	Subject     string            `json:"subject"`
	HTMLContent string            `json:"htmlContent"`
	Attachment  []brevoAttachment `json:"attachment,omitempty"`
}

// NewSender builds a Sender for the configured provider. Disabled email
// yields a NoopSender so callers never branch on configuration.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	switch cfg.GetEmailProvider() {
	case "smtp":
		return NewSMTPSender(
			cfg.GetSMTPHost(),
			cfg.GetSMTPPort(),
			cfg.GetSMTPUsername(),
			cfg.GetSMTPPassword(),
			cfg.GetEmailFromAddress(),
			cfg.GetEmailFromName(),
		), nil
	case "brevo":
		client := &http.Client{Timeout: 10 * time.Second}
		return &BrevoSender{
			apiKey:    cfg.GetBrevoAPIKey(),
			fromName:  cfg.GetEmailFromName(),
			fromEmail: cfg.GetEmailFromAddress(),
			client:    client,
		}, nil
	default:
		return NoopSender{}, nil
	}
}

func (b *BrevoSender) SendReportEmail(ctx context.Context, toEmail, company string, overallScore int, outcome, resultsURL string, attachments ...Attachment) error {
	content, err := renderEmailTemplate("report.html", reportEmailData{
		baseEmailData: baseEmailData{
			Title:    "Your assessment results",
			Heading:  "Your assessment results",
			CTALabel: "View your full results",
			CTAURL:   resultsURL,
		},
		Company:        company,
		OverallScore:   overallScore,
		Outcome:        outcome,
		HasAttachments: len(attachments) > 0,
	})
	if err != nil {
		return err
	}
	return b.sendWithAttachments(ctx, toEmail, subjectReport, content, attachments...)
}

func (b *BrevoSender) SendFollowupEmail(ctx context.Context, toEmail, company, topLever, resultsURL string) error {
	subject := fmt.Sprintf(subjectFollowupFmt, topLever)
	content, err := renderEmailTemplate("followup.html", followupEmailData{
		baseEmailData: baseEmailData{
			Title:    "Your next growth step",
			Heading:  "Your next growth step",
			CTALabel: "Revisit your results",
			CTAURL:   resultsURL,
		},
		Company:  company,
		TopLever: topLever,
	})
	if err != nil {
		return err
	}
	return b.send(ctx, toEmail, subject, content)
}

func (b *BrevoSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return b.send(ctx, toEmail, subject, htmlContent)
}

func (b *BrevoSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	return b.sendWithAttachments(ctx, toEmail, subject, htmlContent)
}

func (b *BrevoSender) sendWithAttachments(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error {
	payload := brevoEmailRequest{
		Subject:     subject,
		HTMLContent: htmlContent,
	}
	payload.Sender.Name = b.fromName
	payload.Sender.Email = b.fromEmail
	payload.To = []struct {
		Email string `json:"email"`
	}{{Email: toEmail}}

	for _, att := range attachments {
		payload.Attachment = append(payload.Attachment, brevoAttachment{
			Content: base64.StdEncoding.EncodeToString(att.Content),
			Name:    att.FileName,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.brevo.com/v3/smtp/email", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("api-key", b.apiKey)
	req.Header.Set("content-type", "application/json")
	req.Header.Set("accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("brevo send failed: status %d: %s", resp.StatusCode, string(data))
	}

	return nil
}
