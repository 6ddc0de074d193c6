// Package crm pushes completed assessments into HubSpot: a contact upsert,
// a NOTE engagement with the score breakdown, and a low-touch deal.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nytro_assessment_backend/platform/config"
)

// SyncInput carries everything the CRM sync needs from a scored assessment.
type SyncInput struct {
	Email        string
	Company      string
	Industry     string
	CompanySize  string
	Phone        string
	OverallScore int
	TopLevers    []SyncLever
	RiskFlags    []string
	ReportURL    string
}

// SyncLever is one recommended lever forwarded to the CRM note.
type SyncLever struct {
	Name           string
	ExpectedImpact string
}

// SyncResult holds the HubSpot object IDs created by a sync.
type SyncResult struct {
	ContactID    string `json:"contactId"`
	EngagementID string `json:"engagementId,omitempty"`
	DealID       string `json:"dealId,omitempty"`
}

// Syncer pushes assessments to a CRM.
type Syncer interface {
	SyncAssessment(ctx context.Context, input SyncInput) (*SyncResult, error)
}

// NoopSyncer is used when no CRM is configured.
type NoopSyncer struct{}

func (NoopSyncer) SyncAssessment(ctx context.Context, input SyncInput) (*SyncResult, error) {
	return &SyncResult{}, nil
}

// HubSpotClient talks to the HubSpot CRM v3 API.
type HubSpotClient struct {
	apiKey    string
	baseURL   string
	pipeline  string
	dealStage string
	client    *http.Client
}

// NewSyncer builds a Syncer for the configured CRM; disabled config yields
// a NoopSyncer.
func NewSyncer(cfg config.HubSpotConfig) Syncer {
	if !cfg.IsHubSpotEnabled() {
		return NoopSyncer{}
	}
	return &HubSpotClient{
		apiKey:    cfg.GetHubSpotAPIKey(),
		baseURL:   cfg.GetHubSpotBaseURL(),
		pipeline:  cfg.GetHubSpotPipeline(),
		dealStage: cfg.GetHubSpotDealStage(),
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type contactProperties struct {
	Email                        string `json:"email"`
	Company                      string `json:"company,omitempty"`
	Phone                        string `json:"phone,omitempty"`
	Industry                     string `json:"industry,omitempty"`
	LeadgenAssessmentScore       string `json:"leadgen_assessment_score,omitempty"`
	LeadgenAssessmentDate        string `json:"leadgen_assessment_date,omitempty"`
	LeadgenAssessmentIndustry    string `json:"leadgen_assessment_industry,omitempty"`
	LeadgenAssessmentCompanySize string `json:"leadgen_assessment_company_size,omitempty"`
}

type searchRequest struct {
	FilterGroups []struct {
		Filters []searchFilter `json:"filters"`
	} `json:"filterGroups"`
	Properties []string `json:"properties"`
}

type searchFilter struct {
	PropertyName string `json:"propertyName"`
	Operator     string `json:"operator"`
	Value        string `json:"value"`
}

type searchResponse struct {
	Results []struct {
		ID string `json:"id"`
	} `json:"results"`
}

type objectResponse struct {
	ID string `json:"id"`
}

// SearchContactByEmail returns the contact ID for an email, or "" when the
// contact does not exist.
func (h *HubSpotClient) SearchContactByEmail(ctx context.Context, email string) (string, error) {
	req := searchRequest{Properties: []string{"id", "email"}}
	req.FilterGroups = append(req.FilterGroups, struct {
		Filters []searchFilter `json:"filters"`
	}{Filters: []searchFilter{{PropertyName: "email", Operator: "EQ", Value: email}}})

	var resp searchResponse
	if err := h.post(ctx, "/crm/v3/objects/contacts/search", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Results) == 0 {
		return "", nil
	}
	return resp.Results[0].ID, nil
}

// CreateOrUpdateContact upserts the contact keyed by email and returns its ID.
func (h *HubSpotClient) CreateOrUpdateContact(ctx context.Context, props contactProperties) (string, error) {
	existingID, err := h.SearchContactByEmail(ctx, props.Email)
	if err != nil {
		return "", err
	}

	payload := map[string]any{"properties": props}

	if existingID != "" {
		if err := h.patch(ctx, "/crm/v3/objects/contacts/"+existingID, payload, nil); err != nil {
			return "", err
		}
		return existingID, nil
	}

	var created objectResponse
	if err := h.post(ctx, "/crm/v3/objects/contacts", payload, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// SyncAssessment upserts the contact, attaches a NOTE engagement and opens
// a tracking deal. Engagement and deal failures do not fail the sync once
// the contact exists.
func (h *HubSpotClient) SyncAssessment(ctx context.Context, input SyncInput) (*SyncResult, error) {
	contactID, err := h.CreateOrUpdateContact(ctx, contactProperties{
		Email:                        input.Email,
		Company:                      input.Company,
		Phone:                        input.Phone,
		Industry:                     input.Industry,
		LeadgenAssessmentScore:       fmt.Sprintf("%d", input.OverallScore),
		LeadgenAssessmentDate:        time.Now().UTC().Format(time.RFC3339),
		LeadgenAssessmentIndustry:    input.Industry,
		LeadgenAssessmentCompanySize: input.CompanySize,
	})
	if err != nil {
		return nil, fmt.Errorf("hubspot contact upsert: %w", err)
	}

	result := &SyncResult{ContactID: contactID}

	engagementPayload := map[string]any{
		"engagement": map[string]any{
			"type":      "NOTE",
			"timestamp": time.Now().UnixMilli(),
			"body":      buildEngagementNote(input),
		},
		"associations": map[string]any{
			"contactIds": []string{contactID},
		},
	}
	var engagement objectResponse
	if err := h.post(ctx, "/crm/v3/objects/engagements", engagementPayload, &engagement); err == nil {
		result.EngagementID = engagement.ID
	}

	dealName := input.Company
	if dealName == "" {
		dealName = input.Email
	}
	dealPayload := map[string]any{
		"properties": map[string]any{
			"dealname":                 "Lead Gen Assessment - " + dealName,
			"dealstage":                h.dealStage,
			"pipeline":                 h.pipeline,
			"amount":                   "0",
			"closedate":                time.Now().Add(30 * 24 * time.Hour).UTC().Format(time.RFC3339),
			"lead_source":              "LeadGen Assessment",
			"leadgen_assessment_score": fmt.Sprintf("%d", input.OverallScore),
		},
		"associations": map[string]any{
			"contactIds": []string{contactID},
		},
	}
	var deal objectResponse
	if err := h.post(ctx, "/crm/v3/objects/deals", dealPayload, &deal); err == nil {
		result.DealID = deal.ID
	}

	return result, nil
}

func buildEngagementNote(input SyncInput) string {
	var b strings.Builder
	b.WriteString("Lead Generation Assessment Completed\n\n")
	fmt.Fprintf(&b, "Overall Score: %d/100\n", input.OverallScore)
	fmt.Fprintf(&b, "Industry: %s\n", orNotSpecified(input.Industry))
	fmt.Fprintf(&b, "Company Size: %s\n\n", orNotSpecified(input.CompanySize))

	b.WriteString("Top Growth Opportunities:\n")
	for i, lever := range input.TopLevers {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, lever.Name, lever.ExpectedImpact)
	}

	if len(input.RiskFlags) > 0 {
		b.WriteString("\nRisk Areas:\n")
		for _, risk := range input.RiskFlags {
			fmt.Fprintf(&b, "- %s\n", risk)
		}
	}

	if input.ReportURL != "" {
		fmt.Fprintf(&b, "\nFull Report: %s\n", input.ReportURL)
	}

	b.WriteString("\nSource: LeadGen Assessment Tool")
	return b.String()
}

func orNotSpecified(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Not specified"
	}
	return value
}

func (h *HubSpotClient) post(ctx context.Context, path string, payload any, out any) error {
	return h.do(ctx, http.MethodPost, path, payload, out)
}

func (h *HubSpotClient) patch(ctx context.Context, path string, payload any, out any) error {
	return h.do(ctx, http.MethodPatch, path, payload, out)
}

func (h *HubSpotClient) do(ctx context.Context, method, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+h.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("hubspot %s %s: status %d: %s", method, path, resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("hubspot decode %s: %w", path, err)
		}
	}
	return nil
}
