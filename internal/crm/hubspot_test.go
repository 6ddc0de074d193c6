package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(baseURL string) *HubSpotClient {
	return &HubSpotClient{
		apiKey:    "test-key",
		baseURL:   baseURL,
		pipeline:  "default",
		dealStage: "appointmentscheduled",
		client:    &http.Client{Timeout: 5 * time.Second},
	}
}

func TestSyncAssessment_UpdatesExistingContact(t *testing.T) {
	var patchedContact string
	var noteBody string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/crm/v3/objects/contacts/search":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"results": []map[string]any{{"id": "501"}},
			})
		case strings.HasPrefix(r.URL.Path, "/crm/v3/objects/contacts/") && r.Method == http.MethodPatch:
			patchedContact = strings.TrimPrefix(r.URL.Path, "/crm/v3/objects/contacts/")
			_ = json.NewEncoder(w).Encode(map[string]any{"id": patchedContact})
		case r.URL.Path == "/crm/v3/objects/engagements":
			var payload struct {
				Engagement struct {
					Body string `json:"body"`
				} `json:"engagement"`
			}
			_ = json.NewDecoder(r.Body).Decode(&payload)
			noteBody = payload.Engagement.Body
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "901"})
		case r.URL.Path == "/crm/v3/objects/deals":
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "701"})
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	result, err := client.SyncAssessment(context.Background(), SyncInput{
		Email:        "ops@acme.test",
		Company:      "Acme",
		Industry:     "SaaS",
		OverallScore: 62,
		TopLevers:    []SyncLever{{Name: "CRM System", ExpectedImpact: "100% improvement in lead quality and conversion rates"}},
		RiskFlags:    []string{"Paid traffic may leak without strong bottom-of-funnel content"},
		ReportURL:    "https://example.com/report.pdf",
	})
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if result.ContactID != "501" || patchedContact != "501" {
		t.Fatalf("existing contact not updated: %+v", result)
	}
	if result.EngagementID != "901" || result.DealID != "701" {
		t.Fatalf("engagement/deal ids missing: %+v", result)
	}
	for _, want := range []string{"Overall Score: 62/100", "1. CRM System", "Risk Areas:", "https://example.com/report.pdf"} {
		if !strings.Contains(noteBody, want) {
			t.Fatalf("engagement note missing %q:\n%s", want, noteBody)
		}
	}
}

func TestSyncAssessment_CreatesContactWhenMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/crm/v3/objects/contacts/search":
			_ = json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
		case "/crm/v3/objects/contacts":
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "42"})
		case "/crm/v3/objects/engagements", "/crm/v3/objects/deals":
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "1"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	result, err := newTestClient(srv.URL).SyncAssessment(context.Background(), SyncInput{Email: "new@acme.test", OverallScore: 10})
	if err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if result.ContactID != "42" {
		t.Fatalf("expected created contact id 42, got %s", result.ContactID)
	}
}

func TestSyncAssessment_ContactFailureAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).SyncAssessment(context.Background(), SyncInput{Email: "x@y.test"}); err == nil {
		t.Fatalf("expected error when contact upsert fails")
	}
}

func TestSyncAssessment_DealFailureIsTolerated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/crm/v3/objects/contacts/search":
			_ = json.NewEncoder(w).Encode(map[string]any{"results": []map[string]any{{"id": "7"}}})
		case "/crm/v3/objects/contacts/7":
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "7"})
		case "/crm/v3/objects/engagements":
			_ = json.NewEncoder(w).Encode(map[string]any{"id": "8"})
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	result, err := newTestClient(srv.URL).SyncAssessment(context.Background(), SyncInput{Email: "x@y.test"})
	if err != nil {
		t.Fatalf("deal failure should not fail the sync: %v", err)
	}
	if result.ContactID != "7" || result.EngagementID != "8" || result.DealID != "" {
		t.Fatalf("unexpected result: %+v", result)
	}
}
