package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"symptom-quiz-service/internal/domain"
)

// adminStub fakes the Admin GraphQL endpoint, dispatching on the operation
// inside the query text.
type adminStub struct {
	customerID     string // empty means the search comes back empty
	historyValue   string
	metafieldErr   string
	createdEmails  []string
	setMetafields  []map[string]any
	lastHistoryRaw string
}

func (s *adminStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		switch {
		case strings.Contains(req.Query, "findCustomer"):
			edges := "[]"
			if s.customerID != "" {
				edges = fmt.Sprintf(`[{"node":{"id":%q,"email":"alice@example.com"}}]`, s.customerID)
			}
			fmt.Fprintf(w, `{"data":{"customers":{"edges":%s}}}`, edges)

		case strings.Contains(req.Query, "customerCreate"):
			input := req.Variables["input"].(map[string]any)
			s.createdEmails = append(s.createdEmails, input["email"].(string))
			fmt.Fprint(w, `{"data":{"customerCreate":{"customer":{"id":"gid://shopify/Customer/99","email":"new@example.com"},"userErrors":[]}}}`)

		case strings.Contains(req.Query, "quizHistory"):
			if s.historyValue == "" {
				fmt.Fprint(w, `{"data":{"customer":{"metafield":null}}}`)
				return
			}
			value, _ := json.Marshal(s.historyValue)
			fmt.Fprintf(w, `{"data":{"customer":{"metafield":{"value":%s}}}}`, value)

		case strings.Contains(req.Query, "metafieldsSet"):
			raw, _ := json.Marshal(req.Variables["metafields"])
			var metafields []map[string]any
			_ = json.Unmarshal(raw, &metafields)
			s.setMetafields = metafields
			for _, m := range metafields {
				if m["key"] == historyKey {
					s.lastHistoryRaw = m["value"].(string)
				}
			}
			userErrors := "[]"
			if s.metafieldErr != "" {
				userErrors = fmt.Sprintf(`[{"field":["value"],"message":%q}]`, s.metafieldErr)
			}
			fmt.Fprintf(w, `{"data":{"metafieldsSet":{"metafields":[],"userErrors":%s}}}`, userErrors)

		default:
			http.Error(w, "unexpected query", http.StatusBadRequest)
		}
	}
}

func summary() domain.QuizSummary {
	return domain.QuizSummary{
		Email:     "alice@example.com",
		ProfileID: "AOD_20250610_abc123",
		Score:     12,
		Region:    "northeast",
		Date:      "2025-06-10T12:00:00Z",
		Severity:  domain.SeverityModerate,
	}
}

func TestUpsertQuizSummaryExistingCustomer(t *testing.T) {
	stub := &adminStub{customerID: "gid://shopify/Customer/1"}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	client := NewAdminClientWithEndpoint(server.URL, "token")
	customerID, err := client.UpsertQuizSummary(context.Background(), summary())
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if customerID != "gid://shopify/Customer/1" {
		t.Fatalf("unexpected customer id %q", customerID)
	}
	if len(stub.createdEmails) != 0 {
		t.Fatalf("existing customer must not be re-created")
	}
	// Five scalar summary fields plus the history list in one batch.
	if len(stub.setMetafields) != 6 {
		t.Fatalf("expected 6 metafields, got %d", len(stub.setMetafields))
	}

	var history []domain.HistoryEntry
	if err := json.Unmarshal([]byte(stub.lastHistoryRaw), &history); err != nil {
		t.Fatalf("history not valid JSON: %v", err)
	}
	if len(history) != 1 || history[0].ProfileID != "AOD_20250610_abc123" {
		t.Fatalf("unexpected history: %+v", history)
	}
}

func TestUpsertQuizSummaryCreatesMissingCustomer(t *testing.T) {
	stub := &adminStub{}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	client := NewAdminClientWithEndpoint(server.URL, "token")
	customerID, err := client.UpsertQuizSummary(context.Background(), summary())
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if customerID != "gid://shopify/Customer/99" {
		t.Fatalf("expected created customer, got %q", customerID)
	}
	if len(stub.createdEmails) != 1 || stub.createdEmails[0] != "alice@example.com" {
		t.Fatalf("expected customerCreate for alice, got %v", stub.createdEmails)
	}
}

func TestUpsertQuizSummaryTruncatesHistory(t *testing.T) {
	existing := make([]domain.HistoryEntry, domain.HistoryCap)
	for i := range existing {
		existing[i] = domain.HistoryEntry{ProfileID: fmt.Sprintf("old_%d", i)}
	}
	raw, _ := json.Marshal(existing)

	stub := &adminStub{customerID: "gid://shopify/Customer/1", historyValue: string(raw)}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	client := NewAdminClientWithEndpoint(server.URL, "token")
	if _, err := client.UpsertQuizSummary(context.Background(), summary()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	var history []domain.HistoryEntry
	if err := json.Unmarshal([]byte(stub.lastHistoryRaw), &history); err != nil {
		t.Fatalf("history not valid JSON: %v", err)
	}
	if len(history) != domain.HistoryCap {
		t.Fatalf("expected history capped at %d, got %d", domain.HistoryCap, len(history))
	}
	if history[0].ProfileID != "AOD_20250610_abc123" || history[1].ProfileID != "old_0" {
		t.Fatalf("expected new entry first, got %+v", history[:2])
	}
	for _, e := range history {
		if e.ProfileID == fmt.Sprintf("old_%d", domain.HistoryCap-1) {
			t.Fatalf("expected oldest entry dropped")
		}
	}
}

func TestUpsertQuizSummaryResetsMalformedHistory(t *testing.T) {
	stub := &adminStub{customerID: "gid://shopify/Customer/1", historyValue: "{not json"}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	client := NewAdminClientWithEndpoint(server.URL, "token")
	if _, err := client.UpsertQuizSummary(context.Background(), summary()); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	var history []domain.HistoryEntry
	if err := json.Unmarshal([]byte(stub.lastHistoryRaw), &history); err != nil {
		t.Fatalf("history not valid JSON: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected malformed history reset to the new entry, got %d", len(history))
	}
}

func TestUpsertQuizSummarySurfacesWriteErrors(t *testing.T) {
	stub := &adminStub{customerID: "gid://shopify/Customer/1", metafieldErr: "value is invalid"}
	server := httptest.NewServer(stub.handler())
	defer server.Close()

	client := NewAdminClientWithEndpoint(server.URL, "token")
	_, err := client.UpsertQuizSummary(context.Background(), summary())
	if !errors.Is(err, domain.ErrCustomerRejected) {
		t.Fatalf("expected ErrCustomerRejected, got %v", err)
	}
}
