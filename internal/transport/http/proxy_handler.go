package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"symptom-quiz-service/internal/domain"
)

// Machine-readable failure reasons returned by the proxy.
const (
	reasonBadRequest       = "bad_request"
	reasonOriginForbidden  = "origin_forbidden"
	reasonMethodNotAllowed = "method_not_allowed"
	reasonUpstreamFailure  = "upstream_failure"
	reasonInternalError    = "internal_error"
)

// CustomerSummaryStore persists a quiz summary onto the customer record and
// returns the customer ID.
type CustomerSummaryStore interface {
	UpsertQuizSummary(ctx context.Context, sum domain.QuizSummary) (string, error)
}

// ProxyHandler is the stateless edge endpoint the storefront posts to. It
// answers CORS preflights against the origin allow-list, updates customer
// quiz summaries, and relays spreadsheet writes so the browser never talks
// to the Apps Script endpoint cross-origin.
type ProxyHandler struct {
	origins   *OriginPolicy
	store     CustomerSummaryStore
	sheetsURL string
	httpc     *http.Client
}

func NewProxyHandler(origins *OriginPolicy, store CustomerSummaryStore, sheetsURL string) *ProxyHandler {
	return &ProxyHandler{
		origins:   origins,
		store:     store,
		sheetsURL: sheetsURL,
		httpc:     &http.Client{Timeout: 20 * time.Second},
	}
}

func (h *ProxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("proxy panic: %v", rec)
			h.writeError(w, "", http.StatusInternalServerError, reasonInternalError, "Internal server error")
		}
	}()

	if r.Method == http.MethodOptions {
		h.preflight(w, r)
		return
	}
	if strings.HasSuffix(r.URL.Path, "/google-sheets") {
		h.relaySheet(w, r)
		return
	}
	h.updateSummary(w, r)
}

func (h *ProxyHandler) preflight(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if !h.origins.Allowed(origin) {
		// Bare reject: no CORS headers for unrecognized origins.
		w.WriteHeader(http.StatusForbidden)
		return
	}
	header := w.Header()
	header.Set("Access-Control-Allow-Origin", origin)
	header.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	header.Set("Access-Control-Allow-Headers", "Content-Type")
	header.Set("Access-Control-Max-Age", "86400")
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProxyHandler) updateSummary(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if r.Method != http.MethodPost {
		h.writeError(w, origin, http.StatusMethodNotAllowed, reasonMethodNotAllowed, "Method not allowed")
		return
	}
	if !h.origins.Allowed(origin) {
		h.writeError(w, "", http.StatusForbidden, reasonOriginForbidden, "Origin not allowed")
		return
	}
	if h.store == nil {
		h.writeError(w, origin, http.StatusInternalServerError, reasonInternalError, "Customer backend not configured")
		return
	}

	var payload struct {
		Email     string   `json:"email"`
		ProfileID string   `json:"symptom_profile_id"`
		Score     *float64 `json:"quiz_score"`
		Region    string   `json:"quiz_region"`
		Date      string   `json:"quiz_date"`
		Severity  string   `json:"severity_level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, origin, http.StatusBadRequest, reasonBadRequest, "Invalid JSON payload")
		return
	}
	if msg := validateSummary(payload.Email, payload.ProfileID, payload.Score, payload.Region, payload.Severity); msg != "" {
		h.writeError(w, origin, http.StatusBadRequest, reasonBadRequest, msg)
		return
	}

	customerID, err := h.store.UpsertQuizSummary(r.Context(), domain.QuizSummary{
		Email:     payload.Email,
		ProfileID: payload.ProfileID,
		Score:     int(*payload.Score),
		Region:    payload.Region,
		Date:      payload.Date,
		Severity:  payload.Severity,
	})
	if err != nil {
		log.Printf("summary update failed: %v", err)
		h.writeError(w, origin, http.StatusBadGateway, reasonUpstreamFailure, "Failed to update customer record")
		return
	}

	h.writeJSON(w, origin, http.StatusOK, map[string]any{
		"success":    true,
		"customerId": customerID,
		"message":    "Customer metafields updated successfully",
	})
}

func validateSummary(email, profileID string, score *float64, region, severity string) string {
	switch {
	case email == "" || !domain.ValidEmail(email):
		return "Valid email is required"
	case profileID == "":
		return "symptom_profile_id is required"
	case score == nil:
		return "quiz_score must be a number"
	case region == "":
		return "quiz_region is required"
	case severity == "":
		return "severity_level is required"
	}
	return ""
}

// relaySheet forwards the raw body verbatim to the spreadsheet endpoint and
// mirrors the downstream status and body back to the caller.
func (h *ProxyHandler) relaySheet(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if !h.origins.Allowed(origin) {
		h.writeError(w, "", http.StatusForbidden, reasonOriginForbidden, "Origin not allowed")
		return
	}
	if r.Method != http.MethodPost {
		h.writeError(w, origin, http.StatusMethodNotAllowed, reasonMethodNotAllowed, "Method not allowed")
		return
	}
	if h.sheetsURL == "" {
		h.writeError(w, origin, http.StatusInternalServerError, reasonInternalError, "Spreadsheet endpoint not configured")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, origin, http.StatusBadRequest, reasonBadRequest, "Unreadable request body")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.sheetsURL, bytes.NewReader(body))
	if err != nil {
		h.writeError(w, origin, http.StatusInternalServerError, reasonInternalError, "Internal server error")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpc.Do(req)
	if err != nil {
		log.Printf("sheet relay failed: %v", err)
		h.writeError(w, origin, http.StatusBadGateway, reasonUpstreamFailure, "Spreadsheet endpoint unreachable")
		return
	}
	defer resp.Body.Close()

	downstream, _ := io.ReadAll(resp.Body)
	header := w.Header()
	header.Set("Content-Type", "application/json")
	if h.origins.Allowed(origin) {
		header.Set("Access-Control-Allow-Origin", origin)
	}
	w.WriteHeader(resp.StatusCode)
	if json.Valid(downstream) {
		_, _ = w.Write(downstream)
		return
	}
	// Downstream reply was not structured data; wrap the raw text.
	_ = json.NewEncoder(w).Encode(map[string]string{"raw": string(downstream)})
}

func (h *ProxyHandler) writeJSON(w http.ResponseWriter, origin string, status int, body any) {
	header := w.Header()
	header.Set("Content-Type", "application/json")
	if origin != "" && h.origins.Allowed(origin) {
		header.Set("Access-Control-Allow-Origin", origin)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (h *ProxyHandler) writeError(w http.ResponseWriter, origin string, status int, reason, message string) {
	h.writeJSON(w, origin, status, map[string]string{"error": message, "reason": reason})
}
