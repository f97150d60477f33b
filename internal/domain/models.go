package domain

import "time"

// Question types supported by the intake catalog.
const (
	TypeSingleChoice  = "single_choice"
	TypeSeverityScale = "severity_scale"
	TypeTextInput     = "text_input"
	TypeEmailInput    = "email_input"
	TypeCheckbox      = "checkbox"
)

// Option is one selectable answer for a single-choice question.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Question models one intake question. Severity-scale questions are answered
// on a 0-3 ordinal and contribute to the total score.
type Question struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Text        string   `json:"text"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Category    string   `json:"category"`
	Order       int      `json:"order"`
	Required    bool     `json:"required"`
	Options     []Option `json:"options,omitempty"`
}

// CategoryInfo carries the display metadata for one wizard page.
type CategoryInfo struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CategoryGroup is one wizard page: a category plus its questions in order.
type CategoryGroup struct {
	Info      CategoryInfo `json:"info"`
	Questions []Question   `json:"questions"`
}

// ResponseSet maps question IDs to raw answer values. Severity and
// single-choice answers are stored as their string values, checkboxes as
// "true"/"false".
type ResponseSet map[string]string

// Submission is the immutable snapshot built when a completed quiz is
// submitted. It is handed to the sheet submitter and the summary sink
// independently.
type Submission struct {
	ProfileID      string      `json:"profileId"`
	Score          int         `json:"score"`
	Severity       string      `json:"severityLevel"`
	Region         string      `json:"region"`
	CustomerName   string      `json:"customerName"`
	CustomerEmail  string      `json:"customerEmail"`
	Responses      ResponseSet `json:"responses"`
	SubmittedAt    time.Time   `json:"submissionDate"`
	CompletionSecs int         `json:"completionTime"`
}

// QuizSummary is the minimal projection relayed to the customer record.
type QuizSummary struct {
	Email     string `json:"email"`
	ProfileID string `json:"symptom_profile_id"`
	Score     int    `json:"quiz_score"`
	Region    string `json:"quiz_region"`
	Date      string `json:"quiz_date,omitempty"`
	Severity  string `json:"severity_level"`
}

// HistoryEntry archives one past quiz completion on the customer record.
type HistoryEntry struct {
	ProfileID string `json:"symptom_profile_id"`
	Date      string `json:"quiz_date"`
	Score     int    `json:"quiz_score"`
	Severity  string `json:"severity_level"`
	Region    string `json:"quiz_region"`
}

// Product is the slice of the storefront product JSON the results view needs.
type Product struct {
	Title       string `json:"title"`
	Handle      string `json:"handle"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price"`
	ImageURL    string `json:"featured_image"`
	VariantID   int64  `json:"variantId"`
}

// HistoryCap bounds the per-customer history list, most recent first.
const HistoryCap = 50

// MergeHistory prepends entry and truncates to HistoryCap.
func MergeHistory(existing []HistoryEntry, entry HistoryEntry) []HistoryEntry {
	merged := make([]HistoryEntry, 0, len(existing)+1)
	merged = append(merged, entry)
	merged = append(merged, existing...)
	if len(merged) > HistoryCap {
		merged = merged[:HistoryCap]
	}
	return merged
}
