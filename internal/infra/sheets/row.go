package sheets

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"symptom-quiz-service/internal/domain"
)

// The two raw demographic columns appended after the severity block.
var demographicColumns = []string{"timing_seasonal", "timing_duration"}

// BuildRow serializes a submission into the fixed sheet column order:
// identity fields, one integer per severity question in catalog order, the
// demographic strings, then a JSON dump of every response.
func BuildRow(catalog domain.Catalog, rec domain.Submission) []any {
	row := []any{
		rec.ProfileID,
		rec.CustomerName,
		rec.CustomerEmail,
		rec.Score,
		CapitalizeSeverity(rec.Severity),
		FormatRegion(rec.Region),
		rec.SubmittedAt.UTC().Format(time.RFC3339),
		rec.CompletionSecs,
	}
	for _, q := range catalog.ScoringQuestions() {
		v, err := strconv.Atoi(rec.Responses[q.ID])
		if err != nil {
			v = 0
		}
		row = append(row, v)
	}
	for _, id := range demographicColumns {
		row = append(row, rec.Responses[id])
	}
	dump, err := json.MarshalIndent(rec.Responses, "", "  ")
	if err != nil {
		dump = []byte("{}")
	}
	return append(row, string(dump))
}

// CapitalizeSeverity renders the severity label for the sheet ("mild" -> "Mild").
func CapitalizeSeverity(severity string) string {
	if severity == "" {
		return ""
	}
	return strings.ToUpper(severity[:1]) + strings.ToLower(severity[1:])
}

var regionNames = map[string]string{
	"northwest":     "Northwest",
	"southwest":     "Southwest",
	"north_central": "North Central",
	"south_central": "South Central",
	"midwest":       "Midwest",
	"southeast":     "Southeast",
	"northeast":     "Northeast",
}

// FormatRegion maps a region code onto its display name, passing unknown
// codes through untouched.
func FormatRegion(region string) string {
	if name, ok := regionNames[region]; ok {
		return name
	}
	return region
}
