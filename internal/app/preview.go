package app

import (
	"time"

	"symptom-quiz-service/internal/domain"
)

// PreviewScenario returns a canned submission for one of the four severity
// bands, so the results view can be exercised without running the quiz.
// Recognized names: minimal, mild, moderate, severe.
func PreviewScenario(name string, now time.Time) (domain.Submission, bool) {
	scores := map[string]int{
		domain.SeverityMinimal:  2,
		domain.SeverityMild:     7,
		domain.SeverityModerate: 14,
		domain.SeveritySevere:   25,
	}
	score, ok := scores[name]
	if !ok {
		return domain.Submission{}, false
	}
	return domain.Submission{
		ProfileID:     NewProfileID(DefaultProfilePrefix, now),
		Score:         score,
		Severity:      name,
		Region:        "northeast",
		CustomerName:  "Preview User",
		CustomerEmail: "preview@example.com",
		Responses:     domain.ResponseSet{questionRegion: "northeast"},
		SubmittedAt:   now,
	}, true
}
