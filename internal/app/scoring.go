package app

import (
	"strconv"

	"symptom-quiz-service/internal/domain"
)

// Score sums the integer values (0-3) of every severity-scale answer.
// Non-severity questions and unparseable answers contribute nothing.
func Score(catalog domain.Catalog, responses domain.ResponseSet) int {
	total := 0
	for _, q := range catalog.ScoringQuestions() {
		if v, err := strconv.Atoi(responses[q.ID]); err == nil {
			total += v
		}
	}
	return total
}
