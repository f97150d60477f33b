package app_test

import (
	"testing"

	"symptom-quiz-service/internal/app"
	"symptom-quiz-service/internal/domain"
)

func TestScoreSumsSeverityAnswers(t *testing.T) {
	catalog := testCatalog()
	responses := domain.ResponseSet{
		"sym_a":         "3",
		"sym_b":         "1",
		"region":        "northeast", // non-severity, ignored
		"customer_name": "Alice",
	}
	if got := app.Score(catalog, responses); got != 4 {
		t.Fatalf("expected score 4, got %d", got)
	}
}

func TestScoreInvariantToAnswerOrder(t *testing.T) {
	catalog := testCatalog()
	a := domain.ResponseSet{"sym_a": "2", "sym_b": "3"}
	b := domain.ResponseSet{"sym_b": "3", "sym_a": "2"}
	if app.Score(catalog, a) != app.Score(catalog, b) {
		t.Fatalf("score must not depend on answer order")
	}
}

func TestScoreIgnoresUnparseableAnswers(t *testing.T) {
	catalog := testCatalog()
	responses := domain.ResponseSet{"sym_a": "2", "sym_b": "severe"}
	if got := app.Score(catalog, responses); got != 2 {
		t.Fatalf("expected unparseable answer to contribute 0, got %d", got)
	}
}
