package app_test

import (
	"context"
	"errors"
	"testing"

	"symptom-quiz-service/internal/app"
	"symptom-quiz-service/internal/domain"
)

type fakeLookup struct {
	product *domain.Product
	err     error
	handles []string
}

func (l *fakeLookup) ProductByHandle(_ context.Context, handle string) (*domain.Product, error) {
	l.handles = append(l.handles, handle)
	return l.product, l.err
}

func TestPresenterDecisionTable(t *testing.T) {
	lookup := &fakeLookup{product: &domain.Product{Title: "Northeast Allergy Drops", Handle: "northeast-allergy-drops"}}
	presenter := app.NewPresenter(lookup, "")

	cases := []struct {
		score int
		want  string
	}{
		{score: 0, want: app.OutcomeEducation},
		{score: 4, want: app.OutcomeEducation},
		{score: 5, want: app.OutcomeConsultation},
		{score: 9, want: app.OutcomeConsultation},
		{score: 10, want: app.OutcomeProduct},
		{score: 25, want: app.OutcomeProduct},
	}
	for _, tc := range cases {
		out := presenter.Present(context.Background(), domain.Submission{
			Score:    tc.score,
			Severity: domain.SeverityFor(tc.score),
			Region:   "northeast",
		})
		if out.Kind != tc.want {
			t.Errorf("score %d: expected %s, got %s", tc.score, tc.want, out.Kind)
		}
		if out.Message.Title == "" {
			t.Errorf("score %d: expected severity message", tc.score)
		}
	}
}

func TestPresenterFallsBackToConsultation(t *testing.T) {
	for _, lookup := range []*fakeLookup{
		{err: errors.New("storefront down")},
		{product: nil}, // handle not found
	} {
		presenter := app.NewPresenter(lookup, "")
		out := presenter.Present(context.Background(), domain.Submission{Score: 15, Region: "north_central"})
		if out.Kind != app.OutcomeConsultation {
			t.Fatalf("expected consultation fallback, got %s", out.Kind)
		}
		if len(lookup.handles) != 1 || lookup.handles[0] != "north-central-allergy-drops" {
			t.Fatalf("unexpected handle lookup: %v", lookup.handles)
		}
	}
}

func TestProductHandleFormat(t *testing.T) {
	presenter := app.NewPresenter(nil, "drops-{region}")
	if got := presenter.ProductHandle("south_central"); got != "drops-south-central" {
		t.Fatalf("unexpected handle %q", got)
	}
}
