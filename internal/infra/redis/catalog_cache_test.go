package redis

import (
	"context"
	"testing"
	"time"

	"symptom-quiz-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type countingSource struct {
	questions []domain.Question
	calls     int
}

func (s *countingSource) LoadQuestions(_ context.Context) ([]domain.Question, error) {
	s.calls++
	return s.questions, nil
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: "sym_a", Type: domain.TypeSeverityScale, Text: "Symptom A", Category: "symptoms", Order: 1, Required: true},
		{ID: "sym_b", Type: domain.TypeSeverityScale, Text: "Symptom B", Category: "symptoms", Order: 2, Required: true},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCachedSourceStoresCatalogInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	source := &countingSource{questions: sampleQuestions()}
	cached := NewCachedSource(newClient(mr), source, time.Minute)

	questions, err := cached.LoadQuestions(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(questions) != 2 || source.calls != 1 {
		t.Fatalf("expected loader called once, got %d questions calls=%d", len(questions), source.calls)
	}
	if !mr.Exists(catalogKey) {
		t.Fatalf("expected catalog cached in redis")
	}

	// Second call should hit the cache.
	if _, err := cached.LoadQuestions(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", source.calls)
	}
}

func TestCachedSourceResetsMalformedCacheEntry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	if err := mr.Set(catalogKey, "not-json"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	source := &countingSource{questions: sampleQuestions()}
	cached := NewCachedSource(newClient(mr), source, time.Minute)

	questions, err := cached.LoadQuestions(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(questions) != 2 || source.calls != 1 {
		t.Fatalf("expected loader refill after malformed cache, calls=%d", source.calls)
	}
}
