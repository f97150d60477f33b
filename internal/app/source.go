package app

import (
	"context"
	"log"

	"symptom-quiz-service/internal/domain"
)

// QuestionSource loads raw catalog questions from a backing source
// (static list, Postgres, Storefront metaobjects).
type QuestionSource interface {
	LoadQuestions(ctx context.Context) ([]domain.Question, error)
}

// FallbackSource tries the primary source first and falls back when it
// errors or returns no questions.
type FallbackSource struct {
	primary  QuestionSource
	fallback QuestionSource
}

func NewFallbackSource(primary, fallback QuestionSource) *FallbackSource {
	return &FallbackSource{primary: primary, fallback: fallback}
}

func (s *FallbackSource) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	questions, err := s.primary.LoadQuestions(ctx)
	if err == nil && len(questions) > 0 {
		return questions, nil
	}
	if err != nil {
		log.Printf("primary question source failed, using fallback: %v", err)
	}
	return s.fallback.LoadQuestions(ctx)
}
