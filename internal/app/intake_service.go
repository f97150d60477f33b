package app

import (
	"context"
	"log"
	"time"

	"symptom-quiz-service/internal/domain"
)

// SessionStore abstracts how open intake sessions are kept (in-memory, Redis).
type SessionStore interface {
	Put(id string, session *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
}

// SubmissionSink receives the completed submission snapshot. Sinks are
// best-effort: a failing sink is logged and never blocks the results view.
type SubmissionSink interface {
	Name() string
	Deliver(ctx context.Context, catalog domain.Catalog, rec domain.Submission) error
}

// ResultView pairs the submission snapshot with its presented outcome.
type ResultView struct {
	Submission domain.Submission `json:"submission"`
	Outcome    Outcome           `json:"outcome"`
}

// IntakeService owns the intake use cases: opening wizard sessions over the
// loaded catalog and turning completed sessions into submissions.
type IntakeService struct {
	source        QuestionSource
	categoryInfo  map[string]domain.CategoryInfo
	sessions      SessionStore
	sinks         []SubmissionSink
	presenter     *Presenter
	profilePrefix string
	now           func() time.Time
}

func NewIntakeService(source QuestionSource, info map[string]domain.CategoryInfo, sessions SessionStore, presenter *Presenter, profilePrefix string, sinks ...SubmissionSink) *IntakeService {
	return &IntakeService{
		source:        source,
		categoryInfo:  info,
		sessions:      sessions,
		sinks:         sinks,
		presenter:     presenter,
		profilePrefix: profilePrefix,
		now:           time.Now,
	}
}

// Catalog loads and assembles the current question catalog.
func (s *IntakeService) Catalog(ctx context.Context) (domain.Catalog, error) {
	questions, err := s.source.LoadQuestions(ctx)
	if err != nil {
		return domain.Catalog{}, err
	}
	catalog := domain.BuildCatalog(questions, s.categoryInfo)
	if len(catalog.Groups) == 0 {
		return domain.Catalog{}, domain.ErrCatalogEmpty
	}
	return catalog, nil
}

// Open starts a wizard session positioned on the first category.
func (s *IntakeService) Open(ctx context.Context, sessionID string) (*Session, error) {
	catalog, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	session := NewSessionWithClock(sessionID, catalog, s.now)
	s.sessions.Put(sessionID, session)
	return session, nil
}

// Get returns an open session by ID.
func (s *IntakeService) Get(sessionID string) (*Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Close drops a session without submitting it.
func (s *IntakeService) Close(sessionID string) {
	s.sessions.Delete(sessionID)
}

// Preview renders the results view for one of the canned severity
// scenarios without running the quiz. Debugging aid.
func (s *IntakeService) Preview(ctx context.Context, scenario string) (*ResultView, bool) {
	rec, ok := PreviewScenario(scenario, s.now())
	if !ok {
		return nil, false
	}
	outcome := Outcome{Message: severityMessages[rec.Severity], Kind: OutcomeEducation}
	if s.presenter != nil {
		outcome = s.presenter.Present(ctx, rec)
	}
	return &ResultView{Submission: rec, Outcome: outcome}, true
}

// Submit finalizes a session: validate the terminal page, build the
// snapshot, hand it to every sink, and present the outcome. A validation
// failure leaves the session open and re-submittable; a tripped honeypot
// returns (nil, nil, nil) and also leaves the session in place.
func (s *IntakeService) Submit(ctx context.Context, sessionID string) (*ResultView, *ValidationResult, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}

	profileID := NewProfileID(s.profilePrefix, s.now())
	rec, validation, ok := session.Submit(profileID)
	if validation != nil {
		return nil, validation, nil
	}
	if !ok {
		return nil, nil, nil
	}

	catalog := session.catalog
	for _, sink := range s.sinks {
		if err := sink.Deliver(ctx, catalog, rec); err != nil {
			log.Printf("%s delivery failed for %s: %v", sink.Name(), rec.ProfileID, err)
		}
	}

	outcome := Outcome{Message: severityMessages[rec.Severity], Kind: OutcomeEducation}
	if s.presenter != nil {
		outcome = s.presenter.Present(ctx, rec)
	}
	s.sessions.Delete(sessionID)
	return &ResultView{Submission: rec, Outcome: outcome}, nil, nil
}
