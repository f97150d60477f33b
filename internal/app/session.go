package app

import (
	"strconv"
	"sync"
	"time"

	"symptom-quiz-service/internal/domain"
)

// HoneypotField is the hidden decoy input. Any non-empty value marks the
// session as automated; navigation and submission then silently no-op.
const HoneypotField = "quiz_website"

// Question IDs the submission snapshot pulls contact data from.
const (
	questionRegion = "region"
	questionName   = "customer_name"
	questionEmail  = "customer_email"
)

// FieldError is a per-question validation message.
type FieldError struct {
	QuestionID string `json:"questionId"`
	Message    string `json:"message"`
}

// ValidationResult aggregates the failures that block navigation.
type ValidationResult struct {
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields"`
}

// CategoryView is the wizard page handed to the transport layer.
type CategoryView struct {
	Index     int                 `json:"index"`
	Total     int                 `json:"total"`
	Info      domain.CategoryInfo `json:"info"`
	Questions []domain.Question   `json:"questions"`
	IsFirst   bool                `json:"isFirst"`
	IsLast    bool                `json:"isLast"`
}

// Session holds the wizard state for one intake run: the ordered category
// pages, the cursor, and the accumulated responses. Answers survive
// back-and-forward navigation; the session is discarded after submission.
type Session struct {
	id        string
	catalog   domain.Catalog
	startedAt time.Time
	now       func() time.Time

	mu        sync.Mutex
	index     int
	responses domain.ResponseSet
	trapped   bool
}

func NewSession(id string, catalog domain.Catalog) *Session {
	return NewSessionWithClock(id, catalog, time.Now)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id string, catalog domain.Catalog, now func() time.Time) *Session {
	return &Session{
		id:        id,
		catalog:   catalog,
		startedAt: now(),
		now:       now,
		responses: make(domain.ResponseSet),
	}
}

func (s *Session) ID() string { return s.id }

// Current returns the page the cursor is on.
func (s *Session) Current() CategoryView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// SetAnswer records a raw answer. Honeypot values are not stored; a
// non-empty one flips the trap instead.
func (s *Session) SetAnswer(questionID, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if questionID == HoneypotField {
		if value != "" {
			s.trapped = true
		}
		return
	}
	s.responses[questionID] = value
}

// Responses returns a copy of the answers recorded so far.
func (s *Session) Responses() domain.ResponseSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(domain.ResponseSet, len(s.responses))
	for k, v := range s.responses {
		out[k] = v
	}
	return out
}

// Advance validates the current page and moves the cursor forward. A failed
// validation returns the unchanged page plus the result; a tripped honeypot
// returns the unchanged page with no result at all.
func (s *Session) Advance() (CategoryView, *ValidationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trapped {
		return s.viewLocked(), nil
	}
	if res := s.validateLocked(); res != nil {
		return s.viewLocked(), res
	}
	if s.index < len(s.catalog.Groups)-1 {
		s.index++
	}
	return s.viewLocked(), nil
}

// Back moves the cursor to the previous page; it is a no-op on the first.
func (s *Session) Back() CategoryView {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index > 0 {
		s.index--
	}
	return s.viewLocked()
}

// Submit builds the immutable submission snapshot. It is only accepted from
// the terminal page, and every page is re-validated so answers blanked after
// navigation cannot slip through. ok is false when the honeypot silently
// swallowed the attempt.
func (s *Session) Submit(profileID string) (domain.Submission, *ValidationResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trapped {
		return domain.Submission{}, nil, false
	}
	if s.index != len(s.catalog.Groups)-1 {
		return domain.Submission{}, &ValidationResult{
			Message: "Please complete all sections before submitting.",
		}, false
	}
	if res := s.validateAllLocked(); res != nil {
		return domain.Submission{}, res, false
	}

	now := s.now()
	score := Score(s.catalog, s.responses)
	responses := make(domain.ResponseSet, len(s.responses))
	for k, v := range s.responses {
		responses[k] = v
	}
	return domain.Submission{
		ProfileID:      profileID,
		Score:          score,
		Severity:       domain.SeverityFor(score),
		Region:         s.responses[questionRegion],
		CustomerName:   s.responses[questionName],
		CustomerEmail:  s.responses[questionEmail],
		Responses:      responses,
		SubmittedAt:    now,
		CompletionSecs: int(now.Sub(s.startedAt) / time.Second),
	}, nil, true
}

func (s *Session) viewLocked() CategoryView {
	group := s.catalog.Groups[s.index]
	return CategoryView{
		Index:     s.index,
		Total:     len(s.catalog.Groups),
		Info:      group.Info,
		Questions: group.Questions,
		IsFirst:   s.index == 0,
		IsLast:    s.index == len(s.catalog.Groups)-1,
	}
}

func (s *Session) validateLocked() *ValidationResult {
	fields := s.groupErrorsLocked(s.catalog.Groups[s.index])
	if len(fields) == 0 {
		return nil
	}
	return &ValidationResult{
		Message: "Please answer all required questions before continuing.",
		Fields:  fields,
	}
}

func (s *Session) validateAllLocked() *ValidationResult {
	var fields []FieldError
	for _, group := range s.catalog.Groups {
		fields = append(fields, s.groupErrorsLocked(group)...)
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationResult{
		Message: "Please answer all required questions before continuing.",
		Fields:  fields,
	}
}

func (s *Session) groupErrorsLocked(group domain.CategoryGroup) []FieldError {
	var fields []FieldError
	for _, q := range group.Questions {
		value, answered := s.responses[q.ID]
		if q.Required && (!answered || value == "" || value == "false") {
			fields = append(fields, FieldError{QuestionID: q.ID, Message: "This field is required"})
			continue
		}
		if !answered || value == "" {
			continue
		}
		switch q.Type {
		case domain.TypeEmailInput:
			if !domain.ValidEmail(value) {
				fields = append(fields, FieldError{QuestionID: q.ID, Message: "Please enter a valid email address"})
			}
		case domain.TypeSeverityScale:
			if v, err := strconv.Atoi(value); err != nil || v < 0 || v > domain.SeverityScaleMax {
				fields = append(fields, FieldError{QuestionID: q.ID, Message: "Please rate this symptom from 0 to 3"})
			}
		}
	}
	return fields
}
