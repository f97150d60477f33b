package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"symptom-quiz-service/internal/domain"
)

// Submission outcome states.
const (
	StatusSuccess = "success"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Result is the tri-state outcome of one sheet submission.
type Result struct {
	Status    string
	RowNumber int
	Message   string
}

const defaultRetryDelay = 2 * time.Second

// Submitter posts the flat submission row to the spreadsheet web-app
// endpoint. Transport-class failures get exactly one retry after a fixed
// delay; application-level errors (non-2xx) fail immediately.
type Submitter struct {
	url         string
	environment string
	retryDelay  time.Duration
	httpc       *http.Client
}

func NewSubmitter(url, environment string) *Submitter {
	return &Submitter{
		url:         url,
		environment: environment,
		retryDelay:  defaultRetryDelay,
		httpc:       &http.Client{Timeout: 20 * time.Second},
	}
}

func (s *Submitter) Submit(ctx context.Context, catalog domain.Catalog, rec domain.Submission) Result {
	if s.url == "" {
		return Result{Status: StatusSkipped, Message: "spreadsheet endpoint not configured"}
	}
	if s.environment == "development" || s.environment == "local" {
		return Result{Status: StatusSkipped, Message: "skipped in " + s.environment + " environment"}
	}

	body, err := json.Marshal(map[string]any{"data": BuildRow(catalog, rec)})
	if err != nil {
		return Result{Status: StatusFailed, Message: fmt.Sprintf("marshal row: %v", err)}
	}

	var lastErr error
	for attempt := 0; attempt <= 1; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(s.retryDelay):
			case <-ctx.Done():
				return Result{Status: StatusFailed, Message: ctx.Err().Error()}
			}
		}

		resp, err := s.post(ctx, body)
		if err != nil {
			// Network-class failure: eligible for the single retry.
			lastErr = err
			continue
		}

		text, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return Result{Status: StatusFailed, Message: fmt.Sprintf("spreadsheet error: %s - %s", resp.Status, text)}
		}

		var reply struct {
			RowNumber int `json:"rowNumber"`
		}
		_ = json.Unmarshal(text, &reply)
		return Result{Status: StatusSuccess, RowNumber: reply.RowNumber}
	}
	return Result{Status: StatusFailed, Message: lastErr.Error()}
}

func (s *Submitter) post(ctx context.Context, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return s.httpc.Do(req)
}

// Name implements app.SubmissionSink.
func (s *Submitter) Name() string { return "sheet submitter" }

// Deliver implements app.SubmissionSink. A skip is not a failure.
func (s *Submitter) Deliver(ctx context.Context, catalog domain.Catalog, rec domain.Submission) error {
	result := s.Submit(ctx, catalog, rec)
	if result.Status == StatusFailed {
		return fmt.Errorf("sheet submission failed: %s", result.Message)
	}
	return nil
}
