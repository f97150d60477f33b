package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"symptom-quiz-service/internal/app"
	"symptom-quiz-service/internal/domain"
	"symptom-quiz-service/internal/infra/memory"
	"github.com/gorilla/websocket"
)

func wizardQuestions() []domain.Question {
	return []domain.Question{
		{ID: "region", Type: domain.TypeSingleChoice, Text: "Where do you live?", Category: "demographics", Order: 1, Required: true,
			Options: []domain.Option{{Value: "northeast", Label: "Northeast"}}},
		{ID: "sym_a", Type: domain.TypeSeverityScale, Text: "Symptom A", Category: "symptoms", Order: 2, Required: true},
		{ID: "customer_name", Type: domain.TypeTextInput, Text: "Your name", Category: "contact", Order: 3, Required: true},
		{ID: "customer_email", Type: domain.TypeEmailInput, Text: "Your email", Category: "contact", Order: 4, Required: true},
	}
}

func newWizardServer(t *testing.T) (*httptest.Server, *app.IntakeService) {
	t.Helper()
	source := memory.NewStaticQuestionSource(wizardQuestions())
	service := app.NewIntakeService(source, nil, memory.NewSessionStore(), nil, app.DefaultProfilePrefix)
	handler := NewWizardHandler(service, NewOriginPolicy([]string{"*"}))

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", handler.ServeWS)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, service
}

func dialWizard(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

type rawEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func readNext(t *testing.T, conn *websocket.Conn) rawEnvelope {
	t.Helper()
	var env rawEnvelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	return env
}

func sendMsg(t *testing.T, conn *websocket.Conn, msgType string, payload any) {
	t.Helper()
	raw, _ := json.Marshal(payload)
	if err := conn.WriteJSON(inboundMessage{Type: msgType, Payload: raw}); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestWizardSendsFirstCategoryOnConnect(t *testing.T) {
	server, _ := newWizardServer(t)
	conn := dialWizard(t, server)

	env := readNext(t, conn)
	if env.Type != "category" {
		t.Fatalf("expected category envelope, got %q", env.Type)
	}
	var view app.CategoryView
	if err := json.Unmarshal(env.Payload, &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Index != 0 || view.Total != 3 || !view.IsFirst || view.IsLast {
		t.Fatalf("unexpected first page: %+v", view)
	}
	if len(view.Questions) != 1 || view.Questions[0].ID != "region" {
		t.Fatalf("unexpected questions: %+v", view.Questions)
	}
}

func TestWizardValidationErrorOnNext(t *testing.T) {
	server, _ := newWizardServer(t)
	conn := dialWizard(t, server)
	readNext(t, conn) // initial category

	sendMsg(t, conn, "next", nil)
	env := readNext(t, conn)
	if env.Type != "validationError" {
		t.Fatalf("expected validationError, got %q", env.Type)
	}
	var validation app.ValidationResult
	if err := json.Unmarshal(env.Payload, &validation); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(validation.Fields) != 1 || validation.Fields[0].QuestionID != "region" {
		t.Fatalf("unexpected validation: %+v", validation)
	}
}

func TestWizardAnswerAndAdvance(t *testing.T) {
	server, _ := newWizardServer(t)
	conn := dialWizard(t, server)
	readNext(t, conn)

	sendMsg(t, conn, "answer", answerPayload{QuestionID: "region", Value: "northeast"})
	sendMsg(t, conn, "next", nil)

	env := readNext(t, conn)
	if env.Type != "category" {
		t.Fatalf("expected next category, got %q: %s", env.Type, env.Payload)
	}
	var view app.CategoryView
	_ = json.Unmarshal(env.Payload, &view)
	if view.Index != 1 || view.Questions[0].ID != "sym_a" {
		t.Fatalf("expected symptoms page, got %+v", view)
	}

	// Back returns to the first page without losing the answer.
	sendMsg(t, conn, "prev", nil)
	env = readNext(t, conn)
	_ = json.Unmarshal(env.Payload, &view)
	if view.Index != 0 {
		t.Fatalf("expected first page after prev, got %+v", view)
	}
	sendMsg(t, conn, "next", nil)
	env = readNext(t, conn)
	if env.Type != "category" {
		t.Fatalf("stored answer must satisfy validation, got %q", env.Type)
	}
}

func TestWizardFullRunToResults(t *testing.T) {
	server, _ := newWizardServer(t)
	conn := dialWizard(t, server)
	readNext(t, conn)

	sendMsg(t, conn, "answer", answerPayload{QuestionID: "region", Value: "northeast"})
	sendMsg(t, conn, "next", nil)
	readNext(t, conn)

	sendMsg(t, conn, "answer", answerPayload{QuestionID: "sym_a", Value: "3"})
	sendMsg(t, conn, "next", nil)
	readNext(t, conn)

	sendMsg(t, conn, "answer", answerPayload{QuestionID: "customer_name", Value: "Alice"})
	sendMsg(t, conn, "answer", answerPayload{QuestionID: "customer_email", Value: "alice@example.com"})
	sendMsg(t, conn, "submit", nil)

	env := readNext(t, conn)
	if env.Type != "results" {
		t.Fatalf("expected results, got %q: %s", env.Type, env.Payload)
	}
	var result app.ResultView
	if err := json.Unmarshal(env.Payload, &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Submission.Score != 3 || result.Submission.Severity != domain.SeverityMinimal {
		t.Fatalf("unexpected submission: %+v", result.Submission)
	}
	if !strings.HasPrefix(result.Submission.ProfileID, "AOD_") {
		t.Fatalf("unexpected profile id %q", result.Submission.ProfileID)
	}
}

func TestWizardSubmitWithMissingContactReturnsValidation(t *testing.T) {
	server, _ := newWizardServer(t)
	conn := dialWizard(t, server)
	readNext(t, conn)

	sendMsg(t, conn, "answer", answerPayload{QuestionID: "region", Value: "northeast"})
	sendMsg(t, conn, "next", nil)
	readNext(t, conn)
	sendMsg(t, conn, "answer", answerPayload{QuestionID: "sym_a", Value: "3"})
	sendMsg(t, conn, "next", nil)
	readNext(t, conn)

	sendMsg(t, conn, "submit", nil)
	env := readNext(t, conn)
	if env.Type != "validationError" {
		t.Fatalf("expected validationError, got %q", env.Type)
	}
}

func TestWizardSubmitFromFirstPageRejected(t *testing.T) {
	server, _ := newWizardServer(t)
	conn := dialWizard(t, server)
	readNext(t, conn)

	sendMsg(t, conn, "answer", answerPayload{QuestionID: "region", Value: "northeast"})
	sendMsg(t, conn, "submit", nil)

	env := readNext(t, conn)
	if env.Type != "validationError" {
		t.Fatalf("expected submit rejected before the last page, got %q: %s", env.Type, env.Payload)
	}
}

func TestWizardRejectsUnknownMessageType(t *testing.T) {
	server, _ := newWizardServer(t)
	conn := dialWizard(t, server)
	readNext(t, conn)

	sendMsg(t, conn, "shout", nil)
	env := readNext(t, conn)
	if env.Type != "error" {
		t.Fatalf("expected error envelope, got %q", env.Type)
	}
}

func TestWizardForbiddenOriginCannotUpgrade(t *testing.T) {
	source := memory.NewStaticQuestionSource(wizardQuestions())
	service := app.NewIntakeService(source, nil, memory.NewSessionStore(), nil, app.DefaultProfilePrefix)
	handler := NewWizardHandler(service, NewOriginPolicy([]string{"https://shop.example.com"}))

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", handler.ServeWS)
	server := httptest.NewServer(mux)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	if _, _, err := websocket.DefaultDialer.Dial(wsURL, header); err == nil {
		t.Fatalf("expected handshake rejection for forbidden origin")
	}
}
