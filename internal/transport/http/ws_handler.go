package http

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"

	"symptom-quiz-service/internal/app"
	"github.com/gorilla/websocket"
)

// WizardHandler drives the intake wizard over a websocket: one connection,
// one session, one category page at a time.
type WizardHandler struct {
	service  *app.IntakeService
	upgrader websocket.Upgrader
}

func NewWizardHandler(service *app.IntakeService, origins *OriginPolicy) *WizardHandler {
	return &WizardHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Non-browser clients send no Origin header.
				origin := r.Header.Get("Origin")
				return origin == "" || origins.Allowed(origin)
			},
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	QuestionID string `json:"questionId"`
	Value      string `json:"value"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs the wizard loop. Message types:
// answer, next, prev, submit; replies: category, validationError, results,
// error.
func (h *WizardHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		sessionID = newSessionID()
	}

	session, err := h.service.Open(r.Context(), sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	submitted := false
	defer func() {
		if !submitted {
			h.service.Close(sessionID)
		}
	}()

	if err := conn.WriteJSON(outboundMessage[app.CategoryView]{Type: "category", Payload: session.Current()}); err != nil {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}

		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.QuestionID == "" {
				h.sendError(conn, "invalid answer payload")
				continue
			}
			session.SetAnswer(payload.QuestionID, payload.Value)

		case "next":
			view, validation := session.Advance()
			if validation != nil {
				h.send(conn, "validationError", validation)
				continue
			}
			h.send(conn, "category", view)

		case "prev":
			h.send(conn, "category", session.Back())

		case "submit":
			result, validation, err := h.service.Submit(r.Context(), sessionID)
			if err != nil {
				h.sendError(conn, "There was an error submitting your assessment. Please try again.")
				continue
			}
			if validation != nil {
				h.send(conn, "validationError", validation)
				continue
			}
			if result == nil {
				// Honeypot: swallow silently.
				continue
			}
			submitted = true
			h.send(conn, "results", result)

		default:
			h.sendError(conn, "unsupported message type")
		}
	}
}

func (h *WizardHandler) send(conn *websocket.Conn, msgType string, payload any) {
	if err := conn.WriteJSON(outboundMessage[any]{Type: msgType, Payload: payload}); err != nil {
		log.Printf("ws write error: %v", err)
	}
}

func (h *WizardHandler) sendError(conn *websocket.Conn, message string) {
	h.send(conn, "error", errorPayload{Message: message})
}

func newSessionID() string {
	return fmt.Sprintf("intake-%08x", rand.Uint32())
}
