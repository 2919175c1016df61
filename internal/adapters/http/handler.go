package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Maurosab10/sabmc-travel-agent-api/internal/app/conversation"
	"github.com/Maurosab10/sabmc-travel-agent-api/internal/app/runflow"
	"github.com/Maurosab10/sabmc-travel-agent-api/internal/domain"
	"github.com/Maurosab10/sabmc-travel-agent-api/internal/observability"
)

type Server struct {
	svc *conversation.Service

	// cfgErr is the startup configuration problem, if any. The process keeps
	// serving and reports it as a 500 on every chat request before touching
	// any remote service.
	cfgErr error
}

func NewServer(svc *conversation.Service, cfgErr error) http.Handler {
	s := &Server{svc: svc, cfgErr: cfgErr}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/api/chat-travel", s.handleChatTravel)

	return chainMiddlewares(mux, withLogging, withRequestID, withCORS)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []chatMessage `json:"messages"`
	ThreadID string        `json:"threadId,omitempty"`
}

type chatResponse struct {
	ThreadID string `json:"threadId"`
	Answer   string `json:"answer"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleChatTravel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	log := observability.LoggerFromContext(r.Context())

	if s.cfgErr != nil {
		log.Error("request refused by incomplete configuration", "error", s.cfgErr)
		serverError(w, s.cfgErr.Error())
		return
	}

	// A bad body falls into the same generic failure callers see for any
	// other problem; the surface stays 200/405/500 only.
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("invalid request body", "error", err)
		serverError(w, "Error hablando con el travel agent")
		return
	}
	if len(req.Messages) == 0 {
		log.Error("request carried no messages")
		serverError(w, "Error hablando con el travel agent")
		return
	}

	out, err := s.svc.Chat(r.Context(), conversation.ChatInput{
		ThreadID: req.ThreadID,
		Messages: toDomainMessages(req.Messages),
	})
	if err != nil {
		log.Error("chat turn failed", "error", err)

		var notCompleted *runflow.ErrRunNotCompleted
		if errors.As(err, &notCompleted) {
			serverError(w, "El asistente no pudo completar la respuesta")
			return
		}
		serverError(w, "Error hablando con el travel agent")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		ThreadID: out.ThreadID,
		Answer:   out.Answer,
	})
}

// ─────────────────────────────────────────────
// Conversion helpers
// ─────────────────────────────────────────────

func toDomainMessages(msgs []chatMessage) []domain.ChatMessage {
	out := make([]domain.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		role := domain.RoleUser
		if m.Role == string(domain.RoleAssistant) {
			role = domain.RoleAssistant
		}
		out = append(out, domain.ChatMessage{
			Role:    role,
			Content: m.Content,
		})
	}
	return out
}

// ─────────────────────────────────────────────
// HTTP Helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func serverError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "Método no permitido",
	})
}
