package httpadapter_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Maurosab10/sabmc-travel-agent-api/internal/adapters/assistant"
	httpadapter "github.com/Maurosab10/sabmc-travel-agent-api/internal/adapters/http"
	"github.com/Maurosab10/sabmc-travel-agent-api/internal/app/conversation"
	"github.com/Maurosab10/sabmc-travel-agent-api/internal/app/runflow"
	"github.com/Maurosab10/sabmc-travel-agent-api/internal/app/tools"
	"github.com/Maurosab10/sabmc-travel-agent-api/internal/domain"
)

func newTestServer(t *testing.T, cfgErr error) (http.Handler, *assistant.Mock) {
	t.Helper()

	mock := assistant.NewMock()
	runner := runflow.NewRunner(mock, tools.NewRegistry()).WithPollInterval(time.Millisecond)
	svc := conversation.NewService(mock, runner)

	return httpadapter.NewServer(svc, cfgErr), mock
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestChatTravelHappyPath(t *testing.T) {
	srv, mock := newTestServer(t, nil)
	mock.Answer = "Madrid es una gran opción."

	body := []byte(`{"messages":[{"role":"user","content":"Dónde viajo en octubre?"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/chat-travel", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		ThreadID string `json:"threadId"`
		Answer   string `json:"answer"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.ThreadID == "" {
		t.Fatal("expected a threadId in the response")
	}
	if resp.Answer != "Madrid es una gran opción." {
		t.Fatalf("unexpected answer %q", resp.Answer)
	}
}

func TestChatTravelReusesThread(t *testing.T) {
	srv, mock := newTestServer(t, nil)

	first := []byte(`{"messages":[{"role":"user","content":"Hola"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/chat-travel", bytes.NewReader(first))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("first turn: expected 200, got %d", w.Code)
	}

	var firstResp struct {
		ThreadID string `json:"threadId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &firstResp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}

	second := []byte(`{"threadId":"` + firstResp.ThreadID + `","messages":[{"role":"user","content":"Hola"},{"role":"user","content":"Y en invierno?"}]}`)
	req = httptest.NewRequest(http.MethodPost, "/api/chat-travel", bytes.NewReader(second))
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("second turn: expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var secondResp struct {
		ThreadID string `json:"threadId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &secondResp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if secondResp.ThreadID != firstResp.ThreadID {
		t.Fatalf("expected thread %q to be reused, got %q", firstResp.ThreadID, secondResp.ThreadID)
	}

	msgs := mock.SeededMessages(domain.ThreadID(firstResp.ThreadID))
	if len(msgs) != 2 {
		t.Fatalf("expected 1 seeded + 1 appended message, got %d", len(msgs))
	}
	if msgs[1].Content != "Y en invierno?" {
		t.Fatalf("expected only the last message appended, got %q", msgs[1].Content)
	}
}

func TestChatTravelRejectsNonPOST(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		req := httptest.NewRequest(method, "/api/chat-travel", strings.NewReader(`{"messages":[]}`))
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, req)

		if w.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s: expected 405, got %d", method, w.Code)
		}
		if !strings.Contains(w.Body.String(), "Método no permitido") {
			t.Fatalf("%s: expected spanish method-not-allowed error, got %s", method, w.Body.String())
		}
	}
}

func TestChatTravelAnswersPreflight(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/chat-travel", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for OPTIONS, got %d", w.Code)
	}
	if w.Body.Len() != 0 {
		t.Fatalf("expected empty preflight body, got %q", w.Body.String())
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected open CORS origin, got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "POST, OPTIONS" {
		t.Fatalf("unexpected allowed methods %q", got)
	}
}

func TestChatTravelReportsConfigError(t *testing.T) {
	srv, mock := newTestServer(t, errors.New("Configuración del servidor incompleta: falta OPENAI_API_KEY"))

	body := []byte(`{"messages":[{"role":"user","content":"Hola"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/chat-travel", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "falta OPENAI_API_KEY") {
		t.Fatalf("expected config error message, got %s", w.Body.String())
	}
	if mock.AnswerReads != 0 {
		t.Fatal("expected no remote calls on config error")
	}
}

func TestChatTravelReportsFailedRun(t *testing.T) {
	srv, mock := newTestServer(t, nil)
	mock.ScriptRunStates(domain.Run{Status: domain.RunStatusFailed})

	body := []byte(`{"messages":[{"role":"user","content":"Hola"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/chat-travel", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "El asistente no pudo completar la respuesta") {
		t.Fatalf("expected assistant-failure message, got %s", w.Body.String())
	}
	if mock.AnswerReads != 0 {
		t.Fatalf("expected no answer read after failed run, got %d", mock.AnswerReads)
	}
}

func TestChatTravelGenericErrorHidesDetails(t *testing.T) {
	srv, mock := newTestServer(t, nil)
	mock.Err = errors.New("secret internal detail")

	body := []byte(`{"messages":[{"role":"user","content":"Hola"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/chat-travel", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "secret internal detail") {
		t.Fatalf("internal error leaked to caller: %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Error hablando con el travel agent") {
		t.Fatalf("expected generic error message, got %s", w.Body.String())
	}
}

func TestChatTravelEmptyMessagesIsGenericFailure(t *testing.T) {
	srv, mock := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/chat-travel", strings.NewReader(`{"messages":[]}`))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Error hablando con el travel agent") {
		t.Fatalf("expected generic error message, got %s", w.Body.String())
	}
	if mock.AnswerReads != 0 {
		t.Fatal("expected no remote calls for an empty message list")
	}
}

func TestChatTravelInvalidJSONIsGenericFailure(t *testing.T) {
	srv, mock := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/chat-travel", strings.NewReader(`{"messages": [`))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Error hablando con el travel agent") {
		t.Fatalf("expected generic error message, got %s", w.Body.String())
	}
	if mock.AnswerReads != 0 {
		t.Fatal("expected no remote calls for an unparseable body")
	}
}
