package assistant

import (
	"context"
	"fmt"
	"sync"

	"github.com/Maurosab10/sabmc-travel-agent-api/internal/domain"
)

// Mock is an in-memory assistant service for tests and local development.
// The zero value answers every run immediately with Answer; tests can queue
// explicit run states with ScriptRunStates to exercise the polling loop.
type Mock struct {
	mu sync.Mutex

	// Answer is returned by LatestAnswer for completed conversations.
	Answer string

	// Err, when set, is returned by every call.
	Err error

	threads    map[domain.ThreadID][]domain.ChatMessage
	nextThread int
	nextRun    int

	runStates map[domain.RunID][]domain.Run

	// scripted states consumed by the next CreateRun.
	pendingScript []domain.Run

	// Submitted records every tool-output batch, in submission order.
	Submitted [][]domain.ToolOutput

	// AnswerReads counts LatestAnswer calls.
	AnswerReads int
}

var _ domain.AssistantClient = (*Mock)(nil)

func NewMock() *Mock {
	return &Mock{
		Answer:    "Te escucho. Contame un poco más sobre tu viaje.",
		threads:   make(map[domain.ThreadID][]domain.ChatMessage),
		runStates: make(map[domain.RunID][]domain.Run),
	}
}

// ScriptRunStates queues the sequence of states the next created run will
// walk through: CreateRun returns the first, each RetrieveRun or
// SubmitToolOutputs pops the next, and the last state repeats.
func (m *Mock) ScriptRunStates(states ...domain.Run) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pendingScript = states
}

// SeededMessages returns the messages a thread was created with.
func (m *Mock) SeededMessages(id domain.ThreadID) []domain.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.threads[id]
}

func (m *Mock) RetrieveThread(_ context.Context, id domain.ThreadID) (*domain.Thread, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if _, ok := m.threads[id]; !ok {
		return nil, fmt.Errorf("thread %s not found", id)
	}
	return &domain.Thread{ID: id}, nil
}

func (m *Mock) CreateThread(_ context.Context, seed []domain.ChatMessage) (*domain.Thread, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	m.nextThread++
	id := domain.ThreadID(fmt.Sprintf("thread_mock_%d", m.nextThread))
	m.threads[id] = append([]domain.ChatMessage(nil), seed...)
	return &domain.Thread{ID: id}, nil
}

func (m *Mock) AppendUserMessage(_ context.Context, id domain.ThreadID, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.threads[id]; !ok {
		return fmt.Errorf("thread %s not found", id)
	}
	m.threads[id] = append(m.threads[id], domain.ChatMessage{Role: domain.RoleUser, Content: content})
	return nil
}

func (m *Mock) CreateRun(_ context.Context, id domain.ThreadID) (*domain.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	m.nextRun++
	runID := domain.RunID(fmt.Sprintf("run_mock_%d", m.nextRun))

	states := m.pendingScript
	m.pendingScript = nil
	if len(states) == 0 {
		states = []domain.Run{{Status: domain.RunStatusCompleted}}
	}
	for i := range states {
		states[i].ID = runID
		states[i].ThreadID = id
	}
	m.runStates[runID] = states

	first := states[0]
	return &first, nil
}

func (m *Mock) RetrieveRun(_ context.Context, _ domain.ThreadID, runID domain.RunID) (*domain.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	return m.advance(runID)
}

func (m *Mock) SubmitToolOutputs(
	_ context.Context,
	_ domain.ThreadID,
	runID domain.RunID,
	outputs []domain.ToolOutput,
) (*domain.Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	m.Submitted = append(m.Submitted, outputs)
	return m.advance(runID)
}

func (m *Mock) LatestAnswer(_ context.Context, id domain.ThreadID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AnswerReads++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Answer, nil
}

// advance pops the next scripted state; the final state repeats.
func (m *Mock) advance(runID domain.RunID) (*domain.Run, error) {
	states, ok := m.runStates[runID]
	if !ok {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if len(states) > 1 {
		states = states[1:]
		m.runStates[runID] = states
	}
	next := states[0]
	return &next, nil
}
