package domain

type ThreadID string
type RunID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn as the client sends it. The full history lives in
// the remote thread; we only carry what the current request brought in.
type ChatMessage struct {
	Role    Role
	Content string
}

// Thread references a conversation held by the remote assistant service.
// We never hold the message history locally, only the identifier.
type Thread struct {
	ID ThreadID
}

type RunStatus string

const (
	RunStatusQueued         RunStatus = "queued"
	RunStatusInProgress     RunStatus = "in_progress"
	RunStatusRequiresAction RunStatus = "requires_action"
	RunStatusCompleted      RunStatus = "completed"
	RunStatusFailed         RunStatus = "failed"
	RunStatusCancelled      RunStatus = "cancelled"
	RunStatusExpired        RunStatus = "expired"
)

// Terminal reports whether the run can make no further progress.
func (s RunStatus) Terminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusFailed, RunStatusCancelled, RunStatusExpired:
		return true
	}
	return false
}

// RequiredActionKind names what a paused run is waiting for. The only kind
// this server knows how to resolve is submit_tool_outputs.
type RequiredActionKind string

const RequiredActionSubmitToolOutputs RequiredActionKind = "submit_tool_outputs"

// Run is a single assistant computation over a thread. PendingToolCalls is
// populated only while Status is requires_action.
type Run struct {
	ID               RunID
	ThreadID         ThreadID
	Status           RunStatus
	RequiredAction   RequiredActionKind
	PendingToolCalls []ToolCall
}

// ToolCall is the assistant asking us to execute a function locally.
// Arguments is the raw JSON string exactly as the remote service sent it.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolOutput unblocks a paused run; ToolCallID must match the originating call.
type ToolOutput struct {
	ToolCallID string
	Output     string
}
