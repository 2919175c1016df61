package domain

import "context"

// AssistantClient defines how the core application talks to the remote
// assistant service. Threads and runs live on the remote side; this port
// only moves identifiers and the newest answer across.
type AssistantClient interface {
	// RetrieveThread checks the thread exists and returns it.
	RetrieveThread(ctx context.Context, id ThreadID) (*Thread, error)

	// CreateThread creates a new thread seeded with the given messages,
	// preserving role and order.
	CreateThread(ctx context.Context, seed []ChatMessage) (*Thread, error)

	// AppendUserMessage adds one user turn to an existing thread.
	AppendUserMessage(ctx context.Context, id ThreadID, content string) error

	// CreateRun starts an assistant computation over the thread using the
	// configured assistant identity.
	CreateRun(ctx context.Context, id ThreadID) (*Run, error)

	// RetrieveRun re-fetches the current state of a run.
	RetrieveRun(ctx context.Context, threadID ThreadID, runID RunID) (*Run, error)

	// SubmitToolOutputs sends the batch of tool results back to a paused run
	// and returns the run's post-submission state.
	SubmitToolOutputs(ctx context.Context, threadID ThreadID, runID RunID, outputs []ToolOutput) (*Run, error)

	// LatestAnswer returns the text of the newest assistant message in the
	// thread. A newest message with no text content yields "" without error.
	LatestAnswer(ctx context.Context, id ThreadID) (string, error)
}

// WebSearcher turns a query into a short human-readable digest. It never
// fails: credential, transport and empty-result problems all degrade to an
// explanatory sentence so a pending tool call can always be answered.
type WebSearcher interface {
	Search(ctx context.Context, query string) string
}
