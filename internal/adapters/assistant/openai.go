package assistant

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Maurosab10/sabmc-travel-agent-api/internal/domain"
)

// OpenAIClient implements domain.AssistantClient on the OpenAI Assistants
// API: threads, messages, runs and tool-output submission.
type OpenAIClient struct {
	client      *openai.Client
	assistantID string
}

func NewOpenAIClient(apiKey, assistantID string) *OpenAIClient {
	return &OpenAIClient{
		client:      openai.NewClient(apiKey),
		assistantID: assistantID,
	}
}

func (c *OpenAIClient) RetrieveThread(ctx context.Context, id domain.ThreadID) (*domain.Thread, error) {
	thread, err := c.client.RetrieveThread(ctx, string(id))
	if err != nil {
		return nil, fmt.Errorf("openai retrieve thread: %w", err)
	}
	return &domain.Thread{ID: domain.ThreadID(thread.ID)}, nil
}

func (c *OpenAIClient) CreateThread(ctx context.Context, seed []domain.ChatMessage) (*domain.Thread, error) {
	req := openai.ThreadRequest{
		Messages: make([]openai.ThreadMessage, 0, len(seed)),
	}
	for _, m := range seed {
		role := openai.ThreadMessageRoleUser
		if m.Role == domain.RoleAssistant {
			role = openai.ThreadMessageRoleAssistant
		}
		req.Messages = append(req.Messages, openai.ThreadMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	thread, err := c.client.CreateThread(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai create thread: %w", err)
	}
	return &domain.Thread{ID: domain.ThreadID(thread.ID)}, nil
}

func (c *OpenAIClient) AppendUserMessage(ctx context.Context, id domain.ThreadID, content string) error {
	_, err := c.client.CreateMessage(ctx, string(id), openai.MessageRequest{
		Role:    openai.ChatMessageRoleUser,
		Content: content,
	})
	if err != nil {
		return fmt.Errorf("openai create message: %w", err)
	}
	return nil
}

func (c *OpenAIClient) CreateRun(ctx context.Context, id domain.ThreadID) (*domain.Run, error) {
	run, err := c.client.CreateRun(ctx, string(id), openai.RunRequest{
		AssistantID: c.assistantID,
	})
	if err != nil {
		return nil, fmt.Errorf("openai create run: %w", err)
	}
	return toDomainRun(run), nil
}

func (c *OpenAIClient) RetrieveRun(ctx context.Context, threadID domain.ThreadID, runID domain.RunID) (*domain.Run, error) {
	run, err := c.client.RetrieveRun(ctx, string(threadID), string(runID))
	if err != nil {
		return nil, fmt.Errorf("openai retrieve run: %w", err)
	}
	return toDomainRun(run), nil
}

func (c *OpenAIClient) SubmitToolOutputs(
	ctx context.Context,
	threadID domain.ThreadID,
	runID domain.RunID,
	outputs []domain.ToolOutput,
) (*domain.Run, error) {
	req := openai.SubmitToolOutputsRequest{
		ToolOutputs: make([]openai.ToolOutput, 0, len(outputs)),
	}
	for _, o := range outputs {
		req.ToolOutputs = append(req.ToolOutputs, openai.ToolOutput{
			ToolCallID: o.ToolCallID,
			Output:     o.Output,
		})
	}

	run, err := c.client.SubmitToolOutputs(ctx, string(threadID), string(runID), req)
	if err != nil {
		return nil, fmt.Errorf("openai submit tool outputs: %w", err)
	}
	return toDomainRun(run), nil
}

// LatestAnswer lists the thread's messages (newest first per the API) and
// extracts the first text block of the newest one. No text content yields
// an empty answer, not an error.
func (c *OpenAIClient) LatestAnswer(ctx context.Context, id domain.ThreadID) (string, error) {
	list, err := c.client.ListMessage(ctx, string(id), nil, nil, nil, nil, nil)
	if err != nil {
		return "", fmt.Errorf("openai list messages: %w", err)
	}
	return newestAnswerText(list.Messages), nil
}

// newestAnswerText returns the first text block of the newest message.
// An empty thread or a newest message carrying only non-text content
// (image blocks) yields "".
func newestAnswerText(messages []openai.Message) string {
	if len(messages) == 0 {
		return ""
	}
	for _, content := range messages[0].Content {
		if content.Text != nil {
			return content.Text.Value
		}
	}
	return ""
}

func toDomainRun(run openai.Run) *domain.Run {
	out := &domain.Run{
		ID:       domain.RunID(run.ID),
		ThreadID: domain.ThreadID(run.ThreadID),
		Status:   domain.RunStatus(run.Status),
	}

	if run.RequiredAction == nil {
		return out
	}

	out.RequiredAction = domain.RequiredActionKind(run.RequiredAction.Type)
	if run.RequiredAction.SubmitToolOutputs == nil {
		return out
	}

	for _, tc := range run.RequiredAction.SubmitToolOutputs.ToolCalls {
		out.PendingToolCalls = append(out.PendingToolCalls, domain.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return out
}
