package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/Maurosab10/sabmc-travel-agent-api/internal/app/runflow"
	"github.com/Maurosab10/sabmc-travel-agent-api/internal/domain"
	"github.com/Maurosab10/sabmc-travel-agent-api/internal/observability"
)

// Service resolves the conversation thread, drives the assistant run over
// it, and reads back the newest answer.
type Service struct {
	assistant domain.AssistantClient
	runner    *runflow.Runner
}

func NewService(assistant domain.AssistantClient, runner *runflow.Runner) *Service {
	return &Service{
		assistant: assistant,
		runner:    runner,
	}
}

type ChatInput struct {
	// ThreadID is empty for a brand-new conversation.
	ThreadID string
	Messages []domain.ChatMessage
}

type ChatOutput struct {
	ThreadID string
	Answer   string
}

// Chat relays one conversation turn: resolve or create the thread, run the
// assistant to completion, and extract the newest answer text.
func (s *Service) Chat(ctx context.Context, in ChatInput) (*ChatOutput, error) {
	if len(in.Messages) == 0 {
		return nil, errors.New("messages must not be empty")
	}

	log := observability.LoggerFromContext(ctx).With("thread_id", in.ThreadID)
	log.Info("chat turn started", "message_count", len(in.Messages))

	thread, err := s.resolveThread(ctx, in)
	if err != nil {
		log.Error("failed to resolve thread", "error", err)
		return nil, err
	}

	if err := s.runner.Execute(ctx, thread.ID); err != nil {
		return nil, err
	}

	answer, err := s.assistant.LatestAnswer(ctx, thread.ID)
	if err != nil {
		log.Error("failed to read answer", "error", err)
		return nil, fmt.Errorf("reading answer: %w", err)
	}

	log.Info("chat turn completed", "thread_id", thread.ID)

	return &ChatOutput{
		ThreadID: string(thread.ID),
		Answer:   answer,
	}, nil
}

// resolveThread reuses an existing thread, appending only the newest user
// turn (earlier ones are already in the remote history), or creates a new
// thread seeded with the full incoming message list.
func (s *Service) resolveThread(ctx context.Context, in ChatInput) (*domain.Thread, error) {
	if in.ThreadID != "" {
		thread, err := s.assistant.RetrieveThread(ctx, domain.ThreadID(in.ThreadID))
		if err != nil {
			return nil, fmt.Errorf("retrieving thread: %w", err)
		}

		last := in.Messages[len(in.Messages)-1]
		if err := s.assistant.AppendUserMessage(ctx, thread.ID, last.Content); err != nil {
			return nil, fmt.Errorf("appending message: %w", err)
		}
		return thread, nil
	}

	thread, err := s.assistant.CreateThread(ctx, in.Messages)
	if err != nil {
		return nil, fmt.Errorf("creating thread: %w", err)
	}
	return thread, nil
}
