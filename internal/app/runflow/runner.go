package runflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Maurosab10/sabmc-travel-agent-api/internal/app/tools"
	"github.com/Maurosab10/sabmc-travel-agent-api/internal/domain"
	"github.com/Maurosab10/sabmc-travel-agent-api/internal/observability"
)

const (
	defaultPollInterval = 1500 * time.Millisecond

	// maxUnknownActionPolls bounds how often we re-poll a run that is stuck
	// in requires_action with an action kind we cannot resolve. Without the
	// bound the loop would spin forever, since the status never changes on
	// its own.
	maxUnknownActionPolls = 3
)

// ErrRunNotCompleted marks a run that reached a terminal state other than
// completed. The handler maps it to its assistant-failure message instead of
// the generic transport error.
type ErrRunNotCompleted struct {
	Status domain.RunStatus
}

func (e *ErrRunNotCompleted) Error() string {
	return fmt.Sprintf("assistant run ended with status %q", e.Status)
}

// Runner owns the lifecycle of one assistant invocation: create the run,
// poll until terminal, and resolve tool-output pauses through the registry.
type Runner struct {
	assistant domain.AssistantClient
	registry  *tools.Registry

	pollInterval time.Duration

	// maxWait bounds the whole run wall-clock; zero means no bound beyond
	// the caller's context.
	maxWait time.Duration
}

func NewRunner(assistant domain.AssistantClient, registry *tools.Registry) *Runner {
	return &Runner{
		assistant:    assistant,
		registry:     registry,
		pollInterval: defaultPollInterval,
	}
}

// WithPollInterval overrides the fixed backoff between run polls.
func (r *Runner) WithPollInterval(d time.Duration) *Runner {
	r.pollInterval = d
	return r
}

// WithMaxWait bounds how long Execute may take overall.
func (r *Runner) WithMaxWait(d time.Duration) *Runner {
	r.maxWait = d
	return r
}

// Execute drives a run over the thread to a terminal state. It returns nil
// only when the run completed; any other terminal status yields
// *ErrRunNotCompleted, and transport errors surface immediately without
// retries.
func (r *Runner) Execute(ctx context.Context, threadID domain.ThreadID) error {
	if r.maxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.maxWait)
		defer cancel()
	}

	log := observability.LoggerFromContext(ctx).With("thread_id", threadID)
	start := time.Now()

	run, err := r.assistant.CreateRun(ctx, threadID)
	if err != nil {
		log.Error("failed to create run", "error", err)
		return fmt.Errorf("creating run: %w", err)
	}

	log = log.With("run_id", run.ID)
	log.Info("run created", "status", run.Status)

	unknownActionPolls := 0

	for !run.Status.Terminal() {
		if run.Status == domain.RunStatusRequiresAction &&
			run.RequiredAction == domain.RequiredActionSubmitToolOutputs {

			run, err = r.resolveToolCalls(ctx, log, run)
			if err != nil {
				return err
			}
			unknownActionPolls = 0
			continue
		}

		if run.Status == domain.RunStatusRequiresAction {
			// An action kind we do not know how to satisfy: the status will
			// never move on its own, so give it a few polls and fail.
			unknownActionPolls++
			log.Warn("run paused on unrecognized required action",
				"action", run.RequiredAction,
				"polls", unknownActionPolls)
			if unknownActionPolls >= maxUnknownActionPolls {
				return fmt.Errorf("run %s requires unsupported action %q", run.ID, run.RequiredAction)
			}
		}

		if err := sleep(ctx, r.pollInterval); err != nil {
			return err
		}

		run, err = r.assistant.RetrieveRun(ctx, threadID, run.ID)
		if err != nil {
			log.Error("failed to retrieve run", "error", err)
			return fmt.Errorf("retrieving run: %w", err)
		}
	}

	log.Info("run finished",
		"status", run.Status,
		"elapsed_ms", time.Since(start).Milliseconds())

	if run.Status != domain.RunStatusCompleted {
		return &ErrRunNotCompleted{Status: run.Status}
	}
	return nil
}

// resolveToolCalls dispatches every pending tool call and submits the batch
// back in one request, adopting the run state the service returns.
func (r *Runner) resolveToolCalls(ctx context.Context, log *slog.Logger, run *domain.Run) (*domain.Run, error) {
	log.Info("run requires tool outputs", "tool_calls", len(run.PendingToolCalls))

	outputs := r.registry.Dispatch(ctx, run.PendingToolCalls)

	next, err := r.assistant.SubmitToolOutputs(ctx, run.ThreadID, run.ID, outputs)
	if err != nil {
		log.Error("failed to submit tool outputs", "error", err)
		return nil, fmt.Errorf("submitting tool outputs: %w", err)
	}

	log.Info("tool outputs submitted", "status", next.Status)
	return next, nil
}

// sleep waits the poll interval without ignoring cancellation.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
