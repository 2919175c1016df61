package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Maurosab10/sabmc-travel-agent-api/internal/domain"
	"github.com/Maurosab10/sabmc-travel-agent-api/internal/observability"
)

// Dispatch resolves a batch of tool calls into the matching tool outputs,
// preserving order and the one-to-one identifier correspondence the remote
// service requires. It never fails the batch: unparseable arguments become
// empty arguments and unknown tool names get a sentinel output, so the run
// can always be unblocked.
func (r *Registry) Dispatch(ctx context.Context, calls []domain.ToolCall) []domain.ToolOutput {
	log := observability.LoggerFromContext(ctx)

	outputs := make([]domain.ToolOutput, 0, len(calls))
	for _, call := range calls {
		outputs = append(outputs, domain.ToolOutput{
			ToolCallID: call.ID,
			Output:     r.resolve(ctx, log, call),
		})
	}
	return outputs
}

func (r *Registry) resolve(ctx context.Context, log *slog.Logger, call domain.ToolCall) string {
	input := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &input); err != nil {
			log.Warn("unparseable tool arguments, treating as empty",
				"tool", call.Name,
				"tool_call_id", call.ID,
				"error", err)
			input = map[string]any{}
		}
	}

	tool, ok := r.Get(call.Name)
	if !ok {
		log.Warn("tool not implemented", "tool", call.Name, "tool_call_id", call.ID)
		return fmt.Sprintf(
			"La función %q no está implementada en el servidor. Responde usando solo conocimiento general.",
			call.Name,
		)
	}

	out, err := tool.Call(ctx, input)
	if err != nil {
		// Tools are expected to absorb their own failures; if one leaks an
		// error anyway, degrade to text so the batch still completes.
		log.Error("tool call failed", "tool", call.Name, "tool_call_id", call.ID, "error", err)
		return fmt.Sprintf(
			"La función %q falló en el servidor. Responde usando solo conocimiento general.",
			call.Name,
		)
	}
	return out
}
