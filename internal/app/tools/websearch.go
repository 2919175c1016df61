package tools

import (
	"context"

	"github.com/Maurosab10/sabmc-travel-agent-api/internal/domain"
)

// WebSearchToolName is the function name the assistant is configured with.
const WebSearchToolName = "web_search"

// WebSearchTool answers web_search tool calls through a WebSearcher.
// The searcher absorbs its own failures, so Call never returns an error.
type WebSearchTool struct {
	searcher domain.WebSearcher
}

func NewWebSearchTool(searcher domain.WebSearcher) *WebSearchTool {
	return &WebSearchTool{searcher: searcher}
}

func (t *WebSearchTool) Name() string {
	return WebSearchToolName
}

// Call extracts the query argument (empty string when absent) and returns
// the search digest as the tool output text.
func (t *WebSearchTool) Call(ctx context.Context, input map[string]any) (string, error) {
	query := ""
	if v, ok := input["query"].(string); ok {
		query = v
	}
	return t.searcher.Search(ctx, query), nil
}
