package main

import (
	"log"
	"net/http"

	"github.com/Maurosab10/sabmc-travel-agent-api/internal/adapters/assistant"
	httpadapter "github.com/Maurosab10/sabmc-travel-agent-api/internal/adapters/http"
	"github.com/Maurosab10/sabmc-travel-agent-api/internal/adapters/search"
	"github.com/Maurosab10/sabmc-travel-agent-api/internal/app/conversation"
	"github.com/Maurosab10/sabmc-travel-agent-api/internal/app/runflow"
	"github.com/Maurosab10/sabmc-travel-agent-api/internal/app/tools"
	"github.com/Maurosab10/sabmc-travel-agent-api/internal/config"
	"github.com/Maurosab10/sabmc-travel-agent-api/internal/domain"
)

func main() {
	cfg := config.Load()

	// A missing assistant credential does not kill the process: the handler
	// answers 500 with the configuration error on each request.
	cfgErr := cfg.Validate()
	if cfgErr != nil {
		log.Printf("[CONFIG] %v", cfgErr)
	}

	var assistantClient domain.AssistantClient
	if cfg.UseMockAssistant {
		log.Println("[ASSISTANT] Using MOCK assistant client")
		assistantClient = assistant.NewMock()
	} else {
		log.Println("[ASSISTANT] Using OpenAI assistant client")
		assistantClient = assistant.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.AssistantID)
	}

	// A missing search key only degrades the web_search tool to its
	// general-knowledge fallback text.
	if cfg.SerpAPIKey == "" {
		log.Println("[SEARCH] SERPAPI_API_KEY not set; web_search will fall back to general knowledge")
	}
	searcher := search.NewSerpAPIClient(cfg.SerpAPIKey)

	registry := tools.NewRegistry()
	if err := registry.Register(tools.NewWebSearchTool(searcher)); err != nil {
		log.Fatalf("error registering web_search tool: %v", err)
	}

	runner := runflow.NewRunner(assistantClient, registry)
	svc := conversation.NewService(assistantClient, runner)

	handler := httpadapter.NewServer(svc, cfgErr)

	port := ":" + cfg.Port
	log.Println("Travel agent API listening on port:", port)
	if err := http.ListenAndServe(port, handler); err != nil {
		log.Fatal(err)
	}
}
