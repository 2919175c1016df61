package config

import (
	"errors"
	"os"
)

type Config struct {
	Port string

	OpenAIAPIKey string
	AssistantID  string

	// SerpAPIKey is optional: without it the search tool degrades to its
	// general-knowledge fallback text instead of failing requests.
	SerpAPIKey string

	UseMockAssistant bool
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

// Load reads all env vars and builds the config. It does not validate;
// the process stays up with broken config and the handler reports missing
// mandatory values as a 500 on each request.
func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		AssistantID:  getEnv("ASSISTANT_ID", ""),
		SerpAPIKey:   getEnv("SERPAPI_API_KEY", ""),

		UseMockAssistant: getBoolEnv("TRAVEL_USE_MOCK_ASSISTANT", false),
	}
}

// Validate reports the first missing mandatory value. The message is shown
// to API callers verbatim, so it stays in the product's voice.
func (c *Config) Validate() error {
	if c.UseMockAssistant {
		return nil
	}
	if c.OpenAIAPIKey == "" {
		return errors.New("Configuración del servidor incompleta: falta OPENAI_API_KEY")
	}
	if c.AssistantID == "" {
		return errors.New("Configuración del servidor incompleta: falta ASSISTANT_ID")
	}
	return nil
}
