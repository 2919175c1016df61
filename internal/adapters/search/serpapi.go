package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Maurosab10/sabmc-travel-agent-api/internal/observability"
)

const defaultBaseURL = "https://serpapi.com/search.json"

// maxDigestResults caps how many organic results go into the summary the
// assistant receives.
const maxDigestResults = 3

// SerpAPIClient implements domain.WebSearcher against SerpAPI.
// Search never returns an error: every failure mode becomes explanatory text
// so a pending tool call can always be answered.
type SerpAPIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewSerpAPIClient creates the client. An empty apiKey is allowed; Search
// then answers with its general-knowledge fallback instead of calling out.
func NewSerpAPIClient(apiKey string) *SerpAPIClient {
	return &SerpAPIClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type organicResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

type searchResponse struct {
	OrganicResults []organicResult `json:"organic_results"`
}

// Search runs one query and reduces the provider's JSON to a short digest.
func (c *SerpAPIClient) Search(ctx context.Context, query string) string {
	log := observability.LoggerFromContext(ctx).With("query", query)

	if c.apiKey == "" {
		log.Warn("search skipped: missing SERPAPI_API_KEY")
		return fmt.Sprintf(
			"No tengo acceso a búsqueda web en este momento, así que responderé sobre %q usando conocimiento general.",
			query,
		)
	}

	results, err := c.fetch(ctx, query)
	if err != nil {
		log.Error("search request failed", "error", err)
		var se *statusError
		if errors.As(err, &se) {
			return fmt.Sprintf(
				"La búsqueda web falló con estado %d. Trata mi respuesta como referencia general, no como datos actuales.",
				se.code,
			)
		}
		return fmt.Sprintf(
			"No pude completar la búsqueda web sobre %q. Trata mi respuesta como referencia general.",
			query,
		)
	}

	if len(results) == 0 {
		log.Info("search returned no organic results")
		return fmt.Sprintf(
			"No encontré resultados claros para %q, así que responderé con una recomendación general.",
			query,
		)
	}

	log.Info("search completed", "result_count", len(results))
	return digest(query, results)
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("serpapi returned status %d", e.code)
}

func (c *SerpAPIClient) fetch(ctx context.Context, query string) ([]organicResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building serpapi request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling serpapi: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding serpapi response: %w", err)
	}

	return body.OrganicResults, nil
}

// digest renders the first results in provider order: index, title, snippet
// and source link, blank-line separated under a header naming the query.
func digest(query string, results []organicResult) string {
	if len(results) > maxDigestResults {
		results = results[:maxDigestResults]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Resultados de búsqueda web para %q:\n", query)

	for i, r := range results {
		title := r.Title
		if title == "" {
			title = "(sin título)"
		}
		fmt.Fprintf(&b, "\n%d. %s\n%s\n%s\n", i+1, title, r.Snippet, r.Link)
	}

	return b.String()
}
