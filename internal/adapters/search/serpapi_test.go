package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, apiKey string, handler http.HandlerFunc) *SerpAPIClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewSerpAPIClient(apiKey)
	c.baseURL = srv.URL
	return c
}

func TestSearchWithoutCredential(t *testing.T) {
	c := NewSerpAPIClient("")

	got := c.Search(context.Background(), "vuelos baratos a Madrid")

	if got == "" {
		t.Fatal("expected fallback text, got empty string")
	}
	if !strings.Contains(got, "conocimiento general") {
		t.Fatalf("expected general-knowledge fallback, got %q", got)
	}
	if !strings.Contains(got, "vuelos baratos a Madrid") {
		t.Fatalf("expected fallback to echo the query, got %q", got)
	}
}

func TestSearchHTTPFailure(t *testing.T) {
	c := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	got := c.Search(context.Background(), "hoteles en Roma")

	if !strings.Contains(got, "429") {
		t.Fatalf("expected fallback to cite status code 429, got %q", got)
	}
	if !strings.Contains(got, "referencia general") {
		t.Fatalf("expected general-reference wording, got %q", got)
	}
}

func TestSearchEmptyResults(t *testing.T) {
	c := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"organic_results": []}`))
	})

	got := c.Search(context.Background(), "playas secretas")

	if !strings.Contains(got, "No encontré resultados claros") {
		t.Fatalf("expected no-results fallback, got %q", got)
	}
}

func TestSearchDigestCapsAtThreeResults(t *testing.T) {
	body := `{"organic_results": [
		{"title": "Guía de Madrid", "snippet": "Qué ver en Madrid", "link": "https://example.com/madrid"},
		{"title": "", "snippet": "Segundo resultado", "link": "https://example.com/dos"},
		{"title": "Tercero", "snippet": "", "link": ""},
		{"title": "Cuarto que no debe aparecer", "snippet": "x", "link": "https://example.com/cuatro"}
	]}`

	c := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "viajar a Madrid" {
			t.Errorf("expected query param q=%q, got %q", "viajar a Madrid", got)
		}
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Errorf("expected api_key param, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})

	got := c.Search(context.Background(), "viajar a Madrid")

	for _, want := range []string{
		`"viajar a Madrid"`,
		"1. Guía de Madrid",
		"Qué ver en Madrid",
		"https://example.com/madrid",
		"2. (sin título)",
		"3. Tercero",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("digest missing %q:\n%s", want, got)
		}
	}

	if strings.Contains(got, "Cuarto que no debe aparecer") {
		t.Fatalf("digest should only contain the first 3 results:\n%s", got)
	}
}

func TestSearchMalformedBody(t *testing.T) {
	c := newTestClient(t, "test-key", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	got := c.Search(context.Background(), "ruta por la Toscana")

	if got == "" {
		t.Fatal("expected fallback text, got empty string")
	}
	if !strings.Contains(got, "referencia general") {
		t.Fatalf("expected general-reference fallback, got %q", got)
	}
}
