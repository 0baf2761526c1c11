package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"verse-scene-api/config"
	"verse-scene-api/domain"
)

func newVerseServer(t *testing.T, hits *int, verses map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		reference := r.URL.Query().Get("reference")
		text, ok := verses[reference]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(verseApiResponse{Reference: reference, Text: text})
	}))
}

func TestVerseFetchAndMemoize(t *testing.T) {
	hits := 0
	server := newVerseServer(t, &hits, map[string]string{
		"John 3:16": "Porque Deus amou o mundo de tal maneira...",
	})
	defer server.Close()

	fetcher := NewVerseTextFetcher(NewContentFetcher(nopLogger{}, 100), &config.VerseConfig{
		ApiUrl:          server.URL,
		ApiKey:          "test-key",
		CacheTtlMinutes: 5,
	}, nopLogger{})

	for i := 0; i < 3; i++ {
		text, err := fetcher.Fetch(context.Background(), "John 3:16", "pt-BR")
		if err != nil {
			t.Fatalf("Fetch #%d: %v", i, err)
		}
		if text == "" {
			t.Fatalf("Fetch #%d returned empty text", i)
		}
	}

	if hits != 1 {
		t.Errorf("upstream hits: got %d, want 1 (responses are memoized)", hits)
	}
}

func TestVerseFetchDistinguishesLanguages(t *testing.T) {
	hits := 0
	server := newVerseServer(t, &hits, map[string]string{
		"John 3:16": "For God so loved the world...",
	})
	defer server.Close()

	fetcher := NewVerseTextFetcher(NewContentFetcher(nopLogger{}, 100), &config.VerseConfig{
		ApiUrl:          server.URL,
		ApiKey:          "test-key",
		CacheTtlMinutes: 5,
	}, nopLogger{})

	if _, err := fetcher.Fetch(context.Background(), "John 3:16", "en-US"); err != nil {
		t.Fatalf("Fetch en-US: %v", err)
	}
	if _, err := fetcher.Fetch(context.Background(), "John 3:16", "pt-BR"); err != nil {
		t.Fatalf("Fetch pt-BR: %v", err)
	}

	if hits != 2 {
		t.Errorf("upstream hits: got %d, want 2 (cache key includes the language)", hits)
	}
}

func TestVerseFetchNotFound(t *testing.T) {
	hits := 0
	server := newVerseServer(t, &hits, nil)
	defer server.Close()

	fetcher := NewVerseTextFetcher(NewContentFetcher(nopLogger{}, 100), &config.VerseConfig{
		ApiUrl:          server.URL,
		ApiKey:          "test-key",
		CacheTtlMinutes: 5,
	}, nopLogger{})

	_, err := fetcher.Fetch(context.Background(), "John 99:99", "pt-BR")
	if !errors.Is(err, domain.ErrStatusNotFound) {
		t.Errorf("got %v, want ErrStatusNotFound", err)
	}
}

func TestVerseFetchEmptyTextIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(verseApiResponse{Reference: "John 3:16"})
	}))
	defer server.Close()

	fetcher := NewVerseTextFetcher(NewContentFetcher(nopLogger{}, 100), &config.VerseConfig{
		ApiUrl:          server.URL,
		ApiKey:          "test-key",
		CacheTtlMinutes: 5,
	}, nopLogger{})

	_, err := fetcher.Fetch(context.Background(), "John 3:16", "pt-BR")

	var notFound *domain.VerseNotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("got %v, want VerseNotFoundError", err)
	}
}
