package adapters

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"verse-scene-api/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string)                                           {}
func (nopLogger) InfoWithFields(string, map[string]interface{})         {}
func (nopLogger) Error(error, string)                                   {}
func (nopLogger) ErrorWithFields(error, string, map[string]interface{}) {}
func (nopLogger) Debug(string)                                          {}
func (nopLogger) Warn(string)                                           {}

func fetchFrom(t *testing.T, handler http.HandlerFunc) ([]byte, error) {
	t.Helper()
	server := httptest.NewServer(handler)
	defer server.Close()

	req, err := http.NewRequest("GET", server.URL+"/resource", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	return NewContentFetcher(nopLogger{}, 100).FetchContent(req)
}

func TestFetchContentSuccess(t *testing.T) {
	payload, err := fetchFrom(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello"))
	})
	if err != nil {
		t.Fatalf("FetchContent: %v", err)
	}
	if !bytes.Equal(payload, []byte("hello")) {
		t.Errorf("payload: got %q", payload)
	}
}

func TestFetchContentNotFound(t *testing.T) {
	_, err := fetchFrom(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	if !errors.Is(err, domain.ErrStatusNotFound) {
		t.Errorf("404: got %v, want ErrStatusNotFound", err)
	}
}

func TestFetchContentServerErrorIsCommunicationFailure(t *testing.T) {
	_, err := fetchFrom(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	var comm *domain.CommunicationError
	if !errors.As(err, &comm) {
		t.Errorf("503: got %T (%v), want CommunicationError", err, err)
	}
}

func TestFetchContentClientErrorIsGenerationFailure(t *testing.T) {
	_, err := fetchFrom(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad prompt", http.StatusBadRequest)
	})

	var gen *domain.GenerationError
	if !errors.As(err, &gen) {
		t.Errorf("400: got %T (%v), want GenerationError", err, err)
	}
}

func TestFetchContentTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	serverURL := server.URL
	server.Close()

	req, err := http.NewRequest("GET", serverURL, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	_, err = NewContentFetcher(nopLogger{}, 100).FetchContent(req)

	var comm *domain.CommunicationError
	if !errors.As(err, &comm) {
		t.Errorf("dead server: got %T (%v), want CommunicationError", err, err)
	}
}
