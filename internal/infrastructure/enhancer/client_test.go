package enhancer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func chatCompletion(content string) string {
	resp := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
	out, _ := json.Marshal(resp)
	return string(out)
}

func TestEnhanceParsesServiceResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Expected bearer auth, got %q", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatCompletion(`{"title":"Buy 2L of milk","description":"Whole milk","steps":["go to store"]}`)))
	}))
	defer srv.Close()

	client := NewClient(Config{URL: srv.URL, APIKey: "test-key"}, nil)

	enhancement, err := client.Enhance(context.Background(), "buy milk")
	if err != nil {
		t.Fatalf("Enhance returned error: %v", err)
	}
	if enhancement.Title != "Buy 2L of milk" {
		t.Errorf("Expected enhanced title, got %q", enhancement.Title)
	}
	if enhancement.Description != "Whole milk" {
		t.Errorf("Expected description, got %q", enhancement.Description)
	}
	if len(enhancement.Steps) != 1 || enhancement.Steps[0] != "go to store" {
		t.Errorf("Expected steps, got %v", enhancement.Steps)
	}
	if enhancement.Fallback {
		t.Error("Service results must not be flagged fallback")
	}
}

func TestEnhanceKeepsOriginalTitleWhenMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatCompletion(`{"description":"something"}`)))
	}))
	defer srv.Close()

	client := NewClient(Config{URL: srv.URL}, nil)

	enhancement, err := client.Enhance(context.Background(), "buy milk")
	if err != nil {
		t.Fatalf("Enhance returned error: %v", err)
	}
	if enhancement.Title != "buy milk" {
		t.Errorf("Expected original title to be kept, got %q", enhancement.Title)
	}
	if enhancement.Steps == nil {
		t.Error("Steps should be an empty slice, not nil")
	}
}

func TestEnhanceErrorsOnMalformedContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatCompletion("not json at all")))
	}))
	defer srv.Close()

	client := NewClient(Config{URL: srv.URL}, nil)

	if _, err := client.Enhance(context.Background(), "buy milk"); err == nil {
		t.Fatal("Expected error for malformed content")
	}
}

func TestEnhanceErrorsOnServiceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(Config{URL: srv.URL}, nil)

	if _, err := client.Enhance(context.Background(), "buy milk"); err == nil {
		t.Fatal("Expected error for 500 response")
	}
}

func TestEnhanceRespectsContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(chatCompletion(`{"title":"late"}`)))
	}))
	defer srv.Close()

	client := NewClient(Config{URL: srv.URL}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := client.Enhance(ctx, "buy milk"); err == nil {
		t.Fatal("Expected timeout error")
	}
}
