package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"BizEdu-Agent/internal/llm"
)

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatalf("expected error when api key is missing")
	}

	client, err := NewClient(Config{APIKey: "test", BaseURL: "https://example.com/v1/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.baseURL != "https://example.com/v1" {
		t.Fatalf("trailing slash not trimmed: %q", client.baseURL)
	}
	if client.Model() != defaultModelName {
		t.Fatalf("unexpected default model: %q", client.Model())
	}
}

func TestCompleteSuccess(t *testing.T) {
	var captured struct {
		Path          string
		Authorization string
		Body          map[string]any
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Path = r.URL.Path
		captured.Authorization = r.Header.Get("Authorization")
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&captured.Body); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model": "gpt-4o-mini-2024",
			"choices": []map[string]any{
				{"message": map[string]any{"content": ` {"title":"NPV"} `}},
			},
		})
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "test", BaseURL: srv.URL + "/v1", Timeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	client.httpClient = srv.Client()

	resp, err := client.Complete(context.Background(), llm.Request{System: "tutor", Prompt: "explain NPV", JSON: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Content != `{"title":"NPV"}` || resp.Model != "gpt-4o-mini-2024" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if captured.Path != "/v1/chat/completions" {
		t.Fatalf("unexpected path: %q", captured.Path)
	}
	if !strings.HasPrefix(captured.Authorization, "Bearer ") {
		t.Fatalf("authorization header missing: %q", captured.Authorization)
	}
	format, ok := captured.Body["response_format"].(map[string]any)
	if !ok || format["type"] != "json_object" {
		t.Fatalf("json response format missing: %+v", captured.Body)
	}
	messages, ok := captured.Body["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("expected system and user messages: %+v", captured.Body["messages"])
	}
}

func TestCompleteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "test", BaseURL: srv.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	client.httpClient = srv.Client()

	_, err = client.Complete(context.Background(), llm.Request{Prompt: "hello"})
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "test", BaseURL: srv.URL, Timeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	client.httpClient = srv.Client()

	if _, err := client.Complete(context.Background(), llm.Request{Prompt: "hello"}); err == nil {
		t.Fatalf("expected error for empty choices")
	}
	if _, err := client.Complete(context.Background(), llm.Request{}); err == nil {
		t.Fatalf("expected error for empty prompt")
	}
}
