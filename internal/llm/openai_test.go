package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/sashabaranov/go-openai"
)

func newOpenAITestProvider(t *testing.T, url string) *OpenAIProvider {
	t.Helper()
	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: url, Timeout: 5}, logr.Discard())
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	return provider
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIProvider(Config{}, logr.Discard()); err == nil {
		t.Error("Expected error without API key")
	}
}

func TestOpenAIProvider_Narrate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != openai.ChatMessageRoleSystem {
			t.Errorf("Expected system and user messages, got %+v", req.Messages)
		}

		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID:    "chatcmpl-123",
			Model: "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{{
				Message:      openai.ChatCompletionMessage{Role: "assistant", Content: "  68 records in total.  "},
				FinishReason: "stop",
			}},
			Usage: openai.Usage{TotalTokens: 100},
		})
	}))
	defer server.Close()

	provider := newOpenAITestProvider(t, server.URL)
	resp, err := provider.Narrate(context.Background(), NarrateRequest{Report: sampleReport()})
	if err != nil {
		t.Fatalf("Narrate failed: %v", err)
	}
	if resp.Text != "68 records in total." {
		t.Errorf("Unexpected text: %q", resp.Text)
	}
	if resp.Model != openai.GPT4oMini {
		t.Errorf("Expected default model, got %s", resp.Model)
	}
	if resp.TokensUsed != 100 {
		t.Errorf("Expected 100 tokens, got %d", resp.TokensUsed)
	}
}

func TestOpenAIProvider_Narrate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "Internal Server Error", "type": "server_error"}}`))
	}))
	defer server.Close()

	provider := newOpenAITestProvider(t, server.URL)
	if _, err := provider.Narrate(context.Background(), NarrateRequest{Report: sampleReport()}); err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestOpenAIProvider_Narrate_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{ID: "chatcmpl-1"})
	}))
	defer server.Close()

	provider := newOpenAITestProvider(t, server.URL)
	if _, err := provider.Narrate(context.Background(), NarrateRequest{Report: sampleReport()}); err == nil {
		t.Fatal("Expected error for empty choices")
	}
}

func TestOpenAIProvider_Narrate_ContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider := newOpenAITestProvider(t, server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := provider.Narrate(ctx, NarrateRequest{Report: sampleReport()}); err == nil {
		t.Fatal("Expected timeout error, got nil")
	}
}

func TestOpenAIProvider_IsAvailable(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(int(status.Load()))
		if status.Load() == http.StatusOK {
			_, _ = w.Write([]byte(`{"data": [{"id": "gpt-4o-mini"}]}`))
		}
	}))
	defer server.Close()

	provider := newOpenAITestProvider(t, server.URL)
	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be true")
	}

	status.Store(http.StatusInternalServerError)
	if provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be false on error")
	}
}
