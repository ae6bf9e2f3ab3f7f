package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xpanvictor/lecturenotes/pkg/assistant"
)

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-4o-mini",
  "choices": [{"index": 0, "finish_reason": "stop",
    "message": {"role": "assistant", "content": "Entropy measures disorder."}}]
}`

func TestGenerate(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected authorization %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, completionBody)
	}))
	defer server.Close()

	p, err := New(Config{APIKey: "sk-test", BaseURL: server.URL, Model: "gpt-4o-mini"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	resp, err := p.Generate(context.Background(), assistant.Request{
		Task:          assistant.TaskSummarize,
		Instruction:   "Summarize.",
		Input:         "Long lecture.",
		MaxLength:     200,
		Deterministic: true,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Text != "Entropy measures disorder." || resp.Model != "gpt-4o-mini" {
		t.Errorf("unexpected response %+v", resp)
	}

	if body["model"] != "gpt-4o-mini" {
		t.Errorf("unexpected model %v", body["model"])
	}
	if body["temperature"] != float64(0) {
		t.Errorf("expected temperature 0, got %v", body["temperature"])
	}
	if body["max_completion_tokens"] != float64(200) {
		t.Errorf("unexpected max tokens %v", body["max_completion_tokens"])
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system and user messages, got %v", body["messages"])
	}
}

func TestGenerateEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`)
	}))
	defer server.Close()

	p, _ := New(Config{APIKey: "sk-test", BaseURL: server.URL})
	_, err := p.Generate(context.Background(), assistant.Request{Input: "x"})
	if !errors.Is(err, assistant.ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestNewRequiresKey(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error without API key")
	}
}
