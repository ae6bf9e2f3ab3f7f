package router

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/xpanvictor/lecturenotes/pkg/assistant"
)

type namedGenerator struct {
	text  string
	err   error
	calls int
}

func (g *namedGenerator) Generate(_ context.Context, _ assistant.Request) (*assistant.Response, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return &assistant.Response{Text: g.text, Model: "m"}, nil
}

func TestMuxRoutesByTask(t *testing.T) {
	hf := &namedGenerator{text: "from hf"}
	llm := &namedGenerator{text: "from llm"}
	mux := New(map[string]assistant.Generator{"huggingface": hf, "openai": llm},
		&TaskPolicy{
			Routes:  map[assistant.Task]string{assistant.TaskSummarize: "huggingface"},
			Default: "openai",
		}, nil)

	resp, err := mux.Generate(context.Background(), assistant.Request{Task: assistant.TaskSummarize})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Text != "from hf" || resp.Provider != "huggingface" {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be stamped")
	}

	resp, err = mux.Generate(context.Background(), assistant.Request{Task: assistant.TaskQuestions})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Provider != "openai" {
		t.Errorf("expected default provider, got %q", resp.Provider)
	}
	if hf.calls != 1 || llm.calls != 1 {
		t.Errorf("unexpected call counts hf=%d llm=%d", hf.calls, llm.calls)
	}
}

func TestMuxUnknownProvider(t *testing.T) {
	mux := New(map[string]assistant.Generator{"openai": &namedGenerator{}},
		&TaskPolicy{Default: "gemini"}, nil)
	_, err := mux.Generate(context.Background(), assistant.Request{Task: assistant.TaskTranslate})
	if !errors.Is(err, assistant.ErrNoProvider) {
		t.Errorf("expected ErrNoProvider, got %v", err)
	}
}

func TestMuxPropagatesErrors(t *testing.T) {
	boom := errors.New("upstream down")
	mux := New(map[string]assistant.Generator{"openai": &namedGenerator{err: boom}},
		&TaskPolicy{Default: "openai"}, nil)
	if _, err := mux.Generate(context.Background(), assistant.Request{}); !errors.Is(err, boom) {
		t.Errorf("expected upstream error, got %v", err)
	}
}

func TestMuxNames(t *testing.T) {
	mux := New(map[string]assistant.Generator{
		"openai": &namedGenerator{}, "gemini": &namedGenerator{}, "skipped": nil,
	}, &TaskPolicy{}, nil)
	if got := mux.Names(); !reflect.DeepEqual(got, []string{"gemini", "openai"}) {
		t.Errorf("unexpected names %v", got)
	}
}
