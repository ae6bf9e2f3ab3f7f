package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/xpanvictor/lecturenotes/pkg/transcript"
)

type fakeGenerator struct {
	mu    sync.Mutex
	reqs  []Request
	reply func(Request) (*Response, error)
}

func (f *fakeGenerator) Generate(_ context.Context, req Request) (*Response, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	return f.reply(req)
}

func replyWith(text string) func(Request) (*Response, error) {
	return func(Request) (*Response, error) { return &Response{Text: text}, nil }
}

func TestSummarize(t *testing.T) {
	gen := &fakeGenerator{reply: replyWith("Entropy measures disorder. It always increases. ")}
	s := NewSummarizer(gen, DefaultSummaryOptions())

	input := strings.Repeat("a", 2000)
	got, err := s.Summarize(context.Background(), input)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	want := "### Summary\n- Entropy measures disorder\n- It always increases\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	req := gen.reqs[0]
	if req.Task != TaskSummarize || len(req.Input) != 1024 {
		t.Errorf("unexpected request task=%s len=%d", req.Task, len(req.Input))
	}
	if req.MaxLength != 200 || req.MinLength != 70 || !req.Deterministic {
		t.Errorf("unexpected bounds %+v", req)
	}
}

func TestSummarizeRejectsEmpty(t *testing.T) {
	gen := &fakeGenerator{reply: replyWith("unused")}
	_, err := NewSummarizer(gen, SummaryOptions{}).Summarize(context.Background(), "   ")
	if !errors.Is(err, transcript.ErrEmptyTranscript) {
		t.Errorf("expected ErrEmptyTranscript, got %v", err)
	}
	if len(gen.reqs) != 0 {
		t.Error("generator must not be called for an empty transcript")
	}
}

func TestSummarizeEmptyResponse(t *testing.T) {
	gen := &fakeGenerator{reply: replyWith("  ")}
	_, err := NewSummarizer(gen, SummaryOptions{}).Summarize(context.Background(), "Some lecture text.")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestSummarizeProviderError(t *testing.T) {
	boom := errors.New("rate limited")
	gen := &fakeGenerator{reply: func(Request) (*Response, error) { return nil, boom }}
	_, err := NewSummarizer(gen, SummaryOptions{}).Summarize(context.Background(), "Some lecture text.")
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped provider error, got %v", err)
	}
}

func TestQuestions(t *testing.T) {
	gen := &fakeGenerator{reply: replyWith("1. What is entropy? Why does it increase?")}
	q := NewQuestionGenerator(gen, QuestionOptions{})

	got, err := q.Questions(context.Background(), strings.Repeat("b", 900))
	if err != nil {
		t.Fatalf("Questions: %v", err)
	}
	want := "### Questions\n- What is entropy?\n- Why does it increase?\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	req := gen.reqs[0]
	if !strings.HasPrefix(req.Input, "highlight: ") {
		t.Errorf("missing highlight prefix: %q", req.Input[:20])
	}
	if len(req.Input) != len("highlight: ")+700 {
		t.Errorf("unexpected input length %d", len(req.Input))
	}
}

func TestFormatQuestionsDropsEmpty(t *testing.T) {
	if got := FormatQuestions("??  ?"); got != "### Questions\n" {
		t.Errorf("unexpected %q", got)
	}
}

func TestTranslateSkipsSameLanguage(t *testing.T) {
	gen := &fakeGenerator{reply: replyWith("unused")}
	tr := NewTranslator(gen, TranslateOptions{})

	for _, target := range []string{"", "en", "English", "en-US"} {
		got, err := tr.Translate(context.Background(), "Hello class.", "english", target)
		if err != nil || got != "Hello class." {
			t.Errorf("target %q: got %q, %v", target, got, err)
		}
	}
	if len(gen.reqs) != 0 {
		t.Errorf("expected no generator calls, got %d", len(gen.reqs))
	}
}

func TestTranslateChunksBySentence(t *testing.T) {
	gen := &fakeGenerator{reply: func(r Request) (*Response, error) {
		return &Response{Text: "[" + r.Language + "] " + r.Input}, nil
	}}
	tr := NewTranslator(gen, TranslateOptions{ChunkSize: 30})

	text := "First sentence here. Second sentence here. Third one."
	got, err := tr.Translate(context.Background(), text, "en", "FR")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(gen.reqs) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(gen.reqs))
	}
	want := "[fr] First sentence here. [fr] Second sentence here. [fr] Third one."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNormalizeLanguage(t *testing.T) {
	cases := map[string]string{
		"English": "en",
		" fr ":    "fr",
		"pt-BR":   "pt",
		"zh_CN":   "zh",
		"":        "",
	}
	for in, want := range cases {
		if got := NormalizeLanguage(in); got != want {
			t.Errorf("NormalizeLanguage(%q) = %q, want %q", in, got, want)
		}
	}
}
