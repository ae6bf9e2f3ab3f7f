package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/xpanvictor/lecturenotes/pkg/transcript"
	"github.com/xpanvictor/lecturenotes/pkg/utils"
)

const (
	questionsInstruction = "Write short study questions about the highlighted lecture excerpt. " +
		"Reply with the questions only, each one ending with a question mark."
	highlightPrefix = "highlight: "
)

type QuestionOptions struct {
	Budget    int
	MaxLength int
}

func DefaultQuestionOptions() QuestionOptions {
	return QuestionOptions{Budget: 700, MaxLength: 256}
}

type QuestionGenerator struct {
	gen  Generator
	opts QuestionOptions
}

func NewQuestionGenerator(gen Generator, opts QuestionOptions) *QuestionGenerator {
	def := DefaultQuestionOptions()
	if opts.Budget <= 0 {
		opts.Budget = def.Budget
	}
	if opts.MaxLength <= 0 {
		opts.MaxLength = def.MaxLength
	}
	return &QuestionGenerator{gen: gen, opts: opts}
}

// Questions returns the questions section in markdown.
func (q *QuestionGenerator) Questions(ctx context.Context, text string) (string, error) {
	if transcript.IsBlank(text) {
		return "", transcript.ErrEmptyTranscript
	}
	resp, err := q.gen.Generate(ctx, Request{
		Task:          TaskQuestions,
		Instruction:   questionsInstruction,
		Input:         highlightPrefix + utils.Truncate(text, q.opts.Budget),
		MaxLength:     q.opts.MaxLength,
		Deterministic: true,
	})
	if err != nil {
		return "", fmt.Errorf("questions: %w", err)
	}
	if resp == nil || transcript.IsBlank(resp.Text) {
		return "", ErrEmptyResponse
	}
	return FormatQuestions(resp.Text), nil
}

// FormatQuestions splits on "?" and restores the mark on every bullet.
func FormatQuestions(raw string) string {
	var b strings.Builder
	b.WriteString("### Questions\n")
	for _, seg := range strings.Split(raw, "?") {
		seg = strings.TrimSpace(seg)
		seg = strings.TrimLeft(seg, "-*0123456789.) ")
		if seg == "" {
			continue
		}
		b.WriteString("- ")
		b.WriteString(seg)
		b.WriteString("?\n")
	}
	return b.String()
}
