package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/xpanvictor/lecturenotes/pkg/transcript"
	"github.com/xpanvictor/lecturenotes/pkg/utils"
)

const summaryInstruction = "Summarize the following lecture transcript for a student. " +
	"Write plain sentences separated by periods, without headings or bullet points."

type SummaryOptions struct {
	// Budget is how many characters of the transcript reach the model.
	Budget    int
	MaxLength int
	MinLength int
}

func DefaultSummaryOptions() SummaryOptions {
	return SummaryOptions{Budget: 1024, MaxLength: 200, MinLength: 70}
}

type Summarizer struct {
	gen  Generator
	opts SummaryOptions
}

func NewSummarizer(gen Generator, opts SummaryOptions) *Summarizer {
	def := DefaultSummaryOptions()
	if opts.Budget <= 0 {
		opts.Budget = def.Budget
	}
	if opts.MaxLength <= 0 {
		opts.MaxLength = def.MaxLength
	}
	if opts.MinLength < 0 || opts.MinLength > opts.MaxLength {
		opts.MinLength = 0
	}
	return &Summarizer{gen: gen, opts: opts}
}

// Summarize returns the summary section in markdown.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	if transcript.IsBlank(text) {
		return "", transcript.ErrEmptyTranscript
	}
	resp, err := s.gen.Generate(ctx, Request{
		Task:          TaskSummarize,
		Instruction:   summaryInstruction,
		Input:         utils.Truncate(text, s.opts.Budget),
		MaxLength:     s.opts.MaxLength,
		MinLength:     s.opts.MinLength,
		Deterministic: true,
	})
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	if resp == nil || transcript.IsBlank(resp.Text) {
		return "", ErrEmptyResponse
	}
	return FormatSummary(resp.Text), nil
}

// FormatSummary renders one bullet per ". "-separated sentence.
func FormatSummary(raw string) string {
	var b strings.Builder
	b.WriteString("### Summary\n")
	for _, seg := range strings.Split(raw, ". ") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		b.WriteString("- ")
		b.WriteString(seg)
		b.WriteString("\n")
	}
	return b.String()
}
