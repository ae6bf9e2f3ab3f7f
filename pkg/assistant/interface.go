package assistant

import (
	"context"
	"errors"
	"time"
)

type Task string

const (
	TaskSummarize Task = "summarize"
	TaskQuestions Task = "questions"
	TaskTranslate Task = "translate"
)

var (
	ErrEmptyResponse = errors.New("assistant returned an empty response")
	ErrNoProvider    = errors.New("no provider configured")
)

// Request is one text-in, text-out call. Chat backends use Instruction as
// the system prompt; task models such as the hosted summarizers ignore it
// and only look at Input and the length bounds.
type Request struct {
	Task        Task
	Instruction string
	Input       string
	// Language is the target language for TaskTranslate.
	Language      string
	MaxLength     int
	MinLength     int
	Deterministic bool
}

type Response struct {
	Text      string
	Model     string
	Provider  string
	CreatedAt time.Time
}

type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}
