package lecture

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/looplab/fsm"
)

type Status string

const (
	StatusQueued       Status = "queued"
	StatusTranscribing Status = "transcribing"
	StatusSummarizing  Status = "summarizing"
	StatusQuestioning  Status = "questioning"
	StatusTranslating  Status = "translating"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
)

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

func (s Status) Valid() bool {
	switch s {
	case StatusQueued, StatusTranscribing, StatusSummarizing, StatusQuestioning,
		StatusTranslating, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

type Event string

const (
	EventTranscribe Event = "transcribe"
	EventSummarize  Event = "summarize"
	EventQuestion   Event = "question"
	EventTranslate  Event = "translate"
	EventComplete   Event = "complete"
	EventFail       Event = "fail"
	// EventRestart sends an interrupted lecture back to the queue.
	EventRestart Event = "restart"
)

var inProgress = []string{
	string(StatusTranscribing),
	string(StatusSummarizing),
	string(StatusQuestioning),
	string(StatusTranslating),
}

var lifecycle = fsm.Events{
	{Name: string(EventTranscribe), Src: []string{string(StatusQueued)}, Dst: string(StatusTranscribing)},
	{Name: string(EventSummarize), Src: []string{string(StatusTranscribing)}, Dst: string(StatusSummarizing)},
	{Name: string(EventQuestion), Src: []string{string(StatusSummarizing)}, Dst: string(StatusQuestioning)},
	{Name: string(EventTranslate), Src: []string{string(StatusQuestioning)}, Dst: string(StatusTranslating)},
	{Name: string(EventComplete), Src: []string{string(StatusQuestioning), string(StatusTranslating)}, Dst: string(StatusCompleted)},
	{Name: string(EventFail), Src: append([]string{string(StatusQueued)}, inProgress...), Dst: string(StatusFailed)},
	{Name: string(EventRestart), Src: inProgress, Dst: string(StatusQueued)},
}

// NextStatus fires ev against a machine sitting in from.
func NextStatus(ctx context.Context, from Status, ev Event) (Status, error) {
	machine := fsm.NewFSM(string(from), lifecycle, fsm.Callbacks{})
	if err := machine.Event(ctx, string(ev)); err != nil {
		var noTransition fsm.NoTransitionError
		if errors.As(err, &noTransition) {
			return from, nil
		}
		return from, fmt.Errorf("%w: %s on %s: %v", ErrInvalidTransition, ev, from, err)
	}
	return Status(machine.Current()), nil
}

// transition moves l along the lifecycle and stamps UpdatedAt.
func (l *Lecture) transition(ctx context.Context, ev Event) error {
	next, err := NextStatus(ctx, l.Status, ev)
	if err != nil {
		return err
	}
	l.Status = next
	l.UpdatedAt = time.Now().UTC()
	return nil
}
