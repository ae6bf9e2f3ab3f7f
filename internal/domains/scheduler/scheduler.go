package scheduler

import (
	"context"
	"time"

	"github.com/xpanvictor/lecturenotes/internal/domains/lecture"
)

// JobType represents the type of scheduled job
type JobType string

const (
	JobTypeLectureProcess JobType = "lecture:process"
)

// JobPayload represents the data structure for scheduled jobs
type JobPayload struct {
	JobType    JobType   `json:"job_type"`
	LectureID  string    `json:"lecture_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// LectureProcessor is the part of the lecture service the worker drives.
type LectureProcessor interface {
	Process(ctx context.Context, id string) (*lecture.Lecture, error)
	Fail(ctx context.Context, id string, cause error) error
}

// SchedulerService queues lectures and runs the worker that processes them.
type SchedulerService interface {
	lecture.Enqueuer

	// RegisterProcessor must be called before Start.
	RegisterProcessor(p LectureProcessor)

	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
