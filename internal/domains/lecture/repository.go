package lecture

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// Lecture is one uploaded recording and the notes generated from it.
// @Description Lecture record with its processing status and generated notes
type Lecture struct {
	ID             uuid.UUID `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Filename       string    `json:"filename" example:"thermo-week3.wav"`
	Status         Status    `json:"status" example:"completed"`
	Language       string    `json:"language,omitempty" example:"en"`
	TargetLanguage string    `json:"targetLanguage,omitempty" example:"fr"`
	RawTranscript  string    `json:"rawTranscript,omitempty"`
	Transcript     string    `json:"transcript,omitempty"`
	Summary        string    `json:"summary,omitempty"`
	Questions      string    `json:"questions,omitempty"`
	Translation    string    `json:"translation,omitempty"`
	Error          string    `json:"error,omitempty"`
	AudioDigest    string    `json:"audioDigest,omitempty"`
	AudioPath      string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt" example:"2023-01-01T12:00:00Z"`
	UpdatedAt      time.Time `json:"updatedAt" example:"2023-01-01T12:05:00Z"`
}

func (l *Lecture) Terminal() bool {
	return l.Status.Terminal()
}

// SubmitRequest carries an upload into the service.
type SubmitRequest struct {
	Filename       string
	Audio          io.Reader
	Language       string
	TargetLanguage string
}

// ListLecturesRequest represents filters for listing lectures
// @Description Query parameters for listing lectures
type ListLecturesRequest struct {
	Status string `form:"status" example:"completed"`
	Offset int    `form:"offset" example:"0"`
	Limit  int    `form:"limit" example:"20"`
}

// CachedTranscript is what the transcript cache keeps per audio digest.
type CachedTranscript struct {
	Text     string `json:"text"`
	Raw      string `json:"raw,omitempty"`
	Language string `json:"language,omitempty"`
}

func NewLecture(req SubmitRequest) *Lecture {
	now := time.Now().UTC()
	return &Lecture{
		ID:             uuid.New(),
		Filename:       req.Filename,
		Status:         StatusQueued,
		Language:       req.Language,
		TargetLanguage: req.TargetLanguage,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

type LectureRepository interface {
	Create(ctx context.Context, l *Lecture) error
	// GetByID returns ErrLectureNotFound for unknown ids.
	GetByID(ctx context.Context, id string) (*Lecture, error)
	Update(ctx context.Context, l *Lecture) error
	List(ctx context.Context, filters ListLecturesRequest) ([]Lecture, int64, error)
	Delete(ctx context.Context, id string) error
}

// TranscriptCache returns (nil, nil) on a miss.
type TranscriptCache interface {
	Get(ctx context.Context, digest string) (*CachedTranscript, error)
	Set(ctx context.Context, digest string, t CachedTranscript) error
}

// Enqueuer hands a lecture to background processing.
type Enqueuer interface {
	EnqueueLecture(ctx context.Context, id string) error
}
