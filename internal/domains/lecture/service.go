package lecture

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/xpanvictor/lecturenotes/pkg/Logger"
	"github.com/xpanvictor/lecturenotes/pkg/assistant"
	pubio "github.com/xpanvictor/lecturenotes/pkg/io"
	"github.com/xpanvictor/lecturenotes/pkg/io/pdf"
	"github.com/xpanvictor/lecturenotes/pkg/io/stt"
	"github.com/xpanvictor/lecturenotes/pkg/transcript"
)

var (
	ErrLectureNotFound   = errors.New("lecture not found")
	ErrInvalidTransition = errors.New("invalid lecture status transition")
	ErrUnsupportedAudio  = errors.New("unsupported audio format")
	ErrNotCompleted      = errors.New("lecture notes are not ready")
)

// SupportedExtensions lists the upload formats the transcribers accept.
var SupportedExtensions = []string{".wav", ".mp3", ".m4a", ".ogg", ".flac", ".webm"}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type LectureService interface {
	Submit(ctx context.Context, req SubmitRequest) (*Lecture, error)
	// Process runs the pipeline for a queued lecture. It is safe to call
	// again after a failed attempt; finished lectures are returned as is.
	Process(ctx context.Context, id string) (*Lecture, error)
	// Fail marks a lecture failed, for callers that give up retrying.
	Fail(ctx context.Context, id string, cause error) error

	Get(ctx context.Context, id string) (*Lecture, error)
	List(ctx context.Context, filters ListLecturesRequest) ([]Lecture, int64, error)
	Delete(ctx context.Context, id string) error
	RenderPDF(ctx context.Context, id string) ([]byte, *Lecture, error)

	Subscribe(id string) (<-chan Lecture, func())
}

type ServiceDeps struct {
	Repository LectureRepository
	// Cache is optional.
	Cache TranscriptCache
	// Enqueuer is optional; without one lectures process in a goroutine.
	Enqueuer Enqueuer
	Pipeline *Pipeline
	Fs       afero.Fs
	SpoolDir string
	Renderer *pdf.Renderer
	PDFTitle string
	Events   *pubio.Publisher[Lecture]
	Logger   *Logger.Logger
}

type lectureService struct {
	repository LectureRepository
	cache      TranscriptCache
	enqueuer   Enqueuer
	pipeline   *Pipeline
	fs         afero.Fs
	spoolDir   string
	renderer   *pdf.Renderer
	pdfTitle   string
	events     *pubio.Publisher[Lecture]
	logger     *Logger.Logger
}

func NewLectureService(deps ServiceDeps) LectureService {
	s := &lectureService{
		repository: deps.Repository,
		cache:      deps.Cache,
		enqueuer:   deps.Enqueuer,
		pipeline:   deps.Pipeline,
		fs:         deps.Fs,
		spoolDir:   deps.SpoolDir,
		renderer:   deps.Renderer,
		pdfTitle:   deps.PDFTitle,
		events:     deps.Events,
		logger:     deps.Logger,
	}
	if s.fs == nil {
		s.fs = afero.NewMemMapFs()
	}
	if s.spoolDir == "" {
		s.spoolDir = "spool"
	}
	if s.renderer == nil {
		s.renderer = pdf.NewRenderer(pdf.DefaultLayout())
	}
	if s.pdfTitle == "" {
		s.pdfTitle = "Lecture Notes"
	}
	if s.events == nil {
		s.events = pubio.NewPublisher[Lecture](16)
	}
	if s.logger == nil {
		s.logger = Logger.NewNop()
	}
	return s
}

func SupportedAudio(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Submit implements LectureService
func (s *lectureService) Submit(ctx context.Context, req SubmitRequest) (*Lecture, error) {
	if !SupportedAudio(req.Filename) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAudio, filepath.Ext(req.Filename))
	}
	if req.Audio == nil {
		return nil, stt.ErrNoAudio
	}

	l := NewLecture(req)
	path, digest, err := s.spool(l.ID.String()+strings.ToLower(filepath.Ext(req.Filename)), req.Audio)
	if err != nil {
		return nil, err
	}
	l.AudioPath = path
	l.AudioDigest = digest

	if err := s.repository.Create(ctx, l); err != nil {
		s.removeSpool(l)
		s.logger.Errorf("error creating lecture: %v", err)
		return nil, fmt.Errorf("failed to create lecture: %w", err)
	}
	s.publish(l)

	if err := s.enqueue(ctx, l.ID.String()); err != nil {
		s.logger.Errorf("error enqueuing lecture %s: %v", l.ID, err)
		s.fail(ctx, l, err)
		return nil, fmt.Errorf("failed to enqueue lecture: %w", err)
	}

	s.logger.Infof("lecture %s queued (%s)", l.ID, l.Filename)
	return l, nil
}

func (s *lectureService) spool(name string, audio io.Reader) (path, digest string, err error) {
	if err := s.fs.MkdirAll(s.spoolDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create spool dir: %w", err)
	}
	path = filepath.Join(s.spoolDir, name)
	f, err := s.fs.Create(path)
	if err != nil {
		return "", "", fmt.Errorf("create spool file: %w", err)
	}
	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(f, h), audio)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = s.fs.Remove(path)
		return "", "", fmt.Errorf("spool upload: %w", err)
	}
	if n == 0 {
		_ = s.fs.Remove(path)
		return "", "", stt.ErrNoAudio
	}
	return path, hex.EncodeToString(h.Sum(nil)), nil
}

func (s *lectureService) enqueue(ctx context.Context, id string) error {
	if s.enqueuer != nil {
		return s.enqueuer.EnqueueLecture(ctx, id)
	}
	go func() {
		if _, err := s.Process(context.Background(), id); err != nil {
			s.logger.Warnf("lecture %s failed: %v", id, err)
			_ = s.Fail(context.Background(), id, err)
		}
	}()
	return nil
}

// Process implements LectureService
func (s *lectureService) Process(ctx context.Context, id string) (*Lecture, error) {
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Terminal() {
		return l, nil
	}
	if l.Status != StatusQueued {
		s.logger.Infof("restarting lecture %s from %s", l.ID, l.Status)
		if err := l.transition(ctx, EventRestart); err != nil {
			return l, err
		}
	}

	if err := s.advance(ctx, l, EventTranscribe); err != nil {
		return l, err
	}
	if err := s.transcribe(ctx, l); err != nil {
		if errors.Is(err, transcript.ErrEmptyTranscript) || errors.Is(err, os.ErrNotExist) {
			s.fail(ctx, l, err)
		}
		return l, err
	}

	if err := s.advance(ctx, l, EventSummarize); err != nil {
		return l, err
	}
	if l.Summary, err = s.pipeline.Summarizer.Summarize(ctx, l.Transcript); err != nil {
		return l, err
	}

	if err := s.advance(ctx, l, EventQuestion); err != nil {
		return l, err
	}
	if l.Questions, err = s.pipeline.Questions.Questions(ctx, l.Transcript); err != nil {
		return l, err
	}

	if assistant.NeedsTranslation(l.Language, l.TargetLanguage) {
		if err := s.advance(ctx, l, EventTranslate); err != nil {
			return l, err
		}
		l.Translation, err = s.pipeline.Translator.Translate(ctx, l.Transcript, l.Language, l.TargetLanguage)
		if err != nil {
			return l, err
		}
	}

	if err := s.advance(ctx, l, EventComplete); err != nil {
		return l, err
	}
	s.removeSpool(l)
	s.logger.Infof("lecture %s completed", l.ID)
	return l, nil
}

func (s *lectureService) transcribe(ctx context.Context, l *Lecture) error {
	if cached := s.cached(ctx, l.AudioDigest); cached != nil {
		s.logger.Debugf("transcript cache hit for lecture %s", l.ID)
		l.RawTranscript = cached.Raw
		l.Transcript = cached.Text
		if l.Language == "" {
			l.Language = cached.Language
		}
		return nil
	}

	data, err := afero.ReadFile(s.fs, l.AudioPath)
	if err != nil {
		return fmt.Errorf("read spooled audio: %w", err)
	}
	raw, clean, lang, _, err := s.pipeline.Transcribe(ctx, stt.AudioInput{
		Data:     data,
		Filename: l.Filename,
		Language: l.Language,
	})
	l.RawTranscript = raw
	if err != nil {
		return err
	}
	l.Transcript = clean
	l.Language = lang

	if s.cache != nil && l.AudioDigest != "" {
		entry := CachedTranscript{Text: clean, Raw: raw, Language: lang}
		if err := s.cache.Set(ctx, l.AudioDigest, entry); err != nil {
			s.logger.Warnf("caching transcript for %s: %v", l.ID, err)
		}
	}
	return nil
}

func (s *lectureService) cached(ctx context.Context, digest string) *CachedTranscript {
	if s.cache == nil || digest == "" {
		return nil
	}
	entry, err := s.cache.Get(ctx, digest)
	if err != nil {
		s.logger.Warnf("transcript cache lookup: %v", err)
		return nil
	}
	if entry == nil || transcript.IsBlank(entry.Text) {
		return nil
	}
	return entry
}

// advance fires ev and persists the new status.
func (s *lectureService) advance(ctx context.Context, l *Lecture, ev Event) error {
	if err := l.transition(ctx, ev); err != nil {
		return err
	}
	return s.save(ctx, l)
}

func (s *lectureService) save(ctx context.Context, l *Lecture) error {
	if err := s.repository.Update(ctx, l); err != nil {
		s.logger.Errorf("error updating lecture %s: %v", l.ID, err)
		return fmt.Errorf("failed to update lecture: %w", err)
	}
	s.publish(l)
	return nil
}

func (s *lectureService) publish(l *Lecture) {
	s.events.Publish(l.ID.String(), *l)
}

func (s *lectureService) fail(ctx context.Context, l *Lecture, cause error) {
	if l.Terminal() {
		return
	}
	if err := l.transition(ctx, EventFail); err != nil {
		s.logger.Errorf("cannot fail lecture %s: %v", l.ID, err)
		return
	}
	l.Error = cause.Error()
	// the job context may already be gone
	if err := s.save(context.WithoutCancel(ctx), l); err != nil {
		return
	}
	s.removeSpool(l)
}

// Fail implements LectureService
func (s *lectureService) Fail(ctx context.Context, id string, cause error) error {
	l, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	s.fail(ctx, l, cause)
	return nil
}

func (s *lectureService) removeSpool(l *Lecture) {
	if l.AudioPath == "" {
		return
	}
	if err := s.fs.Remove(l.AudioPath); err != nil && !os.IsNotExist(err) {
		s.logger.Warnf("removing spooled audio %s: %v", l.AudioPath, err)
	}
}

// Get implements LectureService
func (s *lectureService) Get(ctx context.Context, id string) (*Lecture, error) {
	l, err := s.repository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrLectureNotFound) {
			return nil, ErrLectureNotFound
		}
		return nil, fmt.Errorf("failed to get lecture: %w", err)
	}
	return l, nil
}

// List implements LectureService
func (s *lectureService) List(ctx context.Context, filters ListLecturesRequest) ([]Lecture, int64, error) {
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	if filters.Limit <= 0 {
		filters.Limit = defaultListLimit
	}
	if filters.Limit > maxListLimit {
		filters.Limit = maxListLimit
	}
	if filters.Status != "" && !Status(filters.Status).Valid() {
		return nil, 0, fmt.Errorf("unknown status %q", filters.Status)
	}
	lectures, total, err := s.repository.List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list lectures: %w", err)
	}
	return lectures, total, nil
}

// Delete implements LectureService
func (s *lectureService) Delete(ctx context.Context, id string) error {
	l, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repository.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete lecture: %w", err)
	}
	s.removeSpool(l)
	s.logger.Infof("lecture %s deleted", id)
	return nil
}

// RenderPDF implements LectureService
func (s *lectureService) RenderPDF(ctx context.Context, id string) ([]byte, *Lecture, error) {
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if l.Status != StatusCompleted {
		return nil, l, ErrNotCompleted
	}
	data, err := s.renderer.Render(l.Notes().Document(s.pdfTitle, time.Now()))
	if err != nil {
		return nil, l, err
	}
	return data, l, nil
}

// Subscribe implements LectureService
func (s *lectureService) Subscribe(id string) (<-chan Lecture, func()) {
	return s.events.Subscribe(id)
}
