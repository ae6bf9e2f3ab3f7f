package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/xpanvictor/lecturenotes/internal/domains/lecture"
	"github.com/xpanvictor/lecturenotes/pkg/Logger"
	"github.com/xpanvictor/lecturenotes/pkg/transcript"
)

// AsynqSchedulerService implements SchedulerService using asynq
type AsynqSchedulerService struct {
	client    *asynq.Client
	server    *asynq.Server
	mux       *asynq.ServeMux
	config    AsynqSchedulerConfig
	logger    *Logger.Logger
	processor LectureProcessor
}

// AsynqSchedulerConfig holds configuration for the scheduler
type AsynqSchedulerConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Concurrency   int
	Queue         string
	MaxRetry      int
	Timeout       time.Duration
}

func NewAsynqSchedulerService(config AsynqSchedulerConfig, logger *Logger.Logger) *AsynqSchedulerService {
	if config.Queue == "" {
		config.Queue = "lectures"
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Minute
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	}

	s := &AsynqSchedulerService{
		client: asynq.NewClient(redisOpt),
		server: asynq.NewServer(redisOpt, asynq.Config{
			Concurrency: config.Concurrency,
			Queues:      map[string]int{config.Queue: 1},
			Logger:      NewAsynqLogger(logger),
		}),
		mux:    asynq.NewServeMux(),
		config: config,
		logger: logger,
	}
	s.mux.HandleFunc(string(JobTypeLectureProcess), s.handleLectureProcess)
	return s
}

func (s *AsynqSchedulerService) RegisterProcessor(p LectureProcessor) {
	s.processor = p
}

// NewLectureTask builds the job for one lecture. The task id is derived
// from the lecture id so a double submit cannot queue it twice.
func NewLectureTask(id string, cfg AsynqSchedulerConfig) (*asynq.Task, error) {
	payload, err := json.Marshal(JobPayload{
		JobType:    JobTypeLectureProcess,
		LectureID:  id,
		EnqueuedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job payload: %w", err)
	}
	return asynq.NewTask(string(JobTypeLectureProcess), payload,
		asynq.TaskID("lecture:"+id),
		asynq.Queue(cfg.Queue),
		asynq.MaxRetry(cfg.MaxRetry),
		asynq.Timeout(cfg.Timeout),
	), nil
}

// EnqueueLecture implements lecture.Enqueuer
func (s *AsynqSchedulerService) EnqueueLecture(ctx context.Context, id string) error {
	task, err := NewLectureTask(id, s.config)
	if err != nil {
		return err
	}
	info, err := s.client.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		s.logger.Infof("lecture %s already queued", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to enqueue lecture: %w", err)
	}
	s.logger.Infof("queued lecture %s (queue: %s, id: %s)", id, info.Queue, info.ID)
	return nil
}

// Start starts the worker server
func (s *AsynqSchedulerService) Start(ctx context.Context) error {
	if s.processor == nil {
		return fmt.Errorf("no lecture processor registered")
	}
	if err := s.server.Start(s.mux); err != nil {
		return fmt.Errorf("failed to start asynq server: %w", err)
	}
	s.logger.Infof("asynq worker started on queue %s with %d workers", s.config.Queue, s.config.Concurrency)
	return nil
}

// Stop drains in-flight jobs and closes the client
func (s *AsynqSchedulerService) Stop(ctx context.Context) error {
	s.server.Shutdown()
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("failed to close asynq client: %w", err)
	}
	s.logger.Info("asynq worker stopped")
	return nil
}

func (s *AsynqSchedulerService) handleLectureProcess(ctx context.Context, t *asynq.Task) error {
	var payload JobPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal lecture payload: %v: %w", err, asynq.SkipRetry)
	}
	if s.processor == nil {
		return fmt.Errorf("no lecture processor registered")
	}

	l, err := s.processor.Process(ctx, payload.LectureID)
	if err == nil {
		s.logger.Infof("lecture %s processed: %s", payload.LectureID, l.Status)
		return nil
	}

	// failures that another attempt cannot fix
	if errors.Is(err, transcript.ErrEmptyTranscript) || errors.Is(err, lecture.ErrLectureNotFound) {
		s.logger.Warnf("lecture %s failed permanently: %v", payload.LectureID, err)
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	if finalAttempt(ctx) {
		s.logger.Errorf("lecture %s failed after retries: %v", payload.LectureID, err)
		if ferr := s.processor.Fail(ctx, payload.LectureID, err); ferr != nil {
			s.logger.Errorf("marking lecture %s failed: %v", payload.LectureID, ferr)
		}
		return err
	}
	s.logger.Warnf("lecture %s attempt failed, will retry: %v", payload.LectureID, err)
	return err
}

func finalAttempt(ctx context.Context) bool {
	retried, ok := asynq.GetRetryCount(ctx)
	if !ok {
		return true
	}
	max, ok := asynq.GetMaxRetry(ctx)
	if !ok {
		return true
	}
	return retried >= max
}
