package app

import (
	"context"
	"io"

	"github.com/go-redis/redis"
	"github.com/spf13/afero"
	"github.com/xpanvictor/lecturenotes/internal/config"
	"github.com/xpanvictor/lecturenotes/internal/domains/lecture"
	"github.com/xpanvictor/lecturenotes/internal/domains/scheduler"
	"github.com/xpanvictor/lecturenotes/internal/handlers/websocket"
	"github.com/xpanvictor/lecturenotes/internal/repository/cache"
	lectureRepo "github.com/xpanvictor/lecturenotes/internal/repository/lecture"
	"github.com/xpanvictor/lecturenotes/internal/server"
	"github.com/xpanvictor/lecturenotes/pkg/Logger"
	"gorm.io/gorm"
)

// uploadDir is where uploads are spooled inside the storage filesystem.
const uploadDir = "uploads"

// App represents the application with all its dependencies
type App struct {
	Config *config.Settings
	Logger *Logger.Logger
	DB     *gorm.DB
	RC     *redis.Client
	Fs     afero.Fs

	Pipeline       *lecture.Pipeline
	LectureRepo    lecture.LectureRepository
	LectureService lecture.LectureService
	// Scheduler is nil when background jobs are disabled; lectures are
	// then processed in-process.
	Scheduler  scheduler.SchedulerService
	Streams    *websocket.ConnectionManager
	ServerDeps server.Dependencies

	closers []io.Closer
}

// NewApp creates a new application instance with all dependencies properly wired.
// rc may be nil, which disables the transcript cache.
func NewApp(ctx context.Context, cfg *config.Settings, logger *Logger.Logger, db *gorm.DB, rc *redis.Client) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
		RC:     rc,
	}

	if err := app.setupDependencies(ctx); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// setupDependencies initializes all application dependencies
func (a *App) setupDependencies(ctx context.Context) error {
	// 1. storage and generation
	a.Fs = NewStorageFs(a.Config.Storage)
	pipeline, closers, err := NewPipeline(ctx, a.Config, a.Logger)
	if err != nil {
		return err
	}
	a.Pipeline = pipeline
	a.closers = append(a.closers, closers...)
	renderer, err := NewRenderer(a.Config.PDF, afero.NewOsFs())
	if err != nil {
		return err
	}

	// 2. repositories
	a.LectureRepo = lectureRepo.NewGormLectureRepo(a.DB)
	var transcriptCache lecture.TranscriptCache
	if a.RC != nil {
		transcriptCache = cache.NewRedisTranscriptCache(a.RC, a.Config.Redis.TranscriptTTL)
	}

	// 3. queue
	var enqueuer lecture.Enqueuer
	if a.Config.Scheduler.Enabled {
		sched := scheduler.NewAsynqSchedulerService(scheduler.AsynqSchedulerConfig{
			RedisAddr:     a.Config.Redis.Addr,
			RedisPassword: a.Config.Redis.Password,
			RedisDB:       a.Config.Redis.DB,
			Concurrency:   a.Config.Scheduler.Concurrency,
			Queue:         a.Config.Scheduler.Queue,
			MaxRetry:      a.Config.Scheduler.MaxRetry,
			Timeout:       a.Config.Scheduler.Timeout,
		}, a.Logger.Named("scheduler"))
		a.Scheduler = sched
		enqueuer = sched
	}

	// 4. services
	a.LectureService = lecture.NewLectureService(lecture.ServiceDeps{
		Repository: a.LectureRepo,
		Cache:      transcriptCache,
		Enqueuer:   enqueuer,
		Pipeline:   a.Pipeline,
		Fs:         a.Fs,
		SpoolDir:   uploadDir,
		Renderer:   renderer,
		PDFTitle:   a.Config.PDF.Title,
		Logger:     a.Logger.Named("lectures"),
	})
	if a.Scheduler != nil {
		a.Scheduler.RegisterProcessor(a.LectureService)
	}

	a.Streams = websocket.NewConnectionManager(a.Logger.Named("events"), 0)
	a.ServerDeps = server.NewServerDependencies(a.LectureService, a.Streams, a.Logger, a.Config)

	return nil
}

// NewStorageFs returns the filesystem uploads are spooled to.
func NewStorageFs(cfg config.StorageConfig) afero.Fs {
	if cfg.InMemory || cfg.SpoolDir == "" {
		return afero.NewMemMapFs()
	}
	return afero.NewBasePathFs(afero.NewOsFs(), cfg.SpoolDir)
}

// GetServerDependencies returns the server dependencies
func (a *App) GetServerDependencies() server.Dependencies {
	return a.ServerDeps
}

// Close releases provider clients and open event streams.
func (a *App) Close() {
	if a.Streams != nil {
		a.Streams.CloseAll("server shutting down")
	}
	closeAll(a.closers)
	a.closers = nil
}
