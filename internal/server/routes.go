package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/xpanvictor/lecturenotes/docs"
	"github.com/xpanvictor/lecturenotes/internal/config"
	"github.com/xpanvictor/lecturenotes/internal/domains/lecture"
	"github.com/xpanvictor/lecturenotes/internal/handlers"
	"github.com/xpanvictor/lecturenotes/internal/handlers/websocket"
	"github.com/xpanvictor/lecturenotes/pkg/Logger"
)

type Dependencies struct {
	LectureService lecture.LectureService
	Streams        *websocket.ConnectionManager
	Logger         *Logger.Logger
	Configs        *config.Settings
}

func NewServerDependencies(
	lectureService lecture.LectureService,
	streams *websocket.ConnectionManager,
	logger *Logger.Logger,
	config *config.Settings,
) Dependencies {
	return Dependencies{
		LectureService: lectureService,
		Streams:        streams,
		Logger:         logger,
		Configs:        config,
	}
}

// NewRouter builds the engine with middleware and every route attached.
func NewRouter(cfg *config.Settings, dep Dependencies) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		handlers.ErrorHandlerMiddleware(dep.Logger),
		handlers.RequestLoggerMiddleware(dep.Logger),
		handlers.CORSMiddleware(),
	)
	InitializeRoutes(cfg, r, dep)
	return r
}

func InitializeRoutes(cfg *config.Settings, r *gin.Engine, dep Dependencies) {
	lectureHandler := handlers.NewLectureHandler(dep.LectureService, cfg.Server.MaxUploadMB, dep.Logger)
	eventsHandler := websocket.NewEventsHandler(dep.LectureService, dep.Streams, cfg.Server.EventPoll, dep.Logger)

	r.GET("/", func(ctx *gin.Context) { ctx.JSON(200, gin.H{"message": "Server healthy"}) })
	r.GET("/health", lectureHandler.Health)

	docs.SwaggerInfo.BasePath = "/api/v1"
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", lectureHandler.Health)

		lectures := v1.Group("/lectures")
		{
			lectures.POST("", lectureHandler.SubmitLecture)
			lectures.GET("", lectureHandler.ListLectures)
			lectures.GET("/:id", lectureHandler.GetLecture)
			lectures.DELETE("/:id", lectureHandler.DeleteLecture)
			lectures.GET("/:id/pdf", lectureHandler.DownloadPDF)
			lectures.GET("/:id/events", eventsHandler.HandleLectureEvents)
		}

		v1.POST("/transcripts/clean", lectureHandler.CleanTranscript)
	}
}
