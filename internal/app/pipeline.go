package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/xpanvictor/lecturenotes/internal/config"
	"github.com/xpanvictor/lecturenotes/internal/domains/lecture"
	"github.com/xpanvictor/lecturenotes/pkg/Logger"
	"github.com/xpanvictor/lecturenotes/pkg/assistant"
	"github.com/xpanvictor/lecturenotes/pkg/io/pdf"
	"github.com/xpanvictor/lecturenotes/pkg/io/stt"
	sttopenai "github.com/xpanvictor/lecturenotes/pkg/io/stt/openai"
	"github.com/xpanvictor/lecturenotes/pkg/io/stt/whisper"
)

const (
	STTWhisper = "whisper"
	STTOpenAI  = "openai"
)

// NewTranscriber builds the configured speech to text backend wrapped in
// the wav chunker.
func NewTranscriber(cfg config.STTConfig, logger *Logger.Logger) (stt.Transcriber, error) {
	var backend stt.Transcriber
	switch strings.ToLower(cfg.Provider) {
	case "", STTWhisper:
		if cfg.Whisper.URL == "" {
			return nil, fmt.Errorf("stt.whisper.url is not configured")
		}
		backend = whisper.NewWhisperClient(cfg.Whisper.URL, cfg.Whisper.Timeout, logger.Named("whisper")).
			WithInitialPrompt(cfg.Whisper.InitialPrompt)
	case STTOpenAI:
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("stt.openai.api_key is not configured")
		}
		backend = sttopenai.New(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model, logger.Named("openai-stt"))
	default:
		return nil, fmt.Errorf("unknown stt provider %q", cfg.Provider)
	}
	return stt.NewChunked(backend, time.Duration(cfg.ChunkSeconds)*time.Second, logger.Named("chunker")), nil
}

// NewPipeline wires transcription and the three note generators. The
// returned closers must be closed when the pipeline is no longer used.
func NewPipeline(ctx context.Context, cfg *config.Settings, logger *Logger.Logger) (*lecture.Pipeline, []io.Closer, error) {
	transcriber, err := NewTranscriber(cfg.STT, logger)
	if err != nil {
		return nil, nil, err
	}

	mux, closers, err := NewLLMRouterFactory(cfg.Assistant, logger).CreateRouter(ctx)
	if err != nil {
		return nil, nil, err
	}

	notes := cfg.Notes
	return &lecture.Pipeline{
		Transcriber: transcriber,
		Summarizer: assistant.NewSummarizer(mux, assistant.SummaryOptions{
			Budget:    notes.SummaryBudget,
			MaxLength: notes.SummaryMaxLength,
			MinLength: notes.SummaryMinLength,
		}),
		Questions: assistant.NewQuestionGenerator(mux, assistant.QuestionOptions{
			Budget:    notes.QuestionsBudget,
			MaxLength: notes.QuestionsMaxLength,
		}),
		Translator: assistant.NewTranslator(mux, assistant.TranslateOptions{
			ChunkSize: notes.TranslateChunkSize,
		}),
	}, closers, nil
}

// NewRenderer builds the PDF renderer, embedding the configured UTF-8 font
// read from fs when one is set.
func NewRenderer(cfg config.PDFConfig, fs afero.Fs) (*pdf.Renderer, error) {
	r := pdf.NewRenderer(pdf.DefaultLayout())
	if cfg.FontFile == "" {
		return r, nil
	}
	font, err := pdf.LoadFont(fs, cfg.FontFile, cfg.BoldFontFile)
	if err != nil {
		return nil, err
	}
	return r.WithFont(font), nil
}
