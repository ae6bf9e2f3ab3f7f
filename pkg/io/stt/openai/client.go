package openai

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/xpanvictor/lecturenotes/pkg/Logger"
	"github.com/xpanvictor/lecturenotes/pkg/io/stt"
)

// Client transcribes audio with the OpenAI audio transcription endpoint.
type Client struct {
	client *goopenai.Client
	model  string
	logger *Logger.Logger
}

var _ stt.Transcriber = (*Client)(nil)

// New creates a transcription client. baseURL may be empty to use the
// public API, model defaults to whisper-1.
func New(apiKey, baseURL, model string, logger *Logger.Logger) *Client {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if model == "" {
		model = goopenai.Whisper1
	}
	return &Client{
		client: goopenai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}
}

// Transcribe implements stt.Transcriber.
func (c *Client) Transcribe(ctx context.Context, in stt.AudioInput) (*stt.Result, error) {
	if len(in.Data) == 0 {
		return nil, stt.ErrNoAudio
	}
	filename := in.Filename
	if filename == "" {
		filename = "audio.wav"
	}

	resp, err := c.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    c.model,
		FilePath: filename,
		Reader:   bytes.NewReader(in.Data),
		Language: in.Language,
		Format:   goopenai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("openai transcription: %w", err)
	}

	c.logger.Debugf("OpenAI transcription: %d chars in %.1fs audio", len(resp.Text), resp.Duration)

	language := in.Language
	if language == "" {
		language = resp.Language
	}
	return &stt.Result{
		Text:        resp.Text,
		Language:    language,
		Duration:    time.Duration(resp.Duration * float64(time.Second)),
		Chunks:      1,
		GeneratedAt: time.Now(),
	}, nil
}
