package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xpanvictor/lecturenotes/pkg/Logger"
	"github.com/xpanvictor/lecturenotes/pkg/io/stt"
)

// TranscriptionResponse represents the response from Whisper STT service
type TranscriptionResponse struct {
	Text     string                 `json:"text"`
	Language string                 `json:"language"`
	Segments []TranscriptionSegment `json:"segments,omitempty"`
}

// TranscriptionSegment represents a timed segment of transcription
type TranscriptionSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	ID    int     `json:"id"`
}

// WhisperClient handles communication with a whisper-asr-webservice instance
type WhisperClient struct {
	baseURL       string
	initialPrompt string
	httpClient    *http.Client
	logger        *Logger.Logger
}

var _ stt.Transcriber = (*WhisperClient)(nil)

// NewWhisperClient creates a new Whisper client
func NewWhisperClient(baseURL string, timeout time.Duration, logger *Logger.Logger) *WhisperClient {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &WhisperClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// WithInitialPrompt biases the decoder towards the given vocabulary.
func (w *WhisperClient) WithInitialPrompt(prompt string) *WhisperClient {
	w.initialPrompt = prompt
	return w
}

// Transcribe implements stt.Transcriber.
func (w *WhisperClient) Transcribe(ctx context.Context, in stt.AudioInput) (*stt.Result, error) {
	if len(in.Data) == 0 {
		return nil, stt.ErrNoAudio
	}

	filename := in.Filename
	if filename == "" {
		filename = "audio.wav"
	}

	// Create multipart form data
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("audio_file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(in.Data); err != nil {
		return nil, fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.requestURL(in.Language), &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		w.logger.Errorf("Whisper service error (status %d): %s", resp.StatusCode, string(responseBody))
		return nil, fmt.Errorf("whisper service returned status %d: %s", resp.StatusCode, string(responseBody))
	}

	if len(bytes.TrimSpace(responseBody)) == 0 {
		w.logger.Errorf("Whisper service returned empty response")
		return nil, stt.ErrEmptyResult
	}

	var transcription TranscriptionResponse
	if err := json.Unmarshal(responseBody, &transcription); err != nil {
		// asr webservice answers text/plain for output=txt
		w.logger.Debugf("Treating whisper response as plain text (length=%d)", len(responseBody))
		transcription = TranscriptionResponse{
			Text:     string(responseBody),
			Language: in.Language,
		}
	}

	w.logger.Debugf("Whisper transcription: %d chars (language: %s)", len(transcription.Text), transcription.Language)

	return &stt.Result{
		Text:        transcription.Text,
		Language:    transcription.Language,
		Duration:    segmentsDuration(transcription.Segments),
		Chunks:      1,
		GeneratedAt: time.Now(),
	}, nil
}

func (w *WhisperClient) requestURL(language string) string {
	q := url.Values{}
	q.Set("encode", "true")
	q.Set("task", "transcribe")
	q.Set("output", "json")
	if language != "" {
		q.Set("language", language)
	}
	if w.initialPrompt != "" {
		q.Set("initial_prompt", w.initialPrompt)
	}
	return fmt.Sprintf("%s/asr?%s", w.baseURL, q.Encode())
}

func segmentsDuration(segments []TranscriptionSegment) time.Duration {
	if len(segments) == 0 {
		return 0
	}
	return time.Duration(segments[len(segments)-1].End * float64(time.Second))
}
