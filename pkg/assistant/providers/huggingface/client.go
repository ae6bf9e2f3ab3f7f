package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xpanvictor/lecturenotes/pkg/Logger"
	"github.com/xpanvictor/lecturenotes/pkg/assistant"
)

const DefaultBaseURL = "https://api-inference.huggingface.co"

// Config names one hosted model per task. TranslateModel may contain
// "{lang}", replaced by the target language code.
type Config struct {
	BaseURL        string
	Token          string
	SummarizeModel string
	QuestionsModel string
	TranslateModel string
	Timeout        time.Duration
}

func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		SummarizeModel: "facebook/bart-large-cnn",
		QuestionsModel: "valhalla/t5-small-qg-hl",
		TranslateModel: "Helsinki-NLP/opus-mt-en-{lang}",
		Timeout:        120 * time.Second,
	}
}

type HuggingFaceClient struct {
	cfg        Config
	httpClient *http.Client
	logger     *Logger.Logger
}

func New(cfg Config, logger *Logger.Logger) *HuggingFaceClient {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.SummarizeModel == "" {
		cfg.SummarizeModel = def.SummarizeModel
	}
	if cfg.QuestionsModel == "" {
		cfg.QuestionsModel = def.QuestionsModel
	}
	if cfg.TranslateModel == "" {
		cfg.TranslateModel = def.TranslateModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &HuggingFaceClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type inferenceRequest struct {
	Inputs     string         `json:"inputs"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Options    map[string]any `json:"options,omitempty"`
}

type inferenceResult struct {
	SummaryText     string `json:"summary_text"`
	GeneratedText   string `json:"generated_text"`
	TranslationText string `json:"translation_text"`
}

type inferenceError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

func (c *HuggingFaceClient) Generate(ctx context.Context, req assistant.Request) (*assistant.Response, error) {
	model, err := c.modelFor(req)
	if err != nil {
		return nil, err
	}

	payload := inferenceRequest{
		Inputs:  req.Input,
		Options: map[string]any{"wait_for_model": true},
	}
	params := map[string]any{}
	if req.MaxLength > 0 {
		params["max_length"] = req.MaxLength
	}
	if req.MinLength > 0 {
		params["min_length"] = req.MinLength
	}
	if req.Task == assistant.TaskSummarize {
		params["do_sample"] = !req.Deterministic
	}
	if len(params) > 0 {
		payload.Parameters = params
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode inference request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/models/"+model, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	c.logger.Debugw("huggingface inference", "model", model, "task", req.Task, "input_len", len(req.Input))
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr inferenceError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("huggingface %s returned %d: %s", model, resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("huggingface %s returned %d: %s", model, resp.StatusCode, string(raw))
	}

	text, err := parseResult(raw)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, assistant.ErrEmptyResponse
	}
	return &assistant.Response{Text: text, Model: model, CreatedAt: time.Now()}, nil
}

func (c *HuggingFaceClient) modelFor(req assistant.Request) (string, error) {
	switch req.Task {
	case assistant.TaskSummarize:
		return c.cfg.SummarizeModel, nil
	case assistant.TaskQuestions:
		return c.cfg.QuestionsModel, nil
	case assistant.TaskTranslate:
		if req.Language == "" {
			return "", fmt.Errorf("translation needs a target language")
		}
		return strings.ReplaceAll(c.cfg.TranslateModel, "{lang}", req.Language), nil
	}
	return "", fmt.Errorf("%w: huggingface has no model for task %q", assistant.ErrNoProvider, req.Task)
}

// parseResult accepts both the list and the single-object response shapes.
func parseResult(raw []byte) (string, error) {
	var list []inferenceResult
	if err := json.Unmarshal(raw, &list); err != nil {
		var single inferenceResult
		if err2 := json.Unmarshal(raw, &single); err2 != nil {
			return "", fmt.Errorf("failed to parse inference response: %w", err)
		}
		list = []inferenceResult{single}
	}
	parts := make([]string, 0, len(list))
	for _, r := range list {
		switch {
		case r.SummaryText != "":
			parts = append(parts, r.SummaryText)
		case r.TranslationText != "":
			parts = append(parts, r.TranslationText)
		case r.GeneratedText != "":
			parts = append(parts, r.GeneratedText)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " ")), nil
}
