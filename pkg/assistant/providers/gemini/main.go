package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/xpanvictor/lecturenotes/pkg/assistant"
	"google.golang.org/api/option"
)

type Config struct {
	APIKey string
	Model  string
}

type GeminiProvider struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, cfg Config) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini API client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash-latest"
	}
	return &GeminiProvider{client: client, model: model}, nil
}

func (gp *GeminiProvider) Generate(ctx context.Context, req assistant.Request) (*assistant.Response, error) {
	model := gp.client.GenerativeModel(gp.model)
	if req.Instruction != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.Instruction)}}
	}
	if req.Deterministic {
		model.SetTemperature(0)
	}
	if req.MaxLength > 0 {
		model.SetMaxOutputTokens(int32(req.MaxLength))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Input))
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	text := responseText(resp)
	if text == "" {
		return nil, assistant.ErrEmptyResponse
	}
	return &assistant.Response{Text: text, Model: gp.model, CreatedAt: time.Now()}, nil
}

func (gp *GeminiProvider) Close() error {
	return gp.client.Close()
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range cand.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			b.WriteString(string(txt))
		}
	}
	return strings.TrimSpace(b.String())
}
