package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/xpanvictor/lecturenotes/pkg/assistant"
)

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// MaxRetries overrides the client default when non-negative.
	MaxRetries int
}

type OpenAIProvider struct {
	client openai.Client
	model  string
}

func New(cfg Config) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is not configured")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.MaxRetries >= 0 {
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}
	model := cfg.Model
	if model == "" {
		model = string(openai.ChatModelGPT4oMini)
	}
	return &OpenAIProvider{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, req assistant.Request) (*assistant.Response, error) {
	completion, err := p.client.Chat.Completions.New(ctx, buildParams(p.model, req))
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return nil, assistant.ErrEmptyResponse
	}
	return &assistant.Response{
		Text:      completion.Choices[0].Message.Content,
		Model:     completion.Model,
		CreatedAt: time.Now(),
	}, nil
}

func buildParams(model string, req assistant.Request) openai.ChatCompletionNewParams {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.Instruction != "" {
		msgs = append(msgs, openai.SystemMessage(req.Instruction))
	}
	msgs = append(msgs, openai.UserMessage(req.Input))

	params := openai.ChatCompletionNewParams{
		Messages: msgs,
		Model:    openai.ChatModel(model),
	}
	if req.Deterministic {
		params.Temperature = openai.Float(0)
	}
	if req.MaxLength > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxLength))
	}
	return params
}
