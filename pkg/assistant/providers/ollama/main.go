package ollama

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"github.com/presbrey/ollamafarm"
	"github.com/xpanvictor/lecturenotes/pkg/Logger"
	"github.com/xpanvictor/lecturenotes/pkg/assistant"
)

type Config struct {
	// URLs of the ollama hosts; the first one online serves each request.
	URLs  []string
	Model string
}

type OllamaProvider struct {
	farm  *ollamafarm.Farm
	model string
}

func New(cfg Config, logger *Logger.Logger) (*OllamaProvider, error) {
	if len(cfg.URLs) == 0 {
		return nil, fmt.Errorf("no ollama hosts configured")
	}
	farm := ollamafarm.New()
	registered := 0
	for _, u := range cfg.URLs {
		if err := farm.RegisterURL(u, nil); err != nil {
			logger.Warnw("ollama host rejected", "url", u, "error", err)
			continue
		}
		registered++
	}
	if registered == 0 {
		return nil, fmt.Errorf("none of the %d ollama hosts could be registered", len(cfg.URLs))
	}
	model := cfg.Model
	if model == "" {
		model = "llama3:8b"
	}
	return &OllamaProvider{farm: farm, model: model}, nil
}

func (o *OllamaProvider) Generate(ctx context.Context, req assistant.Request) (*assistant.Response, error) {
	host := o.farm.First(&ollamafarm.Where{Offline: false})
	if host == nil {
		return nil, fmt.Errorf("%w: no ollama host online for %s", assistant.ErrNoProvider, o.model)
	}

	var b strings.Builder
	chatReq := buildChatRequest(o.model, req)
	err := host.Client().Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		b.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama chat: %w", err)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return nil, assistant.ErrEmptyResponse
	}
	return &assistant.Response{Text: text, Model: o.model, CreatedAt: time.Now()}, nil
}

func buildChatRequest(model string, req assistant.Request) *api.ChatRequest {
	stream := false
	msgs := make([]api.Message, 0, 2)
	if req.Instruction != "" {
		msgs = append(msgs, api.Message{Role: "system", Content: req.Instruction})
	}
	msgs = append(msgs, api.Message{Role: "user", Content: req.Input})

	opts := map[string]interface{}{}
	if req.Deterministic {
		opts["temperature"] = 0
	}
	if req.MaxLength > 0 {
		opts["num_predict"] = req.MaxLength
	}
	return &api.ChatRequest{
		Model:    model,
		Messages: msgs,
		Stream:   &stream,
		Options:  opts,
	}
}
