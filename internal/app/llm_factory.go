package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xpanvictor/lecturenotes/internal/config"
	"github.com/xpanvictor/lecturenotes/pkg/Logger"
	"github.com/xpanvictor/lecturenotes/pkg/assistant"
	"github.com/xpanvictor/lecturenotes/pkg/assistant/providers/gemini"
	"github.com/xpanvictor/lecturenotes/pkg/assistant/providers/huggingface"
	"github.com/xpanvictor/lecturenotes/pkg/assistant/providers/ollama"
	"github.com/xpanvictor/lecturenotes/pkg/assistant/providers/openai"
	"github.com/xpanvictor/lecturenotes/pkg/assistant/router"
)

const (
	ProviderOpenAI      = "openai"
	ProviderOllama      = "ollama"
	ProviderGemini      = "gemini"
	ProviderHuggingFace = "huggingface"
)

// LLMRouterFactory builds the generation providers named in the settings
// and the task router over them.
type LLMRouterFactory struct {
	config config.AssistantConfig
	logger *Logger.Logger
}

func NewLLMRouterFactory(cfg config.AssistantConfig, logger *Logger.Logger) *LLMRouterFactory {
	return &LLMRouterFactory{
		config: cfg,
		logger: logger,
	}
}

// CreateRouter returns the router and the providers that hold resources.
// A provider is only built when its credentials or hosts are configured;
// routes that point at a provider which was not built are rejected.
func (f *LLMRouterFactory) CreateRouter(ctx context.Context) (*router.Mux, []io.Closer, error) {
	providers := make(map[string]assistant.Generator)
	var closers []io.Closer

	if f.config.OpenAI.APIKey != "" {
		p, err := openai.New(openai.Config{
			APIKey:     f.config.OpenAI.APIKey,
			BaseURL:    f.config.OpenAI.BaseURL,
			Model:      f.config.OpenAI.Model,
			MaxRetries: f.config.OpenAI.MaxRetries,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create OpenAI provider: %w", err)
		}
		providers[ProviderOpenAI] = p
	}

	if len(f.config.Ollama.URLs) > 0 {
		p, err := ollama.New(ollama.Config{
			URLs:  f.config.Ollama.URLs,
			Model: f.config.Ollama.Model,
		}, f.logger)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Ollama provider: %w", err)
		}
		providers[ProviderOllama] = p
	}

	if f.config.Gemini.APIKey != "" {
		p, err := gemini.New(ctx, gemini.Config{
			APIKey: f.config.Gemini.APIKey,
			Model:  f.config.Gemini.Model,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Gemini provider: %w", err)
		}
		providers[ProviderGemini] = p
		closers = append(closers, p)
	}

	// the hosted task models work without a token, only rate limited
	hf := f.config.HuggingFace
	providers[ProviderHuggingFace] = huggingface.New(huggingface.Config{
		BaseURL:        hf.BaseURL,
		Token:          hf.Token,
		SummarizeModel: hf.SummarizeModel,
		QuestionsModel: hf.QuestionsModel,
		TranslateModel: hf.TranslateModel,
		Timeout:        hf.Timeout,
	}, f.logger)

	policy, err := f.policy(providers)
	if err != nil {
		closeAll(closers)
		return nil, nil, err
	}

	mux := router.New(providers, policy, f.logger.Named("assistant"))
	f.logger.Infof("LLM router created with providers %v (default %s)", mux.Names(), policy.Default)
	return mux, closers, nil
}

func (f *LLMRouterFactory) policy(providers map[string]assistant.Generator) (*router.TaskPolicy, error) {
	def := strings.ToLower(strings.TrimSpace(f.config.DefaultProvider))
	if def == "" {
		def = ProviderHuggingFace
	}
	if _, ok := providers[def]; !ok {
		return nil, fmt.Errorf("default provider %q is not configured", def)
	}

	policy := &router.TaskPolicy{
		Routes:  make(map[assistant.Task]string),
		Default: def,
	}
	for task, name := range f.config.Routes {
		t := assistant.Task(strings.ToLower(strings.TrimSpace(task)))
		switch t {
		case assistant.TaskSummarize, assistant.TaskQuestions, assistant.TaskTranslate:
		default:
			return nil, fmt.Errorf("unknown assistant task %q in routes", task)
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if _, ok := providers[name]; !ok {
			return nil, fmt.Errorf("route %s -> %q: provider is not configured", t, name)
		}
		policy.Routes[t] = name
	}
	return policy, nil
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}
