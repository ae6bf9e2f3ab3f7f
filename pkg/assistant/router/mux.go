package router

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/xpanvictor/lecturenotes/pkg/Logger"
	"github.com/xpanvictor/lecturenotes/pkg/assistant"
)

// TaskPolicy picks a provider per task and falls back to Default.
type TaskPolicy struct {
	Routes  map[assistant.Task]string
	Default string
}

func (p *TaskPolicy) Select(req assistant.Request) string {
	if name, ok := p.Routes[req.Task]; ok && name != "" {
		return name
	}
	return p.Default
}

func New(
	providers map[string]assistant.Generator,
	policy RoutePolicy,
	logger *Logger.Logger,
) *Mux {
	if logger == nil {
		logger = Logger.NewNop()
	}
	packs := make(map[string]ProviderPack, len(providers))
	for name, gen := range providers {
		if gen == nil {
			continue
		}
		packs[name] = ProviderPack{Name: name, Generator: gen}
	}
	return &Mux{
		RouterPolicy: policy,
		Providers:    packs,
		logger:       logger,
	}
}

func (m *Mux) Generate(ctx context.Context, req assistant.Request) (*assistant.Response, error) {
	name := m.RouterPolicy.Select(req)
	pack, ok := m.Providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q for task %s", assistant.ErrNoProvider, name, req.Task)
	}

	start := time.Now()
	resp, err := pack.Generator.Generate(ctx, req)
	if err != nil {
		m.logger.Warnw("generation failed", "provider", name, "task", req.Task, "error", err)
		return nil, err
	}
	if resp == nil {
		return nil, assistant.ErrEmptyResponse
	}
	resp.Provider = name
	if resp.CreatedAt.IsZero() {
		resp.CreatedAt = time.Now()
	}
	m.logger.Debugw("generation done",
		"provider", name, "task", req.Task, "model", resp.Model, "elapsed", time.Since(start))
	return resp, nil
}

// Names lists the registered providers in order.
func (m *Mux) Names() []string {
	names := make([]string, 0, len(m.Providers))
	for name := range m.Providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
