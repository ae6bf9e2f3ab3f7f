package router

import (
	"github.com/xpanvictor/lecturenotes/pkg/Logger"
	"github.com/xpanvictor/lecturenotes/pkg/assistant"
)

type ProviderPack struct {
	Name      string
	Generator assistant.Generator
}

type Mux struct {
	RouterPolicy RoutePolicy
	Providers    map[string]ProviderPack
	logger       *Logger.Logger
}

type RoutePolicy interface {
	Select(req assistant.Request) string
}
