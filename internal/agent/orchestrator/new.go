package orchestrator

import (
	"datachat/pkg/gemini"
	pkgLog "datachat/pkg/log"
)

// Orchestrator runs one chat turn against the model API, dispatching any
// requested tool calls through a per-turn registry.
type Orchestrator struct {
	llm gemini.IGemini
	l   pkgLog.Logger
}

func New(llm gemini.IGemini, l pkgLog.Logger) *Orchestrator {
	return &Orchestrator{
		llm: llm,
		l:   l,
	}
}
