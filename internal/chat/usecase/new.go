package usecase

import (
	"datachat/internal/agent/orchestrator"
	"datachat/internal/chart"
	"datachat/internal/chat"
	"datachat/internal/chat/repository"
	"datachat/internal/sandbox"
	pkgLog "datachat/pkg/log"
)

// Config bounds the inputs the use case accepts. Zero values select the
// defaults.
type Config struct {
	MaxUploadBytes  int64
	PreviewRows     int
	MaxMessageChars int
}

const (
	defaultMaxUploadBytes  = 100 * 1024 * 1024
	defaultPreviewRows     = 100
	defaultMaxMessageChars = 4000
)

var _ chat.UseCase = (*implUseCase)(nil)

type implUseCase struct {
	l         pkgLog.Logger
	repo      repository.Repository
	orch      *orchestrator.Orchestrator
	evaluator *sandbox.Evaluator
	renderer  *chart.Renderer
	charts    *chart.Registry
	cfg       Config
}

// New creates a new chat UseCase instance.
func New(
	l pkgLog.Logger,
	repo repository.Repository,
	orch *orchestrator.Orchestrator,
	evaluator *sandbox.Evaluator,
	renderer *chart.Renderer,
	charts *chart.Registry,
	cfg Config,
) *implUseCase {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.PreviewRows <= 0 {
		cfg.PreviewRows = defaultPreviewRows
	}
	if cfg.MaxMessageChars <= 0 {
		cfg.MaxMessageChars = defaultMaxMessageChars
	}
	return &implUseCase{
		l:         l,
		repo:      repo,
		orch:      orch,
		evaluator: evaluator,
		renderer:  renderer,
		charts:    charts,
		cfg:       cfg,
	}
}
