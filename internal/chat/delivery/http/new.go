package http

import (
	"github.com/gin-gonic/gin"

	"datachat/internal/chat"
	"datachat/pkg/log"
)

// Handler is the public interface for the chat HTTP delivery layer.
type Handler interface {
	Upload(c *gin.Context)
	Chat(c *gin.Context)
	Visualization(c *gin.Context)
	ClearSession(c *gin.Context)
}

// Config bounds what the delivery layer accepts before the use case sees it.
type Config struct {
	MaxUploadBytes int64
}

type handler struct {
	l   log.Logger
	uc  chat.UseCase
	cfg Config
}

var _ Handler = (*handler)(nil)

// New creates a new HTTP handler for the chat domain.
func New(l log.Logger, uc chat.UseCase, cfg Config) *handler {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 100 * 1024 * 1024
	}
	return &handler{
		l:   l,
		uc:  uc,
		cfg: cfg,
	}
}
