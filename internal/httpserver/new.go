package httpserver

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	chatHTTP "datachat/internal/chat/delivery/http"
	"datachat/internal/middleware"
	"datachat/pkg/log"
)

// SessionCounter reports the number of live sessions for the health payload.
type SessionCounter interface {
	CountSessions(ctx context.Context) int
}

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	// Health payload
	model    string
	sessions SessionCounter

	// Chat domain
	chatHandler chatHTTP.Handler

	mw middleware.Middleware
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string

	Model    string
	Sessions SessionCounter

	ChatHandler chatHTTP.Handler

	Middleware middleware.Middleware
}

// New creates a new HTTPServer instance with all routes mapped.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:           logger,
		gin:         gin.New(),
		port:        cfg.Port,
		mode:        cfg.Mode,
		environment: cfg.Environment,
		model:       cfg.Model,
		sessions:    cfg.Sessions,
		chatHandler: cfg.ChatHandler,
		mw:          cfg.Middleware,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	srv.mapHandlers()

	return srv, nil
}

func (srv *HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.chatHandler == nil {
		return errors.New("chat handler is required")
	}
	if srv.sessions == nil {
		return errors.New("session counter is required")
	}
	return nil
}
