package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"datachat/config"
	"datachat/internal/middleware"
	"datachat/pkg/log"
)

type stubChatHandler struct{}

func (stubChatHandler) Upload(c *gin.Context)        { c.Status(http.StatusOK) }
func (stubChatHandler) Chat(c *gin.Context)          { c.Status(http.StatusOK) }
func (stubChatHandler) Visualization(c *gin.Context) { c.Status(http.StatusOK) }
func (stubChatHandler) ClearSession(c *gin.Context)  { c.Status(http.StatusOK) }

type stubCounter struct{ n int }

func (s stubCounter) CountSessions(context.Context) int { return s.n }

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()
	l := log.Init(log.ZapConfig{Level: "error", Mode: "development", Encoding: "console"})
	cfg := &config.Config{}
	cfg.RateLimit.PerMinute = 600
	cfg.RateLimit.Burst = 100
	cfg.CORS.AllowedOrigins = []string{"*"}

	srv, err := New(l, Config{
		Logger:      l,
		Port:        8080,
		Mode:        gin.TestMode,
		Environment: "test",
		Model:       "test-model",
		Sessions:    stubCounter{n: 3},
		ChatHandler: stubChatHandler{},
		Middleware:  middleware.New(l, cfg),
	})
	if err != nil {
		t.Fatalf("failed to build server: %v", err)
	}
	return srv
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	srv.gin.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var envelope struct {
		Data struct {
			Status         string `json:"status"`
			Model          string `json:"model"`
			ActiveSessions int    `json:"active_sessions"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if envelope.Data.Status != "healthy" || envelope.Data.Model != "test-model" || envelope.Data.ActiveSessions != 3 {
		t.Errorf("unexpected health payload: %+v", envelope.Data)
	}
}

func TestChatRoutesRegistered(t *testing.T) {
	srv := newTestServer(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/upload"},
		{http.MethodPost, "/api/chat"},
		{http.MethodGet, "/api/viz/viz_x.png"},
		{http.MethodPost, "/api/session/clear"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		srv.gin.ServeHTTP(w, req)
		if w.Code == http.StatusNotFound {
			t.Errorf("expected %s %s to be routed", tc.method, tc.path)
		}
	}
}

func TestValidate(t *testing.T) {
	l := log.Init(log.ZapConfig{Level: "error", Mode: "development", Encoding: "console"})
	_, err := New(l, Config{Logger: l, Port: 8080, Mode: gin.TestMode})
	if err == nil {
		t.Error("expected validation error without chat handler")
	}
}
