package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"datachat/internal/agent/orchestrator"
	"datachat/internal/chart"
	"datachat/internal/chat"
	"datachat/internal/chat/repository"
	"datachat/internal/chat/repository/memory"
	"datachat/internal/chat/usecase"
	"datachat/internal/sandbox"
	"datachat/pkg/gemini"
	"datachat/pkg/log"
)

const testCSV = "city,price\nHanoi,100\nHue,200\nSaigon,300\n"

// mockGemini replays scripted responses.
type mockGemini struct {
	responses []*gemini.GenerateResponse
	err       error
	calls     int
}

func (m *mockGemini) GenerateContent(_ context.Context, _ gemini.GenerateRequest) (*gemini.GenerateResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	resp := m.responses[0]
	if len(m.responses) > 1 {
		m.responses = m.responses[1:]
	}
	return resp, nil
}

func (m *mockGemini) Model() string { return "test-model" }

func textResponse(text string) *gemini.GenerateResponse {
	return &gemini.GenerateResponse{
		Candidates: []gemini.Candidate{{
			Content: gemini.Content{Role: "model", Parts: []gemini.Part{{Text: text}}},
		}},
	}
}

type fixture struct {
	uc   chat.UseCase
	repo repository.Repository
	llm  *mockGemini
}

func newFixture(t *testing.T, llm *mockGemini) fixture {
	t.Helper()
	l := log.Init(log.ZapConfig{Level: "error", Mode: "development", Encoding: "console"})
	dir := t.TempDir()

	renderer, err := chart.NewRenderer(dir)
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}
	charts, err := chart.NewRegistry(l, dir, 16, time.Hour)
	if err != nil {
		t.Fatalf("failed to create chart registry: %v", err)
	}

	repo := memory.New(8, time.Hour)
	uc := usecase.New(
		l,
		repo,
		orchestrator.New(llm, l),
		sandbox.New(time.Second, 2000),
		renderer,
		charts,
		usecase.Config{MaxUploadBytes: 1024, PreviewRows: 2, MaxMessageChars: 100},
	)
	return fixture{uc: uc, repo: repo, llm: llm}
}

func TestUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("well-formed CSV", func(t *testing.T) {
		f := newFixture(t, &mockGemini{})

		out, err := f.uc.Upload(ctx, "s1", chat.UploadInput{
			Filename: "cities.csv",
			Size:     int64(len(testCSV)),
			Data:     []byte(testCSV),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Summary.Shape.Rows != 3 || out.Summary.Shape.Columns != 2 {
			t.Errorf("expected shape 3x2, got %+v", out.Summary.Shape)
		}
		if len(out.Preview) != 2 {
			t.Errorf("expected preview capped at 2 rows, got %d", len(out.Preview))
		}

		session, err := f.repo.GetSession(ctx, "s1")
		if err != nil {
			t.Fatalf("expected session to be created: %v", err)
		}
		if session.Table == nil || session.Filename != "cities.csv" {
			t.Errorf("expected dataset installed on session")
		}
	})

	t.Run("wrong extension", func(t *testing.T) {
		f := newFixture(t, &mockGemini{})
		_, err := f.uc.Upload(ctx, "s1", chat.UploadInput{Filename: "cities.txt", Data: []byte(testCSV)})
		if !errors.Is(err, chat.ErrInvalidFileType) {
			t.Errorf("expected ErrInvalidFileType, got %v", err)
		}
	})

	t.Run("oversize", func(t *testing.T) {
		f := newFixture(t, &mockGemini{})
		big := make([]byte, 2048)
		_, err := f.uc.Upload(ctx, "s1", chat.UploadInput{Filename: "big.csv", Size: 2048, Data: big})
		if !errors.Is(err, chat.ErrFileTooLarge) {
			t.Errorf("expected ErrFileTooLarge, got %v", err)
		}
	})

	t.Run("bad upload leaves prior dataset untouched", func(t *testing.T) {
		f := newFixture(t, &mockGemini{})
		if _, err := f.uc.Upload(ctx, "s1", chat.UploadInput{Filename: "cities.csv", Data: []byte(testCSV)}); err != nil {
			t.Fatalf("seed upload failed: %v", err)
		}

		_, err := f.uc.Upload(ctx, "s1", chat.UploadInput{Filename: "broken.csv", Data: []byte("a,b\n1\n")})
		if !errors.Is(err, chat.ErrInvalidCSV) {
			t.Fatalf("expected ErrInvalidCSV, got %v", err)
		}

		session, err := f.repo.GetSession(ctx, "s1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if session.Filename != "cities.csv" || session.Table == nil || session.Table.Rows() != 3 {
			t.Errorf("expected prior dataset to survive failed upload")
		}
	})
}

func TestChat(t *testing.T) {
	ctx := context.Background()

	upload := func(t *testing.T, f fixture, sessionID string) {
		t.Helper()
		if _, err := f.uc.Upload(ctx, sessionID, chat.UploadInput{Filename: "cities.csv", Data: []byte(testCSV)}); err != nil {
			t.Fatalf("upload failed: %v", err)
		}
	}

	t.Run("no session", func(t *testing.T) {
		f := newFixture(t, &mockGemini{responses: []*gemini.GenerateResponse{textResponse("hi")}})
		_, err := f.uc.Chat(ctx, "ghost", chat.TurnInput{Message: "hello"})
		if !errors.Is(err, chat.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("empty message", func(t *testing.T) {
		f := newFixture(t, &mockGemini{responses: []*gemini.GenerateResponse{textResponse("hi")}})
		upload(t, f, "s1")
		_, err := f.uc.Chat(ctx, "s1", chat.TurnInput{Message: "  \n "})
		if !errors.Is(err, chat.ErrEmptyMessage) {
			t.Errorf("expected ErrEmptyMessage, got %v", err)
		}
	})

	t.Run("message too long", func(t *testing.T) {
		f := newFixture(t, &mockGemini{responses: []*gemini.GenerateResponse{textResponse("hi")}})
		upload(t, f, "s1")
		_, err := f.uc.Chat(ctx, "s1", chat.TurnInput{Message: strings.Repeat("x", 200)})
		if !errors.Is(err, chat.ErrMessageTooLong) {
			t.Errorf("expected ErrMessageTooLong, got %v", err)
		}
	})

	t.Run("two turns ordered in transcript", func(t *testing.T) {
		f := newFixture(t, &mockGemini{responses: []*gemini.GenerateResponse{textResponse("answer")}})
		upload(t, f, "s1")

		if _, err := f.uc.Chat(ctx, "s1", chat.TurnInput{Message: "first question"}); err != nil {
			t.Fatalf("first turn failed: %v", err)
		}
		if _, err := f.uc.Chat(ctx, "s1", chat.TurnInput{Message: "second question"}); err != nil {
			t.Fatalf("second turn failed: %v", err)
		}

		session, err := f.repo.GetSession(ctx, "s1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		// user, model, user, model
		if len(session.Contents) != 4 {
			t.Fatalf("expected 4 transcript entries, got %d", len(session.Contents))
		}
		if session.Contents[0].Parts[0].Text != "first question" ||
			session.Contents[2].Parts[0].Text != "second question" {
			t.Errorf("expected turns in order, got %+v", session.Contents)
		}
	})

	t.Run("upstream failure retains user turn", func(t *testing.T) {
		f := newFixture(t, &mockGemini{err: errors.New("model down")})
		upload(t, f, "s1")

		_, err := f.uc.Chat(ctx, "s1", chat.TurnInput{Message: "hello?"})
		if !errors.Is(err, chat.ErrUpstream) {
			t.Fatalf("expected ErrUpstream, got %v", err)
		}

		session, err := f.repo.GetSession(ctx, "s1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(session.Contents) != 1 || session.Contents[0].Parts[0].Text != "hello?" {
			t.Errorf("expected user turn retained, got %+v", session.Contents)
		}
	})

	t.Run("clear then chat fails with no session", func(t *testing.T) {
		f := newFixture(t, &mockGemini{responses: []*gemini.GenerateResponse{textResponse("hi")}})
		upload(t, f, "s1")

		if err := f.uc.Clear(ctx, "s1"); err != nil {
			t.Fatalf("clear failed: %v", err)
		}
		_, err := f.uc.Chat(ctx, "s1", chat.TurnInput{Message: "still there?"})
		if !errors.Is(err, chat.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound after clear, got %v", err)
		}
	})
}

func TestVisualization(t *testing.T) {
	ctx := context.Background()

	t.Run("requires session", func(t *testing.T) {
		f := newFixture(t, &mockGemini{})
		_, err := f.uc.Visualization(ctx, "ghost", "viz_x.png")
		if !errors.Is(err, chat.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("unknown chart", func(t *testing.T) {
		f := newFixture(t, &mockGemini{})
		if _, err := f.uc.Upload(ctx, "s1", chat.UploadInput{Filename: "cities.csv", Data: []byte(testCSV)}); err != nil {
			t.Fatalf("upload failed: %v", err)
		}
		_, err := f.uc.Visualization(ctx, "s1", "viz_unknown.png")
		if !errors.Is(err, chat.ErrChartNotFound) {
			t.Errorf("expected ErrChartNotFound, got %v", err)
		}
	})
}
