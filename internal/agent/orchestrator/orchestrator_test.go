package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"datachat/internal/agent"
	"datachat/internal/agent/tools"
	"datachat/internal/chart"
	"datachat/internal/dataset"
	"datachat/internal/sandbox"
	"datachat/pkg/gemini"
	"datachat/pkg/log"
)

// mockGemini replays scripted responses and records the requests it saw.
type mockGemini struct {
	responses []*gemini.GenerateResponse
	err       error
	requests  []gemini.GenerateRequest
}

func (m *mockGemini) GenerateContent(_ context.Context, req gemini.GenerateRequest) (*gemini.GenerateResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.responses) == 0 {
		return &gemini.GenerateResponse{}, nil
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

func (m *mockGemini) Model() string { return "test-model" }

func textResponse(text string) *gemini.GenerateResponse {
	return &gemini.GenerateResponse{
		Candidates: []gemini.Candidate{{
			Content: gemini.Content{
				Role:  "model",
				Parts: []gemini.Part{{Text: text}},
			},
		}},
	}
}

func callResponse(name string, args map[string]interface{}) *gemini.GenerateResponse {
	return &gemini.GenerateResponse{
		Candidates: []gemini.Candidate{{
			Content: gemini.Content{
				Role:  "model",
				Parts: []gemini.Part{{FunctionCall: &gemini.FunctionCall{Name: name, Args: args}}},
			},
		}},
	}
}

func testRegistry(t *testing.T) *agent.ToolRegistry {
	t.Helper()
	tbl, err := dataset.Parse("test.csv", strings.NewReader("city,price\nHanoi,100\nHue,200\n"))
	if err != nil {
		t.Fatalf("failed to parse CSV: %v", err)
	}
	dir := t.TempDir()
	renderer, err := chart.NewRenderer(dir)
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}
	l := log.Init(log.ZapConfig{Level: "error", Mode: "development", Encoding: "console"})
	charts, err := chart.NewRegistry(l, dir, 16, time.Hour)
	if err != nil {
		t.Fatalf("failed to create chart registry: %v", err)
	}
	return tools.NewRegistry(tbl, sandbox.New(time.Second, 2000), renderer, charts)
}

func userTurn(text string) []gemini.Content {
	return []gemini.Content{{Role: "user", Parts: []gemini.Part{{Text: text}}}}
}

func TestRunTurn(t *testing.T) {
	l := log.Init(log.ZapConfig{Level: "error", Mode: "development", Encoding: "console"})
	ctx := context.Background()

	t.Run("text only", func(t *testing.T) {
		llm := &mockGemini{responses: []*gemini.GenerateResponse{textResponse("The dataset has 2 rows.")}}
		o := New(llm, l)

		out, err := o.RunTurn(ctx, TurnInput{
			SystemInstruction: "analyst",
			Contents:          userTurn("how many rows?"),
			Registry:          testRegistry(t),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Text != "The dataset has 2 rows." {
			t.Errorf("unexpected text: %q", out.Text)
		}
		if len(out.Appended) != 0 {
			t.Errorf("expected no appended contents, got %d", len(out.Appended))
		}
		if len(llm.requests) != 1 {
			t.Fatalf("expected 1 model call, got %d", len(llm.requests))
		}
		if llm.requests[0].SystemInstruction == nil {
			t.Error("expected system instruction to be sent")
		}
		if len(llm.requests[0].Tools) != 1 {
			t.Errorf("expected tool declarations to be sent")
		}
	})

	t.Run("single tool round trip", func(t *testing.T) {
		llm := &mockGemini{responses: []*gemini.GenerateResponse{
			callResponse("dataset_info", map[string]interface{}{}),
			textResponse("2 rows, 2 columns."),
		}}
		o := New(llm, l)

		out, err := o.RunTurn(ctx, TurnInput{
			Contents: userTurn("shape?"),
			Registry: testRegistry(t),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Text != "2 rows, 2 columns." {
			t.Errorf("unexpected text: %q", out.Text)
		}
		if len(llm.requests) != 2 {
			t.Fatalf("expected 2 model calls, got %d", len(llm.requests))
		}
		if len(out.Appended) != 2 {
			t.Fatalf("expected functionCall + functionResponse appended, got %d", len(out.Appended))
		}
		if out.Appended[0].Role != "model" || out.Appended[1].Role != "function" {
			t.Errorf("unexpected appended roles: %s, %s", out.Appended[0].Role, out.Appended[1].Role)
		}

		// The follow-up call must carry the tool result.
		followUp := llm.requests[1]
		last := followUp.Contents[len(followUp.Contents)-1]
		if last.Parts[0].FunctionResponse == nil {
			t.Error("expected follow-up request to end with a function response")
		}
	})

	t.Run("unknown tool fed back as error", func(t *testing.T) {
		llm := &mockGemini{responses: []*gemini.GenerateResponse{
			callResponse("teleport", map[string]interface{}{}),
			textResponse("Sorry, I cannot do that."),
		}}
		o := New(llm, l)

		out, err := o.RunTurn(ctx, TurnInput{
			Contents: userTurn("teleport me"),
			Registry: testRegistry(t),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		resp := out.Appended[1].Parts[0].FunctionResponse
		payload, ok := resp.Response.(map[string]interface{})
		if !ok || payload["error"] != ErrMsgToolNotFound {
			t.Errorf("expected tool-not-found error payload, got %v", resp.Response)
		}
	})

	t.Run("chart references collected", func(t *testing.T) {
		llm := &mockGemini{responses: []*gemini.GenerateResponse{
			callResponse("create_chart", map[string]interface{}{
				"chart_type": "histogram",
				"x_column":   "price",
			}),
			textResponse("Here is the distribution."),
		}}
		o := New(llm, l)

		out, err := o.RunTurn(ctx, TurnInput{
			Contents: userTurn("plot price"),
			Registry: testRegistry(t),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(out.Visualizations) != 1 {
			t.Fatalf("expected 1 visualization, got %d", len(out.Visualizations))
		}
		if !strings.HasPrefix(out.Visualizations[0], "/api/viz/viz_") {
			t.Errorf("unexpected visualization path: %s", out.Visualizations[0])
		}
	})

	t.Run("upstream failure surfaces immediately", func(t *testing.T) {
		llm := &mockGemini{err: errors.New("boom")}
		o := New(llm, l)

		_, err := o.RunTurn(ctx, TurnInput{
			Contents: userTurn("hello"),
			Registry: testRegistry(t),
		})
		if err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("empty follow-up text falls back", func(t *testing.T) {
		llm := &mockGemini{responses: []*gemini.GenerateResponse{
			callResponse("dataset_info", map[string]interface{}{}),
			callResponse("dataset_info", map[string]interface{}{}),
		}}
		o := New(llm, l)

		out, err := o.RunTurn(ctx, TurnInput{
			Contents: userTurn("shape?"),
			Registry: testRegistry(t),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Text != FallbackReply {
			t.Errorf("expected fallback reply, got %q", out.Text)
		}
	})
}
