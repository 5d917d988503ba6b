package orchestrator

import (
	"context"
	"fmt"

	"datachat/internal/agent"
	"datachat/internal/agent/tools"
	"datachat/pkg/gemini"
)

// RunTurn executes a single chat turn: one generateContent call, and when
// the model requests tools, one dispatch round followed by exactly one
// follow-up call for the final text. There is no further tool chaining.
func (o *Orchestrator) RunTurn(ctx context.Context, in TurnInput) (TurnOutput, error) {
	req := gemini.GenerateRequest{
		Contents: in.Contents,
		Tools:    in.Registry.ToFunctionDeclarations(),
	}
	if in.SystemInstruction != "" {
		req.SystemInstruction = &gemini.Content{
			Parts: []gemini.Part{{Text: in.SystemInstruction}},
		}
	}

	resp, err := o.llm.GenerateContent(ctx, req)
	if err != nil {
		return TurnOutput{}, fmt.Errorf("model call failed: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return TurnOutput{}, fmt.Errorf("%s", ErrMsgEmptyLLMResponse)
	}

	calls := resp.FunctionCalls()
	if len(calls) == 0 {
		return TurnOutput{Text: resp.Text()}, nil
	}

	out := TurnOutput{}

	// Dispatch every call from this single response, then continue the
	// conversation with the function results.
	for _, call := range calls {
		o.l.Infof(ctx, LogMsgCallingTool, call.Name, call.Args)

		result := o.execute(ctx, in.Registry, call)
		if viz, ok := vizPath(call.Name, result); ok {
			out.Visualizations = append(out.Visualizations, viz)
		}

		out.Appended = append(out.Appended,
			gemini.Content{
				Role:  gemini.RoleModel,
				Parts: []gemini.Part{{FunctionCall: &gemini.FunctionCall{Name: call.Name, Args: call.Args}}},
			},
			gemini.Content{
				Role: gemini.RoleFunction,
				Parts: []gemini.Part{{
					FunctionResponse: &gemini.FunctionResponse{
						Name:     call.Name,
						Response: result,
					},
				}},
			},
		)
	}

	req.Contents = append(in.Contents, out.Appended...)
	followUp, err := o.llm.GenerateContent(ctx, req)
	if err != nil {
		return TurnOutput{}, fmt.Errorf("model follow-up call failed: %w", err)
	}

	if len(followUp.FunctionCalls()) > 0 {
		o.l.Warn(ctx, LogMsgFollowUpTools)
	}
	out.Text = followUp.Text()
	if out.Text == "" {
		out.Text = FallbackReply
	}
	return out, nil
}

// execute runs one tool call. Failures of any kind become error payloads
// for the model, never turn-level errors.
func (o *Orchestrator) execute(ctx context.Context, registry *agent.ToolRegistry, call gemini.FunctionCall) map[string]interface{} {
	tool, ok := registry.Get(call.Name)
	if !ok {
		o.l.Errorf(ctx, LogMsgToolUnknown, call.Name)
		return map[string]interface{}{"error": ErrMsgToolNotFound}
	}

	result, err := tool.Execute(ctx, call.Args)
	if err != nil {
		o.l.Errorf(ctx, LogMsgToolFailed, call.Name, err)
		return map[string]interface{}{"error": err.Error()}
	}
	return result
}

func vizPath(toolName string, result map[string]interface{}) (string, bool) {
	if toolName != tools.CreateChartName || result == nil {
		return "", false
	}
	path, ok := result["path"].(string)
	return path, ok && path != ""
}
