package tools

import (
	"context"

	"datachat/internal/agent"
	"datachat/internal/dataset"
	"datachat/internal/sandbox"
)

const RunAnalysisName = "run_analysis"

// RunAnalysisTool evaluates an ad-hoc expression against the dataset inside
// the restricted interpreter. The sandbox package documents the limits of
// this boundary.
type RunAnalysisTool struct {
	evaluator *sandbox.Evaluator
	tbl       *dataset.Table
}

// NewRunAnalysisTool creates a restricted analysis tool bound to a table.
func NewRunAnalysisTool(evaluator *sandbox.Evaluator, tbl *dataset.Table) agent.Tool {
	return &RunAnalysisTool{evaluator: evaluator, tbl: tbl}
}

func (t *RunAnalysisTool) Name() string {
	return RunAnalysisName
}

func (t *RunAnalysisTool) Description() string {
	return "Evaluate a single expression against the dataset. The variable df exposes the table (df.Rows(), df.Columns(), df.Col(\"name\"), df.Head(n)); numeric helpers include mean, median, std, variance, min, max, sum, quantile, corr, count, unique, abs, round, sorted. No imports, no I/O."
}

func (t *RunAnalysisTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"code": map[string]interface{}{
				"type":        "string",
				"description": "The expression to evaluate, e.g. mean(df.Col(\"price\"))",
			},
		},
		"required": []string{"code"},
	}
}

func (t *RunAnalysisTool) Execute(ctx context.Context, params map[string]interface{}) (map[string]interface{}, error) {
	code, err := requiredStringParam(params, "code")
	if err != nil {
		return errResult(err.Error()), nil
	}

	result, err := t.evaluator.Run(ctx, code, t.tbl)
	if err != nil {
		return errResult(err.Error()), nil
	}
	return map[string]interface{}{
		"type":   result.Type,
		"result": result.Value,
	}, nil
}
