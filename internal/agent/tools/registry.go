package tools

import (
	"datachat/internal/agent"
	"datachat/internal/chart"
	"datachat/internal/dataset"
	"datachat/internal/sandbox"
)

// NewRegistry builds the tool registry for one dataset. Tools are bound to
// the table at registration, so each chat turn gets a registry for the
// session's current dataset.
func NewRegistry(tbl *dataset.Table, evaluator *sandbox.Evaluator, renderer *chart.Renderer, charts *chart.Registry) *agent.ToolRegistry {
	registry := agent.NewToolRegistry()
	registry.Register(NewDatasetInfoTool(tbl))
	registry.Register(NewStatisticalSummaryTool(tbl))
	registry.Register(NewRunAnalysisTool(evaluator, tbl))
	registry.Register(NewCreateChartTool(renderer, charts, tbl))
	return registry
}
