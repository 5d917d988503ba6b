package tools

import (
	"context"

	"datachat/internal/agent"
	"datachat/internal/chart"
	"datachat/internal/dataset"
)

const CreateChartName = "create_chart"

// CreateChartTool renders a visualization of the dataset to a PNG file and
// registers it for retrieval. Validation failures never create a file.
type CreateChartTool struct {
	renderer *chart.Renderer
	registry *chart.Registry
	tbl      *dataset.Table
}

// NewCreateChartTool creates a chart tool bound to a table.
func NewCreateChartTool(renderer *chart.Renderer, registry *chart.Registry, tbl *dataset.Table) agent.Tool {
	return &CreateChartTool{renderer: renderer, registry: registry, tbl: tbl}
}

func (t *CreateChartTool) Name() string {
	return CreateChartName
}

func (t *CreateChartTool) Description() string {
	return "Create a visualization of the dataset and return a reference the application displays to the user."
}

func (t *CreateChartTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"chart_type": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"bar", "line", "scatter", "histogram", "box", "pie", "heatmap"},
				"description": "The kind of chart to create",
			},
			"x_column": map[string]interface{}{
				"type":        "string",
				"description": "Column for the x axis (ignored for heatmap)",
			},
			"y_column": map[string]interface{}{
				"type":        "string",
				"description": "Column for the y axis (optional; required for scatter)",
			},
			"title": map[string]interface{}{
				"type":        "string",
				"description": "Chart title (optional)",
			},
			"aggregation": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"sum", "mean", "count", "min", "max", "median"},
				"description": "Aggregation for bar and pie charts (default mean)",
			},
		},
		"required": []string{"chart_type"},
	}
}

func (t *CreateChartTool) Execute(_ context.Context, params map[string]interface{}) (map[string]interface{}, error) {
	chartType, err := requiredStringParam(params, "chart_type")
	if err != nil {
		return errResult(err.Error()), nil
	}
	kind, err := chart.ParseKind(chartType)
	if err != nil {
		return errResult(err.Error()), nil
	}

	req := chart.Request{Kind: kind}
	if req.X, err = stringParam(params, "x_column"); err != nil {
		return errResult(err.Error()), nil
	}
	if req.Y, err = stringParam(params, "y_column"); err != nil {
		return errResult(err.Error()), nil
	}
	if req.Title, err = stringParam(params, "title"); err != nil {
		return errResult(err.Error()), nil
	}
	if req.Aggregation, err = stringParam(params, "aggregation"); err != nil {
		return errResult(err.Error()), nil
	}

	meta, err := t.renderer.Render(t.tbl, req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	t.registry.Add(meta)

	return map[string]interface{}{
		"chart": meta.Name,
		"path":  "/api/viz/" + meta.Name,
		"title": meta.Title,
	}, nil
}
