package tools_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"datachat/internal/agent/tools"
	"datachat/internal/chart"
	"datachat/internal/dataset"
	"datachat/internal/sandbox"
	"datachat/pkg/log"
)

const testCSV = `city,price,rooms
Hanoi,100,2
Hue,200,3
Hanoi,300,4
Saigon,,5
`

func testTable(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.Parse("test.csv", strings.NewReader(testCSV))
	if err != nil {
		t.Fatalf("failed to parse test CSV: %v", err)
	}
	return tbl
}

func testLogger() log.Logger {
	return log.Init(log.ZapConfig{Level: "error", Mode: "development", Encoding: "console"})
}

func TestDatasetInfoTool(t *testing.T) {
	tool := tools.NewDatasetInfoTool(testTable(t))

	out, err := tool.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	shape, ok := out["shape"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected shape map, got %T", out["shape"])
	}
	if shape["rows"] != 4 || shape["columns"] != 3 {
		t.Errorf("expected shape 4x3, got %v", shape)
	}

	missing := out["missing_values"].(map[string]int)
	if missing["price"] != 1 {
		t.Errorf("expected 1 missing price cell, got %d", missing["price"])
	}
	if out["total_missing"] != 1 {
		t.Errorf("expected total_missing 1, got %v", out["total_missing"])
	}
}

func TestStatisticalSummaryTool(t *testing.T) {
	tool := tools.NewStatisticalSummaryTool(testTable(t))
	ctx := context.Background()

	t.Run("all numeric columns", func(t *testing.T) {
		out, err := tool.Execute(ctx, map[string]interface{}{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		describe := out["describe"].(map[string]interface{})
		price := describe["price"].(map[string]interface{})
		if price["count"] != 3 {
			t.Errorf("expected price count 3, got %v", price["count"])
		}
		if price["mean"] != 200.0 {
			t.Errorf("expected price mean 200, got %v", price["mean"])
		}
		if price["min"] != 100.0 || price["max"] != 300.0 {
			t.Errorf("expected price min/max 100/300, got %v/%v", price["min"], price["max"])
		}

		if _, ok := out["correlations"]; !ok {
			t.Error("expected correlations for two numeric columns")
		}
	})

	t.Run("column subset", func(t *testing.T) {
		out, err := tool.Execute(ctx, map[string]interface{}{
			"columns": []interface{}{"rooms"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		describe := out["describe"].(map[string]interface{})
		if _, ok := describe["price"]; ok {
			t.Error("expected price to be filtered out")
		}
		rooms := describe["rooms"].(map[string]interface{})
		if rooms["count"] != 4 {
			t.Errorf("expected rooms count 4, got %v", rooms["count"])
		}
		if _, ok := out["correlations"]; ok {
			t.Error("expected no correlations for a single column")
		}
	})

	t.Run("unknown column", func(t *testing.T) {
		out, err := tool.Execute(ctx, map[string]interface{}{
			"columns": []interface{}{"ghost"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := out["error"]; !ok {
			t.Error("expected error payload for unknown column")
		}
	})

	t.Run("no numeric columns", func(t *testing.T) {
		out, err := tool.Execute(ctx, map[string]interface{}{
			"columns": []interface{}{"city"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out["error"] != "no numeric columns found" {
			t.Errorf("expected no-numeric error, got %v", out)
		}
	})
}

func TestRunAnalysisTool(t *testing.T) {
	evaluator := sandbox.New(2*time.Second, 2000)
	tool := tools.NewRunAnalysisTool(evaluator, testTable(t))
	ctx := context.Background()

	t.Run("evaluates expression", func(t *testing.T) {
		out, err := tool.Execute(ctx, map[string]interface{}{
			"code": `mean(df.Col("price"))`,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out["type"] != "scalar" || out["result"] != 200.0 {
			t.Errorf("expected scalar 200, got %v", out)
		}
	})

	t.Run("denylisted snippet rejected", func(t *testing.T) {
		out, err := tool.Execute(ctx, map[string]interface{}{
			"code": `import os`,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		msg, ok := out["error"].(string)
		if !ok || !strings.Contains(msg, "import") {
			t.Errorf("expected denylist error naming the token, got %v", out)
		}
	})

	t.Run("missing code", func(t *testing.T) {
		out, err := tool.Execute(ctx, map[string]interface{}{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := out["error"]; !ok {
			t.Error("expected error payload when code is missing")
		}
	})
}

func TestCreateChartTool(t *testing.T) {
	dir := t.TempDir()
	renderer, err := chart.NewRenderer(dir)
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}
	registry, err := chart.NewRegistry(testLogger(), dir, 16, time.Hour)
	if err != nil {
		t.Fatalf("failed to create registry: %v", err)
	}
	tool := tools.NewCreateChartTool(renderer, registry, testTable(t))
	ctx := context.Background()

	t.Run("renders and registers", func(t *testing.T) {
		out, err := tool.Execute(ctx, map[string]interface{}{
			"chart_type": "bar",
			"x_column":   "city",
			"y_column":   "price",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		name, ok := out["chart"].(string)
		if !ok || name == "" {
			t.Fatalf("expected chart name, got %v", out)
		}
		path, ok := registry.Path(name)
		if !ok {
			t.Fatalf("expected chart %q to be registered", name)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected chart file on disk: %v", err)
		}
		if out["path"] != "/api/viz/"+name {
			t.Errorf("expected viz path, got %v", out["path"])
		}
	})

	t.Run("unsupported kind creates no file", func(t *testing.T) {
		before := registry.Len()
		out, err := tool.Execute(ctx, map[string]interface{}{
			"chart_type": "donut",
			"x_column":   "city",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := out["error"]; !ok {
			t.Error("expected error payload for unsupported kind")
		}
		if registry.Len() != before {
			t.Error("expected no chart to be registered")
		}
	})

	t.Run("unknown column creates no file", func(t *testing.T) {
		before := registry.Len()
		out, err := tool.Execute(ctx, map[string]interface{}{
			"chart_type": "histogram",
			"x_column":   "ghost",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := out["error"]; !ok {
			t.Error("expected error payload for unknown column")
		}
		if registry.Len() != before {
			t.Error("expected no chart to be registered")
		}
	})
}
