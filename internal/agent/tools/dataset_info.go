// Package tools implements the analysis functions the model can invoke on
// the uploaded dataset. Every tool validates its own arguments and reports
// failures as {"error": ...} payloads that the chat loop relays to the model.
package tools

import (
	"context"

	"datachat/internal/agent"
	"datachat/internal/dataset"
)

const DatasetInfoName = "dataset_info"

// DatasetInfoTool reports the structure of the uploaded dataset. Pure read.
type DatasetInfoTool struct {
	tbl *dataset.Table
}

// NewDatasetInfoTool creates a dataset info tool bound to a table.
func NewDatasetInfoTool(tbl *dataset.Table) agent.Tool {
	return &DatasetInfoTool{tbl: tbl}
}

func (t *DatasetInfoTool) Name() string {
	return DatasetInfoName
}

func (t *DatasetInfoTool) Description() string {
	return "Get structural information about the dataset: shape, column names, column types, missing value counts, and memory usage."
}

func (t *DatasetInfoTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func (t *DatasetInfoTool) Execute(_ context.Context, _ map[string]interface{}) (map[string]interface{}, error) {
	s := t.tbl.Summary()
	return map[string]interface{}{
		"shape": map[string]interface{}{
			"rows":    s.Shape.Rows,
			"columns": s.Shape.Columns,
		},
		"columns":         s.Columns,
		"column_kinds":    s.ColumnKinds,
		"missing_values":  s.MissingValues,
		"total_missing":   s.TotalMissing,
		"memory_usage_mb": s.MemoryUsageMB,
	}, nil
}
