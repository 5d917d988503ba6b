package orchestrator

import (
	"fmt"
	"strings"

	"datachat/internal/dataset"
)

// BuildDatasetContext creates the dataset description appended to the system
// instruction so the model knows what it is working with.
func BuildDatasetContext(tbl *dataset.Table) string {
	if tbl == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n", tbl.Filename)
	fmt.Fprintf(&b, "Shape: %d rows x %d columns\n", tbl.Rows(), tbl.Cols())
	b.WriteString("Columns:\n")
	for _, col := range tbl.Columns {
		fmt.Fprintf(&b, "- %s (%s", col.Name, col.Kind)
		if col.Missing > 0 {
			fmt.Fprintf(&b, ", %d missing", col.Missing)
		}
		b.WriteString(")\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
