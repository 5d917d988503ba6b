package orchestrator

import (
	"strings"
	"testing"

	"datachat/internal/dataset"
)

func TestBuildDatasetContext(t *testing.T) {
	t.Run("nil table", func(t *testing.T) {
		if got := BuildDatasetContext(nil); got != "" {
			t.Errorf("expected empty context, got %q", got)
		}
	})

	t.Run("describes table", func(t *testing.T) {
		tbl, err := dataset.Parse("sales.csv", strings.NewReader("region,amount\nnorth,10\nsouth,\n"))
		if err != nil {
			t.Fatalf("failed to parse CSV: %v", err)
		}

		got := BuildDatasetContext(tbl)
		for _, want := range []string{
			"File: sales.csv",
			"Shape: 2 rows x 2 columns",
			"- region (string)",
			"- amount (number, 1 missing)",
		} {
			if !strings.Contains(got, want) {
				t.Errorf("expected context to contain %q, got:\n%s", want, got)
			}
		}
	})
}
