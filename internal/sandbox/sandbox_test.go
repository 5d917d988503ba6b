package sandbox

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"datachat/internal/dataset"
)

const fixtureCSV = `product,price,units,in_stock
widget,10.5,3,true
gadget,20.0,5,false
doohickey,4.5,2,true
gizmo,15.0,10,true
`

func newTable(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.Parse("fixture.csv", strings.NewReader(fixtureCSV))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return tbl
}

func TestRun(t *testing.T) {
	e := New(0, 0)
	tbl := newTable(t)
	ctx := context.Background()

	t.Run("Scalar Mean", func(t *testing.T) {
		res, err := e.Run(ctx, `mean(df.Col("price"))`, tbl)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if res.Type != "scalar" {
			t.Errorf("Type = %q, want scalar", res.Type)
		}
		if got := res.Value.(float64); got != 12.5 {
			t.Errorf("Value = %v, want 12.5", got)
		}
	})

	t.Run("Sum", func(t *testing.T) {
		res, err := e.Run(ctx, `sum(df.Col("units"))`, tbl)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if got := res.Value.(float64); got != 20 {
			t.Errorf("Value = %v, want 20", got)
		}
	})

	t.Run("Sorted Series", func(t *testing.T) {
		res, err := e.Run(ctx, `sorted(df.Col("price"))`, tbl)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if res.Type != "series" {
			t.Errorf("Type = %q, want series", res.Type)
		}
		got := res.Value.([]float64)
		want := []float64{4.5, 10.5, 15, 20}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("Value = %v, want %v", got, want)
			}
		}
	})

	t.Run("Arithmetic On Frame", func(t *testing.T) {
		res, err := e.Run(ctx, `df.Rows() * df.Cols()`, tbl)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if res.Type != "scalar" {
			t.Errorf("Type = %q, want scalar", res.Type)
		}
		if got := res.Value.(int); got != 16 {
			t.Errorf("Value = %v, want 16", got)
		}
	})

	t.Run("Boolean Scalar", func(t *testing.T) {
		res, err := e.Run(ctx, `df.Rows() > 3`, tbl)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if got := res.Value.(bool); !got {
			t.Errorf("Value = %v, want true", got)
		}
	})

	t.Run("Head Table", func(t *testing.T) {
		res, err := e.Run(ctx, `df.Head(2)`, tbl)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if res.Type != "table" {
			t.Errorf("Type = %q, want table", res.Type)
		}
		rows := res.Value.([]map[string]any)
		if len(rows) != 2 {
			t.Fatalf("len(rows) = %d, want 2", len(rows))
		}
		if rows[0]["product"] != "widget" {
			t.Errorf("rows[0][product] = %v, want widget", rows[0]["product"])
		}
	})

	t.Run("Quantile", func(t *testing.T) {
		res, err := e.Run(ctx, `quantile(df.Col("units"), 1.0)`, tbl)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if got := res.Value.(float64); got != 10 {
			t.Errorf("Value = %v, want 10", got)
		}
	})

	t.Run("Unique Collection", func(t *testing.T) {
		res, err := e.Run(ctx, `unique(df.Raw("in_stock"))`, tbl)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if res.Type != "collection" {
			t.Errorf("Type = %q, want collection", res.Type)
		}
		if got := res.Value.([]any); len(got) != 2 {
			t.Errorf("len(Value) = %d, want 2", len(got))
		}
	})

	t.Run("Correlation In Range", func(t *testing.T) {
		res, err := e.Run(ctx, `corr(df.Col("price"), df.Col("units"))`, tbl)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		got := res.Value.(float64)
		if got < -1 || got > 1 {
			t.Errorf("Value = %v, want within [-1, 1]", got)
		}
	})

	t.Run("Unknown Column", func(t *testing.T) {
		_, err := e.Run(ctx, `mean(df.Col("nope"))`, tbl)
		if err == nil {
			t.Fatal("Run() error = nil, want column error")
		}
		if !strings.Contains(err.Error(), "does not exist") {
			t.Errorf("error = %v, want column error", err)
		}
	})

	t.Run("Compile Error", func(t *testing.T) {
		_, err := e.Run(ctx, `mean(`, tbl)
		if err == nil {
			t.Fatal("Run() error = nil, want compile error")
		}
		if !strings.Contains(err.Error(), "compile error") {
			t.Errorf("error = %v, want compile error", err)
		}
	})
}

func TestCheck(t *testing.T) {
	e := New(0, 0)

	denied := []string{
		`import pandas`,
		`df.Raw("__dict__")`,
		`os.system("rm -rf /")`,
		`exec(payload)`,
		`OPEN("/etc/passwd")`,
		`compile(src)`,
	}
	for _, code := range denied {
		if err := e.Check(code); !errors.Is(err, ErrDenied) {
			t.Errorf("Check(%q) = %v, want ErrDenied", code, err)
		}
	}

	allowed := []string{
		`mean(df.Col("price"))`,
		`df.Rows()`,
		`quantile(df.Col("units"), 0.75)`,
	}
	for _, code := range allowed {
		if err := e.Check(code); err != nil {
			t.Errorf("Check(%q) = %v, want nil", code, err)
		}
	}

	t.Run("Length Cap", func(t *testing.T) {
		short := New(0, 10)
		if err := short.Check(strings.Repeat("a", 11)); !errors.Is(err, ErrTooLong) {
			t.Errorf("Check() = %v, want ErrTooLong", err)
		}
	})
}

func TestRun_DeniedBeforeEvaluation(t *testing.T) {
	e := New(0, 0)
	called := false
	env := map[string]any{
		"probe": func() int {
			called = true
			return 1
		},
	}

	_, err := e.run(context.Background(), `probe() + import`, env)
	if !errors.Is(err, ErrDenied) {
		t.Fatalf("run() error = %v, want ErrDenied", err)
	}
	if called {
		t.Error("environment function was invoked for a denied snippet")
	}
}

func TestRun_Timeout(t *testing.T) {
	e := New(30*time.Millisecond, 0)
	env := map[string]any{
		"slow": func() int {
			time.Sleep(500 * time.Millisecond)
			return 1
		},
	}

	_, err := e.run(context.Background(), `slow()`, env)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("run() error = %v, want ErrTimeout", err)
	}
}

func TestRun_Cancelled(t *testing.T) {
	e := New(time.Second, 0)
	env := map[string]any{
		"slow": func() int {
			time.Sleep(500 * time.Millisecond)
			return 1
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.run(ctx, `slow()`, env)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("run() error = %v, want context.Canceled", err)
	}
}
