// Package sandbox evaluates ad-hoc analysis expressions against an uploaded
// dataset. Expressions run in an embedded expression interpreter with a
// fixed environment (the table wrapper and a numeric function library), a
// snippet length cap, and a wall-clock limit. A denylist rejects obviously
// dangerous snippets before compilation. This is an in-process interpreter
// boundary with no I/O and no imports, not OS-level isolation.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"datachat/internal/dataset"
)

const (
	DefaultTimeout      = 2 * time.Second
	DefaultMaxCodeChars = 2000
)

var (
	// ErrDenied marks snippets rejected by the denylist before evaluation.
	ErrDenied = errors.New("code rejected by safety filter")

	// ErrTimeout marks evaluations that exceeded the wall-clock limit.
	ErrTimeout = errors.New("evaluation timed out")

	// ErrTooLong marks snippets over the length cap.
	ErrTooLong = errors.New("code exceeds maximum length")
)

// denylist is matched as lowercase substrings against the whole snippet.
// Shallow by design of the feature: it guards against casual abuse, the
// interpreter environment is the actual boundary.
var denylist = []string{
	"import",
	"exec",
	"eval",
	"__",
	"open",
	"file(",
	"input",
	"compile",
	"os.",
	"syscall",
}

// Result is a type-tagged evaluation outcome.
type Result struct {
	Type  string `json:"type"` // scalar | series | table | collection | other
	Value any    `json:"value"`
}

// Evaluator runs restricted expressions against a dataset.
type Evaluator struct {
	timeout      time.Duration
	maxCodeChars int
}

// New creates an Evaluator. Zero values select the defaults.
func New(timeout time.Duration, maxCodeChars int) *Evaluator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxCodeChars <= 0 {
		maxCodeChars = DefaultMaxCodeChars
	}
	return &Evaluator{timeout: timeout, maxCodeChars: maxCodeChars}
}

// Check runs the pre-evaluation guards only: length cap and denylist.
// A non-nil error means the snippet must not be compiled or evaluated.
func (e *Evaluator) Check(code string) error {
	if len(code) > e.maxCodeChars {
		return fmt.Errorf("%w (%d > %d chars)", ErrTooLong, len(code), e.maxCodeChars)
	}
	lowered := strings.ToLower(code)
	for _, token := range denylist {
		if strings.Contains(lowered, token) {
			return fmt.Errorf("%w: contains %q", ErrDenied, token)
		}
	}
	return nil
}

// Run evaluates a snippet against the table. The snippet sees the variable
// df plus the numeric helpers from env.go, nothing else. On timeout the
// result is discarded; the evaluation goroutine is left to finish on its
// own since the interpreter has no preemption points.
func (e *Evaluator) Run(ctx context.Context, code string, tbl *dataset.Table) (Result, error) {
	return e.run(ctx, code, buildEnv(tbl))
}

func (e *Evaluator) run(ctx context.Context, code string, env map[string]any) (Result, error) {
	if err := e.Check(code); err != nil {
		return Result{}, err
	}

	program, err := expr.Compile(code, expr.Env(env))
	if err != nil {
		return Result{}, fmt.Errorf("compile error: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type outcome struct {
		value any
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("evaluation panicked: %v", r)}
			}
		}()
		value, err := runProgram(program, env)
		done <- outcome{value: value, err: err}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{}, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
		}
		return Result{}, ctx.Err()
	case out := <-done:
		if out.err != nil {
			return Result{}, fmt.Errorf("evaluation error: %w", out.err)
		}
		return tagResult(out.value), nil
	}
}

func runProgram(program *vm.Program, env map[string]any) (any, error) {
	return expr.Run(program, env)
}

// tagResult classifies the raw interpreter value the way clients expect.
func tagResult(v any) Result {
	switch val := v.(type) {
	case nil:
		return Result{Type: "scalar", Value: nil}
	case bool, string, int, int64, float64:
		return Result{Type: "scalar", Value: val}
	case []float64:
		return Result{Type: "series", Value: val}
	case []map[string]any:
		return Result{Type: "table", Value: val}
	case []string, []any, map[string]any:
		return Result{Type: "collection", Value: val}
	default:
		return Result{Type: "other", Value: fmt.Sprint(val)}
	}
}
