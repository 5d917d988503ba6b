package chart

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"datachat/pkg/log"
)

const (
	DefaultRetention  = 24 * time.Hour
	DefaultMaxEntries = 512
)

// Registry tracks rendered chart files by name. Entries expire after the
// retention TTL or when capacity is exceeded; eviction removes the file
// from disk. Charts therefore outlive the session that created them but
// not the retention window.
type Registry struct {
	l     log.Logger
	dir   string
	files *expirable.LRU[string, string]
}

// NewRegistry wires the TTL store and sweeps chart files left behind by a
// previous run.
func NewRegistry(l log.Logger, dir string, maxEntries int, ttl time.Duration) (*Registry, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve charts dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create charts dir: %w", err)
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if ttl <= 0 {
		ttl = DefaultRetention
	}

	r := &Registry{l: l, dir: abs}
	r.files = expirable.NewLRU[string, string](maxEntries, r.onEvict, ttl)
	r.sweep()
	return r, nil
}

// Add registers a rendered chart for retrieval.
func (r *Registry) Add(meta Meta) {
	r.files.Add(meta.Name, meta.Path)
}

// Path resolves a chart name to its file path. ok is false for unknown or
// expired names.
func (r *Registry) Path(name string) (string, bool) {
	return r.files.Get(name)
}

// Len returns the number of live charts.
func (r *Registry) Len() int {
	return r.files.Len()
}

// Dir returns the absolute charts directory.
func (r *Registry) Dir() string {
	return r.dir
}

func (r *Registry) onEvict(name, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		r.l.Warnf(context.Background(), "chart.Registry.onEvict: failed to remove %s: %v", path, err)
	}
}

// sweep removes chart files the registry does not know about. Run at
// startup, when the registry is empty, it clears leftovers from earlier
// runs.
func (r *Registry) sweep() {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		r.l.Warnf(context.Background(), "chart.Registry.sweep: failed to read %s: %v", r.dir, err)
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "viz_") || !strings.HasSuffix(name, ".png") {
			continue
		}
		if _, ok := r.files.Get(name); ok {
			continue
		}
		if err := os.Remove(filepath.Join(r.dir, name)); err != nil {
			r.l.Warnf(context.Background(), "chart.Registry.sweep: failed to remove %s: %v", name, err)
		}
	}
}
