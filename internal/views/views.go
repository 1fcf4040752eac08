package views

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/clashflow/clashflow-shell/internal/logger"
	"github.com/clashflow/clashflow-shell/internal/router"
	"github.com/clashflow/clashflow-shell/pkg/finance"
)

// View is a routed screen.
type View interface {
	Name() string
	Render(ctx context.Context, w io.Writer) error
}

// FinanceAPI is the part of the finance client the views read from.
type FinanceAPI interface {
	List(ctx context.Context) ([]finance.Transaction, error)
	Stats(ctx context.Context) (finance.Stats, error)
}

// Registry maps component names to views.
type Registry struct {
	mu    sync.RWMutex
	views map[string]View
}

// NewRegistry returns a registry holding views.
func NewRegistry(views ...View) *Registry {
	r := &Registry{views: make(map[string]View, len(views))}
	for _, v := range views {
		r.Register(v)
	}
	return r
}

// DefaultRegistry wires the built-in views.
func DefaultRegistry(api FinanceAPI, log logger.Logger) *Registry {
	return NewRegistry(
		NewDashboard(api, log),
		NewAnalysis(api, log),
	)
}

// Register adds v under its name, replacing any previous view of that name.
func (r *Registry) Register(v View) {
	if v == nil || strings.TrimSpace(v.Name()) == "" {
		return
	}
	r.mu.Lock()
	r.views[strings.TrimSpace(v.Name())] = v
	r.mu.Unlock()
}

// Lookup satisfies router.ComponentResolver.
func (r *Registry) Lookup(component string) (router.Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.views[strings.TrimSpace(component)]
	if !ok {
		return nil, false
	}
	return v, true
}
