package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoRoute is returned when a path matches no entry.
var ErrNoRoute = errors.New("no route matches path")

const (
	ComponentDashboard = "Dashboard"
	ComponentAnalysis  = "Analysis"
)

// Renderer is the capability every routed view provides.
type Renderer interface {
	Render(ctx context.Context, w io.Writer) error
}

// Route is one entry of the table as declared in code or a routes file.
type Route struct {
	Path      string `json:"path" yaml:"path"`
	Name      string `json:"name" yaml:"name"`
	Component string `json:"component" yaml:"component"`
}

// Entry is a Route bound to its view.
type Entry struct {
	Route
	View Renderer
}

// ComponentResolver looks up the view registered under a component name.
type ComponentResolver func(component string) (Renderer, bool)

// Table is an immutable, ordered route table.
type Table struct {
	history History
	entries []Entry
	byPath  map[string]int
	byName  map[string]int
}

// DefaultRoutes returns the built-in table.
func DefaultRoutes() []Route {
	return []Route{
		{Path: "/", Name: "home", Component: ComponentDashboard},
		{Path: "/analysis", Name: "analysis", Component: ComponentAnalysis},
	}
}

// New validates routes and binds each one to the view returned by resolve.
func New(history History, routes []Route, resolve ComponentResolver) (*Table, error) {
	if resolve == nil {
		return nil, errors.New("component resolver must not be nil")
	}
	if len(routes) == 0 {
		return nil, errors.New("route table is empty")
	}

	t := &Table{
		history: history,
		entries: make([]Entry, 0, len(routes)),
		byPath:  make(map[string]int, len(routes)),
		byName:  make(map[string]int, len(routes)),
	}

	for i, r := range routes {
		r = sanitizeRoute(r)
		if err := validateRoute(r); err != nil {
			return nil, fmt.Errorf("route[%d]: %w", i, err)
		}
		key := pathKey(r.Path)
		if _, exists := t.byPath[key]; exists {
			return nil, fmt.Errorf("duplicate route path %q", r.Path)
		}
		if _, exists := t.byName[r.Name]; exists {
			return nil, fmt.Errorf("duplicate route name %q", r.Name)
		}
		view, ok := resolve(r.Component)
		if !ok || view == nil {
			return nil, fmt.Errorf("route %q: unknown component %q", r.Name, r.Component)
		}

		t.byPath[key] = len(t.entries)
		t.byName[r.Name] = len(t.entries)
		t.entries = append(t.entries, Entry{Route: r, View: view})
	}

	return t, nil
}

// Resolve returns the view bound to path.
func (t *Table) Resolve(path string) (Renderer, error) {
	e, err := t.Match(path)
	if err != nil {
		return nil, err
	}
	return e.View, nil
}

// Match returns the entry bound to path. Matching ignores case, query and a
// trailing slash.
func (t *Table) Match(path string) (Entry, error) {
	if t == nil {
		return Entry{}, fmt.Errorf("%w: %q", ErrNoRoute, path)
	}
	idx, ok := t.byPath[pathKey(path)]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrNoRoute, path)
	}
	return t.entries[idx], nil
}

// ByName returns the entry registered under name.
func (t *Table) ByName(name string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	idx, ok := t.byName[strings.TrimSpace(name)]
	if !ok {
		return Entry{}, false
	}
	return t.entries[idx], true
}

// Routes returns a copy of the declared routes in order.
func (t *Table) Routes() []Route {
	if t == nil {
		return nil
	}
	out := make([]Route, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Route
	}
	return out
}

// History returns the history mode the table was built with.
func (t *Table) History() History {
	if t == nil {
		return History{}
	}
	return t.history
}

func sanitizeRoute(r Route) Route {
	r.Path = normalizePath(r.Path)
	r.Name = strings.TrimSpace(r.Name)
	r.Component = strings.TrimSpace(r.Component)
	return r
}

func validateRoute(r Route) error {
	if r.Name == "" {
		return fmt.Errorf("name is required for path %q", r.Path)
	}
	if r.Component == "" {
		return fmt.Errorf("component is required for route %q", r.Name)
	}
	return nil
}

// normalizePath drops query and fragment, ensures a leading slash and removes a
// trailing one.
func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}

func pathKey(p string) string {
	return strings.ToLower(normalizePath(p))
}
