package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type stubView struct{ name string }

func (s *stubView) Render(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, s.name)
	return err
}

func stubResolver() (ComponentResolver, map[string]Renderer) {
	views := map[string]Renderer{
		ComponentDashboard: &stubView{name: ComponentDashboard},
		ComponentAnalysis:  &stubView{name: ComponentAnalysis},
	}
	return func(c string) (Renderer, bool) {
		v, ok := views[c]
		return v, ok
	}, views
}

func TestDefaultTableResolvesEveryRoute(t *testing.T) {
	resolve, views := stubResolver()
	table, err := New(History{Mode: HistoryWeb}, DefaultRoutes(), resolve)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	paths := map[string]bool{}
	names := map[string]bool{}
	for _, r := range table.Routes() {
		if paths[r.Path] || names[r.Name] {
			t.Fatalf("duplicate path or name in %+v", r)
		}
		paths[r.Path], names[r.Name] = true, true

		got, err := table.Resolve(r.Path)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", r.Path, err)
		}
		if got != views[r.Component] {
			t.Fatalf("Resolve(%q) returned the wrong view", r.Path)
		}
	}

	if e, ok := table.ByName("analysis"); !ok || e.Path != "/analysis" {
		t.Fatalf("ByName(analysis) = %+v, %v", e, ok)
	}
}

func TestResolveNormalizesPath(t *testing.T) {
	resolve, views := stubResolver()
	table, err := New(History{}, DefaultRoutes(), resolve)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, p := range []string{"/analysis/", "/Analysis", "analysis", "/analysis?month=3"} {
		got, err := table.Resolve(p)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", p, err)
		}
		if got != views[ComponentAnalysis] {
			t.Fatalf("Resolve(%q) returned the wrong view", p)
		}
	}
}

func TestResolveUnknownPath(t *testing.T) {
	resolve, _ := stubResolver()
	table, err := New(History{}, DefaultRoutes(), resolve)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := table.Resolve("/missing"); !errors.Is(err, ErrNoRoute) {
		t.Fatalf("expected ErrNoRoute, got %v", err)
	}
}

func TestNewRejectsInvalidTables(t *testing.T) {
	resolve, _ := stubResolver()
	cases := map[string][]Route{
		"duplicate path": {
			{Path: "/", Name: "home", Component: ComponentDashboard},
			{Path: "/", Name: "other", Component: ComponentAnalysis},
		},
		"duplicate path after normalization": {
			{Path: "/analysis", Name: "a", Component: ComponentAnalysis},
			{Path: "/Analysis/", Name: "b", Component: ComponentAnalysis},
		},
		"duplicate name": {
			{Path: "/", Name: "home", Component: ComponentDashboard},
			{Path: "/analysis", Name: "home", Component: ComponentAnalysis},
		},
		"unknown component": {
			{Path: "/", Name: "home", Component: "Settings"},
		},
		"missing name": {
			{Path: "/", Component: ComponentDashboard},
		},
		"empty": nil,
	}

	for name, routes := range cases {
		if _, err := New(History{}, routes, resolve); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestRoutesReturnsCopy(t *testing.T) {
	resolve, _ := stubResolver()
	table, err := New(History{}, DefaultRoutes(), resolve)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	routes := table.Routes()
	routes[0].Path = "/changed"
	if _, err := table.Resolve("/"); err != nil {
		t.Fatalf("table must be immutable: %v", err)
	}
}

func TestLoadFileYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "routes.yaml")
	content := `
routes:
  - path: /
    name: home
    component: Dashboard
  - path: /reports
    name: reports
    component: Analysis
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write routes file: %v", err)
	}

	routes, err := LoadFile(file)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(routes) != 2 || routes[1].Path != "/reports" || routes[1].Component != ComponentAnalysis {
		t.Fatalf("unexpected routes %+v", routes)
	}

	resolve, views := stubResolver()
	table, err := New(History{}, routes, resolve)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if v, _ := table.Resolve("/reports"); v != views[ComponentAnalysis] {
		t.Fatalf("expected /reports to render Analysis")
	}
}

func TestLoadFileJSONAndErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "routes.json")
	if err := os.WriteFile(file, []byte(`{"routes":[{"path":"/","name":"home","component":"Dashboard"}]}`), 0o644); err != nil {
		t.Fatalf("write routes file: %v", err)
	}
	routes, err := LoadFile(file)
	if err != nil || len(routes) != 1 {
		t.Fatalf("LoadFile json: %v %+v", err, routes)
	}

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("routes: []\n"), 0o644); err != nil {
		t.Fatalf("write routes file: %v", err)
	}
	if _, err := LoadFile(empty); err == nil {
		t.Fatalf("expected error for empty routes file")
	}
	if _, err := LoadFile(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadFileReportsDecodeError(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "routes.yaml")
	if err := os.WriteFile(file, []byte("routes:\n  - path: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("write routes file: %v", err)
	}
	_, err := LoadFile(file)
	if err == nil || !strings.Contains(err.Error(), "decode yaml routes") {
		t.Fatalf("expected wrapped yaml error, got %v", err)
	}

	file = filepath.Join(dir, "routes.json")
	if err := os.WriteFile(file, []byte(`{"routes":[`), 0o644); err != nil {
		t.Fatalf("write routes file: %v", err)
	}
	_, err = LoadFile(file)
	if err == nil || !strings.Contains(err.Error(), "decode json routes") {
		t.Fatalf("expected wrapped json error, got %v", err)
	}
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected the decoder error to be wrapped, got %T", errors.Unwrap(err))
	}
}
