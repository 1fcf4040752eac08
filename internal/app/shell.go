package app

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/clashflow/clashflow-shell/internal/config"
	"github.com/clashflow/clashflow-shell/internal/logger"
	"github.com/clashflow/clashflow-shell/internal/router"
	"github.com/clashflow/clashflow-shell/internal/views"
	"github.com/clashflow/clashflow-shell/pkg/finance"
	"github.com/clashflow/clashflow-shell/pkg/httpclient"
)

// Shell owns the process-wide API client and the route table, and renders
// views for navigation requests.
type Shell struct {
	cfg    *config.Config
	client *httpclient.Client
	api    *finance.API
	table  *router.Table
	log    logger.Logger

	mu      sync.Mutex
	current *router.Route
}

// NewShell builds the shell runtime from config.
func NewShell(cfg *config.Config, log logger.Logger) (*Shell, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)

	opts := httpclient.Options{
		Production: cfg.Production(),
		Origin:     cfg.APIOrigin,
		Logger:     log,
	}
	if cfg.APIToken != "" {
		opts.Credentials = httpclient.StaticToken(cfg.APIToken)
	}
	client := httpclient.New(opts)
	log.InfoObj("api client initialized", "client_config", map[string]any{
		"base_url":    client.BaseURL(),
		"timeout_ms":  client.Timeout().Milliseconds(),
		"headers":     client.Headers(),
		"credentials": opts.Credentials != nil,
	})

	api := finance.New(client)

	history, err := router.NewHistory(cfg.HistoryMode, cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("init history: %w", err)
	}

	routes := router.DefaultRoutes()
	if cfg.RoutesFile != "" {
		routes, err = router.LoadFile(cfg.RoutesFile)
		if err != nil {
			return nil, fmt.Errorf("load routes: %w", err)
		}
	}

	registry := views.DefaultRegistry(api, log)
	table, err := router.New(history, routes, registry.Lookup)
	if err != nil {
		return nil, fmt.Errorf("build route table: %w", err)
	}
	log.InfoObj("route table loaded", "routes_meta", map[string]any{
		"count":        len(routes),
		"history_mode": history.Mode,
		"base":         history.Base,
	})

	return &Shell{
		cfg:    cfg,
		client: client,
		api:    api,
		table:  table,
		log:    log,
	}, nil
}

// Navigate resolves location and renders the matching view into w.
func (s *Shell) Navigate(ctx context.Context, location string, w io.Writer) error {
	if s == nil || s.table == nil {
		return fmt.Errorf("shell is not initialized")
	}

	path := s.table.History().Strip(location)
	entry, err := s.table.Match(path)
	if err != nil {
		s.log.WarnObj("navigation failed", "location", location)
		return err
	}

	s.mu.Lock()
	route := entry.Route
	s.current = &route
	s.mu.Unlock()

	s.log.InfoObj("navigated", "route", map[string]string{
		"name":      entry.Name,
		"path":      entry.Path,
		"component": entry.Component,
		"location":  s.table.History().Location(entry.Path),
	})

	if err := entry.View.Render(ctx, w); err != nil {
		return fmt.Errorf("render %s: %w", entry.Name, err)
	}
	return nil
}

// Current returns the last route navigated to.
func (s *Shell) Current() (router.Route, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return router.Route{}, false
	}
	return *s.current, true
}

// Table returns the route table.
func (s *Shell) Table() *router.Table { return s.table }

// API returns the finance endpoints bound to the shared client.
func (s *Shell) API() *finance.API { return s.api }

// Client returns the shared API client.
func (s *Shell) Client() *httpclient.Client { return s.client }
