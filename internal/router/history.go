package router

import (
	"fmt"
	"strings"
)

// HistoryMode selects how locations are written.
type HistoryMode string

const (
	// HistoryWeb writes plain paths under the base: /base/analysis.
	HistoryWeb HistoryMode = "web"
	// HistoryHash keeps the route after a hash: /base/#/analysis.
	HistoryHash HistoryMode = "hash"
)

// History maps route paths to locations and back.
type History struct {
	Mode HistoryMode
	Base string
}

// NewHistory builds a History for mode under base.
func NewHistory(mode, base string) (History, error) {
	m := HistoryMode(strings.ToLower(strings.TrimSpace(mode)))
	switch m {
	case "":
		m = HistoryWeb
	case HistoryWeb, HistoryHash:
	default:
		return History{}, fmt.Errorf("unsupported history mode %q", mode)
	}
	return History{Mode: m, Base: normalizeBase(base)}, nil
}

// Location returns the location a client navigates to for path.
func (h History) Location(path string) string {
	path = normalizePath(path)
	if h.Mode == HistoryHash {
		return h.Base + "/#" + path
	}
	if path == "/" && h.Base != "" {
		return h.Base + "/"
	}
	return h.Base + path
}

// Strip returns the route path carried by location. Plain paths without the
// base are returned normalized.
func (h History) Strip(location string) string {
	location = strings.TrimSpace(location)
	if h.Mode == HistoryHash {
		if i := strings.Index(location, "#"); i >= 0 {
			return normalizePath(location[i+1:])
		}
	}
	if h.Base != "" && (location == h.Base || strings.HasPrefix(location, h.Base+"/")) {
		location = strings.TrimPrefix(location, h.Base)
	}
	return normalizePath(location)
}

// normalizeBase yields "" for the root and "/segment" otherwise.
func normalizeBase(base string) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return ""
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return strings.TrimRight(base, "/")
}
