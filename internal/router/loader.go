package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type routesFile struct {
	Routes []Route `json:"routes" yaml:"routes"`
}

// LoadFile reads a route list from a YAML or JSON file.
func LoadFile(path string) ([]Route, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("routes file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open routes file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read routes file: %w", err)
	}

	parsed, err := parseRoutes(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Routes) == 0 {
		return nil, errors.New("routes file contains no routes entries")
	}
	return parsed.Routes, nil
}

type unmarshalFn func([]byte, any) error

func parseRoutes(data []byte, ext string) (routesFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var out routesFile
		err := d.fn(data, &out)
		if err == nil {
			return out, nil
		}
		if ext != "" {
			return routesFile{}, fmt.Errorf("decode %s routes: %w", d.name, err)
		}
	}

	return routesFile{}, errors.New("routes file format not recognized (expected YAML or JSON)")
}
