package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"swiftstyle/internal/diag"
	"swiftstyle/internal/rule"
)

// Format is the syntax of a configuration file.
type Format uint8

const (
	FormatYAML Format = iota
	FormatTOML
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// FileNames are the discovery candidates, in priority order.
var FileNames = []string{
	".swiftstyle.yaml",
	".swiftstyle.yml",
	".swiftstyle.toml",
	".swiftstyle.json",
}

// FormatFor picks the format from the file extension.
func FormatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	case ".json":
		return FormatJSON, true
	}
	return 0, false
}

// Discover walks up from startDir looking for a configuration file.
func Discover(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads and validates the configuration at path.
func Load(path string, reg *rule.Registry) (*Config, error) {
	format, ok := FormatFor(path)
	if !ok {
		return nil, &Error{
			Code: diag.CfgParseError,
			Path: path,
			Msg:  "unsupported configuration format (want .yaml, .yml, .toml or .json)",
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Code: diag.CfgParseError, Path: path, Msg: err.Error(), Err: err}
	}
	return Parse(data, format, path, reg)
}

// Resolve loads explicit when set, otherwise the first configuration found
// above startDir, otherwise the defaults.
func Resolve(explicit, startDir string, reg *rule.Registry) (*Config, error) {
	if explicit != "" {
		return Load(explicit, reg)
	}
	path, ok, err := Discover(startDir)
	if err != nil {
		return nil, &Error{Code: diag.CfgParseError, Msg: err.Error(), Err: err}
	}
	if !ok {
		return Default(reg), nil
	}
	return Load(path, reg)
}

// decode turns any supported syntax into a generic map. For YAML it also
// returns the line of every top-level key.
func decode(data []byte, format Format) (map[string]any, map[string]int, error) {
	raw := map[string]any{}
	switch format {
	case FormatYAML:
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		if len(doc.Content) == 0 {
			return raw, nil, nil
		}
		root := doc.Content[0]
		if root.Kind != yaml.MappingNode {
			return nil, nil, errors.New("top level must be a mapping")
		}
		lines := make(map[string]int, len(root.Content)/2)
		for i := 0; i+1 < len(root.Content); i += 2 {
			lines[root.Content[i].Value] = root.Content[i].Line
		}
		if err := root.Decode(&raw); err != nil {
			return nil, nil, fmt.Errorf("failed to decode YAML: %w", err)
		}
		return raw, lines, nil
	case FormatTOML:
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
		return raw, nil, nil
	case FormatJSON:
		if len(bytes.TrimSpace(data)) == 0 {
			return raw, nil, nil
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		return raw, nil, nil
	}
	return nil, nil, fmt.Errorf("unknown format %d", format)
}
