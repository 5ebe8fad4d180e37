package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"swiftstyle/internal/rule"
)

// DefaultExcludes are written by init.
var DefaultExcludes = []string{"**/Pods/**", "**/.build/**", "**/Carthage/**"}

// DefaultYAML renders a commented configuration listing every rule of reg
// with its defaults.
func DefaultYAML(reg *rule.Registry) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, rl := range reg.All() {
		body := &yaml.Node{Kind: yaml.MappingNode}
		appendPair(body, "enabled", scalar("true", "!!bool"))
		appendPair(body, "severity", scalar(rl.Severity.Label(), "!!str"))
		if len(rl.Params) > 0 {
			params := &yaml.Node{Kind: yaml.MappingNode}
			for _, prm := range rl.Params {
				val := &yaml.Node{}
				if err := val.Encode(prm.Default); err != nil {
					return nil, fmt.Errorf("%s.%s: %w", rl.ID, prm.Name, err)
				}
				if prm.Kind == rule.ParamList {
					val.Style = yaml.FlowStyle
				}
				appendPair(params, prm.Name, val)
			}
			appendPair(body, "params", params)
		}
		key := scalar(rl.ID, "!!str")
		key.HeadComment = fmt.Sprintf("%s: %s", rl.Code.ID(), rl.Description)
		root.Content = append(root.Content, key, body)
	}

	settings := &yaml.Node{Kind: yaml.MappingNode}
	appendPair(settings, "fail_on", scalar("error", "!!str"))
	excludes := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, p := range DefaultExcludes {
		excludes.Content = append(excludes.Content, scalar(p, "!!str"))
	}
	appendPair(settings, "exclude", excludes)
	appendPair(settings, "jobs", scalar("0", "!!int"))
	key := scalar(SettingsKey, "!!str")
	key.HeadComment = "run-wide options; jobs: 0 uses every CPU"
	root.Content = append(root.Content, key, settings)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, fmt.Errorf("failed to encode default config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode default config: %w", err)
	}
	return buf.Bytes(), nil
}

// ErrExists is returned by WriteDefault when the target already exists.
var ErrExists = errors.New("configuration file already exists")

// WriteDefault writes DefaultYAML into dir/.swiftstyle.yaml and returns the
// path. An existing file is never overwritten.
func WriteDefault(dir string, reg *rule.Registry) (string, error) {
	data, err := DefaultYAML(reg)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, FileNames[0])
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return path, fmt.Errorf("%s: %w", path, ErrExists)
		}
		return path, fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return path, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return path, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func scalar(value, tag string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func appendPair(m *yaml.Node, key string, val *yaml.Node) {
	m.Content = append(m.Content, scalar(key, "!!str"), val)
}
