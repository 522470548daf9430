package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

// Source records where an effective value was set.
type Source struct {
	Kind   SourceKind
	File   string
	Line   int
	Column int
}

func (s Source) String() string {
	if s.Kind == SourceFile && s.File != "" {
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
	}
	return string(s.Kind)
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // YAML path -> last file that set it
	Files   []string          // loaded files, in load order
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "winhost", "config.yaml"), nil
}

// Load reads the configuration from the standard location.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources is Load plus per-key source information.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath layers path and everything it includes over the defaults.
// Included files are applied first so the including file wins. A missing
// top-level file yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	l := &fileLoader{
		visited: map[string]bool{},
		sources: map[string]Source{},
	}

	if _, err := os.Stat(path); err == nil {
		if err := l.load(path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg := BuildEffectiveConfig(l.raw)
	if err := cfg.Validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) && verr.Path != "" {
			if src, ok := l.sources[verr.Path]; ok {
				verr.Source = src
			}
		}
		return nil, err
	}

	return &LoadResult{Config: cfg, Sources: l.sources, Files: l.files}, nil
}

// fileLoader accumulates one LoadFromPath call.
type fileLoader struct {
	raw     RawConfig
	sources map[string]Source
	files   []string

	visited map[string]bool
	chain   []string // files currently being loaded, outermost first
}

func (l *fileLoader) load(path string) error {
	file := resolveFile(path)
	if slices.Contains(l.chain, file) {
		return fmt.Errorf("include cycle detected: %s -> %s", strings.Join(l.chain, " -> "), file)
	}
	if l.visited[file] {
		return nil
	}
	l.visited[file] = true

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("%s: failed to read: %w", file, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s: failed to parse yaml: %w", file, err)
	}
	var raw RawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && err != io.EOF {
		return fmt.Errorf("%s: %w", file, err)
	}

	root := documentRoot(&doc)

	l.chain = append(l.chain, file)
	for _, inc := range includeNodes(root) {
		targets, err := includeTargets(file, inc.Value)
		if err != nil {
			pos := nodeSource(file, inc)
			return fmt.Errorf("%s: include %q: %w", pos, inc.Value, err)
		}
		for _, target := range targets {
			if err := l.load(target); err != nil {
				return err
			}
		}
	}
	l.chain = l.chain[:len(l.chain)-1]

	l.raw = l.raw.merge(raw)
	walkKeys(root, "", func(path string, val *yaml.Node) {
		l.sources[path] = nodeSource(file, val)
	})
	l.files = append(l.files, file)
	return nil
}

// resolveFile returns the absolute, symlink-free form of path, or the
// absolute form when the link cannot be followed.
func resolveFile(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}

// includeTargets resolves an include entry relative to the file naming it.
// A directory expands to its *.yaml and *.yml files in name order.
func includeTargets(from, include string) ([]string, error) {
	if include == "" {
		return nil, fmt.Errorf("path is empty")
	}
	if include == "~" || strings.HasPrefix(include, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		include = filepath.Join(home, strings.TrimPrefix(include, "~"))
	}
	if !filepath.IsAbs(include) {
		include = filepath.Join(filepath.Dir(from), include)
	}

	info, err := os.Stat(include)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{include}, nil
	}

	entries, err := os.ReadDir(include)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, ent := range entries {
		switch strings.ToLower(filepath.Ext(ent.Name())) {
		case ".yaml", ".yml":
			if !ent.IsDir() {
				out = append(out, filepath.Join(include, ent.Name()))
			}
		}
	}
	slices.Sort(out)
	return out, nil
}

func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	return doc
}

// includeNodes returns the scalar entries of the top-level include key.
func includeNodes(root *yaml.Node) []*yaml.Node {
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "include" {
			continue
		}
		val := root.Content[i+1]
		switch val.Kind {
		case yaml.ScalarNode:
			return []*yaml.Node{val}
		case yaml.SequenceNode:
			var out []*yaml.Node
			for _, item := range val.Content {
				if item.Kind == yaml.ScalarNode {
					out = append(out, item)
				}
			}
			return out
		}
		return nil
	}
	return nil
}

// walkKeys calls fn for every mapping key below node with its dotted path.
func walkKeys(node *yaml.Node, prefix string, fn func(path string, val *yaml.Node)) {
	if node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		path := node.Content[i].Value
		if prefix != "" {
			path = prefix + "." + path
		}
		val := node.Content[i+1]
		fn(path, val)
		walkKeys(val, path, fn)
	}
}

func nodeSource(file string, n *yaml.Node) Source {
	return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
}
