package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceBuiltin SourceKind = "builtin"
	SourceFile    SourceKind = "file"
	SourceEnv     SourceKind = "env"
)

type Source struct {
	Kind   SourceKind
	Name   string // for builtin/default/env
	File   string
	Line   int
	Column int
}

func (s Source) position() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // YAML-path -> last writer (file or env)
	Bases   map[string]string // "window" / "presets.<name>" -> builtin preset name
	Files   []string          // loaded files, each after the files it includes
}

// LoadWithSources loads the config at DefaultConfigPath.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads path and its includes, then the environment. A
// missing file yields the defaults.
func LoadFromPath(path string) (*LoadResult, error) {
	l := &loader{sources: make(map[string]Source), done: make(map[string]bool)}

	if _, err := os.Stat(path); err == nil {
		if err := l.file(path); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	l.env()

	cfg, bases, err := BuildEffectiveConfig(l.raw)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return nil, l.locate(err)
	}
	return &LoadResult{Config: cfg, Sources: l.sources, Bases: bases, Files: l.files}, nil
}

// loader folds config layers in order: included files depth first, each
// file after its includes, then the environment. Every layer records the
// YAML paths it wrote so that later layers overwrite earlier sources.
type loader struct {
	raw     RawConfig
	sources map[string]Source
	files   []string
	done    map[string]bool
	chain   []string
}

func (l *loader) apply(raw RawConfig, sources map[string]Source) {
	l.raw = l.raw.merge(raw)
	for p, src := range sources {
		l.sources[p] = src
	}
}

func (l *loader) file(path string) error {
	canon := canonicalPath(path)
	if slices.Contains(l.chain, canon) {
		return fmt.Errorf("include cycle detected: %s -> %s", strings.Join(l.chain, " -> "), canon)
	}
	if l.done[canon] {
		return nil
	}
	l.done[canon] = true

	data, err := os.ReadFile(canon)
	if err != nil {
		return fmt.Errorf("%s: failed to read: %w", canon, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s: failed to parse yaml: %w", canon, err)
	}
	var raw RawConfig
	if err := decodeStrict(data, &raw); err != nil {
		return fmt.Errorf("%s: %w", canon, err)
	}
	root := mappingRoot(&doc)

	l.chain = append(l.chain, canon)
	for _, ref := range includeRefs(root, canon) {
		paths, err := resolveInclude(canon, ref.pattern)
		if err != nil {
			return fmt.Errorf("%s: include %q: %w", ref.at.position(), ref.pattern, err)
		}
		for _, p := range paths {
			if err := l.file(p); err != nil {
				return err
			}
		}
	}
	l.chain = l.chain[:len(l.chain)-1]

	sources := make(map[string]Source)
	fileSources(root, canon, "", sources)
	l.apply(raw, sources)
	l.files = append(l.files, canon)
	return nil
}

func (l *loader) env() {
	v := strings.TrimSpace(os.Getenv(EnvBackend))
	if v == "" {
		return
	}
	l.apply(RawConfig{Backend: &v}, map[string]Source{
		"backend": {Kind: SourceEnv, Name: EnvBackend},
	})
}

// locate attaches the source of the offending path to a validation error.
func (l *loader) locate(err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) && verr.Path != "" {
		if src, ok := l.sources[verr.Path]; ok {
			verr.Source = src
		}
	}
	return err
}

func decodeStrict(data []byte, out *RawConfig) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func canonicalPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if real, err := filepath.EvalSymlinks(path); err == nil {
		return real
	}
	return path
}

// resolveInclude expands one include entry relative to the including file.
// A directory yields its YAML files and a glob its YAML matches, both
// sorted by name. A plain path must exist.
func resolveInclude(from, pattern string) ([]string, error) {
	if pattern == "" {
		return nil, errors.New("path is empty")
	}
	if pattern == "~" || strings.HasPrefix(pattern, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		pattern = filepath.Join(home, strings.TrimPrefix(pattern, "~"))
	}
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(filepath.Dir(from), pattern)
	}

	if strings.ContainsAny(pattern, "*?[") {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		return yamlFiles(matches), nil
	}

	info, err := os.Stat(pattern)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{pattern}, nil
	}
	entries, err := os.ReadDir(pattern)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, ent := range entries {
		if !ent.IsDir() {
			names = append(names, filepath.Join(pattern, ent.Name()))
		}
	}
	return yamlFiles(names), nil
}

func yamlFiles(paths []string) []string {
	out := paths[:0]
	for _, p := range paths {
		switch strings.ToLower(filepath.Ext(p)) {
		case ".yaml", ".yml":
			if info, err := os.Stat(p); err == nil && !info.IsDir() {
				out = append(out, p)
			}
		}
	}
	sort.Strings(out)
	return out
}

func mappingRoot(doc *yaml.Node) *yaml.Node {
	node := doc
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	return node
}

func nodeSource(file string, n *yaml.Node) Source {
	return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
}

// fileSources records the position of every mapping value under prefix.
func fileSources(node *yaml.Node, file, prefix string, out map[string]Source) {
	if node == nil || node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		path, val := node.Content[i].Value, node.Content[i+1]
		if prefix != "" {
			path = prefix + "." + path
		}
		out[path] = nodeSource(file, val)
		fileSources(val, file, path, out)
	}
}

type includeRef struct {
	pattern string
	at      Source
}

func includeRefs(root *yaml.Node, file string) []includeRef {
	if root == nil {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "include" {
			continue
		}
		val := root.Content[i+1]
		items := []*yaml.Node{val}
		if val.Kind == yaml.SequenceNode {
			items = val.Content
		}
		refs := make([]includeRef, 0, len(items))
		for _, item := range items {
			if item.Kind == yaml.ScalarNode {
				refs = append(refs, includeRef{pattern: item.Value, at: nodeSource(file, item)})
			}
		}
		return refs
	}
	return nil
}
