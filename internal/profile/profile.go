// Package profile maps a baseline name to its golden config template and
// copies it onto the active agent config.
package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hkjarral/asterisk-ai-voice-agent/bootstrap/internal/fsutil"
)

type Baseline string

const (
	OpenAI   Baseline = "openai"
	Deepgram Baseline = "deepgram"
	Local    Baseline = "local"

	Default = OpenAI
)

// Baselines lists the recognized baselines in display order.
var Baselines = []Baseline{OpenAI, Deepgram, Local}

// ConfigurationError is fatal: nothing has been written when it is returned.
type ConfigurationError struct {
	Baseline string
	Path     string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("baseline %q: %s: %s", e.Baseline, e.Reason, e.Path)
	}
	return fmt.Sprintf("baseline %q: %s", e.Baseline, e.Reason)
}

// ParseBaseline accepts any casing and surrounding whitespace. An empty
// string selects Default.
func ParseBaseline(s string) (Baseline, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Default, nil
	}
	for _, b := range Baselines {
		if string(b) == s {
			return b, nil
		}
	}
	return "", &ConfigurationError{
		Baseline: s,
		Reason:   fmt.Sprintf("unknown baseline (choose one of %s)", baselineList()),
	}
}

func baselineList() string {
	names := make([]string, len(Baselines))
	for i, b := range Baselines {
		names[i] = string(b)
	}
	return strings.Join(names, ", ")
}

type Store struct {
	Templates  map[Baseline]string
	ActivePath string
}

func NewStore(templates map[Baseline]string, activePath string) *Store {
	return &Store{Templates: templates, ActivePath: activePath}
}

// Resolve returns the template path for b after checking the file exists.
func (s *Store) Resolve(b Baseline) (string, error) {
	path, ok := s.Templates[b]
	if !ok || path == "" {
		return "", &ConfigurationError{
			Baseline: string(b),
			Reason:   fmt.Sprintf("unknown baseline (choose one of %s)", baselineList()),
		}
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", &ConfigurationError{Baseline: string(b), Path: path, Reason: "template not found"}
	}
	if info.IsDir() {
		return "", &ConfigurationError{Baseline: string(b), Path: path, Reason: "template is a directory"}
	}
	return path, nil
}

// Materialize overwrites the active config with the exact bytes of b's
// template. Manual edits to the active config are discarded.
func (s *Store) Materialize(b Baseline) error {
	src, err := s.Resolve(b)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return &ConfigurationError{Baseline: string(b), Path: src, Reason: fmt.Sprintf("read template: %v", err)}
	}

	if err := os.MkdirAll(filepath.Dir(s.ActivePath), 0755); err != nil {
		return fmt.Errorf("profile: create config dir: %w", err)
	}
	return fsutil.WriteFileAtomic(s.ActivePath, data, 0644)
}
