// Package env creates the engine's .env secrets file. It never modifies a
// file that already exists.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type Entry struct {
	Key   string
	Value string
}

type Section struct {
	Comment string
	Entries []Entry
}

// DefaultTemplate is written when no .env.example is available. Provider
// credentials are left empty; local-mode websocket settings carry the
// engine's defaults.
var DefaultTemplate = []Section{
	{
		Comment: "Required: provider credentials and Asterisk ARI access",
		Entries: []Entry{
			{"OPENAI_API_KEY", ""},
			{"DEEPGRAM_API_KEY", ""},
			{"ASTERISK_HOST", "127.0.0.1"},
			{"ASTERISK_ARI_USERNAME", ""},
			{"ASTERISK_ARI_PASSWORD", ""},
		},
	},
	{
		Comment: "Optional: email summaries (SMTP)",
		Entries: []Entry{
			{"SMTP_HOST", ""},
			{"SMTP_PORT", "587"},
			{"SMTP_USERNAME", ""},
			{"SMTP_PASSWORD", ""},
			{"SMTP_FROM", ""},
		},
	},
	{
		Comment: "Optional: secondary LLM provider",
		Entries: []Entry{
			{"ANTHROPIC_API_KEY", ""},
		},
	},
	{
		Comment: "Optional: local-mode websocket tuning",
		Entries: []Entry{
			{"LOCAL_WS_URL", "ws://127.0.0.1:8765"},
			{"LOCAL_WS_CONNECT_TIMEOUT", "2.0"},
			{"LOCAL_WS_RESPONSE_TIMEOUT", "5.0"},
			{"LOCAL_WS_CHUNK_MS", "320"},
		},
	},
}

// Keys returns the recognized key set in template order.
func Keys() []string {
	var keys []string
	for _, s := range DefaultTemplate {
		for _, e := range s.Entries {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// RequiredKeys are the keys an operator has to fill in before the engine can
// take calls.
func RequiredKeys() []string {
	keys := make([]string, 0, len(DefaultTemplate[0].Entries))
	for _, e := range DefaultTemplate[0].Entries {
		if e.Value == "" {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

func Render(sections []Section) []byte {
	var sb strings.Builder
	for i, s := range sections {
		if i > 0 {
			sb.WriteString("\n")
		}
		if s.Comment != "" {
			sb.WriteString("# " + s.Comment + "\n")
		}
		for _, e := range s.Entries {
			sb.WriteString(fmt.Sprintf("%s=%s\n", e.Key, e.Value))
		}
	}
	return []byte(sb.String())
}

type Status int

const (
	AlreadyPresent Status = iota
	Created
)

type Source string

const (
	SourceNone    Source = ""
	SourceExample Source = "example"
	SourceBuiltin Source = "builtin"
)

type Result struct {
	Status Status
	Source Source
	Path   string
}

func (r Result) String() string {
	switch {
	case r.Status == AlreadyPresent:
		return fmt.Sprintf("%s already present; left untouched", filepath.Base(r.Path))
	case r.Source == SourceExample:
		return fmt.Sprintf("created %s from example template", filepath.Base(r.Path))
	default:
		return fmt.Sprintf("created %s from built-in defaults", filepath.Base(r.Path))
	}
}

type Initializer struct {
	Path        string
	ExamplePath string
}

func NewInitializer(path, examplePath string) *Initializer {
	return &Initializer{Path: path, ExamplePath: examplePath}
}

// Ensure creates the secrets file if it is missing. An existing file is never
// opened for writing, whatever it contains.
func (i *Initializer) Ensure() (Result, error) {
	res := Result{Status: AlreadyPresent, Path: i.Path}
	if _, err := os.Lstat(i.Path); err == nil {
		return res, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return res, fmt.Errorf("env: stat %s: %w", i.Path, err)
	}

	data, source, err := i.contents()
	if err != nil {
		return res, err
	}

	if err := os.MkdirAll(filepath.Dir(i.Path), 0755); err != nil {
		return res, fmt.Errorf("env: create dir: %w", err)
	}
	f, err := os.OpenFile(i.Path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if errors.Is(err, fs.ErrExist) {
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("env: create %s: %w", i.Path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return res, fmt.Errorf("env: write %s: %w", i.Path, err)
	}
	if err := f.Close(); err != nil {
		return res, fmt.Errorf("env: write %s: %w", i.Path, err)
	}

	return Result{Status: Created, Source: source, Path: i.Path}, nil
}

func (i *Initializer) contents() ([]byte, Source, error) {
	if i.ExamplePath != "" {
		data, err := os.ReadFile(i.ExamplePath)
		if err == nil {
			return data, SourceExample, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, SourceNone, fmt.Errorf("env: read %s: %w", i.ExamplePath, err)
		}
	}
	return Render(DefaultTemplate), SourceBuiltin, nil
}
