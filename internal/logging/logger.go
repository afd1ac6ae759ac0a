package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

type Level int

const (
	LevelInfo Level = iota
	LevelOK
	LevelWarn
	LevelSkip
	LevelError
)

var levelTags = map[Level]string{
	LevelInfo:  "    ",
	LevelOK:    " ok ",
	LevelWarn:  "warn",
	LevelSkip:  "skip",
	LevelError: "fail",
}

var (
	tsStyle     = lipgloss.NewStyle().Faint(true)
	levelStyles = map[Level]lipgloss.Style{
		LevelInfo:  lipgloss.NewStyle(),
		LevelOK:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		LevelSkip:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

// Logger prints operator-facing progress lines and keeps them for the run
// summary. Every line is also sent to the diagnostic slog logger.
type Logger struct {
	out    io.Writer
	diag   *slog.Logger
	runID  string
	lines  []string
	mu     sync.Mutex
	onLine func(line string)
}

func New(out io.Writer, diag *slog.Logger, onLine func(line string)) *Logger {
	if diag == nil {
		diag = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	runID := uuid.NewString()
	return &Logger{
		out:    out,
		diag:   diag.With("run_id", runID),
		runID:  runID,
		onLine: onLine,
	}
}

func (l *Logger) RunID() string { return l.runID }

func (l *Logger) Log(format string, args ...any)  { l.emit(LevelInfo, format, args...) }
func (l *Logger) OK(format string, args ...any)   { l.emit(LevelOK, format, args...) }
func (l *Logger) Warn(format string, args ...any) { l.emit(LevelWarn, format, args...) }
func (l *Logger) Skip(format string, args ...any) { l.emit(LevelSkip, format, args...) }
func (l *Logger) Fail(format string, args ...any) { l.emit(LevelError, format, args...) }

// Block prints a multi-line text block verbatim (guidance, dialplan
// snippets). Block lines are not timestamped.
func (l *Logger) Block(text string) {
	text = strings.TrimRight(text, "\n")
	l.mu.Lock()
	l.lines = append(l.lines, strings.Split(text, "\n")...)
	l.mu.Unlock()

	if l.out != nil {
		fmt.Fprintln(l.out, text)
	}
}

// Debug goes to the diagnostic log only.
func (l *Logger) Debug(msg string, args ...any) {
	l.diag.Debug(msg, args...)
}

func (l *Logger) emit(level Level, format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	ts := time.Now().Format("15:04:05")
	full := fmt.Sprintf("[%s] %s %s", ts, levelTags[level], line)

	l.mu.Lock()
	l.lines = append(l.lines, full)
	l.mu.Unlock()

	if l.out != nil {
		fmt.Fprintf(l.out, "%s %s %s\n",
			tsStyle.Render("["+ts+"]"),
			levelStyles[level].Render(levelTags[level]),
			line)
	}

	switch level {
	case LevelWarn:
		l.diag.Warn(line)
	case LevelError:
		l.diag.Error(line)
	default:
		l.diag.Info(line)
	}

	if l.onLine != nil {
		l.onLine(full)
	}
}

func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := make([]string, len(l.lines))
	copy(cp, l.lines)
	return cp
}

// Contains reports whether any recorded line contains s.
func (l *Logger) Contains(s string) bool {
	for _, line := range l.Lines() {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}

// ParseLevel maps a --log-level value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q (use debug, info, warn or error)", s)
	}
	return lvl, nil
}
