package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap/zapcore"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one decoded JSON log record.
type Entry struct {
	Time    string
	Level   zapcore.Level
	Logger  string
	Message string
	Fields  map[string]any
}

// reserved keys are rendered in fixed positions rather than as fields.
var reserved = map[string]struct{}{
	"ts": {}, "level": {}, "logger": {}, "msg": {}, "caller": {}, "stacktrace": {},
}

// Parse decodes a JSON log line. ok is false for lines that are not log
// records, such as panics written straight to the file.
func Parse(line string) (Entry, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, false
	}
	msg, hasMsg := raw["msg"].(string)
	levelText, hasLevel := raw["level"].(string)
	if !hasMsg || !hasLevel {
		return Entry{}, false
	}

	e := Entry{Message: msg, Fields: map[string]any{}}
	if lvl, err := zapcore.ParseLevel(levelText); err == nil {
		e.Level = lvl
	}
	e.Time, _ = raw["ts"].(string)
	e.Logger, _ = raw["logger"].(string)
	for k, v := range raw {
		if _, skip := reserved[k]; !skip {
			e.Fields[k] = v
		}
	}
	return e, true
}

var levelStyles = map[zapcore.Level]lipgloss.Style{
	zapcore.DebugLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true),
	zapcore.InfoLevel:  lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F")).Bold(true),
	zapcore.WarnLevel:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
	zapcore.ErrorLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
}

var (
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	loggerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87AFFF"))
	fieldStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// Format renders an entry as a single line:
//
//	2026-10-18T09:12:03.114+0300 WARN  [poller] catalog refresh failed consecutive_failures=2
//
// Fields are sorted by key. color applies lipgloss styles.
func (e Entry) Format(color bool) string {
	paint := func(s lipgloss.Style, text string) string {
		if !color {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	if e.Time != "" {
		b.WriteString(paint(timeStyle, e.Time))
		b.WriteByte(' ')
	}
	level := fmt.Sprintf("%-5s", e.Level.CapitalString())
	style, ok := levelStyles[e.Level]
	if !ok {
		style = levelStyles[zapcore.ErrorLevel]
	}
	b.WriteString(paint(style, level))
	if e.Logger != "" {
		b.WriteByte(' ')
		b.WriteString(paint(loggerStyle, "["+e.Logger+"]"))
	}
	b.WriteByte(' ')
	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(paint(fieldStyle, k+"="+formatValue(e.Fields[k])))
	}
	return b.String()
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		if strings.ContainsAny(val, " \t\"") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case float64:
		return fmt.Sprintf("%g", val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}

// FormatLines formats every line at or above minLevel. Lines that are not
// log records are passed through unchanged.
func FormatLines(lines []string, minLevel zapcore.Level, color bool) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		e, ok := Parse(line)
		if !ok {
			out = append(out, line)
			continue
		}
		if e.Level < minLevel {
			continue
		}
		out = append(out, e.Format(color))
	}
	return out
}
