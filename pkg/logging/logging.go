// Package logging provides structured logging for pyboot.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Level represents a log level.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// Format selects the output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Logger provides leveled, structured logging.
type Logger struct {
	mu     sync.Mutex
	level  Level
	format Format
	output io.Writer
	fields map[string]any
}

// entry is the JSON representation of a single log line.
type entry struct {
	Timestamp string         `json:"timestamp"`
	Level     Level          `json:"level"`
	Message   string         `json:"message"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// NewLogger creates a JSON logger writing to stderr at the given level.
func NewLogger(level Level) *Logger {
	return &Logger{
		level:  level,
		format: FormatJSON,
		output: os.Stderr,
		fields: map[string]any{},
	}
}

// WithFields returns a child logger that carries the extra fields on
// every line it emits.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{level: l.level, format: l.format, output: l.output, fields: merged}
}

func (l *Logger) Debug(msg string, fields ...map[string]any) { l.log(LevelDebug, msg, nil, fields) }
func (l *Logger) Info(msg string, fields ...map[string]any)  { l.log(LevelInfo, msg, nil, fields) }
func (l *Logger) Warn(msg string, fields ...map[string]any)  { l.log(LevelWarn, msg, nil, fields) }
func (l *Logger) Error(msg string, fields ...map[string]any) { l.log(LevelError, msg, nil, fields) }

// ErrorErr logs an error message together with the error value.
func (l *Logger) ErrorErr(msg string, err error, fields ...map[string]any) {
	l.log(LevelError, msg, err, fields)
}

func (l *Logger) log(level Level, msg string, err error, extra []map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if levelRank[level] < levelRank[l.level] {
		return
	}

	fields := make(map[string]any, len(l.fields)+2)
	for k, v := range l.fields {
		fields[k] = v
	}
	for _, f := range extra {
		for k, v := range f {
			fields[k] = v
		}
	}
	if err != nil {
		fields["error"] = err.Error()
	}

	ts := time.Now().UTC().Format(time.RFC3339Nano)

	if l.format == FormatText {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%s %-5s %s", ts, strings.ToUpper(string(level)), msg)
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, " %s=%v", k, fields[k])
		}
		sb.WriteByte('\n')
		io.WriteString(l.output, sb.String())
		return
	}

	e := entry{Timestamp: ts, Level: level, Message: msg}
	if len(fields) > 0 {
		e.Fields = fields
	}
	data, jerr := json.Marshal(e)
	if jerr != nil {
		fmt.Fprintln(l.output, `{"level":"error","message":"failed to marshal log entry"}`)
		return
	}
	l.output.Write(append(data, '\n'))
}

// SetOutput sets the output writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
}

// SetLevel sets the log level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetFormat selects json or text output.
func (l *Logger) SetFormat(f Format) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.format = f
}

// Global logger instance.
var global = NewLogger(LevelInfo)

// SetGlobal replaces the global logger.
func SetGlobal(l *Logger) { global = l }

// Global returns the global logger.
func Global() *Logger { return global }

func Debug(msg string, fields ...map[string]any) { global.Debug(msg, fields...) }
func Info(msg string, fields ...map[string]any)  { global.Info(msg, fields...) }
func Warn(msg string, fields ...map[string]any)  { global.Warn(msg, fields...) }
func Error(msg string, fields ...map[string]any) { global.Error(msg, fields...) }

// ErrorErr logs to the global logger with an error.
func ErrorErr(msg string, err error, fields ...map[string]any) {
	global.ErrorErr(msg, err, fields...)
}

// WithFields returns a child of the global logger with additional fields.
func WithFields(fields map[string]any) *Logger {
	return global.WithFields(fields)
}
