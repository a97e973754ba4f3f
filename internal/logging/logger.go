package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// LogLevel represents the severity level of a log message
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

var levelOrder = map[LogLevel]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// Logger provides structured JSON logging with render ID support.
// The default output is stderr: stdout is reserved for segment text
// consumed by the host statusline.
type Logger struct {
	mu      sync.Mutex
	output  io.Writer
	level   LogLevel
	service string
}

// LoggerOption is a function that configures a Logger
type LoggerOption func(*Logger)

// WithOutput sets the output writer for the logger
func WithOutput(w io.Writer) LoggerOption {
	return func(l *Logger) {
		l.output = w
	}
}

// WithLevel sets the minimum log level
func WithLevel(level LogLevel) LoggerOption {
	return func(l *Logger) {
		l.level = level
	}
}

// WithService sets the service name for logs
func WithService(service string) LoggerOption {
	return func(l *Logger) {
		l.service = service
	}
}

// NewLogger creates a new Logger with the specified options
func NewLogger(opts ...LoggerOption) *Logger {
	logger := &Logger{
		output:  os.Stderr,
		level:   LevelWarn,
		service: "ccline",
	}

	for _, opt := range opts {
		opt(logger)
	}

	return logger
}

type logEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     LogLevel       `json:"level"`
	Service   string         `json:"service"`
	Message   string         `json:"message"`
	RenderID  string         `json:"render_id,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

func (l *Logger) log(level LogLevel, message string, renderID string, fields map[string]any) {
	if levelOrder[level] < levelOrder[l.level] {
		return
	}

	entry := logEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Service:   l.service,
		Message:   message,
		RenderID:  renderID,
		Fields:    fields,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.output, string(data))
}

// Debug logs a debug message with key-value fields
func (l *Logger) Debug(message string, fields ...any) {
	renderID, fieldMap := parseFields(fields)
	l.log(LevelDebug, message, renderID, fieldMap)
}

// Info logs an info message with key-value fields
func (l *Logger) Info(message string, fields ...any) {
	renderID, fieldMap := parseFields(fields)
	l.log(LevelInfo, message, renderID, fieldMap)
}

// Warn logs a warning message with key-value fields
func (l *Logger) Warn(message string, fields ...any) {
	renderID, fieldMap := parseFields(fields)
	l.log(LevelWarn, message, renderID, fieldMap)
}

// Error logs an error message with key-value fields
func (l *Logger) Error(message string, fields ...any) {
	renderID, fieldMap := parseFields(fields)
	l.log(LevelError, message, renderID, fieldMap)
}

// DebugWithContext logs a debug message tagged with the render ID from ctx
func (l *Logger) DebugWithContext(ctx context.Context, message string, fields ...any) {
	_, fieldMap := parseFields(fields)
	l.log(LevelDebug, message, GetRenderID(ctx), fieldMap)
}

// WarnWithContext logs a warning message tagged with the render ID from ctx
func (l *Logger) WarnWithContext(ctx context.Context, message string, fields ...any) {
	_, fieldMap := parseFields(fields)
	l.log(LevelWarn, message, GetRenderID(ctx), fieldMap)
}

// parseFields parses variable key-value pairs into a map.
// Expected format: key1, value1, key2, value2, ...
func parseFields(fields []any) (string, map[string]any) {
	renderID := ""
	var fieldMap map[string]any

	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		if key == "render_id" {
			if id, ok := fields[i+1].(string); ok {
				renderID = id
			}
			continue
		}
		if fieldMap == nil {
			fieldMap = make(map[string]any)
		}
		fieldMap[key] = fields[i+1]
	}

	return renderID, fieldMap
}
