// Copyright (C) 2025 wcwallet-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package logger is the wallet's structured JSON logger. Entries are
// emitted in a fixed wire order -- timestamp, level, message, then the
// protocol context (topic, method) and any extra fields -- so relay
// traffic can be traced per topic without post-processing.
package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Level represents the severity level of a log message
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// String returns the string representation of a log level
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a level name to a Level, defaulting to info.
func ParseLevel(name string) Level {
	switch strings.ToUpper(name) {
	case "DEBUG":
		return DebugLevel
	case "INFO":
		return InfoLevel
	case "WARN":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Field represents a structured logging field
type Field struct {
	Key   string
	Value interface{}
}

// String creates a string field
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an integer field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Uint64 creates an unsigned integer field
func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}

// Uint32 creates an unsigned integer field
func Uint32(key string, value uint32) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a boolean field
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Error creates an error field
func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Duration creates a duration field
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Any creates a field with any value
func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger defines the interface for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	// WithTopic binds a relay topic to every entry the derived logger
	// emits; WithMethod does the same for a wc_* method name.
	WithTopic(topic string) Logger
	WithMethod(method string) Logger
	WithFields(fields ...Field) Logger

	SetLevel(level Level)
	GetLevel() Level
}

// output serializes writes from every logger derived off the same sink,
// so concurrent handler tasks never tear each other's lines.
type output struct {
	mu sync.Mutex
	w  io.Writer
}

func (o *output) writeLine(data []byte) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.w.Write(data)
	o.w.Write([]byte("\n"))
}

// StructuredLogger implements the Logger interface with JSON output.
// Derived loggers (WithTopic, WithMethod, WithFields) share the sink but
// carry their own protocol context and level.
type StructuredLogger struct {
	out    *output
	level  atomic.Int32
	pretty atomic.Bool

	topic  string
	method string
	base   []Field
}

// NewLogger creates a new structured logger
func NewLogger(w io.Writer, level Level) *StructuredLogger {
	l := &StructuredLogger{out: &output{w: w}}
	l.level.Store(int32(level))
	return l
}

// NewDefaultLogger creates a logger with default settings
func NewDefaultLogger() *StructuredLogger {
	level := InfoLevel
	if envLevel := os.Getenv("WCWALLET_LOG_LEVEL"); envLevel != "" {
		level = ParseLevel(envLevel)
	}

	return NewLogger(os.Stdout, level)
}

// SetPrettyPrint enables or disables pretty printing of JSON logs
func (l *StructuredLogger) SetPrettyPrint(pretty bool) {
	l.pretty.Store(pretty)
}

// Debug logs a debug level message
func (l *StructuredLogger) Debug(msg string, fields ...Field) {
	l.log(DebugLevel, msg, fields...)
}

// Info logs an info level message
func (l *StructuredLogger) Info(msg string, fields ...Field) {
	l.log(InfoLevel, msg, fields...)
}

// Warn logs a warning level message
func (l *StructuredLogger) Warn(msg string, fields ...Field) {
	l.log(WarnLevel, msg, fields...)
}

// Error logs an error level message
func (l *StructuredLogger) Error(msg string, fields ...Field) {
	l.log(ErrorLevel, msg, fields...)
}

// Fatal logs a fatal level message and exits
func (l *StructuredLogger) Fatal(msg string, fields ...Field) {
	l.log(FatalLevel, msg, fields...)
	os.Exit(1)
}

// WithTopic returns a logger that stamps every entry with the topic
func (l *StructuredLogger) WithTopic(topic string) Logger {
	c := l.clone()
	c.topic = topic
	return c
}

// WithMethod returns a logger that stamps every entry with the method
func (l *StructuredLogger) WithMethod(method string) Logger {
	c := l.clone()
	c.method = method
	return c
}

// WithFields returns a new logger with additional fields
func (l *StructuredLogger) WithFields(fields ...Field) Logger {
	c := l.clone()
	c.base = append(c.base, fields...)
	return c
}

// SetLevel sets the minimum log level
func (l *StructuredLogger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// GetLevel returns the current log level
func (l *StructuredLogger) GetLevel() Level {
	return Level(l.level.Load())
}

func (l *StructuredLogger) clone() *StructuredLogger {
	c := &StructuredLogger{
		out:    l.out,
		topic:  l.topic,
		method: l.method,
		base:   append([]Field{}, l.base...),
	}
	c.level.Store(l.level.Load())
	c.pretty.Store(l.pretty.Load())
	return c
}

// log assembles the entry in wire order and writes it as one line.
func (l *StructuredLogger) log(level Level, msg string, fields ...Field) {
	if level < l.GetLevel() {
		return
	}

	entry := make([]Field, 0, 5+len(l.base)+len(fields))
	entry = append(entry,
		String("timestamp", time.Now().Format(time.RFC3339)),
		String("level", level.String()),
		String("message", msg),
	)
	if l.topic != "" {
		entry = append(entry, String("topic", l.topic))
	}
	if l.method != "" {
		entry = append(entry, String("method", l.method))
	}
	entry = append(entry, l.base...)
	entry = append(entry, fields...)

	l.out.writeLine(encodeEntry(dedupe(entry), l.pretty.Load()))
}

// dedupe keeps one occurrence per key: the first position wins, the last
// value wins, so call-site fields override inherited ones without
// reshuffling the entry.
func dedupe(fields []Field) []Field {
	index := make(map[string]int, len(fields))
	out := make([]Field, 0, len(fields))

	for _, f := range fields {
		if at, seen := index[f.Key]; seen {
			out[at] = f
			continue
		}
		index[f.Key] = len(out)
		out = append(out, f)
	}
	return out
}

// encodeEntry renders the fields as a JSON object preserving their
// order. A value that cannot be marshaled falls back to its string form
// rather than discarding the whole entry.
func encodeEntry(fields []Field, pretty bool) []byte {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if pretty {
			buf.WriteString("\n  ")
		}

		key, err := json.Marshal(f.Key)
		if err != nil {
			key = []byte(`"invalid_key"`)
		}
		buf.Write(key)
		buf.WriteByte(':')
		if pretty {
			buf.WriteByte(' ')
		}

		value, err := json.Marshal(f.Value)
		if err != nil {
			value, _ = json.Marshal(fmt.Sprint(f.Value))
		}
		buf.Write(value)
	}

	if pretty {
		buf.WriteString("\n}")
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes()
}

// Global logger instance
var defaultLogger = NewDefaultLogger()

// SetDefaultLogger sets the global default logger
func SetDefaultLogger(logger Logger) {
	if l, ok := logger.(*StructuredLogger); ok {
		defaultLogger = l
	}
}

// GetDefaultLogger returns the global default logger
func GetDefaultLogger() *StructuredLogger {
	return defaultLogger
}

// Package-level logging functions using the default logger

// Debug logs a debug message using the default logger
func Debug(msg string, fields ...Field) {
	defaultLogger.Debug(msg, fields...)
}

// Info logs an info message using the default logger
func Info(msg string, fields ...Field) {
	defaultLogger.Info(msg, fields...)
}

// Warn logs a warning message using the default logger
func Warn(msg string, fields ...Field) {
	defaultLogger.Warn(msg, fields...)
}

// ErrorMsg logs an error message using the default logger
func ErrorMsg(msg string, fields ...Field) {
	defaultLogger.Error(msg, fields...)
}

// Fatal logs a fatal message using the default logger and exits
func Fatal(msg string, fields ...Field) {
	defaultLogger.Fatal(msg, fields...)
}
