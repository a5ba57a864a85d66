// Package logger is the printf-style logging interface shared by the fleet
// store, the API client and the dashboard. Components take a Logger and
// never write to the terminal directly: the dashboard owns the screen, so
// the standard logger is pointed at a file or discarded while it runs.
package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// DebugEnv enables debug output when set to any non-empty value.
const DebugEnv = "NDSMON_DEBUG"

// Level names a log severity.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// stdLogger writes through the standard log package as "<prefix> LEVEL msg".
// Debug lines only appear when NDSMON_DEBUG is set.
type stdLogger struct {
	prefix string
}

// New returns a logger on the standard log package. prefix names the
// program or component, e.g. "[monitor]".
func New(prefix string) Logger {
	return &stdLogger{prefix: prefix}
}

// DebugEnabled reports whether NDSMON_DEBUG is set.
func DebugEnabled() bool {
	return os.Getenv(DebugEnv) != ""
}

func (l *stdLogger) write(level Level, format string, args []interface{}) {
	msg := fmt.Sprintf(format, args...)
	tag := strings.ToUpper(string(level))
	if l.prefix == "" {
		log.Printf("%-5s %s", tag, msg)
		return
	}
	log.Printf("%s %-5s %s", l.prefix, tag, msg)
}

func (l *stdLogger) Debug(format string, args ...interface{}) {
	if DebugEnabled() {
		l.write(LevelDebug, format, args)
	}
}

func (l *stdLogger) Info(format string, args ...interface{}) {
	l.write(LevelInfo, format, args)
}

func (l *stdLogger) Warn(format string, args ...interface{}) {
	l.write(LevelWarn, format, args)
}

func (l *stdLogger) Error(format string, args ...interface{}) {
	l.write(LevelError, format, args)
}

// componentLogger prefixes every message with a component tag.
type componentLogger struct {
	next Logger
	tag  string
}

// With returns a logger that tags each message with component before
// passing it to l, e.g. With(l, "api") logs "api: GET /canvases".
func With(l Logger, component string) Logger {
	if l == nil {
		return Noop()
	}
	return &componentLogger{next: l, tag: component + ": "}
}

func (c *componentLogger) Debug(format string, args ...interface{}) {
	c.next.Debug(c.tag+format, args...)
}

func (c *componentLogger) Info(format string, args ...interface{}) {
	c.next.Info(c.tag+format, args...)
}

func (c *componentLogger) Warn(format string, args ...interface{}) {
	c.next.Warn(c.tag+format, args...)
}

func (c *componentLogger) Error(format string, args ...interface{}) {
	c.next.Error(c.tag+format, args...)
}

type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return noopLogger{}
}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// Entry is one captured message.
type Entry struct {
	Level   Level
	Message string
}

// BufferLogger captures messages for tests. Safe for use from tea.Cmd
// goroutines.
type BufferLogger struct {
	mu      sync.Mutex
	entries []Entry
}

// NewBufferLogger creates an empty capturing logger.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{}
}

func (l *BufferLogger) add(level Level, format string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Level: level, Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Debug(format string, args ...interface{}) { l.add(LevelDebug, format, args) }
func (l *BufferLogger) Info(format string, args ...interface{})  { l.add(LevelInfo, format, args) }
func (l *BufferLogger) Warn(format string, args ...interface{})  { l.add(LevelWarn, format, args) }
func (l *BufferLogger) Error(format string, args ...interface{}) { l.add(LevelError, format, args) }

// Entries returns a copy of everything captured so far.
func (l *BufferLogger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

// Count returns how many messages were logged at level.
func (l *BufferLogger) Count(level Level) int {
	n := 0
	for _, e := range l.Entries() {
		if e.Level == level {
			n++
		}
	}
	return n
}

// HasLevel reports whether anything was logged at level.
func (l *BufferLogger) HasLevel(level Level) bool {
	return l.Count(level) > 0
}

// Contains reports whether any captured message contains substr.
func (l *BufferLogger) Contains(substr string) bool {
	for _, e := range l.Entries() {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// Reset drops everything captured.
func (l *BufferLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
