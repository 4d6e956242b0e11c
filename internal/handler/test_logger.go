package handler

import (
	"sync"

	"pptx-generator/internal/domain"
)

// MockHandlerLogger records log calls made by handlers and middleware under test.
type MockHandlerLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

type logEntry struct {
	level  string
	msg    string
	err    error
	fields []interface{}
}

func NewMockHandlerLogger() *MockHandlerLogger {
	return &MockHandlerLogger{}
}

var _ domain.Logger = (*MockHandlerLogger)(nil)

func (l *MockHandlerLogger) record(level, msg string, err error, fields []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, err: err, fields: fields})
}

func (l *MockHandlerLogger) Info(msg string, fields ...interface{}) {
	l.record("info", msg, nil, fields)
}

func (l *MockHandlerLogger) Error(msg string, err error, fields ...interface{}) {
	l.record("error", msg, err, fields)
}

func (l *MockHandlerLogger) Debug(msg string, fields ...interface{}) {
	l.record("debug", msg, nil, fields)
}

func (l *MockHandlerLogger) Warn(msg string, fields ...interface{}) {
	l.record("warn", msg, nil, fields)
}

// entriesAt returns the recorded calls at level, or all of them when level is empty.
func (l *MockHandlerLogger) entriesAt(level string) []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []logEntry
	for _, e := range l.entries {
		if level == "" || e.level == level {
			out = append(out, e)
		}
	}
	return out
}

// field returns the value logged under key.
func (e logEntry) field(key string) (interface{}, bool) {
	for i := 0; i+1 < len(e.fields); i += 2 {
		if k, ok := e.fields[i].(string); ok && k == key {
			return e.fields[i+1], true
		}
	}
	return nil, false
}
