// Package blog defines the structured logging interface used throughout
// this module. Components never write to stderr or a global logger
// directly; they're handed a Logger, so tests can inject a Mock and
// assert on exactly what was logged.
package blog

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"sync"
)

// Logger is the narrow surface this module's components need. AuditErr
// and AuditObject are for events that operators must be able to find
// later (a minted canary, a rejected lint, a startup failure); Info and
// Warning are for everything else.
type Logger interface {
	Info(msg string)
	Infof(format string, args ...interface{})
	Warning(msg string)
	Warningf(format string, args ...interface{})
	AuditErr(msg string)
	AuditErrf(format string, args ...interface{})
	AuditObject(msg string, obj interface{})
}

// stdLogger writes to the standard library logger with a level prefix,
// the simplest Logger a cmd/ entrypoint can wire up without extra
// dependencies.
type stdLogger struct {
	*log.Logger
}

// New returns a Logger that writes level-prefixed lines to stderr.
func New() Logger {
	return &stdLogger{log.New(os.Stderr, "", log.LstdFlags)}
}

func (s *stdLogger) Info(msg string) { s.Printf("INFO: %s", msg) }
func (s *stdLogger) Infof(format string, args ...interface{}) {
	s.Printf("INFO: "+format, args...)
}
func (s *stdLogger) Warning(msg string) { s.Printf("WARNING: %s", msg) }
func (s *stdLogger) Warningf(format string, args ...interface{}) {
	s.Printf("WARNING: "+format, args...)
}
func (s *stdLogger) AuditErr(msg string) { s.Printf("AUDIT-ERR: %s", msg) }
func (s *stdLogger) AuditErrf(format string, args ...interface{}) {
	s.Printf("AUDIT-ERR: "+format, args...)
}
func (s *stdLogger) AuditObject(msg string, obj interface{}) {
	s.Printf("AUDIT: %s JSON=%+v", msg, obj)
}

// Mock is an in-memory Logger for tests. It records every line so a test
// can assert that a particular message was (or wasn't) logged, following
// the same GetAllMatching pattern boulder's blog.Mock exposes.
type Mock struct {
	mu    sync.Mutex
	lines []string
}

// UseMock returns a fresh Mock ready to be passed to any component that
// accepts a Logger.
func UseMock() *Mock {
	return &Mock{}
}

func (m *Mock) record(level, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, fmt.Sprintf("%s: %s", level, msg))
}

func (m *Mock) Info(msg string)                    { m.record("INFO", msg) }
func (m *Mock) Infof(f string, a ...interface{})    { m.record("INFO", fmt.Sprintf(f, a...)) }
func (m *Mock) Warning(msg string)                  { m.record("WARNING", msg) }
func (m *Mock) Warningf(f string, a ...interface{}) { m.record("WARNING", fmt.Sprintf(f, a...)) }
func (m *Mock) AuditErr(msg string)                 { m.record("AUDIT-ERR", msg) }
func (m *Mock) AuditErrf(f string, a ...interface{}) {
	m.record("AUDIT-ERR", fmt.Sprintf(f, a...))
}
func (m *Mock) AuditObject(msg string, obj interface{}) {
	m.record("AUDIT", fmt.Sprintf("%s JSON=%+v", msg, obj))
}

// GetAll returns every line recorded so far, in order.
func (m *Mock) GetAll() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.lines))
	copy(out, m.lines)
	return out
}

// GetAllMatching returns every recorded line matching the given regexp.
func (m *Mock) GetAllMatching(reString string) []string {
	re := regexp.MustCompile(reString)
	var matches []string
	for _, l := range m.GetAll() {
		if re.MatchString(l) {
			matches = append(matches, l)
		}
	}
	return matches
}

var _ Logger = (*stdLogger)(nil)
var _ Logger = (*Mock)(nil)
