package twincore

import (
	"strings"
	"sync"
	"time"
)

// RequestLogEntry is one request seen by the twin.
type RequestLogEntry struct {
	Timestamp  time.Time         `json:"timestamp"`
	Method     string            `json:"method"`
	Path       string            `json:"path"`
	Query      string            `json:"query,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
	StatusCode int               `json:"status_code"`
	DurationMS float64           `json:"duration_ms"`
	RequestID  string            `json:"request_id,omitempty"`
}

// RequestMatch selects request log entries. Zero fields match anything; Path
// ending in "/*" matches the prefix and everything below it.
type RequestMatch struct {
	Method string
	Path   string
	Status int
}

func (m RequestMatch) matches(e RequestLogEntry) bool {
	if m.Method != "" && !strings.EqualFold(m.Method, e.Method) {
		return false
	}
	if m.Status != 0 && m.Status != e.StatusCode {
		return false
	}
	return m.Path == "" || pathMatches(m.Path, e.Path)
}

// pathMatches reports whether path is selected by pattern, either exactly or
// through a trailing "/*" wildcard.
func pathMatches(pattern, path string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return pattern == path
}

// RequestLog keeps the most recent requests in arrival order.
type RequestLog struct {
	mu       sync.RWMutex
	entries  []RequestLogEntry
	capacity int
}

// NewRequestLog returns a log that keeps at most capacity entries.
func NewRequestLog(capacity int) *RequestLog {
	return &RequestLog{
		entries:  make([]RequestLogEntry, 0, capacity),
		capacity: capacity,
	}
}

// Add records e, dropping the oldest entry when full.
func (rl *RequestLog) Add(e RequestLogEntry) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.entries) == rl.capacity {
		copy(rl.entries, rl.entries[1:])
		rl.entries = rl.entries[:len(rl.entries)-1]
	}
	rl.entries = append(rl.entries, e)
}

// Entries returns every logged request, oldest first.
func (rl *RequestLog) Entries() []RequestLogEntry {
	return rl.Filter(RequestMatch{})
}

// Filter returns the logged requests selected by m, oldest first.
func (rl *RequestLog) Filter(m RequestMatch) []RequestLogEntry {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	out := make([]RequestLogEntry, 0, len(rl.entries))
	for _, e := range rl.entries {
		if m.matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many requests hit exactly method and path.
func (rl *RequestLog) Count(method, path string) int {
	return len(rl.Filter(RequestMatch{Method: method, Path: path}))
}

// Clear empties the log.
func (rl *RequestLog) Clear() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.entries = rl.entries[:0]
}
