package twincore

import (
	"encoding/json"
	"maps"
	"math/rand/v2"
	"strings"
	"sync"
	"time"
)

// FaultConfig describes how requests to one path misbehave.
type FaultConfig struct {
	StatusCode int     `json:"status_code,omitempty"`
	Body       string  `json:"body,omitempty"`
	DelayMS    int     `json:"delay_ms,omitempty"`
	Rate       float64 `json:"rate"`           // probability in (0, 1]
	Drop       bool    `json:"drop,omitempty"` // abort the connection without a response
}

// Delay returns the configured delay as a duration.
func (f FaultConfig) Delay() time.Duration {
	return time.Duration(f.DelayMS) * time.Millisecond
}

// FaultRegistry holds injected faults keyed by path pattern. A pattern is an
// exact request path or a prefix ending in "/*".
type FaultRegistry struct {
	mu     sync.RWMutex
	faults map[string]FaultConfig
}

// NewFaultRegistry returns an empty registry.
func NewFaultRegistry() *FaultRegistry {
	return &FaultRegistry{faults: make(map[string]FaultConfig)}
}

// Set registers f for pattern, replacing any earlier fault. A zero rate
// means every request.
func (fr *FaultRegistry) Set(pattern string, f FaultConfig) {
	if f.Rate <= 0 {
		f.Rate = 1
	}
	fr.mu.Lock()
	fr.faults[pattern] = f
	fr.mu.Unlock()
}

// Remove drops the fault for pattern and reports whether one was set.
func (fr *FaultRegistry) Remove(pattern string) bool {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if _, ok := fr.faults[pattern]; !ok {
		return false
	}
	delete(fr.faults, pattern)
	return true
}

// lookup finds the fault for path. An exact pattern wins over wildcards and
// a longer wildcard wins over a shorter one.
func (fr *FaultRegistry) lookup(path string) (FaultConfig, bool) {
	fr.mu.RLock()
	defer fr.mu.RUnlock()
	if f, ok := fr.faults[path]; ok {
		return f, true
	}
	var (
		best  FaultConfig
		found string
	)
	for pattern, f := range fr.faults {
		if !strings.HasSuffix(pattern, "/*") || !pathMatches(pattern, path) {
			continue
		}
		if len(pattern) > len(found) {
			best, found = f, pattern
		}
	}
	return best, found != ""
}

// Check returns the fault to apply to a request for path, or nil when no
// fault is registered or the dice say this request goes through.
func (fr *FaultRegistry) Check(path string) *FaultConfig {
	f, ok := fr.lookup(path)
	if !ok {
		return nil
	}
	if f.Rate < 1 && rand.Float64() >= f.Rate {
		return nil
	}
	return &f
}

// All returns a copy of the registered faults.
func (fr *FaultRegistry) All() map[string]FaultConfig {
	fr.mu.RLock()
	defer fr.mu.RUnlock()
	return maps.Clone(fr.faults)
}

// Reset removes every fault.
func (fr *FaultRegistry) Reset() {
	fr.mu.Lock()
	clear(fr.faults)
	fr.mu.Unlock()
}

// body is what a faulted request answers with.
func (f FaultConfig) body() []byte {
	if f.Body != "" {
		return []byte(f.Body)
	}
	b, _ := json.Marshal(map[string]string{"error": "injected fault"})
	return b
}
