// Package tokenstore persists the admin bearer token between runs.
//
// Exactly one token is stored at a time under the fixed key admin_token.
// Reading a missing or unreadable token yields ("", false) rather than an
// error: a store that cannot be read is treated as logged out.
package tokenstore

import "sync"

// Key is the name the token is stored under in every backend.
const Key = "admin_token"

// Store holds the admin credential.
type Store interface {
	// Get returns the stored token and whether one is present.
	Get() (string, bool)
	// Set replaces the stored token.
	Set(token string) error
	// Clear removes the stored token. Clearing an empty store is not an error.
	Clear() error
}

// Memory keeps the token for the lifetime of the process. An empty token
// reads as absent, as in the file and Redis stores.
type Memory struct {
	mu    sync.RWMutex
	token string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

func (m *Memory) Set(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
