// Package store provides a generic, thread-safe, in-memory record store used
// by the storefront twin. Records keep their insertion order, numeric ids come
// from a per-store sequence, and listing supports offset/limit pagination.
package store

import (
	"cmp"
	"encoding/json"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Store is a thread-safe, in-memory store of records of type T keyed by K.
type Store[K cmp.Ordered, T any] struct {
	mu    sync.RWMutex
	items map[K]T
	order []K // insertion order for deterministic listing
	seq   atomic.Int64
}

// New creates an empty Store.
func New[K cmp.Ordered, T any]() *Store[K, T] {
	return &Store[K, T]{
		items: make(map[K]T),
		order: make([]K, 0),
	}
}

// NextID returns the next value of the store's numeric id sequence,
// starting at 1.
func (s *Store[K, T]) NextID() int64 {
	return s.seq.Add(1)
}

// observe advances the sequence so NextID never hands out a loaded id.
func (s *Store[K, T]) observe(key K) {
	n, ok := any(key).(int64)
	if !ok {
		return
	}
	for {
		cur := s.seq.Load()
		if n <= cur || s.seq.CompareAndSwap(cur, n) {
			return
		}
	}
}

// Set stores an item under key. Overwriting keeps the original position.
func (s *Store[K, T]) Set(key K, item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[key]; !exists {
		s.order = append(s.order, key)
	}
	s.items[key] = item
	s.observe(key)
}

// Get retrieves an item by key.
func (s *Store[K, T]) Get(key K) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[key]
	return item, ok
}

// Update applies fn to the stored item under the write lock. It returns the
// updated item, or false if key is absent or fn reports failure.
func (s *Store[K, T]) Update(key K, fn func(*T) bool) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[key]
	if !ok {
		var zero T
		return zero, false
	}
	if !fn(&item) {
		return item, false
	}
	s.items[key] = item
	return item, true
}

// Delete removes an item. Returns true if it existed.
func (s *Store[K, T]) Delete(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[key]; !exists {
		return false
	}
	delete(s.items, key)
	if i := slices.Index(s.order, key); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return true
}

// List returns all items in insertion order.
func (s *Store[K, T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]T, 0, len(s.order))
	for _, key := range s.order {
		result = append(result, s.items[key])
	}
	return result
}

// Keys returns all keys in insertion order.
func (s *Store[K, T]) Keys() []K {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

// Page is one window of a filtered listing.
type Page[T any] struct {
	Data   []T `json:"data"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Paginate returns the items matching predicate (all items when nil),
// skipping offset and returning at most limit. A limit <= 0 returns the rest.
func (s *Store[K, T]) Paginate(predicate func(T) bool, offset, limit int) Page[T] {
	s.mu.RLock()
	matched := make([]T, 0, len(s.order))
	for _, key := range s.order {
		item := s.items[key]
		if predicate == nil || predicate(item) {
			matched = append(matched, item)
		}
	}
	s.mu.RUnlock()
	return PageOf(matched, offset, limit)
}

// PageOf windows an already filtered and ordered slice.
func PageOf[T any](items []T, offset, limit int) Page[T] {
	total := len(items)
	offset = min(max(offset, 0), total)
	end := total
	if limit > 0 {
		end = min(offset+limit, total)
	}
	return Page[T]{
		Data:   items[offset:end],
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
}

// Count returns the number of items in the store.
func (s *Store[K, T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Filter returns items that match predicate, in insertion order.
func (s *Store[K, T]) Filter(predicate func(key K, item T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []T
	for _, key := range s.order {
		if predicate(key, s.items[key]) {
			result = append(result, s.items[key])
		}
	}
	return result
}

// Reset clears all items and restarts the id sequence.
func (s *Store[K, T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[K]T)
	s.order = make([]K, 0)
	s.seq.Store(0)
}

// Snapshot returns a copy of all items keyed by id.
func (s *Store[K, T]) Snapshot() map[K]T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot := make(map[K]T, len(s.items))
	for k, v := range s.items {
		snapshot[k] = v
	}
	return snapshot
}

// LoadSnapshot replaces all items. Keys are sorted to keep listing
// deterministic, and the id sequence continues after the largest loaded id.
func (s *Store[K, T]) LoadSnapshot(snapshot map[K]T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[K]T, len(snapshot))
	s.order = make([]K, 0, len(snapshot))
	s.seq.Store(0)
	for k, v := range snapshot {
		s.items[k] = v
		s.order = append(s.order, k)
		s.observe(k)
	}
	slices.Sort(s.order)
}

// MarshalJSON serializes the store as its items map.
func (s *Store[K, T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Snapshot())
}

// UnmarshalJSON replaces the store contents from an items map.
func (s *Store[K, T]) UnmarshalJSON(data []byte) error {
	var snapshot map[K]T
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return err
	}
	s.LoadSnapshot(snapshot)
	return nil
}

// Clock is a simulated clock for time-dependent twin behavior such as
// "orders today" analytics.
type Clock struct {
	mu     sync.RWMutex
	offset time.Duration
}

// NewClock creates a clock with no offset.
func NewClock() *Clock {
	return &Clock{}
}

// Now returns the current simulated time.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Now().Add(c.offset)
}

// Advance moves the simulated clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset += d
}

// Reset resets the offset to zero.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = 0
}

// Offset returns the current offset.
func (c *Clock) Offset() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.offset
}
