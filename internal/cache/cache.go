// Package cache is the keyed list cache between the screens and the resource
// clients. Concurrent reads of a key share one request, results are applied
// in issuance order, and a mutation invalidates every key of its resource.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrClosed is returned once Close has been called.
var ErrClosed = errors.New("cache closed")

// ErrNoFetcher is returned by Refetch for a key that was never fetched.
var ErrNoFetcher = errors.New("no fetcher registered for key")

// Status is the state of one key.
type Status int

const (
	StatusAbsent Status = iota
	StatusLoading
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "absent"
	}
}

// Key identifies a cached list: a resource name plus its query parameters.
type Key struct {
	Resource string
	Params   string
}

// NewKey builds a key from a resource name and ordered parameters.
func NewKey(resource string, params ...string) Key {
	return Key{Resource: resource, Params: strings.Join(params, "&")}
}

func (k Key) String() string {
	if k.Params == "" {
		return k.Resource
	}
	return k.Resource + "?" + k.Params
}

// Snapshot is a point-in-time view of one key.
type Snapshot struct {
	Key       Key
	Status    Status
	Value     any
	Err       error
	UpdatedAt time.Time
}

type fetchFunc func(ctx context.Context) (any, error)

type subscription struct {
	mu     sync.Mutex
	active bool
	fn     func(Snapshot)
}

func (s *subscription) deliver(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		s.fn(snap)
	}
}

type entry struct {
	status    Status
	value     any
	err       error
	updatedAt time.Time
	issued    uint64 // sequence of the newest request
	applied   uint64 // sequence of the result currently held
	fetch     fetchFunc
	subs      map[int]*subscription
}

// Cache holds one entry per key.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	nextSub int
	closed  bool

	group singleflight.Group
	wg    sync.WaitGroup
	ctx   context.Context
	stop  context.CancelFunc

	staleAfter time.Duration
	now        func() time.Time
	logger     *zap.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithStaleAfter makes ready values older than d refetch on the next read.
// Zero keeps values until they are invalidated.
func WithStaleAfter(d time.Duration) Option {
	return func(c *Cache) { c.staleAfter = d }
}

// WithLogger enables debug logging.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates an empty cache. Call Close to stop background refetches.
func New(opts ...Option) *Cache {
	ctx, stop := context.WithCancel(context.Background())
	c := &Cache{
		entries: make(map[Key]*entry),
		ctx:     ctx,
		stop:    stop,
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// entryLocked returns the entry for key, creating an absent one.
func (c *Cache) entryLocked(key Key) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{subs: make(map[int]*subscription)}
		c.entries[key] = e
	}
	return e
}

func (e *entry) snapshot(key Key) Snapshot {
	return Snapshot{Key: key, Status: e.status, Value: e.value, Err: e.err, UpdatedAt: e.updatedAt}
}

func (e *entry) subscribers() []*subscription {
	out := make([]*subscription, 0, len(e.subs))
	for _, s := range e.subs {
		out = append(out, s)
	}
	return out
}

func notify(subs []*subscription, snap Snapshot) {
	for _, s := range subs {
		s.deliver(snap)
	}
}

func (c *Cache) fresh(e *entry) bool {
	if e.status != StatusReady {
		return false
	}
	return c.staleAfter == 0 || c.now().Sub(e.updatedAt) < c.staleAfter
}

// Fetch returns the cached value for key when it is ready and fresh, and
// otherwise joins or starts the single request in flight for key. Cancelling
// ctx stops the wait, not the shared request.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fetcher func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return zero, ErrClosed
	}
	e := c.entryLocked(key)
	e.fetch = func(ctx context.Context) (any, error) { return fetcher(ctx) }
	if c.fresh(e) {
		v := e.value
		c.mu.Unlock()
		return typed[T](key, v)
	}
	c.mu.Unlock()

	v, err := c.wait(ctx, key)
	if err != nil {
		return zero, err
	}
	return typed[T](key, v)
}

func typed[T any](key Key, v any) (T, error) {
	if v == nil {
		var zero T
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache key %s holds %T, not %T", key, v, zero)
	}
	return t, nil
}

// wait joins or starts the flight for key and blocks until it resolves or
// ctx is done.
func (c *Cache) wait(ctx context.Context, key Key) (any, error) {
	ch, err := c.start(key)
	if err != nil {
		return nil, err
	}
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// start joins or starts the flight for key. The returned channel receives
// exactly one result.
func (c *Cache) start(key Key) (<-chan singleflight.Result, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.wg.Add(1)
	c.mu.Unlock()

	flight := c.group.DoChan(key.String(), func() (any, error) {
		return c.run(key)
	})
	out := make(chan singleflight.Result, 1)
	go func() {
		defer c.wg.Done()
		out <- <-flight
	}()
	return out, nil
}

// run issues one request for key and applies its result if no newer request
// was issued meanwhile.
func (c *Cache) run(key Key) (any, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || e.fetch == nil {
		c.mu.Unlock()
		return nil, ErrNoFetcher
	}
	e.issued++
	seq := e.issued
	fetch := e.fetch
	var (
		subs []*subscription
		snap Snapshot
	)
	if e.status != StatusLoading {
		e.status = StatusLoading
		subs, snap = e.subscribers(), e.snapshot(key)
	}
	c.mu.Unlock()
	notify(subs, snap)

	c.logger.Debug("cache fetch", zap.Stringer("key", key), zap.Uint64("seq", seq))
	v, err := fetch(c.ctx)
	c.apply(key, seq, v, err)
	return v, err
}

func (c *Cache) apply(key Key, seq uint64, v any, err error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || seq != e.issued || seq <= e.applied {
		c.mu.Unlock()
		c.logger.Debug("cache discard stale result", zap.Stringer("key", key), zap.Uint64("seq", seq))
		return
	}
	e.applied = seq
	e.updatedAt = c.now()
	if err != nil {
		e.status, e.err = StatusError, err
	} else {
		e.status, e.value, e.err = StatusReady, v, nil
	}
	subs, snap := e.subscribers(), e.snapshot(key)
	c.mu.Unlock()
	notify(subs, snap)
}

// Peek returns the current state of key without fetching.
func (c *Cache) Peek(key Key) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return Snapshot{Key: key}
	}
	return e.snapshot(key)
}

// Refetch issues a new request for key, even if one is in flight, and waits
// for it.
func (c *Cache) Refetch(ctx context.Context, key Key) error {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || e.fetch == nil {
		c.mu.Unlock()
		return ErrNoFetcher
	}
	subs, snap := c.supersedeLocked(key, e)
	c.mu.Unlock()
	notify(subs, snap)

	_, err := c.wait(ctx, key)
	return err
}

// supersedeLocked discards any result still in flight for key and marks it
// loading. The next request is a new flight rather than a join of the old
// one. It returns the notification to send if the status changed.
func (c *Cache) supersedeLocked(key Key, e *entry) ([]*subscription, Snapshot) {
	e.issued++
	c.group.Forget(key.String())
	if e.status == StatusLoading {
		return nil, Snapshot{}
	}
	e.status = StatusLoading
	return e.subscribers(), e.snapshot(key)
}

// Invalidate marks every key of resource as loading and refetches them in the
// background. Keys never fetched are dropped.
func (c *Cache) Invalidate(resource string) {
	c.mu.Lock()
	var keys []Key
	for k := range c.entries {
		if k.Resource == resource {
			keys = append(keys, k)
		}
	}
	c.mu.Unlock()

	c.logger.Debug("cache invalidate", zap.String("resource", resource), zap.Int("keys", len(keys)))
	for _, k := range keys {
		c.InvalidateKey(k)
	}
}

// InvalidateKey marks one key as loading and refetches it in the background.
func (c *Cache) InvalidateKey(key Key) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || c.closed {
		c.mu.Unlock()
		return
	}
	if e.fetch == nil {
		if len(e.subs) == 0 {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return
	}
	subs, snap := c.supersedeLocked(key, e)
	c.mu.Unlock()
	notify(subs, snap)

	if _, err := c.start(key); err != nil {
		c.logger.Debug("cache refetch not started", zap.Stringer("key", key), zap.Error(err))
	}
}

// Subscribe registers fn for every applied transition of key. fn runs on the
// goroutine that applied the transition and must not call the returned
// unsubscribe function. Once unsubscribe returns fn is never called again.
func (c *Cache) Subscribe(key Key, fn func(Snapshot)) (unsubscribe func()) {
	sub := &subscription{active: true, fn: fn}

	c.mu.Lock()
	e := c.entryLocked(key)
	id := c.nextSub
	c.nextSub++
	e.subs[id] = sub
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.mu.Lock()
			sub.active = false
			sub.mu.Unlock()

			c.mu.Lock()
			if e, ok := c.entries[key]; ok {
				delete(e.subs, id)
			}
			c.mu.Unlock()
		})
	}
}

// Close cancels in-flight requests and waits for background refetches.
func (c *Cache) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.stop()
	c.wg.Wait()
}
