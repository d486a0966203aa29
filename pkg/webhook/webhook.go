// Package webhook queues storefront events, such as a triggered customer
// notification, and posts them to a receiver URL. Deliveries are signed with
// a timestamped HMAC-SHA256 so the receiver can reject replays.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SignatureHeader carries "t=<unix>,v1=<hex hmac>" on signed deliveries.
const SignatureHeader = "X-Storefront-Signature"

// Sign returns the signature header value for body sent at ts.
func Sign(secret string, ts time.Time, body []byte) string {
	unix := strconv.FormatInt(ts.Unix(), 10)
	return "t=" + unix + ",v1=" + digest(secret, unix, body)
}

func digest(secret, unix string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(unix))
	mac.Write([]byte{'.'})
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// ErrBadSignature is returned by Verify for a missing, malformed, stale or
// forged signature.
var ErrBadSignature = errors.New("webhook: bad signature")

// Verify checks header against body. Signatures older than tolerance are
// rejected when tolerance is positive.
func Verify(secret, header string, body []byte, now time.Time, tolerance time.Duration) error {
	var unix, sig string
	for part := range strings.SplitSeq(header, ",") {
		k, v, _ := strings.Cut(part, "=")
		switch k {
		case "t":
			unix = v
		case "v1":
			sig = v
		}
	}
	ts, err := strconv.ParseInt(unix, 10, 64)
	if err != nil || sig == "" {
		return ErrBadSignature
	}
	if tolerance > 0 && now.Sub(time.Unix(ts, 0)) > tolerance {
		return ErrBadSignature
	}
	if !hmac.Equal([]byte(sig), []byte(digest(secret, unix, body))) {
		return ErrBadSignature
	}
	return nil
}

// Event is one storefront event.
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
}

// Attempt records one POST of an event.
type Attempt struct {
	EventID    string    `json:"event_id"`
	Number     int       `json:"attempt"`
	StatusCode int       `json:"status_code,omitempty"`
	Error      string    `json:"error,omitempty"`
	At         time.Time `json:"at"`
}

// Config configures a Dispatcher. Zero values get defaults: three attempts,
// a one second backoff that doubles per retry, and the wall clock.
type Config struct {
	URL         string
	Secret      string // deliveries are unsigned when empty
	MaxAttempts int
	Backoff     time.Duration
	Async       bool // post each event in the background as it is queued
	Now         func() time.Time
	Logger      *zap.Logger
}

// Dispatcher holds queued events until they are flushed.
type Dispatcher struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger

	mu       sync.Mutex
	queue    []Event
	attempts []Attempt
	inflight sync.WaitGroup
}

// NewDispatcher returns a Dispatcher for cfg.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger.Named("webhook"),
	}
}

// Enqueue queues an event of type kind and returns it.
func (d *Dispatcher) Enqueue(kind string, data map[string]any) Event {
	evt := Event{
		ID:        "evt_" + uuid.NewString(),
		Type:      kind,
		Data:      data,
		CreatedAt: d.cfg.Now().UTC(),
	}
	if d.cfg.Async {
		d.inflight.Add(1)
		go func() {
			defer d.inflight.Done()
			if err := d.post(context.Background(), evt); err != nil {
				d.logger.Warn("delivery failed", zap.String("event_id", evt.ID), zap.Error(err))
			}
		}()
		return evt
	}
	d.mu.Lock()
	d.queue = append(d.queue, evt)
	d.mu.Unlock()
	return evt
}

// Wait blocks until background deliveries finish.
func (d *Dispatcher) Wait() {
	d.inflight.Wait()
}

// Flush posts every queued event, emptying the queue. Events that still
// fail after all attempts are dropped and reported in the joined error.
func (d *Dispatcher) Flush(ctx context.Context) error {
	d.mu.Lock()
	events := d.queue
	d.queue = nil
	d.mu.Unlock()

	var errs []error
	for _, evt := range events {
		if err := d.post(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("event %s: %w", evt.ID, err))
		}
	}
	return errors.Join(errs...)
}

// FlushWebhooks flushes with a background context for the admin control plane.
func (d *Dispatcher) FlushWebhooks() error {
	return d.Flush(context.Background())
}

func (d *Dispatcher) post(ctx context.Context, evt Event) error {
	if d.cfg.URL == "" {
		d.logger.Debug("no receiver configured", zap.String("event_id", evt.ID), zap.String("type", evt.Type))
		return nil
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	wait := d.cfg.Backoff
	var last error
	for n := 1; n <= d.cfg.MaxAttempts; n++ {
		if n > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
		}
		a := d.attempt(ctx, evt, n, body)
		d.mu.Lock()
		d.attempts = append(d.attempts, a)
		d.mu.Unlock()
		if a.Error == "" {
			d.logger.Debug("delivered", zap.String("event_id", evt.ID), zap.Int("attempt", n))
			return nil
		}
		last = errors.New(a.Error)
	}
	return last
}

func (d *Dispatcher) attempt(ctx context.Context, evt Event, n int, body []byte) Attempt {
	a := Attempt{EventID: evt.ID, Number: n, At: time.Now()}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.URL, bytes.NewReader(body))
	if err != nil {
		a.Error = err.Error()
		return a
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Storefront-Event", evt.Type)
	if d.cfg.Secret != "" {
		req.Header.Set(SignatureHeader, Sign(d.cfg.Secret, time.Now(), body))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		a.Error = err.Error()
		return a
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	a.StatusCode = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		a.Error = fmt.Sprintf("receiver answered %d", resp.StatusCode)
	}
	return a
}

// Attempts returns every delivery attempt so far.
func (d *Dispatcher) Attempts() []Attempt {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Attempt(nil), d.attempts...)
}

// QueuedEvents returns events not yet flushed.
func (d *Dispatcher) QueuedEvents() []Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Event(nil), d.queue...)
}

// Reset drops queued events and the attempt history.
func (d *Dispatcher) Reset() {
	d.mu.Lock()
	d.queue = nil
	d.attempts = nil
	d.mu.Unlock()
}
