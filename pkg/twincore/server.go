// Package twincore is the HTTP base of the storefront twin: a chi router with
// request ids, CORS, a request log, simulated latency and failures, plus the
// JSON helpers every handler writes with.
package twincore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Config is the startup configuration of a twin. Latency, FailRate and
// Verbose can also be changed while it runs.
type Config struct {
	Name     string
	Port     int
	Latency  time.Duration
	FailRate float64
	Verbose  bool
	SeedFile string
}

// knobs is the runtime-tunable part of Config.
type knobs struct {
	latency  time.Duration
	failRate float64
	verbose  bool
}

// Twin is a running twin server.
type Twin struct {
	Config *Config
	Router *chi.Mux
	Logger *zap.Logger

	mu sync.RWMutex // guards the tunable Config fields
	mw *Middleware
}

// New returns a Twin with the shared middleware mounted. A nil logger
// disables logging.
func New(cfg *Config, logger *zap.Logger) *Twin {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Twin{
		Config: cfg,
		Router: chi.NewRouter(),
		Logger: logger.With(zap.String("twin", cfg.Name)),
	}
	t.mw = NewMiddleware(cfg, t.Logger)
	t.mw.knobs = t.knobs

	t.Router.Use(chimw.RequestID, chimw.RealIP, t.mw.CORS, t.mw.RequestLog, t.mw.LatencyInjection, t.mw.RandomFailure)
	return t
}

// Middleware returns the request log and fault registry holder.
func (t *Twin) Middleware() *Middleware {
	return t.mw
}

func (t *Twin) knobs() knobs {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return knobs{latency: t.Config.Latency, failRate: t.Config.FailRate, verbose: t.Config.Verbose}
}

// GetConfig reports the configuration for the admin control plane.
func (t *Twin) GetConfig() map[string]any {
	k := t.knobs()
	return map[string]any{
		"name":      t.Config.Name,
		"port":      t.Config.Port,
		"latency":   k.latency.String(),
		"fail_rate": k.failRate,
		"verbose":   k.verbose,
	}
}

// UpdateConfig applies runtime changes from decoded JSON. Every key is
// checked before any is applied.
func (t *Twin) UpdateConfig(updates map[string]any) error {
	next := t.knobs()
	for key, raw := range updates {
		if err := next.set(key, raw); err != nil {
			return err
		}
	}
	t.mu.Lock()
	t.Config.Latency, t.Config.FailRate, t.Config.Verbose = next.latency, next.failRate, next.verbose
	t.mu.Unlock()
	t.Logger.Info("runtime config changed",
		zap.Duration("latency", next.latency),
		zap.Float64("fail_rate", next.failRate),
		zap.Bool("verbose", next.verbose),
	)
	return nil
}

func (k *knobs) set(key string, raw any) error {
	switch key {
	case "latency":
		s, ok := raw.(string)
		if !ok {
			return errors.New("latency must be a duration string such as \"250ms\"")
		}
		d, err := time.ParseDuration(s)
		if err != nil || d < 0 {
			return fmt.Errorf("invalid latency %q", s)
		}
		k.latency = d
	case "fail_rate":
		f, ok := raw.(float64)
		if !ok || f < 0 || f > 1 {
			return errors.New("fail_rate must be a number between 0 and 1")
		}
		k.failRate = f
	case "verbose":
		b, ok := raw.(bool)
		if !ok {
			return errors.New("verbose must be true or false")
		}
		k.verbose = b
	case "name", "port", "seed_file":
		return fmt.Errorf("%s is fixed at startup", key)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// Serve listens on the configured port until ctx is cancelled, then drains
// in-flight requests for up to ten seconds.
func (t *Twin) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", t.Config.Port))
	if err != nil {
		return fmt.Errorf("listening: %w", err)
	}
	srv := &http.Server{
		Handler:           t.Router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       time.Minute,
	}

	served := make(chan error, 1)
	go func() { served <- srv.Serve(ln) }()
	t.Logger.Info("storefront twin listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-served:
		return err
	case <-ctx.Done():
	}
	t.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-served; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// ServeHTTP lets tests mount a Twin on httptest.NewServer.
func (t *Twin) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t.Router.ServeHTTP(w, r)
}

// JSON writes v with status. A nil v writes no body.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Error writes the storefront error body {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
