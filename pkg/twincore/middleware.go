package twincore

import (
	"math/rand/v2"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Middleware carries the request log and fault registry shared by the
// twin's handlers and its control plane.
type Middleware struct {
	knobs  func() knobs
	logger *zap.Logger
	ReqLog *RequestLog
	Faults *FaultRegistry
}

// NewMiddleware returns middleware reading cfg on every request. A Twin
// swaps in a locked reader so runtime config changes apply immediately.
func NewMiddleware(cfg *Config, logger *zap.Logger) *Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Middleware{
		knobs: func() knobs {
			return knobs{latency: cfg.Latency, failRate: cfg.FailRate, verbose: cfg.Verbose}
		},
		logger: logger,
		ReqLog: NewRequestLog(1000),
		Faults: NewFaultRegistry(),
	}
}

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	"Access-Control-Allow-Headers": "Accept, Authorization, Content-Type, X-Request-ID",
	"Access-Control-Max-Age":       "3600",
}

// CORS lets the browser dashboard call the twin from another origin.
// Preflight requests are answered here.
func (m *Middleware) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range corsHeaders {
			w.Header().Set(k, v)
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLog records every completed request. Requests whose handler aborts
// the connection never complete and are not recorded.
func (m *Middleware) RequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		e := RequestLogEntry{
			Timestamp:  start,
			Method:     r.Method,
			Path:       r.URL.Path,
			Query:      r.URL.RawQuery,
			StatusCode: status,
			DurationMS: float64(elapsed.Microseconds()) / 1000,
			RequestID:  chimw.GetReqID(r.Context()),
		}
		if m.knobs().verbose {
			e.Headers = make(map[string]string, len(r.Header))
			for k := range r.Header {
				e.Headers[k] = r.Header.Get(k)
			}
		}
		m.ReqLog.Add(e)

		m.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
		)
	})
}

// LatencyInjection sleeps for the configured latency, jittered between 80%
// and 120%.
func (m *Middleware) LatencyInjection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if base := m.knobs().latency; base > 0 {
			time.Sleep(time.Duration(float64(base) * (0.8 + 0.4*rand.Float64())))
		}
		next.ServeHTTP(w, r)
	})
}

// RandomFailure answers a configured fraction of requests with a 500.
func (m *Middleware) RandomFailure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rate := m.knobs().failRate; rate > 0 && rand.Float64() < rate {
			Error(w, http.StatusInternalServerError, "simulated random failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// FaultInjection applies the registered fault for the request path. It is
// mounted on the /api group only, so the control plane stays reachable.
func (m *Middleware) FaultInjection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f := m.Faults.Check(r.URL.Path)
		if f == nil {
			next.ServeHTTP(w, r)
			return
		}
		if d := f.Delay(); d > 0 {
			time.Sleep(d)
		}
		switch {
		case f.Drop:
			m.logger.Debug("dropping connection", zap.String("path", r.URL.Path))
			panic(http.ErrAbortHandler)
		case f.StatusCode > 0:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.StatusCode)
			_, _ = w.Write(f.body())
		default:
			next.ServeHTTP(w, r)
		}
	})
}
