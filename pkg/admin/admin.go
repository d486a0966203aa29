// Package admin mounts the /admin control plane of the storefront twin. Tests
// and the CLI use it to reseed the catalogue, break individual API routes,
// inspect the requests the dashboard made and move the store clock forward.
package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fashioneshop/shopadmin/pkg/store"
	"github.com/fashioneshop/shopadmin/pkg/twincore"
)

// State is the twin's data, restorable from and exportable to JSON.
type State interface {
	Snapshot() any
	LoadState(data []byte) error
	Reset()
}

// Flusher delivers queued webhooks on demand.
type Flusher interface {
	FlushWebhooks() error
}

// Tunable exposes the runtime knobs of the twin server.
type Tunable interface {
	GetConfig() map[string]any
	UpdateConfig(updates map[string]any) error
}

// Options wires a control plane. State and Middleware are required; the
// rest switch their endpoints off when nil.
type Options struct {
	State      State
	Middleware *twincore.Middleware
	Clock      *store.Clock
	Webhooks   Flusher
	Config     Tunable
	Logger     *zap.Logger
}

// ControlPlane serves /admin.
type ControlPlane struct {
	state    State
	mw       *twincore.Middleware
	clock    *store.Clock
	webhooks Flusher
	config   Tunable
	logger   *zap.Logger
}

// New returns a control plane for opts.
func New(opts Options) *ControlPlane {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ControlPlane{
		state:    opts.State,
		mw:       opts.Middleware,
		clock:    opts.Clock,
		webhooks: opts.Webhooks,
		config:   opts.Config,
		logger:   logger.Named("admin"),
	}
}

// Mount registers the /admin routes on r.
func (c *ControlPlane) Mount(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/health", c.health)
		r.Post("/reset", c.reset)

		r.Get("/state", c.exportState)
		r.Post("/state", c.importState)

		r.Get("/faults", c.listFaults)
		r.Delete("/faults", c.clearFaults)
		r.Post("/fault/*", c.injectFault)
		r.Delete("/fault/*", c.removeFault)

		r.Get("/requests", c.requests)
		r.Delete("/requests", c.clearRequests)

		r.Post("/webhooks/flush", c.flushWebhooks)

		r.Get("/config", c.getConfig)
		r.Patch("/config", c.patchConfig)

		r.Get("/time", c.now)
		r.Post("/time/advance", c.advance)
	})
}

type status struct {
	Status   string `json:"status"`
	Endpoint string `json:"endpoint,omitempty"`
}

func readJSON(w http.ResponseWriter, r *http.Request, what string, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		twincore.Error(w, http.StatusBadRequest, fmt.Sprintf("invalid %s: %v", what, err))
		return false
	}
	return true
}

func (c *ControlPlane) health(w http.ResponseWriter, r *http.Request) {
	twincore.JSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"faults":   len(c.mw.Faults.All()),
		"requests": len(c.mw.ReqLog.Entries()),
	})
}

// reset returns the twin to its seeded catalogue with no faults, an empty
// request log and the real clock.
func (c *ControlPlane) reset(w http.ResponseWriter, r *http.Request) {
	c.state.Reset()
	c.mw.ReqLog.Clear()
	c.mw.Faults.Reset()
	if c.clock != nil {
		c.clock.Reset()
	}
	c.logger.Info("twin reset")
	twincore.JSON(w, http.StatusOK, status{Status: "reset"})
}

func (c *ControlPlane) exportState(w http.ResponseWriter, r *http.Request) {
	twincore.JSON(w, http.StatusOK, c.state.Snapshot())
}

func (c *ControlPlane) importState(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		twincore.Error(w, http.StatusBadRequest, "reading state: "+err.Error())
		return
	}
	if err := c.state.LoadState(data); err != nil {
		twincore.Error(w, http.StatusBadRequest, "loading state: "+err.Error())
		return
	}
	c.logger.Info("state loaded", zap.Int("bytes", len(data)))
	twincore.JSON(w, http.StatusOK, status{Status: "loaded"})
}

// faultPattern maps /admin/fault/api/offers to /api/offers. A trailing "/*"
// is kept and faults the whole subtree.
func faultPattern(r *http.Request) string {
	return "/" + strings.TrimPrefix(chi.URLParam(r, "*"), "/")
}

func (c *ControlPlane) listFaults(w http.ResponseWriter, r *http.Request) {
	twincore.JSON(w, http.StatusOK, c.mw.Faults.All())
}

func (c *ControlPlane) clearFaults(w http.ResponseWriter, r *http.Request) {
	c.mw.Faults.Reset()
	twincore.JSON(w, http.StatusOK, status{Status: "cleared"})
}

func (c *ControlPlane) injectFault(w http.ResponseWriter, r *http.Request) {
	pattern := faultPattern(r)
	var f twincore.FaultConfig
	if !readJSON(w, r, "fault", &f) {
		return
	}
	if f.Rate > 1 {
		twincore.Error(w, http.StatusBadRequest, "rate must be between 0 and 1")
		return
	}
	c.mw.Faults.Set(pattern, f)
	c.logger.Info("fault injected",
		zap.String("endpoint", pattern),
		zap.Int("status", f.StatusCode),
		zap.Bool("drop", f.Drop),
	)
	twincore.JSON(w, http.StatusOK, status{Status: "injected", Endpoint: pattern})
}

func (c *ControlPlane) removeFault(w http.ResponseWriter, r *http.Request) {
	pattern := faultPattern(r)
	if !c.mw.Faults.Remove(pattern) {
		twincore.Error(w, http.StatusNotFound, "no fault registered for "+pattern)
		return
	}
	twincore.JSON(w, http.StatusOK, status{Status: "removed", Endpoint: pattern})
}

// requests lists the request log, narrowed by the optional method, path and
// status query parameters.
func (c *ControlPlane) requests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	m := twincore.RequestMatch{Method: q.Get("method"), Path: q.Get("path")}
	if raw := q.Get("status"); raw != "" {
		code, err := strconv.Atoi(raw)
		if err != nil {
			twincore.Error(w, http.StatusBadRequest, "status must be an HTTP status code")
			return
		}
		m.Status = code
	}
	twincore.JSON(w, http.StatusOK, c.mw.ReqLog.Filter(m))
}

func (c *ControlPlane) clearRequests(w http.ResponseWriter, r *http.Request) {
	c.mw.ReqLog.Clear()
	twincore.JSON(w, http.StatusOK, status{Status: "cleared"})
}

func (c *ControlPlane) flushWebhooks(w http.ResponseWriter, r *http.Request) {
	if c.webhooks == nil {
		twincore.JSON(w, http.StatusOK, status{Status: "no webhooks configured"})
		return
	}
	if err := c.webhooks.FlushWebhooks(); err != nil {
		c.logger.Warn("webhook flush failed", zap.Error(err))
		twincore.Error(w, http.StatusBadGateway, "flush failed: "+err.Error())
		return
	}
	twincore.JSON(w, http.StatusOK, status{Status: "flushed"})
}

var errNoConfig = errors.New("runtime config not available")

func (c *ControlPlane) getConfig(w http.ResponseWriter, r *http.Request) {
	if c.config == nil {
		twincore.Error(w, http.StatusNotFound, errNoConfig.Error())
		return
	}
	twincore.JSON(w, http.StatusOK, c.config.GetConfig())
}

func (c *ControlPlane) patchConfig(w http.ResponseWriter, r *http.Request) {
	if c.config == nil {
		twincore.Error(w, http.StatusNotFound, errNoConfig.Error())
		return
	}
	var updates map[string]any
	if !readJSON(w, r, "config", &updates) {
		return
	}
	if err := c.config.UpdateConfig(updates); err != nil {
		twincore.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	c.logger.Info("config updated", zap.Any("updates", updates))
	twincore.JSON(w, http.StatusOK, c.config.GetConfig())
}

type clockView struct {
	Real      string `json:"real"`
	Simulated string `json:"simulated,omitempty"`
	Offset    string `json:"offset,omitempty"`
	Status    string `json:"status,omitempty"`
}

func (c *ControlPlane) clockView() clockView {
	v := clockView{Real: time.Now().UTC().Format(time.RFC3339)}
	if c.clock != nil {
		v.Simulated = c.clock.Now().UTC().Format(time.RFC3339)
		v.Offset = c.clock.Offset().String()
	}
	return v
}

func (c *ControlPlane) now(w http.ResponseWriter, r *http.Request) {
	twincore.JSON(w, http.StatusOK, c.clockView())
}

// advance moves the store clock forward by a Go duration or a whole number
// of days, which is how analytics windows are exercised.
func (c *ControlPlane) advance(w http.ResponseWriter, r *http.Request) {
	if c.clock == nil {
		twincore.Error(w, http.StatusBadRequest, "simulated clock not configured")
		return
	}
	var req struct {
		Duration string `json:"duration"`
		Days     int    `json:"days"`
	}
	if !readJSON(w, r, "request", &req) {
		return
	}

	var d time.Duration
	switch {
	case req.Duration != "" && req.Days != 0:
		twincore.Error(w, http.StatusBadRequest, "give either duration or days")
		return
	case req.Duration != "":
		var err error
		if d, err = time.ParseDuration(req.Duration); err != nil {
			twincore.Error(w, http.StatusBadRequest, "invalid duration: "+err.Error())
			return
		}
	default:
		d = time.Duration(req.Days) * 24 * time.Hour
	}
	if d <= 0 {
		twincore.Error(w, http.StatusBadRequest, "the clock only moves forward")
		return
	}

	c.clock.Advance(d)
	c.logger.Info("clock advanced", zap.Duration("by", d), zap.Duration("offset", c.clock.Offset()))
	v := c.clockView()
	v.Status = "advanced"
	twincore.JSON(w, http.StatusOK, v)
}
