package twincore

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func ok(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

// ---------------------------------------------------------------------------
// Request log
// ---------------------------------------------------------------------------

func TestRequestLogKeepsNewest(t *testing.T) {
	rl := NewRequestLog(2)
	for _, p := range []string{"/api/offers", "/api/popups", "/api/shipping"} {
		rl.Add(RequestLogEntry{Path: p})
	}

	got := rl.Entries()
	if len(got) != 2 || got[0].Path != "/api/popups" || got[1].Path != "/api/shipping" {
		t.Errorf("unexpected entries: %+v", got)
	}
}

func TestRequestLogFilter(t *testing.T) {
	rl := NewRequestLog(10)
	rl.Add(RequestLogEntry{Method: "GET", Path: "/api/products", StatusCode: 200})
	rl.Add(RequestLogEntry{Method: "GET", Path: "/api/products/4", StatusCode: 404})
	rl.Add(RequestLogEntry{Method: "DELETE", Path: "/api/products/4", StatusCode: 200})
	rl.Add(RequestLogEntry{Method: "GET", Path: "/api/productsx", StatusCode: 200})

	tests := []struct {
		name  string
		match RequestMatch
		want  int
	}{
		{"everything", RequestMatch{}, 4},
		{"exact path", RequestMatch{Path: "/api/products"}, 1},
		{"subtree", RequestMatch{Path: "/api/products/*"}, 3},
		{"method is case-insensitive", RequestMatch{Method: "delete"}, 1},
		{"status", RequestMatch{Status: 404}, 1},
		{"combined", RequestMatch{Method: "GET", Path: "/api/products/*", Status: 200}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(rl.Filter(tt.match)); got != tt.want {
				t.Errorf("Filter(%+v) = %d entries, want %d", tt.match, got, tt.want)
			}
		})
	}

	if n := rl.Count("GET", "/api/products"); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
	rl.Clear()
	if n := len(rl.Entries()); n != 0 {
		t.Errorf("expected empty log after Clear, got %d", n)
	}
}

// ---------------------------------------------------------------------------
// Faults
// ---------------------------------------------------------------------------

func TestFaultRegistryDefaultsToEveryRequest(t *testing.T) {
	fr := NewFaultRegistry()
	fr.Set("/api/offers", FaultConfig{StatusCode: 503})

	f := fr.Check("/api/offers")
	if f == nil || f.Rate != 1 {
		t.Fatalf("expected always-on fault, got %+v", f)
	}
	if fr.Check("/api/popups") != nil {
		t.Error("expected no fault for unregistered path")
	}
	if !fr.Remove("/api/offers") || fr.Remove("/api/offers") {
		t.Error("Remove should report existence once")
	}
}

func TestFaultRegistryWildcards(t *testing.T) {
	fr := NewFaultRegistry()
	fr.Set("/api/*", FaultConfig{StatusCode: 500})
	fr.Set("/api/products/*", FaultConfig{StatusCode: 502})
	fr.Set("/api/products/upload", FaultConfig{StatusCode: 413})

	tests := map[string]int{
		"/api/offers":          500,
		"/api/products":        502,
		"/api/products/7":      502,
		"/api/products/upload": 413,
	}
	for path, want := range tests {
		if f := fr.Check(path); f == nil || f.StatusCode != want {
			t.Errorf("Check(%q) = %+v, want status %d", path, f, want)
		}
	}
	if fr.Check("/admin/health") != nil {
		t.Error("wildcard must not reach outside its prefix")
	}

	fr.Reset()
	if len(fr.All()) != 0 {
		t.Error("expected no faults after Reset")
	}
}

func TestFaultConfigDecodesMilliseconds(t *testing.T) {
	var f FaultConfig
	if err := json.Unmarshal([]byte(`{"status_code":504,"delay_ms":250}`), &f); err != nil {
		t.Fatal(err)
	}
	if f.Delay() != 250*time.Millisecond {
		t.Errorf("Delay() = %v, want 250ms", f.Delay())
	}
}

// ---------------------------------------------------------------------------
// Middleware
// ---------------------------------------------------------------------------

func TestCORSAnswersPreflight(t *testing.T) {
	mw := NewMiddleware(&Config{}, nil)
	called := false
	h := mw.CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := serve(h, http.MethodOptions, "/api/products")
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if called {
		t.Error("preflight must not reach the handler")
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got == "" {
		t.Error("expected Access-Control-Allow-Headers")
	}
}

func TestRequestLogMiddleware(t *testing.T) {
	mw := NewMiddleware(&Config{Verbose: true}, nil)
	h := mw.RequestLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/offers?limit=5", nil)
	req.Header.Set("Authorization", "Bearer t")
	h.ServeHTTP(httptest.NewRecorder(), req)
	serve(mw.RequestLog(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})), http.MethodGet, "/api/offers")

	entries := mw.ReqLog.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	e := entries[0]
	if e.StatusCode != http.StatusCreated || e.Query != "limit=5" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.Headers["Authorization"] != "Bearer t" {
		t.Errorf("verbose mode should capture headers, got %+v", e.Headers)
	}
	if entries[1].StatusCode != http.StatusOK {
		t.Errorf("silent handler should log 200, got %d", entries[1].StatusCode)
	}
}

func TestFaultInjectionMiddleware(t *testing.T) {
	mw := NewMiddleware(&Config{}, nil)
	mw.Faults.Set("/api/offers", FaultConfig{StatusCode: 422, Body: `{"error":"boom"}`})
	mw.Faults.Set("/api/popups", FaultConfig{})
	h := mw.FaultInjection(http.HandlerFunc(ok))

	if rec := serve(h, http.MethodGet, "/api/offers"); rec.Code != 422 || rec.Body.String() != `{"error":"boom"}` {
		t.Errorf("unexpected fault response: %d %s", rec.Code, rec.Body.String())
	}
	if rec := serve(h, http.MethodGet, "/api/popups"); rec.Code != http.StatusOK {
		t.Errorf("fault without status or drop should pass through, got %d", rec.Code)
	}

	mw.Faults.Set("/api/shipping", FaultConfig{StatusCode: 500})
	rec := serve(h, http.MethodGet, "/api/shipping")
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] != "injected fault" {
		t.Errorf("expected default fault body, got %s", rec.Body.String())
	}
}

func TestFaultInjectionDropClosesConnection(t *testing.T) {
	mw := NewMiddleware(&Config{}, nil)
	mw.Faults.Set("/api/auth/logout", FaultConfig{Drop: true})
	srv := httptest.NewServer(mw.RequestLog(mw.FaultInjection(http.HandlerFunc(ok))))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/auth/logout", "application/json", nil)
	if err == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		t.Fatal("expected transport error for dropped connection")
	}
	if n := len(mw.ReqLog.Entries()); n != 0 {
		t.Errorf("dropped request should not be logged, got %d entries", n)
	}
}

func TestLatencyInjection(t *testing.T) {
	mw := NewMiddleware(&Config{Latency: 20 * time.Millisecond}, nil)
	h := mw.LatencyInjection(http.HandlerFunc(ok))

	start := time.Now()
	serve(h, http.MethodGet, "/")
	if elapsed := time.Since(start); elapsed < 15*time.Millisecond {
		t.Errorf("expected at least 15ms latency, got %v", elapsed)
	}
}

func TestRandomFailureAlways(t *testing.T) {
	mw := NewMiddleware(&Config{FailRate: 1}, nil)
	if rec := serve(mw.RandomFailure(http.HandlerFunc(ok)), http.MethodGet, "/"); rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
