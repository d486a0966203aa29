// Package testutil drives a running storefront twin from tests: a JSON client
// that can log in as the store admin, response assertions matching the
// storefront's {"error"} and {"message"} bodies, and a client for the /admin
// control plane.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/fashioneshop/shopadmin/pkg/twincore"
)

// TwinClient sends JSON requests to a twin. A non-empty Token is sent as a
// bearer credential on every request.
type TwinClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
	t          testing.TB
}

// NewTwinClient returns a client for srv.
func NewTwinClient(t testing.TB, srv *httptest.Server) *TwinClient {
	return &TwinClient{BaseURL: srv.URL, HTTPClient: srv.Client(), t: t}
}

// WithToken returns a copy of c authenticated with token.
func (c *TwinClient) WithToken(token string) *TwinClient {
	cp := *c
	cp.Token = token
	return &cp
}

// Login signs in through /api/auth/login and returns a client carrying the
// issued token. The test fails if no token comes back.
func (c *TwinClient) Login(username, password string) *TwinClient {
	c.t.Helper()
	var body struct {
		Token string `json:"token"`
	}
	c.Post("/api/auth/login", map[string]string{"username": username, "password": password}).
		AssertStatus(http.StatusOK).
		JSON(&body)
	if body.Token == "" {
		c.t.Fatalf("login as %q returned no token", username)
	}
	return c.WithToken(body.Token)
}

func (c *TwinClient) Get(path string) *Response {
	c.t.Helper()
	return c.Send(http.MethodGet, path, nil, nil)
}

func (c *TwinClient) Post(path string, body any) *Response {
	c.t.Helper()
	return c.Send(http.MethodPost, path, body, nil)
}

func (c *TwinClient) Put(path string, body any) *Response {
	c.t.Helper()
	return c.Send(http.MethodPut, path, body, nil)
}

func (c *TwinClient) Patch(path string, body any) *Response {
	c.t.Helper()
	return c.Send(http.MethodPatch, path, body, nil)
}

func (c *TwinClient) Delete(path string) *Response {
	c.t.Helper()
	return c.Send(http.MethodDelete, path, nil, nil)
}

// Send issues method on path with body encoded as JSON when non-nil, plus
// any extra headers.
func (c *TwinClient) Send(method, path string, body any, headers http.Header) *Response {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("encoding %s %s body: %v", method, path, err)
		}
		r = bytes.NewReader(data)
	}
	req := c.newRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return c.roundTrip(req)
}

// PostRaw posts an already encoded body, such as a multipart form.
func (c *TwinClient) PostRaw(path, contentType string, body io.Reader) *Response {
	c.t.Helper()
	req := c.newRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	return c.roundTrip(req)
}

// Upload posts files as the "images" fields of a multipart form, the way the
// dashboard uploads product photos. Keys are file names.
func (c *TwinClient) Upload(path string, files map[string][]byte) *Response {
	c.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, data := range files {
		fw, err := mw.CreateFormFile("images", name)
		if err != nil {
			c.t.Fatalf("building upload form: %v", err)
		}
		_, _ = fw.Write(data)
	}
	if err := mw.Close(); err != nil {
		c.t.Fatalf("building upload form: %v", err)
	}
	return c.PostRaw(path, mw.FormDataContentType(), &buf)
}

func (c *TwinClient) newRequest(method, path string, body io.Reader) *http.Request {
	c.t.Helper()
	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		c.t.Fatalf("building %s %s: %v", method, path, err)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return req
}

func (c *TwinClient) roundTrip(req *http.Request) *Response {
	c.t.Helper()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("reading %s %s: %v", req.Method, req.URL.Path, err)
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Body:       data,
		Headers:    resp.Header,
		t:          c.t,
		label:      req.Method + " " + req.URL.Path,
	}
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
	t          testing.TB
	label      string
}

// JSON decodes the body into v, failing the test on malformed JSON.
func (r *Response) JSON(v any) {
	r.t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		r.t.Fatalf("%s: decoding body: %v\nbody: %s", r.label, err, r.Body)
	}
}

// JSONMap decodes the body as an object.
func (r *Response) JSONMap() map[string]any {
	r.t.Helper()
	var m map[string]any
	r.JSON(&m)
	return m
}

func (r *Response) AssertStatus(want int) *Response {
	r.t.Helper()
	if r.StatusCode != want {
		r.t.Errorf("%s: status %d, want %d\nbody: %s", r.label, r.StatusCode, want, r.Body)
	}
	return r
}

func (r *Response) AssertBodyContains(substr string) *Response {
	r.t.Helper()
	if !bytes.Contains(r.Body, []byte(substr)) {
		r.t.Errorf("%s: body does not contain %q: %s", r.label, substr, r.Body)
	}
	return r
}

// AssertError checks for the storefront's {"error": msg} body.
func (r *Response) AssertError(msg string) *Response {
	r.t.Helper()
	return r.assertField("error", msg)
}

// AssertMessage checks for the storefront's {"message": msg} body.
func (r *Response) AssertMessage(msg string) *Response {
	r.t.Helper()
	return r.assertField("message", msg)
}

func (r *Response) assertField(field, want string) *Response {
	r.t.Helper()
	var body map[string]any
	if err := json.Unmarshal(r.Body, &body); err != nil || body[field] != want {
		r.t.Errorf("%s: want %s %q, got: %s", r.label, field, want, r.Body)
	}
	return r
}

// CreatedID returns the id of a 201 {"id", "message"} response.
func (r *Response) CreatedID() int64 {
	r.t.Helper()
	r.AssertStatus(http.StatusCreated)
	var body struct {
		ID int64 `json:"id"`
	}
	r.JSON(&body)
	if body.ID == 0 {
		r.t.Fatalf("%s: no id in %s", r.label, r.Body)
	}
	return body.ID
}

// AdminClient drives the /admin control plane.
type AdminClient struct {
	*TwinClient
}

// NewAdminClient wraps tc. The control plane needs no token.
func NewAdminClient(tc *TwinClient) *AdminClient {
	return &AdminClient{tc.WithToken("")}
}

func (ac *AdminClient) Health() *Response {
	ac.t.Helper()
	return ac.Get("/admin/health")
}

// Reset reseeds the store and clears faults, requests and the clock offset.
func (ac *AdminClient) Reset() *Response {
	ac.t.Helper()
	return ac.Post("/admin/reset", nil)
}

// State decodes the full store snapshot into v.
func (ac *AdminClient) State(v any) {
	ac.t.Helper()
	ac.Get("/admin/state").AssertStatus(http.StatusOK).JSON(v)
}

func (ac *AdminClient) LoadState(state any) *Response {
	ac.t.Helper()
	return ac.Post("/admin/state", state)
}

func faultURL(endpoint string) string {
	return "/admin/fault/" + strings.TrimPrefix(endpoint, "/")
}

// InjectFault breaks endpoint, an API path or a prefix ending in "/*".
func (ac *AdminClient) InjectFault(endpoint string, fault any) *Response {
	ac.t.Helper()
	return ac.Post(faultURL(endpoint), fault)
}

func (ac *AdminClient) RemoveFault(endpoint string) *Response {
	ac.t.Helper()
	return ac.Delete(faultURL(endpoint))
}

func (ac *AdminClient) ClearFaults() *Response {
	ac.t.Helper()
	return ac.Delete("/admin/faults")
}

// Requests returns the logged requests selected by m.
func (ac *AdminClient) Requests(m twincore.RequestMatch) []twincore.RequestLogEntry {
	ac.t.Helper()
	q := url.Values{}
	if m.Method != "" {
		q.Set("method", m.Method)
	}
	if m.Path != "" {
		q.Set("path", m.Path)
	}
	if m.Status != 0 {
		q.Set("status", strconv.Itoa(m.Status))
	}
	path := "/admin/requests"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var entries []twincore.RequestLogEntry
	ac.Get(path).AssertStatus(http.StatusOK).JSON(&entries)
	return entries
}

func (ac *AdminClient) FlushWebhooks() *Response {
	ac.t.Helper()
	return ac.Post("/admin/webhooks/flush", nil)
}

// AdvanceTime moves the store clock by a Go duration such as "36h".
func (ac *AdminClient) AdvanceTime(duration string) *Response {
	ac.t.Helper()
	return ac.Post("/admin/time/advance", map[string]string{"duration": duration})
}

// AdvanceDays moves the store clock by whole days.
func (ac *AdminClient) AdvanceDays(days int) *Response {
	ac.t.Helper()
	return ac.Post("/admin/time/advance", map[string]int{"days": days})
}

// SetConfig patches the twin's runtime config, e.g. {"latency": "50ms"}.
func (ac *AdminClient) SetConfig(updates map[string]any) *Response {
	ac.t.Helper()
	return ac.Patch("/admin/config", updates)
}
