// Package storefronttest starts an in-process storefront twin for tests of
// the admin client packages.
package storefronttest

import (
	"net/http/httptest"
	"testing"

	"github.com/fashioneshop/shopadmin/internal/storefront"
	"github.com/fashioneshop/shopadmin/pkg/testutil"
	"github.com/fashioneshop/shopadmin/pkg/twincore"
)

// Server is a running storefront twin.
type Server struct {
	*storefront.Storefront
	HTTP  *httptest.Server
	Admin *testutil.AdminClient
}

// Start launches a twin with the default seed and closes it when the test
// ends.
func Start(t *testing.T) *Server {
	t.Helper()
	sf, err := storefront.New(storefront.Options{})
	if err != nil {
		t.Fatalf("failed to build storefront twin: %v", err)
	}
	srv := httptest.NewServer(sf.Twin)
	t.Cleanup(srv.Close)
	return &Server{
		Storefront: sf,
		HTTP:       srv,
		Admin:      testutil.NewAdminClient(testutil.NewTwinClient(t, srv)),
	}
}

// APIURL is the base URL the admin client is configured with.
func (s *Server) APIURL() string {
	return s.HTTP.URL + "/api"
}

// Requests returns how many requests for method and path the twin has seen.
func (s *Server) Requests(method, path string) int {
	return s.Twin.Middleware().ReqLog.Count(method, path)
}

// LastRequest returns the most recent logged request for method and path.
func (s *Server) LastRequest(method, path string) (twincore.RequestLogEntry, bool) {
	entries := s.Twin.Middleware().ReqLog.Entries()
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Method == method && entries[i].Path == path {
			return entries[i], true
		}
	}
	return twincore.RequestLogEntry{}, false
}
