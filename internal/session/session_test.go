package session

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fashioneshop/shopadmin/internal/client"
	"github.com/fashioneshop/shopadmin/internal/resources"
	"github.com/fashioneshop/shopadmin/internal/storefront/store"
	"github.com/fashioneshop/shopadmin/internal/storefront/storefronttest"
	"github.com/fashioneshop/shopadmin/internal/tokenstore"
)

type recorder struct {
	mu        sync.Mutex
	routes    []string
	successes []string
	errors    []string
}

func (r *recorder) Navigate(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
}

func (r *recorder) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, msg)
}

func (r *recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

type env struct {
	srv    *storefronttest.Server
	tokens *tokenstore.Memory
	rec    *recorder
	sess   *Session
}

func setup(t *testing.T) *env {
	t.Helper()
	srv := storefronttest.Start(t)
	tokens := tokenstore.NewMemory()
	api := resources.New(client.New(srv.APIURL(), tokens))
	rec := &recorder{}
	sess := New(api.Auth, tokens, WithNavigator(rec), WithNotifier(rec))
	return &env{srv: srv, tokens: tokens, rec: rec, sess: sess}
}

func TestLoginStoresCredential(t *testing.T) {
	e := setup(t)
	require.Equal(t, StateAnonymous, e.sess.Restore())

	require.NoError(t, e.sess.Login(context.Background(), store.DefaultUsername, store.DefaultPassword))

	assert.Equal(t, StateAuthenticated, e.sess.State())
	user, ok := e.sess.User()
	require.True(t, ok)
	assert.Equal(t, resources.User{ID: 1, Username: "admin", Role: "admin"}, user)

	token, ok := e.tokens.Get()
	require.True(t, ok)
	assert.NotEmpty(t, token)
	assert.Equal(t, []string{RouteAdmin}, e.rec.routes)
	assert.Equal(t, []string{MsgLoginSuccess}, e.rec.successes)
}

func TestLoginFailureStoresNothing(t *testing.T) {
	e := setup(t)
	e.sess.Restore()

	err := e.sess.Login(context.Background(), "admin", "wrong")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid credentials", apiErr.Message)

	assert.Equal(t, StateAnonymous, e.sess.State())
	_, ok := e.tokens.Get()
	assert.False(t, ok)
	assert.Empty(t, e.rec.routes)
	assert.Equal(t, []string{"Invalid credentials"}, e.rec.errors)
}

func TestLoginFailureWithoutRestoreIsAnonymous(t *testing.T) {
	e := setup(t)
	require.Equal(t, StateUnknown, e.sess.State())

	require.Error(t, e.sess.Login(context.Background(), "admin", "wrong"))
	assert.Equal(t, StateAnonymous, e.sess.State())
}

type tokenless struct{}

func (tokenless) Login(context.Context, string, string) (resources.LoginResponse, error) {
	return resources.LoginResponse{User: DefaultUser}, nil
}

func (tokenless) Logout(context.Context) (resources.Message, error) {
	return resources.Message{}, nil
}

func TestLoginRejectsEmptyToken(t *testing.T) {
	tokens := tokenstore.NewMemory()
	rec := &recorder{}
	sess := New(tokenless{}, tokens, WithNavigator(rec), WithNotifier(rec))
	sess.Restore()

	err := sess.Login(context.Background(), "admin", "admin123")
	require.ErrorIs(t, err, ErrNoToken)
	assert.Equal(t, StateAnonymous, sess.State())
	_, ok := tokens.Get()
	assert.False(t, ok)
	assert.Empty(t, rec.routes)
	assert.Equal(t, []string{ErrNoToken.Error()}, rec.errors)
}

func TestLogoutAlwaysClearsCredential(t *testing.T) {
	tests := []struct {
		name   string
		fault  map[string]any
		logged int
	}{
		{name: "server accepts", logged: 1},
		{name: "server error", fault: map[string]any{"status_code": http.StatusInternalServerError, "rate": 1}, logged: 1},
		// An aborted handler never reaches the request log.
		{name: "connection dropped", fault: map[string]any{"drop": true, "rate": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := setup(t)
			require.NoError(t, e.sess.Login(context.Background(), store.DefaultUsername, store.DefaultPassword))
			if tt.fault != nil {
				e.srv.Admin.InjectFault("/api/auth/logout", tt.fault).AssertStatus(http.StatusOK)
			}

			e.sess.Logout(context.Background())

			assert.Equal(t, StateAnonymous, e.sess.State())
			assert.False(t, e.sess.IsAuthenticated())
			_, ok := e.tokens.Get()
			assert.False(t, ok)
			assert.Equal(t, []string{RouteAdmin, RouteLogin}, e.rec.routes)
			assert.Equal(t, []string{MsgLoginSuccess, MsgLogoutSuccess}, e.rec.successes)
			assert.Equal(t, tt.logged, e.srv.Requests(http.MethodPost, "/api/auth/logout"))
		})
	}
}

func TestRestoreReadsTokenClaims(t *testing.T) {
	e := setup(t)
	require.NoError(t, e.sess.Login(context.Background(), store.DefaultUsername, store.DefaultPassword))

	restored := New(nil, e.tokens)
	require.Equal(t, StateAuthenticated, restored.Restore())
	user, ok := restored.User()
	require.True(t, ok)
	assert.Equal(t, resources.User{ID: 1, Username: "admin", Role: "admin"}, user)
}

func TestRestoreOpaqueToken(t *testing.T) {
	tokens := tokenstore.NewMemory()
	require.NoError(t, tokens.Set("not-a-jwt"))

	s := New(nil, tokens)
	assert.Equal(t, StateUnknown, s.State())
	assert.Equal(t, StateAuthenticated, s.Restore())
	user, _ := s.User()
	assert.Equal(t, DefaultUser, user)
}

func TestRestoreWithoutToken(t *testing.T) {
	s := New(nil, tokenstore.NewMemory())
	assert.Equal(t, StateAnonymous, s.Restore())
	_, ok := s.User()
	assert.False(t, ok)
}

type fixedState State

func (f fixedState) State() State { return State(f) }

func TestGuard(t *testing.T) {
	tests := []struct {
		route string
		state State
		want  Decision
	}{
		{"/", StateAnonymous, Decision{Redirect: RouteAdmin}},
		{"/", StateAuthenticated, Decision{Redirect: RouteAdmin}},
		{RouteLogin, StateAnonymous, Decision{Allow: true}},
		{RouteLogin, StateAuthenticated, Decision{Allow: true}},
		{RouteAdmin, StateAnonymous, Decision{Redirect: RouteLogin}},
		{RouteAdmin, StateAuthenticated, Decision{Allow: true}},
		{"/admin/orders", StateAnonymous, Decision{Redirect: RouteLogin}},
		{"/admin/orders", StateUnknown, Decision{Loading: true}},
		{"/admin/settings", StateAuthenticated, Decision{Allow: true}},
		{"/administrator", StateAnonymous, Decision{Allow: true}},
		{"/nowhere", StateAnonymous, Decision{Allow: true}},
	}
	for _, tt := range tests {
		t.Run(tt.route+"/"+tt.state.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, NewGuard(fixedState(tt.state)).Allow(tt.route))
		})
	}
}

func TestAdminRoutesAreProtected(t *testing.T) {
	for _, r := range AdminRoutes {
		assert.True(t, Protected(r), r)
	}
	assert.False(t, Protected(RouteLogin))
}
