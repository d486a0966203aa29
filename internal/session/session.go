// Package session tracks who is logged in to the dashboard. The stored
// credential is the only proof of authentication: a session restored from a
// stored token assumes its identity without asking the server.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/fashioneshop/shopadmin/internal/resources"
	"github.com/fashioneshop/shopadmin/internal/tokenstore"
)

// State is the authentication state of a session.
type State int

const (
	StateUnknown State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Toasts shown to the user.
const (
	MsgLoginSuccess  = "Login successful!"
	MsgLogoutSuccess = "Logged out successfully"
)

// DefaultUser is assumed for a stored token that carries no readable
// identity.
var DefaultUser = resources.User{ID: 1, Username: "admin", Role: "admin"}

// Authenticator performs the remote login and logout calls.
// *resources.Auth satisfies it.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (resources.LoginResponse, error)
	Logout(ctx context.Context) (resources.Message, error)
}

// Navigator receives the route to show next.
type Navigator interface {
	Navigate(route string)
}

// Notifier shows transient messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type nopNavigator struct{}

func (nopNavigator) Navigate(string) {}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

// Session is the login state machine.
type Session struct {
	mu    sync.RWMutex
	state State
	user  resources.User

	auth   Authenticator
	tokens tokenstore.Store
	nav    Navigator
	notify Notifier
	logger *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

func WithNavigator(n Navigator) Option { return func(s *Session) { s.nav = n } }
func WithNotifier(n Notifier) Option   { return func(s *Session) { s.notify = n } }
func WithLogger(l *zap.Logger) Option  { return func(s *Session) { s.logger = l } }

// New creates a session in the unknown state. Call Restore before use.
func New(auth Authenticator, tokens tokenstore.Store, opts ...Option) *Session {
	s := &Session{
		auth:   auth,
		tokens: tokens,
		nav:    nopNavigator{},
		notify: nopNotifier{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore reads the stored credential: present means authenticated.
func (s *Session) Restore() State {
	token, ok := s.tokens.Get()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok {
		s.state, s.user = StateAnonymous, resources.User{}
		return s.state
	}
	s.state, s.user = StateAuthenticated, identityFromToken(token)
	return s.state
}

// identityFromToken reads the user from a JWT's claims without verifying
// the signature. Opaque tokens yield DefaultUser.
func identityFromToken(token string) resources.User {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return DefaultUser
	}
	username, _ := claims["username"].(string)
	if username == "" {
		return DefaultUser
	}
	u := resources.User{Username: username}
	u.Role, _ = claims["role"].(string)
	if id, ok := claims["user_id"].(float64); ok {
		u.ID = int64(id)
	}
	if u.ID == 0 {
		if sub, err := claims.GetSubject(); err == nil {
			u.ID, _ = strconv.ParseInt(sub, 10, 64)
		}
	}
	return u
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsAuthenticated reports whether a user is logged in.
func (s *Session) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

// User returns the logged-in user.
func (s *Session) User() (resources.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.state == StateAuthenticated
}

// ErrNoToken is returned by Login when the server accepts the credentials
// but sends no token.
var ErrNoToken = errors.New("login response carried no token")

// Login authenticates and stores the credential. On failure nothing is
// stored, the session is anonymous and the error is returned unchanged.
func (s *Session) Login(ctx context.Context, username, password string) error {
	resp, err := s.auth.Login(ctx, username, password)
	if err == nil && resp.Token == "" {
		err = ErrNoToken
	}
	if err != nil {
		return s.loginFailed(err)
	}
	if err := s.tokens.Set(resp.Token); err != nil {
		return s.loginFailed(fmt.Errorf("storing credential: %w", err))
	}

	s.mu.Lock()
	s.state, s.user = StateAuthenticated, resp.User
	s.mu.Unlock()

	s.logger.Info("logged in", zap.String("username", resp.User.Username))
	s.notify.Success(MsgLoginSuccess)
	s.nav.Navigate(RouteAdmin)
	return nil
}

// loginFailed settles a never-restored session as anonymous. An already
// authenticated session keeps its credential.
func (s *Session) loginFailed(err error) error {
	s.mu.Lock()
	if s.state == StateUnknown {
		s.state = StateAnonymous
	}
	s.mu.Unlock()
	s.notify.Error(err.Error())
	return err
}

// Logout tells the server to revoke the credential, then always clears it
// locally. Remote failures are logged only.
func (s *Session) Logout(ctx context.Context) {
	if _, err := s.auth.Logout(ctx); err != nil {
		s.logger.Warn("remote logout failed", zap.Error(err))
	}
	if err := s.tokens.Clear(); err != nil {
		s.logger.Warn("clearing credential", zap.Error(err))
	}

	s.mu.Lock()
	s.state, s.user = StateAnonymous, resources.User{}
	s.mu.Unlock()

	s.notify.Success(MsgLogoutSuccess)
	s.nav.Navigate(RouteLogin)
}
