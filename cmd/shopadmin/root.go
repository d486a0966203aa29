package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fashioneshop/shopadmin/internal/cache"
	"github.com/fashioneshop/shopadmin/internal/client"
	"github.com/fashioneshop/shopadmin/internal/config"
	"github.com/fashioneshop/shopadmin/internal/resources"
	"github.com/fashioneshop/shopadmin/internal/session"
	"github.com/fashioneshop/shopadmin/internal/tokenstore"
	"github.com/fashioneshop/shopadmin/internal/views"
)

// routeAnnotation names the dashboard route a command stands for. The route
// guard decides whether the command may run.
const routeAnnotation = "route"

// shownError is an error the user has already seen as a toast.
type shownError struct{ err error }

func (e *shownError) Error() string { return e.err.Error() }
func (e *shownError) Unwrap() error { return e.err }

func shown(err error) error {
	if err == nil {
		return nil
	}
	return &shownError{err: err}
}

// app is everything a command needs, built once per invocation.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer
	toasts *terminal

	rdb     *redis.Client
	tokens  tokenstore.Store
	api     *resources.API
	cache   *cache.Cache
	session *session.Session
}

func (a *app) env() views.Env {
	return views.Env{API: a.api, Cache: a.cache, Notify: a.toasts, Logger: a.logger}
}

// newRootCmd returns the command tree and the app it builds. Run it with
// execute.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "shopadmin",
		Short:         "Storefront admin dashboard",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `shopadmin manages the catalog, orders and promotions of the storefront
through its admin API.

Configuration sources (in order of precedence):
  1. Command line flags
  2. Environment variables (SHOPADMIN_API_URL, SHOPADMIN_TOKEN_STORE, ...)
  3. ~/.shopadmin/config.yaml (or --config)
  4. Defaults`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	f := root.PersistentFlags()
	f.String("config", "", "config file (default ~/.shopadmin/config.yaml)")
	f.String("api-url", "", "storefront API base URL")
	f.Duration("timeout", 0, "HTTP request timeout")
	f.String("token-store", "", "where the admin token is kept (file, redis, memory)")
	f.String("token-file", "", "credentials file for the file token store")
	f.String("redis-addr", "", "Redis address for the redis token store")
	f.BoolP("verbose", "v", false, "debug logging")

	a.v.SetEnvPrefix("SHOPADMIN")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newDashboardCmd(a),
		newProductsCmd(a),
		newOrdersCmd(a),
		newCollectionsCmd(a),
		newBundlesCmd(a),
		newOffersCmd(a),
		newShippingCmd(a),
		newNotificationsCmd(a),
		newPopupsCmd(a),
		newSettingsCmd(a),
	)
	return root, a
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if a.v.GetBool("verbose") {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	a.out = cmd.OutOrStdout()
	a.toasts = newTerminal(cmd.ErrOrStderr())

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.tokens, err = a.tokenStore()
	if err != nil {
		return err
	}
	c := client.New(cfg.APIURL, a.tokens, client.WithTimeout(cfg.Timeout), client.WithLogger(logger))
	a.api = resources.New(c)
	a.cache = cache.New(cache.WithStaleAfter(cfg.CacheStaleAfter), cache.WithLogger(logger))
	a.session = session.New(a.api.Auth, a.tokens,
		session.WithNotifier(a.toasts),
		session.WithNavigator(a.toasts),
		session.WithLogger(logger),
	)
	a.session.Restore()

	route := routeOf(cmd)
	if route == "" {
		return nil
	}
	d := session.NewGuard(a.session).Allow(route)
	if !d.Allow {
		if d.Redirect == session.RouteLogin {
			return errors.New("not logged in, run `shopadmin login` first")
		}
		return fmt.Errorf("%s is not available", route)
	}
	return nil
}

// routeOf returns the route of cmd or of its nearest annotated parent.
func routeOf(cmd *cobra.Command) string {
	for c := cmd; c != nil; c = c.Parent() {
		if r := c.Annotations[routeAnnotation]; r != "" {
			return r
		}
	}
	return ""
}

// execute runs cmd and releases what setup built, also when the command
// fails.
func execute(cmd *cobra.Command, a *app) error {
	defer a.teardown()
	return cmd.Execute()
}

// teardown releases what setup built. It is safe to call more than once and
// when setup never ran.
func (a *app) teardown() {
	if a.cache != nil {
		a.cache.Close()
		a.cache = nil
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
		a.rdb = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// loadConfig reads the config file and applies flag and environment
// overrides.
func (a *app) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := a.v.GetString("config"); path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if s := a.v.GetString("api-url"); s != "" {
		cfg.APIURL = s
	}
	if d := a.v.GetDuration("timeout"); d != 0 {
		cfg.Timeout = d
	}
	if s := a.v.GetString("token-store"); s != "" {
		cfg.TokenStore = s
	}
	if s := a.v.GetString("token-file"); s != "" {
		cfg.TokenFile = s
	}
	if s := a.v.GetString("redis-addr"); s != "" {
		cfg.RedisAddr = s
	}
	if cfg.TokenStore == config.TokenStoreFile && cfg.TokenFile == "" {
		dir, err := config.Dir()
		if err != nil {
			return nil, err
		}
		cfg.TokenFile = filepath.Join(dir, config.DefaultCredentialsFile)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (a *app) tokenStore() (tokenstore.Store, error) {
	switch a.cfg.TokenStore {
	case config.TokenStoreMemory:
		return tokenstore.NewMemory(), nil
	case config.TokenStoreRedis:
		a.rdb = redis.NewClient(&redis.Options{Addr: a.cfg.RedisAddr})
		return tokenstore.NewRedis(a.rdb, a.logger), nil
	default:
		return tokenstore.NewFile(a.cfg.TokenFile, a.logger), nil
	}
}

// screen is what every view offers the commands.
type screen interface {
	Render(w io.Writer) error
	Close()
}

// show loads a screen and renders it.
func (a *app) show(ctx context.Context, s screen, load func(context.Context) error) error {
	defer s.Close()
	if err := load(ctx); err != nil {
		_ = s.Render(a.out)
		return shown(err)
	}
	return s.Render(a.out)
}
