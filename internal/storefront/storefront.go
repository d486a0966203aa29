// Package storefront assembles the storefront twin: the in-memory store, the
// /api routes, the /admin control plane and the notification webhook
// dispatcher, all mounted on one twincore server.
package storefront

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/fashioneshop/shopadmin/internal/storefront/api"
	"github.com/fashioneshop/shopadmin/internal/storefront/store"
	"github.com/fashioneshop/shopadmin/pkg/admin"
	"github.com/fashioneshop/shopadmin/pkg/twincore"
	"github.com/fashioneshop/shopadmin/pkg/webhook"
)

// Options configures a storefront twin.
type Options struct {
	Twin          twincore.Config
	JWTSecret     []byte // random per process when empty
	WebhookURL    string
	WebhookSecret string
	Logger        *zap.Logger
}

// Storefront is a fully wired twin.
type Storefront struct {
	Twin     *twincore.Twin
	Store    *store.MemoryStore
	Webhooks *webhook.Dispatcher
	JWT      *api.JWTManager
}

// New builds a Storefront. When Twin.SeedFile is set the file is loaded over
// the default seed.
func New(opts Options) (*Storefront, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Twin.Name == "" {
		opts.Twin.Name = "twin-storefront"
	}

	memStore := store.New()
	twin := twincore.New(&opts.Twin, logger)

	jwtMgr, err := api.NewJWTManager(opts.JWTSecret, memStore.Clock.Now)
	if err != nil {
		return nil, fmt.Errorf("creating JWT manager: %w", err)
	}

	dispatcher := webhook.NewDispatcher(webhook.Config{
		URL:    opts.WebhookURL,
		Secret: opts.WebhookSecret,
		Now:    memStore.Clock.Now,
		Logger: logger,
	})

	api.NewHandler(memStore, twin.Middleware(), jwtMgr, dispatcher, logger).Routes(twin.Router)

	admin.New(admin.Options{
		State:      memStore,
		Middleware: twin.Middleware(),
		Clock:      memStore.Clock,
		Webhooks:   dispatcher,
		Config:     twin,
		Logger:     logger,
	}).Mount(twin.Router)

	if opts.Twin.SeedFile != "" {
		data, err := os.ReadFile(opts.Twin.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("reading seed file: %w", err)
		}
		if err := memStore.LoadState(data); err != nil {
			return nil, fmt.Errorf("loading seed file: %w", err)
		}
		logger.Info("loaded seed data", zap.String("file", opts.Twin.SeedFile))
	}

	return &Storefront{
		Twin:     twin,
		Store:    memStore,
		Webhooks: dispatcher,
		JWT:      jwtMgr,
	}, nil
}
