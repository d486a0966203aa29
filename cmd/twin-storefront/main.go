// Command twin-storefront serves an in-memory double of the storefront API
// that the shopadmin client talks to.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fashioneshop/shopadmin/internal/storefront"
	"github.com/fashioneshop/shopadmin/pkg/twincore"
)

var (
	cfg           twincore.Config
	jwtSecret     string
	webhookURL    string
	webhookSecret string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "twin-storefront",
	Short: "In-memory storefront API twin",
	Long: `twin-storefront serves the /api routes of the storefront backend from
memory, plus the /admin control plane for resetting state, injecting faults
and advancing the clock.

Default login: admin / admin123`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if cfg.Verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.Name = "twin-storefront"
		sf, err := storefront.New(storefront.Options{
			Twin:          cfg,
			JWTSecret:     []byte(jwtSecret),
			WebhookURL:    webhookURL,
			WebhookSecret: webhookSecret,
			Logger:        logger,
		})
		if err != nil {
			return err
		}
		defer sf.Webhooks.Wait()
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return sf.Twin.Serve(ctx)
	},
}

func init() {
	f := rootCmd.Flags()
	f.IntVar(&cfg.Port, "port", 3001, "HTTP port")
	f.DurationVar(&cfg.Latency, "latency", 0, "artificial latency added to every request")
	f.Float64Var(&cfg.FailRate, "fail-rate", 0, "fraction of requests answered with a 500 (0.0-1.0)")
	f.StringVar(&cfg.SeedFile, "seed", "", "JSON state file loaded on startup")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "debug logging and request headers in the request log")
	f.StringVar(&jwtSecret, "jwt-secret", os.Getenv("STOREFRONT_JWT_SECRET"), "HS256 signing secret (random when empty)")
	f.StringVar(&webhookURL, "webhook-url", "", "URL receiving notification.triggered events")
	f.StringVar(&webhookSecret, "webhook-secret", "", "HMAC secret for webhook signatures")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
