// Package cmd implements the trendyol CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/trendyol-sp/internal/cache"
	"github.com/donaldgifford/trendyol-sp/internal/config"
	"github.com/donaldgifford/trendyol-sp/internal/telemetry"
	"github.com/donaldgifford/trendyol-sp/internal/trendyol"
	"github.com/donaldgifford/trendyol-sp/pkg/logger"
)

// Version is set at build time via ldflags.
var Version = "dev"

type rootOptions struct {
	v       *viper.Viper
	cfgFile string
	stderr  io.Writer
}

// Root returns a fresh root command, for documentation generation.
func Root() *cobra.Command {
	return newRootCmd(os.Stderr)
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd(os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	o := &rootOptions{v: viper.New(), stderr: stderr}

	root := &cobra.Command{
		Use:   "trendyol",
		Short: "CLI client for the Trendyol seller API",
		Long: "trendyol talks to the Trendyol marketplace seller API from the terminal.\n" +
			"It lists and updates products, orders, claims, questions and returns,\n" +
			"warms the response cache and sends raw requests through the same\n" +
			"rate-limited, retrying pipeline the library uses.",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.cfgFile, "config", "", "config file (default ./trendyol.yaml or $HOME/trendyol.yaml)")
	pf.String("output", "table", "output format (table, json)")
	pf.Bool("refresh", false, "skip cached responses and store fresh ones")
	pf.Bool("debug", false, "log every request and response with credentials redacted")
	pf.String("base-url", "", "seller API base URL")
	pf.String("supplier-id", "", "supplier ID")

	cobra.CheckErr(o.v.BindPFlag("output", pf.Lookup("output")))
	cobra.CheckErr(o.v.BindPFlag("refresh", pf.Lookup("refresh")))
	cobra.CheckErr(o.v.BindPFlag("debug", pf.Lookup("debug")))
	cobra.CheckErr(o.v.BindPFlag("base_url", pf.Lookup("base-url")))
	cobra.CheckErr(o.v.BindPFlag("supplier_id", pf.Lookup("supplier-id")))

	o.v.SetEnvPrefix("TRENDYOL")
	o.v.AutomaticEnv()
	cobra.CheckErr(o.v.BindEnv("api_key"))
	cobra.CheckErr(o.v.BindEnv("api_secret"))

	root.AddCommand(
		productsCmd(o),
		ordersCmd(o),
		categoriesCmd(o),
		brandsCmd(o),
		claimsCmd(o),
		questionsCmd(o),
		returnsCmd(o),
		shipmentProvidersCmd(o),
		addressesCmd(o),
		requestCmd(o),
		cacheCmd(o),
		warmCmd(o),
		versionCmd(),
	)

	return root
}

// loadConfig reads the YAML config when one is found, then layers flags
// and TRENDYOL_* environment variables on top.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.cfgFile != "" {
		o.v.SetConfigFile(o.cfgFile)
	} else {
		o.v.SetConfigName("trendyol")
		o.v.SetConfigType("yaml")
		o.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			o.v.AddConfigPath(home)
		}
	}

	cfg := &config.Config{}
	err := o.v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		data, err := os.ReadFile(o.v.ConfigFileUsed())
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if cfg, err = config.Decode(data); err != nil {
			return nil, err
		}
	case errors.As(err, &notFound):
		config.ApplyDefaults(cfg)
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if s := o.v.GetString("supplier_id"); s != "" {
		cfg.Credentials.SupplierID = s
	}
	if s := o.v.GetString("api_key"); s != "" {
		cfg.Credentials.APIKey = s
	}
	if s := o.v.GetString("api_secret"); s != "" {
		cfg.Credentials.APISecret = s
	}
	if s := o.v.GetString("base_url"); s != "" {
		cfg.BaseURL = s
	}
	if o.v.GetBool("debug") {
		cfg.Debug = true
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// app bundles everything one command invocation needs.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	client  *trendyol.Client
	store   cache.Store
	tel     *telemetry.Provider
	out     io.Writer
	json    bool
	refresh bool
}

func (o *rootOptions) open(cmd *cobra.Command) (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	a := &app{
		cfg:     cfg,
		log:     logger.NewWithWriter(o.stderr, cfg.Logging.Level, cfg.Logging.Format),
		out:     cmd.OutOrStdout(),
		json:    o.v.GetString("output") == "json",
		refresh: o.v.GetBool("refresh"),
	}

	a.tel, err = telemetry.Setup(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		ServiceName: cfg.Telemetry.ServiceName,
		Version:     Version,
	})
	if err != nil {
		return nil, err
	}

	opts := []trendyol.Option{
		trendyol.WithLogger(a.log),
		trendyol.WithTracerProvider(a.tel.TracerProvider),
	}
	if cfg.Cache.IsEnabled() {
		if a.store, err = cache.Open(ctx, cfg.CacheOptions()); err != nil {
			a.close()
			return nil, fmt.Errorf("opening %s cache: %w", cfg.Cache.Backend, err)
		}
		opts = append(opts, trendyol.WithCache(a.store))
	}

	if a.client, err = trendyol.New(cfg.ClientConfig(), opts...); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

// ctx returns the context commands should call the API with.
func (a *app) ctx(parent context.Context) context.Context {
	if a.refresh {
		return trendyol.WithRefresh(parent)
	}
	return parent
}

func (a *app) close() {
	if a.client != nil {
		_ = a.client.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("closing cache", "error", err)
		}
	}
	if a.tel != nil {
		if err := a.tel.Shutdown(context.Background()); err != nil {
			a.log.Warn("flushing telemetry", "error", err)
		}
	}
}

// run opens an app for the duration of fn.
func (o *rootOptions) run(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := o.open(cmd)
		if err != nil {
			return err
		}
		defer a.close()
		return fn(cmd, args, a)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "trendyol "+Version)
		},
	}
}
