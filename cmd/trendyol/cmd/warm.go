package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/trendyol-sp/internal/warmer"
)

func warmCmd(o *rootOptions) *cobra.Command {
	var (
		daemon      bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Refresh cached reference data",
		Long: "Re-fetch categories, brands and shipment providers into the response\n" +
			"cache. With --daemon it keeps running on warmer.schedule and can serve\n" +
			"Prometheus metrics. A shared cache backend (redis, sqlite, postgres)\n" +
			"lets other processes read what the warmer stored.",
		Example: `  # Warm once
  trendyol warm

  # Keep warming on the configured schedule, exposing metrics on :9090
  trendyol warm --daemon --metrics-addr :9090`,
		Args: cobra.NoArgs,
		RunE: o.run(func(cmd *cobra.Command, _ []string, a *app) error {
			w, err := warmer.New(a.cfg.Warmer.Schedule, warmer.ClientTargets(a.client), a.log)
			if err != nil {
				return err
			}

			if !daemon {
				return w.Run(cmd.Context())
			}
			return runWarmDaemon(cmd.Context(), a, w, metricsAddr)
		}),
	}

	cmd.Flags().BoolVar(&daemon, "daemon", false, "keep running on the configured schedule")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics and /healthz on this address in daemon mode")

	return cmd
}

func runWarmDaemon(parent context.Context, a *app, w *warmer.Warmer, metricsAddr string) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var e *echo.Echo
	if metricsAddr != "" {
		e = echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.GET("/healthz", func(c echo.Context) error {
			return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
		})
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

		go func() {
			a.log.Info("serving metrics", "addr", metricsAddr)
			if err := e.Start(metricsAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Error("metrics server error", "error", err)
				stop()
			}
		}()
	}

	if err := w.Run(ctx); err != nil {
		a.log.Warn("initial cache warm-up failed", "error", err)
	}

	w.Start()
	<-ctx.Done()
	<-w.Stop().Done()

	if e != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}

	a.log.Info("cache warmer stopped")
	return nil
}
