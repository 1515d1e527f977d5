package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/icook/tiny-flipper/api"
	"github.com/icook/tiny-flipper/telemetry"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the contract API web service",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt, err := openRuntime(ctx, os.Stderr, prometheus.DefaultRegisterer)
		if err != nil {
			return err
		}
		defer rt.close()

		shutdown, err := telemetry.Setup(ctx, "flipper", rt.cfg.OTelEndpoint)
		if err != nil {
			return err
		}
		defer func() {
			if err := shutdown(cmd.Context()); err != nil {
				rt.log.Warn("tracer shutdown", slog.Any("error", err))
			}
		}()

		rt.log.Info("serving", slog.String("endpoint", rt.cfg.APIEndpoint), slog.String("storage", rt.cfg.Storage))
		return api.Serve(ctx, rt.engine, api.APIConfig{
			APIEndpoint: rt.cfg.APIEndpoint,
			Logger:      rt.log,
			Gatherer:    prometheus.DefaultGatherer,
		})
	},
}
