package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mineworks/paperminer/internal/clock"
	"github.com/mineworks/paperminer/pkg/nasa"
	"github.com/mineworks/paperminer/pkg/openweather"
	"github.com/mineworks/paperminer/pkg/usgs"
)

var clockPort int

var clockCmd = &cobra.Command{
	Use:   "clock",
	Short: "Start the planetary dashboard server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.OpenWeather.Key == "" {
			return eris.New("openweather.key is required for the clock server")
		}

		locations, err := clock.LoadLocations(cfg.Clock.LocationsPath)
		if err != nil {
			return err
		}

		svc := clock.NewService(
			locations,
			openweather.NewClient(cfg.OpenWeather.Key, openweather.WithBaseURL(cfg.OpenWeather.BaseURL)),
			usgs.NewClient(usgs.WithBaseURL(cfg.USGS.BaseURL)),
			nasa.NewClient(cfg.NASA.Key, nasa.WithBaseURL(cfg.NASA.BaseURL)),
		)

		port := clockPort
		if port == 0 {
			port = cfg.Clock.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: svc.Handler(cfg.Server.CORSOrigins),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down clock server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting clock server",
			zap.Int("port", port),
			zap.Int("locations", len(locations)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "clock server listen")
		}

		return nil
	},
}

func init() {
	clockCmd.Flags().IntVar(&clockPort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(clockCmd)
}
