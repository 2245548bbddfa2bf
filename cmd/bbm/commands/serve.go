package commands

import (
	"bbm-backend/internal/api"
	"bbm-backend/internal/chrono"
	"bbm-backend/internal/serviceutil"
	"bbm-backend/internal/telemetry"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the fuel price and region API.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		otel, err := telemetry.Setup(ctx, "bbm-backend", config.Telemetry)
		if err != nil {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			err := otel.Shutdown(shutdownCtx)
			if err != nil {
				slog.Warn("failed to shutdown telemetry", "err", err)
			}
		}()

		app, err := newApp(config, false)
		if err != nil {
			serviceutil.Fatal("failed to initialize", err)
		}
		telemetry.InstrumentPerfStats(ctx, app.tel)

		if config.RefreshSchedule != "" {
			cron := chrono.NewStandardCron(app.tel)
			defer cron.Stop()
			err = app.service.Schedule(cron, config.RefreshSchedule)
			if err != nil {
				serviceutil.Fatal("failed to schedule refresh", err)
			}
		}

		if !config.Verbose {
			gin.SetMode(gin.ReleaseMode)
		}
		server := api.NewServer(app.directory, app.service, app.cache, app.time, app.tel, api.Options{
			BasePath:  config.BasePath,
			StaticDir: config.StaticDir,
		})

		addr := fmt.Sprintf(":%d", config.Port)
		slog.Info("listening", "addr", addr, "providers", app.service.Providers())
		err = server.Serve(ctx, addr)
		if err != nil {
			serviceutil.Fatal("server stopped", err)
		}
	},
}
