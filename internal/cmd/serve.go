package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smartsite-ai/sitectl/internal/api"
	"github.com/smartsite-ai/sitectl/internal/config"
	"github.com/smartsite-ai/sitectl/internal/report"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the progress report HTTP API",
		Long: `Start the HTTP API.

Endpoints:
  POST /v1/reports                  upload a spreadsheet (multipart field "file")
  GET  /v1/reports/{id}             full report as JSON
  GET  /v1/reports/{id}/alerts      threshold alerts
  GET  /v1/reports/{id}/export.csv  dataset with Progress_Pct
  GET  /v1/reports/{id}/groups.csv  per-group summary
  GET  /healthz                     liveness
  GET  /metrics                     Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.v.Set(config.KeyServerAddr, addr)
			}
			cfg, _, err := a.loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store := report.NewStore(cfg.Server.MaxReports)
			srv := api.NewServer(report.NewBuilder(), store, cfg, a.logger)

			a.logger.Info("starting server",
				zap.String("addr", cfg.Server.Addr),
				zap.Int64("max_upload_bytes", cfg.Server.MaxUploadBytes),
				zap.Int("max_reports", cfg.Server.MaxReports),
			)
			return srv.ListenAndServe(ctx, cfg.Server.Addr, shutdownTimeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")

	return cmd
}
