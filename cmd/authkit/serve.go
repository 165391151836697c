package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kbukum/authkit/bootstrap"
	"github.com/kbukum/authkit/logger"
	"github.com/kbukum/authkit/observability"
	"github.com/kbukum/authkit/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the register, login and guarded profile routes",
	Long: `Serve the register, login and guarded profile routes.

Routes:
  POST /auth/register   create an identity and return a token
  POST /auth/login      verify credentials and return a token
  GET  /auth/me         return the subject of the presented token
  GET  /health          store existence check
  GET  /version         build information

Examples:
  authkit serve --config ./config.yml
  AUTHKIT_JWT_SECRET=change-me AUTHKIT_IDENTITIES=email,username authkit serve`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		app, err := bootstrap.NewApp(cfg)
		if err != nil {
			return err
		}
		app.Logger.Info("configuration loaded", logger.Fields("config", cfg.Describe()))

		infra := &infrastructure{}
		app.OnStart(infra.startTelemetry(app), infra.openStore(app))

		app.OnReady(func(ctx context.Context) error {
			metrics, err := observability.NewAuthMetrics(observability.Meter(observability.TracerName))
			if err != nil {
				return err
			}
			srv, err := newServer(cfg, infra.store, app.Logger, metrics, version.GetVersionInfo().Short())
			if err != nil {
				return err
			}
			for _, r := range srv.Routes() {
				app.Summary.TrackRoute(r.Method, r.Path, r.Handler)
			}
			app.Summary.TrackHealth(observability.StoreExistence("identity-store", infra.store.Exists))

			if err := srv.Start(ctx); err != nil {
				return err
			}
			app.OnStop(srv.Stop)
			app.Logger.Info("listening", logger.Fields("addr", srv.Addr()))
			return nil
		})

		return app.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
