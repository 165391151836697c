package main

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authkit"
	"github.com/kbukum/authkit/bootstrap"
	"github.com/kbukum/authkit/database"
	"github.com/kbukum/authkit/identity"
	"github.com/kbukum/authkit/identity/gormstore"
	"github.com/kbukum/authkit/logger"
	"github.com/kbukum/authkit/observability"
	"github.com/kbukum/authkit/pipeline"
	"github.com/kbukum/authkit/server"
	"github.com/kbukum/authkit/util"
)

// infrastructure holds the store the start hooks open for the ready hook.
// Everything else they open is released through app.OnStop.
type infrastructure struct {
	store *gormstore.Store
}

// openStore connects to the database and opens the identity store,
// provisioning it when database.provision is set.
func (in *infrastructure) openStore(app *bootstrap.App[*authkit.Config]) bootstrap.Hook {
	return func(ctx context.Context) error {
		cfg := app.Cfg
		spec, err := cfg.Spec()
		if err != nil {
			return err
		}

		db, err := database.Open(ctx, cfg.Database, app.Logger)
		if err != nil {
			return err
		}
		app.OnStop(func(context.Context) error { return db.Close() })

		store, err := gormstore.Open(db, spec, gormstore.WithLogger(app.Logger))
		if err != nil {
			return err
		}
		in.store = store

		if cfg.Database.Provision {
			if err := store.Provision(ctx); err != nil {
				return fmt.Errorf("provision %s: %w", store.Table(), err)
			}
		}

		app.Summary.TrackInfrastructure("database",
			fmt.Sprintf("%s %s table=%s", cfg.Database.Driver, util.MaskDSN(cfg.Database.DSN), store.Table()), true)
		return nil
	}
}

// startTelemetry installs the OTLP tracer and meter providers when an
// endpoint is configured. Otherwise the global no-op providers stay.
func (in *infrastructure) startTelemetry(app *bootstrap.App[*authkit.Config]) bootstrap.Hook {
	return func(ctx context.Context) error {
		cfg := app.Cfg
		if !cfg.Observability.Enabled() {
			return nil
		}

		tp, err := observability.InitTracer(ctx, cfg.Observability.TracerConfig(cfg.Name, cfg.Version, cfg.Environment))
		if err != nil {
			return err
		}
		app.OnStop(tp.Shutdown)

		mc := cfg.Observability.MeterConfig(cfg.Name, cfg.Version, cfg.Environment)
		mp, err := observability.InitMeter(ctx, &mc)
		if err != nil {
			return err
		}
		app.OnStop(mp.Shutdown)

		app.Summary.TrackInfrastructure("telemetry", "otlp http "+cfg.Observability.Endpoint, true)
		return nil
	}
}

// newServer builds the HTTP host: middleware, /health, /version and the
// /auth routes.
func newServer(cfg *authkit.Config, store identity.Store, log *logger.Logger, metrics *observability.AuthMetrics, version string) (*server.Server, error) {
	pc, err := cfg.PipelineConfig(store, log, metrics)
	if err != nil {
		return nil, err
	}
	a, err := pipeline.New(pc)
	if err != nil {
		return nil, err
	}

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()
	srv.RegisterHealth(cfg.Name, version, observability.StoreExistence("identity-store", store.Exists))

	auth := srv.GinEngine().Group("/auth")
	auth.POST("/register", a.RegisterChain()...)
	login := a.LoginChain()
	if limiter := srv.LoginLimiter(); limiter != nil {
		login = append([]gin.HandlerFunc{limiter}, login...)
	}
	auth.POST("/login", login...)
	auth.GET("/me", a.Guard(), me)

	return srv, nil
}

// me answers with the subject the guard attached.
func me(c *gin.Context) {
	subject, _ := pipeline.Subject(c)
	server.RespondOK(c, gin.H{"id": subject})
}
