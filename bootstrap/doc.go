// Package bootstrap runs a service through a uniform lifecycle: typed
// config validation, logger setup, start and ready hooks, a startup
// summary, signal handling and ordered shutdown.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.OnStart(func(ctx context.Context) error { return openStore(ctx) })
//	app.OnReady(func(ctx context.Context) error { return srv.Start(ctx) })
//	app.OnStop(func(ctx context.Context) error { return srv.Stop(ctx) })
//	return app.Run(ctx)
//
// RunTask runs the same hooks around a finite task, for commands such as
// provisioning.
package bootstrap
