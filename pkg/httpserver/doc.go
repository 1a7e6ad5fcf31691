// Package httpserver runs the API's http.Server with graceful shutdown.
//
// Run listens on the configured address and serves until its context is
// cancelled or the process receives SIGINT or SIGTERM. In-flight requests are
// then drained within the shutdown timeout, after which resources registered
// with WithCloser (database clients, key refreshers) are released in reverse
// order. Listen failures wrap ErrStart and shutdown failures wrap ErrShutdown.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//		httpserver.WithLogger(log),
//		httpserver.WithCloser("mongo", client.Disconnect),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// HealthHandler answers liveness and readiness probes with the API's JSON envelope.
package httpserver
