// Package observability holds the process-wide logging and metrics setup.
//
// InitLogger installs a zerolog console logger as the global logger.
// The Record* helpers feed Prometheus collectors that are registered with
// the default registry on first use, so /metrics can be served with
// promhttp.Handler().
//
// Usage:
//
//	logger := observability.InitLogger("ghostmaze", "debug")
//	router.Use(observability.RequestLogger(logger), observability.RequestMetricsMiddleware())
package observability
