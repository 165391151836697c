// Package server hosts the authentication routes on a gin engine served
// over HTTP/1.1 and h2c. With server.tls configured, Start wraps the
// listener in TLS and negotiates h2 through ALPN.
//
// Middleware (server/middleware), applied by ApplyMiddleware:
//
//   - Recovery: panics become a 500 INTERNAL_ERROR body, stack logged
//   - RequestID: X-Request-Id propagation into the log context
//   - CORS: only when allowed origins are configured
//   - BodySizeLimit: caps credential bodies
//   - RequestLogger: one line per request, level by status
//
// RateLimit is not global; LoginLimiter returns it for the login route.
//
// Endpoints (server/endpoint): /health aggregates observability health
// checkers, /version reports build information.
package server
