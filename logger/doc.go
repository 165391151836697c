// Package logger provides structured logging for authkit using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields. Request-scoped values
// (request id, authenticated subject) travel in the context and are picked
// up by WithContext.
package logger
