// Package logger wraps zap with a process-wide sugared logger and context helpers.
//
// Services never hold a logger field: they take it from the context with
// FromContext (or the Info/Debug/... shortcuts), and handlers enrich the
// context with WithName and WithKV before calling into the core.
package logger
