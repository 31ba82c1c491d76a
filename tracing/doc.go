// Package tracing wraps OpenTelemetry so that the scheduler, dispatcher and
// server can open spans without importing the upstream packages directly.
// Spans are no-op until Init or InitWithExporter installs a provider.
package tracing
