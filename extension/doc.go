// Package extension provides the run-time registry of action services the
// dispatcher routes requests to.
package extension
