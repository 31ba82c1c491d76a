// Package server accepts TCP connections, queues them on an unbounded
// backlog and serves each with one request line and one response line using
// a fixed pool of workers.
package server
