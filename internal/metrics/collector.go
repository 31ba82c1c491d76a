// Package metrics records scheduler and server activity.
package metrics

import "time"

// Collector receives scheduler and server measurements.
type Collector interface {
	// RequestHandled records a dispatched request outcome
	RequestHandled(action string, statusCode int, elapsed time.Duration)
	// AssignmentRun records a strategy run, scope is "all" or "member"
	AssignmentRun(strategy, scope string, assignments int, elapsed time.Duration)
	ConnectionOpened()
	// ConnectionDequeued records the backlog left and how long a connection waited for a worker
	ConnectionDequeued(backlog int, wait time.Duration)
	ConnectionClosed()
	ConnectionTimedOut()
}
