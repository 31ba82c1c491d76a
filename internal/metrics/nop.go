package metrics

import "time"

// NopMetrics is a Collector that records nothing.
type NopMetrics struct{}

var _ Collector = (*NopMetrics)(nil)

// NewNop creates a no-op collector
func NewNop() *NopMetrics { return &NopMetrics{} }

func (n *NopMetrics) RequestHandled(string, int, time.Duration)        {}
func (n *NopMetrics) AssignmentRun(string, string, int, time.Duration) {}
func (n *NopMetrics) ConnectionOpened()                                {}
func (n *NopMetrics) ConnectionDequeued(int, time.Duration)            {}
func (n *NopMetrics) ConnectionClosed()                                {}
func (n *NopMetrics) ConnectionTimedOut()                              {}
