package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now returns current UTC time with monotonic reading stripped, so stored
// timestamps compare equal after a JSON round trip.
func Now() time.Time { return NowFunc().UTC().Round(0) }

// Since returns elapsed time since t
func Since(t time.Time) time.Duration { return NowFunc().Sub(t) }
