package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"
)

// Sequence issues monotonically increasing identities sharing a prefix.
// It is safe for concurrent use without external locking.
type Sequence struct {
	prefix  string
	counter atomic.Int64
}

// Next returns the next identity, starting with prefix + "1"
func (s *Sequence) Next() string {
	return s.prefix + strconv.FormatInt(s.counter.Add(1), 10)
}

// Prefix returns sequence prefix
func (s *Sequence) Prefix() string {
	return s.prefix
}

// Current returns the last issued counter value
func (s *Sequence) Current() int64 {
	return s.counter.Load()
}

// Advance moves the counter forward so that the next identity is greater than n.
// It never moves the counter backwards.
func (s *Sequence) Advance(n int64) {
	for {
		current := s.counter.Load()
		if current >= n {
			return
		}
		if s.counter.CompareAndSwap(current, n) {
			return
		}
	}
}

// Observe advances the sequence past an existing identity carrying the same prefix.
// Identities with a different prefix or a non numeric suffix are ignored.
func (s *Sequence) Observe(id string) {
	if len(id) <= len(s.prefix) || id[:len(s.prefix)] != s.prefix {
		return
	}
	n, err := strconv.ParseInt(id[len(s.prefix):], 10, 64)
	if err != nil {
		return
	}
	s.Advance(n)
}

// NewSequence creates a sequence for the prefix
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// Registry keeps one sequence per prefix.
type Registry struct {
	sequences *xsync.Map[string, *Sequence]
}

// Sequence returns the sequence for prefix, creating it on first use
func (r *Registry) Sequence(prefix string) *Sequence {
	if seq, ok := r.sequences.Load(prefix); ok {
		return seq
	}
	seq, _ := r.sequences.LoadOrStore(prefix, NewSequence(prefix))
	return seq
}

// Next returns the next identity for prefix
func (r *Registry) Next(prefix string) string {
	return r.Sequence(prefix).Next()
}

// NewRegistry creates a sequence registry
func NewRegistry() *Registry {
	return &Registry{sequences: xsync.NewMap[string, *Sequence]()}
}
