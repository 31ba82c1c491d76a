package store

import (
	"context"
	"sync"

	"github.com/viant/tasksched/service/dao"
)

// MemoryStore is a generic in-memory implementation of dao.Service.
// It keeps entities of type *T mapped by a comparable key K obtained from
// the supplied keySelector. Entities are copied on the way in and out.
type MemoryStore[K comparable, T any] struct {
	mu          sync.RWMutex
	records     map[K]*T
	keySelector func(*T) K
	options     *dao.Options[T]
}

var _ dao.Service[string, struct{}] = (*MemoryStore[string, struct{}])(nil)

// NewMemoryStore creates a new MemoryStore.
// keySelector extracts the entity key (usually the ID field) from a value.
func NewMemoryStore[K comparable, T any](keySelector func(*T) K, opts ...dao.Option[T]) *MemoryStore[K, T] {
	return &MemoryStore[K, T]{
		records:     make(map[K]*T),
		keySelector: keySelector,
		options:     dao.NewOptions(opts...),
	}
}

// Save stores or overwrites a record.
func (s *MemoryStore[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	var zero K
	if key == zero {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = s.options.Clone(v)
	return nil
}

// SaveAll stores or overwrites records; nothing is stored if any record is invalid.
func (s *MemoryStore[K, T]) SaveAll(_ context.Context, items []*T) error {
	var zero K
	for _, v := range items {
		if v == nil {
			return dao.ErrNilEntity
		}
		if s.keySelector(v) == zero {
			return dao.ErrInvalidID
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range items {
		s.records[s.keySelector(v)] = s.options.Clone(v)
	}
	return nil
}

// Load returns a record by key.
func (s *MemoryStore[K, T]) Load(_ context.Context, key K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return s.options.Clone(v), nil
}

// Update overwrites an existing record.
func (s *MemoryStore[K, T]) Update(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return dao.ErrNotFound
	}
	s.records[key] = s.options.Clone(v)
	return nil
}

// Delete removes a record.
func (s *MemoryStore[K, T]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return dao.ErrNotFound
	}
	delete(s.records, key)
	return nil
}

// DeleteAll removes all records.
func (s *MemoryStore[K, T]) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[K]*T)
	return nil
}

// DeleteIf removes records matching predicate.
func (s *MemoryStore[K, T]) DeleteIf(_ context.Context, predicate func(*T) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for key, v := range s.records {
		if predicate(v) {
			delete(s.records, key)
			count++
		}
	}
	return count, nil
}

// List returns stored records matching parameters.
func (s *MemoryStore[K, T]) List(_ context.Context, parameters ...*dao.Parameter) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, 0, len(s.records))
	for _, v := range s.records {
		if !s.options.Match(v, parameters) {
			continue
		}
		out = append(out, s.options.Clone(v))
	}
	return out, nil
}
