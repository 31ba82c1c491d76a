package dao

// Options control how a store copies and filters entities.
type Options[T any] struct {
	clone  func(*T) *T
	filter func(*T, []*Parameter) bool
}

// Option represents store option
type Option[T any] func(o *Options[T])

// WithClone sets the function used to copy entities at the store boundary
func WithClone[T any](fn func(*T) *T) Option[T] {
	return func(o *Options[T]) {
		o.clone = fn
	}
}

// WithFilter sets the function used to evaluate List parameters
func WithFilter[T any](fn func(*T, []*Parameter) bool) Option[T] {
	return func(o *Options[T]) {
		o.filter = fn
	}
}

// NewOptions applies opts over defaults: shallow copy and no filtering.
func NewOptions[T any](opts ...Option[T]) *Options[T] {
	ret := &Options[T]{}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.clone == nil {
		ret.clone = func(v *T) *T {
			c := *v
			return &c
		}
	}
	if ret.filter == nil {
		ret.filter = func(*T, []*Parameter) bool { return true }
	}
	return ret
}

// Clone returns a copy of v
func (o *Options[T]) Clone(v *T) *T {
	if v == nil {
		return nil
	}
	return o.clone(v)
}

// Match returns true if v satisfies parameters
func (o *Options[T]) Match(v *T, parameters []*Parameter) bool {
	if len(parameters) == 0 {
		return true
	}
	return o.filter(v, parameters)
}
