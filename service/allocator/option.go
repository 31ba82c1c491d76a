package allocator

import (
	"github.com/viant/tasksched/internal/idgen"
	"github.com/viant/tasksched/internal/logging"
	"github.com/viant/tasksched/internal/metrics"
)

// Option represents service option
type Option func(s *Service)

// WithLogger sets service logger
func WithLogger(logger logging.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets metrics collector
func WithMetrics(collector metrics.Collector) Option {
	return func(s *Service) {
		if collector != nil {
			s.metrics = collector
		}
	}
}

// WithIdentities sets identity sequence registry
func WithIdentities(registry *idgen.Registry) Option {
	return func(s *Service) {
		if registry != nil {
			s.ids = registry
		}
	}
}
