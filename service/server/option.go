package server

import (
	"net"

	"github.com/viant/tasksched/internal/logging"
	"github.com/viant/tasksched/internal/metrics"
	"github.com/viant/tasksched/service/messaging"
)

// Option represents server option
type Option func(s *Service)

// WithConfig sets server config
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithLogger sets server logger
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

// WithQueue sets the connection backlog queue
func WithQueue(queue messaging.Queue[net.Conn]) Option {
	return func(s *Service) {
		s.queue = queue
	}
}
