package tasksched

import (
	"github.com/viant/tasksched/internal/logging"
	"github.com/viant/tasksched/internal/metrics"
	"github.com/viant/tasksched/model"
	"github.com/viant/tasksched/model/types"
	"github.com/viant/tasksched/service/dao"
	"github.com/viant/tasksched/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option represents service option
type Option func(s *Service)

// WithConfig sets the service configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithLogger sets the logger, overriding log configuration
func WithLogger(logger logging.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics collector
func WithMetrics(collector metrics.Collector) Option {
	return func(s *Service) {
		s.metrics = collector
	}
}

// WithTaskDAO sets the task store
func WithTaskDAO(dao dao.Service[string, model.Task]) Option {
	return func(s *Service) {
		s.tasks = dao
	}
}

// WithMemberDAO sets the team member store
func WithMemberDAO(dao dao.Service[string, model.TeamMember]) Option {
	return func(s *Service) {
		s.members = dao
	}
}

// WithAssignmentDAO sets the assignment store
func WithAssignmentDAO(dao dao.Service[string, model.Assignment]) Option {
	return func(s *Service) {
		s.assignments = dao
	}
}

// WithExtensionServices registers additional action services
func WithExtensionServices(services ...types.Service) Option {
	return func(s *Service) {
		s.extensionServices = append(s.extensionServices, services...)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom SpanExporter.
// The first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
