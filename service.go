package tasksched

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/viant/tasksched/extension"
	"github.com/viant/tasksched/internal/logging"
	"github.com/viant/tasksched/internal/metrics"
	"github.com/viant/tasksched/model"
	"github.com/viant/tasksched/model/types"
	"github.com/viant/tasksched/service/action/assignment"
	"github.com/viant/tasksched/service/action/member"
	"github.com/viant/tasksched/service/action/task"
	"github.com/viant/tasksched/service/allocator"
	"github.com/viant/tasksched/service/dao"
	"github.com/viant/tasksched/service/dao/criteria"
	"github.com/viant/tasksched/service/dao/fs"
	"github.com/viant/tasksched/service/dao/store"
	"github.com/viant/tasksched/service/dispatcher"
	"github.com/viant/tasksched/service/protocol"
	"github.com/viant/tasksched/service/server"
	"github.com/viant/tasksched/tracing"
)

// Service represents the task scheduling service
type Service struct {
	config            *Config
	logger            logging.Logger
	metrics           metrics.Collector
	tasks             dao.Service[string, model.Task]
	members           dao.Service[string, model.TeamMember]
	assignments       dao.Service[string, model.Assignment]
	extensionServices []types.Service
	allocator         *allocator.Service
	actions           *extension.Actions
	dispatcher        *dispatcher.Service
	server            *server.Service
}

// Config returns service configuration
func (s *Service) Config() *Config {
	return s.config
}

// Allocator returns the scheduling service
func (s *Service) Allocator() *allocator.Service {
	return s.allocator
}

// Actions returns registered action services
func (s *Service) Actions() *extension.Actions {
	return s.actions
}

// Server returns the TCP server
func (s *Service) Server() *server.Service {
	return s.server
}

// Dispatch handles a single request line without the network
func (s *Service) Dispatch(ctx context.Context, line []byte) *protocol.Response {
	return s.dispatcher.Dispatch(ctx, line)
}

// Start starts the TCP server
func (s *Service) Start(ctx context.Context) error {
	return s.server.Start(ctx)
}

// Shutdown stops the server and flushes traces
func (s *Service) Shutdown(ctx context.Context) error {
	return errors.Join(s.server.Shutdown(ctx), tracing.Shutdown(ctx))
}

func (s *Service) init(ctx context.Context, options []Option) error {
	for _, option := range options {
		option(s)
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if err := s.ensureBaseSetup(); err != nil {
		return err
	}
	s.allocator = allocator.New(s.tasks, s.members, s.assignments,
		allocator.WithLogger(s.logger),
		allocator.WithMetrics(s.metrics))
	if err := s.allocator.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialise allocator: %w", err)
	}
	s.actions = extension.NewActions(
		task.New(s.allocator),
		member.New(s.allocator),
		assignment.New(s.allocator))
	for _, service := range s.extensionServices {
		s.actions.Register(service)
	}
	s.dispatcher = dispatcher.New(s.actions,
		dispatcher.WithLogger(s.logger),
		dispatcher.WithMetrics(s.metrics))
	var err error
	s.server, err = server.New(s.dispatcher,
		server.WithConfig(s.config.Server),
		server.WithLogger(s.logger),
		server.WithMetrics(s.metrics))
	return err
}

func (s *Service) ensureBaseSetup() error {
	if s.logger == nil {
		logger, err := logging.New(os.Stderr, s.config.Log.Format, s.config.Log.Level)
		if err != nil {
			return err
		}
		s.logger = logger
	}
	if s.metrics == nil {
		s.metrics = metrics.NewNop()
	}
	if tracingConfig := s.config.Tracing; tracingConfig.Enabled {
		if err := tracing.Init(tracingConfig.ServiceName, tracingConfig.ServiceVersion, tracingConfig.OutputFile); err != nil {
			return fmt.Errorf("failed to initialise tracing: %w", err)
		}
	}
	if strings.EqualFold(s.config.Store.Kind, StoreFS) {
		return s.ensureFSStores(s.config.Store.BaseURL)
	}
	if s.tasks == nil {
		s.tasks = store.NewMemoryStore(model.TaskKey, dao.WithClone((*model.Task).Clone), dao.WithFilter(criteria.Task))
	}
	if s.members == nil {
		s.members = store.NewMemoryStore(model.MemberKey, dao.WithClone((*model.TeamMember).Clone), dao.WithFilter(criteria.Member))
	}
	if s.assignments == nil {
		s.assignments = store.NewMemoryStore(model.AssignmentKey, dao.WithClone((*model.Assignment).Clone), dao.WithFilter(criteria.Assignment))
	}
	return nil
}

func (s *Service) ensureFSStores(baseURL string) (err error) {
	if s.tasks == nil {
		if s.tasks, err = fs.New(fs.Sub(baseURL, "tasks"), model.TaskKey, dao.WithFilter(criteria.Task)); err != nil {
			return err
		}
	}
	if s.members == nil {
		if s.members, err = fs.New(fs.Sub(baseURL, "members"), model.MemberKey, dao.WithFilter(criteria.Member)); err != nil {
			return err
		}
	}
	if s.assignments == nil {
		if s.assignments, err = fs.New(fs.Sub(baseURL, "assignments"), model.AssignmentKey, dao.WithFilter(criteria.Assignment)); err != nil {
			return err
		}
	}
	return nil
}

// New creates a service; stores default to the configured kind
func New(ctx context.Context, options ...Option) (*Service, error) {
	ret := &Service{config: DefaultConfig()}
	if err := ret.init(ctx, options); err != nil {
		return nil, err
	}
	return ret, nil
}
