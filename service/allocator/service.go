package allocator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/viant/tasksched/internal/idgen"
	"github.com/viant/tasksched/internal/logging"
	"github.com/viant/tasksched/internal/metrics"
	"github.com/viant/tasksched/model"
	"github.com/viant/tasksched/service/dao"
	"github.com/viant/tasksched/service/strategy"
	"github.com/viant/tasksched/tracing"
)

const (
	// TaskPrefix prefixes task identities
	TaskPrefix = "T"
	// MemberPrefix prefixes team member identities
	MemberPrefix = "M"

	scopeAll    = "all"
	scopeMember = "member"
)

// Service schedules tasks onto team members
type Service struct {
	tasks       dao.Service[string, model.Task]
	members     dao.Service[string, model.TeamMember]
	assignments dao.Service[string, model.Assignment]
	ids         *idgen.Registry
	locks       lockSet
	logger      logging.Logger
	metrics     metrics.Collector
}

// New creates a scheduling service
func New(tasks dao.Service[string, model.Task], members dao.Service[string, model.TeamMember], assignments dao.Service[string, model.Assignment], opts ...Option) *Service {
	ret := &Service{
		tasks:       tasks,
		members:     members,
		assignments: assignments,
		ids:         idgen.NewRegistry(),
		logger:      logging.NewNop(),
		metrics:     metrics.NewNop(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Init advances identity sequences past entities already present in the stores.
func (s *Service) Init(ctx context.Context) error {
	release := s.locks.acquire(scope{task: shared, member: shared})
	defer release()
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	for _, task := range tasks {
		s.ids.Sequence(TaskPrefix).Observe(task.ID)
	}
	members, err := s.members.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list members: %w", err)
	}
	for _, member := range members {
		s.ids.Sequence(MemberPrefix).Observe(member.ID)
	}
	return nil
}

// assignAll runs a bulk assignment; callers hold writeAll.
func (s *Service) assignAll(ctx context.Context, kind strategy.Kind) (bool, error) {
	ctx, span := tracing.StartSpan(ctx, "assign all", tracing.KindInternal)
	started := time.Now()
	assigned, err := s.runAll(ctx, kind)
	span.Set("strategy", kind).Set("assignments", assigned)
	tracing.EndSpan(span, err)
	if err != nil {
		return false, err
	}
	s.metrics.AssignmentRun(kind.String(), scopeAll, assigned, time.Since(started))
	s.logger.Info("assigned tasks", "strategy", kind.String(), "scope", scopeAll, "assignments", assigned)
	return assigned > 0, nil
}

func (s *Service) runAll(ctx context.Context, kind strategy.Kind) (int, error) {
	algorithm, err := strategy.New(kind)
	if err != nil {
		return 0, err
	}
	tasks, err := s.listTasks(ctx)
	if err != nil {
		return 0, err
	}
	members, err := s.listMembers(ctx)
	if err != nil {
		return 0, err
	}
	for _, task := range tasks {
		task.Reset()
	}
	for _, member := range members {
		member.Reset()
	}
	if err = s.assignments.DeleteAll(ctx); err != nil {
		return 0, fmt.Errorf("failed to clear assignments: %w", err)
	}
	assignments := apply(strategy.Merge(algorithm.Assign(tasks, members)), tasks, members)
	if err = s.persist(ctx, tasks, members, assignments); err != nil {
		return 0, err
	}
	return len(assignments), nil
}

// apply commits allocations onto tasks and members and returns the resulting assignment rows.
func apply(allocations []strategy.Allocation, tasks []*model.Task, members []*model.TeamMember) []*model.Assignment {
	taskByID := make(map[string]*model.Task, len(tasks))
	for _, task := range tasks {
		taskByID[task.ID] = task
	}
	memberByID := make(map[string]*model.TeamMember, len(members))
	for _, member := range members {
		memberByID[member.ID] = member
	}
	var ret []*model.Assignment
	for _, allocation := range allocations {
		task, ok := taskByID[allocation.TaskID]
		if !ok || allocation.Hours <= 0 {
			continue
		}
		member, ok := memberByID[allocation.MemberID]
		if !ok {
			continue
		}
		task.Consume(allocation.Hours)
		member.Consume(allocation.Hours)
		ret = append(ret, model.NewAssignment(task.ID, member.ID, allocation.Hours))
	}
	return ret
}

func (s *Service) persist(ctx context.Context, tasks []*model.Task, members []*model.TeamMember, assignments []*model.Assignment) error {
	if err := s.tasks.SaveAll(ctx, tasks); err != nil {
		return fmt.Errorf("failed to save tasks: %w", err)
	}
	if err := s.members.SaveAll(ctx, members); err != nil {
		return fmt.Errorf("failed to save members: %w", err)
	}
	if err := s.assignments.SaveAll(ctx, assignments); err != nil {
		return fmt.Errorf("failed to save assignments: %w", err)
	}
	return nil
}

func (s *Service) listTasks(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Task, error) {
	tasks, err := s.tasks.List(ctx, parameters...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	slices.SortFunc(tasks, func(a, b *model.Task) int { return idgen.Compare(a.ID, b.ID) })
	return tasks, nil
}

func (s *Service) listMembers(ctx context.Context, parameters ...*dao.Parameter) ([]*model.TeamMember, error) {
	members, err := s.members.List(ctx, parameters...)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	slices.SortFunc(members, func(a, b *model.TeamMember) int { return idgen.Compare(a.ID, b.ID) })
	return members, nil
}

func (s *Service) listAssignments(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Assignment, error) {
	assignments, err := s.assignments.List(ctx, parameters...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	slices.SortFunc(assignments, func(a, b *model.Assignment) int {
		if ret := idgen.Compare(a.TaskID, b.TaskID); ret != 0 {
			return ret
		}
		return idgen.Compare(a.MemberID, b.MemberID)
	})
	return assignments, nil
}

// loadTask returns nil without error when the task does not exist
func (s *Service) loadTask(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.tasks.Load(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load task %v: %w", id, err)
	}
	return task, nil
}

// loadMember returns nil without error when the member does not exist
func (s *Service) loadMember(ctx context.Context, id string) (*model.TeamMember, error) {
	member, err := s.members.Load(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load member %v: %w", id, err)
	}
	return member, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, dao.ErrNotFound) || errors.Is(err, dao.ErrInvalidID)
}
