package allocator

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/tasksched/model"
	"github.com/viant/tasksched/service/dao"
	"github.com/viant/tasksched/service/strategy"
	"github.com/viant/tasksched/tracing"
)

// AssignTasks discards all assignments and recomputes them for every task and member.
// It returns true if at least one assignment was produced.
func (s *Service) AssignTasks(ctx context.Context, kind strategy.Kind) (bool, error) {
	release := s.locks.acquire(writeAll)
	defer release()
	return s.assignAll(ctx, kind)
}

// AssignTasksToMember recomputes assignments of a single member against all tasks,
// leaving other members' assignments untouched.
func (s *Service) AssignTasksToMember(ctx context.Context, memberID string, kind strategy.Kind) (bool, error) {
	release := s.locks.acquire(writeAll)
	defer release()
	member, err := s.loadMember(ctx, memberID)
	if err != nil {
		return false, err
	}
	if member == nil {
		return false, fmt.Errorf("%w: %v", ErrMemberNotFound, memberID)
	}
	ctx, span := tracing.StartSpan(ctx, "assign member", tracing.KindInternal)
	started := time.Now()
	assigned, err := s.runMember(ctx, member, kind)
	span.Set("strategy", kind).Set("member", memberID).Set("assignments", assigned)
	tracing.EndSpan(span, err)
	if err != nil {
		return false, err
	}
	s.metrics.AssignmentRun(kind.String(), scopeMember, assigned, time.Since(started))
	s.logger.Info("assigned tasks", "strategy", kind.String(), "scope", scopeMember, "member", memberID, "assignments", assigned)
	return assigned > 0, nil
}

func (s *Service) runMember(ctx context.Context, member *model.TeamMember, kind strategy.Kind) (int, error) {
	algorithm, err := strategy.New(kind)
	if err != nil {
		return 0, err
	}
	previous, err := s.listAssignments(ctx, dao.NewParameter(dao.MemberIDParameter, member.ID))
	if err != nil {
		return 0, err
	}
	tasks, err := s.listTasks(ctx)
	if err != nil {
		return 0, err
	}
	taskByID := make(map[string]*model.Task, len(tasks))
	for _, task := range tasks {
		taskByID[task.ID] = task
	}
	for _, assignment := range previous {
		if task, ok := taskByID[assignment.TaskID]; ok {
			task.Restore(assignment.AssignedHours)
		}
	}
	member.Reset()
	if _, err = s.assignments.DeleteIf(ctx, func(a *model.Assignment) bool { return a.MemberID == member.ID }); err != nil {
		return 0, fmt.Errorf("failed to clear member %v assignments: %w", member.ID, err)
	}
	members := []*model.TeamMember{member}
	assignments := apply(strategy.Merge(algorithm.Assign(tasks, members)), tasks, members)
	if err = s.persist(ctx, tasks, members, assignments); err != nil {
		return 0, err
	}
	return len(assignments), nil
}

// DeleteAssignment removes the (taskID, memberID) assignment and restores its hours
// to both the task and the member. It returns false when no such assignment exists.
func (s *Service) DeleteAssignment(ctx context.Context, taskID, memberID string) (bool, error) {
	release := s.locks.acquire(writeAll)
	defer release()
	key := model.AssignmentID(taskID, memberID)
	assignment, err := s.assignments.Load(ctx, key)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load assignment %v: %w", key, err)
	}
	if err = s.restoreTasks(ctx, []*model.Assignment{assignment}); err != nil {
		return false, err
	}
	member, err := s.loadMember(ctx, memberID)
	if err != nil {
		return false, err
	}
	if member != nil {
		member.Restore(assignment.AssignedHours)
		if err = s.members.Update(ctx, member); err != nil {
			return false, fmt.Errorf("failed to update member %v: %w", memberID, err)
		}
	}
	if err = s.assignments.Delete(ctx, key); err != nil {
		return false, fmt.Errorf("failed to delete assignment %v: %w", key, err)
	}
	return true, nil
}

// Assignments returns all assignments ordered by task then member
func (s *Service) Assignments(ctx context.Context) ([]*model.Assignment, error) {
	release := s.locks.acquire(readAssignments)
	defer release()
	return s.listAssignments(ctx)
}

// MemberAssignments returns assignments of a team member
func (s *Service) MemberAssignments(ctx context.Context, memberID string) ([]*model.Assignment, error) {
	release := s.locks.acquire(readAssignments)
	defer release()
	return s.listAssignments(ctx, dao.NewParameter(dao.MemberIDParameter, memberID))
}
