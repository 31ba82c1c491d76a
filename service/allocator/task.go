package allocator

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/tasksched/internal/clock"
	"github.com/viant/tasksched/model"
	"github.com/viant/tasksched/service/dao"
	"github.com/viant/tasksched/service/strategy"
)

// CreateTask stores a new task under a generated identity and returns the stored copy.
// A supplied identity that is already stored is rejected with ErrAlreadyExists.
func (s *Service) CreateTask(ctx context.Context, task *model.Task) (*model.Task, error) {
	if task == nil {
		return nil, dao.ErrNilEntity
	}
	release := s.locks.acquire(writeTasks)
	defer release()
	if task.ID != "" {
		existing, err := s.loadTask(ctx, task.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: task %v", ErrAlreadyExists, task.ID)
		}
	}
	created := task.Clone()
	id, err := s.nextTaskID(ctx)
	if err != nil {
		return nil, err
	}
	created.ID = id
	created.Reset()
	created.CreatedAt = clock.Now()
	if err := s.tasks.Save(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}
	s.logger.Debug("task created", "id", created.ID, "name", created.Name)
	return created.Clone(), nil
}

// nextTaskID skips identities already taken, e.g. by a store populated before Init.
func (s *Service) nextTaskID(ctx context.Context) (string, error) {
	for {
		id := s.ids.Next(TaskPrefix)
		existing, err := s.loadTask(ctx, id)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return id, nil
		}
	}
}

// UpdateTask overwrites task id and recomputes all assignments with kind.
// It returns false when the task does not exist.
func (s *Service) UpdateTask(ctx context.Context, id string, task *model.Task, kind strategy.Kind) (bool, error) {
	if task == nil {
		return false, dao.ErrNilEntity
	}
	release := s.locks.acquire(writeAll)
	defer release()
	existing, err := s.loadTask(ctx, id)
	if err != nil || existing == nil {
		return false, err
	}
	updated := task.Clone()
	updated.ID = id
	updated.CreatedAt = existing.CreatedAt
	updated.Reset()
	if err = s.tasks.Update(ctx, updated); err != nil {
		return false, fmt.Errorf("failed to update task %v: %w", id, err)
	}
	s.logger.Debug("task updated", "id", id)
	if _, err = s.assignAll(ctx, kind); err != nil {
		return true, err
	}
	return true, nil
}

// DeleteTask removes the task and every assignment referencing it, restoring
// the assigned hours to the affected members. It returns false when the task does not exist.
func (s *Service) DeleteTask(ctx context.Context, id string) (bool, error) {
	release := s.locks.acquire(writeAll)
	defer release()
	existing, err := s.loadTask(ctx, id)
	if err != nil || existing == nil {
		return false, err
	}
	assignments, err := s.listAssignments(ctx, dao.NewParameter(dao.TaskIDParameter, id))
	if err != nil {
		return false, err
	}
	for _, assignment := range assignments {
		member, err := s.loadMember(ctx, assignment.MemberID)
		if err != nil {
			return false, err
		}
		if member == nil {
			continue
		}
		member.Restore(assignment.AssignedHours)
		if err = s.members.Update(ctx, member); err != nil {
			return false, fmt.Errorf("failed to update member %v: %w", member.ID, err)
		}
	}
	if _, err = s.assignments.DeleteIf(ctx, func(a *model.Assignment) bool { return a.TaskID == id }); err != nil {
		return false, fmt.Errorf("failed to delete task %v assignments: %w", id, err)
	}
	if err = s.tasks.Delete(ctx, id); err != nil {
		return false, fmt.Errorf("failed to delete task %v: %w", id, err)
	}
	s.logger.Debug("task deleted", "id", id, "assignments", len(assignments))
	return true, nil
}

// Tasks returns all tasks ordered by identity
func (s *Service) Tasks(ctx context.Context) ([]*model.Task, error) {
	release := s.locks.acquire(readTasks)
	defer release()
	return s.listTasks(ctx)
}

// Task returns a task or nil when it does not exist
func (s *Service) Task(ctx context.Context, id string) (*model.Task, error) {
	release := s.locks.acquire(readTasks)
	defer release()
	return s.loadTask(ctx, id)
}

// SearchTasks returns tasks whose name contains query, ignoring case. A blank query matches nothing.
func (s *Service) SearchTasks(ctx context.Context, query string) ([]*model.Task, error) {
	if strings.TrimSpace(query) == "" {
		return []*model.Task{}, nil
	}
	release := s.locks.acquire(readTasks)
	defer release()
	return s.listTasks(ctx, dao.NewParameter(dao.NameParameter, query))
}

// CountTasks returns number of tasks
func (s *Service) CountTasks(ctx context.Context) (int, error) {
	release := s.locks.acquire(readTasks)
	defer release()
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return len(tasks), nil
}

// CountUnassignedTasks returns number of tasks without any assignment
func (s *Service) CountUnassignedTasks(ctx context.Context) (int, error) {
	release := s.locks.acquire(readUnassigned)
	defer release()
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	assignments, err := s.assignments.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list assignments: %w", err)
	}
	assigned := make(map[string]bool, len(assignments))
	for _, assignment := range assignments {
		assigned[assignment.TaskID] = true
	}
	count := 0
	for _, task := range tasks {
		if !assigned[task.ID] {
			count++
		}
	}
	return count, nil
}
