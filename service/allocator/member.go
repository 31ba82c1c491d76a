package allocator

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/tasksched/model"
	"github.com/viant/tasksched/service/dao"
	"github.com/viant/tasksched/service/strategy"
)

// CreateMember stores a new team member under a generated identity and returns the stored copy.
func (s *Service) CreateMember(ctx context.Context, member *model.TeamMember) (*model.TeamMember, error) {
	if member == nil {
		return nil, dao.ErrNilEntity
	}
	release := s.locks.acquire(writeMembers)
	defer release()
	if member.ID != "" {
		existing, err := s.loadMember(ctx, member.ID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: member %v", ErrAlreadyExists, member.ID)
		}
	}
	created := member.Clone()
	for {
		created.ID = s.ids.Next(MemberPrefix)
		existing, err := s.loadMember(ctx, created.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			break
		}
	}
	created.Reset()
	if err := s.members.Save(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to save member: %w", err)
	}
	s.logger.Debug("member created", "id", created.ID, "name", created.Name)
	return created.Clone(), nil
}

// UpdateMember overwrites member id and recomputes all assignments with kind.
// It returns false when the member does not exist.
func (s *Service) UpdateMember(ctx context.Context, id string, member *model.TeamMember, kind strategy.Kind) (bool, error) {
	if member == nil {
		return false, dao.ErrNilEntity
	}
	release := s.locks.acquire(writeAll)
	defer release()
	existing, err := s.loadMember(ctx, id)
	if err != nil || existing == nil {
		return false, err
	}
	updated := member.Clone()
	updated.ID = id
	updated.Reset()
	if err = s.members.Update(ctx, updated); err != nil {
		return false, fmt.Errorf("failed to update member %v: %w", id, err)
	}
	s.logger.Debug("member updated", "id", id)
	if _, err = s.assignAll(ctx, kind); err != nil {
		return true, err
	}
	return true, nil
}

// DeleteMember removes the member and every assignment referencing it, restoring
// the assigned hours to the affected tasks. It returns false when the member does not exist.
func (s *Service) DeleteMember(ctx context.Context, id string) (bool, error) {
	release := s.locks.acquire(writeAll)
	defer release()
	existing, err := s.loadMember(ctx, id)
	if err != nil || existing == nil {
		return false, err
	}
	assignments, err := s.listAssignments(ctx, dao.NewParameter(dao.MemberIDParameter, id))
	if err != nil {
		return false, err
	}
	if err = s.restoreTasks(ctx, assignments); err != nil {
		return false, err
	}
	if _, err = s.assignments.DeleteIf(ctx, func(a *model.Assignment) bool { return a.MemberID == id }); err != nil {
		return false, fmt.Errorf("failed to delete member %v assignments: %w", id, err)
	}
	if err = s.members.Delete(ctx, id); err != nil {
		return false, fmt.Errorf("failed to delete member %v: %w", id, err)
	}
	s.logger.Debug("member deleted", "id", id, "assignments", len(assignments))
	return true, nil
}

// restoreTasks returns assigned hours to the referenced tasks
func (s *Service) restoreTasks(ctx context.Context, assignments []*model.Assignment) error {
	for _, assignment := range assignments {
		task, err := s.loadTask(ctx, assignment.TaskID)
		if err != nil {
			return err
		}
		if task == nil {
			continue
		}
		task.Restore(assignment.AssignedHours)
		if err = s.tasks.Update(ctx, task); err != nil {
			return fmt.Errorf("failed to update task %v: %w", task.ID, err)
		}
	}
	return nil
}

// Members returns all team members ordered by identity
func (s *Service) Members(ctx context.Context) ([]*model.TeamMember, error) {
	release := s.locks.acquire(readMembers)
	defer release()
	return s.listMembers(ctx)
}

// Member returns a team member or nil when it does not exist
func (s *Service) Member(ctx context.Context, id string) (*model.TeamMember, error) {
	release := s.locks.acquire(readMembers)
	defer release()
	return s.loadMember(ctx, id)
}

// SearchMembers returns members whose name contains query, ignoring case. A blank query matches nothing.
func (s *Service) SearchMembers(ctx context.Context, query string) ([]*model.TeamMember, error) {
	if strings.TrimSpace(query) == "" {
		return []*model.TeamMember{}, nil
	}
	release := s.locks.acquire(readMembers)
	defer release()
	return s.listMembers(ctx, dao.NewParameter(dao.NameParameter, query))
}

// CountMembers returns number of team members
func (s *Service) CountMembers(ctx context.Context) (int, error) {
	release := s.locks.acquire(readMembers)
	defer release()
	members, err := s.members.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list members: %w", err)
	}
	return len(members), nil
}

// AverageLoad returns the number of assignment rows per team member, 0 without members.
func (s *Service) AverageLoad(ctx context.Context) (float64, error) {
	release := s.locks.acquire(readLoad)
	defer release()
	members, err := s.members.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list members: %w", err)
	}
	if len(members) == 0 {
		return 0, nil
	}
	assignments, err := s.assignments.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list assignments: %w", err)
	}
	return float64(len(assignments)) / float64(len(members)), nil
}
