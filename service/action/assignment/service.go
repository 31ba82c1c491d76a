package assignment

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/viant/tasksched/model"
	"github.com/viant/tasksched/model/types"
	"github.com/viant/tasksched/service/allocator"
	"github.com/viant/tasksched/service/protocol"
	"github.com/viant/tasksched/service/strategy"
)

const name = "assignment"

// Scheduler defines assignment operations used by the service
type Scheduler interface {
	AssignTasks(ctx context.Context, kind strategy.Kind) (bool, error)
	AssignTasksToMember(ctx context.Context, memberID string, kind strategy.Kind) (bool, error)
	DeleteAssignment(ctx context.Context, taskID, memberID string) (bool, error)
	Assignments(ctx context.Context) ([]*model.Assignment, error)
	MemberAssignments(ctx context.Context, memberID string) ([]*model.Assignment, error)
}

// Service exposes assignment actions
type Service struct {
	scheduler Scheduler
}

// New creates assignment action service
func New(scheduler Scheduler) *Service {
	return &Service{scheduler: scheduler}
}

// Name returns the service name
func (s *Service) Name() string {
	return name
}

// Methods returns the service methods
func (s *Service) Methods() types.Signatures {
	output := reflect.TypeOf(&types.Output{})
	return []types.Signature{
		{Name: "assignAll", Description: "Recalculates assignments for all tasks and members.", Input: reflect.TypeOf(&AssignAllInput{}), Output: output},
		{Name: "assignForMember", Description: "Recalculates assignments of one member.", Input: reflect.TypeOf(&AssignMemberInput{}), Output: output},
		{Name: "delete", Description: "Deletes an assignment restoring its hours.", Input: reflect.TypeOf(&DeleteInput{}), Output: output},
		{Name: "getAll", Description: "Lists all assignments.", Output: output},
		{Name: "forMember", Description: "Lists assignments of a member.", Input: reflect.TypeOf(&MemberInput{}), Output: output},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "assignall":
		return s.assignAll, nil
	case "assignformember":
		return s.assignForMember, nil
	case "delete":
		return s.delete, nil
	case "getall":
		return s.getAll, nil
	case "formember":
		return s.forMember, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) assignAll(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*AssignAllInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*types.Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	assigned, err := s.scheduler.AssignTasks(ctx, input.Kind)
	if err != nil {
		return err
	}
	if !assigned {
		return protocol.NewError(protocol.KindUnprocessable, "No assignments were made.")
	}
	return output.Set("Tasks assigned to all members.", true)
}

func (s *Service) assignForMember(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*AssignMemberInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*types.Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	assigned, err := s.scheduler.AssignTasksToMember(ctx, input.MemberID, input.Kind)
	if err != nil {
		if errors.Is(err, allocator.ErrMemberNotFound) {
			return protocol.NotFound("Member not found.")
		}
		return err
	}
	if !assigned {
		return protocol.NewError(protocol.KindUnprocessable, "No assignments were made for member.")
	}
	return output.Set("Tasks assigned to member.", true)
}

func (s *Service) delete(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*DeleteInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*types.Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	deleted, err := s.scheduler.DeleteAssignment(ctx, input.TaskID, input.MemberID)
	if err != nil {
		return err
	}
	if !deleted {
		return protocol.NotFound("Assignment not found or already deleted.")
	}
	return output.Set("Assignment deleted.", true)
}

func (s *Service) getAll(ctx context.Context, _, out interface{}) error {
	output, ok := out.(*types.Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	assignments, err := s.scheduler.Assignments(ctx)
	if err != nil {
		return err
	}
	return output.Set("All assignments.", assignments)
}

func (s *Service) forMember(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*MemberInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*types.Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	assignments, err := s.scheduler.MemberAssignments(ctx, input.MemberID)
	if err != nil {
		return err
	}
	return output.Set("Assignments for member.", assignments)
}
