package member

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

const name = "member"

// Scheduler defines team member operations used by the service
type Scheduler interface {
	CreateMember(ctx context.Context, member *model.TeamMember) (*model.TeamMember, error)
	UpdateMember(ctx context.Context, id string, member *model.TeamMember, kind strategy.Kind) (bool, error)
	DeleteMember(ctx context.Context, id string) (bool, error)
	Members(ctx context.Context) ([]*model.TeamMember, error)
	SearchMembers(ctx context.Context, query string) ([]*model.TeamMember, error)
	CountMembers(ctx context.Context) (int, error)
	AverageLoad(ctx context.Context) (float64, error)
}

// Service exposes team member actions
type Service struct {
	scheduler Scheduler
}

// New creates member action service
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
		{Name: "create", Description: "Creates a team member under a generated id.", Input: reflect.TypeOf(&CreateInput{}), Output: output},
		{Name: "update", Description: "Overwrites a team member and recalculates all assignments.", Input: reflect.TypeOf(&UpdateInput{}), Output: output},
		{Name: "delete", Description: "Deletes a team member with its assignments.", Input: reflect.TypeOf(&IDInput{}), Output: output},
		{Name: "getAll", Description: "Lists all team members.", Output: output},
		{Name: "search", Description: "Lists team members whose name contains a fragment.", Input: reflect.TypeOf(&SearchInput{}), Output: output},
		{Name: "count", Description: "Counts team members.", Output: output},
		{Name: "averageLoad", Description: "Returns assignments per team member.", Output: output},
	}
}

// Method returns the specified method
func (s *Service) Method(name string) (types.Executable, error) {
	switch strings.ToLower(name) {
	case "create":
		return s.create, nil
	case "update":
		return s.update, nil
	case "delete":
		return s.delete, nil
	case "getall":
		return s.getAll, nil
	case "search":
		return s.search, nil
	case "count":
		return s.count, nil
	case "averageload":
		return s.averageLoad, nil
	default:
		return nil, types.NewMethodNotFoundError(name)
	}
}

func (s *Service) create(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*CreateInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*types.Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	member := input.Member()
	member.ID = input.ID
	created, err := s.scheduler.CreateMember(ctx, member)
	if err != nil {
		if errors.Is(err, allocator.ErrAlreadyExists) {
			return protocol.NewError(protocol.KindConflict, "Member %v already exists.", input.ID)
		}
		return err
	}
	return output.Set("Member created.", created)
}

func (s *Service) update(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*UpdateInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*types.Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	updated, err := s.scheduler.UpdateMember(ctx, input.ID, input.Member(), input.Kind)
	if err != nil {
		return err
	}
	if !updated {
		return protocol.NotFound(notFoundMessage)
	}
	return output.Set("Member updated and assignments recalculated.", true)
}

func (s *Service) delete(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*IDInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*types.Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	deleted, err := s.scheduler.DeleteMember(ctx, input.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return protocol.NotFound(notFoundMessage)
	}
	return output.Set("Member deleted.", true)
}

func (s *Service) getAll(ctx context.Context, _, out interface{}) error {
	output, ok := out.(*types.Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	members, err := s.scheduler.Members(ctx)
	if err != nil {
		return err
	}
	return output.Set("All members.", members)
}

func (s *Service) search(ctx context.Context, in, out interface{}) error {
	input, ok := in.(*SearchInput)
	if !ok {
		return types.NewInvalidInputError(in)
	}
	output, ok := out.(*types.Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	members, err := s.scheduler.SearchMembers(ctx, input.Name)
	if err != nil {
		return err
	}
	return output.Set("Search result.", members)
}

func (s *Service) count(ctx context.Context, _, out interface{}) error {
	output, ok := out.(*types.Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	count, err := s.scheduler.CountMembers(ctx)
	if err != nil {
		return err
	}
	return output.Set("Member count.", count)
}

func (s *Service) averageLoad(ctx context.Context, _, out interface{}) error {
	output, ok := out.(*types.Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	load, err := s.scheduler.AverageLoad(ctx)
	if err != nil {
		return err
	}
	return output.Set("Average load.", load)
}
