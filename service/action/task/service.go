package task

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

const name = "task"

// Scheduler defines task operations used by the service
type Scheduler interface {
	CreateTask(ctx context.Context, task *model.Task) (*model.Task, error)
	UpdateTask(ctx context.Context, id string, task *model.Task, kind strategy.Kind) (bool, error)
	DeleteTask(ctx context.Context, id string) (bool, error)
	Tasks(ctx context.Context) ([]*model.Task, error)
	SearchTasks(ctx context.Context, query string) ([]*model.Task, error)
	CountTasks(ctx context.Context) (int, error)
	CountUnassignedTasks(ctx context.Context) (int, error)
}

// Service exposes task actions
type Service struct {
	scheduler Scheduler
}

// New creates task action service
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
		{Name: "create", Description: "Creates a task under a generated id.", Input: reflect.TypeOf(&CreateInput{}), Output: output},
		{Name: "update", Description: "Overwrites a task and recalculates all assignments.", Input: reflect.TypeOf(&UpdateInput{}), Output: output},
		{Name: "delete", Description: "Deletes a task with its assignments.", Input: reflect.TypeOf(&IDInput{}), Output: output},
		{Name: "getAll", Description: "Lists all tasks.", Output: output},
		{Name: "search", Description: "Lists tasks whose name contains a fragment.", Input: reflect.TypeOf(&SearchInput{}), Output: output},
		{Name: "count", Description: "Counts tasks.", Output: output},
		{Name: "countUnassigned", Description: "Counts tasks without assignments.", Output: output},
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
	case "countunassigned":
		return s.countUnassigned, nil
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
	task := input.Task()
	task.ID = input.ID
	created, err := s.scheduler.CreateTask(ctx, task)
	if err != nil {
		if errors.Is(err, allocator.ErrAlreadyExists) {
			return protocol.NewError(protocol.KindConflict, "Task %v already exists.", input.ID)
		}
		return err
	}
	return output.Set("Task created.", created)
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
	updated, err := s.scheduler.UpdateTask(ctx, input.ID, input.Task(), input.Kind)
	if err != nil {
		return err
	}
	if !updated {
		return protocol.NotFound(notFoundMessage)
	}
	return output.Set("Task updated and assignments recalculated.", true)
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
	deleted, err := s.scheduler.DeleteTask(ctx, input.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return protocol.NotFound(notFoundMessage)
	}
	return output.Set("Task deleted.", true)
}

func (s *Service) getAll(ctx context.Context, _, out interface{}) error {
	output, ok := out.(*types.Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	tasks, err := s.scheduler.Tasks(ctx)
	if err != nil {
		return err
	}
	return output.Set("All tasks.", tasks)
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
	tasks, err := s.scheduler.SearchTasks(ctx, input.Name)
	if err != nil {
		return err
	}
	return output.Set("Search result.", tasks)
}

func (s *Service) count(ctx context.Context, _, out interface{}) error {
	output, ok := out.(*types.Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	count, err := s.scheduler.CountTasks(ctx)
	if err != nil {
		return err
	}
	return output.Set("Task count.", count)
}

func (s *Service) countUnassigned(ctx context.Context, _, out interface{}) error {
	output, ok := out.(*types.Output)
	if !ok {
		return types.NewInvalidOutputError(out)
	}
	count, err := s.scheduler.CountUnassignedTasks(ctx)
	if err != nil {
		return err
	}
	return output.Set("Unassigned task count.", count)
}
