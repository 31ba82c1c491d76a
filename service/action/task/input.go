package task

import (
	"github.com/viant/tasksched/model"
	"github.com/viant/tasksched/service/action/validation"
	"github.com/viant/tasksched/service/strategy"
)

const (
	maxNameLength    = 100
	maxSkillLength   = 20
	minDuration      = 1
	maxDuration      = 1000
	highestPriority  = 1
	lowestPriority   = 4
	missingIDMessage = "Missing task id."
	notFoundMessage  = "Task not found."
	skillLabel       = "required skill"
	nameLabel        = "task name"
	durationLabel    = "durationHours"
	priorityLabel    = "priority"
)

func validateFields(name string, durationHours, priority int, requiredSkills []string) error {
	if err := validation.Text(nameLabel, name, maxNameLength); err != nil {
		return err
	}
	if err := validation.Int(durationLabel, durationHours, minDuration, maxDuration); err != nil {
		return err
	}
	if err := validation.Int(priorityLabel, priority, highestPriority, lowestPriority); err != nil {
		return err
	}
	return validation.Skills(skillLabel, requiredSkills, maxSkillLength)
}

// CreateInput represents task/create input, a blank ID is generated
type CreateInput struct {
	ID             string
	Name           string
	DurationHours  int
	Priority       int
	RequiredSkills []string
}

// Validate checks input
func (i *CreateInput) Validate() error {
	if i.ID != "" {
		if err := validation.ID(i.ID, missingIDMessage); err != nil {
			return err
		}
	}
	return validateFields(i.Name, i.DurationHours, i.Priority, i.RequiredSkills)
}

// Task returns a task with the supplied attributes
func (i *CreateInput) Task() *model.Task {
	return model.NewTask(i.Name, i.DurationHours, i.Priority, i.RequiredSkills...)
}

// UpdateInput represents task/update input
type UpdateInput struct {
	ID             string
	Name           string
	DurationHours  int
	Priority       int
	RequiredSkills []string
	Strategy       string
	Kind           strategy.Kind `json:"-"`
}

// Validate checks input and resolves the strategy
func (i *UpdateInput) Validate() (err error) {
	if err = validation.ID(i.ID, missingIDMessage); err != nil {
		return err
	}
	if i.Kind, err = validation.Strategy(i.Strategy); err != nil {
		return err
	}
	return validateFields(i.Name, i.DurationHours, i.Priority, i.RequiredSkills)
}

// Task returns a task with the supplied attributes
func (i *UpdateInput) Task() *model.Task {
	return model.NewTask(i.Name, i.DurationHours, i.Priority, i.RequiredSkills...)
}

// IDInput represents task/delete input
type IDInput struct {
	ID string
}

// Validate checks input
func (i *IDInput) Validate() error {
	return validation.ID(i.ID, missingIDMessage)
}

// SearchInput represents task/search input
type SearchInput struct {
	Name string
}
