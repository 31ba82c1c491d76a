package member

import (
	"github.com/viant/tasksched/model"
	"github.com/viant/tasksched/service/action/validation"
	"github.com/viant/tasksched/service/strategy"
)

const (
	maxNameLength    = 100
	maxSkillLength   = 40
	minHoursPerDay   = 1
	maxHoursPerDay   = 24
	minEfficiency    = 1.0
	maxEfficiency    = 6.0
	missingIDMessage = "Missing member id."
	notFoundMessage  = "Member not found."
)

func validateFields(name string, skills []string, maxHours int, efficiency float64) error {
	if err := validation.Text("member name", name, maxNameLength); err != nil {
		return err
	}
	if err := validation.Skills("skill", skills, maxSkillLength); err != nil {
		return err
	}
	if err := validation.Int("maxHoursPerDay", maxHours, minHoursPerDay, maxHoursPerDay); err != nil {
		return err
	}
	return validation.Float("efficiency", efficiency, minEfficiency, maxEfficiency)
}

// CreateInput represents member/create input, a blank ID is generated
type CreateInput struct {
	ID             string
	Name           string
	Skills         []string
	MaxHoursPerDay int
	Efficiency     float64
}

// Validate checks input
func (i *CreateInput) Validate() error {
	if i.ID != "" {
		if err := validation.ID(i.ID, missingIDMessage); err != nil {
			return err
		}
	}
	return validateFields(i.Name, i.Skills, i.MaxHoursPerDay, i.Efficiency)
}

// Member returns a team member with the supplied attributes
func (i *CreateInput) Member() *model.TeamMember {
	return model.NewTeamMember(i.Name, i.MaxHoursPerDay, i.Efficiency, i.Skills...)
}

// UpdateInput represents member/update input
type UpdateInput struct {
	ID             string
	Name           string
	Skills         []string
	MaxHoursPerDay int
	Efficiency     float64
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
	return validateFields(i.Name, i.Skills, i.MaxHoursPerDay, i.Efficiency)
}

// Member returns a team member with the supplied attributes
func (i *UpdateInput) Member() *model.TeamMember {
	return model.NewTeamMember(i.Name, i.MaxHoursPerDay, i.Efficiency, i.Skills...)
}

// IDInput represents member/delete input
type IDInput struct {
	ID string
}

// Validate checks input
func (i *IDInput) Validate() error {
	return validation.ID(i.ID, missingIDMessage)
}

// SearchInput represents member/search input
type SearchInput struct {
	Name string
}
