package assignment

import (
	"github.com/viant/tasksched/service/action/validation"
	"github.com/viant/tasksched/service/strategy"
)

const (
	missingMemberMessage = "Missing or invalid memberId."
	missingTaskMessage   = "Missing or invalid taskId."
)

// AssignAllInput represents assignment/assignAll input
type AssignAllInput struct {
	Strategy string
	Kind     strategy.Kind `json:"-"`
}

// Validate resolves the strategy
func (i *AssignAllInput) Validate() (err error) {
	i.Kind, err = validation.Strategy(i.Strategy)
	return err
}

// AssignMemberInput represents assignment/assignForMember input
type AssignMemberInput struct {
	MemberID string
	Strategy string
	Kind     strategy.Kind `json:"-"`
}

// Validate checks input and resolves the strategy
func (i *AssignMemberInput) Validate() (err error) {
	if err = validation.ID(i.MemberID, missingMemberMessage); err != nil {
		return err
	}
	i.Kind, err = validation.Strategy(i.Strategy)
	return err
}

// DeleteInput represents assignment/delete input
type DeleteInput struct {
	TaskID   string
	MemberID string
}

// Validate checks input
func (i *DeleteInput) Validate() error {
	if err := validation.ID(i.TaskID, missingTaskMessage); err != nil {
		return err
	}
	return validation.ID(i.MemberID, missingMemberMessage)
}

// MemberInput represents assignment/forMember input
type MemberInput struct {
	MemberID string
}

// Validate checks input
func (i *MemberInput) Validate() error {
	return validation.ID(i.MemberID, missingMemberMessage)
}
