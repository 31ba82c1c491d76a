package model

import "time"

// Task represents a unit of work with required skills, priority and an hour budget.
type Task struct {
	ID             string    `json:"id,omitempty" yaml:"id,omitempty"`
	Name           string    `json:"name,omitempty" yaml:"name,omitempty"`
	DurationHours  int       `json:"durationHours" yaml:"durationHours"`
	RemainingHours int       `json:"remainingHours" yaml:"remainingHours"`
	Priority       int       `json:"priority" yaml:"priority"`
	RequiredSkills []string  `json:"requiredSkills,omitempty" yaml:"requiredSkills,omitempty"`
	CreatedAt      time.Time `json:"createdAt" yaml:"createdAt"`
}

// NewTask creates a task with remaining hours initialised to its duration
func NewTask(name string, durationHours, priority int, skills ...string) *Task {
	return &Task{
		Name:           name,
		DurationHours:  durationHours,
		RemainingHours: durationHours,
		Priority:       priority,
		RequiredSkills: skills,
	}
}

// Key returns task persistence key
func (t *Task) Key() string {
	return t.ID
}

// Reset restores remaining hours to the full duration
func (t *Task) Reset() {
	t.RemainingHours = t.DurationHours
}

// Restore returns hours to the remaining budget, capped at the duration.
func (t *Task) Restore(hours int) {
	t.RemainingHours += hours
	if t.RemainingHours > t.DurationHours {
		t.RemainingHours = t.DurationHours
	}
}

// Consume takes hours from the remaining budget, never going below zero.
func (t *Task) Consume(hours int) {
	t.RemainingHours -= hours
	if t.RemainingHours < 0 {
		t.RemainingHours = 0
	}
}

// Clone returns a deep copy of the task
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	ret := *t
	if t.RequiredSkills != nil {
		ret.RequiredSkills = append([]string(nil), t.RequiredSkills...)
	}
	return &ret
}

// TaskKey returns task key, used as dao key selector
func TaskKey(t *Task) string {
	return t.ID
}
