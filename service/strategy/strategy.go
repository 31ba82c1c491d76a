// Package strategy implements the task assignment strategies.
//
// A strategy is a pure allocation over (tasks, members): it reads the hour
// counters of the supplied entities, never mutates them, and returns the
// commitments it made as a list of Allocation. The caller applies the result
// to its own authoritative copies.
package strategy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/viant/tasksched/model"
)

// ErrUnknownStrategy is returned for strategy names outside the supported set.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Kind identifies an assignment strategy.
type Kind int

const (
	// Greedy assigns each task to the first matching members with spare hours
	Greedy Kind = iota
	// Balanced prefers members with the lowest normalized load in the current run
	Balanced
)

// Default strategy used when no name is supplied
const Default = Greedy

// String returns strategy name
func (k Kind) String() string {
	switch k {
	case Greedy:
		return "greedy"
	case Balanced:
		return "balanced"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Parse resolves a strategy name case-insensitively. A blank name resolves to Default.
func Parse(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return Default, nil
	case "greedy":
		return Greedy, nil
	case "balanced":
		return Balanced, nil
	}
	return Default, fmt.Errorf("%w: %v", ErrUnknownStrategy, name)
}

// Allocation represents hours of one task committed to one member during a run.
type Allocation struct {
	TaskID   string
	MemberID string
	Hours    int
}

// Strategy computes allocations for the supplied tasks and members.
type Strategy interface {
	Kind() Kind
	Assign(tasks []*model.Task, members []*model.TeamMember) []Allocation
}

// New returns the strategy implementation for kind
func New(kind Kind) (Strategy, error) {
	switch kind {
	case Greedy:
		return NewGreedy(), nil
	case Balanced:
		return NewBalanced(), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownStrategy, kind)
}

// Merge collapses allocations sharing a (task, member) pair into a single
// allocation, preserving the order of first occurrence.
func Merge(allocations []Allocation) []Allocation {
	if len(allocations) < 2 {
		return allocations
	}
	index := make(map[[2]string]int, len(allocations))
	ret := make([]Allocation, 0, len(allocations))
	for _, allocation := range allocations {
		key := [2]string{allocation.TaskID, allocation.MemberID}
		if i, ok := index[key]; ok {
			ret[i].Hours += allocation.Hours
			continue
		}
		index[key] = len(ret)
		ret = append(ret, allocation)
	}
	return ret
}
