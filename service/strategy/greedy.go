package strategy

import "github.com/viant/tasksched/model"

// GreedyEarliestFit assigns each task, most urgent first, to the first
// matching members that still have spare hours.
type GreedyEarliestFit struct{}

var _ Strategy = (*GreedyEarliestFit)(nil)

// NewGreedy creates a greedy earliest-fit strategy
func NewGreedy() *GreedyEarliestFit {
	return &GreedyEarliestFit{}
}

// Kind returns Greedy
func (g *GreedyEarliestFit) Kind() Kind { return Greedy }

// Assign computes allocations; candidate members are visited in the order they
// are discovered while walking the task's required skills.
func (g *GreedyEarliestFit) Assign(tasks []*model.Task, members []*model.TeamMember) []Allocation {
	return assign(tasks, members, nil)
}
