package strategy

import (
	"sort"

	"github.com/viant/tasksched/model"
)

// BalancedLoad spreads allocations towards members who absorbed the least
// work relative to their capacity so far in the run.
type BalancedLoad struct{}

var _ Strategy = (*BalancedLoad)(nil)

// NewBalanced creates a balanced load strategy
func NewBalanced() *BalancedLoad {
	return &BalancedLoad{}
}

// Kind returns Balanced
func (b *BalancedLoad) Kind() Kind { return Balanced }

// Assign computes allocations; before every round candidates are ordered by
// ascending hours-assigned-this-run / MaxHoursPerDay.
func (b *BalancedLoad) Assign(tasks []*model.Task, members []*model.TeamMember) []Allocation {
	return assign(tasks, members, byNormalizedLoad)
}

func byNormalizedLoad(candidates []*memberState) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return normalizedLoad(candidates[i]) < normalizedLoad(candidates[j])
	})
}

func normalizedLoad(m *memberState) float64 {
	if m.member.MaxHoursPerDay <= 0 {
		return 0
	}
	return float64(m.load) / float64(m.member.MaxHoursPerDay)
}
