package strategy

import (
	"container/heap"

	"github.com/viant/tasksched/model"
)

type (
	taskState struct {
		task      *model.Task
		remaining int
		order     int
	}

	memberState struct {
		member    *model.TeamMember
		remaining int
		// load accumulates hours allocated to the member in the current run
		load  int
		order int
	}

	// taskQueue orders tasks by priority, then creation time, then input order.
	taskQueue []*taskState

	// skillIndex maps a skill to members holding it, in input order.
	skillIndex map[string][]*memberState
)

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.task.Priority != b.task.Priority {
		return a.task.Priority < b.task.Priority
	}
	if !a.task.CreatedAt.Equal(b.task.CreatedAt) {
		return a.task.CreatedAt.Before(b.task.CreatedAt)
	}
	return a.order < b.order
}

func (q taskQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *taskQueue) Push(x any) { *q = append(*q, x.(*taskState)) }

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

func newTaskQueue(tasks []*model.Task) *taskQueue {
	queue := make(taskQueue, 0, len(tasks))
	for i, task := range tasks {
		if task == nil {
			continue
		}
		queue = append(queue, &taskState{task: task, remaining: task.RemainingHours, order: i})
	}
	heap.Init(&queue)
	return &queue
}

func newMemberStates(members []*model.TeamMember) []*memberState {
	ret := make([]*memberState, 0, len(members))
	for i, member := range members {
		if member == nil {
			continue
		}
		ret = append(ret, &memberState{member: member, remaining: member.RemainingHours, order: i})
	}
	return ret
}

func newSkillIndex(members []*memberState) skillIndex {
	index := skillIndex{}
	for _, member := range members {
		for _, skill := range member.member.Skills {
			index[skill] = append(index[skill], member)
		}
	}
	return index
}

// candidates returns members holding any of the skills with spare hours,
// in first-seen order while walking the skills.
func (s skillIndex) candidates(skills []string) []*memberState {
	var ret []*memberState
	seen := map[*memberState]bool{}
	for _, skill := range skills {
		for _, member := range s[skill] {
			if seen[member] {
				continue
			}
			seen[member] = true
			if member.remaining > 0 {
				ret = append(ret, member)
			}
		}
	}
	return ret
}

// orderFn arranges candidates before allocation.
type orderFn func(candidates []*memberState)

// assign runs the shared allocation loop with the supplied candidate ordering.
func assign(tasks []*model.Task, members []*model.TeamMember, order orderFn) []Allocation {
	var allocations []Allocation
	states := newMemberStates(members)
	if len(states) == 0 {
		return allocations
	}
	index := newSkillIndex(states)
	queue := newTaskQueue(tasks)
	for queue.Len() > 0 {
		current := heap.Pop(queue).(*taskState)
		if current.remaining <= 0 {
			continue
		}
		candidates := index.candidates(current.task.RequiredSkills)
		if order != nil {
			order(candidates)
		}
		allocated := false
		for _, member := range candidates {
			hours := min(current.remaining, member.remaining)
			if hours > 0 {
				allocations = append(allocations, Allocation{TaskID: current.task.ID, MemberID: member.member.ID, Hours: hours})
				current.remaining -= hours
				member.remaining -= hours
				member.load += hours
				allocated = true
			}
			if current.remaining == 0 {
				break
			}
		}
		if current.remaining > 0 && allocated {
			heap.Push(queue, current)
		}
	}
	return allocations
}
