package allocator

import "sync"

type lockMode int

const (
	unlocked lockMode = iota
	shared
	exclusive
)

// scope lists the mode requested for each entity lock.
type scope struct {
	task       lockMode
	member     lockMode
	assignment lockMode
}

var (
	readTasks       = scope{task: shared}
	readMembers     = scope{member: shared}
	readAssignments = scope{assignment: shared}
	writeTasks      = scope{task: exclusive}
	writeMembers    = scope{member: exclusive}
	writeAll        = scope{task: exclusive, member: exclusive, assignment: exclusive}
	readUnassigned  = scope{task: shared, assignment: shared}
	readLoad        = scope{member: shared, assignment: shared}
)

type lockSet struct {
	task       sync.RWMutex
	member     sync.RWMutex
	assignment sync.RWMutex
}

// acquire locks the requested subset in the order task, member, assignment and
// returns a function releasing them in reverse order.
func (l *lockSet) acquire(s scope) (release func()) {
	ordered := [...]struct {
		mu   *sync.RWMutex
		mode lockMode
	}{
		{&l.task, s.task},
		{&l.member, s.member},
		{&l.assignment, s.assignment},
	}
	held := make([]func(), 0, len(ordered))
	for _, item := range ordered {
		switch item.mode {
		case shared:
			item.mu.RLock()
			held = append(held, item.mu.RUnlock)
		case exclusive:
			item.mu.Lock()
			held = append(held, item.mu.Unlock)
		}
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i]()
		}
	}
}
