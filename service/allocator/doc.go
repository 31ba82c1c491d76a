// Package allocator implements the scheduling service. It owns tasks, team
// members and assignments, keeps their hour counters mutually consistent and
// is the only component that applies strategy allocations to stored state.
//
// Every operation acquires the task, member and assignment locks it needs
// through a single helper that always locks in the order task, member,
// assignment, and holds them for the whole operation.
package allocator
