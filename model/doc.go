// Package model defines the entities managed by the scheduler: tasks, team
// members and the assignments committing task hours to members.
//
// Entities are plain values with mutable hour counters. Only the allocator
// service mutates stored entities; everything else works on clones.
package model
