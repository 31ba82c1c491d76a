// Package idgen produces entity identities and opaque request identifiers.
//
// Entity identities are prefix + counter ("T1", "M7") drawn from per-prefix
// atomic sequences; they are unique only within one running process.
// Request identifiers are UUIDs and should be treated as opaque strings.
package idgen
