// Package validation checks decoded request fields and reports failures as
// protocol validation errors with client facing messages.
package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/viant/tasksched/service/protocol"
	"github.com/viant/tasksched/service/strategy"
)

// MaxIDLength is the longest accepted entity identity
const MaxIDLength = 40

// ID checks a required identity made of ASCII letters, digits and '_';
// missing is the message for a blank or malformed value.
func ID(value, missing string) error {
	if value == "" || len(value) > MaxIDLength {
		return protocol.Validation("%s", missing)
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_') {
			return protocol.Validation("%s", missing)
		}
	}
	return nil
}

// Text checks a required text field length
func Text(label, value string, max int) error {
	if value == "" {
		return protocol.Validation("Missing %v.", label)
	}
	if utf8.RuneCountInString(value) > max {
		return protocol.Validation("The %v must be at most %v characters.", label, max)
	}
	return nil
}

// Int checks an inclusive integer range
func Int(label string, value, min, max int) error {
	if value < min || value > max {
		return protocol.Validation("The %v must be between %v and %v.", label, min, max)
	}
	return nil
}

// Float checks an inclusive float range
func Float(label string, value, min, max float64) error {
	if value < min || value > max {
		return protocol.Validation("The %v must be between %v and %v.", label, min, max)
	}
	return nil
}

// Skills checks a non empty list of non blank skills without case-insensitive duplicates
func Skills(label string, skills []string, max int) error {
	if len(skills) == 0 {
		return protocol.Validation("At least one %v is required.", label)
	}
	seen := make(map[string]bool, len(skills))
	for _, skill := range skills {
		if skill == "" {
			return protocol.Validation("The %v must not be blank.", label)
		}
		if utf8.RuneCountInString(skill) > max {
			return protocol.Validation("The %v %q must be at most %v characters.", label, skill, max)
		}
		key := strings.ToLower(skill)
		if seen[key] {
			return protocol.Validation("Duplicate %v %q.", label, skill)
		}
		seen[key] = true
	}
	return nil
}

// Strategy resolves an optional strategy name
func Strategy(name string) (strategy.Kind, error) {
	kind, err := strategy.Parse(name)
	if err != nil {
		return kind, protocol.Validation("Unknown strategy: %v", name)
	}
	return kind, nil
}
