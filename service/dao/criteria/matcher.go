package criteria

import (
	"strings"

	"github.com/viant/tasksched/model"
	"github.com/viant/tasksched/service/dao"
)

// Field resolves a parameter name to the entity value it filters on.
type Field func(name string) (string, bool)

// Match returns true when every recognised parameter matches. The Name
// parameter matches a case-insensitive fragment, others match exactly;
// unknown parameters are ignored.
func Match(field Field, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil {
			continue
		}
		actual, ok := field(parameter.Name)
		if !ok {
			continue
		}
		if !matchValue(parameter.Name, actual, parameter.Value) {
			return false
		}
	}
	return true
}

func matchValue(name, actual string, expected interface{}) bool {
	switch value := expected.(type) {
	case string:
		return matchOne(name, actual, value)
	case []string:
		for _, candidate := range value {
			if matchOne(name, actual, candidate) {
				return true
			}
		}
		return false
	}
	return true
}

func matchOne(name, actual, expected string) bool {
	if name == dao.NameParameter {
		return strings.Contains(strings.ToLower(actual), strings.ToLower(expected))
	}
	return actual == expected
}

// Task filters tasks by ID and Name
func Task(task *model.Task, parameters []*dao.Parameter) bool {
	return Match(func(name string) (string, bool) {
		switch name {
		case dao.IDParameter:
			return task.ID, true
		case dao.NameParameter:
			return task.Name, true
		}
		return "", false
	}, parameters)
}

// Member filters members by ID and Name
func Member(member *model.TeamMember, parameters []*dao.Parameter) bool {
	return Match(func(name string) (string, bool) {
		switch name {
		case dao.IDParameter:
			return member.ID, true
		case dao.NameParameter:
			return member.Name, true
		}
		return "", false
	}, parameters)
}

// Assignment filters assignments by task and member references
func Assignment(assignment *model.Assignment, parameters []*dao.Parameter) bool {
	return Match(func(name string) (string, bool) {
		switch name {
		case dao.IDParameter:
			return assignment.Key(), true
		case dao.TaskIDParameter:
			return assignment.TaskID, true
		case dao.MemberIDParameter:
			return assignment.MemberID, true
		}
		return "", false
	}, parameters)
}
