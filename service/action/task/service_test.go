package task

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/tasksched/model"
	"github.com/viant/tasksched/model/types"
	"github.com/viant/tasksched/service/allocator"
	"github.com/viant/tasksched/service/dao"
	"github.com/viant/tasksched/service/dao/criteria"
	"github.com/viant/tasksched/service/dao/store"
	"github.com/viant/tasksched/service/protocol"
)

func newService() *Service {
	return New(allocator.New(
		store.NewMemoryStore(model.TaskKey, dao.WithClone((*model.Task).Clone), dao.WithFilter(criteria.Task)),
		store.NewMemoryStore(model.MemberKey, dao.WithClone((*model.TeamMember).Clone), dao.WithFilter(criteria.Member)),
		store.NewMemoryStore(model.AssignmentKey, dao.WithClone((*model.Assignment).Clone), dao.WithFilter(criteria.Assignment)),
	))
}

func call(t *testing.T, srv *Service, method string, body protocol.Body) (*types.Output, error) {
	signature := srv.Methods().Lookup(method)
	require.NotNil(t, signature, method)
	input := signature.NewInput()
	if err := protocol.NewDecoder().Decode(body, input); err != nil {
		return nil, err
	}
	executable, err := srv.Method(method)
	require.NoError(t, err)
	output := signature.NewOutput().(*types.Output)
	err = executable(context.Background(), input, output)
	return output, err
}

func TestService_Lifecycle(t *testing.T) {
	srv := newService()
	output, err := call(t, srv, "create", protocol.Body{"name": "api", "durationHours": 5, "priority": 1, "requiredSkills": []interface{}{"go"}})
	require.NoError(t, err)
	assert.Equal(t, "Task created.", output.Message)
	created := output.Data.(*model.Task)
	assert.Equal(t, "T1", created.ID)

	_, err = call(t, srv, "create", protocol.Body{"id": "T1", "name": "dup", "durationHours": 5, "priority": 1, "requiredSkills": []interface{}{"go"}})
	require.Error(t, err)
	assert.Equal(t, protocol.KindConflict, protocol.AsError(err).Kind)

	output, err = call(t, srv, "update", protocol.Body{"id": "T1", "name": "api v2", "durationHours": "7", "priority": 2, "requiredSkills": []interface{}{"go"}, "strategy": "Balanced"})
	require.NoError(t, err)
	assert.Equal(t, "Task updated and assignments recalculated.", output.Message)
	assert.Equal(t, true, output.Data)

	output, err = call(t, srv, "search", protocol.Body{"name": "V2"})
	require.NoError(t, err)
	require.Len(t, output.Data, 1)
	assert.Equal(t, 7, output.Data.([]*model.Task)[0].DurationHours)

	output, err = call(t, srv, "countUnassigned", protocol.Body{})
	require.NoError(t, err)
	assert.Equal(t, 1, output.Data)

	output, err = call(t, srv, "delete", protocol.Body{"id": "T1"})
	require.NoError(t, err)
	assert.Equal(t, "Task deleted.", output.Message)

	_, err = call(t, srv, "delete", protocol.Body{"id": "T1"})
	require.Error(t, err)
	assert.Equal(t, "Task not found.", err.Error())
	assert.Equal(t, protocol.KindNotFound, protocol.AsError(err).Kind)

	output, err = call(t, srv, "count", protocol.Body{})
	require.NoError(t, err)
	assert.Equal(t, 0, output.Data)

	output, err = call(t, srv, "getAll", protocol.Body{})
	require.NoError(t, err)
	assert.Empty(t, output.Data)
}

func TestService_Validation(t *testing.T) {
	valid := func() protocol.Body {
		return protocol.Body{"name": "api", "durationHours": 5, "priority": 1, "requiredSkills": []interface{}{"go"}}
	}
	var testCases = []struct {
		description string
		method      string
		mutate      func(body protocol.Body)
		expect      string
	}{
		{description: "missing name", method: "create", mutate: func(b protocol.Body) { delete(b, "name") }, expect: "Missing task name."},
		{description: "long name", method: "create", mutate: func(b protocol.Body) { b["name"] = strings.Repeat("x", 101) }},
		{description: "zero duration", method: "create", mutate: func(b protocol.Body) { b["durationHours"] = 0 }},
		{description: "large duration", method: "create", mutate: func(b protocol.Body) { b["durationHours"] = 1001 }},
		{description: "bad duration", method: "create", mutate: func(b protocol.Body) { b["durationHours"] = "five" }},
		{description: "bool duration", method: "create", mutate: func(b protocol.Body) { b["durationHours"] = true }, expect: "Invalid durationHours."},
		{description: "array duration", method: "create", mutate: func(b protocol.Body) { b["durationHours"] = []interface{}{float64(1)} }, expect: "Invalid durationHours."},
		{description: "fractional duration", method: "create", mutate: func(b protocol.Body) { b["durationHours"] = 4.9 }, expect: "Invalid durationHours."},
		{description: "object name", method: "create", mutate: func(b protocol.Body) { b["name"] = map[string]interface{}{"k": float64(1)} }, expect: "Invalid name."},
		{description: "object skill", method: "create", mutate: func(b protocol.Body) {
			b["requiredSkills"] = []interface{}{map[string]interface{}{"a": float64(1)}}
		}, expect: "Invalid requiredSkills."},
		{description: "malformed id", method: "create", mutate: func(b protocol.Body) { b["id"] = "../members/M1" }, expect: "Missing task id."},
		{description: "priority", method: "create", mutate: func(b protocol.Body) { b["priority"] = 5 }},
		{description: "no skills", method: "create", mutate: func(b protocol.Body) { b["requiredSkills"] = []interface{}{} }},
		{description: "duplicate skills", method: "create", mutate: func(b protocol.Body) { b["requiredSkills"] = []interface{}{"Go", "go"} }},
		{description: "update without id", method: "update", mutate: func(b protocol.Body) {}, expect: "Missing task id."},
		{description: "unknown strategy", method: "update", mutate: func(b protocol.Body) { b["id"] = "T1"; b["strategy"] = "magic" }, expect: "Unknown strategy: magic"},
		{description: "delete without id", method: "delete", mutate: func(b protocol.Body) {}, expect: "Missing task id."},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			body := valid()
			testCase.mutate(body)
			_, err := call(t, newService(), testCase.method, body)
			require.Error(t, err)
			assert.Equal(t, protocol.KindValidation, protocol.AsError(err).Kind)
			if testCase.expect != "" {
				assert.Equal(t, testCase.expect, err.Error())
			}
		})
	}
}

func TestService_Method(t *testing.T) {
	srv := newService()
	for _, signature := range srv.Methods() {
		_, err := srv.Method(signature.Name)
		assert.NoError(t, err, signature.Name)
	}
	_, err := srv.Method("archive")
	assert.Error(t, err)
}
