package allocator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/tasksched/model"
	"github.com/viant/tasksched/service/dao"
	"github.com/viant/tasksched/service/dao/criteria"
	"github.com/viant/tasksched/service/dao/fs"
	"github.com/viant/tasksched/service/dao/store"
	"github.com/viant/tasksched/service/strategy"
)

func newService() *Service {
	return New(
		store.NewMemoryStore(model.TaskKey, dao.WithClone((*model.Task).Clone), dao.WithFilter(criteria.Task)),
		store.NewMemoryStore(model.MemberKey, dao.WithClone((*model.TeamMember).Clone), dao.WithFilter(criteria.Member)),
		store.NewMemoryStore(model.AssignmentKey, dao.WithClone((*model.Assignment).Clone), dao.WithFilter(criteria.Assignment)),
	)
}

// newScenario creates members M1 Alice(8h go,sql), M2 Bob(6h java), M3 Carol(4h go)
// and tasks T1 api(5h go), T2 db(6h sql), T3 ui(4h java), T4 ml(3h python).
func newScenario(t *testing.T) *Service {
	ctx := context.Background()
	srv := newService()
	for _, member := range []*model.TeamMember{
		model.NewTeamMember("Alice", 8, 1.5, "go", "sql"),
		model.NewTeamMember("Bob", 6, 1.0, "java"),
		model.NewTeamMember("Carol", 4, 2.0, "go"),
	} {
		_, err := srv.CreateMember(ctx, member)
		require.NoError(t, err)
	}
	for _, task := range []*model.Task{
		model.NewTask("api", 5, 1, "go"),
		model.NewTask("db", 6, 2, "sql"),
		model.NewTask("ui", 4, 3, "java"),
		model.NewTask("ml", 3, 1, "python"),
	} {
		_, err := srv.CreateTask(ctx, task)
		require.NoError(t, err)
	}
	return srv
}

// assertConsistent verifies hour conservation, no over-commitment and assignment uniqueness.
func assertConsistent(t *testing.T, srv *Service) {
	ctx := context.Background()
	tasks, err := srv.Tasks(ctx)
	require.NoError(t, err)
	members, err := srv.Members(ctx)
	require.NoError(t, err)
	assignments, err := srv.Assignments(ctx)
	require.NoError(t, err)

	perTask := map[string]int{}
	perMember := map[string]int{}
	pairs := map[string]bool{}
	for _, assignment := range assignments {
		assert.Greater(t, assignment.AssignedHours, 0)
		assert.False(t, pairs[assignment.Key()], "duplicate %v", assignment.Key())
		pairs[assignment.Key()] = true
		perTask[assignment.TaskID] += assignment.AssignedHours
		perMember[assignment.MemberID] += assignment.AssignedHours
	}
	for _, task := range tasks {
		assert.Equal(t, perTask[task.ID], task.DurationHours-task.RemainingHours, "task %v", task.ID)
		assert.GreaterOrEqual(t, task.RemainingHours, 0)
	}
	for _, member := range members {
		assert.LessOrEqual(t, perMember[member.ID], member.MaxHoursPerDay, "member %v", member.ID)
		assert.Equal(t, perMember[member.ID], member.MaxHoursPerDay-member.RemainingHours, "member %v", member.ID)
	}
}

func hoursByKey(assignments []*model.Assignment) map[string]int {
	ret := map[string]int{}
	for _, assignment := range assignments {
		ret[assignment.Key()] = assignment.AssignedHours
	}
	return ret
}

func TestService_CreateTask(t *testing.T) {
	ctx := context.Background()
	srv := newService()

	task := model.NewTask("api", 5, 1, "go")
	task.RemainingHours = 1
	created, err := srv.CreateTask(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, "T1", created.ID)
	assert.Equal(t, 5, created.RemainingHours)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Empty(t, task.ID)

	second, err := srv.CreateTask(ctx, &model.Task{ID: "X9", Name: "db", DurationHours: 2, Priority: 1})
	require.NoError(t, err)
	assert.Equal(t, "T2", second.ID)

	_, err = srv.CreateTask(ctx, &model.Task{ID: "T1", Name: "dup", DurationHours: 2, Priority: 1})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = srv.CreateTask(ctx, nil)
	assert.ErrorIs(t, err, dao.ErrNilEntity)

	count, err := srv.CountTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestService_CreateMember(t *testing.T) {
	ctx := context.Background()
	srv := newService()
	member := model.NewTeamMember("Alice", 8, 1.5, "go")
	member.RemainingHours = 0
	created, err := srv.CreateMember(ctx, member)
	require.NoError(t, err)
	assert.Equal(t, "M1", created.ID)
	assert.Equal(t, 8, created.RemainingHours)

	_, err = srv.CreateMember(ctx, &model.TeamMember{ID: "M1", Name: "dup"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	loaded, err := srv.Member(ctx, "M1")
	require.NoError(t, err)
	assert.Equal(t, created, loaded)

	missing, err := srv.Member(ctx, "M7")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestService_AssignTasks(t *testing.T) {
	ctx := context.Background()
	srv := newScenario(t)

	ok, err := srv.AssignTasks(ctx, strategy.Greedy)
	require.NoError(t, err)
	assert.True(t, ok)
	assertConsistent(t, srv)

	assignments, err := srv.Assignments(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"T1-M1": 5, "T2-M1": 3, "T3-M2": 4}, hoursByKey(assignments))

	unassigned, err := srv.CountUnassignedTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, unassigned)

	load, err := srv.AverageLoad(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, load, 0.0001)

	// a second run replaces rather than accumulates
	ok, err = srv.AssignTasks(ctx, strategy.Balanced)
	require.NoError(t, err)
	assert.True(t, ok)
	assertConsistent(t, srv)
	assignments, err = srv.Assignments(ctx)
	require.NoError(t, err)
	assert.Len(t, assignments, 3)
}

func TestService_AssignTasks_NoneProduced(t *testing.T) {
	ctx := context.Background()
	srv := newService()
	_, err := srv.CreateTask(ctx, model.NewTask("api", 5, 1, "go"))
	require.NoError(t, err)
	_, err = srv.CreateMember(ctx, model.NewTeamMember("Bob", 8, 1, "java"))
	require.NoError(t, err)

	ok, err := srv.AssignTasks(ctx, strategy.Greedy)
	require.NoError(t, err)
	assert.False(t, ok)
	task, err := srv.Task(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, 5, task.RemainingHours)
}

func TestService_DeleteAssignment(t *testing.T) {
	ctx := context.Background()
	srv := newScenario(t)
	_, err := srv.AssignTasks(ctx, strategy.Greedy)
	require.NoError(t, err)

	before, err := srv.Task(ctx, "T1")
	require.NoError(t, err)
	alice, err := srv.Member(ctx, "M1")
	require.NoError(t, err)

	ok, err := srv.DeleteAssignment(ctx, "T1", "M1")
	require.NoError(t, err)
	assert.True(t, ok)

	after, err := srv.Task(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, before.RemainingHours+5, after.RemainingHours)
	aliceAfter, err := srv.Member(ctx, "M1")
	require.NoError(t, err)
	assert.Equal(t, alice.RemainingHours+5, aliceAfter.RemainingHours)
	assertConsistent(t, srv)

	snapshot, err := srv.Assignments(ctx)
	require.NoError(t, err)
	ok, err = srv.DeleteAssignment(ctx, "T1", "M1")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = srv.DeleteAssignment(ctx, "T9", "M9")
	require.NoError(t, err)
	assert.False(t, ok)
	unchanged, err := srv.Assignments(ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot, unchanged)
}

func TestService_DeleteTask(t *testing.T) {
	ctx := context.Background()
	srv := newScenario(t)
	_, err := srv.AssignTasks(ctx, strategy.Greedy)
	require.NoError(t, err)

	ok, err := srv.DeleteTask(ctx, "T1")
	require.NoError(t, err)
	assert.True(t, ok)

	assignments, err := srv.Assignments(ctx)
	require.NoError(t, err)
	for _, assignment := range assignments {
		assert.NotEqual(t, "T1", assignment.TaskID)
	}
	alice, err := srv.Member(ctx, "M1")
	require.NoError(t, err)
	assert.Equal(t, 5, alice.RemainingHours)
	assertConsistent(t, srv)

	ok, err = srv.DeleteTask(ctx, "T1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_DeleteMember(t *testing.T) {
	ctx := context.Background()
	srv := newScenario(t)
	_, err := srv.AssignTasks(ctx, strategy.Greedy)
	require.NoError(t, err)

	ok, err := srv.DeleteMember(ctx, "M1")
	require.NoError(t, err)
	assert.True(t, ok)

	assignments, err := srv.Assignments(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"T3-M2": 4}, hoursByKey(assignments))
	api, err := srv.Task(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, 5, api.RemainingHours)
	db, err := srv.Task(ctx, "T2")
	require.NoError(t, err)
	assert.Equal(t, 6, db.RemainingHours)
	assertConsistent(t, srv)

	ok, err = srv.DeleteMember(ctx, "M1")
	require.NoError(t, err)
	assert.False(t, ok)
	count, err := srv.CountMembers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestService_UpdateTask(t *testing.T) {
	ctx := context.Background()
	srv := newScenario(t)
	original, err := srv.Task(ctx, "T4")
	require.NoError(t, err)

	ok, err := srv.UpdateTask(ctx, "T4", model.NewTask("ml", 3, 1, "go"), strategy.Greedy)
	require.NoError(t, err)
	assert.True(t, ok)

	updated, err := srv.Task(ctx, "T4")
	require.NoError(t, err)
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)
	assert.Equal(t, []string{"go"}, updated.RequiredSkills)

	assignments, err := srv.Assignments(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"T1-M1": 5, "T4-M1": 3, "T3-M2": 4}, hoursByKey(assignments))
	assertConsistent(t, srv)

	ok, err = srv.UpdateTask(ctx, "T42", model.NewTask("x", 1, 1, "go"), strategy.Greedy)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_UpdateMember(t *testing.T) {
	ctx := context.Background()
	srv := newScenario(t)

	ok, err := srv.UpdateMember(ctx, "M2", model.NewTeamMember("Bob", 10, 1, "java", "python"), strategy.Greedy)
	require.NoError(t, err)
	assert.True(t, ok)

	assignments, err := srv.MemberAssignments(ctx, "M2")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"T4-M2": 3, "T3-M2": 4}, hoursByKey(assignments))
	assertConsistent(t, srv)

	ok, err = srv.UpdateMember(ctx, "M9", model.NewTeamMember("Nobody", 1, 1, "x"), strategy.Greedy)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_AssignTasksToMember(t *testing.T) {
	ctx := context.Background()
	srv := newScenario(t)
	_, err := srv.AssignTasks(ctx, strategy.Greedy)
	require.NoError(t, err)

	_, err = srv.AssignTasksToMember(ctx, "M9", strategy.Greedy)
	assert.ErrorIs(t, err, ErrMemberNotFound)

	// Carol's only candidate task is fully covered
	ok, err := srv.AssignTasksToMember(ctx, "M3", strategy.Greedy)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = srv.DeleteAssignment(ctx, "T1", "M1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = srv.AssignTasksToMember(ctx, "M3", strategy.Balanced)
	require.NoError(t, err)
	assert.True(t, ok)

	assignments, err := srv.Assignments(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"T1-M3": 4, "T2-M1": 3, "T3-M2": 4}, hoursByKey(assignments))
	assertConsistent(t, srv)

	// re-running for the same member replaces its own assignments only
	ok, err = srv.AssignTasksToMember(ctx, "M3", strategy.Greedy)
	require.NoError(t, err)
	assert.True(t, ok)
	assignments, err = srv.Assignments(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"T1-M3": 4, "T2-M1": 3, "T3-M2": 4}, hoursByKey(assignments))
	assertConsistent(t, srv)
}

func TestService_Search(t *testing.T) {
	ctx := context.Background()
	srv := newScenario(t)

	tasks, err := srv.SearchTasks(ctx, "A")
	require.NoError(t, err)
	var names []string
	for _, task := range tasks {
		names = append(names, task.Name)
	}
	assert.Equal(t, []string{"api"}, names)

	tasks, err = srv.SearchTasks(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, tasks)

	members, err := srv.SearchMembers(ctx, "CAR")
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "M3", members[0].ID)

	members, err = srv.SearchMembers(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestService_AverageLoad_NoMembers(t *testing.T) {
	load, err := newService().AverageLoad(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, load)
}

func TestService_ConcurrentAssign(t *testing.T) {
	ctx := context.Background()
	srv := newScenario(t)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			kind := strategy.Greedy
			if i%2 == 1 {
				kind = strategy.Balanced
			}
			switch i % 4 {
			case 3:
				_, err := srv.AssignTasksToMember(ctx, "M3", kind)
				assert.NoError(t, err)
			default:
				_, err := srv.AssignTasks(ctx, kind)
				assert.NoError(t, err)
			}
			_, err := srv.CountUnassignedTasks(ctx)
			assert.NoError(t, err)
			_, err = srv.AverageLoad(ctx)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
	assertConsistent(t, srv)
}

func TestService_Init(t *testing.T) {
	ctx := context.Background()
	baseURL := t.TempDir()
	tasks, err := fs.New(fs.Sub(baseURL, "tasks"), model.TaskKey, dao.WithFilter(criteria.Task))
	require.NoError(t, err)
	members, err := fs.New(fs.Sub(baseURL, "members"), model.MemberKey, dao.WithFilter(criteria.Member))
	require.NoError(t, err)
	assignments, err := fs.New(fs.Sub(baseURL, "assignments"), model.AssignmentKey, dao.WithFilter(criteria.Assignment))
	require.NoError(t, err)
	require.NoError(t, tasks.Save(ctx, &model.Task{ID: "T5", Name: "existing", DurationHours: 2, RemainingHours: 2, Priority: 1, RequiredSkills: []string{"go"}, CreatedAt: time.Now().UTC().Round(0)}))
	require.NoError(t, members.Save(ctx, &model.TeamMember{ID: "M2", Name: "existing", MaxHoursPerDay: 4, RemainingHours: 4, Skills: []string{"go"}, Efficiency: 1}))

	srv := New(tasks, members, assignments)
	require.NoError(t, srv.Init(ctx))

	task, err := srv.CreateTask(ctx, model.NewTask("new", 3, 1, "go"))
	require.NoError(t, err)
	assert.Equal(t, "T6", task.ID)
	member, err := srv.CreateMember(ctx, model.NewTeamMember("new", 4, 1, "go"))
	require.NoError(t, err)
	assert.Equal(t, "M3", member.ID)

	ok, err := srv.AssignTasks(ctx, strategy.Greedy)
	require.NoError(t, err)
	assert.True(t, ok)
	assertConsistent(t, srv)
}

func TestLockSet_Acquire(t *testing.T) {
	locks := &lockSet{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			for _, s := range []scope{writeAll, readUnassigned, readLoad, writeTasks, writeMembers, readAssignments} {
				wg.Add(1)
				go func(s scope) {
					defer wg.Done()
					release := locks.acquire(s)
					release()
				}(s)
			}
		}
		wg.Wait()
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("lock acquisition did not complete")
	}
	release := locks.acquire(writeAll)
	release()
}
