package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/tasksched/model"
	"github.com/viant/tasksched/service/dao"
	"github.com/viant/tasksched/service/dao/criteria"
)

func newTaskStore() *MemoryStore[string, model.Task] {
	return NewMemoryStore(model.TaskKey, dao.WithClone((*model.Task).Clone), dao.WithFilter(criteria.Task))
}

func TestMemoryStore_CRUD(t *testing.T) {
	ctx := context.Background()
	srv := newTaskStore()

	task := model.NewTask("parser", 5, 1, "go")
	task.ID = "T1"
	require.NoError(t, srv.Save(ctx, task))

	task.Name = "mutated"
	loaded, err := srv.Load(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, "parser", loaded.Name)

	loaded.RequiredSkills[0] = "java"
	again, err := srv.Load(ctx, "T1")
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, again.RequiredSkills)

	_, err = srv.Load(ctx, "T9")
	assert.ErrorIs(t, err, dao.ErrNotFound)

	again.Name = "lexer"
	require.NoError(t, srv.Update(ctx, again))
	missing := &model.Task{ID: "T9"}
	assert.ErrorIs(t, srv.Update(ctx, missing), dao.ErrNotFound)

	require.NoError(t, srv.Delete(ctx, "T1"))
	assert.ErrorIs(t, srv.Delete(ctx, "T1"), dao.ErrNotFound)
}

func TestMemoryStore_InvalidInput(t *testing.T) {
	ctx := context.Background()
	srv := newTaskStore()
	assert.ErrorIs(t, srv.Save(ctx, nil), dao.ErrNilEntity)
	assert.ErrorIs(t, srv.Save(ctx, &model.Task{}), dao.ErrInvalidID)
	assert.ErrorIs(t, srv.SaveAll(ctx, []*model.Task{{ID: "T1"}, {}}), dao.ErrInvalidID)
	items, err := srv.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMemoryStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	srv := newTaskStore()
	require.NoError(t, srv.SaveAll(ctx, []*model.Task{
		{ID: "T1", Name: "Parser"},
		{ID: "T2", Name: "Lexer"},
		{ID: "T3", Name: "parse tree"},
	}))

	items, err := srv.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 3)

	items, err = srv.List(ctx, dao.NewParameter(dao.NameParameter, "pars"))
	require.NoError(t, err)
	assert.Len(t, items, 2)

	count, err := srv.DeleteIf(ctx, func(task *model.Task) bool { return task.ID != "T2" })
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	items, err = srv.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "T2", items[0].ID)

	require.NoError(t, srv.DeleteAll(ctx))
	items, err = srv.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}
