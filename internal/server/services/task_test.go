package services

import (
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/tasktracker/internal/common"
	"github.com/dmitrijs2005/tasktracker/internal/server/models"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskService(t *testing.T) *TaskService {
	t.Helper()
	return NewTaskService(newMemoryPool(t), repomanager.NewInMemoryRepositoryManager())
}

func TestValidTitle(t *testing.T) {
	assert.False(t, ValidTitle(""))
	assert.True(t, ValidTitle("x"))
	assert.True(t, ValidTitle(strings.Repeat("é", models.TitleMaxLength)))
	assert.False(t, ValidTitle(strings.Repeat("a", models.TitleMaxLength+1)))
}

func TestTaskService_Create(t *testing.T) {
	s := newTaskService(t)
	ctx := context.Background()

	task, err := s.Create(ctx, "alice", "  Buy milk ", strPtr("  2 liters "))
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", task.Title)
	require.NotNil(t, task.Description)
	assert.Equal(t, "2 liters", *task.Description)
	assert.Equal(t, "alice", task.UserID)
	assert.False(t, task.Completed)

	noDesc, err := s.Create(ctx, "alice", "t", nil)
	require.NoError(t, err)
	assert.Nil(t, noDesc.Description)

	_, err = s.Create(ctx, "alice", "   ", nil)
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestTaskService_ListGetScopedByOwner(t *testing.T) {
	s := newTaskService(t)
	ctx := context.Background()

	first, err := s.Create(ctx, "alice", "first", nil)
	require.NoError(t, err)
	second, err := s.Create(ctx, "alice", "second", nil)
	require.NoError(t, err)
	bobs, err := s.Create(ctx, "bob", "bob", nil)
	require.NoError(t, err)

	list, err := s.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)

	got, err := s.Get(ctx, first.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "first", got.Title)

	_, err = s.Get(ctx, bobs.ID, "alice")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestTaskService_Update(t *testing.T) {
	s := newTaskService(t)
	ctx := context.Background()

	task, err := s.Create(ctx, "alice", "t", strPtr("d"))
	require.NoError(t, err)

	upd, err := s.Update(ctx, task.ID, "alice", models.TaskPatch{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, upd.Completed)
	assert.Equal(t, "t", upd.Title)
	assert.Equal(t, "d", *upd.Description)

	upd, err = s.Update(ctx, task.ID, "alice", models.TaskPatch{Title: strPtr(" renamed ")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", upd.Title)
	assert.True(t, upd.Completed)

	_, err = s.Update(ctx, task.ID, "alice", models.TaskPatch{Title: strPtr("  ")})
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = s.Update(ctx, task.ID, "bob", models.TaskPatch{Completed: boolPtr(false)})
	assert.ErrorIs(t, err, common.ErrorNotFound)

	got, err := s.Get(ctx, task.ID, "alice")
	require.NoError(t, err)
	assert.True(t, got.Completed)
}

func TestTaskService_Delete(t *testing.T) {
	s := newTaskService(t)
	ctx := context.Background()

	task, err := s.Create(ctx, "alice", "t", nil)
	require.NoError(t, err)

	_, err = s.Delete(ctx, task.ID, "bob")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	del, err := s.Delete(ctx, task.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, task.ID, del.ID)

	_, err = s.Delete(ctx, task.ID, "alice")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestTaskService_PoolUnavailable(t *testing.T) {
	s := NewTaskService(newClosedPool(t), repomanager.NewInMemoryRepositoryManager())

	_, err := s.List(context.Background(), "alice")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acquire connection")
}
