package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urjaconsultants/lead-pipeline/internal/apperrors"
	"github.com/urjaconsultants/lead-pipeline/internal/model"
)

func TestMemoryRepo_AppendAndFind(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	leads := []model.Lead{
		{ID: "lead-1", ConsumerNumber: "CN-1"},
		{ID: "lead-2", ConsumerNumber: "CN-2"},
	}
	require.NoError(t, repo.AppendLeads(ctx, leads))

	found, err := repo.FindByID(ctx, "lead-2")
	require.NoError(t, err)
	assert.Equal(t, "CN-2", found.ConsumerNumber)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "lead-1", all[0].ID, "insertion order preserved")
}

func TestMemoryRepo_AppendDuplicate(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, model.Lead{ID: "lead-1"}))
	err := repo.AppendLeads(ctx, []model.Lead{{ID: "lead-1"}})
	assert.True(t, apperrors.IsDuplicateError(err))
}

func TestMemoryRepo_UpdateAndRemove(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, model.Lead{ID: "lead-1", ClientName: "Before"}))
	require.NoError(t, repo.Update(ctx, model.Lead{ID: "lead-1", ClientName: "After"}))

	found, err := repo.FindByID(ctx, "lead-1")
	require.NoError(t, err)
	assert.Equal(t, "After", found.ClientName)

	require.NoError(t, repo.Remove(ctx, "lead-1"))
	_, err = repo.FindByID(ctx, "lead-1")
	assert.True(t, apperrors.IsNotFoundError(err))

	assert.True(t, apperrors.IsNotFoundError(repo.Update(ctx, model.Lead{ID: "lead-1"})))
	assert.True(t, apperrors.IsNotFoundError(repo.Remove(ctx, "lead-1")))
}

func TestMemoryRepo_RemoveReindexes(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLeads(ctx, []model.Lead{
		{ID: "lead-1"}, {ID: "lead-2"}, {ID: "lead-3"},
	}))
	require.NoError(t, repo.Remove(ctx, "lead-1"))

	found, err := repo.FindByID(ctx, "lead-3")
	require.NoError(t, err)
	assert.Equal(t, "lead-3", found.ID)
}

func TestMemoryRepo_FindAllReturnsCopy(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, model.Lead{ID: "lead-1", ClientName: "Original"}))
	all, err := repo.FindAll(ctx)
	require.NoError(t, err)

	all[0].ClientName = "Mutated"
	found, err := repo.FindByID(ctx, "lead-1")
	require.NoError(t, err)
	assert.Equal(t, "Original", found.ClientName)
}

func TestMemoryKV(t *testing.T) {
	kv := NewMemoryKV()
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	assert.True(t, apperrors.IsNotFoundError(err))

	require.NoError(t, kv.Set(ctx, "k", []byte("v1")))
	require.NoError(t, kv.Set(ctx, "k", []byte("v2")))

	value, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), value)
}
