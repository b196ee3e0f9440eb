package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"acctrack/internal/errs"
	"acctrack/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoltStore(t *testing.T) *BoltStore {
	store, err := NewBoltStore(filepath.Join(t.TempDir(), "accounts.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestBoltStore_UpsertAndLoadOrdered(t *testing.T) {
	store := newTestBoltStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Upsert(ctx,
		models.NewAccount("c", "gamma", base.Add(time.Hour)),
		models.NewAccount("b", "beta", base),
		models.NewAccount("a", "alpha", base),
	))

	accounts, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, "a", accounts[0].ID)
	assert.Equal(t, "b", accounts[1].ID)
	assert.Equal(t, "c", accounts[2].ID)
}

func TestBoltStore_LoadAllEmpty(t *testing.T) {
	store := newTestBoltStore(t)
	accounts, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, accounts)
	assert.Empty(t, accounts)
}

func TestBoltStore_GetRoundTripsLastUsedDate(t *testing.T) {
	store := newTestBoltStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	a := models.NewAccount("a", "alpha", base)
	a.IsOldAccount = true
	a.MarkUsed(base.Add(15 * 24 * time.Hour))
	require.NoError(t, store.Upsert(ctx, a))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, a.Equal(got))

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestBoltStore_UpsertRejectsEmptyID(t *testing.T) {
	store := newTestBoltStore(t)
	err := store.Upsert(context.Background(), models.NewAccount("", "x", time.Now()))
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestBoltStore_Modify(t *testing.T) {
	store := newTestBoltStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Upsert(ctx, models.NewAccount("a", "alpha", base)))

	got, err := store.Modify(ctx, "a", func(a *models.Account) error {
		a.IsOldAccount = true
		a.ID = "hijack"
		a.CreatedDate = base.Add(time.Hour)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)
	assert.True(t, got.CreatedDate.Equal(base))
	assert.True(t, got.IsOldAccount)

	stored, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, stored.IsOldAccount)

	_, err = store.Get(ctx, "hijack")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestBoltStore_ModifyCallbackErrorLeavesRecord(t *testing.T) {
	store := newTestBoltStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Upsert(ctx, models.NewAccount("a", "alpha", base)))

	got, err := store.Modify(ctx, "a", func(a *models.Account) error {
		a.Name = "changed"
		return errs.ErrNotEligible
	})
	assert.ErrorIs(t, err, errs.ErrNotEligible)
	assert.False(t, errs.IsStorage(err))
	assert.Equal(t, "alpha", got.Name)

	stored, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "alpha", stored.Name)

	_, err = store.Modify(ctx, "missing", func(*models.Account) error { return nil })
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestBoltStore_DeleteReplaceCount(t *testing.T) {
	store := newTestBoltStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Upsert(ctx,
		models.NewAccount("a", "alpha", base),
		models.NewAccount("b", "beta", base)))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, store.Delete(ctx, "a"))
	assert.ErrorIs(t, store.Delete(ctx, "a"), errs.ErrNotFound)

	require.NoError(t, store.ReplaceAll(ctx, []models.Account{
		models.NewAccount("x", "x", base),
		models.NewAccount("y", "y", base),
		models.NewAccount("z", "z", base),
	}))
	accounts, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, "x", accounts[0].ID)

	require.NoError(t, store.ReplaceAll(ctx, nil))
	n, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBoltStore_CancelledContext(t *testing.T) {
	store := newTestBoltStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.LoadAll(ctx)
	assert.True(t, errs.IsStorage(err))
}

func TestBoltStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.db")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	store, err := NewBoltStore(path, time.Second)
	require.NoError(t, err)
	require.NoError(t, store.Upsert(context.Background(), models.NewAccount("a", "alpha", base)))
	require.NoError(t, store.Close())

	store, err = NewBoltStore(path, time.Second)
	require.NoError(t, err)
	defer store.Close()
	got, err := store.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "alpha", got.Name)
}
