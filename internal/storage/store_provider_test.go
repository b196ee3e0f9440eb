package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"acctrack/internal/errs"
	"acctrack/internal/models"
	"acctrack/internal/structures"
	"acctrack/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccountStore_Bolt(t *testing.T) {
	conf := &structures.Config{
		Storage: structures.StorageConfig{
			Driver:  DriverBolt,
			Path:    filepath.Join(t.TempDir(), "nested", "accounts.db"),
			Timeout: time.Second,
		},
	}
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()

	store, cleanup, err := NewAccountStore(conf, logger, metrics)
	require.NoError(t, err)
	defer cleanup()

	_, ok := store.(*InstrumentedStore)
	assert.True(t, ok)

	require.NoError(t, store.Upsert(context.Background(), models.NewAccount("a", "alpha", time.Now())))
	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"upsert", "count"}, metrics.StorageOps)
	assert.Equal(t, 1, logger.Count("info"))
}

func TestNewAccountStore_SQLite(t *testing.T) {
	conf := &structures.Config{
		Storage: structures.StorageConfig{
			Driver:  DriverSQLite,
			Path:    filepath.Join(t.TempDir(), "accounts.sqlite"),
			Timeout: time.Second,
		},
	}

	store, cleanup, err := NewAccountStore(conf, &testutil.MockLogger{}, testutil.NewMockMetrics())
	require.NoError(t, err)
	defer cleanup()

	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := models.NewAccount("a", "alpha", base)
	a.IsOldAccount = true
	a.MarkUsed(base.Add(20 * 24 * time.Hour))
	require.NoError(t, store.Upsert(ctx, a, models.NewAccount("b", "beta", base.Add(time.Hour))))

	accounts, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.True(t, a.Equal(accounts[0]))
	assert.Equal(t, "b", accounts[1].ID)

	got, err := store.Modify(ctx, "a", func(acc *models.Account) error {
		acc.MarkUnused()
		return nil
	})
	require.NoError(t, err)
	assert.False(t, got.IsUsed)
	assert.Nil(t, got.LastUsedDate)
}

func TestNewAccountStore_UnknownDriver(t *testing.T) {
	conf := &structures.Config{
		Storage: structures.StorageConfig{
			Driver: "mongo",
			Path:   filepath.Join(t.TempDir(), "accounts.db"),
		},
	}
	_, _, err := NewAccountStore(conf, &testutil.MockLogger{}, testutil.NewMockMetrics())
	assert.Error(t, err)
}

func TestInstrumentedStore_PassesErrorsThrough(t *testing.T) {
	inner := testutil.NewMockStore()
	inner.LoadErr = errs.Storage("load", errors.New("io"))
	metrics := testutil.NewMockMetrics()
	store := NewInstrumentedStore(inner, metrics)

	_, err := store.LoadAll(context.Background())
	assert.True(t, errs.IsStorage(err))

	_, err = store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	assert.Equal(t, []string{"load", "get"}, metrics.StorageOps)
}
