package backup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"acctrack/internal/models"
	"acctrack/internal/services"
	"acctrack/internal/structures"
	"acctrack/internal/testutil"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testConfig(filePath string) *structures.Config {
	return &structures.Config{
		Lifecycle: structures.LifecycleConfig{
			AgingDays:     14,
			ResetDays:     30,
			SweepInterval: time.Second,
		},
		Backup: structures.BackupConfig{
			Enabled:  true,
			FilePath: filePath,
			Interval: time.Second,
		},
	}
}

func newTestService(store *testutil.MockStore) services.AccountServiceInterface {
	return services.NewAccountService(testConfig(""), &testutil.MockLogger{}, store, testutil.NewMockMetrics())
}

func TestFileManager_SaveToFile_WritesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.bak")
	store := testutil.NewMockStore(
		models.NewAccount("a", "alpha", created),
		models.NewAccount("b", "beta", created.Add(time.Hour)),
	)
	fm := NewFileManager(&testutil.MockCompressor{}, newTestService(store), &testutil.MockLogger{})

	n, err := fm.SaveToFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var snap models.Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	assert.Equal(t, models.SnapshotVersion, snap.Version)
	require.Len(t, snap.Accounts, 2)
	assert.Equal(t, "a", snap.Accounts[0].ID)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileManager_SaveToFile_CompressError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.bak")
	comp := &testutil.MockCompressor{
		CompressFn: func([]byte) ([]byte, error) { return nil, errors.New("compress failed") },
	}
	fm := NewFileManager(comp, newTestService(testutil.NewMockStore()), &testutil.MockLogger{})

	_, err := fm.SaveToFile(context.Background(), path)
	assert.EqualError(t, err, "compress failed")
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileManager_SaveToFile_InvalidPath(t *testing.T) {
	fm := NewFileManager(&testutil.MockCompressor{}, newTestService(testutil.NewMockStore()), &testutil.MockLogger{})
	_, err := fm.SaveToFile(context.Background(), filepath.Join(t.TempDir(), "missing", "dir", "accounts.bak"))
	assert.Error(t, err)
}

func TestFileManager_SaveToFile_StoreError(t *testing.T) {
	store := testutil.NewMockStore()
	store.LoadErr = errors.New("io")
	fm := NewFileManager(&testutil.MockCompressor{}, newTestService(store), &testutil.MockLogger{})

	_, err := fm.SaveToFile(context.Background(), filepath.Join(t.TempDir(), "accounts.bak"))
	assert.Error(t, err)
}

func TestFileManager_LoadFromFile_MissingFile(t *testing.T) {
	fm := NewFileManager(&testutil.MockCompressor{}, newTestService(testutil.NewMockStore()), &testutil.MockLogger{})
	restored, err := fm.LoadFromFile(context.Background(), filepath.Join(t.TempDir(), "nope.bak"))
	require.NoError(t, err)
	assert.False(t, restored)
}

func TestFileManager_RoundTripIntoEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.bak")
	comp, err := NewZstdCompressor()
	require.NoError(t, err)

	used := models.NewAccount("a", "alpha", created)
	used.IsOldAccount = true
	used.MarkUsed(created.Add(20 * 24 * time.Hour))
	source := testutil.NewMockStore(used, models.NewAccount("b", "beta", created))

	_, err = NewFileManager(comp, newTestService(source), &testutil.MockLogger{}).SaveToFile(context.Background(), path)
	require.NoError(t, err)

	target := testutil.NewMockStore()
	fm := NewFileManager(comp, newTestService(target), &testutil.MockLogger{})
	restored, err := fm.LoadFromFile(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, restored)
	require.Len(t, target.Data, 2)
	assert.True(t, used.Equal(target.Data["a"]))
}

func TestFileManager_LoadFromFile_SkipsNonEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.bak")
	data, err := json.Marshal(models.Snapshot{
		Version:  models.SnapshotVersion,
		Accounts: []models.Account{models.NewAccount("b", "beta", created)},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	store := testutil.NewMockStore(models.NewAccount("a", "alpha", created))
	logger := &testutil.MockLogger{}
	fm := NewFileManager(&testutil.MockCompressor{}, newTestService(store), logger)

	restored, err := fm.LoadFromFile(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, restored)
	assert.NotContains(t, store.Data, "b")
}

func TestFileManager_LoadFromFile_PlainArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	data, err := json.Marshal([]models.Account{models.NewAccount("a", "alpha", created)})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	store := testutil.NewMockStore()
	fm := NewFileManager(&testutil.MockCompressor{}, newTestService(store), &testutil.MockLogger{})

	restored, err := fm.LoadFromFile(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, restored)
	assert.Contains(t, store.Data, "a")
}

func TestFileManager_LoadFromFile_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		payload string
		comp    *testutil.MockCompressor
	}{
		{"garbage", "not json at all", &testutil.MockCompressor{}},
		{"future version", `{"version":99,"accounts":[]}`, &testutil.MockCompressor{}},
		{"invalid account", `[{"id":"","name":"x","createdDate":"2024-03-01T12:00:00Z"}]`, &testutil.MockCompressor{}},
		{"decompress", "{}", &testutil.MockCompressor{
			DecompressFn: func([]byte) ([]byte, error) { return nil, errors.New("corrupt") },
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".bak")
			require.NoError(t, os.WriteFile(path, []byte(tt.payload), 0644))

			store := testutil.NewMockStore()
			fm := NewFileManager(tt.comp, newTestService(store), &testutil.MockLogger{})
			restored, err := fm.LoadFromFile(context.Background(), path)
			assert.Error(t, err)
			assert.False(t, restored)
			assert.Empty(t, store.Data)
		})
	}
}
