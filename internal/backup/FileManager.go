package backup

import (
	"context"
	"fmt"
	"os"
	"time"

	"acctrack/internal/backup/interfaces"
	"acctrack/internal/models"
	"acctrack/internal/providers"
	"acctrack/internal/services"

	json "github.com/goccy/go-json"
)

type FileManager struct {
	service    services.AccountServiceInterface
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, service services.AccountServiceInterface, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		service:    service,
		logger:     logger,
	}
}

// SaveToFile writes a compressed snapshot of every account. The file is replaced atomically.
func (f *FileManager) SaveToFile(ctx context.Context, fileName string) (int, error) {
	accounts, err := f.service.Snapshot(ctx)
	if err != nil {
		return 0, err
	}

	jsonData, err := json.Marshal(models.Snapshot{
		Version:  models.SnapshotVersion,
		SavedAt:  time.Now().UTC(),
		Accounts: accounts,
	})
	if err != nil {
		return 0, err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return 0, err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return 0, err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return 0, err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return 0, err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return 0, err
	}

	return len(accounts), os.Rename(tmpFile, fileName)
}

func decodeSnapshot(data []byte) ([]models.Account, error) {
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err == nil && snap.Version > 0 {
		if snap.Version > models.SnapshotVersion {
			return nil, fmt.Errorf("unsupported snapshot version %d", snap.Version)
		}
		return snap.Accounts, nil
	}

	// plain array, as exported by the legacy bulk endpoint
	var accounts []models.Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// LoadFromFile restores accounts from a snapshot when the store is empty.
// A missing file is not an error. It reports whether anything was restored.
func (f *FileManager) LoadFromFile(ctx context.Context, fileName string) (bool, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return false, err
	}

	accounts, err := decodeSnapshot(decompressedData)
	if err != nil {
		f.logger.Warnf(providers.TypeApp, "Backup file %s is unreadable: %s", fileName, err)
		return false, err
	}

	restored, err := f.service.Restore(ctx, accounts)
	if err != nil {
		return false, err
	}
	if !restored {
		f.logger.Infof(providers.TypeApp, "Store is not empty, backup %s skipped", fileName)
		return false, nil
	}
	f.logger.Warnf(providers.TypeApp, "Restored %d accounts from %s", len(accounts), fileName)
	return true, nil
}
