package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"acctrack/internal/providers"
	"acctrack/internal/storage/interfaces"
	"acctrack/internal/structures"
)

const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
)

// NewAccountStore opens the configured driver. The returned cleanup closes it.
func NewAccountStore(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) (interfaces.AccountStoreInterface, func(), error) {
	if err := os.MkdirAll(filepath.Dir(conf.Storage.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("unable to create storage dir: %w", err)
	}

	var store interfaces.AccountStoreInterface
	switch conf.Storage.Driver {
	case DriverBolt, "":
		bolt, err := NewBoltStore(conf.Storage.Path, conf.Storage.Timeout)
		if err != nil {
			return nil, nil, err
		}
		store = bolt
	case DriverSQLite:
		db, err := OpenSQLite(context.Background(), conf.Storage.Path, conf.Storage.Timeout, logger)
		if err != nil {
			return nil, nil, err
		}
		store = NewSQLiteStore(db)
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}

	logger.Infof(providers.TypeApp, "Account store opened: driver=%s path=%s", conf.Storage.Driver, conf.Storage.Path)

	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Errorf(providers.TypeApp, "Error while closing account store: %s", err)
		}
	}
	return NewInstrumentedStore(store, metrics), cleanup, nil
}
