package interfaces

import (
	"context"

	"acctrack/internal/models"
)

// AccountStoreInterface is a per-record account store keyed by id.
// Infrastructure failures are reported as *errs.StorageError.
type AccountStoreInterface interface {
	// LoadAll returns every account ordered by creation date, then id.
	LoadAll(ctx context.Context) ([]models.Account, error)
	Get(ctx context.Context, id string) (models.Account, error)
	// Upsert inserts or replaces all given accounts in one transaction.
	Upsert(ctx context.Context, accounts ...models.Account) error
	// Modify runs fn against the stored record inside one transaction. Nothing is
	// written when fn returns an error, which is passed through unchanged.
	Modify(ctx context.Context, id string, fn func(*models.Account) error) (models.Account, error)
	Delete(ctx context.Context, id string) error
	// ReplaceAll overwrites the whole collection in one transaction.
	ReplaceAll(ctx context.Context, accounts []models.Account) error
	Count(ctx context.Context) (int, error)
	Close() error
}
