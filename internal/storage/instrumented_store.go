package storage

import (
	"context"
	"time"

	"acctrack/internal/models"
	"acctrack/internal/providers"
	"acctrack/internal/storage/interfaces"
)

// InstrumentedStore times every store call.
type InstrumentedStore struct {
	inner   interfaces.AccountStoreInterface
	metrics providers.MetricsProviderInterface
}

func NewInstrumentedStore(inner interfaces.AccountStoreInterface, metrics providers.MetricsProviderInterface) *InstrumentedStore {
	return &InstrumentedStore{inner: inner, metrics: metrics}
}

func (s *InstrumentedStore) observe(op string, start time.Time) {
	s.metrics.ObserveStorageDuration(op, time.Since(start))
}

func (s *InstrumentedStore) LoadAll(ctx context.Context) ([]models.Account, error) {
	defer s.observe("load", time.Now())
	return s.inner.LoadAll(ctx)
}

func (s *InstrumentedStore) Get(ctx context.Context, id string) (models.Account, error) {
	defer s.observe("get", time.Now())
	return s.inner.Get(ctx, id)
}

func (s *InstrumentedStore) Upsert(ctx context.Context, accounts ...models.Account) error {
	defer s.observe("upsert", time.Now())
	return s.inner.Upsert(ctx, accounts...)
}

func (s *InstrumentedStore) Modify(ctx context.Context, id string, fn func(*models.Account) error) (models.Account, error) {
	defer s.observe("modify", time.Now())
	return s.inner.Modify(ctx, id, fn)
}

func (s *InstrumentedStore) Delete(ctx context.Context, id string) error {
	defer s.observe("delete", time.Now())
	return s.inner.Delete(ctx, id)
}

func (s *InstrumentedStore) ReplaceAll(ctx context.Context, accounts []models.Account) error {
	defer s.observe("replace", time.Now())
	return s.inner.ReplaceAll(ctx, accounts)
}

func (s *InstrumentedStore) Count(ctx context.Context) (int, error) {
	defer s.observe("count", time.Now())
	return s.inner.Count(ctx)
}

func (s *InstrumentedStore) Close() error {
	return s.inner.Close()
}
