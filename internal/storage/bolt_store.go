package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"acctrack/internal/errs"
	"acctrack/internal/models"
	"acctrack/internal/storage/interfaces"

	json "github.com/goccy/go-json"
	"go.etcd.io/bbolt"
)

var accountsBucket = []byte("accounts")

// BoltStore keeps one JSON document per account in a bbolt bucket keyed by id.
// Every call runs in its own transaction.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string, timeout time.Duration) (*BoltStore, error) {
	if timeout <= 0 {
		timeout = time.Second
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: timeout})
	if err != nil {
		return nil, errs.Storage("open", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(accountsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errs.Storage("open", err)
	}

	return &BoltStore{db: db}, nil
}

var _ interfaces.AccountStoreInterface = (*BoltStore)(nil)

func encodeAccount(a models.Account) ([]byte, error) {
	return json.Marshal(a)
}

func decodeAccount(data []byte) (models.Account, error) {
	var a models.Account
	err := json.Unmarshal(data, &a)
	return a, err
}

func sortAccounts(accounts []models.Account) {
	sort.SliceStable(accounts, func(i, j int) bool {
		if !accounts[i].CreatedDate.Equal(accounts[j].CreatedDate) {
			return accounts[i].CreatedDate.Before(accounts[j].CreatedDate)
		}
		return accounts[i].ID < accounts[j].ID
	})
}

func putAccount(b *bbolt.Bucket, a models.Account) error {
	if a.ID == "" {
		return errs.Invalid("account id is empty")
	}
	data, err := encodeAccount(a)
	if err != nil {
		return err
	}
	return b.Put([]byte(a.ID), data)
}

func (s *BoltStore) LoadAll(ctx context.Context) ([]models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Storage("load", err)
	}
	accounts := make([]models.Account, 0)
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(accountsBucket).ForEach(func(k, v []byte) error {
			a, err := decodeAccount(v)
			if err != nil {
				return fmt.Errorf("decode %s: %w", k, err)
			}
			accounts = append(accounts, a)
			return nil
		})
	})
	if err != nil {
		return nil, errs.Storage("load", err)
	}
	sortAccounts(accounts)
	return accounts, nil
}

func (s *BoltStore) Get(ctx context.Context, id string) (models.Account, error) {
	if err := ctx.Err(); err != nil {
		return models.Account{}, errs.Storage("get", err)
	}
	var a models.Account
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(accountsBucket).Get([]byte(id))
		if data == nil {
			return errs.ErrNotFound
		}
		var err error
		a, err = decodeAccount(data)
		return err
	})
	if err != nil {
		return models.Account{}, errs.Storage("get", err)
	}
	return a, nil
}

func (s *BoltStore) Upsert(ctx context.Context, accounts ...models.Account) error {
	if len(accounts) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return errs.Storage("upsert", err)
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(accountsBucket)
		for _, a := range accounts {
			if err := putAccount(b, a); err != nil {
				return err
			}
		}
		return nil
	})
	return errs.Storage("upsert", err)
}

func (s *BoltStore) Modify(ctx context.Context, id string, fn func(*models.Account) error) (models.Account, error) {
	if err := ctx.Err(); err != nil {
		return models.Account{}, errs.Storage("modify", err)
	}
	var (
		result models.Account
		fnErr  error
	)
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(accountsBucket)
		data := b.Get([]byte(id))
		if data == nil {
			return errs.ErrNotFound
		}
		current, err := decodeAccount(data)
		if err != nil {
			return err
		}
		result = current
		next := current.Clone()
		if fnErr = fn(&next); fnErr != nil {
			return fnErr
		}
		next.ID = current.ID
		next.CreatedDate = current.CreatedDate
		if err := putAccount(b, next); err != nil {
			return err
		}
		result = next
		return nil
	})
	if fnErr != nil {
		return result, fnErr
	}
	if err != nil {
		return models.Account{}, errs.Storage("modify", err)
	}
	return result, nil
}

func (s *BoltStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return errs.Storage("delete", err)
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(accountsBucket)
		if b.Get([]byte(id)) == nil {
			return errs.ErrNotFound
		}
		return b.Delete([]byte(id))
	})
	return errs.Storage("delete", err)
}

func (s *BoltStore) ReplaceAll(ctx context.Context, accounts []models.Account) error {
	if err := ctx.Err(); err != nil {
		return errs.Storage("replace", err)
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(accountsBucket); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return err
		}
		b, err := tx.CreateBucket(accountsBucket)
		if err != nil {
			return err
		}
		for _, a := range accounts {
			if err := putAccount(b, a); err != nil {
				return err
			}
		}
		return nil
	})
	return errs.Storage("replace", err)
}

func (s *BoltStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, errs.Storage("count", err)
	}
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(accountsBucket).Stats().KeyN
		return nil
	})
	if err != nil {
		return 0, errs.Storage("count", err)
	}
	return n, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
