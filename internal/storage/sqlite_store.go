package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"acctrack/internal/errs"
	"acctrack/internal/models"
	"acctrack/internal/providers"
	"acctrack/internal/storage/interfaces"
	"acctrack/internal/storage/migrations"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

const (
	maxOpenConns    = 4
	connMaxLifetime = 5 * time.Minute
)

const (
	selectColumns = `SELECT id, name, is_used, last_used_date, created_date, is_old_account FROM accounts`
	queryAll      = selectColumns + ` ORDER BY created_date, id`
	queryOne      = selectColumns + ` WHERE id = ?`
	queryUpsert   = `INSERT INTO accounts (id, name, is_used, last_used_date, created_date, is_old_account)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			is_used = excluded.is_used,
			last_used_date = excluded.last_used_date,
			is_old_account = excluded.is_old_account`
	queryDelete    = `DELETE FROM accounts WHERE id = ?`
	queryDeleteAll = `DELETE FROM accounts`
	queryCount     = `SELECT COUNT(*) FROM accounts`
)

type accountRow struct {
	ID           string       `db:"id"`
	Name         string       `db:"name"`
	IsUsed       bool         `db:"is_used"`
	LastUsedDate sql.NullTime `db:"last_used_date"`
	CreatedDate  time.Time    `db:"created_date"`
	IsOldAccount bool         `db:"is_old_account"`
}

func (r accountRow) toModel() models.Account {
	a := models.Account{
		ID:           r.ID,
		Name:         r.Name,
		IsUsed:       r.IsUsed,
		CreatedDate:  r.CreatedDate,
		IsOldAccount: r.IsOldAccount,
	}
	if r.LastUsedDate.Valid {
		t := r.LastUsedDate.Time
		a.LastUsedDate = &t
	}
	return a
}

func upsertArgs(a models.Account) []any {
	var lastUsed sql.NullTime
	if a.LastUsedDate != nil {
		lastUsed = sql.NullTime{Time: a.LastUsedDate.UTC(), Valid: true}
	}
	return []any{a.ID, a.Name, a.IsUsed, lastUsed, a.CreatedDate.UTC(), a.IsOldAccount}
}

// SQLiteStore keeps accounts in a sqlite table through a pooled sqlx handle.
type SQLiteStore struct {
	db *sqlx.DB
}

func NewSQLiteStore(db *sqlx.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var _ interfaces.AccountStoreInterface = (*SQLiteStore)(nil)

type gooseLogger struct {
	logger providers.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.logger.Infof(providers.TypeApp, format, v...)
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.logger.Fatalf(providers.TypeApp, format, v...)
}

// OpenSQLite opens the database file, checks the connection and applies migrations.
func OpenSQLite(ctx context.Context, path string, timeout time.Duration, logger providers.Logger) (*sqlx.DB, error) {
	if timeout <= 0 {
		timeout = time.Second
	}
	dsn := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL&_txlock=immediate", path, timeout.Milliseconds())

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, errs.Storage("open", err)
	}
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errs.Storage("ping", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err = Migrate(ctx, db.DB, logger); err != nil {
		db.Close()
		return nil, errs.Storage("migrate", err)
	}
	return db, nil
}

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, db *sql.DB, logger providers.Logger) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{logger: logger})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *SQLiteStore) LoadAll(ctx context.Context) ([]models.Account, error) {
	var rows []accountRow
	if err := s.db.SelectContext(ctx, &rows, queryAll); err != nil {
		return nil, errs.Storage("load", err)
	}
	accounts := make([]models.Account, 0, len(rows))
	for _, r := range rows {
		accounts = append(accounts, r.toModel())
	}
	return accounts, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (models.Account, error) {
	var row accountRow
	err := s.db.GetContext(ctx, &row, queryOne, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, errs.ErrNotFound
	}
	if err != nil {
		return models.Account{}, errs.Storage("get", err)
	}
	return row.toModel(), nil
}

func (s *SQLiteStore) inTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errs.Storage(op, err)
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err = tx.Commit(); err != nil {
		return errs.Storage(op, err)
	}
	return nil
}

func upsertTx(ctx context.Context, tx *sqlx.Tx, a models.Account) error {
	if a.ID == "" {
		return errs.Invalid("account id is empty")
	}
	_, err := tx.ExecContext(ctx, queryUpsert, upsertArgs(a)...)
	return err
}

func (s *SQLiteStore) Upsert(ctx context.Context, accounts ...models.Account) error {
	if len(accounts) == 0 {
		return nil
	}
	return s.inTx(ctx, "upsert", func(tx *sqlx.Tx) error {
		for _, a := range accounts {
			if err := upsertTx(ctx, tx, a); err != nil {
				return errs.Storage("upsert", err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Modify(ctx context.Context, id string, fn func(*models.Account) error) (models.Account, error) {
	var result models.Account
	err := s.inTx(ctx, "modify", func(tx *sqlx.Tx) error {
		var row accountRow
		err := tx.GetContext(ctx, &row, queryOne, id)
		if errors.Is(err, sql.ErrNoRows) {
			return errs.ErrNotFound
		}
		if err != nil {
			return errs.Storage("modify", err)
		}
		current := row.toModel()
		result = current
		next := current.Clone()
		if err := fn(&next); err != nil {
			return err
		}
		next.ID = current.ID
		next.CreatedDate = current.CreatedDate
		if err := upsertTx(ctx, tx, next); err != nil {
			return errs.Storage("modify", err)
		}
		result = next
		return nil
	})
	if err != nil && !errors.Is(err, errs.ErrNotFound) && !errs.IsStorage(err) {
		// fn rejected the change; hand back the untouched record
		return result, err
	}
	if err != nil {
		return models.Account{}, err
	}
	return result, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, queryDelete, id)
	if err != nil {
		return errs.Storage("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errs.Storage("delete", err)
	}
	if n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ReplaceAll(ctx context.Context, accounts []models.Account) error {
	return s.inTx(ctx, "replace", func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, queryDeleteAll); err != nil {
			return errs.Storage("replace", err)
		}
		for _, a := range accounts {
			if err := upsertTx(ctx, tx, a); err != nil {
				return errs.Storage("replace", err)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, queryCount); err != nil {
		return 0, errs.Storage("count", err)
	}
	return n, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
