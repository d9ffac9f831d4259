// Package store is the transactional persistence layer. It wraps an injected
// *gorm.DB and exposes generic CRUD helpers over the entity models.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrUniqueViolation is returned when an insert or update hits a unique index.
	ErrUniqueViolation = errors.New("store: unique constraint violation")
	// ErrLockTimeout is returned when a row lock could not be acquired in time.
	ErrLockTimeout = errors.New("store: lock wait timeout")
)

const (
	pgUniqueViolation   = "23505"
	pgLockNotAvailable  = "55P03"
	pgQueryCanceled     = "57014"
	dialectPostgres     = "postgres"
	defaultOrderColumns = "created_at, id"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle, bound to the current transaction if any.
func (s *Store) DB() *gorm.DB { return s.db }

// Transaction runs fn inside a database transaction. The transaction commits
// when fn returns nil and rolls back on error or panic.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// SetLockTimeout bounds how long row locks inside the current transaction may
// wait. Only postgres supports a per-transaction lock timeout.
func (s *Store) SetLockTimeout(ctx context.Context, d time.Duration) error {
	if d <= 0 || s.db.Dialector.Name() != dialectPostgres {
		return nil
	}
	stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", d.Milliseconds())
	if err := s.db.WithContext(ctx).Exec(stmt).Error; err != nil {
		return wrap("set lock timeout", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// QueryOption adjusts a read query, e.g. to preload a relation.
type QueryOption func(*gorm.DB) *gorm.DB

// Preload fetches the named association together with the record.
func Preload(association string) QueryOption {
	return func(db *gorm.DB) *gorm.DB { return db.Preload(association) }
}

// Where narrows a list query.
func Where(column string, value any) QueryOption {
	return func(db *gorm.DB) *gorm.DB { return db.Where(map[string]any{column: value}) }
}

func (s *Store) query(ctx context.Context, opts []QueryOption) *gorm.DB {
	db := s.db.WithContext(ctx)
	for _, opt := range opts {
		db = opt(db)
	}
	return db
}

func Create[T any](ctx context.Context, s *Store, rec *T) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return wrap(fmt.Sprintf("create %T", rec), err)
	}
	return nil
}

// GetByID returns the record with the given id, or nil when there is none.
func GetByID[T any](ctx context.Context, s *Store, id string, opts ...QueryOption) (*T, error) {
	return first[T](s.query(ctx, opts).Where("id = ?", id))
}

// GetByField returns the first record whose column equals value, or nil.
func GetByField[T any](ctx context.Context, s *Store, column string, value any, opts ...QueryOption) (*T, error) {
	return first[T](s.query(ctx, opts).Where(map[string]any{column: value}))
}

// LockByID reads the record with an exclusive row lock held until the
// surrounding transaction ends. It must run inside Transaction.
func LockByID[T any](ctx context.Context, s *Store, id string) (*T, error) {
	return first[T](s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

func ListAll[T any](ctx context.Context, s *Store, opts ...QueryOption) ([]T, error) {
	var recs []T
	if err := s.query(ctx, opts).Order(defaultOrderColumns).Find(&recs).Error; err != nil {
		return nil, wrap("list", err)
	}
	return recs, nil
}

func Count[T any](ctx context.Context, s *Store, opts ...QueryOption) (int64, error) {
	var n int64
	if err := s.query(ctx, opts).Model(new(T)).Count(&n).Error; err != nil {
		return 0, wrap("count", err)
	}
	return n, nil
}

// Update writes only the given columns and always refreshes updated_at. The
// record is reloaded afterwards so callers see the stored state.
func Update[T any](ctx context.Context, s *Store, rec *T, fields map[string]any) error {
	values := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		values[k] = v
	}
	values["updated_at"] = time.Now()

	db := s.db.WithContext(ctx)
	if err := db.Model(rec).Updates(values).Error; err != nil {
		return wrap(fmt.Sprintf("update %T", rec), err)
	}
	if err := db.First(rec).Error; err != nil {
		return wrap(fmt.Sprintf("reload %T", rec), err)
	}
	return nil
}

func Delete[T any](ctx context.Context, s *Store, rec *T) error {
	if err := s.db.WithContext(ctx).Delete(rec).Error; err != nil {
		return wrap(fmt.Sprintf("delete %T", rec), err)
	}
	return nil
}

func first[T any](db *gorm.DB) (*T, error) {
	var rec T
	err := db.Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get", err)
	}
	return &rec, nil
}

func wrap(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("store: %s: %w", op, ErrUniqueViolation)
	case isLockTimeout(err):
		return fmt.Errorf("store: %s: %w", op, ErrLockTimeout)
	}
	return fmt.Errorf("store: %s: %w", op, err)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func isLockTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgLockNotAvailable || pgErr.Code == pgQueryCanceled
	}
	return false
}
