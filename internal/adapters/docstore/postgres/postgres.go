// Package postgres stores bulk documents in a Postgres jsonb table.
package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"

	"github.com/vshulcz/elasticreport/internal/domain"
	"github.com/vshulcz/elasticreport/internal/misc"
	"github.com/vshulcz/elasticreport/internal/ports"
)

const (
	insertQuery = `INSERT INTO documents (idx, doc_type, source) VALUES ($1, $2, $3)`
	countQuery  = `SELECT count(*) FROM documents WHERE idx=$1`
)

// Store persists documents with retryable operations.
type Store struct {
	db    *sql.DB
	retry misc.RetryPolicy
}

var _ ports.DocumentStore = (*Store)(nil)

var retryablePGCodes = map[string]struct{}{
	pgerrcode.ConnectionException:                           {},
	pgerrcode.ConnectionDoesNotExist:                        {},
	pgerrcode.ConnectionFailure:                             {},
	pgerrcode.SQLClientUnableToEstablishSQLConnection:       {},
	pgerrcode.SQLServerRejectedEstablishmentOfSQLConnection: {},
	pgerrcode.TransactionResolutionUnknown:                  {},
	pgerrcode.ProtocolViolation:                             {},
	pgerrcode.SerializationFailure:                          {},
	pgerrcode.DeadlockDetected:                              {},
	pgerrcode.LockNotAvailable:                              {},
	pgerrcode.TooManyConnections:                            {},
	pgerrcode.AdminShutdown:                                 {},
	pgerrcode.CrashShutdown:                                 {},
	pgerrcode.CannotConnectNow:                              {},
	pgerrcode.QueryCanceled:                                 {},
}

// New returns a Postgres-backed store retrying with misc.DefaultBackoff.
func New(db *sql.DB) *Store {
	return &Store{db: db, retry: RetryPolicy(misc.DefaultBackoff)}
}

// RetryPolicy retries transient Postgres failures with the given delays.
func RetryPolicy(delays []time.Duration) misc.RetryPolicy {
	return misc.RetryPolicy{Retryable: IsRetryable, Delays: delays}
}

// Insert writes the whole batch in one transaction.
func (s *Store) Insert(ctx context.Context, docs []domain.StoredDocument) error {
	if len(docs) == 0 {
		return nil
	}
	attempt := func() error {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		if err != nil {
			return err
		}
		defer func() {
			_ = tx.Rollback()
		}()

		for _, d := range docs {
			if _, err := tx.ExecContext(ctx, insertQuery, d.Index, d.Type, string(d.Source)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}
	return s.retry.Do(ctx, attempt)
}

// Count returns the number of documents stored under index.
func (s *Store) Count(ctx context.Context, index string) (int64, error) {
	var n int64
	op := func() error {
		return s.db.QueryRowContext(ctx, countQuery, index).Scan(&n)
	}
	if err := s.retry.Do(ctx, op); err != nil {
		return 0, err
	}
	return n, nil
}

// Ping verifies the database connection using a short-lived context.
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return errors.New("db not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return s.retry.Do(ctx, func() error { return s.db.PingContext(ctx) })
}

// IsRetryable reports whether err is a transient connection or transaction failure.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var pqe *pq.Error
	if errors.As(err, &pqe) {
		return isRetryablePGCode(string(pqe.Code))
	}
	return false
}

func isRetryablePGCode(code string) bool {
	if _, ok := retryablePGCodes[code]; ok {
		return true
	}
	// classes 08 (connection) and 40 (transaction rollback)
	return strings.HasPrefix(code, "08") || strings.HasPrefix(code, "40")
}
