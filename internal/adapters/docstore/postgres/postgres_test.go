package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"net"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"

	"github.com/vshulcz/elasticreport/internal/domain"
)

var (
	insertPat = regexp.QuoteMeta(insertQuery)
	countPat  = regexp.QuoteMeta(countQuery)
)

func newMock(t *testing.T) (sqlmock.Sqlmock, *Store) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	st := &Store{db: db, retry: RetryPolicy([]time.Duration{time.Millisecond, time.Millisecond, time.Millisecond})}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		_ = db.Close()
	})
	return mock, st
}

func docs() []domain.StoredDocument {
	return []domain.StoredDocument{
		{Index: "metrics", Type: "Gauge", Source: json.RawMessage(`{"Name":"a"}`)},
		{Index: "metrics", Source: json.RawMessage(`{"Name":"b"}`)},
	}
}

func TestStore_Insert(t *testing.T) {
	mock, st := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(insertPat).WithArgs("metrics", "Gauge", `{"Name":"a"}`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insertPat).WithArgs("metrics", "", `{"Name":"b"}`).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	if err := st.Insert(context.Background(), docs()); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
}

func TestStore_Insert_Empty(t *testing.T) {
	_, st := newMock(t)
	if err := st.Insert(context.Background(), nil); err != nil {
		t.Fatalf("Insert(nil) error: %v", err)
	}
}

func TestStore_Insert_RollbackOnError(t *testing.T) {
	mock, st := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(insertPat).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insertPat).WillReturnError(&pq.Error{Code: pq.ErrorCode(pgerrcode.InvalidTextRepresentation)})
	mock.ExpectRollback()

	if err := st.Insert(context.Background(), docs()); err == nil {
		t.Fatal("expected error")
	}
}

func TestStore_Insert_Retry(t *testing.T) {
	mock, st := newMock(t)

	mock.ExpectBegin().WillReturnError(&pq.Error{Code: pq.ErrorCode(pgerrcode.ConnectionFailure)})
	mock.ExpectBegin()
	mock.ExpectExec(insertPat).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(insertPat).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	if err := st.Insert(context.Background(), docs()); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
}

func TestStore_Count(t *testing.T) {
	tests := []struct {
		setup   func(sqlmock.Sqlmock)
		name    string
		want    int64
		wantErr bool
	}{
		{
			name: "ok",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(countPat).WithArgs("metrics").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))
			},
			want: 3,
		},
		{
			name: "retry then ok",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(countPat).WithArgs("metrics").
					WillReturnError(&net.OpError{Op: "read", Err: errors.New("reset")})
				m.ExpectQuery(countPat).WithArgs("metrics").
					WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))
			},
			want: 1,
		},
		{
			name: "permanent error",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(countPat).WithArgs("metrics").
					WillReturnError(&pq.Error{Code: pq.ErrorCode(pgerrcode.UndefinedTable)})
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, st := newMock(t)
			tt.setup(mock)
			got, err := st.Count(context.Background(), "metrics")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Count error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("Count = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStore_Ping(t *testing.T) {
	mock, st := newMock(t)
	mock.ExpectPing().WillReturnError(&net.OpError{Op: "dial", Err: errors.New("refused")})
	mock.ExpectPing()

	if err := st.Ping(context.Background()); err != nil {
		t.Fatalf("Ping error: %v", err)
	}
}

func TestStore_PingNoDB(t *testing.T) {
	st := &Store{}
	if err := st.Ping(context.Background()); err == nil {
		t.Fatal("expected error without db")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "driver.ErrBadConn", err: driver.ErrBadConn, want: true},
		{name: "net.OpError", err: &net.OpError{Op: "dial", Err: errors.New("refused")}, want: true},
		{name: "pq ConnectionFailure", err: &pq.Error{Code: pq.ErrorCode(pgerrcode.ConnectionFailure)}, want: true},
		{name: "pq SerializationFailure", err: &pq.Error{Code: pq.ErrorCode(pgerrcode.SerializationFailure)}, want: true},
		{name: "pq class 08", err: &pq.Error{Code: "08999"}, want: true},
		{name: "pq UniqueViolation", err: &pq.Error{Code: pq.ErrorCode(pgerrcode.UniqueViolation)}, want: false},
		{name: "no rows", err: sql.ErrNoRows, want: false},
		{name: "generic", err: errors.New("boom"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Fatalf("IsRetryable(%T) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
