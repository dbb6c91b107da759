package database

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"SafeEduBackend/services"
)

// Store implements the repository contract on top of database/sql. Queries
// use $N placeholders, which both lib/pq and modernc sqlite accept.
type Store struct {
	DB     *sql.DB
	driver string
}

var _ services.Store = (*Store)(nil)

func NewStore(conn *sql.DB, driver string) *Store {
	return &Store{
		DB:     conn,
		driver: driver,
	}
}

func (s *Store) Driver() string {
	return s.driver
}

// translateErr maps driver errors onto the store sentinels.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return services.ErrRecordNotFound
	}
	if isUniqueViolation(err) {
		return services.ErrDuplicate
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return false
}

// requireAffected turns a zero-row UPDATE/DELETE into ErrRecordNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return services.ErrRecordNotFound
	}
	return nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}
