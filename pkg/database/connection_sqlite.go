package database

import (
	"database/sql"
	"strings"

	"github.com/kandttextiles/ktportal/pkg/util"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// SQLite opens a sqlite database file (or ":memory:")
func SQLite(dsn string) (*sql.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, ErrEmptyDSN
	}

	db, err := sql.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite database")
	}

	// every connection to :memory: is a separate database
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to connect to sqlite database")
	}

	return db, nil
}

// SQLiteForTesting returns a fresh in-memory database
func SQLiteForTesting() (*sql.DB, error) {
	if !util.IsTestMode() {
		return nil, ErrNotTestMode
	}

	return SQLite(":memory:")
}
