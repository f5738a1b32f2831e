package database

import (
	"github.com/pkg/errors"
)

// supported drivers of the tracking database
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	ErrEmptyDSN          = errors.New("database dsn is empty")
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	ErrNotTestMode       = errors.New("must be called only during testing")
)

// CheckDriver makes sure a driver name is supported
func CheckDriver(driver string) error {
	switch driver {
	case DriverPostgres, DriverSQLite:
		return nil
	default:
		return errors.Wrap(ErrUnsupportedDriver, driver)
	}
}
