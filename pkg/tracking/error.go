package tracking

import "github.com/pkg/errors"

var (
	ErrNotFound       = errors.New("no tracking data found for the device")
	ErrRequest        = errors.New("tracking data request failed")
	ErrNilDatabase    = errors.New("database is nil")
	ErrInvalidPage    = errors.New("limit and offset must be non-negative")
	ErrEmptyDeviceKey = errors.New("device key is empty")
)
