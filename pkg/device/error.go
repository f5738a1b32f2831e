package device

import "github.com/pkg/errors"

var (
	ErrValidation         = errors.New("device must have at least id and content")
	ErrInvalidDeviceID    = errors.New("device id is invalid")
	ErrDeviceNotFound     = errors.New("device is not found")
	ErrStorageUnavailable = errors.New("device storage is unavailable")
	ErrNilStore           = errors.New("device store is nil")
	ErrNilDatabase        = errors.New("database is nil")
	ErrNotOpen            = errors.New("device registry is not open")
	ErrUnknownIndex       = errors.New("unknown device index")
	ErrCacheMiss          = errors.New("device is not cached")
)
