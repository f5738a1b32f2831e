package core

import "github.com/pkg/errors"

// errors
var (
	ErrNilCore          = errors.New("portal core is nil")
	ErrNilRegistry      = errors.New("device registry is nil")
	ErrNilFeed          = errors.New("tracking feed client is nil")
	ErrNilTrackingStore = errors.New("tracking store is nil")
)
