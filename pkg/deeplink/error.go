package deeplink

import "github.com/pkg/errors"

// errors
var (
	ErrDecode     = errors.New("invalid tracking code")
	ErrValidation = errors.New("invalid device data: missing required id or content")
)
