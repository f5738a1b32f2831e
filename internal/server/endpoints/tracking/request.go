package tracking

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrInvalidBody   = errors.New("invalid request body")
	ErrInvalidNumber = errors.New("must be a non-negative integer")
)

// flexInt accepts both JSON numbers and numeric strings
type flexInt struct {
	raw string
	set bool
}

func (n *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}

	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}

	n.raw, n.set = strings.TrimSpace(s), true

	return nil
}

// requestBody is the body of a tracking data request
type requestBody struct {
	EncodedData string  `json:"encodedData"`
	Limit       flexInt `json:"limit"`
	Offset      flexInt `json:"offset"`
}

// pageParam resolves a paging parameter, the query value wins over
// the body one; empty and zero values fall back to the default
func pageParam(name, query string, body flexInt, def int) (int, error) {
	raw := strings.TrimSpace(query)
	if raw == "" && body.set {
		raw = body.raw
	}

	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.Wrapf(ErrInvalidNumber, "invalid %s %q", name, raw)
	}

	if v == 0 {
		return def, nil
	}

	return v, nil
}
