package deeplink

import (
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"
)

// redemption routes of the vendor portal
const (
	AddPath    = "/vendor/add"
	QueryParam = "code"

	// legacy links carried the token in a "data" parameter
	legacyParam = "data"
)

// DefaultQRSize is the default edge length of a rendered QR code in pixels
const DefaultQRSize = 512

// PathLink returns a link carrying the token as a path segment
func PathLink(base, token string) string {
	return strings.TrimRight(base, "/") + AddPath + "/" + url.PathEscape(token)
}

// QueryLink returns a link carrying the token as a query parameter
func QueryLink(base, token string) string {
	return strings.TrimRight(base, "/") + AddPath + "?" + QueryParam + "=" + url.QueryEscape(token)
}

// TokenFromLink extracts the token from whatever a partner pasted: a bare
// token, a path or query form link, or a legacy "?data=" link
func TokenFromLink(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.Wrap(ErrDecode, "no tracking code provided")
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrapf(ErrDecode, "invalid link: %s", err)
	}

	q := u.Query()
	for _, param := range []string{QueryParam, legacyParam} {
		if v := strings.TrimSpace(q.Get(param)); v != "" {
			return v, nil
		}
	}

	// path form; keeping the segment escaped, Decode unescapes it
	escaped := u.EscapedPath()
	if dir, last := path.Split(escaped); strings.HasSuffix(strings.TrimRight(dir, "/"), AddPath) && last != "" {
		return last, nil
	}

	return "", errors.Wrapf(ErrDecode, "link %s carries no tracking code", raw)
}

// RenderQR writes a PNG QR code of the link
func RenderQR(w io.Writer, link string, size int) error {
	if size <= 0 {
		size = DefaultQRSize
	}

	qr, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return errors.Wrap(err, "failed to build qr code")
	}

	return errors.Wrap(qr.Write(size, w), "failed to render qr code")
}
