// Package deeplink converts minimal device descriptors to and from the
// opaque tokens carried by vendor portal links.
package deeplink

import (
	"encoding/base64"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// tokens must be byte-equal with what browsers produce via JSON.stringify,
// hence no HTML escaping
var json = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            false,
	ValidateJsonRawMessage: true,
}.Froze()

// Descriptor is the minimal pair sufficient to reconstruct a device record
type Descriptor struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// Payload is what a token may carry; older links were generated with the
// full device description, newer ones only with the descriptor
type Payload struct {
	Descriptor
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Status      string `json:"status,omitempty"`
	Location    string `json:"location,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Validate checks that both required fields are present
func (d Descriptor) Validate() error {
	if d.ID == "" || d.Content == "" {
		return ErrValidation
	}

	return nil
}

func (d Descriptor) marshal() []byte {
	// a struct of two strings always marshals
	buf, _ := json.Marshal(Descriptor{ID: d.ID, Content: d.Content})
	return buf
}

// Encode returns the URL-safe token of a descriptor: standard base64 with
// '+' and '/' substituted and the padding stripped
func Encode(d Descriptor) string {
	return urlSafe(d.marshal())
}

// EncodePayload works like Encode but also carries the optional fields
// of the full link format
func EncodePayload(p Payload) string {
	buf, _ := json.Marshal(p)
	return urlSafe(buf)
}

func urlSafe(raw []byte) string {
	token := base64.StdEncoding.EncodeToString(raw)
	token = strings.NewReplacer("+", "-", "/", "_").Replace(token)

	return strings.TrimRight(token, "=")
}

// EncodeFeedKey returns the standard, padded base64 of a descriptor; the
// tracking store uses this exact string as the device key
func EncodeFeedKey(d Descriptor) string {
	return base64.StdEncoding.EncodeToString(d.marshal())
}

// Decode parses a token produced by Encode, a percent-encoded token taken
// from a path segment, or a plain standard base64 token
func Decode(token string) (Descriptor, error) {
	p, err := DecodePayload(token)
	if err != nil {
		return Descriptor{}, err
	}

	return p.Descriptor, nil
}

// DecodePayload works like Decode but keeps the optional presentation
// fields older links may carry
func DecodePayload(token string) (p Payload, err error) {
	raw, err := decodeBytes(token)
	if err != nil {
		return p, err
	}

	if err = json.Unmarshal(raw, &p); err != nil {
		return p, errors.Wrapf(ErrDecode, "invalid data format: %s", err)
	}

	if err = p.Descriptor.Validate(); err != nil {
		return p, err
	}

	return p, nil
}

func decodeBytes(token string) ([]byte, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.Wrap(ErrDecode, "no tracking code provided")
	}

	cleaned, err := url.PathUnescape(token)
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "invalid percent-encoding: %s", err)
	}

	cleaned = strings.NewReplacer("-", "+", "_", "/").Replace(cleaned)
	if rem := len(cleaned) % 4; rem != 0 {
		cleaned += strings.Repeat("=", 4-rem)
	}

	raw, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "invalid base64 encoding: %s", err)
	}

	return raw, nil
}
