package device

import (
	"fmt"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/pkg/errors"
)

// Type is a loose category of a tracking device; the set is open
type Type string

const (
	TGPS           Type = "GPS"
	TEnvironmental Type = "Environmental"
	TIndustrial    Type = "Industrial"
	TDashboard     Type = "Dashboard"
)

// ContentType denotes how device content is presented
type ContentType string

const (
	CTIframe ContentType = "iframe"
	CTLink   ContentType = "link"
	CTImage  ContentType = "image"
	CTScript ContentType = "script"
)

// Status represents the operational status of a device
type Status string

const (
	SActive      Status = "active"
	SInactive    Status = "inactive"
	SMaintenance Status = "maintenance"
)

// secondary index names
const (
	IndexContentType = "contentType"
	IndexType        = "type"
	IndexStatus      = "status"
)

// Indexes lists every secondary index a store must maintain
var Indexes = []string{IndexContentType, IndexType, IndexStatus}

// TimeLayout is the ISO-8601 layout of stored timestamps
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Device represents a tracking device record, the unit of the registry
type Device struct {
	ID          string      `json:"id" diff:"id" valid:"required"`
	Name        string      `json:"name" diff:"name" valid:"required"`
	Description string      `json:"description" diff:"description"`
	Type        Type        `json:"type" diff:"type" valid:"required"`
	ContentType ContentType `json:"contentType" diff:"contentType" valid:"in(iframe|link|image|script)"`
	Content     string      `json:"content" diff:"content" valid:"required"`
	Status      Status      `json:"status" diff:"status" valid:"in(active|inactive|maintenance)"`
	LastUpdated string      `json:"lastUpdated" diff:"lastUpdated"`
	Location    string      `json:"location,omitempty" diff:"location"`
	ImageURL    string      `json:"imageUrl" diff:"imageUrl"`
	AddedOn     string      `json:"addedOn" diff:"addedOn"`
}

// Partial is a caller-supplied device description; empty fields are
// filled in by Hydrate
type Partial struct {
	ID          string
	Name        string
	Description string
	Type        Type
	ContentType ContentType
	Content     string
	Status      Status
	LastUpdated string
	Location    string
	ImageURL    string
	AddedOn     string
}

// IDString returns short info about the device
func (d Device) IDString() string {
	return fmt.Sprintf("device[%s:%s]", d.ID, d.Type)
}

// Validate checks whether a hydrated device is complete
func (d Device) Validate() error {
	if d.ID == "" || d.Content == "" {
		return ErrValidation
	}

	if ok, err := govalidator.ValidateStruct(d); !ok || err != nil {
		return errors.Wrapf(ErrValidation, "%s validation failed: %s", d.IDString(), err)
	}

	return nil
}

// ContentRef returns the stored content as its tagged variant
func (d Device) ContentRef() ContentRef {
	return NewContentRef(d.ContentType, d.Content)
}

// IndexValue returns the value of the device under a given secondary index
func (d Device) IndexValue(index string) (string, error) {
	switch index {
	case IndexContentType:
		return string(d.ContentType), nil
	case IndexType:
		return string(d.Type), nil
	case IndexStatus:
		return string(d.Status), nil
	default:
		return "", errors.Wrap(ErrUnknownIndex, index)
	}
}

// Timestamp formats a time the way device timestamps are stored
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
