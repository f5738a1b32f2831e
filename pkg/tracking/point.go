package tracking

import (
	"strconv"
	"time"
)

const (
	// DefaultLimit is used when a request carries no limit
	DefaultLimit = 1000

	dateLayout          = "2006-01-02"
	formattedDateLayout = "01/02/2006"
	mapsURL             = "http://maps.google.com/maps?q="
)

// Point is a single location ping of a device
type Point struct {
	ID             *int64  `json:"id,omitempty"`
	DeviceID       string  `json:"device_id"`
	DateRecorded   string  `json:"date_recorded"`
	TimeRecorded   string  `json:"time_recorded"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Type           string  `json:"type"`
	Speed          float64 `json:"speed"`
	BatteryLevel   float64 `json:"battery_level"`
	Link           string  `json:"link"`
	FormattedDate  string  `json:"formatted_date,omitempty"`
	FormattedTime  string  `json:"formatted_time,omitempty"`
	GoogleMapsLink string  `json:"google_maps_link,omitempty"`
}

// Normalize fills the derived display fields when they're missing
func Normalize(p Point) Point {
	if p.FormattedDate == "" {
		if t, err := time.Parse(dateLayout, p.DateRecorded); err == nil {
			p.FormattedDate = t.Format(formattedDateLayout)
		}
	}

	if p.FormattedTime == "" {
		p.FormattedTime = p.TimeRecorded
	}

	if p.GoogleMapsLink == "" {
		p.GoogleMapsLink = MapsLink(p.Latitude, p.Longitude)
	}

	return p
}

// MapsLink returns a Google Maps link pointing at given coordinates
func MapsLink(lat, lon float64) string {
	return mapsURL + strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)
}

// Page is a page of tracking points, as returned by the feed
type Page struct {
	Tracking []Point `json:"tracking"`
	Count    int     `json:"count"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
}

// Request is the body of a tracking data request
type Request struct {
	EncodedData string `json:"encodedData"`
	Limit       int    `json:"limit"`
	Offset      int    `json:"offset"`
}
