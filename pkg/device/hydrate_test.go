package device_test

import (
	"testing"
	"time"

	"github.com/kandttextiles/ktportal/pkg/device"
	"github.com/stretchr/testify/assert"
)

func TestHydrate(t *testing.T) {
	a := assert.New(t)

	now := time.Date(2024, 3, 9, 14, 5, 7, 250*int(time.Millisecond), time.UTC)

	d, err := device.Hydrate(device.Partial{ID: "truck-17", Content: "https://maps.example.com/t17"}, now)
	a.NoError(err)
	a.Equal("truck-17", d.ID)
	a.Equal("Truck 17", d.Name)
	a.Equal("Tracking for Truck 17", d.Description)
	a.Equal(device.TGPS, d.Type)
	a.Equal(device.CTLink, d.ContentType)
	a.Equal(device.SActive, d.Status)
	a.Equal("/images/gps-tracker.jpg", d.ImageURL)
	a.Equal("2024-03-09T14:05:07.250Z", d.LastUpdated)
	a.Equal(d.LastUpdated, d.AddedOn)
	a.Empty(d.Location)
	a.NoError(d.Validate())

	// explicitly given fields are kept
	d, err = device.Hydrate(device.Partial{
		ID:          "factory-line-2",
		Content:     "<script>draw()</script>",
		Name:        "Line Two",
		ContentType: device.CTScript,
		Status:      device.SMaintenance,
		Location:    "Dhaka",
		AddedOn:     "2023-01-01T00:00:00.000Z",
	}, now)
	a.NoError(err)
	a.Equal("Line Two", d.Name)
	a.Equal("Tracking for Line Two", d.Description)
	a.Equal(device.TIndustrial, d.Type)
	a.Equal(device.CTScript, d.ContentType)
	a.Equal(device.SMaintenance, d.Status)
	a.Equal("Dhaka", d.Location)
	a.Equal("/images/industrial-tracker.jpg", d.ImageURL)
	a.Equal("2023-01-01T00:00:00.000Z", d.AddedOn)
	a.Equal("2024-03-09T14:05:07.250Z", d.LastUpdated)

	// caller types outside the table get the default picture
	d, err = device.Hydrate(device.Partial{ID: "x", Content: "y", Type: "Sonar"}, now)
	a.NoError(err)
	a.Equal(device.Type("Sonar"), d.Type)
	a.Equal(device.DefaultImageURL, d.ImageURL)
}

func TestHydrateMissingFields(t *testing.T) {
	a := assert.New(t)

	_, err := device.Hydrate(device.Partial{ID: "only-id"}, time.Now())
	a.Equal(device.ErrValidation, err)

	_, err = device.Hydrate(device.Partial{Content: "http://ex.com"}, time.Now())
	a.Equal(device.ErrValidation, err)

	// only absent fields are missing, blank ones are kept as given
	d, err := device.Hydrate(device.Partial{ID: "  ", Content: " "}, time.Now())
	a.NoError(err)
	a.Equal("  ", d.ID)
	a.Equal(" ", d.Content)
}

func TestNameFromID(t *testing.T) {
	a := assert.New(t)

	a.Equal("Truck 17 North", device.NameFromID("truck-17-north"))
	a.Equal("Solo", device.NameFromID("solo"))
	a.Equal("A  B", device.NameFromID("a--b"))
	a.Equal("Ünit 1", device.NameFromID("ünit-1"))
}

func TestInferType(t *testing.T) {
	a := assert.New(t)

	a.Equal(device.TEnvironmental, device.InferType("warehouse-TEMP-3"))
	a.Equal(device.TEnvironmental, device.InferType("humidity-sensor"))
	a.Equal(device.TEnvironmental, device.InferType("environment-1"))
	a.Equal(device.TIndustrial, device.InferType("production-floor"))
	a.Equal(device.TIndustrial, device.InferType("Factory-A"))
	a.Equal(device.TDashboard, device.InferType("main-dashboard"))
	a.Equal(device.TDashboard, device.InferType("overview"))
	a.Equal(device.TGPS, device.InferType("truck-17"))

	// environmental keywords win over the later ones
	a.Equal(device.TEnvironmental, device.InferType("factory-temp"))
}
