package tracking_test

import (
	"context"
	"testing"

	"github.com/kandttextiles/ktportal/pkg/database"
	"github.com/kandttextiles/ktportal/pkg/tracking"
	"github.com/stretchr/testify/assert"
)

func sqlStoreForTesting(t *testing.T) *tracking.SQLStore {
	db, err := database.SQLiteForTesting()
	if err != nil {
		t.Fatalf("failed to open test database: %s", err)
	}

	t.Cleanup(func() { db.Close() })

	s, err := tracking.NewSQLStore(db)
	if err != nil {
		t.Fatalf("failed to create store: %s", err)
	}

	if err = s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("failed to create schema: %s", err)
	}

	return s
}

func TestSQLStorePointsForDevice(t *testing.T) {
	a := assert.New(t)
	ctx := context.Background()

	s := sqlStoreForTesting(t)

	_, err := tracking.NewSQLStore(nil)
	a.Equal(tracking.ErrNilDatabase, err)

	// schema creation is repeatable
	a.NoError(s.EnsureSchema(ctx))

	for _, p := range []tracking.Point{
		{DeviceID: "key-1", DateRecorded: "2024-03-08", TimeRecorded: "23:59:59", Latitude: 1, Longitude: 2},
		{DeviceID: "key-1", DateRecorded: "2024-03-09", TimeRecorded: "08:00:00", Latitude: 3, Longitude: 4, BatteryLevel: 50},
		{DeviceID: "key-1", DateRecorded: "2024-03-09", TimeRecorded: "09:30:00", Latitude: 5, Longitude: 6, Speed: 12.5},
		{DeviceID: "key-2", DateRecorded: "2024-03-10", TimeRecorded: "00:00:00"},
	} {
		a.NoError(s.Insert(ctx, p))
	}

	points, err := s.PointsForDevice(ctx, "key-1", 10, 0)
	a.NoError(err)
	a.Len(points, 3)

	// newest first
	a.Equal("09:30:00", points[0].TimeRecorded)
	a.Equal("08:00:00", points[1].TimeRecorded)
	a.Equal("2024-03-08", points[2].DateRecorded)

	a.NotNil(points[0].ID)
	a.Equal(12.5, points[0].Speed)
	a.Equal(float64(50), points[1].BatteryLevel)
	a.Equal("03/09/2024", points[0].FormattedDate)
	a.Equal("http://maps.google.com/maps?q=5,6", points[0].GoogleMapsLink)

	// paging
	points, err = s.PointsForDevice(ctx, "key-1", 1, 1)
	a.NoError(err)
	a.Len(points, 1)
	a.Equal("08:00:00", points[0].TimeRecorded)

	points, err = s.PointsForDevice(ctx, "key-1", 10, 5)
	a.NoError(err)
	a.Len(points, 0)

	points, err = s.PointsForDevice(ctx, "unknown", 10, 0)
	a.NoError(err)
	a.Len(points, 0)

	_, err = s.PointsForDevice(ctx, "", 10, 0)
	a.Equal(tracking.ErrEmptyDeviceKey, err)

	_, err = s.PointsForDevice(ctx, "key-1", -1, 0)
	a.Equal(tracking.ErrInvalidPage, err)
}
