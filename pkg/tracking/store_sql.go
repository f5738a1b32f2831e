package tracking

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

const sqlSchema = `
	CREATE TABLE IF NOT EXISTS tracking_data (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		deviceid TEXT NOT NULL,
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		latitude REAL,
		longitude REAL,
		type TEXT,
		speedmph REAL,
		"BATTERY LEVEL" REAL,
		link TEXT
	);
	CREATE INDEX IF NOT EXISTS tracking_data_device ON tracking_data (deviceid, date, time);`

const sqlPointsQuery = `
	SELECT
		id,
		deviceid,
		date,
		time,
		COALESCE(latitude, 0),
		COALESCE(longitude, 0),
		COALESCE(type, ''),
		COALESCE(speedmph, 0),
		COALESCE("BATTERY LEVEL", 0),
		COALESCE(link, '')
	FROM tracking_data
	WHERE deviceid = ?
	ORDER BY date DESC, time DESC
	LIMIT ? OFFSET ?`

// SQLStore reads tracking points through database/sql, used with sqlite
// for local runs and tests
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore initializes a database/sql tracking store
func NewSQLStore(db *sql.DB) (*SQLStore, error) {
	if db == nil {
		return nil, ErrNilDatabase
	}

	return &SQLStore{db: db}, nil
}

// EnsureSchema creates the tracking table if it doesn't exist yet
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqlSchema)
	return errors.Wrap(err, "failed to create tracking schema")
}

// Insert stores a point, dates are expected as YYYY-MM-DD and HH:MM:SS
func (s *SQLStore) Insert(ctx context.Context, p Point) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO tracking_data (deviceid, date, time, latitude, longitude, type, speedmph, "BATTERY LEVEL", link)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.DeviceID,
		p.DateRecorded,
		p.TimeRecorded,
		p.Latitude,
		p.Longitude,
		p.Type,
		p.Speed,
		p.BatteryLevel,
		p.Link,
	)

	return errors.Wrap(err, "failed to insert tracking point")
}

// PointsForDevice returns a page of points of a device
func (s *SQLStore) PointsForDevice(ctx context.Context, deviceKey string, limit, offset int) ([]Point, error) {
	if err := checkQuery(deviceKey, limit, offset); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, sqlPointsQuery, deviceKey, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query tracking data")
	}
	defer rows.Close()

	points := make([]Point, 0)
	for rows.Next() {
		var (
			p  Point
			id int64
		)

		err = rows.Scan(
			&id,
			&p.DeviceID,
			&p.DateRecorded,
			&p.TimeRecorded,
			&p.Latitude,
			&p.Longitude,
			&p.Type,
			&p.Speed,
			&p.BatteryLevel,
			&p.Link,
		)

		if err != nil {
			return nil, errors.Wrap(err, "failed to scan tracking point")
		}

		p.ID = &id
		points = append(points, Normalize(p))
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read tracking data")
	}

	return points, nil
}
