package tracking

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

const postgresPointsQuery = `
	SELECT
		id,
		deviceid,
		to_char(date, 'YYYY-MM-DD'),
		time::text,
		COALESCE(latitude, 0)::float8,
		COALESCE(longitude, 0)::float8,
		COALESCE(type, ''),
		COALESCE(speedmph, 0)::float8,
		COALESCE("BATTERY LEVEL", 0)::float8,
		COALESCE(link, '')
	FROM tracking_data
	WHERE deviceid = $1
	ORDER BY date DESC, time DESC
	LIMIT $2 OFFSET $3`

// PostgresStore reads tracking points from a postgres database
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore initializes a postgres tracking store
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, ErrNilDatabase
	}

	return &PostgresStore{pool: pool}, nil
}

// PointsForDevice returns a page of points of a device
func (s *PostgresStore) PointsForDevice(ctx context.Context, deviceKey string, limit, offset int) ([]Point, error) {
	if err := checkQuery(deviceKey, limit, offset); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, postgresPointsQuery, deviceKey, limit, offset)
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
