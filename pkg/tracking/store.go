package tracking

import "context"

// Store reads the tracking points of a device, newest first
type Store interface {
	PointsForDevice(ctx context.Context, deviceKey string, limit, offset int) ([]Point, error)
}

func checkQuery(deviceKey string, limit, offset int) error {
	if deviceKey == "" {
		return ErrEmptyDeviceKey
	}

	if limit < 0 || offset < 0 {
		return ErrInvalidPage
	}

	return nil
}
