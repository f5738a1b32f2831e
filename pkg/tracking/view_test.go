package tracking_test

import (
	"context"
	"testing"

	"github.com/kandttextiles/ktportal/pkg/deeplink"
	"github.com/kandttextiles/ktportal/pkg/tracking"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type fetcherFunc func() (tracking.Page, error)

func (f fetcherFunc) Fetch(ctx context.Context, d deeplink.Descriptor, limit, offset int) (tracking.Page, error) {
	return f()
}

func TestView(t *testing.T) {
	a := assert.New(t)

	ctx := context.Background()
	d := deeplink.Descriptor{ID: "a", Content: "b"}

	v := tracking.NewView()
	a.Equal(tracking.SIdle, v.State())

	// loading is observable while the fetch is in flight
	state := v.Load(ctx, fetcherFunc(func() (tracking.Page, error) {
		a.Equal(tracking.SLoading, v.State())
		return tracking.Page{Tracking: []tracking.Point{{DeviceID: "k"}}, Count: 1}, nil
	}), d, 10, 0)

	a.Equal(tracking.SSuccess, state)
	a.Equal(1, v.Page().Count)
	a.NoError(v.Err())

	// empty feed and failed feed are distinct
	state = v.Load(ctx, fetcherFunc(func() (tracking.Page, error) {
		return tracking.Page{}, tracking.ErrNotFound
	}), d, 10, 0)

	a.Equal(tracking.SEmpty, state)
	a.Empty(v.Page().Tracking)
	a.NoError(v.Err())

	state = v.Load(ctx, fetcherFunc(func() (tracking.Page, error) {
		return tracking.Page{}, nil
	}), d, 10, 0)

	a.Equal(tracking.SEmpty, state)

	state = v.Load(ctx, fetcherFunc(func() (tracking.Page, error) {
		return tracking.Page{}, errors.Wrap(tracking.ErrRequest, "connection refused")
	}), d, 10, 0)

	a.Equal(tracking.SError, state)
	a.Equal(tracking.ErrRequest, errors.Cause(v.Err()))
	a.Equal("error", state.String())
}
