package tracking_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/kandttextiles/ktportal/pkg/deeplink"
	"github.com/kandttextiles/ktportal/pkg/tracking"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func clientForTesting(h http.HandlerFunc) (*tracking.Client, func()) {
	srv := httptest.NewServer(h)

	c := tracking.NewClient(srv.URL)
	c.SetLogger(zap.NewNop())

	return c, srv.Close
}

func TestClientFetch(t *testing.T) {
	a := assert.New(t)

	d := deeplink.Descriptor{ID: "test", Content: "http://ex.com"}

	var received tracking.Request

	c, done := clientForTesting(func(w http.ResponseWriter, r *http.Request) {
		a.Equal(http.MethodPost, r.Method)
		a.Equal("application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		a.NoError(err)
		a.NoError(json.Unmarshal(body, &received))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"tracking":[{"device_id":"k","date_recorded":"2024-03-09","time_recorded":"10:00:00","latitude":1.5,"longitude":2,"type":"gps","speed":3,"battery_level":88,"link":""}],"count":1,"limit":1000,"offset":0}`)
	})
	defer done()

	page, err := c.Fetch(context.Background(), d, 0, 0)
	a.NoError(err)

	// the feed key is the padded standard alphabet
	a.Equal("eyJpZCI6InRlc3QiLCJjb250ZW50IjoiaHR0cDovL2V4LmNvbSJ9", received.EncodedData)
	a.Equal(tracking.DefaultLimit, received.Limit)
	a.Equal(0, received.Offset)

	a.Equal(1, page.Count)
	a.Len(page.Tracking, 1)
	a.Equal("03/09/2024", page.Tracking[0].FormattedDate)
	a.Equal("10:00:00", page.Tracking[0].FormattedTime)
	a.Equal("http://maps.google.com/maps?q=1.5,2", page.Tracking[0].GoogleMapsLink)
	a.Equal(float64(88), page.Tracking[0].BatteryLevel)
}

func TestClientFetchFailures(t *testing.T) {
	a := assert.New(t)

	d := deeplink.Descriptor{ID: "test", Content: "http://ex.com"}
	ctx := context.Background()

	c, done := clientForTesting(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"No tracking data found for the device"}`)
	})

	_, err := c.Fetch(ctx, d, 10, 0)
	a.Equal(tracking.ErrNotFound, errors.Cause(err))
	done()

	c, done = clientForTesting(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":"Failed to process tracking request","details":"boom"}`)
	})

	_, err = c.Fetch(ctx, d, 10, 0)
	a.Equal(tracking.ErrRequest, errors.Cause(err))
	a.Contains(err.Error(), "Failed to process tracking request")
	a.Contains(err.Error(), "boom")
	done()

	c, done = clientForTesting(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `not json`)
	})

	_, err = c.Fetch(ctx, d, 10, 0)
	a.Equal(tracking.ErrRequest, errors.Cause(err))
	done()

	// timeouts are transport failures
	c, done = clientForTesting(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	c.SetTimeout(20 * time.Millisecond)
	_, err = c.Fetch(ctx, d, 10, 0)
	a.Equal(tracking.ErrRequest, errors.Cause(err))
	done()

	// nothing is listening here
	c = tracking.NewClient("http://127.0.0.1:1/api/tracking/data")
	c.SetLogger(zap.NewNop())

	_, err = c.Fetch(ctx, d, 10, 0)
	a.Equal(tracking.ErrRequest, errors.Cause(err))

	_, err = c.Fetch(ctx, d, -1, 0)
	a.Equal(tracking.ErrInvalidPage, err)
}
