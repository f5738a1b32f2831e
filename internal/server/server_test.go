package server_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/kandttextiles/ktportal/internal/core"
	"github.com/kandttextiles/ktportal/internal/server"
	"github.com/kandttextiles/ktportal/pkg/database"
	"github.com/kandttextiles/ktportal/pkg/deeplink"
	"github.com/kandttextiles/ktportal/pkg/tracking"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const feedKey = "eyJpZCI6InRlc3QiLCJjb250ZW50IjoiaHR0cDovL2V4LmNvbSJ9"

type failingStore struct{}

func (failingStore) PointsForDevice(ctx context.Context, deviceKey string, limit, offset int) ([]tracking.Point, error) {
	return nil, errors.New("connection reset")
}

func serverForTesting(t *testing.T) *httptest.Server {
	ctx := context.Background()

	db, err := database.SQLiteForTesting()
	if err != nil {
		t.Fatalf("failed to open test database: %s", err)
	}

	s, err := tracking.NewSQLStore(db)
	if err != nil {
		t.Fatalf("failed to create tracking store: %s", err)
	}

	if err = s.EnsureSchema(ctx); err != nil {
		t.Fatalf("failed to create schema: %s", err)
	}

	for _, tm := range []string{"08:00:00", "09:00:00", "10:00:00"} {
		err = s.Insert(ctx, tracking.Point{
			DeviceID:     feedKey,
			DateRecorded: "2024-03-09",
			TimeRecorded: tm,
			Latitude:     23.81,
			Longitude:    90.41,
		})

		if err != nil {
			t.Fatalf("failed to insert point: %s", err)
		}
	}

	c, err := core.NewCoreForTesting()
	if err != nil {
		t.Fatalf("failed to create core: %s", err)
	}

	if err = c.SetTrackingStore(s); err != nil {
		t.Fatalf("failed to set tracking store: %s", err)
	}

	srv := httptest.NewServer(server.Router(c))
	t.Cleanup(func() {
		srv.Close()
		db.Close()
	})

	return srv
}

func post(t *testing.T, url, body string) (int, map[string]interface{}) {
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %s", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %s", err)
	}

	result := make(map[string]interface{})
	if err = json.Unmarshal(data, &result); err != nil {
		t.Fatalf("malformed response %s: %s", data, err)
	}

	return resp.StatusCode, result
}

func TestTrackingData(t *testing.T) {
	a := assert.New(t)

	srv := serverForTesting(t)
	url := srv.URL + "/api/tracking/data"

	code, body := post(t, url, `{"encodedData":"`+feedKey+`"}`)
	a.Equal(http.StatusOK, code)
	a.EqualValues(3, body["count"])
	a.EqualValues(1000, body["limit"])
	a.EqualValues(0, body["offset"])

	points := body["tracking"].([]interface{})
	a.Len(points, 3)

	first := points[0].(map[string]interface{})
	a.Equal("10:00:00", first["time_recorded"])
	a.Equal("03/09/2024", first["formatted_date"])
	a.Equal("http://maps.google.com/maps?q=23.81,90.41", first["google_maps_link"])

	// body paging, numbers given as strings
	code, body = post(t, url, `{"encodedData":"`+feedKey+`","limit":"1","offset":1}`)
	a.Equal(http.StatusOK, code)
	a.EqualValues(1, body["count"])
	a.Equal("09:00:00", body["tracking"].([]interface{})[0].(map[string]interface{})["time_recorded"])

	// query parameters override the body
	code, body = post(t, url+"?limit=2&offset=0", `{"encodedData":"`+feedKey+`","limit":1,"offset":2}`)
	a.Equal(http.StatusOK, code)
	a.EqualValues(2, body["count"])
	a.EqualValues(2, body["limit"])
	a.EqualValues(0, body["offset"])
}

func TestTrackingDataFailures(t *testing.T) {
	a := assert.New(t)

	srv := serverForTesting(t)
	url := srv.URL + "/api/tracking/data"

	code, body := post(t, url, `{}`)
	a.Equal(http.StatusBadRequest, code)
	a.Equal("Encoded device data is required", body["error"])

	code, body = post(t, url, `{"encodedData":"`+deeplink.EncodeFeedKey(deeplink.Descriptor{ID: "other", Content: "x"})+`"}`)
	a.Equal(http.StatusNotFound, code)
	a.Equal("No tracking data found for the device", body["error"])

	code, _ = post(t, url+"?limit=-5", `{"encodedData":"`+feedKey+`"}`)
	a.Equal(http.StatusBadRequest, code)

	code, _ = post(t, url, `{"encodedData":"`+feedKey+`","offset":"abc"}`)
	a.Equal(http.StatusBadRequest, code)

	code, _ = post(t, url, `not json`)
	a.Equal(http.StatusBadRequest, code)

	resp, err := http.Get(url)
	a.NoError(err)
	resp.Body.Close()
	a.Equal(http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestTrackingDataStoreFailure(t *testing.T) {
	a := assert.New(t)

	c, err := core.NewCoreForTesting()
	a.NoError(err)
	a.NoError(c.SetTrackingStore(failingStore{}))

	srv := httptest.NewServer(server.Router(c))
	defer srv.Close()

	code, body := post(t, srv.URL+"/api/tracking/data", `{"encodedData":"`+feedKey+`"}`)
	a.Equal(http.StatusInternalServerError, code)
	a.Equal("Failed to process tracking request", body["error"])
	a.Equal("connection reset", body["details"])
}

func TestHealth(t *testing.T) {
	a := assert.New(t)

	srv := serverForTesting(t)

	resp, err := http.Get(srv.URL + "/healthz")
	a.NoError(err)
	defer resp.Body.Close()

	a.Equal(http.StatusOK, resp.StatusCode)
	a.NotEmpty(resp.Header.Get("X-Request-ID"))

	c, err := core.NewCoreForTesting()
	a.NoError(err)

	rec := httptest.NewRecorder()
	server.Router(c).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	a.Equal(http.StatusServiceUnavailable, rec.Code)
}
