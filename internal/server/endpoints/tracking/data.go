package tracking

import (
	"context"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/kandttextiles/ktportal/internal/core"
	"github.com/kandttextiles/ktportal/internal/server/endpoints"
	"github.com/kandttextiles/ktportal/pkg/tracking"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// response messages
const (
	MsgEncodedDataRequired = "Encoded device data is required"
	MsgNoTrackingData      = "No tracking data found for the device"
	MsgProcessingFailed    = "Failed to process tracking request"
)

// maximum accepted request body
const maxBodySize = 1 << 20

// PostData serves a page of tracking points; the encoded data is used
// as is as the device key of the tracking store
func PostData(ctx context.Context, c *core.Core, w http.ResponseWriter, r *http.Request) (result interface{}, code int, err error) {
	s, err := c.TrackingStore()
	if err != nil {
		return endpoints.ErrorResponse{Error: MsgProcessingFailed, Details: err.Error()}, http.StatusInternalServerError, err
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, http.StatusBadRequest, errors.Wrap(ErrInvalidBody, err.Error())
	}

	var body requestBody
	if err = json.Unmarshal(data, &body); err != nil {
		return nil, http.StatusBadRequest, errors.Wrap(ErrInvalidBody, err.Error())
	}

	if body.EncodedData == "" {
		return endpoints.ErrorResponse{Error: MsgEncodedDataRequired}, http.StatusBadRequest, nil
	}

	q := r.URL.Query()

	limit, err := pageParam("limit", q.Get("limit"), body.Limit, tracking.DefaultLimit)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	offset, err := pageParam("offset", q.Get("offset"), body.Offset, 0)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	points, err := s.PointsForDevice(ctx, body.EncodedData, limit, offset)
	if err != nil {
		return endpoints.ErrorResponse{Error: MsgProcessingFailed, Details: err.Error()}, http.StatusInternalServerError, err
	}

	c.Logger().Debug("tracking points found",
		zap.String("request_id", endpoints.RequestID(ctx).String()),
		zap.Int("count", len(points)),
	)

	if len(points) == 0 {
		return endpoints.ErrorResponse{Error: MsgNoTrackingData}, http.StatusNotFound, nil
	}

	return tracking.Page{
		Tracking: points,
		Count:    len(points),
		Limit:    limit,
		Offset:   offset,
	}, http.StatusOK, nil
}
