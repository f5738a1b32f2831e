package endpoints

import (
	"context"
	"net/http"

	"github.com/kandttextiles/ktportal/internal/core"
)

// Health reports whether the tracking store is wired
func Health(ctx context.Context, c *core.Core, w http.ResponseWriter, r *http.Request) (result interface{}, code int, err error) {
	if _, err = c.TrackingStore(); err != nil {
		return nil, http.StatusServiceUnavailable, err
	}

	return map[string]string{"status": "ok"}, http.StatusOK, nil
}
