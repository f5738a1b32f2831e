package tracking

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kandttextiles/ktportal/pkg/deeplink"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// DefaultTimeout of a single feed request
const DefaultTimeout = 30 * time.Second

// Fetcher retrieves a page of tracking points of a device
type Fetcher interface {
	Fetch(ctx context.Context, d deeplink.Descriptor, limit, offset int) (Page, error)
}

// Client talks to the tracking data endpoint
type Client struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

// NewClient returns a feed client posting to a given endpoint
func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: DefaultTimeout},
	}
}

// SetHTTPClient replaces the underlying http client
func (c *Client) SetHTTPClient(hc *http.Client) {
	if hc != nil {
		c.http = hc
	}
}

// SetTimeout sets the timeout of every request
func (c *Client) SetTimeout(timeout time.Duration) {
	c.http.Timeout = timeout
}

// SetLogger assigns a logger for this client
func (c *Client) SetLogger(logger *zap.Logger) error {
	if logger != nil {
		logger = logger.Named("[feed]")
	}

	c.logger = logger

	return nil
}

// Logger returns primary logger if is set, otherwise initializing and returning
func (c *Client) Logger() *zap.Logger {
	if c.logger == nil {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(fmt.Errorf("failed to initialize feed client logger: %s", err))
		}

		c.logger = l
	}

	return c.logger
}

// Endpoint returns the address this client posts to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Fetch requests a page of points of a given device; zero limit means
// DefaultLimit
func (c *Client) Fetch(ctx context.Context, d deeplink.Descriptor, limit, offset int) (page Page, err error) {
	if limit == 0 {
		limit = DefaultLimit
	}

	if limit < 0 || offset < 0 {
		return page, ErrInvalidPage
	}

	body, err := json.Marshal(Request{
		EncodedData: deeplink.EncodeFeedKey(d),
		Limit:       limit,
		Offset:      offset,
	})

	if err != nil {
		return page, errors.Wrap(err, "failed to marshal tracking request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return page, errors.Wrap(ErrRequest, err.Error())
	}

	req.Header.Set("Content-Type", "application/json")

	c.Logger().Debug("fetching tracking data",
		zap.String("device", d.ID),
		zap.Int("limit", limit),
		zap.Int("offset", offset),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return page, errors.Wrap(ErrRequest, err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return page, errors.Wrap(ErrRequest, err.Error())
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return page, ErrNotFound
	default:
		return page, errors.Wrap(ErrRequest, serverMessage(resp.StatusCode, data))
	}

	if err = json.Unmarshal(data, &page); err != nil {
		return page, errors.Wrapf(ErrRequest, "malformed response: %s", err)
	}

	for i := range page.Tracking {
		page.Tracking[i] = Normalize(page.Tracking[i])
	}

	return page, nil
}

func serverMessage(status int, body []byte) string {
	var e struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}

	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		if e.Details != "" {
			return fmt.Sprintf("%s (%d): %s", e.Error, status, e.Details)
		}

		return fmt.Sprintf("%s (%d)", e.Error, status)
	}

	return fmt.Sprintf("unexpected status %d", status)
}
