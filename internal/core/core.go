package core

import (
	"context"
	"fmt"

	"github.com/kandttextiles/ktportal/pkg/deeplink"
	"github.com/kandttextiles/ktportal/pkg/device"
	"github.com/kandttextiles/ktportal/pkg/tracking"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Core is an aggregate of the portal functionality: redeeming deep links
// into the device registry and following the tracking feed of a device
type Core struct {
	devices *device.Registry
	feed    tracking.Fetcher
	points  tracking.Store
	logger  *zap.Logger
}

// New returns a core on top of a given device registry
func New(devices *device.Registry) (*Core, error) {
	if devices == nil {
		return nil, ErrNilRegistry
	}

	return &Core{devices: devices}, nil
}

// Init opens the device registry
func (c *Core) Init(ctx context.Context) error {
	if err := c.Validate(); err != nil {
		return err
	}

	c.Logger().Info("initializing the core")

	return c.devices.Open(ctx)
}

// Close releases the device registry
func (c *Core) Close() error {
	c.Logger().Info("shutting down the core")

	return c.devices.Close()
}

// Validate checks whether the core has everything it needs
func (c *Core) Validate() error {
	if c == nil {
		return ErrNilCore
	}

	if c.devices == nil {
		return ErrNilRegistry
	}

	return nil
}

// SetLogger setting a primary logger for the core
func (c *Core) SetLogger(logger *zap.Logger) error {
	// if logger is set, then giving it a name
	// to know the log context
	if logger != nil {
		logger = logger.Named("[ktportal]")
	}

	c.logger = logger

	return nil
}

// Logger returns primary logger if is set, otherwise initializing and returning
// a new default emergency logger
// NOTE: will panic if it finally fails to obtain a logger
func (c *Core) Logger() *zap.Logger {
	if c.logger == nil {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(fmt.Errorf("failed to initialize core logger: %s", err))
		}

		c.logger = l
	}

	return c.logger
}

// SetFeed assigns the tracking feed client
func (c *Core) SetFeed(f tracking.Fetcher) error {
	if f == nil {
		return ErrNilFeed
	}

	c.feed = f

	return nil
}

// SetTrackingStore assigns the tracking data store served by the portal
func (c *Core) SetTrackingStore(s tracking.Store) error {
	if s == nil {
		return ErrNilTrackingStore
	}

	c.points = s

	return nil
}

// Devices returns the device registry
func (c *Core) Devices() *device.Registry {
	return c.devices
}

// Feed returns the tracking feed client
func (c *Core) Feed() (tracking.Fetcher, error) {
	if c.feed == nil {
		return nil, ErrNilFeed
	}

	return c.feed, nil
}

// TrackingStore returns the tracking data store
func (c *Core) TrackingStore() (tracking.Store, error) {
	if c.points == nil {
		return nil, ErrNilTrackingStore
	}

	return c.points, nil
}

// Redeem decodes a tracking code (bare or inside a deep link) and
// registers the device it describes
func (c *Core) Redeem(ctx context.Context, code string) (*device.Device, error) {
	token, err := deeplink.TokenFromLink(code)
	if err != nil {
		return nil, err
	}

	p, err := deeplink.DecodePayload(token)
	if err != nil {
		return nil, err
	}

	id, err := c.devices.AddDevice(ctx, PartialFromPayload(p))
	if err != nil {
		return nil, errors.Wrap(err, "failed to register device")
	}

	c.Logger().Info("device redeemed", zap.String("id", id))

	d, err := c.devices.GetDevice(ctx, id)
	if err != nil {
		return nil, err
	}

	if d == nil {
		return nil, errors.Wrap(device.ErrDeviceNotFound, id)
	}

	return d, nil
}

// Track fetches a page of tracking points of a registered device
func (c *Core) Track(ctx context.Context, id string, limit, offset int) (tracking.Page, error) {
	f, err := c.Feed()
	if err != nil {
		return tracking.Page{}, err
	}

	d, err := c.devices.GetDevice(ctx, id)
	if err != nil {
		return tracking.Page{}, err
	}

	if d == nil {
		return tracking.Page{}, errors.Wrap(device.ErrDeviceNotFound, id)
	}

	return f.Fetch(ctx, Descriptor(*d), limit, offset)
}

// PartialFromPayload maps a decoded deep-link payload onto a partial device
func PartialFromPayload(p deeplink.Payload) device.Partial {
	return device.Partial{
		ID:          p.ID,
		Content:     p.Content,
		Name:        p.Name,
		Description: p.Description,
		Type:        device.Type(p.Type),
		ContentType: device.ContentType(p.ContentType),
		Status:      device.Status(p.Status),
		Location:    p.Location,
		ImageURL:    p.ImageURL,
	}
}

// Descriptor returns the minimal deep-link descriptor of a device,
// which is also its feed key
func Descriptor(d device.Device) deeplink.Descriptor {
	return deeplink.Descriptor{ID: d.ID, Content: d.Content}
}
