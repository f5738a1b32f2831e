package device

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kandttextiles/ktportal/pkg/util"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// number of upsert lock stripes
const lockStripes = 64

// Registry is the device registry: it hydrates incoming devices and
// keeps them in a store, with at most one writer per device id
type Registry struct {
	store  Store
	cache  Cache
	logger *zap.Logger
	now    func() time.Time
	locks  [lockStripes]sync.Mutex
	open   bool
	sync.RWMutex
}

// NewRegistry initializes a new registry on top of a given store
func NewRegistry(s Store) (*Registry, error) {
	if s == nil {
		return nil, ErrNilStore
	}

	r := &Registry{
		store: s,
		now:   time.Now,
	}

	return r, nil
}

// SetLogger assigns a logger for this registry
func (r *Registry) SetLogger(logger *zap.Logger) error {
	if logger != nil {
		logger = logger.Named("[device]")
	}

	r.logger = logger

	return nil
}

// Logger returns primary logger if is set, otherwise initializing and returning
func (r *Registry) Logger() *zap.Logger {
	if r.logger == nil {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(fmt.Errorf("failed to initialize device registry logger: %s", err))
		}

		r.logger = l
	}

	return r.logger
}

// SetCache assigns an optional read cache
func (r *Registry) SetCache(c Cache) {
	r.cache = c
}

// SetClock replaces the time source used for default timestamps
func (r *Registry) SetClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// Store returns the underlying store
func (r *Registry) Store() Store {
	return r.store
}

// Open initializes the store, calling it again is a no-op
func (r *Registry) Open(ctx context.Context) error {
	r.Lock()
	defer r.Unlock()

	if r.open {
		return nil
	}

	if err := r.store.Init(ctx); err != nil {
		return errors.Wrap(ErrStorageUnavailable, err.Error())
	}

	r.open = true

	return nil
}

// Close closes the underlying store
func (r *Registry) Close() error {
	r.Lock()
	defer r.Unlock()

	if !r.open {
		return nil
	}

	r.open = false

	return r.store.Close()
}

func (r *Registry) checkOpen() error {
	r.RLock()
	defer r.RUnlock()

	if !r.open {
		return ErrNotOpen
	}

	return nil
}

func (r *Registry) lockFor(id string) *sync.Mutex {
	return &r.locks[util.Stripe(id, lockStripes)]
}

// AddDevice hydrates a partial device and upserts it by id
func (r *Registry) AddDevice(ctx context.Context, p Partial) (string, error) {
	if err := r.checkOpen(); err != nil {
		return "", err
	}

	now := r.now()

	d, err := Hydrate(p, now)
	if err != nil {
		return "", err
	}

	if err = d.Validate(); err != nil {
		return "", err
	}

	mu := r.lockFor(d.ID)
	mu.Lock()
	defer mu.Unlock()

	old, err := r.store.Get(ctx, d.ID)
	switch errors.Cause(err) {
	case nil:
		// replacing, refreshing the update time unless it was given
		if p.LastUpdated == "" {
			d.LastUpdated = Timestamp(now)
		}

		if changes, derr := util.ChangedFields(old, d); derr == nil {
			r.Logger().Debug(
				"updating device",
				zap.String("id", d.ID),
				zap.Strings("changed", changes),
			)
		}
	case ErrDeviceNotFound:
		r.Logger().Debug("adding device", zap.String("id", d.ID), zap.String("type", string(d.Type)))
	default:
		return "", errors.Wrapf(err, "failed to look up device %s", d.ID)
	}

	if err = r.store.Put(ctx, d); err != nil {
		return "", errors.Wrapf(err, "failed to store %s", d.IDString())
	}

	if r.cache != nil {
		if err = r.cache.Delete(d.ID); err != nil {
			r.Logger().Warn("failed to invalidate cached device", zap.String("id", d.ID), zap.Error(err))
		}
	}

	return d.ID, nil
}

// GetDevice returns a device by id, or nil when no such device exists
func (r *Registry) GetDevice(ctx context.Context, id string) (*Device, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}

	if r.cache != nil {
		if d, err := r.cache.Get(id); err == nil {
			return &d, nil
		}

		// filling the cache must not interleave with a write of the same id
		mu := r.lockFor(id)
		mu.Lock()
		defer mu.Unlock()
	}

	d, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrDeviceNotFound {
			return nil, nil
		}

		return nil, errors.Wrapf(err, "failed to get device %s", id)
	}

	if r.cache != nil {
		if err = r.cache.Put(d); err != nil {
			r.Logger().Warn("failed to cache device", zap.String("id", id), zap.Error(err))
		}
	}

	return &d, nil
}

// AllDevices returns every registered device
func (r *Registry) AllDevices(ctx context.Context) ([]Device, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}

	ds, err := r.store.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list devices")
	}

	return ds, nil
}

// DevicesBy returns devices matching a value of a secondary index
func (r *Registry) DevicesBy(ctx context.Context, index, value string) ([]Device, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}

	if err := checkIndex(index); err != nil {
		return nil, err
	}

	ds, err := r.store.ListByIndex(ctx, index, value)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list devices by %s", index)
	}

	return ds, nil
}

// DeleteDevice removes a device, deleting a missing device is not an error
func (r *Registry) DeleteDevice(ctx context.Context, id string) error {
	if err := r.checkOpen(); err != nil {
		return err
	}

	mu := r.lockFor(id)
	mu.Lock()
	defer mu.Unlock()

	if err := r.store.Delete(ctx, id); err != nil {
		return errors.Wrapf(err, "failed to delete device %s", id)
	}

	if r.cache != nil {
		if err := r.cache.Delete(id); err != nil {
			r.Logger().Warn("failed to invalidate cached device", zap.String("id", id), zap.Error(err))
		}
	}

	return nil
}
