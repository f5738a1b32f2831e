package device

import (
	"time"

	"github.com/allegro/bigcache"
	"github.com/pkg/errors"
)

// Cache is a read cache in front of a device store
type Cache interface {
	Put(d Device) error
	Get(id string) (Device, error)
	Delete(id string) error
}

type defaultCache struct {
	backend *bigcache.BigCache
}

// NewDefaultCache initializes a bigcache-backed device cache
func NewDefaultCache(eviction time.Duration) (Cache, error) {
	config := bigcache.DefaultConfig(eviction)
	config.Shards = 64
	config.HardMaxCacheSize = 32

	backend, err := bigcache.NewBigCache(config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize default cache")
	}

	return &defaultCache{backend: backend}, nil
}

func (c *defaultCache) Put(d Device) error {
	data, err := json.Marshal(d)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal cached %s", d.IDString())
	}

	return errors.Wrapf(c.backend.Set(d.ID, data), "failed to cache %s", d.IDString())
}

// Get returns ErrCacheMiss for anything not retrievable
func (c *defaultCache) Get(id string) (d Device, err error) {
	data, err := c.backend.Get(id)
	if err != nil {
		return d, ErrCacheMiss
	}

	if err = json.Unmarshal(data, &d); err != nil {
		return d, ErrCacheMiss
	}

	return d, nil
}

// Delete removes an entry, absent entries are not an error
func (c *defaultCache) Delete(id string) error {
	c.backend.Delete(id)
	return nil
}
