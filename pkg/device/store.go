package device

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Store represents a device storage backend
type Store interface {
	Init(ctx context.Context) error
	Get(ctx context.Context, id string) (Device, error)
	Put(ctx context.Context, d Device) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Device, error)
	ListByIndex(ctx context.Context, index, value string) ([]Device, error)
	Close() error
}

type memoryStore struct {
	devices map[string]Device
	sync.RWMutex
}

// NewMemoryStore returns a store which keeps devices in memory only
func NewMemoryStore() Store {
	return &memoryStore{
		devices: make(map[string]Device),
	}
}

func (s *memoryStore) Init(ctx context.Context) error {
	return nil
}

func (s *memoryStore) Get(ctx context.Context, id string) (Device, error) {
	s.RLock()
	d, ok := s.devices[id]
	s.RUnlock()

	if !ok {
		return d, ErrDeviceNotFound
	}

	return d, nil
}

func (s *memoryStore) Put(ctx context.Context, d Device) error {
	if d.ID == "" {
		return ErrInvalidDeviceID
	}

	s.Lock()
	s.devices[d.ID] = d
	s.Unlock()

	return nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.Lock()
	delete(s.devices, id)
	s.Unlock()

	return nil
}

func (s *memoryStore) List(ctx context.Context) ([]Device, error) {
	s.RLock()
	ds := make([]Device, 0, len(s.devices))
	for id := range s.devices {
		ds = append(ds, s.devices[id])
	}
	s.RUnlock()

	sortByID(ds)

	return ds, nil
}

func (s *memoryStore) ListByIndex(ctx context.Context, index, value string) ([]Device, error) {
	if err := checkIndex(index); err != nil {
		return nil, err
	}

	ds := make([]Device, 0)

	s.RLock()
	defer s.RUnlock()

	for _, d := range s.devices {
		if v, _ := d.IndexValue(index); v == value {
			ds = append(ds, d)
		}
	}

	sortByID(ds)

	return ds, nil
}

func (s *memoryStore) Close() error {
	return nil
}

func sortByID(ds []Device) {
	sort.Slice(ds, func(i, j int) bool { return ds[i].ID < ds[j].ID })
}

// checkIndex makes sure a given index is maintained by the stores
func checkIndex(index string) error {
	for _, idx := range Indexes {
		if idx == index {
			return nil
		}
	}

	return errors.Wrap(ErrUnknownIndex, index)
}
