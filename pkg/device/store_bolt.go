package device

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

var deviceBucket = []byte("DEVICE")

// BoltStore keeps devices in a bbolt file; every secondary index is a
// top-level bucket of its own holding `value\x00id` keys, so device ids
// never share a keyspace with the indexes
type BoltStore struct {
	db *bbolt.DB
}

// OpenBoltStore opens (or creates) a bbolt file at a given path
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(ErrStorageUnavailable, "failed to open bolt file %s: %s", path, err)
	}

	return NewBoltStore(db)
}

// NewBoltStore initializing bbolt store
func NewBoltStore(db *bbolt.DB) (*BoltStore, error) {
	if db == nil {
		return nil, ErrNilDatabase
	}

	return &BoltStore{db: db}, nil
}

func indexBucketName(index string) []byte {
	return []byte("DEVICE_IDX_" + strings.ToUpper(index))
}

func indexKey(value, id string) []byte {
	return []byte(value + "\x00" + id)
}

// Init creates pre-defined buckets if they don't exist yet
func (s *BoltStore) Init(ctx context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(deviceBucket); err != nil {
			return errors.Wrap(err, "failed to create device bucket")
		}

		for _, idx := range Indexes {
			if _, err := tx.CreateBucketIfNotExists(indexBucketName(idx)); err != nil {
				return errors.Wrapf(err, "failed to create %s index", idx)
			}
		}

		return nil
	})
}

func (s *BoltStore) bucket(tx *bbolt.Tx) (*bbolt.Bucket, error) {
	b := tx.Bucket(deviceBucket)
	if b == nil {
		return nil, errors.Wrap(ErrStorageUnavailable, "device bucket is not initialized")
	}

	return b, nil
}

func (s *BoltStore) indexBucket(tx *bbolt.Tx, index string) (*bbolt.Bucket, error) {
	b := tx.Bucket(indexBucketName(index))
	if b == nil {
		return nil, errors.Wrapf(ErrStorageUnavailable, "%s index is not initialized", index)
	}

	return b, nil
}

// Get returns a device by id
func (s *BoltStore) Get(ctx context.Context, id string) (d Device, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		b, err := s.bucket(tx)
		if err != nil {
			return err
		}

		data := b.Get([]byte(id))
		if data == nil {
			return ErrDeviceNotFound
		}

		return json.Unmarshal(data, &d)
	})

	return d, err
}

// Put stores a device, replacing the previous one with the same id
func (s *BoltStore) Put(ctx context.Context, d Device) error {
	if d.ID == "" {
		return ErrInvalidDeviceID
	}

	data, err := json.Marshal(d)
	if err != nil {
		return errors.Wrap(err, "failed to marshal device")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := s.bucket(tx)
		if err != nil {
			return err
		}

		// dropping index entries of the previous version
		if prev := b.Get([]byte(d.ID)); prev != nil {
			var old Device
			if err = json.Unmarshal(prev, &old); err != nil {
				return errors.Wrapf(err, "failed to unmarshal stored %s", d.IDString())
			}

			if err = s.deleteIndexes(tx, old); err != nil {
				return err
			}
		}

		if err = b.Put([]byte(d.ID), data); err != nil {
			return errors.Wrapf(err, "failed to store %s", d.IDString())
		}

		for _, idx := range Indexes {
			ib, err := s.indexBucket(tx, idx)
			if err != nil {
				return err
			}

			v, _ := d.IndexValue(idx)
			if err = ib.Put(indexKey(v, d.ID), []byte(d.ID)); err != nil {
				return errors.Wrapf(err, "failed to store %s index", idx)
			}
		}

		return nil
	})
}

func (s *BoltStore) deleteIndexes(tx *bbolt.Tx, d Device) error {
	for _, idx := range Indexes {
		ib, err := s.indexBucket(tx, idx)
		if err != nil {
			return err
		}

		v, _ := d.IndexValue(idx)
		if err = ib.Delete(indexKey(v, d.ID)); err != nil {
			return errors.Wrapf(err, "failed to delete %s index", idx)
		}
	}

	return nil
}

// Delete removes a device and its index entries, missing ids are ignored
func (s *BoltStore) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := s.bucket(tx)
		if err != nil {
			return err
		}

		data := b.Get([]byte(id))
		if data == nil {
			return nil
		}

		var d Device
		if err = json.Unmarshal(data, &d); err != nil {
			return errors.Wrapf(err, "failed to unmarshal stored device %s", id)
		}

		if err = s.deleteIndexes(tx, d); err != nil {
			return err
		}

		return b.Delete([]byte(id))
	})
}

// List returns every stored device
func (s *BoltStore) List(ctx context.Context) ([]Device, error) {
	ds := make([]Device, 0)

	err := s.db.View(func(tx *bbolt.Tx) error {
		b, err := s.bucket(tx)
		if err != nil {
			return err
		}

		return b.ForEach(func(k, v []byte) error {
			var d Device
			if err := json.Unmarshal(v, &d); err != nil {
				return errors.Wrapf(err, "failed to unmarshal stored device %s", k)
			}

			ds = append(ds, d)

			return nil
		})
	})

	return ds, err
}

// ListByIndex returns devices whose indexed field equals a given value
func (s *BoltStore) ListByIndex(ctx context.Context, index, value string) ([]Device, error) {
	if err := checkIndex(index); err != nil {
		return nil, err
	}

	ds := make([]Device, 0)
	prefix := indexKey(value, "")

	err := s.db.View(func(tx *bbolt.Tx) error {
		b, err := s.bucket(tx)
		if err != nil {
			return err
		}

		ib, err := s.indexBucket(tx, index)
		if err != nil {
			return err
		}

		c := ib.Cursor()
		for k, id := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, id = c.Next() {
			data := b.Get(id)
			if data == nil {
				// dangling index entry
				continue
			}

			var d Device
			if err := json.Unmarshal(data, &d); err != nil {
				return errors.Wrapf(err, "failed to unmarshal stored device %s", id)
			}

			ds = append(ds, d)
		}

		return nil
	})

	return ds, err
}

// Close closes the underlying bbolt file
func (s *BoltStore) Close() error {
	return s.db.Close()
}
