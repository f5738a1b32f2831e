package device

import (
	"context"

	"github.com/dgraph-io/badger"
	"github.com/pkg/errors"
)

// BadgerStore keeps devices in a badger directory; records live under
// `device:{id}`, index entries under `idx:{index}\x00{value}\x00{id}`
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) a badger directory at a given path
func OpenBadgerStore(path string) (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions(path))
	if err != nil {
		return nil, errors.Wrapf(ErrStorageUnavailable, "failed to open badger dir %s: %s", path, err)
	}

	return NewBadgerStore(db)
}

// NewBadgerStore initializing badger store
func NewBadgerStore(db *badger.DB) (*BadgerStore, error) {
	if db == nil {
		return nil, ErrNilDatabase
	}

	return &BadgerStore{db: db}, nil
}

func badgerDeviceKey(id string) []byte {
	return []byte("device:" + id)
}

func badgerIndexPrefix(index, value string) []byte {
	return []byte("idx:" + index + "\x00" + value + "\x00")
}

func badgerIndexKey(index, value, id string) []byte {
	return append(badgerIndexPrefix(index, value), id...)
}

// Init is a no-op, badger has no schema
func (s *BadgerStore) Init(ctx context.Context) error {
	return nil
}

func badgerGet(txn *badger.Txn, id string) (d Device, err error) {
	item, err := txn.Get(badgerDeviceKey(id))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return d, ErrDeviceNotFound
		}

		return d, errors.Wrapf(err, "failed to read device %s", id)
	}

	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &d)
	})

	return d, err
}

// Get returns a device by id
func (s *BadgerStore) Get(ctx context.Context, id string) (d Device, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		d, err = badgerGet(txn, id)
		return err
	})

	return d, err
}

func deleteBadgerIndexes(txn *badger.Txn, d Device) error {
	for _, idx := range Indexes {
		v, _ := d.IndexValue(idx)
		if err := txn.Delete(badgerIndexKey(idx, v, d.ID)); err != nil {
			return errors.Wrapf(err, "failed to delete %s index", idx)
		}
	}

	return nil
}

// Put stores a device, replacing the previous one with the same id
func (s *BadgerStore) Put(ctx context.Context, d Device) error {
	if d.ID == "" {
		return ErrInvalidDeviceID
	}

	data, err := json.Marshal(d)
	if err != nil {
		return errors.Wrap(err, "failed to marshal device")
	}

	return s.db.Update(func(txn *badger.Txn) error {
		old, err := badgerGet(txn, d.ID)
		switch err {
		case nil:
			if err = deleteBadgerIndexes(txn, old); err != nil {
				return err
			}
		case ErrDeviceNotFound:
		default:
			return err
		}

		if err = txn.Set(badgerDeviceKey(d.ID), data); err != nil {
			return errors.Wrapf(err, "failed to store %s", d.IDString())
		}

		for _, idx := range Indexes {
			v, _ := d.IndexValue(idx)
			if err = txn.Set(badgerIndexKey(idx, v, d.ID), []byte(d.ID)); err != nil {
				return errors.Wrapf(err, "failed to store %s index", idx)
			}
		}

		return nil
	})
}

// Delete removes a device and its index entries, missing ids are ignored
func (s *BadgerStore) Delete(ctx context.Context, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		d, err := badgerGet(txn, id)
		if err != nil {
			if err == ErrDeviceNotFound {
				return nil
			}

			return err
		}

		if err = deleteBadgerIndexes(txn, d); err != nil {
			return err
		}

		return txn.Delete(badgerDeviceKey(id))
	})
}

// List returns every stored device
func (s *BadgerStore) List(ctx context.Context) ([]Device, error) {
	ds := make([]Device, 0)
	prefix := []byte("device:")

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var d Device
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &d)
			})

			if err != nil {
				return errors.Wrapf(err, "failed to unmarshal stored device %s", it.Item().Key())
			}

			ds = append(ds, d)
		}

		return nil
	})

	return ds, err
}

// ListByIndex returns devices whose indexed field equals a given value
func (s *BadgerStore) ListByIndex(ctx context.Context, index, value string) ([]Device, error) {
	if err := checkIndex(index); err != nil {
		return nil, err
	}

	ds := make([]Device, 0)
	prefix := badgerIndexPrefix(index, value)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			id := string(it.Item().Key()[len(prefix):])

			d, err := badgerGet(txn, id)
			if err != nil {
				if err == ErrDeviceNotFound {
					continue
				}

				return err
			}

			ds = append(ds, d)
		}

		return nil
	})

	return ds, err
}

// Close closes the underlying badger database
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
