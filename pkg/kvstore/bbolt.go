package kvstore

import (
	"context"
	"errors"

	"go.etcd.io/bbolt"
)

// bucketName is the single bucket all keys live in. The vault is a flat
// namespace, so one bucket keeps file layout trivial.
var bucketName = []byte("sessionkit")

// Bolt implements Store backed by a bbolt database file. This is the
// backend used on-device: a single file under the app's data directory.
type Bolt struct {
	db *bbolt.DB
}

var (
	_ Store   = (*Bolt)(nil)
	_ Clearer = (*Bolt)(nil)
)

// NewBolt opens (or creates) a bbolt database at path.
func NewBolt(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrCorrupted, err)
	}

	return &Bolt{db: db}, nil
}

// NewBoltFromDB wraps an already opened bbolt database.
func NewBoltFromDB(db *bbolt.DB) (*Bolt, error) {
	err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		return nil, errors.Join(ErrCorrupted, err)
	}
	return &Bolt{db: db}, nil
}

// Close closes the underlying database.
func (b *Bolt) Close() error {
	return b.db.Close()
}

// Get retrieves the value stored under key.
func (b *Bolt) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return ErrCorrupted
		}
		data := bucket.Get([]byte(key))
		if data == nil {
			return ErrNotFound
		}
		value = make([]byte, len(data))
		copy(value, data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores value under key.
func (b *Bolt) Set(ctx context.Context, key string, value []byte) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return ErrCorrupted
		}
		return bucket.Put([]byte(key), value)
	})
}

// Remove deletes key. Missing keys are ignored.
func (b *Bolt) Remove(ctx context.Context, key string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return ErrCorrupted
		}
		return bucket.Delete([]byte(key))
	})
}

// RemoveAll deletes every key in keys within one transaction.
func (b *Bolt) RemoveAll(ctx context.Context, keys []string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return ErrCorrupted
		}
		for _, key := range keys {
			if err := bucket.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListKeys returns all keys currently present.
func (b *Bolt) ListKeys(ctx context.Context) ([]string, error) {
	var keys []string
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket == nil {
			return ErrCorrupted
		}
		return bucket.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Clear drops and recreates the bucket, wiping every key at once.
func (b *Bolt) Clear(ctx context.Context) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketName); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
}
