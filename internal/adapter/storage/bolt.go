package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/storefront/internal/core/port"
	bolt "go.etcd.io/bbolt"
)

const (
	DefaultBoltPath = "storefront.db"
	boltOpenTimeout = time.Second
)

var settingsBucket = []byte("settings")

var _ port.KeyValueStore = (*BoltStore)(nil)

type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	const op = "NewBoltStore"
	log := slog.With("op", op)

	if path == "" {
		path = DefaultBoltPath
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: boltOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(settingsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: failed to create bucket: %w", op, err)
	}

	log.Info("bolt store is open", "path", path)
	return &BoltStore{db}, nil
}

func (s *BoltStore) Get(ctx context.Context, key string) (string, bool, error) {
	const op = "BoltStore.Get"

	if err := ctx.Err(); err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}

	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(settingsBucket).Get([]byte(key))
		if v != nil {
			value, found = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return value, found, nil
}

func (s *BoltStore) Set(ctx context.Context, key, value string) error {
	const op = "BoltStore.Set"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(settingsBucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *BoltStore) Close() error {
	const op = "BoltStore.Close"
	log := slog.With("op", op)

	log.Info("closing bolt store...")
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("bolt store is closed")
	return nil
}
