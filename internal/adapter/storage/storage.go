// Package storage implements the durable key-value store behind settings
// and admin credentials.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/niksmo/storefront/internal/core/port"
)

const (
	DriverBolt     = "bolt"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// Open returns the store selected by driver. For bolt, location is a file
// path; for postgres, a DSN; memory ignores it.
func Open(ctx context.Context, driver, location string) (port.KeyValueStore, error) {
	const op = "storage.Open"

	switch driver {
	case DriverBolt, "":
		s, err := NewBoltStore(location)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return s, nil
	case DriverPostgres:
		s, err := NewSQLStore(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return s, nil
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%s: %w: %q", op, ErrUnknownDriver, driver)
	}
}
