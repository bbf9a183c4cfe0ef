// Package store persists transactions with insert-if-absent semantics keyed
// by UPI reference.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/budgetviz/budgetviz/internal/model"
)

// ErrStorageUnavailable is returned when the backing store cannot be
// created, read, or written.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Store is an append-only transaction collection.
type Store interface {
	// Insert stores each transaction whose UPIRef is not already present,
	// in order, and returns how many were stored. Later duplicates within
	// the same batch are skipped.
	Insert(txns []model.Transaction) (int, error)
	// All returns every stored transaction in insertion order.
	All() ([]model.Transaction, error)
	Close() error
}

// Driver names accepted by Open.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Drivers lists the supported driver names.
var Drivers = []string{DriverJSON, DriverSQLite, DriverMemory}

// Open opens the store for driver at path. The memory driver ignores path.
func Open(driver, path string) (Store, error) {
	switch driver {
	case DriverJSON, "":
		return OpenJSON(path)
	case DriverSQLite:
		return OpenSQLite(path)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: creating store dir: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// refIndex tracks which UPI references are stored.
type refIndex map[string]struct{}

func (idx refIndex) has(ref string) bool {
	_, ok := idx[ref]
	return ok
}

func (idx refIndex) add(ref string) {
	idx[ref] = struct{}{}
}
