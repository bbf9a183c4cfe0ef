package store

import (
	"sync"

	"github.com/budgetviz/budgetviz/internal/model"
)

// Memory is an in-process Store used for tests and dry runs.
type Memory struct {
	mu   sync.Mutex
	txns []model.Transaction
	refs refIndex
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{refs: make(refIndex)}
}

// Insert implements Store.
func (m *Memory) Insert(txns []model.Transaction) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inserted := 0
	for _, txn := range txns {
		if m.refs.has(txn.UPIRef) {
			continue
		}
		m.refs.add(txn.UPIRef)
		m.txns = append(m.txns, txn)
		inserted++
	}
	return inserted, nil
}

// All implements Store.
func (m *Memory) All() ([]model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Transaction, len(m.txns))
	copy(out, m.txns)
	return out, nil
}

// Close implements Store.
func (m *Memory) Close() error { return nil }
