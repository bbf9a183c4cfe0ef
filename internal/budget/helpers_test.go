package budget

import (
	"github.com/budgetviz/budgetviz/internal/model"
	"github.com/budgetviz/budgetviz/internal/store"
)

type failingStore struct {
	called bool
}

func (f *failingStore) Insert([]model.Transaction) (int, error) {
	f.called = true
	return 0, store.ErrStorageUnavailable
}

func (f *failingStore) All() ([]model.Transaction, error) {
	return nil, store.ErrStorageUnavailable
}

func (f *failingStore) Close() error { return nil }
