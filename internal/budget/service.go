// Package budget exposes the import pipeline and transaction store behind
// the three calls the presentation layer uses.
package budget

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/budgetviz/budgetviz/internal/importer"
	"github.com/budgetviz/budgetviz/internal/model"
	"github.com/budgetviz/budgetviz/internal/store"
)

// Service ties a Parser to an explicitly owned Store.
type Service struct {
	parser *importer.Parser
	store  store.Store
	log    zerolog.Logger
}

// NewService creates a Service. The caller owns st and closes it.
func NewService(parser *importer.Parser, st store.Store, log zerolog.Logger) *Service {
	return &Service{parser: parser, store: st, log: log}
}

// ImportResult summarizes one imported file.
type ImportResult struct {
	File     string
	Rows     int // data rows read
	Parsed   int // rows normalized into transactions
	Skipped  int // rows dropped by normalization
	Inserted int // transactions newly stored
}

// Duplicates is the number of parsed transactions already in the store.
func (r ImportResult) Duplicates() int {
	return r.Parsed - r.Inserted
}

// ParseFile parses path, returning an empty list on any file-level failure.
func (s *Service) ParseFile(path string) []model.Transaction {
	return s.parser.ParseFile(path)
}

// SaveTransactions stores every transaction whose UPI reference is new and
// returns how many were stored. Saving the same batch again stores nothing.
func (s *Service) SaveTransactions(txns []model.Transaction) (int, error) {
	n, err := s.store.Insert(txns)
	if err != nil {
		return 0, fmt.Errorf("saving transactions: %w", err)
	}
	s.log.Debug().Int("offered", len(txns)).Int("inserted", n).Msg("saved transactions")
	return n, nil
}

// GetAllTransactions returns every stored transaction in insertion order.
func (s *Service) GetAllTransactions() ([]model.Transaction, error) {
	txns, err := s.store.All()
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}
	return txns, nil
}

// Import parses path strictly and saves the result. File-level errors are
// returned rather than degraded, so callers can report them.
func (s *Service) Import(path string) (ImportResult, error) {
	res, err := s.parser.Parse(path)
	if err != nil {
		return ImportResult{}, err
	}

	out := ImportResult{
		File:    res.File,
		Rows:    res.Rows,
		Parsed:  len(res.Transactions),
		Skipped: len(res.Skipped),
	}
	if out.Parsed == 0 {
		return out, nil
	}

	out.Inserted, err = s.SaveTransactions(res.Transactions)
	if err != nil {
		return out, err
	}
	s.log.Info().Str("file", out.File).Int("parsed", out.Parsed).
		Int("inserted", out.Inserted).Int("skipped", out.Skipped).Msg("imported file")
	return out, nil
}
