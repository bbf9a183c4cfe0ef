package importer

import (
	"errors"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/budgetviz/budgetviz/internal/model"
)

// Parser runs the load, validate, normalize pipeline for one file.
type Parser struct {
	registry   *Registry
	normalizer *Normalizer
	log        zerolog.Logger
}

// Result is the outcome of parsing one file.
type Result struct {
	File         string
	Rows         int
	Transactions []model.Transaction
	Skipped      []*RowError
}

// NewParser creates a Parser. Absent required text cells are logged as
// warnings unless the normalizer already has an OnAbsent hook.
func NewParser(registry *Registry, normalizer *Normalizer, log zerolog.Logger) *Parser {
	p := &Parser{registry: registry, normalizer: normalizer, log: log}
	if normalizer.OnAbsent == nil {
		normalizer.OnAbsent = func(line int, column string) {
			p.log.Warn().Int("line", line).Str("column", column).
				Msg("required cell is empty; stored as placeholder text")
		}
	}
	return p
}

// Parse loads path and normalizes every row. File-level failures
// (ErrUnsupportedFileType, ErrFileRead, ErrSchemaMismatch) are returned;
// row failures are logged and collected in Result.Skipped.
func (p *Parser) Parse(path string) (*Result, error) {
	table, err := p.registry.Load(path)
	if err != nil {
		return nil, err
	}
	if err := ValidateColumns(table.Columns); err != nil {
		return nil, err
	}

	res := &Result{File: filepath.Base(path), Rows: len(table.Rows)}
	for _, row := range table.Rows {
		txn, err := p.normalizer.Normalize(row)
		if err != nil {
			var rowErr *RowError
			if !errors.As(err, &rowErr) {
				rowErr = &RowError{Line: row.Line, Err: err}
			}
			p.log.Warn().Str("file", res.File).Int("line", rowErr.Line).
				Str("column", rowErr.Column).Err(rowErr.Err).Msg("skipping row")
			res.Skipped = append(res.Skipped, rowErr)
			continue
		}
		res.Transactions = append(res.Transactions, txn)
	}
	return res, nil
}

// ParseFile is the degrading form of Parse: any file-level failure is
// logged and yields an empty, non-nil slice.
func (p *Parser) ParseFile(path string) []model.Transaction {
	res, err := p.Parse(path)
	if err != nil {
		p.log.Error().Err(err).Str("file", path).Msg("could not parse file")
		return []model.Transaction{}
	}
	if len(res.Transactions) == 0 {
		p.log.Warn().Str("file", path).Int("rows", res.Rows).Msg("no transactions parsed from file")
		return []model.Transaction{}
	}
	return res.Transactions
}
