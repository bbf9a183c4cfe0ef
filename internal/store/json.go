package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/budgetviz/budgetviz/internal/model"
)

// transactionsTable is the collection name inside the JSON document.
const transactionsTable = "transactions"

// JSON stores transactions in a single JSON document of the form
// {"transactions": {"1": {...}, "2": {...}}}. Keys are numeric document
// ids that fix insertion order. Other top-level collections are preserved.
// The whole document is held in memory and rewritten after each insert
// that adds records.
//
// Records that cannot be read are left out of All but written back
// unchanged, and their upi_ref still counts as stored.
type JSON struct {
	mu         sync.Mutex
	path       string
	other      map[string]json.RawMessage
	txns       []model.Transaction
	docIDs     []int
	unreadable map[int]json.RawMessage
	skipped    []error
	nextID     int
	refs       refIndex
}

// OpenJSON loads the document at path, creating an empty one if needed.
func OpenJSON(path string) (*JSON, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	s := &JSON{
		path:   path,
		other:      make(map[string]json.RawMessage),
		unreadable: make(map[int]json.RawMessage),
		nextID:     1,
		refs:       make(refIndex),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.flush(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrStorageUnavailable, path, err)
	}

	if err := s.decode(data); err != nil {
		return nil, fmt.Errorf("%w: %s is corrupt: %w", ErrStorageUnavailable, path, err)
	}
	return s, nil
}

func (s *JSON) decode(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var tables map[string]json.RawMessage
	if err := json.Unmarshal(nullNonFinite(data), &tables); err != nil {
		return fmt.Errorf("decoding document: %w", err)
	}

	raw, ok := tables[transactionsTable]
	delete(tables, transactionsTable)
	if tables != nil {
		s.other = tables
	}
	if !ok {
		return nil
	}

	var docs map[string]json.RawMessage
	if err := json.Unmarshal(raw, &docs); err != nil {
		return fmt.Errorf("decoding %s: %w", transactionsTable, err)
	}

	ids := make([]int, 0, len(docs))
	for key := range docs {
		id, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("invalid document id %q: %w", key, err)
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		if id >= s.nextID {
			s.nextID = id + 1
		}
		body := docs[strconv.Itoa(id)]

		var doc document
		if err := json.Unmarshal(body, &doc); err != nil {
			s.skip(id, body, fmt.Errorf("record %d: %w", id, err))
			continue
		}
		txn, err := fromDocument(doc)
		if err != nil {
			s.skip(id, body, err)
			if doc.UPIRef != "" {
				s.refs.add(doc.UPIRef)
			}
			continue
		}
		// Duplicates written by other tools are kept as-is.
		s.txns = append(s.txns, txn)
		s.docIDs = append(s.docIDs, id)
		s.refs.add(txn.UPIRef)
	}
	return nil
}

func (s *JSON) skip(id int, body json.RawMessage, err error) {
	s.unreadable[id] = body
	s.skipped = append(s.skipped, err)
}

// Skipped returns one error per record that could not be read on open.
func (s *JSON) Skipped() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]error(nil), s.skipped...)
}

// nullNonFinite replaces the bare NaN, Infinity and -Infinity tokens that
// Python's json module writes with null, leaving string contents alone.
func nullNonFinite(data []byte) []byte {
	tokens := [][]byte{[]byte("-Infinity"), []byte("Infinity"), []byte("NaN")}

	out := make([]byte, 0, len(data))
	inString, escaped := false, false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			out = append(out, c)
			continue
		}
		if c == '"' {
			inString = true
			out = append(out, c)
			continue
		}

		replaced := false
		for _, tok := range tokens {
			if bytes.HasPrefix(data[i:], tok) {
				out = append(out, "null"...)
				i += len(tok) - 1
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, c)
		}
	}
	return out
}

// Insert implements Store.
func (s *JSON) Insert(txns []model.Transaction) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mark := len(s.txns)
	nextID := s.nextID
	var added []string
	for _, txn := range txns {
		if s.refs.has(txn.UPIRef) {
			continue
		}
		s.refs.add(txn.UPIRef)
		added = append(added, txn.UPIRef)
		s.txns = append(s.txns, txn)
		s.docIDs = append(s.docIDs, s.nextID)
		s.nextID++
	}
	if len(added) == 0 {
		return 0, nil
	}

	if err := s.flush(); err != nil {
		s.txns = s.txns[:mark]
		s.docIDs = s.docIDs[:mark]
		s.nextID = nextID
		for _, ref := range added {
			delete(s.refs, ref)
		}
		return 0, err
	}
	return len(added), nil
}

// All implements Store.
func (s *JSON) All() ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Transaction, len(s.txns))
	copy(out, s.txns)
	return out, nil
}

// Close implements Store. Every insert is already flushed.
func (s *JSON) Close() error { return nil }

// flush writes the document to a temp file and renames it over path.
func (s *JSON) flush() error {
	docs := make(map[string]any, len(s.txns)+len(s.unreadable))
	for i, txn := range s.txns {
		docs[strconv.Itoa(s.docIDs[i])] = toDocument(txn)
	}
	for id, body := range s.unreadable {
		docs[strconv.Itoa(id)] = body
	}

	tables := make(map[string]any, len(s.other)+1)
	for name, raw := range s.other {
		tables[name] = raw
	}
	tables[transactionsTable] = docs

	data, err := json.Marshal(tables)
	if err != nil {
		return fmt.Errorf("%w: encoding document: %w", ErrStorageUnavailable, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".budgetviz-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %w", ErrStorageUnavailable, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: writing %s: %w", ErrStorageUnavailable, s.path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: writing %s: %w", ErrStorageUnavailable, s.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrStorageUnavailable, s.path, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: replacing %s: %w", ErrStorageUnavailable, s.path, err)
	}
	return nil
}
