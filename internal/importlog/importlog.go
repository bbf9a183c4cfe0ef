package importlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Status values recorded for an import.
const (
	StatusImported = "imported"
	StatusEmpty    = "empty"
	StatusFailed   = "failed"
	StatusDryRun   = "dry-run"
)

// Entry is one row in the import log.
type Entry struct {
	Timestamp time.Time
	File      string
	Status    string
	Rows      int
	Parsed    int
	Inserted  int
	Skipped   int
	Error     string
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,file,status,rows,parsed,inserted,skipped,error"

const (
	numFields    = 8
	logDir       = "logs"
	logFile      = "import-log.csv"
	colTimestamp = 0
	colFile      = 1
	colStatus    = 2
	colRows      = 3
	colParsed    = 4
	colInserted  = 5
	colSkipped   = 6
	colError     = 7
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colFile] = e.File
	row[colStatus] = e.Status
	row[colRows] = strconv.Itoa(e.Rows)
	row[colParsed] = strconv.Itoa(e.Parsed)
	row[colInserted] = strconv.Itoa(e.Inserted)
	row[colSkipped] = strconv.Itoa(e.Skipped)
	row[colError] = e.Error
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	var counts [4]int
	for i, col := range []int{colRows, colParsed, colInserted, colSkipped} {
		counts[i], err = strconv.Atoi(record[col])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing count %q: %w", record[col], err)
		}
	}

	return Entry{
		Timestamp: ts,
		File:      record[colFile],
		Status:    record[colStatus],
		Rows:      counts[0],
		Parsed:    counts[1],
		Inserted:  counts[2],
		Skipped:   counts[3],
		Error:     record[colError],
	}, nil
}

// Path returns the log file location under a project directory.
func Path(projectDir string) string {
	return filepath.Join(projectDir, logDir, logFile)
}

// Append writes entries to <projectDir>/logs/import-log.csv, creating the file and header if needed.
func Append(projectDir string, entries []Entry) error {
	dir := filepath.Join(projectDir, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := Path(projectDir)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <projectDir>/logs/import-log.csv.
// Returns an empty slice if the file does not exist.
func Read(projectDir string) ([]Entry, error) {
	f, err := os.Open(Path(projectDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
