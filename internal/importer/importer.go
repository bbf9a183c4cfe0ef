package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFileType is returned for extensions without a registered reader.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrFileRead is returned when a file cannot be opened or parsed as a table.
	ErrFileRead = errors.New("file read error")
	// ErrSchemaMismatch is returned when required columns are missing.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrRowNormalization marks a single row that could not be normalized.
	ErrRowNormalization = errors.New("row normalization error")
)

// TableReader converts an export file into a Table.
type TableReader interface {
	Read(r io.Reader) (*Table, error)
	Format() string
}

// Registry maps file extensions to table readers.
type Registry struct {
	readers map[string]TableReader
}

// FileInfo describes an importable file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]TableReader)}
}

// Register binds a reader to an extension such as ".csv". Panics on duplicate extension.
func (r *Registry) Register(ext string, tr TableReader) {
	key := normalizeExt(ext)
	if _, ok := r.readers[key]; ok {
		panic("duplicate reader extension: " + key)
	}
	r.readers[key] = tr
}

// Get returns the reader for an extension, or nil.
func (r *Registry) Get(ext string) TableReader {
	return r.readers[normalizeExt(ext)]
}

// Supports reports whether path has a registered extension.
func (r *Registry) Supports(path string) bool {
	return r.Get(filepath.Ext(path)) != nil
}

// DefaultRegistry returns a registry for passbook exports: CSV, and the
// named passbook sheet for .xls/.xlsx workbooks.
func DefaultRegistry(sheet string) *Registry {
	r := NewRegistry()
	r.Register(".csv", &CSVReader{})
	xlsx := &XLSXReader{Sheet: sheet}
	r.Register(".xlsx", xlsx)
	r.Register(".xls", xlsx)
	return r
}

// Load reads path with the reader registered for its extension.
func (r *Registry) Load(path string) (*Table, error) {
	ext := filepath.Ext(path)
	tr := r.Get(ext)
	if tr == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileRead, err)
	}
	defer f.Close()

	table, err := tr.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileRead, filepath.Base(path), err)
	}
	return table, nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// processedSubdir is where imported files are moved, relative to the import dir.
const processedSubdir = "processed"

// Scan returns files in importDir that the registry can read.
// A missing directory yields no files.
func (r *Registry) Scan(importDir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(importDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !r.Supports(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(importDir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from importDir to importDir/processed/.
func MarkProcessed(importDir, fileName string) error {
	src := filepath.Join(importDir, fileName)
	dstDir := filepath.Join(importDir, processedSubdir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
