package commands

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/budgetviz/budgetviz/internal/budget"
	"github.com/budgetviz/budgetviz/internal/importer"
	"github.com/budgetviz/budgetviz/internal/importlog"
	"github.com/budgetviz/budgetviz/internal/store"
)

func newImportCommand(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import passbook CSV or Excel exports",
		Long: "Import passbook CSV or Excel exports. With no arguments, every " +
			"supported file in the import directory is imported and moved to " +
			"import/processed/ on success.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runImport(cmd, args, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and count without saving")

	return cmd
}

func (a *app) runImport(cmd *cobra.Command, paths []string, dryRun bool) error {
	log := a.logger(cmd)
	out := cmd.OutOrStdout()

	importDir := a.cfg.ImportDir(a.dir)
	scanned := len(paths) == 0
	if scanned {
		files, err := importer.DefaultRegistry(a.cfg.Import.SheetName).Scan(importDir)
		if err != nil {
			return err
		}
		for _, f := range files {
			paths = append(paths, f.Path)
		}
		if len(paths) == 0 {
			fmt.Fprintf(out, "No files to import in %s\n", importDir)
			return nil
		}
	}

	st, err := a.openStore(log)
	if err != nil {
		return err
	}
	defer st.Close()

	if dryRun {
		st, err = shadowStore(st)
		if err != nil {
			return err
		}
	}
	svc := a.newService(st, log)

	var entries []importlog.Entry
	failed := 0
	for _, path := range paths {
		res, err := svc.Import(path)
		entry := logEntry(path, res, err, dryRun)
		entries = append(entries, entry)

		switch {
		case errors.Is(err, store.ErrStorageUnavailable):
			a.appendLog(cmd, entries)
			return err
		case err != nil:
			failed++
			fmt.Fprintf(cmd.ErrOrStderr(), "Could not import %s: %v\n", filepath.Base(path), err)
			continue
		case res.Parsed == 0:
			fmt.Fprintf(out, "No transactions parsed from %s.\n", res.File)
		case dryRun:
			fmt.Fprintf(out, "Would save %d transactions from %s (%d duplicates, %d rows skipped).\n",
				res.Inserted, res.File, res.Duplicates(), res.Skipped)
		default:
			fmt.Fprintf(out, "Saved %d transactions from %s (%d duplicates, %d rows skipped).\n",
				res.Inserted, res.File, res.Duplicates(), res.Skipped)
		}

		if scanned && !dryRun {
			if err := importer.MarkProcessed(importDir, filepath.Base(path)); err != nil {
				log.Warn().Err(err).Str("file", path).Msg("could not move imported file")
			}
		}
	}

	a.appendLog(cmd, entries)

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be imported", failed, len(paths))
	}
	return nil
}

// shadowStore copies the stored transactions into a memory store so a dry
// run reports real duplicate counts without writing.
func shadowStore(st store.Store) (store.Store, error) {
	existing, err := st.All()
	if err != nil {
		return nil, err
	}
	mem := store.NewMemory()
	if _, err := mem.Insert(existing); err != nil {
		return nil, err
	}
	return mem, nil
}

func logEntry(path string, res budget.ImportResult, err error, dryRun bool) importlog.Entry {
	e := importlog.Entry{
		Timestamp: time.Now().UTC(),
		File:      filepath.Base(path),
		Rows:      res.Rows,
		Parsed:    res.Parsed,
		Inserted:  res.Inserted,
		Skipped:   res.Skipped,
	}
	switch {
	case err != nil:
		e.Status = importlog.StatusFailed
		e.Error = err.Error()
	case dryRun:
		e.Status = importlog.StatusDryRun
	case res.Parsed == 0:
		e.Status = importlog.StatusEmpty
	default:
		e.Status = importlog.StatusImported
	}
	return e
}

func (a *app) appendLog(cmd *cobra.Command, entries []importlog.Entry) {
	if err := importlog.Append(a.dir, entries); err != nil {
		log := a.logger(cmd)
		log.Warn().Err(err).Msg("failed to write import log")
	}
}
