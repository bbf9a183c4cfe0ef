package commands

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/budgetviz/budgetviz/internal/budget"
	"github.com/budgetviz/budgetviz/internal/buildinfo"
	"github.com/budgetviz/budgetviz/internal/config"
	"github.com/budgetviz/budgetviz/internal/importer"
	"github.com/budgetviz/budgetviz/internal/logger"
	"github.com/budgetviz/budgetviz/internal/store"
)

// app carries state shared by subcommands after the root pre-run.
type app struct {
	dir string
	cfg *config.Config
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "budgetviz",
		Short:   "Import and browse UPI passbook transactions",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.dir, "dir", ".", "project directory")

	rootCmd.AddCommand(
		newInitCommand(),
		newImportCommand(a),
		newListCommand(a),
		newFiltersCommand(a),
		newSummaryCommand(a),
		newHistoryCommand(a),
	)

	return rootCmd
}

// setup loads the project config and attaches a logger to the command context.
func (a *app) setup(cmd *cobra.Command) error {
	absDir, err := filepath.Abs(a.dir)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}
	a.dir = absDir

	cfg, err := config.LoadOrDefault(a.dir)
	if err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logger.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	cmd.SetContext(logger.WithContext(cmd.Context(), log))
	return nil
}

func (a *app) logger(cmd *cobra.Command) zerolog.Logger {
	return logger.FromContext(cmd.Context())
}

// openStore opens the configured store and warns about records it could
// not read. The caller closes it.
func (a *app) openStore(log zerolog.Logger) (store.Store, error) {
	st, err := store.Open(a.cfg.Store.Driver, a.cfg.StorePath(a.dir))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	if js, ok := st.(*store.JSON); ok {
		for _, err := range js.Skipped() {
			log.Warn().Err(err).Msg("skipping unreadable stored record")
		}
	}
	return st, nil
}

func (a *app) newService(st store.Store, log zerolog.Logger) *budget.Service {
	registry := importer.DefaultRegistry(a.cfg.Import.SheetName)
	parser := importer.NewParser(registry, importer.NewNormalizer(a.cfg.Import.DefaultCategory), log)
	return budget.NewService(parser, st, log)
}

// openService opens the configured store and wraps it in a Service.
// The returned func closes the store.
func (a *app) openService(cmd *cobra.Command) (*budget.Service, func(), error) {
	log := a.logger(cmd)
	st, err := a.openStore(log)
	if err != nil {
		return nil, nil, err
	}
	return a.newService(st, log), func() { _ = st.Close() }, nil
}
