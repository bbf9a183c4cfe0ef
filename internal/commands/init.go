package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/budgetviz/budgetviz/internal/config"
	"github.com/budgetviz/budgetviz/internal/store"
)

func newInitCommand() *cobra.Command {
	var driver string
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new budgetviz project",
		Args:  cobra.MaximumNArgs(1),
		// init writes the config, so it must not load one first.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, driver, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized budgetviz project at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&driver, "driver", store.DriverJSON, "store driver (json or sqlite)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing budgetviz.yaml")

	return cmd
}

func runInit(dir, driver string, force bool) error {
	cfg := config.Default()
	cfg.Store.Driver = driver
	if driver == store.DriverSQLite {
		cfg.Store.Path = filepath.Join("data", "db.sqlite")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	// Create directory structure.
	dirs := []string{
		"data",
		"logs",
		cfg.Import.Dir,
		filepath.Join(cfg.Import.Dir, "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write budgetviz.yaml.
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Create the empty store.
	st, err := store.Open(cfg.Store.Driver, cfg.StorePath(dir))
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	return st.Close()
}
