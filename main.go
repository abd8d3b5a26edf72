package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"schemaboard/internal/catalog"
	"schemaboard/internal/schema"
)

const catalogTimeout = 15 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cli carries values shared by every command. cfg is filled in by the root
// PersistentPreRunE.
type cli struct {
	configFile string
	cfg        *Config
}

// flags that override config keys
var flagKeys = map[string]string{
	"source":  cfgKeySource,
	"dsn":     cfgKeyDSN,
	"catalog": cfgKeyCatalogPath,
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	var openFile string

	cmd := &cobra.Command{
		Use:   "schemaboard",
		Short: "Lay out database tables on a terminal canvas and link their columns",
		Long: `schemaboard shows the tables of a catalog next to a canvas. Drag tables
onto the canvas, move them around and draw links from one column to another.
The catalog comes from the built-in demo set, a YAML file, or a live
sqlite, postgres or mysql database.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			v, err := newViper(c.configFile)
			if err != nil {
				return err
			}
			for name, key := range flagKeys {
				if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(name)); err != nil {
					return fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
			c.cfg = configFrom(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), c.cfg, openFile)
		},
	}

	cmd.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default: ~/.schemaboard.yaml)")
	cmd.PersistentFlags().String("source", "", "catalog source: builtin, yaml, sqlite, postgres or mysql")
	cmd.PersistentFlags().String("dsn", "", "database connection string for sqlite, postgres or mysql")
	cmd.PersistentFlags().String("catalog", "", "catalog YAML file or sqlite database path")
	cmd.Flags().StringVar(&openFile, "open", "", "diagram file to open on start")

	cmd.AddCommand(newCatalogCmd(c))
	cmd.AddCommand(newExportCmd(c))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func loadCatalog(ctx context.Context, cfg *Config) (*schema.Catalog, error) {
	ctx, cancel := context.WithTimeout(ctx, catalogTimeout)
	defer cancel()

	cat, err := catalog.Load(ctx, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return cat, nil
}

func runTUI(ctx context.Context, cfg *Config, openFile string) error {
	logger, closer, err := newLogger(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closer.Close()

	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded", "source", string(cfg.Source.Kind), "tables", cat.Len())

	m := newModel(cfg, cat, newCanvas(cfg, logger), logger)
	if openFile != "" {
		m.openDiagram(openFile)
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
