package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"schemaboard/internal/render"
	"schemaboard/internal/store"
)

func newCatalogCmd(c *cli) *cobra.Command {
	var (
		filter  string
		columns bool
	)
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the tables of the configured catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(cmd.Context(), c.cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, t := range cat.Filter(filter, c.cfg.CaseSensitive) {
				fmt.Fprintf(out, "%-16s %-28s %d columns\n", t.ID, t.Name, len(t.Columns))
				if !columns {
					continue
				}
				for _, col := range t.Columns {
					fmt.Fprintf(out, "    %-24s %s\n", col.Name, col.DataType)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "only tables whose name contains this text")
	cmd.Flags().BoolVar(&columns, "columns", false, "list the columns of each table")
	return cmd
}

func newExportCmd(c *cli) *cobra.Command {
	var (
		diagramFile string
		format      string
		out         string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a saved diagram to PNG or text",
		Example: `  schemaboard export --diagram shop.yaml --out shop.png
  schemaboard export --diagram shop.yaml --format txt --out shop.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(out), ".")
			}
			format = strings.ToLower(format)

			logger, closer, err := newLogger(c.cfg.LogFile)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer closer.Close()

			cat, err := loadCatalog(cmd.Context(), c.cfg)
			if err != nil {
				return err
			}
			canvas := newCanvas(c.cfg, logger)
			if err := store.Load(diagramFile, cat, canvas); err != nil {
				if canvas.Len() == 0 {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
			}

			g := c.cfg.Geometry
			switch format {
			case "png":
				err = g.WritePNG(out, canvas.List(), canvas.Connections())
			case "txt", "text":
				var lines []string
				lines, err = g.Text(canvas.List(), canvas.Connections())
				if err == nil {
					err = render.WriteText(out, lines)
				}
			default:
				return fmt.Errorf("unsupported format %q (valid: png, txt)", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&diagramFile, "diagram", "", "diagram file to render")
	cmd.Flags().StringVar(&format, "format", "", "png or txt (default: from --out extension)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	cmd.MarkFlagRequired("diagram")
	cmd.MarkFlagRequired("out")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the schemaboard version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "schemaboard", version)
		},
	}
}
