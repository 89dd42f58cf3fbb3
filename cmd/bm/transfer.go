package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fjvi/bm/internal/culler"
	"github.com/fjvi/bm/internal/exporter"
	"github.com/fjvi/bm/internal/importer"
	"github.com/fjvi/bm/internal/model"
)

func newImportCmd(c *cli) *cobra.Command {
	var (
		merge  bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import bookmarks from JSON or Netscape HTML",
		Long: `Import bookmarks from a JSON file or a browser's Netscape HTML export.

The format is taken from the file extension or sniffed from the content.
By default the import replaces all bookmarks; with --merge its top-level
entries are appended instead. Nothing changes if the file fails to parse.

Examples:
  bm import bookmarks.html
  bm import backup.json --merge
  bm import export.txt --format html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return model.EmptyOrMissing(err)
			}

			f := importer.Detect(path, data)
			if format != "" {
				if f, err = importer.ParseFormat(format); err != nil {
					return err
				}
			}

			before := len(culler.Links(c.engine.Index()))
			if merge {
				err = c.engine.ImportMerge(cmd.Context(), f, bytes.NewReader(data))
			} else {
				err = c.engine.Import(cmd.Context(), f, bytes.NewReader(data))
			}
			if err != nil {
				return err
			}
			if err := c.save(); err != nil {
				return err
			}

			after := len(culler.Links(c.engine.Index()))
			if merge {
				fmt.Fprintf(cmd.OutOrStdout(), "Merged %d bookmarks from %s (%d total)\n", after-before, path, after)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d bookmarks from %s\n", after, path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&merge, "merge", "m", false, "append to the existing bookmarks instead of replacing them")
	cmd.Flags().StringVarP(&format, "format", "f", "", "input format: json or html (default: detect)")
	return cmd
}

func newExportCmd(c *cli) *cobra.Command {
	var (
		format string
		icons  bool
	)

	cmd := &cobra.Command{
		Use:   "export [path]",
		Short: "Export bookmarks to JSON or Netscape HTML",
		Long: `Export all bookmarks. Without a path the file goes to
~/Downloads/bookmarks-export-YYYY-MM-DD.<format>.

Examples:
  bm export
  bm export --format json backup.json
  bm export --icons bookmarks.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := importer.ParseFormat(format)
			if err != nil {
				return err
			}

			var data []byte
			switch f {
			case importer.FormatJSON:
				data, err = c.engine.Export()
			default:
				var opts exporter.HTMLOptions
				if icons {
					opts.Icon = c.resolver().Lookup
				}
				var html string
				html, err = c.engine.ExportHTML(opts)
				data = []byte(html)
			}
			if err != nil {
				return err
			}

			outputPath := ""
			if len(args) > 0 {
				outputPath = args[0]
			} else if outputPath, err = exporter.DefaultExportPath(f.String()); err != nil {
				return err
			}

			if err := os.WriteFile(outputPath, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outputPath, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bookmarks to %s\n", len(culler.Links(c.engine.Index())), outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "html", "output format: json or html")
	cmd.Flags().BoolVar(&icons, "icons", false, "write favicon URLs into the HTML export")
	return cmd
}
