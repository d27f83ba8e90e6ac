package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/bmtree/internal/arena"
	"github.com/nikbrunner/bmtree/internal/exporter"
	"github.com/nikbrunner/bmtree/internal/importer"
	"github.com/nikbrunner/bmtree/internal/tree"
)

func newImportCmd(a *App) *cobra.Command {
	var into string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a Netscape bookmark HTML export into the tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			items, err := importer.ParseHTML(f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			return a.run(func(t *tree.Tree) error {
				parent := t.Root()
				if into != "" {
					if parent, err = parseID(into); err != nil {
						return err
					}
				}
				res, err := importer.Import(t, parent, items)
				if err != nil {
					return err
				}
				writeOut(cmd, "Imported %d bookmarks and %d folders (%d folders merged, %d duplicates skipped, %d invalid)\n",
					res.Bookmarks, res.Folders, res.FoldersReused, res.Duplicates, res.Invalid)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&into, "into", "", "Folder id to import into (default: root)")
	return cmd
}

func newExportCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path|-]",
		Short: "Write the tree as Netscape bookmark HTML",
		Long:  "Write the tree as Netscape bookmark HTML. Defaults to ~/Downloads/bookmarks-export-YYYY-MM-DD.html; \"-\" writes to stdout.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(t *tree.Tree) error {
				root, err := t.Nested(t.Root(), arena.Unbounded)
				if err != nil {
					return err
				}
				doc := exporter.ExportHTML(root)

				path := optionalArg(args, 0)
				if path == "-" {
					writeOut(cmd, "%s", doc)
					return nil
				}
				if path == "" {
					if path, err = exporter.DefaultExportPath(); err != nil {
						return err
					}
				}
				if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
					return err
				}
				if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
					return err
				}
				writeOut(cmd, "Exported to %s\n", path)
				return nil
			})
		},
	}
}
