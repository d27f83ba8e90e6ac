package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/bmtree/internal/arena"
	"github.com/nikbrunner/bmtree/internal/search"
	"github.com/nikbrunner/bmtree/internal/tree"
)

func newShowCmd(a *App) *cobra.Command {
	var (
		depth  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Print the tree (or a subtree) with node ids",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(t *tree.Tree) error {
				root := t.Root()
				if len(args) == 1 {
					id, err := parseID(args[0])
					if err != nil {
						return err
					}
					root = id
				}

				if asJSON {
					out, err := t.NestedJSON(root, depth)
					if err != nil {
						return err
					}
					writeOut(cmd, "%s\n", out)
					return nil
				}

				n, err := t.Nested(root, depth)
				if err != nil {
					return err
				}
				var b strings.Builder
				writeOutline(&b, n, 0)
				writeOut(cmd, "%s", b.String())
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&depth, "depth", arena.Unbounded, "Maximum depth to print (-1 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the nested JSON representation")
	return cmd
}

func writeOutline(b *strings.Builder, n *arena.NestedNode, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	if n.IsBookmark() {
		fmt.Fprintf(b, "[%s] %s <%s>\n", n.ID, n.Title, n.URL)
		return
	}
	fmt.Fprintf(b, "[%s] %s/\n", n.ID, n.Title)
	for _, c := range n.Children {
		writeOutline(b, c, depth+1)
	}
}

func newFoldersCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "folders [query]",
		Short: "List folders, optionally fuzzy filtered by path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			return a.run(func(t *tree.Tree) error {
				for _, r := range search.FilterFolders(t.Folders(), query) {
					writeOut(cmd, "[%s] %s\n", r.Folder.ID, r.Folder.Path)
				}
				return nil
			})
		},
	}
}

func newStatsCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print folder and bookmark counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(t *tree.Tree) error {
				s := t.Stats()
				writeOut(cmd, "%d folders, %d bookmarks\n", s.Folders, s.Bookmarks)
				return nil
			})
		},
	}
}

func newToolbarCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toolbar",
		Short: "List or extend the toolbar",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List toolbar bookmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(t *tree.Tree) error {
				entries, err := t.ToolbarBookmarks()
				if err != nil {
					return err
				}
				for _, e := range entries {
					writeOut(cmd, "[%s] %s <%s>\n", e.ID, e.Title, e.URL)
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <url> [title]",
		Short: "Append a bookmark to the toolbar",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(func(t *tree.Tree) error {
				id, err := t.AppendBookmarkToToolbar(args[0], optionalArg(args, 1))
				if err != nil {
					return err
				}
				writeOut(cmd, "%s\n", id)
				return nil
			})
		},
	})

	return cmd
}

func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
