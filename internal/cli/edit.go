package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/bmtree/internal/model"
	"github.com/nikbrunner/bmtree/internal/picker"
	"github.com/nikbrunner/bmtree/internal/tree"
)

func newAddCmd(a *App) *cobra.Command {
	var pf positionFlags
	cmd := &cobra.Command{
		Use:   "add <url> [title]",
		Short: "Add a bookmark (default: end of the root folder)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, ok, err := pf.resolve()
			if err != nil {
				return err
			}
			return a.run(func(t *tree.Tree) error {
				if !ok {
					pos = model.End(t.Root())
				}
				id, err := t.InsertBookmark(pos, args[0], optionalArg(args, 1))
				if err != nil {
					return err
				}
				writeOut(cmd, "%s\n", id)
				return nil
			})
		},
	}
	pf.register(cmd)
	return cmd
}

func newMkdirCmd(a *App) *cobra.Command {
	var pf positionFlags
	cmd := &cobra.Command{
		Use:   "mkdir <title>",
		Short: "Create a folder (default: end of the root folder)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, ok, err := pf.resolve()
			if err != nil {
				return err
			}
			return a.run(func(t *tree.Tree) error {
				if !ok {
					pos = model.End(t.Root())
				}
				id, err := t.InsertFolder(pos, args[0])
				if err != nil {
					return err
				}
				writeOut(cmd, "%s\n", id)
				return nil
			})
		},
	}
	pf.register(cmd)
	return cmd
}

func newRmCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>...",
		Short: "Remove bookmarks or folders (with everything inside)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]model.NodeID, 0, len(args))
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			return a.run(func(t *tree.Tree) error {
				for _, id := range ids {
					if err := t.RemoveBookmark(id); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newRenameCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Change the title of a node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.run(func(t *tree.Tree) error {
				return t.UpdateTitle(id, args[1])
			})
		},
	}
}

func newSetURLCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-url <id> <url>",
		Short: "Change the URL of a bookmark",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.run(func(t *tree.Tree) error {
				return t.UpdateURL(id, args[1])
			})
		},
	}
}

func newMvCmd(a *App) *cobra.Command {
	var pf positionFlags
	cmd := &cobra.Command{
		Use:   "mv <id>",
		Short: "Move a node; without a placement flag a folder picker opens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			pos, ok, err := pf.resolve()
			if err != nil {
				return err
			}
			return a.run(func(t *tree.Tree) error {
				if ok {
					return t.MoveNode(id, pos)
				}
				folder, chosen, err := pickFolder(cmd, t, id)
				if err != nil || !chosen {
					return err
				}
				if err := t.AppendToChild(id, folder.ID); err != nil {
					return err
				}
				writeOut(cmd, "Moved to %s\n", folder.Path)
				return nil
			})
		},
	}
	pf.register(cmd)
	return cmd
}

func pickFolder(cmd *cobra.Command, t *tree.Tree, id model.NodeID) (tree.FolderEntry, bool, error) {
	node, err := t.Get(id)
	if err != nil {
		return tree.FolderEntry{}, false, err
	}
	p := picker.New(picker.Params{
		Folders: t.Folders(),
		Header:  fmt.Sprintf("Move %q to", node.Title),
	})
	prog := tea.NewProgram(p,
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.ErrOrStderr()),
		tea.WithContext(cmd.Context()),
	)
	final, err := prog.Run()
	if err != nil {
		return tree.FolderEntry{}, false, err
	}
	result, ok := final.(picker.Picker)
	if !ok {
		return tree.FolderEntry{}, false, errors.New("unexpected picker result")
	}
	folder, chosen := result.Selected()
	return folder, chosen, nil
}

func newOpenCmd(a *App) *cobra.Command {
	return openStateCmd(a, "open", "Expand a folder", func(t *tree.Tree, id model.NodeID) error {
		return t.SetIsOpen(id, true)
	})
}

func newCloseCmd(a *App) *cobra.Command {
	return openStateCmd(a, "close", "Collapse a folder", func(t *tree.Tree, id model.NodeID) error {
		return t.SetIsOpen(id, false)
	})
}

func newToggleCmd(a *App) *cobra.Command {
	return openStateCmd(a, "toggle", "Toggle a folder open or closed", (*tree.Tree).ToggleIsOpen)
}

func openStateCmd(a *App, use, short string, fn func(*tree.Tree, model.NodeID) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.run(func(t *tree.Tree) error {
				return fn(t, id)
			})
		},
	}
}
