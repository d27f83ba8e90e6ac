// Package cli implements the bmtree command line: one subcommand per tree
// operation, plus the interactive tree view when no subcommand is given.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	bmapp "github.com/nikbrunner/bmtree/internal/app"
	"github.com/nikbrunner/bmtree/internal/model"
	"github.com/nikbrunner/bmtree/internal/storage"
	"github.com/nikbrunner/bmtree/internal/tree"
	"github.com/nikbrunner/bmtree/internal/tui"
)

// App holds the global flags and the state shared by all subcommands.
type App struct {
	DataPath   string
	Backend    string
	ConfigPath string
	Verbose    bool

	cfg    *storage.Config
	logger *log.Logger
}

func NewRootCmd() *cobra.Command {
	a := &App{}

	cmd := &cobra.Command{
		Use:           "bmtree",
		Short:         "Bookmark tree manager (CLI + TUI)",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Open the interactive tree view
  bmtree

  # Print the tree with node ids
  bmtree show

  # Create a folder and add a bookmark to it
  bmtree mkdir Work
  bmtree add https://example.com Example --into 3

  # Reorder: put node 5 right before node 4
  bmtree mv 5 --before 4
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive tree view.
			if len(args) == 0 {
				return runTUI(a)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.setup(cmd.ErrOrStderr())
	}

	cmd.PersistentFlags().StringVar(&a.DataPath, "data", "", "Path to the bookmarks file or database (default: ~/.config/bmtree/bookmarks.{json,db})")
	cmd.PersistentFlags().StringVar(&a.Backend, "backend", "", "Storage backend (json|sqlite); overrides the config file")
	cmd.PersistentFlags().StringVar(&a.ConfigPath, "config", "", "Path to config.json (default: ~/.config/bmtree/config.json)")
	cmd.PersistentFlags().BoolVarP(&a.Verbose, "verbose", "v", false, "Log debug output to stderr")

	cmd.AddCommand(newShowCmd(a))
	cmd.AddCommand(newFoldersCmd(a))
	cmd.AddCommand(newStatsCmd(a))
	cmd.AddCommand(newToolbarCmd(a))
	cmd.AddCommand(newAddCmd(a))
	cmd.AddCommand(newMkdirCmd(a))
	cmd.AddCommand(newRmCmd(a))
	cmd.AddCommand(newRenameCmd(a))
	cmd.AddCommand(newSetURLCmd(a))
	cmd.AddCommand(newMvCmd(a))
	cmd.AddCommand(newOpenCmd(a))
	cmd.AddCommand(newCloseCmd(a))
	cmd.AddCommand(newToggleCmd(a))
	cmd.AddCommand(newImportCmd(a))
	cmd.AddCommand(newExportCmd(a))
	cmd.AddCommand(newCheckCmd(a))
	cmd.AddCommand(newHistoryCmd(a))

	return cmd
}

// setup loads the config file and creates the logger.
func (a *App) setup(stderr io.Writer) error {
	path := a.ConfigPath
	if path == "" {
		var err error
		if path, err = storage.DefaultConfigFilePath(); err != nil {
			return err
		}
	}
	cfg, err := storage.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	a.cfg = cfg

	a.logger = log.NewWithOptions(stderr, log.Options{Prefix: "bmtree"})
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		a.logger.Warn("unknown log level in config, using warn", "level", cfg.LogLevel)
		level = log.WarnLevel
	}
	if a.Verbose {
		level = log.DebugLevel
	}
	a.logger.SetLevel(level)
	return nil
}

func (a *App) openStorage() (storage.Storage, error) {
	backend := a.Backend
	if backend == "" {
		backend = a.cfg.Backend
	}
	return storage.Open(storage.OpenParams{
		Backend: backend,
		Path:    a.DataPath,
		History: a.cfg.SnapshotHistory,
	})
}

func (a *App) open() (*bmapp.App, error) {
	st, err := a.openStorage()
	if err != nil {
		return nil, err
	}
	app, err := bmapp.Open(bmapp.Params{
		Storage: st,
		Logger:  a.logger,
		TreeOptions: tree.Options{
			NotifyDepth:  a.cfg.NotifyDepth,
			ToolbarTitle: a.cfg.ToolbarTitle,
		},
	})
	if err != nil {
		if c, ok := st.(io.Closer); ok {
			_ = c.Close()
		}
		return nil, err
	}
	return app, nil
}

// run opens the tree, calls fn and saves the tree if fn changed it.
func (a *App) run(fn func(t *tree.Tree) error) (err error) {
	app, err := a.open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(app.Tree())
}

func runTUI(a *App) (err error) {
	app, err := a.open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return tui.Run(app)
}

func writeOut(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

func parseID(s string) (model.NodeID, error) {
	id, err := model.ParseNodeID(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid node id %q: %w", s, err)
	}
	return id, nil
}

// positionFlags are the mutually exclusive placement flags of add, mkdir
// and mv.
type positionFlags struct {
	before    string
	after     string
	into      string
	firstInto string
}

func (p *positionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.before, "before", "", "Place directly before node id")
	cmd.Flags().StringVar(&p.after, "after", "", "Place directly after node id")
	cmd.Flags().StringVar(&p.into, "into", "", "Append to folder id")
	cmd.Flags().StringVar(&p.firstInto, "first-into", "", "Prepend to folder id")
}

// resolve returns the chosen placement; ok is false when no flag was given.
func (p positionFlags) resolve() (pos model.Position, ok bool, err error) {
	choices := []struct {
		val string
		mk  func(model.NodeID) model.Position
	}{
		{p.before, model.Before},
		{p.after, model.After},
		{p.into, model.End},
		{p.firstInto, model.FirstChild},
	}
	set := 0
	for _, c := range choices {
		if c.val == "" {
			continue
		}
		id, err := parseID(c.val)
		if err != nil {
			return model.Position{}, false, err
		}
		pos = c.mk(id)
		set++
	}
	if set > 1 {
		return model.Position{}, false, errors.New("provide at most one of --before, --after, --into or --first-into")
	}
	return pos, set == 1, nil
}
