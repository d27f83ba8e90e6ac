package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/bmtree/internal/culler"
	"github.com/nikbrunner/bmtree/internal/storage"
	"github.com/nikbrunner/bmtree/internal/tree"
)

func newCheckCmd(a *App) *cobra.Command {
	var (
		removeDead  bool
		concurrency int
		timeout     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check every bookmark URL and report dead links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if concurrency <= 0 {
				concurrency = a.cfg.CheckConcurrency
			}
			if timeout <= 0 {
				timeout = time.Duration(a.cfg.CheckTimeout) * time.Second
			}
			return a.run(func(t *tree.Tree) error {
				bookmarks, err := t.Bookmarks()
				if err != nil {
					return err
				}
				a.logger.Debug("checking bookmarks", "count", len(bookmarks), "concurrency", concurrency, "timeout", timeout)

				results := culler.CheckURLs(cmd.Context(), bookmarks, culler.Options{
					Concurrency:    concurrency,
					Timeout:        timeout,
					ExcludeDomains: a.cfg.CullExcludeDomains,
					OnProgress: func(completed, total int) {
						a.logger.Debug("checked", "completed", completed, "total", total)
					},
				})

				counts := map[culler.Status]int{}
				for _, r := range results {
					counts[r.Status]++
					if r.Status == culler.Healthy {
						continue
					}
					detail := r.Error
					if detail == "" {
						detail = fmt.Sprintf("HTTP %d", r.StatusCode)
					}
					writeOut(cmd, "%-11s [%s] %s <%s> %s\n", r.Status, r.Bookmark.ID, r.Bookmark.Title, r.Bookmark.URL, detail)
				}
				writeOut(cmd, "%d healthy, %d dead, %d unreachable\n",
					counts[culler.Healthy], counts[culler.Dead], counts[culler.Unreachable])

				if !removeDead {
					return nil
				}
				n, err := culler.RemoveDead(t, results)
				if err != nil {
					return err
				}
				writeOut(cmd, "Removed %d dead bookmarks\n", n)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&removeDead, "remove-dead", false, "Remove bookmarks that returned 404 or 410")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "Parallel requests (default from config)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (default from config)")
	return cmd
}

func newHistoryCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List stored snapshots (sqlite backend only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStorage()
			if err != nil {
				return err
			}
			if c, ok := st.(io.Closer); ok {
				defer c.Close()
			}
			db, ok := st.(*storage.SQLiteStorage)
			if !ok {
				return errors.New("history needs the sqlite backend (--backend sqlite)")
			}
			snaps, err := db.Snapshots()
			if err != nil {
				return err
			}
			for _, s := range snaps {
				writeOut(cmd, "%d  %s  %d bytes\n", s.ID, s.CreatedAt.Local().Format(time.DateTime), s.Size)
			}
			return nil
		},
	}
}
