package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ysiraichi/enfield/pkg/cache"
	"github.com/ysiraichi/enfield/pkg/config"
	"github.com/ysiraichi/enfield/pkg/errors"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or empty the routing result cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Remove all cached routes and artifacts (file backend only)",
			Args:  cobra.NoArgs,
			RunE:  c.runCacheClear,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the file cache directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				dir, err := c.cacheDir()
				if err != nil {
					return fmt.Errorf("resolve cache dir: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), dir)
				return err
			},
		},
	)
	return cmd
}

// runCacheClear empties the file cache. Redis entries carry a TTL and are
// left to expire.
func (c *CLI) runCacheClear(cmd *cobra.Command, _ []string) error {
	if backend := c.config.Cache.Backend; backend != config.BackendFile {
		return errors.New(errors.ErrCodeUnsupported, "cache clear needs the file backend (configured: %s)", backend)
	}
	dir, err := c.cacheDir()
	if err != nil {
		return fmt.Errorf("resolve cache dir: %w", err)
	}

	out := newTerm(cmd.OutOrStdout())
	n := countEntries(dir)
	if n == 0 {
		out.info("Cache is empty")
		return nil
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return err
	}
	if err := fc.Clear(); err != nil {
		return err
	}
	out.success("Removed %d cached entries", n)
	out.detail("Directory: %s", dir)
	return nil
}

// countEntries returns the number of entry files under dir; a missing or
// unreadable directory counts as empty.
func countEntries(dir string) int {
	n := 0
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return fs.SkipAll
			}
			return nil
		}
		if !d.IsDir() && filepath.Ext(path) == ".zst" {
			n++
		}
		return nil
	})
	return n
}
