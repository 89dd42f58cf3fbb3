package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fjvi/bm/internal/config"
	"github.com/fjvi/bm/internal/engine"
	"github.com/fjvi/bm/internal/storage"
)

// cli carries what PersistentPreRunE sets up for every subcommand.
type cli struct {
	configFile string

	cfg    *config.Config
	log    *logrus.Logger
	store  storage.Storage
	engine *engine.Engine

	// openURL is swapped out in tests.
	openURL func(string) error
}

func main() {
	c := &cli{openURL: openURL}
	err := newRootCmd(c).Execute()
	// PersistentPostRunE is skipped when a command fails.
	_ = c.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "bm",
		Short: "Vim-style bookmark manager",
		Long: `bm keeps a tree of bookmark folders and links and browses it as an
accordion: opening a folder closes its siblings.

Run without arguments to open the interactive view.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd.ErrOrStderr())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI()
		},
	}
	root.PersistentFlags().StringVarP(&c.configFile, "config", "c", "", "config file (default ~/.config/bm/config.yaml)")

	root.AddCommand(newImportCmd(c))
	root.AddCommand(newExportCmd(c))
	root.AddCommand(newSearchCmd(c))
	root.AddCommand(newFindCmd(c))
	root.AddCommand(newTreeCmd(c))
	root.AddCommand(newAddCmd(c))
	root.AddCommand(newMkdirCmd(c))
	root.AddCommand(newRmCmd(c))
	root.AddCommand(newMvCmd(c))
	root.AddCommand(newRenameCmd(c))
	root.AddCommand(newPushCmd(c))
	root.AddCommand(newPullCmd(c))
	root.AddCommand(newCheckCmd(c))
	root.AddCommand(newFaviconCmd(c))
	root.AddCommand(newConfigCmd(c))
	return root
}

// setup loads the config, opens storage and fills the engine from it.
// A missing bookmarks file leaves the engine unloaded.
func (c *cli) setup(logOut io.Writer) error {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.log = cfg.NewLogger(logOut)

	store, err := storage.OpenStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	c.store = store
	c.engine = engine.New(c.log)

	nodes, err := store.Load()
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.log.WithField("path", store.Path()).Debug("no bookmarks yet")
		return nil
	case err != nil:
		return fmt.Errorf("failed to load bookmarks: %w", err)
	}
	return c.engine.Load(nodes)
}

func (c *cli) close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

// save writes the engine's tree back to storage.
func (c *cli) save() error {
	tree := c.engine.Tree()
	if tree == nil {
		return nil
	}
	if err := c.store.Save(tree.Root()); err != nil {
		return fmt.Errorf("failed to save bookmarks: %w", err)
	}
	return nil
}

// openURL opens a URL in the default browser.
func openURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("don't know how to open URLs on %s", runtime.GOOS)
	}
	return cmd.Start()
}
