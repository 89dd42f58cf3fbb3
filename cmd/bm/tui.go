package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fjvi/bm/internal/favicon"
	"github.com/fjvi/bm/internal/tui"
)

// runTUI runs the full interactive view. Logging goes to a file while the
// terminal belongs to bubbletea.
func (c *cli) runTUI() error {
	if err := os.MkdirAll(c.cfg.DataDir, 0o755); err != nil {
		return err
	}
	logFile, err := os.OpenFile(c.cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	c.log.SetOutput(logFile)

	app := tui.NewApp(tui.AppParams{
		Engine:   c.engine,
		Saver:    c.store,
		Favicons: c.resolver(),
		OpenURL:  c.openURL,
		Log:      c.log,
	})
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("failed to run app: %w", err)
	}
	return nil
}

// resolver builds the favicon resolver over the on-disk cache.
func (c *cli) resolver() *favicon.Resolver {
	cache, err := favicon.OpenCache(c.cfg.FaviconCachePath())
	if err != nil {
		c.log.WithError(err).Warn("favicon cache unavailable, using memory")
	}
	return favicon.New(favicon.Options{
		Primary:  c.cfg.Favicon.Primary,
		Fallback: c.cfg.Favicon.Fallback,
		Timeout:  c.cfg.Favicon.Timeout,
		Cache:    cache,
		Log:      c.log,
	})
}
