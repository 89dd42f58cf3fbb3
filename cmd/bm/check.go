package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fjvi/bm/internal/config"
	"github.com/fjvi/bm/internal/culler"
	"github.com/fjvi/bm/internal/favicon"
)

func newCheckCmd(c *cli) *cobra.Command {
	var prune bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Find dead links",
		Long: `Request every bookmark URL and report the dead and unreachable ones.
404s on domains in cull.exclude_domains count as unreachable, since they
are often private pages. With --prune dead links are deleted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			links := culler.Links(c.engine.Index())
			out := cmd.OutOrStdout()
			if len(links) == 0 {
				fmt.Fprintln(out, "No bookmarks to check")
				return nil
			}

			errOut := cmd.ErrOrStderr()
			results := culler.CheckLinks(cmd.Context(), links, culler.Options{
				Concurrency:    c.cfg.Cull.Concurrency,
				Timeout:        c.cfg.Cull.Timeout,
				ExcludeDomains: c.cfg.Cull.ExcludeDomains,
				Log:            c.log,
			}, func(completed, total int) {
				fmt.Fprintf(errOut, "\rChecking %d/%d", completed, total)
			})
			fmt.Fprintln(errOut)

			var dead []culler.Result
			for _, r := range results {
				switch r.Status {
				case culler.Dead:
					dead = append(dead, r)
					fmt.Fprintf(out, "dead         %s  %s (%d)\n", r.Entry.Title, r.Entry.URL, r.StatusCode)
				case culler.Unreachable:
					fmt.Fprintf(out, "unreachable  %s  %s (%s)\n", r.Entry.Title, r.Entry.URL, r.Error)
				}
			}

			summary := culler.Summary(results)
			fmt.Fprintf(out, "%d healthy, %d dead, %d unreachable\n",
				summary[culler.Healthy], summary[culler.Dead], summary[culler.Unreachable])

			if !prune || len(dead) == 0 {
				return nil
			}
			for _, r := range dead {
				if err := c.engine.Delete(r.Entry.NodeID); err != nil {
					c.log.WithError(err).WithField("url", r.Entry.URL).Warn("failed to prune link")
				}
			}
			if err := c.save(); err != nil {
				return err
			}
			fmt.Fprintf(out, "Pruned %d dead links\n", len(dead))
			return nil
		},
	}

	cmd.Flags().BoolVar(&prune, "prune", false, "delete dead links")
	return cmd
}

func newFaviconCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "favicon <url>",
		Short: "Resolve and cache the favicon for a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if favicon.Host(args[0]) == "" {
				return fmt.Errorf("%q has no host", args[0])
			}
			icon := c.resolver().Resolve(cmd.Context(), args[0])
			if icon == "" {
				return fmt.Errorf("no favicon found for %s", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), icon)
			return nil
		},
	}
}

func newConfigCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		// Only the config is needed; storage may not even be readable.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configFile)
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.cfg.YAML()
			if err != nil {
				return err
			}
			if c.cfg.File != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", c.cfg.File)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
