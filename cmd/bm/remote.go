package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fjvi/bm/internal/importer"
	"github.com/fjvi/bm/internal/remote"
)

func newPushCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Upload bookmarks to the configured GitHub repository",
		Long: `Upload the bookmarks as canonical JSON to remote.repo at remote.path.
The token is read from the environment variable named by remote.token_env
(GITHUB_TOKEN by default); a .env file in the working directory works too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gh := remote.New(c.cfg.Remote, nil, c.log)
			if err := c.engine.Upload(cmd.Context(), gh, c.cfg.Token()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pushed to %s:%s\n", c.cfg.Remote.Repo, c.cfg.Remote.Path)
			return nil
		},
	}
}

func newPullCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Replace bookmarks with the copy in the GitHub repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gh := remote.New(c.cfg.Remote, nil, c.log)
			data, err := gh.Download(cmd.Context(), c.cfg.Token())
			if err != nil {
				return err
			}
			if err := c.engine.Import(cmd.Context(), importer.FormatJSON, bytes.NewReader(data)); err != nil {
				return err
			}
			if err := c.save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pulled %d entries from %s:%s\n", len(c.engine.Index()), c.cfg.Remote.Repo, c.cfg.Remote.Path)
			return nil
		},
	}
}
