package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fjvi/bm/internal/model"
)

// Paths name nodes by their slash-separated titles from the top level,
// e.g. "Dev/Go/Go Docs". The first title match wins at each level.

func newAddCmd(c *cli) *cobra.Command {
	var folder string

	cmd := &cobra.Command{
		Use:   "add <url> [title]",
		Short: "Add a bookmark",
		Long: `Add a bookmark at the end of a folder, creating the folder if needed.
The title defaults to the URL.

Examples:
  bm add https://go.dev "Go"
  bm add https://pkg.go.dev --folder Dev/Go`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[0]
			title := url
			if len(args) > 1 {
				title = args[1]
			}

			parentID, err := c.ensureFolder(folder)
			if err != nil {
				return err
			}
			link := model.NewLink(title, url)
			if err := c.engine.Add(parentID, link, -1); err != nil {
				return err
			}
			if err := c.save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", c.engine.Tree().Path(link.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&folder, "folder", "F", "", "folder path to add to (default: top level)")
	return cmd
}

func newMkdirCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <path>",
		Short: "Create a folder and any missing parents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cleanPath(args[0]) == "" {
				return fmt.Errorf("folder path is empty")
			}
			id, err := c.ensureFolder(args[0])
			if err != nil {
				return err
			}
			if err := c.save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s/\n", c.engine.Tree().Path(id))
			return nil
		},
	}
}

func newRmCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete a bookmark or a folder with everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.lookup(args[0])
			if err != nil {
				return err
			}
			path := c.engine.Tree().Path(n.ID)
			if err := c.engine.Delete(n.ID); err != nil {
				return err
			}
			if err := c.save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", path)
			return nil
		},
	}
}

func newMvCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <path> <folder>",
		Short: "Move a bookmark or folder into another folder",
		Long: `Move a node to the end of another folder. Use "/" for the top level.

Examples:
  bm mv "Dev/Go Docs" Dev/Go
  bm mv News /`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.lookup(args[0])
			if err != nil {
				return err
			}
			parentID, err := c.folderID(args[1])
			if err != nil {
				return err
			}
			if err := c.engine.Move(n.ID, parentID, -1); err != nil {
				return err
			}
			if err := c.save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved to %s\n", c.engine.Tree().Path(n.ID))
			return nil
		},
	}
}

func newRenameCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <path> <title>",
		Short: "Change the title of a bookmark or folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.lookup(args[0])
			if err != nil {
				return err
			}
			if err := c.engine.Rename(n.ID, args[1]); err != nil {
				return err
			}
			if err := c.save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed to %s\n", c.engine.Tree().Path(n.ID))
			return nil
		},
	}
}

func cleanPath(path string) string {
	return strings.Trim(strings.TrimSpace(path), "/")
}

// lookup resolves a path to a node other than the root.
func (c *cli) lookup(path string) (*model.Node, error) {
	tree := c.engine.Tree()
	if tree == nil || cleanPath(path) == "" {
		return nil, fmt.Errorf("%q: %w", path, model.ErrNotFound)
	}
	n := tree.FindByPath(path)
	if n == nil {
		return nil, fmt.Errorf("%q: %w", path, model.ErrNotFound)
	}
	return n, nil
}

// folderID resolves a folder path to its ID. An empty path or "/" is the
// top level and resolves to "".
func (c *cli) folderID(path string) (string, error) {
	if cleanPath(path) == "" {
		return "", nil
	}
	n, err := c.lookup(path)
	if err != nil {
		return "", err
	}
	if !n.IsFolder() {
		return "", fmt.Errorf("%q: %w", path, model.ErrNotAFolder)
	}
	return n.ID, nil
}

// ensureFolder resolves a folder path, creating missing folders on the way.
func (c *cli) ensureFolder(path string) (string, error) {
	parentID := ""
	for _, part := range strings.Split(cleanPath(path), "/") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		var existing *model.Node
		for _, child := range c.children(parentID) {
			if child.Title == part {
				existing = child
				break
			}
		}
		if existing != nil {
			if !existing.IsFolder() {
				return "", fmt.Errorf("%q: %w", part, model.ErrNotAFolder)
			}
			parentID = existing.ID
			continue
		}

		folder := model.NewFolder(part)
		if err := c.engine.Add(parentID, folder, -1); err != nil {
			return "", err
		}
		parentID = folder.ID
	}
	return parentID, nil
}

func (c *cli) children(folderID string) []*model.Node {
	tree := c.engine.Tree()
	if tree == nil {
		return nil
	}
	if folderID == "" {
		return tree.Children()
	}
	return tree.Node(folderID).Children
}
