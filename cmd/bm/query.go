package main

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fjvi/bm/internal/model"
	"github.com/fjvi/bm/internal/picker"
	"github.com/fjvi/bm/internal/search"
)

func newSearchCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "search <keyword>",
		Short: "List bookmarks whose title or URL contains the keyword",
		Long: `List folders and bookmarks whose title or URL contains the keyword,
ignoring case, in tree order. A blank keyword prints the whole tree.

Examples:
  bm search golang
  bm search "release notes"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keyword := strings.Join(args, " ")
			matches, active := c.engine.Search(keyword)

			out := cmd.OutOrStdout()
			if !active {
				printTree(out, c.engine.Tree())
				return nil
			}
			if len(matches) == 0 {
				fmt.Fprintf(out, "No bookmarks found for '%s'\n", keyword)
				return nil
			}

			fmt.Fprintf(out, "Found %d results:\n", len(matches))
			tree := c.engine.Tree()
			for i, m := range matches {
				if m.IsLink() {
					fmt.Fprintf(out, "%d. %s\n   %s\n", i+1, m.Title, m.URL)
				} else {
					fmt.Fprintf(out, "%d. %s/\n", i+1, m.Title)
				}
				if parent := tree.Parent(m.NodeID); parent != nil && !tree.IsRoot(parent) {
					fmt.Fprintf(out, "   in %s\n", tree.Path(parent.ID))
				}
			}
			return nil
		},
	}
}

func newFindCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy find a bookmark and open it",
		Long: `Fuzzy match bookmark titles, pick one and open it in the browser.
A single match opens directly.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			results := search.Fuzzy(c.engine.Index(), query)

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintf(out, "No bookmarks found for '%s'\n", query)
				return nil
			}

			var selected model.FlatEntry
			if len(results) == 1 {
				selected = results[0].Entry
			} else {
				finalModel, err := tea.NewProgram(picker.New(results, query)).Run()
				if err != nil {
					return fmt.Errorf("failed to run picker: %w", err)
				}
				var ok bool
				if selected, ok = finalModel.(picker.Picker).Selected(); !ok {
					return nil
				}
			}

			fmt.Fprintf(out, "Opening: %s\n", selected.Title)
			return c.openURL(selected.URL)
		},
	}
}

func newTreeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the whole bookmark tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printTree(cmd.OutOrStdout(), c.engine.Tree())
			return nil
		},
	}
}

// printTree writes one line per node, indented two spaces per level.
func printTree(out io.Writer, tree *model.Tree) {
	if tree == nil || tree.Len() == 0 {
		fmt.Fprintln(out, "No bookmarks. Import some with: bm import <file>")
		return
	}
	tree.Walk(func(n *model.Node, depth int) bool {
		indent := strings.Repeat("  ", depth)
		switch {
		case n.IsFolder():
			fmt.Fprintf(out, "%s%s/\n", indent, n.Title)
		case n.IsLink():
			fmt.Fprintf(out, "%s%s  %s\n", indent, n.Title, n.URL)
		}
		return true
	})
}
