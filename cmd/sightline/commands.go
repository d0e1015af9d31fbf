package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kofron/sightline/timeline"
)

type appResolver func() (*app, error)

func newContentCmd(resolve appResolver) *cobra.Command {
	return &cobra.Command{
		Use:   "content",
		Short: "Print the full document content",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolve()
			if err != nil {
				return err
			}
			g, err := a.load()
			if err != nil {
				return err
			}
			g.Lock()
			defer g.Unlock()
			fmt.Fprint(cmd.OutOrStdout(), g.Timeline().Content())
			return nil
		},
	}
}

func newLogCmd(resolve appResolver) *cobra.Command {
	return &cobra.Command{
		Use:   "log <YYYY-MM-DD>",
		Short: "Print the content logged for a single date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := timeline.ParseDate(args[0])
			if err != nil {
				return err
			}
			a, err := resolve()
			if err != nil {
				return err
			}
			g, err := a.load()
			if err != nil {
				return err
			}
			g.Lock()
			defer g.Unlock()
			content, ok := g.Timeline().LogForDate(date)
			if !ok {
				return fmt.Errorf("no entries for %s", date)
			}
			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		},
	}
}

func newInsertCmd(resolve appResolver) *cobra.Command {
	var baseVersion uint64
	cmd := &cobra.Command{
		Use:   "insert <position> <text>",
		Short: "Insert text at a character position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, text := args[0], args[1]
			pos, err := parsePosition(position)
			if err != nil {
				return err
			}
			return withEditedTimeline(resolve, baseVersion, []timeline.TextOp{timeline.Insert(pos, text)}, cmd)
		},
	}
	cmd.Flags().Uint64Var(&baseVersion, "base-version", 0, "expected current version")
	return cmd
}

func newDeleteCmd(resolve appResolver) *cobra.Command {
	var baseVersion uint64
	cmd := &cobra.Command{
		Use:   "delete <start> <end>",
		Short: "Delete the character range [start, end)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parsePosition(args[0])
			if err != nil {
				return err
			}
			end, err := parsePosition(args[1])
			if err != nil {
				return err
			}
			return withEditedTimeline(resolve, baseVersion, []timeline.TextOp{timeline.Delete(start, end)}, cmd)
		},
	}
	cmd.Flags().Uint64Var(&baseVersion, "base-version", 0, "expected current version")
	return cmd
}

func withEditedTimeline(resolve appResolver, baseVersion uint64, ops []timeline.TextOp, cmd *cobra.Command) error {
	a, err := resolve()
	if err != nil {
		return err
	}
	g, err := a.load()
	if err != nil {
		return err
	}
	g.Lock()
	defer g.Unlock()

	newVersion, err := g.Timeline().ApplyOps(baseVersion, ops)
	if err != nil {
		return err
	}
	if err := a.save(g); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "new_version=%d\n", newVersion)
	return nil
}

func parsePosition(s string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, fmt.Errorf("invalid position %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("position %q must be non-negative", s)
	}
	return n, nil
}

func newTagCmd(resolve appResolver) *cobra.Command {
	var blockIndex int
	cmd := &cobra.Command{
		Use:   "tag <tag> [tag...]",
		Short: "Assign tags to a block",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolve()
			if err != nil {
				return err
			}
			g, err := a.load()
			if err != nil {
				return err
			}
			g.Lock()
			defer g.Unlock()
			if err := g.Timeline().AssignBlockTags(blockIndex, args); err != nil {
				return err
			}
			return a.save(g)
		},
	}
	cmd.Flags().IntVar(&blockIndex, "block", 0, "block index to tag")
	return cmd
}

func newTagsCmd(resolve appResolver) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List every interned tag",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolve()
			if err != nil {
				return err
			}
			g, err := a.load()
			if err != nil {
				return err
			}
			g.Lock()
			defer g.Unlock()
			for _, t := range g.Timeline().ListTags() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", t.ID, t.Name, t.Color)
			}
			return nil
		},
	}
}

func newBlocksCmd(resolve appResolver) *cobra.Command {
	return &cobra.Command{
		Use:   "blocks",
		Short: "List every block's position and tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolve()
			if err != nil {
				return err
			}
			g, err := a.load()
			if err != nil {
				return err
			}
			g.Lock()
			defer g.Unlock()
			for _, b := range g.Timeline().ListBlocks() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t[%d,%d)\t%v\n", b.Index, b.StartCharOffset, b.EndCharOffset, b.Tags)
			}
			return nil
		},
	}
}

func newSearchCmd(resolve appResolver) *cobra.Command {
	var infix bool
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find block indices tagged with a matching tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolve()
			if err != nil {
				return err
			}
			g, err := a.load()
			if err != nil {
				return err
			}
			g.Lock()
			defer g.Unlock()

			var indices []int
			if infix {
				indices = g.Timeline().SearchInfix(args[0])
			} else {
				indices = g.Timeline().SearchPrefix(args[0])
			}
			for _, idx := range indices {
				fmt.Fprintln(cmd.OutOrStdout(), idx)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&infix, "infix", false, "match anywhere in the tag's full name, not just a prefix")
	return cmd
}
