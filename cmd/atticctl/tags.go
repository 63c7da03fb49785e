package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/atticapp/attic-server/internal/domain"
	"github.com/atticapp/attic-server/internal/service"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func newTagsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Report on and curate tags",
	}
	cmd.AddCommand(
		newTagReportCmd(a, "top", "List the most used tags", (*service.TagService).MostUsedTags),
		newTagReportCmd(a, "unused", "List tags nothing refers to", (*service.TagService).UnusedTags),
		newTagMergeCmd(a),
	)
	return cmd
}

type tagReport func(*service.TagService, context.Context, service.TagReportRequest) ([]*domain.TagWithCounts, error)

func newTagReportCmd(a *app, use, short string, report tagReport) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.services()
			if err != nil {
				return err
			}
			tags, err := report(svc.Tag, cmd.Context(), service.TagReportRequest{Limit: limit})
			if err != nil {
				return err
			}
			return printTags(cmd.OutOrStdout(), tags)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of tags to list")
	return cmd
}

func printTags(out io.Writer, tags []*domain.TagWithCounts) error {
	if len(tags) == 0 {
		fmt.Fprintln(out, "no tags")
		return nil
	}
	w := newTable(out)
	fmt.Fprintln(w, "SLUG\tNAME\tESSAYS\tBOOKS\tQUOTES\tNOTES\tCOLLECTIONS\tTOTAL")
	for _, t := range tags {
		c := t.Counts
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			t.Slug, t.Name, c.Essays, c.Books, c.Quotes, c.Notes, c.Collections, c.Total())
	}
	return w.Flush()
}

func newTagMergeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "merge <source> <target>",
		Short: "Move every link from source onto target and delete source",
		Long: `Merge retags everything carrying the source tag with the target tag,
then deletes the source. Both arguments are tag ids or slugs.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.services()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			source, err := svc.Tag.GetTag(ctx, args[0])
			if err != nil {
				return fmt.Errorf("source tag: %w", err)
			}
			target, err := svc.Tag.GetTag(ctx, args[1])
			if err != nil {
				return fmt.Errorf("target tag: %w", err)
			}

			res, err := svc.Tag.MergeTags(ctx, service.MergeTagsRequest{SourceTagID: source.ID, TargetTagID: target.ID})
			if err != nil {
				return err
			}

			c := res.MergedCount
			fmt.Fprintf(cmd.OutOrStdout(), "Merged %q into %q: %d essays, %d books, %d quotes, %d notes, %d collections\n",
				res.Source.Name, res.Target.Name, c.Essays, c.Books, c.Quotes, c.Notes, c.Collections)
			return nil
		},
	}
}
