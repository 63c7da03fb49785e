package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atticapp/attic-server/internal/seed"
)

func newSeedCmd(a *app) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with a sample library",
		Long: `Seed creates sample tags, essays, books with reading progress and
highlights, quotes linked to books, notes and collections mixing content
kinds. Use --reset to wipe the database first; without it, seeding a
non-empty database fails on the first duplicate tag.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if reset {
				st, err := a.store()
				if err != nil {
					return err
				}
				if err := st.Reset(); err != nil {
					return fmt.Errorf("reset: %w", err)
				}
			}

			svc, err := a.services()
			if err != nil {
				return err
			}
			sum, err := seed.Run(cmd.Context(), svc)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Seeded:")
			fmt.Fprintf(out, "  tags         %d\n", sum.Tags)
			fmt.Fprintf(out, "  essays       %d\n", sum.Essays)
			fmt.Fprintf(out, "  books        %d (%d highlights)\n", sum.Books, sum.Highlights)
			fmt.Fprintf(out, "  quotes       %d\n", sum.Quotes)
			fmt.Fprintf(out, "  notes        %d\n", sum.Notes)
			fmt.Fprintf(out, "  collections  %d (%d items)\n", sum.Collections, sum.CollectionItems)
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "drop all content before seeding")
	return cmd
}
