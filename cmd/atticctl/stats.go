package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print reading statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.services()
			if err != nil {
				return err
			}
			stats, err := svc.Stats.ReadingStats(cmd.Context(), year)
			if err != nil {
				return err
			}

			rating := "-"
			if stats.AverageRating != nil {
				rating = fmt.Sprintf("%.1f", *stats.AverageRating)
			}

			w := newTable(cmd.OutOrStdout())
			fmt.Fprintf(w, "Total books\t%d\n", stats.TotalBooks)
			fmt.Fprintf(w, "Read\t%d\n", stats.BooksRead)
			fmt.Fprintf(w, "Currently reading\t%d\n", stats.CurrentlyReading)
			fmt.Fprintf(w, "Want to read\t%d\n", stats.WantToRead)
			fmt.Fprintf(w, "Did not finish\t%d\n", stats.DNF)
			fmt.Fprintf(w, "Pages read\t%d\n", stats.PagesRead)
			fmt.Fprintf(w, "Average rating\t%s\n", rating)
			fmt.Fprintf(w, "Finished in %d\t%d\n", stats.Year, stats.BooksThisYear)
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "year counted as \"this year\" (default: current year)")
	return cmd
}
