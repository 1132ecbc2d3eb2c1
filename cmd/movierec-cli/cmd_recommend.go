package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newRecommendCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recommend <movie-id>",
		Short: "Content-based recommendations for a catalog movie",
		Args:  movieIDArg,
		Run: func(cmd *cobra.Command, args []string) {
			id, _ := parseID(args[0])
			recs, err := apiClient.Recommendations.Content(context.Background(), id, limit)
			if err != nil {
				fatal("recommend", err)
			}
			switch flagFmt {
			case "table":
				headers := []string{"ID", "TITLE", "GENRE", "CONFIDENCE"}
				rows := make([][]string, 0, len(recs))
				for _, r := range recs {
					rows = append(rows, []string{
						strconv.FormatInt(r.ID, 10), truncate(r.Title, 40), r.Genre, fmt.Sprintf("%.2f", r.ConfidenceScore),
					})
				}
				formatTable(headers, rows)
			case "quiet":
				for _, r := range recs {
					fmt.Println(r.ID)
				}
			default:
				output(recs, "")
			}
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results (server default 5)")
	return cmd
}

func newSimilarCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "similar <movie-id>",
		Short: "Collaborative recommendations from the external catalog",
		Args:  movieIDArg,
		Run: func(cmd *cobra.Command, args []string) {
			id, _ := parseID(args[0])
			recs, err := apiClient.Recommendations.Collaborative(context.Background(), id, limit)
			if err != nil {
				fatal("similar", err)
			}
			switch flagFmt {
			case "table":
				headers := []string{"TMDB_ID", "TITLE", "RATING", "CONFIDENCE"}
				rows := make([][]string, 0, len(recs))
				for _, r := range recs {
					rows = append(rows, []string{
						r.TMDbID, truncate(r.Title, 40), fmt.Sprintf("%.1f", r.Rating), fmt.Sprintf("%.2f", r.ConfidenceScore),
					})
				}
				formatTable(headers, rows)
			case "quiet":
				for _, r := range recs {
					fmt.Println(r.TMDbID)
				}
			default:
				output(recs, "")
			}
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results (server default 5)")
	return cmd
}
