package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	var ready bool
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Run: func(cmd *cobra.Command, args []string) {
			if ready {
				resp, err := apiClient.Ready(context.Background())
				if err != nil {
					fatal("ready", err)
				}
				output(resp, resp.Status)
				return
			}
			resp, err := apiClient.Health(context.Background())
			if err != nil {
				fatal("health", err)
			}
			if flagFmt == "table" {
				formatTable(
					[]string{"CHECK", "VALUE"},
					[][]string{
						{"Status", resp.Status},
						{"Version", resp.Version},
						{"Database", resp.Database},
						{"Catalog feed", resp.CatalogFeed},
						{"WS clients", strconv.Itoa(resp.WSClients)},
					},
				)
				return
			}
			output(resp, resp.Status)
		},
	}
	cmd.Flags().BoolVar(&ready, "ready", false, "Run the readiness check instead")
	return cmd
}

func newImportCmd() *cobra.Command {
	var pages int
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import popular movies from TMDb (admin)",
		Run: func(cmd *cobra.Command, args []string) {
			res, err := apiClient.Admin.Import(context.Background(), pages)
			if err != nil {
				fatal("import", err)
			}
			output(res, strconv.Itoa(res.Upserted))
		},
	}
	cmd.Flags().IntVar(&pages, "pages", 0, "Feed pages to import (server default when 0)")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the catalog and fill missing defaults (admin)",
		Run: func(cmd *cobra.Command, args []string) {
			report, err := apiClient.Admin.ValidateMovies(context.Background())
			if err != nil {
				fatal("validate", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "TITLE", "ISSUES"}
				rows := make([][]string, 0, len(report.Issues))
				for _, mi := range report.Issues {
					rows = append(rows, []string{
						strconv.FormatInt(mi.ID, 10), truncate(mi.Title, 40), strings.Join(mi.Issues, ", "),
					})
				}
				formatTable(headers, rows)
				fmt.Printf("\n%d movies, %d fixed\n", report.Total, report.Fixed)
				if report.Insufficient {
					fmt.Println("warning: fewer than 2 movies, content recommendations unavailable")
				}
				return
			}
			output(report, strconv.Itoa(report.Fixed))
		},
	}
}
