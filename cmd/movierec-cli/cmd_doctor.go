package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/persistorai/movierec/client"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration and connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(apiClient)
		},
	}
}

type checkResult struct {
	Name   string
	Passed bool
	Detail string
	Hint   string
}

func doctorChecks(ctx context.Context, c *client.Client, cfgPath string, cfgErr error) []checkResult {
	var results []checkResult

	if cfgErr != nil {
		results = append(results, checkResult{
			Name: "Config file", Passed: false, Detail: cfgPath, Hint: "Run: movierec init",
		})
	} else {
		results = append(results, checkResult{
			Name: "Config file", Passed: true, Detail: fmt.Sprintf("found (%s)", cfgPath),
		})
	}

	if flagKey == "" {
		results = append(results, checkResult{
			Name: "Admin API key", Passed: true, Detail: "not set (import and validate unavailable)",
		})
	} else {
		results = append(results, checkResult{Name: "Admin API key", Passed: true, Detail: "configured"})
	}

	health, err := c.Health(ctx)
	if err != nil {
		results = append(results, checkResult{
			Name: "Server reachable", Passed: false, Detail: flagURL,
			Hint: fmt.Sprintf("Is the movierec server running? Error: %v", err),
		})
		return results
	}
	results = append(results, checkResult{
		Name: "Server reachable", Passed: true, Detail: "v" + health.Version,
	})

	ready, err := c.Ready(ctx)
	if err != nil {
		results = append(results, checkResult{
			Name: "Server ready", Passed: false, Hint: fmt.Sprintf("Check the database connection. Error: %v", err),
		})
	} else {
		results = append(results, checkResult{
			Name: "Server ready", Passed: true, Detail: fmt.Sprintf("schema v%d, %d movies", ready.SchemaVersion, ready.Movies),
		})
	}

	results = append(results, checkResult{
		Name: "Catalog feed", Passed: health.CatalogFeed == "configured", Detail: health.CatalogFeed,
		Hint: "Set TMDB_API_KEY on the server to enable import and collaborative recommendations",
	})

	return results
}

func runDoctor(c *client.Client) error {
	fmt.Println("\nmovierec doctor")
	fmt.Println("===============")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfgPath, _, cfgErr := loadConfig()
	results := doctorChecks(ctx, c, cfgPath, cfgErr)

	fmt.Println()
	allPassed := true
	for _, r := range results {
		mark := "ok  "
		if !r.Passed {
			mark = "FAIL"
			allPassed = false
		}
		if r.Detail != "" {
			fmt.Printf("[%s] %s: %s\n", mark, r.Name, r.Detail)
		} else {
			fmt.Printf("[%s] %s\n", mark, r.Name)
		}
		if !r.Passed && r.Hint != "" {
			fmt.Printf("       Hint: %s\n", r.Hint)
		}
	}

	fmt.Println()
	if !allPassed {
		return fmt.Errorf("doctor found issues")
	}
	fmt.Println("All checks passed.")
	return nil
}
