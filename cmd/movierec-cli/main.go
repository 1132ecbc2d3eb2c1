package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/persistorai/movierec/client"
)

// Build-time variables set via ldflags.
var (
	version   = "1.0.0"
	commit    = ""
	buildDate = ""
)

const defaultURL = "http://localhost:8000"

var (
	apiClient   *client.Client
	flagURL     string
	flagKey     string
	flagFmt     string
	flagProfile string
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("movierec version %s (commit: %s, built: %s)", version, commit, buildDate)
	}
	return fmt.Sprintf("movierec version %s-dev", version)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "movierec",
		Short:   "movierec CLI for the movie catalog and recommendation service",
		Version: versionString(),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveConfig()
			opts := []client.Option{
				client.WithUserAgent("movierec-cli/" + version),
				client.WithRetries(2),
			}
			if flagKey != "" {
				opts = append(opts, client.WithAPIKey(flagKey))
			}
			apiClient = client.New(flagURL, opts...)
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "movierec server URL (env: MOVIEREC_URL)")
	rootCmd.PersistentFlags().StringVar(&flagKey, "api-key", "", "Admin API key (env: MOVIEREC_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "Config profile to use (env: MOVIEREC_PROFILE)")
	rootCmd.PersistentFlags().StringVar(&flagFmt, "format", "json", "Output format: json|yaml|table|quiet")

	initCmd := newInitCmd()
	initCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {} // skip client setup

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newMovieCmd())
	rootCmd.AddCommand(newRecommendCmd())
	rootCmd.AddCommand(newSimilarCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newValidateCmd())
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)

	switch {
	case client.IsUnauthorized(err):
		fmt.Fprintln(os.Stderr, "Hint: pass --api-key or set MOVIEREC_API_KEY to the server's ADMIN_API_KEY")
	case client.IsUnavailable(err):
		fmt.Fprintln(os.Stderr, "Hint: run `movierec doctor` to check the server and its catalog feed")
	}

	os.Exit(1)
}
