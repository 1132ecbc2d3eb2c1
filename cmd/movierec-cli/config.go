package main

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const defaultProfile = "default"

// profileConfig is one named server connection in ~/.movierec/config.yaml.
type profileConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key,omitempty"`
}

type profilesFile struct {
	Profiles      map[string]profileConfig `yaml:"profiles"`
	ActiveProfile string                   `yaml:"active_profile"`
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".movierec", "config.yaml"), nil
}

// loadConfig reads the profile file. The path is returned even on error so
// callers can report it.
func loadConfig() (string, *profilesFile, error) {
	path, err := configPath()
	if err != nil {
		return "", nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return path, nil, err
	}

	var f profilesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return path, nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return path, &f, nil
}

// selectedProfile picks the profile name: --profile, then MOVIEREC_PROFILE,
// then the file's active_profile, then "default".
func (f *profilesFile) selectedProfile() string {
	for _, name := range []string{flagProfile, os.Getenv("MOVIEREC_PROFILE")} {
		if name != "" {
			return name
		}
	}

	if f != nil && f.ActiveProfile != "" {
		return f.ActiveProfile
	}

	return defaultProfile
}

func (f *profilesFile) activeProfile() (profileConfig, bool) {
	if f == nil {
		return profileConfig{}, false
	}

	p, ok := f.Profiles[f.selectedProfile()]

	return p, ok
}

// resolveSettings layers the connection settings: an explicit flag beats the
// environment, which beats the selected profile.
func resolveSettings(f *profilesFile) (url, apiKey string) {
	url, apiKey = flagURL, flagKey
	p, _ := f.activeProfile()

	if url == defaultURL {
		url = firstNonEmpty(os.Getenv("MOVIEREC_URL"), p.URL, defaultURL)
	}

	if apiKey == "" {
		apiKey = firstNonEmpty(os.Getenv("MOVIEREC_API_KEY"), p.APIKey)
	}

	return url, apiKey
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}

	return ""
}

func resolveConfig() {
	_, f, _ := loadConfig()
	flagURL, flagKey = resolveSettings(f)
}

// writeConfig stores a profile, keeping any others already in the file, and
// makes it active.
func writeConfig(profile, url, apiKey string) (string, error) {
	path, f, err := loadConfig()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		f = &profilesFile{}
	case err != nil:
		return path, err
	}

	if f.Profiles == nil {
		f.Profiles = map[string]profileConfig{}
	}

	f.Profiles[profile] = profileConfig{URL: url, APIKey: apiKey}
	f.ActiveProfile = profile

	return path, saveConfig(path, f)
}

func saveConfig(path string, f *profilesFile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

func newInitCmd() *cobra.Command {
	var server, key, profile string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up movierec CLI configuration",
		Long:  "Writes a profile to ~/.movierec/config.yaml and makes it active. The admin API key is optional.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if server == "" && key == "" {
				in := bufio.NewReader(os.Stdin)
				server = prompt(in, fmt.Sprintf("Server URL [%s]: ", defaultURL))
				key = prompt(in, "Admin API key (optional): ")
			}

			path, err := writeConfig(profile, strings.TrimRight(firstNonEmpty(server, defaultURL), "/"), key)
			if err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			fmt.Printf("Profile %q saved to %s\n", profile, path)

			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server URL (non-interactive mode)")
	cmd.Flags().StringVar(&key, "key", "", "Admin API key (non-interactive mode)")
	cmd.Flags().StringVar(&profile, "name", defaultProfile, "Profile name to write")

	return cmd
}

func prompt(in *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := in.ReadString('\n')

	return strings.TrimSpace(line)
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "profile", Short: "List or switch configuration profiles"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List configured profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, f, err := loadConfig()
			if err != nil {
				return err
			}

			names := make([]string, 0, len(f.Profiles))
			for name := range f.Profiles {
				names = append(names, name)
			}
			sort.Strings(names)

			active := f.selectedProfile()
			for _, name := range names {
				mark := " "
				if name == active {
					mark = "*"
				}
				fmt.Printf("%s %s\t%s\n", mark, name, f.Profiles[name].URL)
			}

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "use <name>",
		Short: "Make a profile the default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, f, err := loadConfig()
			if err != nil {
				return err
			}

			if _, ok := f.Profiles[args[0]]; !ok {
				return fmt.Errorf("no profile named %q in %s", args[0], path)
			}

			f.ActiveProfile = args[0]

			return saveConfig(path, f)
		},
	})

	return cmd
}
