package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// bindHosts are the accepted LISTEN_HOST values: loopback for local runs,
// wildcard for containers that sit behind their own network boundary.
var bindHosts = []string{"127.0.0.1", "::1", "localhost", "0.0.0.0", "::"}

// validate reports every configuration problem at once so operators can fix
// the environment in a single pass.
func (c *Config) validate() error {
	errs := []error{c.checkDatabase()}
	errs = append(errs, c.checkListeners()...)
	errs = append(errs, c.checkCatalogURLs()...)
	errs = append(errs, c.checkCORS())

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL is invalid: %w", err))
	}

	return errors.Join(errs...)
}

func (c *Config) checkDatabase() error {
	raw := c.DatabaseURL.Value()
	if raw == "" {
		return errors.New("DATABASE_URL is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("DATABASE_URL is not a valid URL: %w", err)
	}

	switch {
	case u.Scheme != "postgres" && u.Scheme != "postgresql":
		return errors.New("DATABASE_URL scheme must be postgres:// or postgresql://")
	case u.Hostname() == "":
		return errors.New("DATABASE_URL must include a host")
	case u.Query().Get("sslmode") == "disable" && !isLoopback(u.Hostname()):
		return fmt.Errorf("DATABASE_URL sslmode=disable is not allowed for non-local host %q", u.Hostname())
	}

	return nil
}

func (c *Config) checkListeners() []error {
	var errs []error

	port, portErr := parsePort("PORT", c.Port)
	metricsPort, metricsErr := parsePort("METRICS_PORT", c.MetricsPort)
	errs = append(errs, portErr, metricsErr)

	if portErr == nil && metricsErr == nil && port == metricsPort {
		errs = append(errs, errors.New("METRICS_PORT must differ from PORT"))
	}

	if !slices.Contains(bindHosts, c.ListenHost) {
		errs = append(errs, fmt.Errorf("LISTEN_HOST must be a loopback address or 0.0.0.0/:: for containers (got %q)", c.ListenHost))
	}

	return errs
}

func parsePort(name, raw string) (int, error) {
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", name, err)
	}

	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("%s must be between 1 and 65535", name)
	}

	return port, nil
}

// checkCatalogURLs requires HTTPS for the feed, except against a local stub.
func (c *Config) checkCatalogURLs() []error {
	var errs []error

	for _, setting := range []struct{ name, raw string }{
		{"TMDB_BASE_URL", c.TMDbBaseURL},
		{"TMDB_IMAGE_BASE_URL", c.TMDbImageBaseURL},
	} {
		u, err := url.ParseRequestURI(setting.raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s is not a valid URL: %w", setting.name, err))

			continue
		}

		plainLocal := u.Scheme == "http" && isLoopback(u.Hostname())
		if u.Scheme != "https" && !plainLocal {
			errs = append(errs, fmt.Errorf("%s must use HTTPS for non-localhost hosts", setting.name))
		}
	}

	return errs
}

func (c *Config) checkCORS() error {
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return errors.New("CORS_ORIGINS must not contain wildcard '*'")
		}

		if strings.ContainsAny(origin, "*?[]") {
			return fmt.Errorf("CORS_ORIGINS must not contain glob characters (*?[]), got %q", origin)
		}

		if u, err := url.Parse(origin); err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("CORS_ORIGINS contains invalid origin %q (must have scheme and host)", origin)
		}
	}

	return nil
}

func isLoopback(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}
