package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeSweeper runs the job-record sweeper.
	ServiceModeSweeper ServiceMode = "sweeper"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeHTTP,
		ServiceModeSweeper,
	}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	parts := strings.Split(servicesStr, ",")
	for _, part := range parts {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeSweeper:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: http, sweeper)",
				serviceName,
			)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// MLConfig contains configuration for the upstream ML service client.
type MLConfig struct {
	// BaseURL is the root URL of the ML service.
	BaseURL string `env:"ML_SERVICE_URL" envDefault:"http://localhost:5000"`

	// Timeout bounds a single analyze/generate call. Generation can be slow,
	// so the default is generous.
	Timeout time.Duration `env:"ML_TIMEOUT" envDefault:"5m"`
}

// Sanitize applies guardrails to ML client configuration values.
func (m *MLConfig) Sanitize() {
	m.BaseURL = strings.TrimSpace(m.BaseURL)
	if m.Timeout < time.Second {
		m.Timeout = time.Second
	}
}

// SweeperConfig contains job-record sweeper configuration.
type SweeperConfig struct {
	// Interval is the sweeper tick interval.
	Interval time.Duration `env:"SWEEPER_INTERVAL" envDefault:"1h"`

	// Retention is the age past which job records are evicted, regardless
	// of status.
	Retention time.Duration `env:"SWEEPER_RETENTION" envDefault:"1h"`
}

// Sanitize applies guardrails to sweeper configuration values.
func (s *SweeperConfig) Sanitize() {
	// Enforce minimums to prevent pathological churn
	if s.Interval < time.Minute {
		s.Interval = time.Minute
	}
	if s.Retention < time.Minute {
		s.Retention = time.Minute
	}
}
