package checks

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Suite selects which checks run against a host and how.
type Suite struct {
	Checks             []string `yaml:"checks"`
	Retries            int      `yaml:"retries"`
	RetryDelaySeconds  int      `yaml:"retry_delay_seconds"`
	TimeoutSeconds     int      `yaml:"timeout_seconds"`
	LatencyThresholdMs int64    `yaml:"latency_threshold_ms"`
	ImageFile          string   `yaml:"image_file,omitempty"`
}

// DefaultSuite returns the suite used when no file is configured: every
// check that needs nothing beyond credentials.
func DefaultSuite() *Suite {
	return &Suite{
		Checks: []string{
			"auth",
			"user_profile",
			"note_roundtrip",
			"cursor_pagination",
			"tags",
			"latency",
		},
		Retries:            3,
		RetryDelaySeconds:  5,
		TimeoutSeconds:     30,
		LatencyThresholdMs: 2000,
	}
}

// LoadSuite loads a suite definition from a YAML file
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}

	suite := DefaultSuite()
	if err := yaml.Unmarshal(data, suite); err != nil {
		return nil, fmt.Errorf("failed to parse suite file: %w", err)
	}

	if len(suite.Checks) == 0 {
		return nil, fmt.Errorf("suite file selects no checks")
	}
	for _, name := range suite.Checks {
		if _, ok := builtins[name]; !ok {
			return nil, fmt.Errorf("unknown check: %s", name)
		}
	}

	return suite, nil
}

// RetryDelay returns the delay between attempts
func (s *Suite) RetryDelay() time.Duration {
	if s.RetryDelaySeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.RetryDelaySeconds) * time.Second
}

// Timeout returns the per-check timeout
func (s *Suite) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Attempts returns how many times a failing check is tried
func (s *Suite) Attempts() int {
	if s.Retries <= 0 {
		return 1
	}
	return s.Retries
}
