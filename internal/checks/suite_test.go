package checks

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSuite(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSuite(t *testing.T) {
	path := writeSuite(t, `
checks:
  - auth
  - latency
retries: 2
retry_delay_seconds: 1
timeout_seconds: 10
latency_threshold_ms: 500
`)

	suite, err := LoadSuite(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"auth", "latency"}, suite.Checks)
	assert.Equal(t, 2, suite.Attempts())
	assert.Equal(t, time.Second, suite.RetryDelay())
	assert.Equal(t, 10*time.Second, suite.Timeout())
	assert.Equal(t, int64(500), suite.LatencyThresholdMs)
}

func TestLoadSuiteUnknownCheck(t *testing.T) {
	path := writeSuite(t, "checks:\n  - bogus\n")
	_, err := LoadSuite(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown check: bogus")
}

func TestLoadSuiteEmpty(t *testing.T) {
	path := writeSuite(t, "checks: []\n")
	_, err := LoadSuite(path)
	require.Error(t, err)
}

func TestLoadSuiteMissingFile(t *testing.T) {
	_, err := LoadSuite(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestSuiteDefaults(t *testing.T) {
	suite := &Suite{Checks: []string{"auth"}}

	assert.Equal(t, 1, suite.Attempts())
	assert.Equal(t, 5*time.Second, suite.RetryDelay())
	assert.Equal(t, 30*time.Second, suite.Timeout())
}

func TestDefaultSuiteIsValid(t *testing.T) {
	suite := DefaultSuite()
	require.NotEmpty(t, suite.Checks)
	for _, name := range suite.Checks {
		_, ok := Lookup(name)
		assert.True(t, ok, name)
	}
}
