package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		cfgFile = ""
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestHelpWorksWithoutConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "config.ini")

	out, err := runRoot(t, "--config", missing, "help", "note")
	require.NoError(t, err)
	assert.Contains(t, out, "note")
}

func TestCommandsRequireConfig(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "config.ini")

	_, err := runRoot(t, "--config", missing, "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snaptic init")
}
