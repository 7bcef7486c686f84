package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load()
	require.NoError(t, err)
	require.Empty(t, s.Exclude)
	require.GreaterOrEqual(t, s.Workers, 2)
	require.LessOrEqual(t, s.Workers, 8)
	require.Empty(t, s.LogDir)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SCOUR_WORKERS", "3")
	t.Setenv("SCOUR_LOG_DIR", "/tmp/scour-logs")

	s, err := Load()
	require.NoError(t, err)
	require.Equal(t, 3, s.Workers)
	require.Equal(t, "/tmp/scour-logs", s.LogDir)
}

func TestLoadRejectsNonPositiveWorkers(t *testing.T) {
	t.Setenv("SCOUR_WORKERS", "0")

	s, err := Load()
	require.NoError(t, err)
	require.GreaterOrEqual(t, s.Workers, 2)
}
