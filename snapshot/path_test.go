package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePathUsesEnvOverrideVerbatim(t *testing.T) {
	t.Setenv(PathEnvVar, "/custom/path/timeline.json")
	path, err := ResolvePath()
	require.NoError(t, err)
	assert.Equal(t, "/custom/path/timeline.json", path)
}

func TestResolvePathFallsBackToConfigDir(t *testing.T) {
	t.Setenv(PathEnvVar, "")
	t.Setenv("XDG_CONFIG_HOME", "/home/tester/.config")
	path, err := ResolvePath()
	require.NoError(t, err)
	assert.Contains(t, path, "sightline/timeline.json")
}
