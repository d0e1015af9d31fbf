package snapshot

import (
	"errors"
	"os"
	"path/filepath"
)

// PathEnvVar is the environment variable that overrides the default
// snapshot location.
const PathEnvVar = "SIGHTLINE_TIMELINE_PATH"

// ErrMissingConfigDir is returned by ResolvePath when no override is set
// and the platform's per-user configuration directory can't be resolved.
var ErrMissingConfigDir = errors.New("snapshot: no configuration directory resolvable")

// ResolvePath returns the snapshot file path: the environment override
// verbatim if set, otherwise the platform config directory plus
// "sightline/timeline.json". There is no process-wide singleton; every
// caller resolves independently.
func ResolvePath() (string, error) {
	if override := os.Getenv(PathEnvVar); override != "" {
		return override, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "", ErrMissingConfigDir
	}
	return filepath.Join(dir, "sightline", "timeline.json"), nil
}
