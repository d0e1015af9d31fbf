package snapshot

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/kofron/sightline/timeline"
)

// logger is the package-wide structured logger used to report recoverable
// I/O failures at Warn level. Defaults to a no-op so callers that never
// install one pay nothing; install a real one with SetLogger.
var logger = zap.NewNop()

// SetLogger installs l as the package's logger. l == nil restores the
// no-op default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// Load reads and decodes the snapshot at path from fs. A missing file is
// not an error: it yields an empty Timeline, matching the engine's
// "start empty" lifecycle rule.
func Load(fs afero.Fs, path string) (*timeline.Timeline, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		logger.Warn("snapshot: failed checking file existence", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("snapshot: checking %s: %w", path, err)
	}
	if !exists {
		return timeline.New(), nil
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		logger.Warn("snapshot: failed reading file", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("snapshot: reading %s: %w", path, err)
	}
	tl, err := decode(data)
	if err != nil {
		logger.Warn("snapshot: failed decoding file", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("snapshot: loading %s: %w", path, err)
	}
	return tl, nil
}

// Save atomically writes tl's canonical serialization to path on fs:
// ensure the parent directory exists, write to a temp file in the same
// directory, then rename over the destination. A reader never observes a
// partially written file.
func Save(fs afero.Fs, path string, tl *timeline.Timeline) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		logger.Warn("snapshot: failed creating directory", zap.String("dir", dir), zap.Error(err))
		return fmt.Errorf("snapshot: creating directory %s: %w", dir, err)
	}

	data, err := encode(tl)
	if err != nil {
		return fmt.Errorf("snapshot: encoding: %w", err)
	}

	tmp := path + ".tmp"
	if err := afero.WriteFile(fs, tmp, data, 0o644); err != nil {
		logger.Warn("snapshot: failed writing temp file", zap.String("path", tmp), zap.Error(err))
		return fmt.Errorf("snapshot: writing temp file %s: %w", tmp, err)
	}
	if err := fs.Rename(tmp, path); err != nil {
		logger.Warn("snapshot: failed renaming temp file into place", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("snapshot: renaming %s to %s: %w", tmp, path, err)
	}
	return nil
}
