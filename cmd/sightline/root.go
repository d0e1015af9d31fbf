package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kofron/sightline/snapshot"
	"github.com/kofron/sightline/timeline"
)

// app bundles the dependencies every subcommand needs: the filesystem
// (afero, so tests can swap in an in-memory one), the resolved snapshot
// path, and a logger.
type app struct {
	fs     afero.Fs
	path   string
	logger *zap.Logger
}

func newRootCmd(logger *zap.Logger) *cobra.Command {
	var pathOverride string

	snapshot.SetLogger(logger)

	root := &cobra.Command{
		Use:   "sightline",
		Short: "Query and edit a sightline journal timeline",
	}
	root.PersistentFlags().StringVar(&pathOverride, "path", "", "snapshot file path (overrides SIGHTLINE_TIMELINE_PATH)")

	resolveApp := func() (*app, error) {
		path := pathOverride
		if path == "" {
			p, err := snapshot.ResolvePath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return &app{fs: afero.NewOsFs(), path: path, logger: logger}, nil
	}

	root.AddCommand(
		newContentCmd(resolveApp),
		newLogCmd(resolveApp),
		newInsertCmd(resolveApp),
		newDeleteCmd(resolveApp),
		newTagCmd(resolveApp),
		newTagsCmd(resolveApp),
		newBlocksCmd(resolveApp),
		newSearchCmd(resolveApp),
	)
	return root
}

func (a *app) load() (*timeline.Guard, error) {
	tl, err := snapshot.Load(a.fs, a.path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", a.path, err)
	}
	tl.SetLogger(a.logger)
	return timeline.NewGuard(tl), nil
}

func (a *app) save(g *timeline.Guard) error {
	if err := snapshot.Save(a.fs, a.path, g.Timeline()); err != nil {
		return fmt.Errorf("saving %s: %w", a.path, err)
	}
	return nil
}
