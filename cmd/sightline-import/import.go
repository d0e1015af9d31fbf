package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/kofron/sightline/snapshot"
	"github.com/kofron/sightline/tagregistry"
	"github.com/kofron/sightline/timeline"
)

const importConcurrency = 8

var journalFilenamePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})\.md$`)

var nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]+`)

// runImport reads every Markdown file under sourceDir/journal and
// sourceDir/projects concurrently, and writes the resulting snapshot to
// snapshotPath on the real filesystem.
func runImport(ctx context.Context, sourceDir, snapshotPath string) error {
	fs := afero.NewOsFs()

	journalFiles, err := discoverJournalFiles(fs, filepath.Join(sourceDir, "journal"))
	if err != nil {
		return fmt.Errorf("import: discovering journal files: %w", err)
	}
	projectFiles, err := discoverProjectFiles(fs, filepath.Join(sourceDir, "projects"))
	if err != nil {
		return fmt.Errorf("import: discovering project files: %w", err)
	}
	files := append(journalFiles, projectFiles...)

	blocks, err := readBlocks(ctx, fs, files)
	if err != nil {
		return err
	}

	sort.Slice(blocks, func(i, j int) bool { return blocks[i].path < blocks[j].path })

	registry := tagregistry.New()
	journalTag, _ := registry.InternColonPath("type:journal")
	projectTag := registry.InternSegment(nil, "project")
	projectNoteTag, _ := registry.InternColonPath("type:project-note")

	out := make([]timeline.Block, 0, len(blocks))
	for _, b := range blocks {
		tags := []uint32{}
		if b.isJournal {
			tags = append(tags, journalTag)
		} else {
			tags = append(tags, projectTag, projectNoteTag)
			tags = append(tags, internPathSegments(registry, projectTag, b.dirSegments)...)
		}
		out = append(out, timeline.Block{Date: b.date, Text: b.text, Tags: tags})
	}

	tl := timeline.Restore(0, out, registry)
	if err := snapshot.Save(fs, snapshotPath, tl); err != nil {
		return fmt.Errorf("import: saving snapshot: %w", err)
	}
	return nil
}

type discoveredFile struct {
	path        string
	isJournal   bool
	dirSegments []string      // relative to the projects root; empty for journal files
	date        timeline.Date // valid only for journal files, derived from the filename
}

// discoverJournalFiles walks root (sourceDir/journal) for *.md files, each
// dated from its YYYY-MM-DD.md filename. A missing root is not an error:
// a source tree with no journal entries yields an empty slice.
func discoverJournalFiles(fs afero.Fs, root string) ([]discoveredFile, error) {
	exists, err := afero.DirExists(fs, root)
	if err != nil || !exists {
		return nil, err
	}
	var out []discoveredFile
	err = afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		date, ok := parseJournalDate(filepath.Base(path))
		if !ok {
			return fmt.Errorf("import: %s: filename is not a YYYY-MM-DD.md journal date", path)
		}
		out = append(out, discoveredFile{path: path, isJournal: true, date: date})
		return nil
	})
	return out, err
}

// discoverProjectFiles walks root (sourceDir/projects) for *.md files,
// recording each file's directory path relative to root (never including
// "projects" itself) as dirSegments. A missing root is not an error.
func discoverProjectFiles(fs afero.Fs, root string) ([]discoveredFile, error) {
	exists, err := afero.DirExists(fs, root)
	if err != nil || !exists {
		return nil, err
	}
	var out []discoveredFile
	err = afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		out = append(out, discoveredFile{path: path, isJournal: false, dirSegments: relDirSegments(rel)})
		return nil
	})
	return out, err
}

// relDirSegments splits a project-root-relative file path into its
// directory segments, or nil if the file sits directly under the root.
func relDirSegments(rel string) []string {
	dir := filepath.Dir(rel)
	if dir == "." {
		return nil
	}
	return strings.Split(dir, string(filepath.Separator))
}

func parseJournalDate(filename string) (timeline.Date, bool) {
	m := journalFilenamePattern.FindStringSubmatch(filename)
	if m == nil {
		return timeline.Date{}, false
	}
	date, err := timeline.ParseDate(fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3]))
	if err != nil {
		return timeline.Date{}, false
	}
	return date, true
}

type blockWithPath struct {
	path        string
	isJournal   bool
	dirSegments []string
	date        timeline.Date
	text        string
}

// readBlocks reads every file's content concurrently, bounded by
// importConcurrency, using the file's mtime as its date when it isn't a
// journal entry.
func readBlocks(ctx context.Context, fs afero.Fs, files []discoveredFile) ([]blockWithPath, error) {
	results := make([]blockWithPath, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(importConcurrency)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			data, err := afero.ReadFile(fs, f.path)
			if err != nil {
				return fmt.Errorf("import: reading %s: %w", f.path, err)
			}
			date := f.date
			if !f.isJournal {
				info, err := fs.Stat(f.path)
				if err != nil {
					return fmt.Errorf("import: stat %s: %w", f.path, err)
				}
				mtime := info.ModTime().UTC()
				date = timeline.NewDate(mtime.Year(), mtime.Month(), mtime.Day())
			}
			results[i] = blockWithPath{
				path:        f.path,
				isJournal:   f.isJournal,
				dirSegments: f.dirSegments,
				date:        date,
				text:        string(data),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// internPathSegments interns one tag per normalized directory path
// segment, each nested under the previous and the whole chain rooted
// under root (the shared project tag), so a note under
// projects/acme/api/ gets full names project:acme, project:acme:api.
func internPathSegments(registry *tagregistry.Registry, root uint32, segments []string) []uint32 {
	ids := make([]uint32, 0, len(segments))
	parent := &root
	for _, seg := range segments {
		norm := normalizeSegment(seg)
		if norm == "" {
			continue
		}
		id := registry.InternSegment(parent, norm)
		ids = append(ids, id)
		parent = &id
	}
	return ids
}

func normalizeSegment(s string) string {
	lower := strings.ToLower(s)
	dashed := nonAlnumPattern.ReplaceAllString(lower, "-")
	return strings.Trim(dashed, "-")
}
