package snapshot

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/kofron/sightline/tagregistry"
	"github.com/kofron/sightline/timeline"
)

// rawEnvelope captures both on-disk shapes without committing to either:
// canonical "blocks" vs legacy "entries", and canonical tag_registry array
// vs legacy stringified-id -> colon-path map.
type rawEnvelope struct {
	Version     uint64          `json:"version"`
	Blocks      json.RawMessage `json:"blocks"`
	Entries     json.RawMessage `json:"entries"`
	TagRegistry json.RawMessage `json:"tag_registry"`
}

// decode parses raw bytes into a Timeline, accepting both on-disk shapes
// described in the snapshot format.
func decode(data []byte) (*timeline.Timeline, error) {
	var env rawEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("snapshot: decoding envelope: %w", err)
	}

	blocks, err := decodeBlocks(env.Blocks, env.Entries)
	if err != nil {
		return nil, err
	}

	registry, err := decodeRegistry(env.TagRegistry)
	if err != nil {
		return nil, err
	}
	registry.BackfillColors()
	registry.RebuildAllocator()

	return timeline.Restore(env.Version, blocks, registry), nil
}

func decodeBlocks(blocksRaw, entriesRaw json.RawMessage) ([]timeline.Block, error) {
	if len(blocksRaw) > 0 {
		var records []blockRecord
		if err := json.Unmarshal(blocksRaw, &records); err != nil {
			return nil, fmt.Errorf("snapshot: decoding blocks: %w", err)
		}
		out := make([]timeline.Block, len(records))
		for i, r := range records {
			out[i] = timeline.Block{Date: r.Date, Text: r.Text, Tags: r.Tags}
		}
		return out, nil
	}
	if len(entriesRaw) > 0 {
		var records []legacyEntryRecord
		if err := json.Unmarshal(entriesRaw, &records); err != nil {
			return nil, fmt.Errorf("snapshot: decoding legacy entries: %w", err)
		}
		out := make([]timeline.Block, len(records))
		for i, r := range records {
			out[i] = timeline.Block{Date: r.Date, Text: r.Text}
		}
		return out, nil
	}
	return nil, nil
}

func decodeRegistry(raw json.RawMessage) (*tagregistry.Registry, error) {
	reg := tagregistry.New()
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return reg, nil
	}

	switch trimmed[0] {
	case '[':
		var records []tagRecord
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("snapshot: decoding tag registry: %w", err)
		}
		// Parents must be interned before children reference them; records
		// are written in no guaranteed order, so process in ID order, which
		// is sufficient since ids are monotonically assigned as tags are
		// interned in ancestor-before-descendant order originally.
		sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
		for _, r := range records {
			reg.InternSegmentWithID(r.ID, r.ParentID, r.Name)
		}
		return reg, nil
	case '{':
		var legacy map[string]string
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return nil, fmt.Errorf("snapshot: decoding legacy tag registry: %w", err)
		}
		return decodeLegacyRegistry(legacy)
	default:
		return nil, fmt.Errorf("snapshot: tag_registry has unrecognized shape")
	}
}

// decodeLegacyRegistry re-interns each recorded colon-path, preserving the
// numeric ID only for the path's terminal segment; ancestor segments
// (never individually recorded in this format) are freshly allocated.
func decodeLegacyRegistry(legacy map[string]string) (*tagregistry.Registry, error) {
	reg := tagregistry.New()
	type entry struct {
		id   uint32
		path string
	}
	entries := make([]entry, 0, len(legacy))
	for idStr, path := range legacy {
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("snapshot: legacy tag registry key %q is not a numeric id: %w", idStr, err)
		}
		entries = append(entries, entry{id: uint32(id), path: path})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	for _, e := range entries {
		segments := splitColonPath(e.path)
		if len(segments) == 0 {
			continue
		}
		var parent *uint32
		for _, seg := range segments[:len(segments)-1] {
			id := reg.InternSegment(parent, seg)
			parent = &id
		}
		reg.InternSegmentWithID(e.id, parent, segments[len(segments)-1])
	}
	return reg, nil
}

func splitColonPath(s string) []string {
	var out []string
	for _, seg := range strings.Split(s, ":") {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// encode serializes tl into the canonical on-disk document.
func encode(tl *timeline.Timeline) ([]byte, error) {
	blocks := tl.Blocks()
	blockRecords := make([]blockRecord, len(blocks))
	for i, b := range blocks {
		blockRecords[i] = blockRecord{Date: b.Date, Text: b.Text, Tags: b.Tags}
	}

	doc := document{Version: tl.Version(), Blocks: blockRecords}

	tags := tl.Registry().Tags()
	if len(tags) > 0 {
		sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
		records := make([]tagRecord, len(tags))
		for i, t := range tags {
			records[i] = tagRecord{ID: t.ID, Name: t.Name, ParentID: t.ParentID, Color: t.Color}
		}
		doc.TagRegistry = records
	}

	return json.MarshalIndent(doc, "", "  ")
}
