// Package snapshot serializes a Timeline to the versioned on-disk document
// format and loads it back, accepting both the canonical layout and the
// legacy flat layout the original desktop application wrote.
package snapshot

import "github.com/kofron/sightline/timeline"

// blockRecord is the canonical on-disk shape of a block.
type blockRecord struct {
	Date timeline.Date `json:"date"`
	Text string        `json:"text"`
	Tags []uint32      `json:"tags,omitempty"`
}

// legacyEntryRecord is the "entries" alias: same as blockRecord but with no
// tags field at all.
type legacyEntryRecord struct {
	Date timeline.Date `json:"date"`
	Text string        `json:"text"`
}

// tagRecord is the canonical on-disk shape of a tag registry entry.
type tagRecord struct {
	ID       uint32  `json:"id"`
	Name     string  `json:"name"`
	ParentID *uint32 `json:"parent_id,omitempty"`
	Color    string  `json:"color,omitempty"`
}

// document is the canonical envelope: {version, blocks, tag_registry?}.
type document struct {
	Version     uint64      `json:"version"`
	Blocks      []blockRecord `json:"blocks"`
	TagRegistry []tagRecord   `json:"tag_registry,omitempty"`
}
