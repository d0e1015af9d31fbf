package timeline

import (
	"fmt"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"go.uber.org/zap"

	"github.com/kofron/sightline/internal/satmath"
	"github.com/kofron/sightline/tagregistry"
)

// OpKind distinguishes the two text operation variants.
type OpKind int

const (
	OpInsert OpKind = iota
	OpDelete
)

// TextOp is a single positional edit: either Insert{Position, Text} or
// Delete{Start, End}, selected by Kind. Positions are character offsets.
type TextOp struct {
	Kind     OpKind
	Position int
	Text     string
	Start    int
	End      int
}

// Insert builds an Insert text op.
func Insert(position int, text string) TextOp {
	return TextOp{Kind: OpInsert, Position: position, Text: text}
}

// Delete builds a Delete text op.
func Delete(start, end int) TextOp {
	return TextOp{Kind: OpDelete, Start: start, End: end}
}

// BlockInfo describes a block's position within the document, as returned
// by ListBlocks.
type BlockInfo struct {
	Index           int
	StartCharOffset uint32
	EndCharOffset   uint32
	Tags            []uint32
}

// Timeline owns the rope, the tag registry, and the monotonic version
// counter. The zero value is not usable; construct with New or Restore.
type Timeline struct {
	rope     Sumtree
	registry *tagregistry.Registry
	version  uint64
	logger   *zap.Logger
}

// New returns an empty Timeline.
func New() *Timeline {
	return &Timeline{rope: NewSumtree(), registry: tagregistry.New(), logger: zap.NewNop()}
}

// Restore reconstructs a Timeline from its persisted parts, the entry
// point the snapshot codec uses after decoding a file.
func Restore(version uint64, blocks []Block, registry *tagregistry.Registry) *Timeline {
	return &Timeline{rope: SumtreeFromBlocks(blocks), registry: registry, version: version, logger: zap.NewNop()}
}

// SetLogger installs l as the Timeline's structured logger, used to report
// routine operations at Debug level. Callers that don't set one get a
// no-op logger, so logging is always safe to call into.
func (tl *Timeline) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	tl.logger = l
}

func (tl *Timeline) Version() uint64        { return tl.version }
func (tl *Timeline) EntryCount() int        { return int(tl.rope.Summary().Blocks) }
func (tl *Timeline) Summary() Summary       { return tl.rope.Summary() }
func (tl *Timeline) Blocks() []Block        { return tl.rope.Items() }
func (tl *Timeline) Registry() *tagregistry.Registry { return tl.registry }

// Content returns the concatenated text of every block, in order.
func (tl *Timeline) Content() string {
	var b strings.Builder
	tl.rope.Iterate(func(blk Block) bool {
		b.WriteString(blk.Text)
		return true
	})
	return b.String()
}

// LogForDate returns the concatenated text of blocks dated exactly date,
// or ok=false if nothing matches (including when date falls outside the
// timeline's [min_date, max_date] range).
func (tl *Timeline) LogForDate(date Date) (content string, ok bool) {
	sum := tl.rope.Summary()
	if sum.MinDate == nil || date.Before(*sum.MinDate) || date.After(*sum.MaxDate) {
		return "", false
	}
	var b strings.Builder
	found := false
	tl.rope.Iterate(func(blk Block) bool {
		if blk.Date.Compare(date) == 0 {
			b.WriteString(blk.Text)
			found = true
		}
		return true
	})
	if !found {
		return "", false
	}
	return b.String(), true
}

// ApplyOps is the optimistic-concurrency edit entry point. If baseVersion
// doesn't match the current version, it fails with *VersionMismatchError
// and leaves the timeline untouched. An empty ops list succeeds without
// bumping the version. Ops are applied to a scratch copy of the rope and
// only committed if every op succeeds, so a failing op in the middle of a
// batch never leaves partially-applied state observable.
func (tl *Timeline) ApplyOps(baseVersion uint64, ops []TextOp) (uint64, error) {
	if baseVersion != tl.version {
		return 0, &VersionMismatchError{Expected: tl.version, Actual: baseVersion}
	}
	if len(ops) == 0 {
		return tl.version, nil
	}

	today := Today()
	scratch := tl.rope
	for _, op := range ops {
		var err error
		switch op.Kind {
		case OpInsert:
			scratch, err = applyInsert(scratch, op.Position, op.Text, today)
		case OpDelete:
			scratch, err = applyDelete(scratch, op.Start, op.End)
		default:
			err = ErrUnknownOp
		}
		if err != nil {
			return 0, err
		}
	}

	tl.rope = scratch
	tl.version++
	tl.logger.Debug("applied ops", zap.Int("op_count", len(ops)), zap.Uint64("new_version", tl.version))
	return tl.version, nil
}

// InternTag trims raw, strips one leading '#', interns the resulting
// colon-path, and returns its descriptor.
func (tl *Timeline) InternTag(raw string) (tagregistry.TagDescriptor, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "#")
	s = strings.TrimSpace(s)
	if s == "" {
		return tagregistry.TagDescriptor{}, ErrTagEmpty
	}
	if strings.Trim(s, "#") == "" {
		return tagregistry.TagDescriptor{}, ErrTagInvalid
	}
	id, ok := tl.registry.InternColonPath(s)
	if !ok {
		return tagregistry.TagDescriptor{}, ErrTagEmpty
	}
	full, _ := tl.registry.FullName(id)
	tag, _ := tl.registry.Tag(id)
	tl.logger.Debug("interned tag", zap.Uint32("id", id), zap.String("name", full))
	return tagregistry.TagDescriptor{ID: id, Name: "#" + full, Color: tag.Color}, nil
}

// AssignBlockTags interns each tag string (failures propagate) and
// replaces blockIndex's tag list with the resulting ids, in input order.
// This does not bump the version: it mutates block metadata, not the
// document's edit history.
func (tl *Timeline) AssignBlockTags(blockIndex int, tagStrings []string) error {
	items := tl.rope.Items()
	if blockIndex < 0 || blockIndex >= len(items) {
		return fmt.Errorf("%w: %d", ErrUnknownBlock, blockIndex)
	}
	ids := make([]uint32, 0, len(tagStrings))
	for _, raw := range tagStrings {
		desc, err := tl.InternTag(raw)
		if err != nil {
			return err
		}
		ids = append(ids, desc.ID)
	}
	items[blockIndex].Tags = ids
	tl.rope = SumtreeFromBlocks(items)
	tl.logger.Debug("assigned block tags", zap.Int("block_index", blockIndex), zap.Int("tag_count", len(ids)))
	return nil
}

// ListTags returns every tag as a descriptor, sorted by full name.
func (tl *Timeline) ListTags() []tagregistry.TagDescriptor {
	return tl.registry.ListTags()
}

// ListBlocks returns every block's position, offsets computed by running
// sum of char count in iteration order and saturating at the 32-bit max.
func (tl *Timeline) ListBlocks() []BlockInfo {
	items := tl.rope.Items()
	out := make([]BlockInfo, 0, len(items))
	var offset uint32
	for i, b := range items {
		start := offset
		end := satmath.SaturatingAddUint32(offset, uint32(b.CharCount()))
		out = append(out, BlockInfo{Index: i, StartCharOffset: start, EndCharOffset: end, Tags: cloneTags(b.Tags)})
		offset = end
	}
	return out
}

// SearchPrefix resolves q through the registry (tag_ids_with_prefix) and
// returns the 0-based indices of blocks tagged with any resolved id.
func (tl *Timeline) SearchPrefix(q string) []int {
	return tl.searchByIDs(tl.registry.TagIDsWithPrefix(q))
}

// SearchInfix resolves q through the registry (tag_ids_with_infix) and
// returns the 0-based indices of blocks tagged with any resolved id.
func (tl *Timeline) SearchInfix(q string) []int {
	return tl.searchByIDs(tl.registry.TagIDsWithInfix(q))
}

func (tl *Timeline) searchByIDs(ids []uint32) []int {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[uint32]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	predicate := func(s Summary) bool {
		for id := range set {
			if s.Filter.Contains(id) {
				return true
			}
		}
		return false
	}

	matches := roaring.New()
	tl.rope.IterateFiltered(predicate, func(idx int, b Block) bool {
		for _, t := range b.Tags {
			if set[t] {
				matches.Add(uint32(idx))
				break
			}
		}
		return true
	})

	out := make([]int, 0, matches.GetCardinality())
	it := matches.Iterator()
	for it.HasNext() {
		out = append(out, int(it.Next()))
	}
	return out
}

// Guard wraps a Timeline with the coarse-grained mutual exclusion the
// concurrency model requires: callers hold the lock for the duration of
// any composite operation (e.g. edit-then-save) to observe a consistent
// version.
type Guard struct {
	mu sync.Mutex
	tl *Timeline
}

// NewGuard wraps tl for external mutual exclusion.
func NewGuard(tl *Timeline) *Guard { return &Guard{tl: tl} }

// Lock acquires the guard's mutex.
func (g *Guard) Lock() { g.mu.Lock() }

// Unlock releases the guard's mutex.
func (g *Guard) Unlock() { g.mu.Unlock() }

// Timeline returns the wrapped Timeline. Callers must hold the lock for
// the duration of any read-modify-write sequence.
func (g *Guard) Timeline() *Timeline { return g.tl }
