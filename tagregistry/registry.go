package tagregistry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/btree"

	"github.com/kofron/sightline/internal/satmath"
)

// ErrRegistryExhausted is returned by the ID allocator when every 32-bit ID
// is already in use (wraparound probing found no free slot).
var ErrRegistryExhausted = errors.New("tagregistry: id space exhausted")

// secondaryEntry is the (parent, segment name) -> id index record, ordered
// so segments sharing a parent sort together by name.
type secondaryEntry struct {
	hasParent bool
	parentID  uint32
	name      string
	id        uint32
}

func lessSecondary(a, b secondaryEntry) bool {
	if a.hasParent != b.hasParent {
		return !a.hasParent && b.hasParent
	}
	if a.parentID != b.parentID {
		return a.parentID < b.parentID
	}
	return a.name < b.name
}

// Registry is the hierarchical tag namespace: an ID-keyed map of tags plus
// a (parent, name) secondary index and a wraparound ID allocator. The zero
// value is not usable; construct with New.
type Registry struct {
	tags   map[uint32]Tag
	index  *btree.BTreeG[secondaryEntry]
	nextID uint32
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		tags:  make(map[uint32]Tag),
		index: btree.NewBTreeG(lessSecondary),
	}
}

func keyFor(parent *uint32, name string) secondaryEntry {
	if parent == nil {
		return secondaryEntry{name: name}
	}
	return secondaryEntry{hasParent: true, parentID: *parent, name: name}
}

// FindID looks up an already-interned segment without creating one.
func (r *Registry) FindID(parent *uint32, name string) (uint32, bool) {
	e, ok := r.index.Get(keyFor(parent, name))
	if !ok {
		return 0, false
	}
	return e.id, true
}

// Tag returns the tag with the given id.
func (r *Registry) Tag(id uint32) (Tag, bool) {
	t, ok := r.tags[id]
	return t, ok
}

// Tags returns every tag in the registry, in no particular order.
func (r *Registry) Tags() []Tag {
	out := make([]Tag, 0, len(r.tags))
	for _, t := range r.tags {
		out = append(out, t)
	}
	return out
}

// InternSegment idempotently interns a single segment under an optional
// parent, returning its stable id. Interning under a parent id that is not
// already registered is a programmer error and panics, per the registry's
// total-function invariant on (id -> Tag).
func (r *Registry) InternSegment(parent *uint32, name string) uint32 {
	if id, ok := r.FindID(parent, name); ok {
		return id
	}
	if parent != nil {
		if _, ok := r.tags[*parent]; !ok {
			panic(fmt.Sprintf("tagregistry: interning %q under unknown parent id %d", name, *parent))
		}
	}
	id, err := r.allocate()
	if err != nil {
		panic(err)
	}
	return r.insert(id, parent, name)
}

// InternSegmentWithID interns a segment at an explicit id, used by the
// legacy snapshot loader to preserve recorded numeric IDs. It is the
// caller's responsibility to ensure id is not already in use; advancing
// nextID past id is handled here.
func (r *Registry) InternSegmentWithID(id uint32, parent *uint32, name string) uint32 {
	if existing, ok := r.FindID(parent, name); ok {
		return existing
	}
	if id >= r.nextID {
		r.nextID = satmath.WrapIncrement(id)
	}
	return r.insert(id, parent, name)
}

func (r *Registry) insert(id uint32, parent *uint32, name string) uint32 {
	r.tags[id] = Tag{ID: id, Name: name, ParentID: parent, Color: colorFor(id)}
	r.index.Set(secondaryEntry{hasParent: parent != nil, parentID: derefOr0(parent), name: name, id: id})
	return id
}

func derefOr0(p *uint32) uint32 {
	if p == nil {
		return 0
	}
	return *p
}

// allocate picks a free id starting at nextID, probing forward with wrap
// until a free slot is found or every id has been tried.
func (r *Registry) allocate() (uint32, error) {
	start := r.nextID
	id := start
	for {
		if _, taken := r.tags[id]; !taken {
			r.nextID = satmath.WrapIncrement(id)
			return id, nil
		}
		id = satmath.WrapIncrement(id)
		if id == start {
			return 0, ErrRegistryExhausted
		}
	}
}

// RebuildAllocator re-derives nextID as max(existing ids)+1 (0 if empty),
// the rule snapshot loading uses instead of trusting a persisted counter.
func (r *Registry) RebuildAllocator() {
	if len(r.tags) == 0 {
		r.nextID = 0
		return
	}
	var max uint32
	first := true
	for id := range r.tags {
		if first || id > max {
			max = id
			first = false
		}
	}
	r.nextID = satmath.WrapIncrement(max)
}

// InternPath interns each segment in sequence, each under the previous,
// returning the terminal id. Empty segments (after trimming) are skipped.
// ok is false if no non-empty segment was found.
func (r *Registry) InternPath(segments []string) (id uint32, ok bool) {
	var parent *uint32
	for _, raw := range segments {
		seg := strings.TrimSpace(raw)
		if seg == "" {
			continue
		}
		next := r.InternSegment(parent, seg)
		parent = &next
		id, ok = next, true
	}
	return id, ok
}

// InternColonPath splits s on ':', trims each segment, and delegates to
// InternPath.
func (r *Registry) InternColonPath(s string) (uint32, bool) {
	return r.InternPath(strings.Split(s, ":"))
}

const cycleGuardSlack = 1

// FullName reconstructs a tag's colon-joined ancestry from root to self,
// following parent pointers with a cycle guard bounded by registry size+1.
func (r *Registry) FullName(id uint32) (string, bool) {
	var segs []string
	cur := id
	limit := len(r.tags) + cycleGuardSlack
	for i := 0; ; i++ {
		if i >= limit {
			return "", false
		}
		t, ok := r.tags[cur]
		if !ok {
			return "", false
		}
		segs = append(segs, t.Name)
		if t.ParentID == nil {
			break
		}
		cur = *t.ParentID
	}
	for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
		segs[i], segs[j] = segs[j], segs[i]
	}
	return strings.Join(segs, ":"), true
}

// TagDescriptor is the (id, display name, color) triple returned by
// interning and listing operations.
type TagDescriptor struct {
	ID    uint32
	Name  string // "#full:name"
	Color string
}

func normalizeQuery(q string) string {
	q = strings.TrimSpace(q)
	q = strings.TrimPrefix(q, "#")
	return strings.ToLower(strings.TrimSpace(q))
}

// Autocomplete returns the sorted, deduplicated set of tags whose lowercase
// full name starts with the normalized query. An empty query returns no
// results.
func (r *Registry) Autocomplete(query string) []TagDescriptor {
	q := normalizeQuery(query)
	if q == "" {
		return nil
	}
	seen := make(map[uint32]bool)
	var out []TagDescriptor
	for id := range r.tags {
		full, ok := r.FullName(id)
		if !ok || seen[id] {
			continue
		}
		if strings.HasPrefix(strings.ToLower(full), q) {
			seen[id] = true
			out = append(out, TagDescriptor{ID: id, Name: "#" + full, Color: r.tags[id].Color})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// TagIDsWithPrefix returns the ids whose lowercase full name starts with
// the normalized query, unordered.
func (r *Registry) TagIDsWithPrefix(query string) []uint32 {
	return r.matchingIDs(normalizeQuery(query), strings.HasPrefix)
}

// TagIDsWithInfix returns the ids whose lowercase full name contains the
// normalized query, unordered.
func (r *Registry) TagIDsWithInfix(query string) []uint32 {
	return r.matchingIDs(normalizeQuery(query), strings.Contains)
}

func (r *Registry) matchingIDs(q string, match func(s, substr string) bool) []uint32 {
	if q == "" {
		return nil
	}
	var out []uint32
	for id := range r.tags {
		full, ok := r.FullName(id)
		if ok && match(strings.ToLower(full), q) {
			out = append(out, id)
		}
	}
	return out
}

// ListTags returns every tag as a descriptor, sorted by full name.
func (r *Registry) ListTags() []TagDescriptor {
	out := make([]TagDescriptor, 0, len(r.tags))
	for id, t := range r.tags {
		full, ok := r.FullName(id)
		if !ok {
			continue
		}
		out = append(out, TagDescriptor{ID: id, Name: "#" + full, Color: t.Color})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// BackfillColors assigns the deterministic palette color to any tag
// missing one, the repair legacy/partial snapshots need on load.
func (r *Registry) BackfillColors() {
	for id, t := range r.tags {
		if t.Color == "" {
			t.Color = colorFor(id)
			r.tags[id] = t
		}
	}
}
