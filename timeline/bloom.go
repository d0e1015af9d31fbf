package timeline

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"hash"

	"github.com/holiman/bloomfilter/v2"
)

// Fixed geometry so that every TagFilter in the process (and across
// processes, given the zero seed below) agrees on m and k: the bloom filter
// bytes are part of the cached Summary, and summaries must combine
// byte-identically regardless of which process produced them.
const (
	filterCapacity  = 256
	filterFalsePositiveRate = 0.01
)

// filterZeroSeed is the fixed 32-byte seed used to derive the filter's hash
// keys deterministically, so two processes building the same block produce
// bit-identical filters.
var filterZeroSeed = make([]byte, 32)

// TagFilter is a bloom filter over tag IDs, the probabilistic piece of the
// Summary monoid. Construction is pure (no randomness), so TagFilter values
// built independently from the same geometry union cleanly.
type TagFilter struct {
	filter *bloomfilter.Filter
}

func newTagFilter() TagFilter {
	m := bloomfilter.OptimalM(filterCapacity, filterFalsePositiveRate)
	k := bloomfilter.OptimalK(m, filterCapacity)
	f, err := bloomfilter.NewWithKeys(m, deriveFilterKeys(k))
	if err != nil {
		panic(fmt.Sprintf("timeline: constructing tag bloom filter: %v", err))
	}
	return TagFilter{filter: f}
}

// deriveFilterKeys expands the fixed zero seed into k independent hash keys.
func deriveFilterKeys(k uint64) []uint64 {
	keys := make([]uint64, k)
	for i := range keys {
		block := append(append([]byte{}, filterZeroSeed...), byte(i), byte(i>>8))
		sum := sha256.Sum256(block)
		keys[i] = binary.LittleEndian.Uint64(sum[:8])
	}
	return keys
}

// Add sets the bits corresponding to tagID.
func (f TagFilter) Add(tagID uint32) {
	f.filter.Add(tagHash(tagID))
}

// Contains reports whether tagID may be present (false positives possible,
// false negatives impossible).
func (f TagFilter) Contains(tagID uint32) bool {
	return f.filter.Contains(tagHash(tagID))
}

// Union ORs other's bits into f in place. f must not be aliased by any
// summary already cached elsewhere — callers only invoke Union against a
// freshly constructed, unshared filter (see Summary.Combine).
func (f TagFilter) Union(other TagFilter) {
	if _, err := f.filter.UnionInPlace(other.filter); err != nil {
		panic(fmt.Sprintf("timeline: union of incompatible tag filters: %v", err))
	}
}

// tagHash adapts a tag ID to the hash.Hash64 interface the bloom filter
// library hashes against; tag IDs are used directly as the 64-bit digest.
type tagHash uint64

func (h tagHash) Write(p []byte) (int, error) { return len(p), nil }
func (h tagHash) Sum(b []byte) []byte         { return b }
func (h tagHash) Reset()                      {}
func (h tagHash) Size() int                   { return 8 }
func (h tagHash) BlockSize() int              { return 8 }
func (h tagHash) Sum64() uint64                { return uint64(h) }

var _ hash.Hash64 = tagHash(0)
