package timeline

// Summary is the monoid aggregated at every subtree root: counts, date
// bounds, and a tag bloom filter. The zero element is ZeroSummary.
type Summary struct {
	Bytes   uint64
	Chars   uint64
	Blocks  uint64
	MinDate *Date
	MaxDate *Date
	Filter  TagFilter
}

// ZeroSummary returns the identity element of the monoid.
func ZeroSummary() Summary {
	return Summary{Filter: newTagFilter()}
}

// BlockSummary derives the per-block summary used as a sum-tree leaf's
// cached aggregate.
func BlockSummary(b Block) Summary {
	s := Summary{
		Bytes:  uint64(b.ByteCount()),
		Chars:  uint64(b.CharCount()),
		Blocks: 1,
		Filter: newTagFilter(),
	}
	d := b.Date
	s.MinDate = &d
	s.MaxDate = &d
	for _, tagID := range b.Tags {
		s.Filter.Add(tagID)
	}
	return s
}

// Combine folds other into s. s must be a freshly zeroed (unshared) summary:
// internal nodes always build a new Summary via ZeroSummary and Combine
// their children into it, never mutating an already-cached summary in
// place, so a cached leaf or subtree summary is never corrupted by a later
// combine elsewhere in the tree.
func (s *Summary) Combine(other Summary) {
	s.Bytes += other.Bytes
	s.Chars += other.Chars
	s.Blocks += other.Blocks
	s.MinDate = minDate(s.MinDate, other.MinDate)
	s.MaxDate = maxDate(s.MaxDate, other.MaxDate)
	s.Filter.Union(other.Filter)
}

func minDate(a, b *Date) *Date {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if b.Before(*a) {
		return b
	}
	return a
}

func maxDate(a, b *Date) *Date {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if b.After(*a) {
		return b
	}
	return a
}

// DimensionFunc projects a Summary onto a linear (monoid-homomorphic)
// dimension used to drive cursor descent.
type DimensionFunc func(Summary) uint64

// CharCount is the required linear dimension: cumulative character count.
func CharCount(s Summary) uint64 { return s.Chars }

// ByteCount is an optional linear dimension over cumulative byte count.
func ByteCount(s Summary) uint64 { return s.Bytes }

// BlockCountDimension is an optional linear dimension over cumulative block count.
func BlockCountDimension(s Summary) uint64 { return s.Blocks }
