package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestZeroSummaryIsIdentity(t *testing.T) {
	b := Block{Date: NewDate(2024, time.March, 1), Text: "hi", Tags: []uint32{1}}
	s := BlockSummary(b)

	combined := ZeroSummary()
	combined.Combine(s)
	assert.Equal(t, s.Bytes, combined.Bytes)
	assert.Equal(t, s.Chars, combined.Chars)
	assert.Equal(t, s.Blocks, combined.Blocks)
	assert.True(t, combined.Filter.Contains(1))
}

func TestSummaryCombineCounts(t *testing.T) {
	b1 := Block{Date: NewDate(2024, time.March, 1), Text: "abc"}
	b2 := Block{Date: NewDate(2024, time.March, 2), Text: "de"}

	s := ZeroSummary()
	s.Combine(BlockSummary(b1))
	s.Combine(BlockSummary(b2))

	assert.Equal(t, uint64(5), s.Chars)
	assert.Equal(t, uint64(5), s.Bytes)
	assert.Equal(t, uint64(2), s.Blocks)
	assert.Equal(t, NewDate(2024, time.March, 1), *s.MinDate)
	assert.Equal(t, NewDate(2024, time.March, 2), *s.MaxDate)
}

func TestSummaryTagFilterMembership(t *testing.T) {
	b := Block{Date: NewDate(2024, time.March, 1), Text: "x", Tags: []uint32{42}}
	s := BlockSummary(b)
	assert.True(t, s.Filter.Contains(42))
}

func TestSummaryCombineDoesNotAliasChildren(t *testing.T) {
	b1 := Block{Date: NewDate(2024, time.March, 1), Text: "a", Tags: []uint32{1}}
	b2 := Block{Date: NewDate(2024, time.March, 2), Text: "b", Tags: []uint32{2}}
	s1 := BlockSummary(b1)
	s2 := BlockSummary(b2)

	parent := ZeroSummary()
	parent.Combine(s1)
	parent.Combine(s2)

	// s1 must remain unaffected by having been combined into parent.
	assert.True(t, s1.Filter.Contains(1))
	assert.False(t, s1.Filter.Contains(2))
}
