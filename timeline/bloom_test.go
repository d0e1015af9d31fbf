package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagFilterAddAndContains(t *testing.T) {
	f := newTagFilter()
	f.Add(42)
	assert.True(t, f.Contains(42))
	assert.False(t, f.Contains(7))
}

func TestTagFilterUnionMergesMembership(t *testing.T) {
	a := newTagFilter()
	a.Add(1)
	b := newTagFilter()
	b.Add(2)
	a.Union(b)

	assert.True(t, a.Contains(1))
	assert.True(t, a.Contains(2))
}

func TestTagFilterUnionDoesNotMutateOther(t *testing.T) {
	a := newTagFilter()
	a.Add(1)
	b := newTagFilter()
	b.Add(2)
	a.Union(b)

	assert.False(t, b.Contains(1))
}
