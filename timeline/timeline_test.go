package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kofron/sightline/tagregistry"
)

func TestNewTimelineIsEmptyAtVersionZero(t *testing.T) {
	tl := New()
	assert.Equal(t, uint64(0), tl.Version())
	assert.Equal(t, 0, tl.EntryCount())
	assert.Equal(t, "", tl.Content())
}

func TestApplyOpsHappyPathScenario1(t *testing.T) {
	tl := New()
	v, err := tl.ApplyOps(0, []TextOp{Insert(0, "Happy New Year!")})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
	assert.Equal(t, "Happy New Year!", tl.Content())
	assert.Equal(t, 1, tl.EntryCount())

	sum := tl.Summary()
	require.NotNil(t, sum.MinDate)
	require.NotNil(t, sum.MaxDate)
	assert.Equal(t, *sum.MinDate, *sum.MaxDate)
}

func TestApplyOpsScenario2DeleteMiddle(t *testing.T) {
	tl := New()
	_, err := tl.ApplyOps(0, []TextOp{Insert(0, "abcdef")})
	require.NoError(t, err)

	v, err := tl.ApplyOps(1, []TextOp{Delete(2, 4)})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v)
	assert.Equal(t, "abef", tl.Content())
}

func TestApplyOpsScenario3DeleteAcrossBlocksPreservesDates(t *testing.T) {
	d1 := NewDate(2024, time.March, 1)
	d2 := NewDate(2024, time.March, 2)
	tl := Restore(0, []Block{{Date: d1, Text: "12345"}, {Date: d2, Text: "ABCDE"}}, tagregistry.New())

	v, err := tl.ApplyOps(0, []TextOp{Delete(3, 7)})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)
	assert.Equal(t, "123CDE", tl.Content())

	blocks := tl.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, d1, blocks[0].Date)
	assert.Equal(t, d2, blocks[1].Date)
}

func TestApplyOpsStaleVersionIsRejectedWithoutMutation(t *testing.T) {
	tl := New()
	_, err := tl.ApplyOps(0, []TextOp{Insert(0, "abc")})
	require.NoError(t, err)

	_, err = tl.ApplyOps(0, []TextOp{Insert(3, "Two")})
	require.Error(t, err)
	var vmErr *VersionMismatchError
	require.ErrorAs(t, err, &vmErr)
	assert.Equal(t, uint64(1), vmErr.Expected)
	assert.Equal(t, uint64(0), vmErr.Actual)
	assert.Equal(t, "abc", tl.Content())
	assert.Equal(t, uint64(1), tl.Version())
}

func TestApplyOpsEmptyOpListDoesNotBumpVersion(t *testing.T) {
	tl := New()
	v, err := tl.ApplyOps(0, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)
}

func TestApplyOpsFailingOpLeavesVersionUnbumped(t *testing.T) {
	tl := New()
	_, err := tl.ApplyOps(0, []TextOp{Insert(0, "abc")})
	require.NoError(t, err)

	_, err = tl.ApplyOps(1, []TextOp{Delete(0, 100)})
	require.Error(t, err)
	assert.Equal(t, uint64(1), tl.Version())
	assert.Equal(t, "abc", tl.Content())
}

func TestLogForDateFiltersByExactDate(t *testing.T) {
	d1 := NewDate(2024, time.March, 1)
	d2 := NewDate(2024, time.March, 2)
	tl := Restore(0, []Block{{Date: d1, Text: "one"}, {Date: d2, Text: "two"}}, tagregistry.New())

	content, ok := tl.LogForDate(d1)
	require.True(t, ok)
	assert.Equal(t, "one", content)
}

func TestLogForDateOutsideRangeReturnsNotOK(t *testing.T) {
	d1 := NewDate(2024, time.March, 1)
	tl := Restore(0, []Block{{Date: d1, Text: "one"}}, tagregistry.New())

	_, ok := tl.LogForDate(NewDate(2025, time.January, 1))
	assert.False(t, ok)
}

func TestLogForDateEmptyTimelineReturnsNotOK(t *testing.T) {
	tl := New()
	_, ok := tl.LogForDate(Today())
	assert.False(t, ok)
}

func TestInternTagStripsHashAndWhitespace(t *testing.T) {
	tl := New()
	desc, err := tl.InternTag("  #project:new  ")
	require.NoError(t, err)
	assert.Equal(t, "#project:new", desc.Name)
	assert.NotEmpty(t, desc.Color)

	desc2, err := tl.InternTag("project:new")
	require.NoError(t, err)
	assert.Equal(t, desc.ID, desc2.ID)
}

func TestInternTagEmptyFails(t *testing.T) {
	tl := New()
	_, err := tl.InternTag("   ")
	assert.ErrorIs(t, err, ErrTagEmpty)
}

func TestInternTagAllHashesFails(t *testing.T) {
	tl := New()
	_, err := tl.InternTag("###")
	assert.ErrorIs(t, err, ErrTagInvalid)
}

func TestAssignBlockTagsReplacesTagList(t *testing.T) {
	tl := New()
	_, err := tl.ApplyOps(0, []TextOp{Insert(0, "hello")})
	require.NoError(t, err)

	err = tl.AssignBlockTags(0, []string{"project:sightline", "type:journal"})
	require.NoError(t, err)

	blocks := tl.Blocks()
	require.Len(t, blocks, 1)
	assert.Len(t, blocks[0].Tags, 2)
}

func TestAssignBlockTagsOutOfRangeFails(t *testing.T) {
	tl := New()
	err := tl.AssignBlockTags(0, []string{"x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownBlock)
}

func TestListBlocksOffsetsRunningSum(t *testing.T) {
	tl := Restore(0, []Block{
		{Date: Today(), Text: "ab"},
		{Date: Today(), Text: "cde"},
	}, tagregistry.New())

	infos := tl.ListBlocks()
	require.Len(t, infos, 2)
	assert.Equal(t, uint32(0), infos[0].StartCharOffset)
	assert.Equal(t, uint32(2), infos[0].EndCharOffset)
	assert.Equal(t, uint32(2), infos[1].StartCharOffset)
	assert.Equal(t, uint32(5), infos[1].EndCharOffset)
}

func TestSearchPrefixAndInfixResolveThroughRegistry(t *testing.T) {
	reg := tagregistry.New()
	id, _ := reg.InternColonPath("project:sightline")
	blocks := []Block{
		{Date: Today(), Text: "tagged", Tags: []uint32{id}},
		{Date: Today(), Text: "untagged"},
	}
	tl := Restore(0, blocks, reg)

	assert.Equal(t, []int{0}, tl.SearchPrefix("project"))
	assert.Equal(t, []int{0}, tl.SearchInfix("line"))
	assert.Empty(t, tl.SearchPrefix("nonexistent"))
}

func TestGuardSerializesAccess(t *testing.T) {
	g := NewGuard(New())
	g.Lock()
	_, err := g.Timeline().ApplyOps(0, []TextOp{Insert(0, "x")})
	g.Unlock()
	require.NoError(t, err)
	assert.Equal(t, "x", g.Timeline().Content())
}
