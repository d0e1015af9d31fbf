package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = NewDate(2026, time.July, 31)

func TestApplyInsertIntoEmptyTree(t *testing.T) {
	tree, err := applyInsert(NewSumtree(), 0, "Happy New Year!", today)
	require.NoError(t, err)
	assert.Equal(t, "Happy New Year!", concatText(tree))
	items := tree.Items()
	require.Len(t, items, 1)
	assert.Equal(t, today, items[0].Date)
}

func TestApplyInsertEmptyTextIsNoOp(t *testing.T) {
	tree := SumtreeFromBlocks(blocksFromStrings("abc"))
	result, err := applyInsert(tree, 1, "", today)
	require.NoError(t, err)
	assert.Equal(t, "abc", concatText(result))
}

func TestApplyInsertAtEndAppendsWithoutSplitting(t *testing.T) {
	tree := SumtreeFromBlocks(blocksFromStrings("abc"))
	result, err := applyInsert(tree, 3, "def", today)
	require.NoError(t, err)
	assert.Equal(t, "abcdef", concatText(result))
	items := result.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "abc", items[0].Text)
	assert.Equal(t, "def", items[1].Text)
}

func TestApplyInsertAtStartPrependsWithoutSplitting(t *testing.T) {
	tree := SumtreeFromBlocks(blocksFromStrings("abc"))
	result, err := applyInsert(tree, 0, "z", today)
	require.NoError(t, err)
	assert.Equal(t, "zabc", concatText(result))
	items := result.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "z", items[0].Text)
}

func TestApplyInsertMidBlockCarriesMetadataToBothFragments(t *testing.T) {
	original := NewDate(2024, time.March, 1)
	tree := SumtreeFromBlocks([]Block{{Date: original, Text: "abcdef", Tags: []uint32{7}}})

	result, err := applyInsert(tree, 3, "XYZ", today)
	require.NoError(t, err)
	assert.Equal(t, "abcXYZdef", concatText(result))

	items := result.Items()
	require.Len(t, items, 3)
	assert.Equal(t, Block{Date: original, Text: "abc", Tags: []uint32{7}}, items[0])
	assert.Equal(t, Block{Date: today, Text: "XYZ"}, items[1])
	assert.Equal(t, Block{Date: original, Text: "def", Tags: []uint32{7}}, items[2])
}

func TestApplyInsertOutOfRange(t *testing.T) {
	tree := SumtreeFromBlocks(blocksFromStrings("abc"))
	_, err := applyInsert(tree, 10, "x", today)
	assert.Error(t, err)
}

func TestApplyDeleteEmptyRangeIsNoOp(t *testing.T) {
	tree := SumtreeFromBlocks(blocksFromStrings("abc"))
	result, err := applyDelete(tree, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, "abc", concatText(result))
}

func TestApplyDeleteWithinOneBlock(t *testing.T) {
	tree := SumtreeFromBlocks(blocksFromStrings("abcdef"))
	result, err := applyDelete(tree, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, "abef", concatText(result))
}

func TestApplyDeleteAcrossBlocksKeepsFragmentsSeparate(t *testing.T) {
	d1 := NewDate(2024, time.March, 1)
	d2 := NewDate(2024, time.March, 2)
	tree := SumtreeFromBlocks([]Block{
		{Date: d1, Text: "12345"},
		{Date: d2, Text: "ABCDE"},
	})

	result, err := applyDelete(tree, 3, 7)
	require.NoError(t, err)
	assert.Equal(t, "123CDE", concatText(result))

	items := result.Items()
	require.Len(t, items, 2)
	assert.Equal(t, d1, items[0].Date)
	assert.Equal(t, "123", items[0].Text)
	assert.Equal(t, d2, items[1].Date)
	assert.Equal(t, "CDE", items[1].Text)
}

func TestApplyDeleteWholeBlockIsDropped(t *testing.T) {
	tree := SumtreeFromBlocks(blocksFromStrings("a", "bb", "ccc"))
	result, err := applyDelete(tree, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, "accc", concatText(result))
	items := result.Items()
	require.Len(t, items, 2)
}

func TestApplyDeleteInvertedRangeErrors(t *testing.T) {
	tree := SumtreeFromBlocks(blocksFromStrings("abc"))
	_, err := applyDelete(tree, 2, 1)
	assert.Error(t, err)
}

func TestApplyDeleteOutOfRangeErrors(t *testing.T) {
	tree := SumtreeFromBlocks(blocksFromStrings("abc"))
	_, err := applyDelete(tree, 0, 10)
	assert.Error(t, err)
}
