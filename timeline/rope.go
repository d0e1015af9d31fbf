package timeline

import "fmt"

// applyInsert inserts text at the given character offset as a new block of
// its own, stamped with date and no tags. If the offset falls on a block
// boundary (including the very start or end of the document), the new
// block is simply spliced in between neighbors, untouched. If it falls
// strictly inside a block B, B is split around it into up to two
// fragments that each keep B's original date and tags; the inserted text
// never takes on a neighbor's metadata.
func applyInsert(t Sumtree, offset int, text string, date Date) (Sumtree, error) {
	if text == "" {
		return t, nil
	}
	items := t.Items()
	total := int(t.Summary().Chars)
	if offset < 0 || offset > total {
		return Sumtree{}, fmt.Errorf("timeline: insert offset %d out of range [0,%d]", offset, total)
	}
	newBlock := Block{Date: date, Text: text}
	if len(items) == 0 {
		return SumtreeFromBlocks([]Block{newBlock}), nil
	}

	out := make([]Block, 0, len(items)+2)
	pos := 0
	inserted := false
	for _, b := range items {
		n := b.CharCount()
		if !inserted && offset == pos {
			out = append(out, newBlock)
			inserted = true
		}
		if !inserted && offset < pos+n {
			local := offset - pos
			prefix, suffix, ok := splitAtChar(b.Text, local)
			if !ok {
				return Sumtree{}, fmt.Errorf("timeline: insert offset %d does not fall on a character boundary", offset)
			}
			if prefix != "" {
				out = append(out, Block{Date: b.Date, Text: prefix, Tags: cloneTags(b.Tags)})
			}
			out = append(out, newBlock)
			if suffix != "" {
				out = append(out, Block{Date: b.Date, Text: suffix, Tags: cloneTags(b.Tags)})
			}
			inserted = true
			pos += n
			continue
		}
		out = append(out, b)
		pos += n
	}
	if !inserted {
		// offset == total: append past the last block.
		out = append(out, newBlock)
	}
	return SumtreeFromBlocks(out), nil
}

// applyDelete removes the character range [start, end). A block straddling
// a boundary is split there, and each fragment keeps its original block's
// date/tags; a block fully contained in the range is dropped entirely.
// Adjacent surviving fragments are never merged, even when that leaves two
// consecutive blocks with identical metadata.
func applyDelete(t Sumtree, start, end int) (Sumtree, error) {
	if start > end {
		return Sumtree{}, fmt.Errorf("timeline: delete range [%d,%d) is inverted", start, end)
	}
	items := t.Items()
	total := int(t.Summary().Chars)
	if start < 0 || end > total {
		return Sumtree{}, fmt.Errorf("timeline: delete range [%d,%d) out of range [0,%d]", start, end, total)
	}
	if start == end {
		return t, nil
	}

	out := make([]Block, 0, len(items))
	pos := 0
	for _, b := range items {
		blockStart := pos
		blockEnd := pos + b.CharCount()
		pos = blockEnd

		switch {
		case blockEnd <= start || blockStart >= end:
			// Entirely outside the deleted range: keep as-is.
			out = append(out, b)
		case blockStart >= start && blockEnd <= end:
			// Entirely inside the deleted range: drop.
		default:
			// Straddles a boundary: keep the surviving prefix and/or suffix.
			keepPrefixTo := start - blockStart
			if keepPrefixTo > 0 {
				prefix, _, ok := splitAtChar(b.Text, keepPrefixTo)
				if !ok {
					return Sumtree{}, fmt.Errorf("timeline: delete start %d does not fall on a character boundary", start)
				}
				out = append(out, Block{Date: b.Date, Text: prefix, Tags: cloneTags(b.Tags)})
			}
			keepSuffixFrom := end - blockStart
			if keepSuffixFrom < b.CharCount() {
				_, suffix, ok := splitAtChar(b.Text, keepSuffixFrom)
				if !ok {
					return Sumtree{}, fmt.Errorf("timeline: delete end %d does not fall on a character boundary", end)
				}
				out = append(out, Block{Date: b.Date, Text: suffix, Tags: cloneTags(b.Tags)})
			}
		}
	}
	return SumtreeFromBlocks(out), nil
}
