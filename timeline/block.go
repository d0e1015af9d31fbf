package timeline

import "unicode/utf8"

// Block is an atomic, contiguous run of text with uniform metadata: the
// leaf unit of the rope.
type Block struct {
	Date Date
	Text string
	Tags []uint32
}

// CharCount returns the number of Unicode scalar values in the block's text.
func (b Block) CharCount() int { return utf8.RuneCountInString(b.Text) }

// ByteCount returns the UTF-8 byte length of the block's text.
func (b Block) ByteCount() int { return len(b.Text) }

func cloneTags(tags []uint32) []uint32 {
	if len(tags) == 0 {
		return nil
	}
	out := make([]uint32, len(tags))
	copy(out, tags)
	return out
}

// splitAtChar splits text at the given character (rune) boundary, returning
// the prefix and suffix byte strings. charIndex must be in [0, CharCount(text)];
// exceeding it is a boundary violation reported via ok=false.
func splitAtChar(text string, charIndex int) (prefix, suffix string, ok bool) {
	if charIndex == 0 {
		return "", text, true
	}
	count := 0
	for byteIdx := range text {
		if count == charIndex {
			return text[:byteIdx], text[byteIdx:], true
		}
		count++
	}
	if count == charIndex {
		return text, "", true
	}
	return "", "", false
}
