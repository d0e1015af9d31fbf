package timeline

// branchFactor bounds the number of children of an internal node. The spec
// only requires this be a fixed constant >= 2; 8 keeps the tree shallow for
// the block counts a single journal realistically holds.
const branchFactor = 8

// node is a sum-tree node. Nodes are never mutated after construction
// (persistent/copy-on-write), which is what makes Sumtree.Clone O(1): a
// clone just copies the root pointer.
type node struct {
	leaf     bool
	block    Block   // valid iff leaf
	children []*node // valid iff !leaf
	summary  Summary // cached aggregate of this subtree, always valid
}

func leafNode(b Block) *node {
	return &node{leaf: true, block: b, summary: BlockSummary(b)}
}

func internalNode(children []*node) *node {
	s := ZeroSummary()
	for _, c := range children {
		s.Combine(c.summary)
	}
	return &node{children: children, summary: s}
}

// buildFromChildren wraps children into a single node, collapsing a
// singleton back to that child directly and returning nil for an empty
// slice. Children need not share a uniform height; height isn't tracked at
// all here (only "leaf or not"), so this is safe to call on results of
// arbitrary tree surgery (split, pop-leftmost).
func buildFromChildren(children []*node) *node {
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	default:
		return internalNode(children)
	}
}

// Sumtree is a balanced tree of Blocks with a cached Summary at every
// subtree. The zero value is the empty tree.
type Sumtree struct {
	root *node
}

// NewSumtree returns the empty tree.
func NewSumtree() Sumtree { return Sumtree{} }

// SumtreeFromBlocks builds a balanced tree from an ordered sequence of
// blocks in linear time (construct-from-sequence).
func SumtreeFromBlocks(blocks []Block) Sumtree {
	if len(blocks) == 0 {
		return Sumtree{}
	}
	level := make([]*node, len(blocks))
	for i, b := range blocks {
		level[i] = leafNode(b)
	}
	for len(level) > 1 {
		level = chunkLevel(level)
	}
	return Sumtree{root: level[0]}
}

func chunkLevel(level []*node) []*node {
	next := make([]*node, 0, (len(level)+branchFactor-1)/branchFactor)
	for i := 0; i < len(level); i += branchFactor {
		end := i + branchFactor
		if end > len(level) {
			end = len(level)
		}
		chunk := make([]*node, end-i)
		copy(chunk, level[i:end])
		next = append(next, internalNode(chunk))
	}
	return next
}

// Summary returns the root summary in O(1).
func (t Sumtree) Summary() Summary {
	if t.root == nil {
		return ZeroSummary()
	}
	return t.root.summary
}

// Iterate yields blocks in structural order, stopping early if fn returns
// false.
func (t Sumtree) Iterate(fn func(Block) bool) {
	var walk func(n *node) bool
	walk = func(n *node) bool {
		if n == nil {
			return true
		}
		if n.leaf {
			return fn(n.block)
		}
		for _, c := range n.children {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(t.root)
}

// IterateFiltered walks the tree like Iterate, but skips entire subtrees
// whose cached summary fails predicate. fn receives each visited block's
// absolute structural index (skipped subtrees still advance the index, so
// it always matches the position the block would have under plain Iterate).
func (t Sumtree) IterateFiltered(predicate func(Summary) bool, fn func(index int, b Block) bool) {
	idx := 0
	var walk func(n *node) bool
	walk = func(n *node) bool {
		if n == nil {
			return true
		}
		if !predicate(n.summary) {
			idx += int(n.summary.Blocks)
			return true
		}
		if n.leaf {
			cont := fn(idx, n.block)
			idx++
			return cont
		}
		for _, c := range n.children {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(t.root)
}

// Items materializes all blocks into an ordered slice.
func (t Sumtree) Items() []Block {
	out := make([]Block, 0, t.Summary().Blocks)
	t.Iterate(func(b Block) bool {
		out = append(out, b)
		return true
	})
	return out
}

// Push appends a single block.
func (t Sumtree) Push(b Block) Sumtree {
	return t.Append(SumtreeFromBlocks([]Block{b}))
}

// Append concatenates two trees.
func (t Sumtree) Append(other Sumtree) Sumtree {
	if t.root == nil {
		return other
	}
	if other.root == nil {
		return t
	}
	items := append(t.Items(), other.Items()...)
	return SumtreeFromBlocks(items)
}

// Clone returns a structurally-shared copy; since nodes are never mutated
// in place, this is O(1).
func (t Sumtree) Clone() Sumtree { return t }

// Cursor opens a stateful descent over the tree keyed by dim.
func (t Sumtree) Cursor(dim DimensionFunc) *Cursor {
	return &Cursor{dim: dim, rest: t.root}
}
