// Package tagregistry implements the hierarchical tag namespace: colon-path
// segments interned to stable 32-bit IDs with parent pointers, full-name
// reconstruction, prefix/infix search, and deterministic palette colors.
package tagregistry

// Tag is one interned segment in the hierarchy. ParentID is nil for a root
// segment.
type Tag struct {
	ID       uint32
	Name     string
	ParentID *uint32
	Color    string
}

// palette is the fixed 16-entry OKLCH palette colors are assigned from,
// indexed by id % 16. Order is significant and stable across processes.
var palette = [16]string{
	"oklch(0.72 0.19 29)",
	"oklch(0.74 0.17 59)",
	"oklch(0.78 0.16 89)",
	"oklch(0.77 0.18 119)",
	"oklch(0.75 0.15 149)",
	"oklch(0.73 0.13 179)",
	"oklch(0.71 0.12 209)",
	"oklch(0.69 0.15 239)",
	"oklch(0.67 0.18 269)",
	"oklch(0.66 0.20 299)",
	"oklch(0.68 0.21 329)",
	"oklch(0.70 0.20 359)",
	"oklch(0.76 0.14 14)",
	"oklch(0.70 0.16 44)",
	"oklch(0.72 0.14 74)",
	"oklch(0.74 0.12 104)",
}

// colorFor deterministically assigns a color to id; stable across processes
// and across save/load round-trips.
func colorFor(id uint32) string {
	return palette[id%uint32(len(palette))]
}
