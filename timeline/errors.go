package timeline

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownBlock is returned by AssignBlockTags for a block index that
	// doesn't exist.
	ErrUnknownBlock = errors.New("timeline: unknown block index")

	// ErrUnknownOp is returned for a TextOp whose Kind isn't recognized.
	ErrUnknownOp = errors.New("timeline: unknown op kind")

	// ErrTagEmpty is returned by InternTag when the input has no content
	// left after trimming and stripping a leading '#'.
	ErrTagEmpty = errors.New("timeline: empty tag")

	// ErrTagInvalid is returned by InternTag when the input is made up
	// entirely of two or more '#' characters (a lone "#" leaves nothing
	// after stripping and yields ErrTagEmpty).
	ErrTagInvalid = errors.New("timeline: invalid tag")
)

// VersionMismatchError is returned by ApplyOps when the caller's base
// version no longer matches the timeline's current version: the caller
// read a stale snapshot and must re-fetch before retrying.
type VersionMismatchError struct {
	// Expected is the timeline's actual current version.
	Expected uint64
	// Actual is the base version the caller supplied.
	Actual uint64
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("timeline: version mismatch: server at %d, caller's base %d", e.Expected, e.Actual)
}
