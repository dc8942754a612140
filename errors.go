package pagekv

import (
	"errors"
	"fmt"
)

// LogicError marks an invariant violation caused by a programmer error
// in the caller -- wrong frag applied to the wrong page kind, a
// non-monotonic timestamp, a commit without a pending write, and so on.
// These are not recoverable; callers are expected to let them panic
// rather than branch on them, but the type lets a test harness recover
// and assert on the specific violation with errors.As.
type LogicError string

func (e LogicError) Error() string { return string(e) }

func panicLogic(format string, args ...any) {
	panic(LogicError(fmt.Sprintf(format, args...)))
}

// ErrConsolidationKeyOutOfRange is raised (as a LogicError panic) when a
// leaf installer targets a key at or above the node's non-empty hi bound
// -- a routing bug in the caller. Keys below lo are not checked.
const ErrConsolidationKeyOutOfRange = LogicError("pagekv: tried to apply leaf op at key outside [lo, hi)")

// ErrMergeOperatorRequired is returned (not panicked) by Versions.Visible
// when folding Merge versions requires a merge operator that Config does
// not supply. It reflects a missing configuration, not a caller bug in
// the frag stream, so it is a normal error rather than a LogicError.
var ErrMergeOperatorRequired = errors.New("pagekv: merge version present but no merge operator configured")

// ErrWrongPageKind is raised when a frag intended for a Versions chain
// is applied to a Node, or vice versa.
const ErrWrongPageKind = LogicError("pagekv: frag does not belong to this page kind")
