package seq

import "errors"

// ErrIndexOutOfRange is the sentinel wrapped by the Try-prefixed accessors
// when a position falls outside [0, Len()). Construction-time precondition
// violations (bad bucket size, MinB > MaxB, MinB == 1) are not routed
// through this error: they panic immediately instead, rejecting rather
// than silently clamping a degenerate bucket size.
var ErrIndexOutOfRange = errors.New(`seq: index out of range`)
