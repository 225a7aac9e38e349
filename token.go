package evds

import "sync/atomic"

var tokenCounter uint64

// Token is an opaque capability identifying "the current thread" for the
// purposes of the per-object concurrency contract: creation,
// initialization and integration each have a single owning Token. A
// goroutine has no stable OS-level thread identity to key off of, so the
// capability is made explicit instead: callers obtain one Token per
// logical worker and thread it through Initialize/TransferInitialization.
type Token struct{ id uint64 }

// NewToken mints a fresh Token. Call this once per goroutine/worker that
// will create, initialize, or integrate objects.
func NewToken() Token {
	return Token{id: atomic.AddUint64(&tokenCounter, 1)}
}

// IsZero reports whether this Token is the unset zero value.
func (t Token) IsZero() bool { return t.id == 0 }

// Equal reports whether two Tokens identify the same logical thread.
func (t Token) Equal(o Token) bool { return t.id == o.id }
