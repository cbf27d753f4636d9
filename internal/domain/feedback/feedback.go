// Package feedback defines the feedback vocabulary: kinds, point deltas,
// and the immutable event record appended to the ledger.
package feedback

import (
	"time"
)

// Kind identifies a user feedback signal on a model response.
type Kind string

// Recognized feedback kinds.
const (
	KindLike    Kind = "like"
	KindDislike Kind = "dislike"
	KindStar    Kind = "star"
)

// Point deltas are fixed per kind. Corrections are expressed as new
// compensating events, never by rewriting an applied delta.
const (
	DeltaLike    = 5
	DeltaDislike = -5
	DeltaStar    = 10
)

// Valid reports whether k is one of the recognized kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindLike, KindDislike, KindStar:
		return true
	}
	return false
}

// Delta returns the fixed point delta for k. Unknown kinds map to 0;
// callers must validate with Valid before applying.
func (k Kind) Delta() int {
	switch k {
	case KindLike:
		return DeltaLike
	case KindDislike:
		return DeltaDislike
	case KindStar:
		return DeltaStar
	}
	return 0
}

// Kinds returns all recognized kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindLike, KindDislike, KindStar}
}

// Event is one recorded feedback submission. Events are append-only:
// once written to the ledger a delta is never re-applied or reversed.
type Event struct {
	ID        string    // ledger-assigned id
	QueryID   string    // originating query, opaque passthrough
	UserID    string    // originating user, opaque passthrough
	ModelID   string    // target model identifier
	Kind      Kind      // like, dislike or star
	Delta     int       // points applied, fixed per kind
	CreatedAt time.Time // append time
}
