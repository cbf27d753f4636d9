package ledger

import "errors"

// ErrPersistence wraps any failure of the backing store. Callers may
// safely retry: a failed append applied no score change.
var ErrPersistence = errors.New("ledger persistence failed")
