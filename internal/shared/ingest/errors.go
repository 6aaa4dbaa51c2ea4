package ingest

import "errors"

// ErrIdentityConflict is returned when a duplicate-identity violation
// survives the conditional upsert and one retry. It indicates a lost
// transient race, not a logical error; callers may surface it as such.
var ErrIdentityConflict = errors.New("identity conflict persisted after retry")
