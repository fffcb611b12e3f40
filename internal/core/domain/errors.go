package domain

import "errors"

var (
	// ErrInvalidChoice indicates a choice outside the ledger's vocabulary.
	ErrInvalidChoice = errors.New("choice is not part of the ledger vocabulary")

	// ErrConstraintRace indicates a write lost a race on the uniqueness
	// constraint. Repositories return it so the guard can retry the replace
	// path; it is never surfaced past the ledger.
	ErrConstraintRace = errors.New("concurrent write on the same preference")
)
