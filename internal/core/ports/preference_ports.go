package ports

import (
	"context"

	"github.com/picshare/preferences/internal/core/domain"
)

// PreferenceRepository persists preference records for one ledger kind. The
// kind is bound at construction so kind and subject always travel together.
//
// Repositories do not validate subject existence or vocabulary membership.
type PreferenceRepository interface {
	// ListForSubject returns every current record for a subject, empty for
	// unknown subjects.
	ListForSubject(ctx context.Context, subjectID int64) ([]domain.PreferenceRecord, error)

	// Upsert inserts the record or replaces its choice in place, as a single
	// atomic statement. Idempotent. Returns domain.ErrConstraintRace when a
	// concurrent write beats it on the uniqueness constraint.
	Upsert(ctx context.Context, subjectID, userID int64, choice domain.Choice) (*domain.PreferenceRecord, error)

	// Remove deletes the record for (subject, user) and reports whether one
	// existed.
	Remove(ctx context.Context, subjectID, userID int64) (bool, error)
}

type ApplyInput struct {
	SubjectID int64
	UserID    int64
	Choice    domain.Choice
}

// Ledger is the caller-facing preference ledger.
type Ledger interface {
	// Apply records the user's choice on the subject, replacing any previous
	// choice. Fails only with domain.ErrInvalidChoice or a store error.
	Apply(ctx context.Context, input ApplyInput) (*domain.PreferenceRecord, error)

	// Revoke withdraws the user's choice. found is false when there was
	// nothing to withdraw; that is a normal outcome, not an error.
	Revoke(ctx context.Context, subjectID, userID int64) (found bool, err error)

	// ListForSubject returns the per-user map of current choices.
	ListForSubject(ctx context.Context, subjectID int64) (map[int64]domain.Choice, error)

	// ChoiceFor returns the user's current choice on the subject, if any.
	ChoiceFor(ctx context.Context, subjectID, userID int64) (domain.Choice, bool, error)

	// AggregateForSubject returns the histogram (reaction ledgers) or the
	// average (rating ledgers) for the subject.
	AggregateForSubject(ctx context.Context, subjectID int64) (*domain.Aggregate, error)
}
