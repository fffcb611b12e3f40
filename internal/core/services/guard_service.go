package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/picshare/preferences/internal/core/domain"
	"github.com/picshare/preferences/internal/core/ports"
)

// guard enforces the at-most-one-active-choice-per-user invariant on every
// write. It never holds records beyond a single call.
type guard struct {
	repo  ports.PreferenceRepository
	vocab domain.Vocabulary
}

func newGuard(repo ports.PreferenceRepository, vocab domain.Vocabulary) *guard {
	return &guard{repo: repo, vocab: vocab}
}

func (g *guard) Apply(ctx context.Context, subjectID, userID int64, choice domain.Choice) (*domain.PreferenceRecord, error) {
	if !g.vocab.Contains(choice) {
		return nil, domain.ErrInvalidChoice
	}

	record, err := g.apply(ctx, subjectID, userID, choice)
	if errors.Is(err, domain.ErrConstraintRace) {
		// A concurrent apply for the same (subject, user) won the first
		// write. The record now exists, so the replace path applies.
		record, err = g.apply(ctx, subjectID, userID, choice)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply choice: %w", err)
	}
	return record, nil
}

func (g *guard) apply(ctx context.Context, subjectID, userID int64, choice domain.Choice) (*domain.PreferenceRecord, error) {
	records, err := g.repo.ListForSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].UserID != userID {
			continue
		}
		if records[i].Choice == choice {
			// Applying the same choice twice is a no-op, not an error.
			return &records[i], nil
		}
		break
	}

	return g.repo.Upsert(ctx, subjectID, userID, choice)
}

func (g *guard) Revoke(ctx context.Context, subjectID, userID int64) (bool, error) {
	found, err := g.repo.Remove(ctx, subjectID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to revoke choice: %w", err)
	}
	return found, nil
}
