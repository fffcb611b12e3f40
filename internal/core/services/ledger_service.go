package services

import (
	"context"

	"github.com/picshare/preferences/internal/core/domain"
	"github.com/picshare/preferences/internal/core/ports"
)

type aggregateMode int

const (
	aggregateHistogram aggregateMode = iota
	aggregateAverage
)

// ledgerService composes the write-side guard and the read-side aggregator
// behind the four ledger operations. The two concrete ledgers below differ
// only in vocabulary and aggregate mode.
type ledgerService struct {
	guard      *guard
	aggregator *aggregator
	mode       aggregateMode
}

// NewCommentReactionLedger records one named reaction per user per comment
// and aggregates into a popularity histogram.
func NewCommentReactionLedger(repo ports.PreferenceRepository) ports.Ledger {
	return newLedger(repo, domain.Reactions(), aggregateHistogram)
}

// NewPictureRatingLedger records one 1..5 rating per user per picture and
// aggregates into an average.
func NewPictureRatingLedger(repo ports.PreferenceRepository) ports.Ledger {
	return newLedger(repo, domain.Ratings(), aggregateAverage)
}

func newLedger(repo ports.PreferenceRepository, vocab domain.Vocabulary, mode aggregateMode) ports.Ledger {
	return &ledgerService{
		guard:      newGuard(repo, vocab),
		aggregator: newAggregator(repo, vocab),
		mode:       mode,
	}
}

func (s *ledgerService) Apply(ctx context.Context, input ports.ApplyInput) (*domain.PreferenceRecord, error) {
	return s.guard.Apply(ctx, input.SubjectID, input.UserID, input.Choice)
}

func (s *ledgerService) Revoke(ctx context.Context, subjectID, userID int64) (bool, error) {
	return s.guard.Revoke(ctx, subjectID, userID)
}

func (s *ledgerService) ListForSubject(ctx context.Context, subjectID int64) (map[int64]domain.Choice, error) {
	return s.aggregator.PerUserMap(ctx, subjectID)
}

func (s *ledgerService) ChoiceFor(ctx context.Context, subjectID, userID int64) (domain.Choice, bool, error) {
	choices, err := s.aggregator.PerUserMap(ctx, subjectID)
	if err != nil {
		return "", false, err
	}
	choice, ok := choices[userID]
	return choice, ok, nil
}

func (s *ledgerService) AggregateForSubject(ctx context.Context, subjectID int64) (*domain.Aggregate, error) {
	if s.mode == aggregateAverage {
		average, err := s.aggregator.Average(ctx, subjectID)
		if err != nil {
			return nil, err
		}
		return &domain.Aggregate{Average: average}, nil
	}

	histogram, err := s.aggregator.Histogram(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	return &domain.Aggregate{Histogram: histogram}, nil
}
