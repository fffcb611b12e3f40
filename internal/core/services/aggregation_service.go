package services

import (
	"context"
	"sort"

	"github.com/picshare/preferences/internal/core/domain"
	"github.com/picshare/preferences/internal/core/ports"
)

// aggregator computes read-side views over the store. It never writes and
// never caches; every call goes back to the repository.
type aggregator struct {
	repo  ports.PreferenceRepository
	vocab domain.Vocabulary
}

func newAggregator(repo ports.PreferenceRepository, vocab domain.Vocabulary) *aggregator {
	return &aggregator{repo: repo, vocab: vocab}
}

func (a *aggregator) PerUserMap(ctx context.Context, subjectID int64) (map[int64]domain.Choice, error) {
	records, err := a.repo.ListForSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	choices := make(map[int64]domain.Choice, len(records))
	for _, record := range records {
		choices[record.UserID] = record.Choice
	}
	return choices, nil
}

// Histogram returns (choice, count) pairs sorted by count descending, equal
// counts ordered by vocabulary rank. Choices nobody picked are absent.
func (a *aggregator) Histogram(ctx context.Context, subjectID int64) ([]domain.HistogramEntry, error) {
	records, err := a.repo.ListForSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.Choice]int64)
	for _, record := range records {
		counts[record.Choice]++
	}

	entries := make([]domain.HistogramEntry, 0, len(counts))
	for choice, count := range counts {
		entries = append(entries, domain.HistogramEntry{Choice: choice, Count: count})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return a.vocab.Rank(entries[i].Choice) < a.vocab.Rank(entries[j].Choice)
	})

	return entries, nil
}

// Average returns nil when the subject has no records, never dividing by
// zero. Only meaningful for numeric vocabularies.
func (a *aggregator) Average(ctx context.Context, subjectID int64) (*float64, error) {
	records, err := a.repo.ListForSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	var sum, count int64
	for _, record := range records {
		value, ok := a.vocab.Numeric(record.Choice)
		if !ok {
			continue
		}
		sum += int64(value)
		count++
	}

	if count == 0 {
		return nil, nil
	}

	average := float64(sum) / float64(count)
	return &average, nil
}
