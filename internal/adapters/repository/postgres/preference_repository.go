package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/picshare/preferences/internal/core/domain"
	"github.com/picshare/preferences/internal/core/ports"
)

type preferenceRepository struct {
	db   *sql.DB
	kind domain.LedgerKind
}

// NewPreferenceRepository returns a repository bound to one ledger kind.
func NewPreferenceRepository(db *sql.DB, kind domain.LedgerKind) ports.PreferenceRepository {
	return &preferenceRepository{db: db, kind: kind}
}

func (r *preferenceRepository) ListForSubject(ctx context.Context, subjectID int64) ([]domain.PreferenceRecord, error) {
	query := `
		SELECT subject_id, user_id, choice, created_at, updated_at
		FROM preferences
		WHERE ledger_kind = $1 AND subject_id = $2
		ORDER BY user_id
	`
	rows, err := r.db.QueryContext(ctx, query, r.kind, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	defer rows.Close()

	var records []domain.PreferenceRecord
	for rows.Next() {
		var record domain.PreferenceRecord
		if err := rows.Scan(&record.SubjectID, &record.UserID, &record.Choice, &record.CreatedAt, &record.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating preferences: %w", err)
	}

	return records, nil
}

func (r *preferenceRepository) Upsert(ctx context.Context, subjectID, userID int64, choice domain.Choice) (*domain.PreferenceRecord, error) {
	query := `
		INSERT INTO preferences (ledger_kind, subject_id, user_id, choice)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ledger_kind, subject_id, user_id) DO UPDATE
		SET choice = EXCLUDED.choice,
		    updated_at = NOW()
		RETURNING subject_id, user_id, choice, created_at, updated_at
	`

	var record domain.PreferenceRecord
	err := r.db.QueryRowContext(ctx, query, r.kind, subjectID, userID, choice).
		Scan(&record.SubjectID, &record.UserID, &record.Choice, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if isConstraintRace(err) {
			return nil, domain.ErrConstraintRace
		}
		return nil, fmt.Errorf("failed to upsert preference: %w", err)
	}

	return &record, nil
}

func (r *preferenceRepository) Remove(ctx context.Context, subjectID, userID int64) (bool, error) {
	query := `
		DELETE FROM preferences
		WHERE ledger_kind = $1 AND subject_id = $2 AND user_id = $3
	`
	result, err := r.db.ExecContext(ctx, query, r.kind, subjectID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove preference: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to count removed preferences: %w", err)
	}

	return affected > 0, nil
}

// isConstraintRace reports whether err is a unique-violation, serialization
// or deadlock failure, the signals that a concurrent writer got there first.
func isConstraintRace(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505", "40001", "40P01":
			return true
		}
	}
	return strings.Contains(err.Error(), "duplicate key value violates unique constraint")
}
