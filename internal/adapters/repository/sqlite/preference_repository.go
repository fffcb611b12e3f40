package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"

	"github.com/picshare/preferences/internal/core/domain"
	"github.com/picshare/preferences/internal/core/ports"
)

type preferenceRepository struct {
	db   *sql.DB
	kind domain.LedgerKind
}

// NewPreferenceRepository returns a repository bound to one ledger kind.
// Same contract as the postgres adapter, for embedded and test use.
func NewPreferenceRepository(db *sql.DB, kind domain.LedgerKind) ports.PreferenceRepository {
	return &preferenceRepository{db: db, kind: kind}
}

func (r *preferenceRepository) ListForSubject(ctx context.Context, subjectID int64) ([]domain.PreferenceRecord, error) {
	query := `
		SELECT subject_id, user_id, choice, created_at, updated_at
		FROM preferences
		WHERE ledger_kind = ? AND subject_id = ?
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
		INSERT INTO preferences (ledger_kind, subject_id, user_id, choice, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (ledger_kind, subject_id, user_id) DO UPDATE
		SET choice = excluded.choice,
		    updated_at = excluded.updated_at
		RETURNING subject_id, user_id, choice, created_at, updated_at
	`

	now := time.Now().UTC()
	var record domain.PreferenceRecord
	err := r.db.QueryRowContext(ctx, query, r.kind, subjectID, userID, choice, now, now).
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
		WHERE ledger_kind = ? AND subject_id = ? AND user_id = ?
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

func isConstraintRace(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case 5, 1555, 2067: // SQLITE_BUSY, SQLITE_CONSTRAINT_PRIMARYKEY, SQLITE_CONSTRAINT_UNIQUE
			return true
		}
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
