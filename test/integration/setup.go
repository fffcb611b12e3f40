package integration

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	repo "github.com/picshare/preferences/internal/adapters/repository/postgres"
	"github.com/picshare/preferences/internal/core/domain"
	"github.com/picshare/preferences/internal/core/ports"
	"github.com/picshare/preferences/internal/core/services"
)

type TestApp struct {
	DB          *sql.DB
	Reactions   ports.Ledger
	Ratings     ports.Ledger
	DBContainer testcontainers.Container
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	dbName := "testdb"
	user := "user"
	password := "password"

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func applyMigrations(db *sql.DB) error {
	goose.SetBaseFS(repo.Migrations())
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, "migrations")
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()
	ctx := context.Background()

	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	err = applyMigrations(db)
	require.NoError(t, err)

	reactionRepo := repo.NewPreferenceRepository(db, domain.KindCommentReaction)
	ratingRepo := repo.NewPreferenceRepository(db, domain.KindPictureRating)

	return &TestApp{
		DB:          db,
		Reactions:   services.NewCommentReactionLedger(reactionRepo),
		Ratings:     services.NewPictureRatingLedger(ratingRepo),
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

// countRecords queries the table directly; invariants are checked against
// what is actually stored, not against the ledger's own read side.
func (app *TestApp) countRecords(t *testing.T, kind domain.LedgerKind, subjectID, userID int64) int {
	t.Helper()
	var count int
	err := app.DB.QueryRow(
		"SELECT COUNT(*) FROM preferences WHERE ledger_kind = $1 AND subject_id = $2 AND user_id = $3",
		kind, subjectID, userID,
	).Scan(&count)
	require.NoError(t, err)
	return count
}
