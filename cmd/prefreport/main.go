package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/picshare/preferences/internal/adapters/repository/postgres"
	"github.com/picshare/preferences/internal/core/domain"
	"github.com/picshare/preferences/internal/core/ports"
	"github.com/picshare/preferences/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	var dbHost, dbPort, dbUser, dbPass, dbName, kind string

	flag.StringVar(&dbHost, "db-host", os.Getenv("POSTGRES_HOST"), "Database host")
	flag.StringVar(&dbPort, "db-port", os.Getenv("POSTGRES_PORT"), "Database port")
	flag.StringVar(&dbUser, "db-user", os.Getenv("POSTGRES_USER"), "Database user")
	flag.StringVar(&dbPass, "db-pass", os.Getenv("POSTGRES_PASSWORD"), "Database password")
	flag.StringVar(&dbName, "db-name", os.Getenv("POSTGRES_DB"), "Database name")
	flag.StringVar(&kind, "kind", "reactions", "Ledger to report on: reactions or ratings")
	flag.Parse()

	subjects, err := parseSubjectIDs(flag.Args())
	if err != nil {
		log.Fatal(err)
	}
	if len(subjects) == 0 {
		log.Fatal("at least one subject id is required")
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPass, dbHost, dbPort, dbName)
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	ledger, err := buildLedger(db, kind)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	reports := make([]string, len(subjects))
	g, gctx := errgroup.WithContext(ctx)
	for i, subjectID := range subjects {
		g.Go(func() error {
			aggregate, err := ledger.AggregateForSubject(gctx, subjectID)
			if err != nil {
				return fmt.Errorf("failed to aggregate subject %d: %w", subjectID, err)
			}
			reports[i] = formatReport(subjectID, aggregate)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}

	for _, report := range reports {
		fmt.Println(report)
	}
}

func buildLedger(db *sql.DB, kind string) (ports.Ledger, error) {
	switch kind {
	case "reactions":
		repo := postgres.NewPreferenceRepository(db, domain.KindCommentReaction)
		return services.NewCommentReactionLedger(repo), nil
	case "ratings":
		repo := postgres.NewPreferenceRepository(db, domain.KindPictureRating)
		return services.NewPictureRatingLedger(repo), nil
	default:
		return nil, fmt.Errorf("unknown ledger kind %q (expected reactions or ratings)", kind)
	}
}

func parseSubjectIDs(args []string) ([]int64, error) {
	subjects := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid subject id %q", arg)
		}
		subjects = append(subjects, id)
	}
	return subjects, nil
}

func formatReport(subjectID int64, aggregate *domain.Aggregate) string {
	if aggregate.Average != nil {
		return fmt.Sprintf("subject %d: average=%.2f", subjectID, *aggregate.Average)
	}
	if len(aggregate.Histogram) == 0 {
		return fmt.Sprintf("subject %d: no data", subjectID)
	}

	parts := make([]string, 0, len(aggregate.Histogram))
	for _, entry := range aggregate.Histogram {
		parts = append(parts, fmt.Sprintf("%s=%d", entry.Choice, entry.Count))
	}
	return fmt.Sprintf("subject %d: %s", subjectID, strings.Join(parts, " "))
}
