// Package history persists point-in-time snapshots of the overall
// aggregation so review quality can be compared across fetches.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/revlens-ai/revlens/pkg/models"
)

// Store records and queries overview snapshots in a SQLite database.
type Store struct {
	db *sql.DB
}

const createTable = `
CREATE TABLE IF NOT EXISTS overview_snapshots (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source TEXT NOT NULL,
	conversation_count INTEGER NOT NULL,
	reviewer_count INTEGER NOT NULL,
	trainer_count INTEGER NOT NULL,
	dimension_count INTEGER NOT NULL,
	average_score REAL,
	fetched_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_snapshots_time ON overview_snapshots(fetched_at);
`

// Open creates a Store with the given database path and runs auto-migration.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}

	return &Store{db: db}, nil
}

// FromOverview builds a Snapshot out of a fetched overall aggregation.
// The snapshot's average score is the mean of the per-dimension averages,
// nil when no dimension carries one.
func FromOverview(agg *models.OverallAggregation, source string, at time.Time) models.Snapshot {
	snap := models.Snapshot{
		Source:            source,
		ConversationCount: agg.ConversationCount,
		ReviewerCount:     agg.ReviewerCount,
		TrainerCount:      agg.TrainerCount,
		DimensionCount:    len(agg.QualityDimensions),
		FetchedAt:         at,
	}

	var sum float64
	var n int
	for _, dim := range agg.QualityDimensions {
		if dim.AverageScore != nil {
			sum += *dim.AverageScore
			n++
		}
	}
	if n > 0 {
		avg := sum / float64(n)
		snap.AverageScore = &avg
	}
	return snap
}

// Record stores a snapshot.
func (s *Store) Record(ctx context.Context, snap models.Snapshot) error {
	var score sql.NullFloat64
	if snap.AverageScore != nil {
		score = sql.NullFloat64{Float64: *snap.AverageScore, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO overview_snapshots (source, conversation_count, reviewer_count, trainer_count, dimension_count, average_score, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snap.Source, snap.ConversationCount, snap.ReviewerCount, snap.TrainerCount, snap.DimensionCount, score, snap.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("record snapshot: %w", err)
	}
	return nil
}

// List returns snapshots newest-first, up to limit (0 means no limit).
func (s *Store) List(ctx context.Context, limit int) ([]models.Snapshot, error) {
	query := `SELECT id, source, conversation_count, reviewer_count, trainer_count, dimension_count, average_score, fetched_at
		 FROM overview_snapshots ORDER BY fetched_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []models.Snapshot
	for rows.Next() {
		var snap models.Snapshot
		var score sql.NullFloat64
		if err := rows.Scan(&snap.ID, &snap.Source, &snap.ConversationCount, &snap.ReviewerCount, &snap.TrainerCount, &snap.DimensionCount, &score, &snap.FetchedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if score.Valid {
			v := score.Float64
			snap.AverageScore = &v
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// Latest returns the most recent snapshot, or nil when none exist.
func (s *Store) Latest(ctx context.Context) (*models.Snapshot, error) {
	snaps, err := s.List(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, nil
	}
	return &snaps[0], nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
