// Package archive is the durable side of the system: completed ledgers and
// analysis scores land in PostgreSQL for retrieval long after the store's
// TTLs have expired.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mirelys/trilens/internal/narrative"
)

// Connect creates a connection pool to PostgreSQL.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Migrate runs the SQL migration files against the database.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrationsDir string) error {
	sqlFile := filepath.Join(migrationsDir, "001_initial.sql")
	sql, err := os.ReadFile(sqlFile)
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	return nil
}

// Archive persists ledger snapshots.
type Archive struct {
	db *pgxpool.Pool
}

// New creates an Archive on an existing pool.
func New(db *pgxpool.Pool) *Archive {
	return &Archive{db: db}
}

// SnapshotMeta is one archived ledger's summary row.
type SnapshotMeta struct {
	ID               string    `json:"id"`
	StoryID          string    `json:"story_id"`
	SessionID        string    `json:"session_id"`
	BeatCount        int       `json:"beat_count"`
	OverallCoherence float64   `json:"overall_coherence"`
	AnalysisScore    float64   `json:"analysis_score"`
	CreatedAt        time.Time `json:"created_at"`
}

// SaveSnapshot archives a full ledger alongside its latest analysis score.
func (a *Archive) SaveSnapshot(ctx context.Context, ledger *narrative.Ledger, analysisScore float64) (string, error) {
	payload, err := json.Marshal(ledger)
	if err != nil {
		return "", fmt.Errorf("marshal ledger: %w", err)
	}

	id := uuid.NewString()
	_, err = a.db.Exec(ctx, `
		INSERT INTO ledger_snapshots (id, story_id, session_id, beat_count, overall_coherence, analysis_score, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, ledger.StoryID, ledger.SessionID, len(ledger.Beats), ledger.OverallCoherence, analysisScore, payload)
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}
	return id, nil
}

// List returns snapshot summaries for a story, newest first. An empty
// storyID lists everything.
func (a *Archive) List(ctx context.Context, storyID string) ([]SnapshotMeta, error) {
	query := `
		SELECT id, story_id, session_id, beat_count, overall_coherence, analysis_score, created_at
		FROM ledger_snapshots
		ORDER BY created_at DESC
	`
	args := []any{}
	if storyID != "" {
		query = `
			SELECT id, story_id, session_id, beat_count, overall_coherence, analysis_score, created_at
			FROM ledger_snapshots
			WHERE story_id = $1
			ORDER BY created_at DESC
		`
		args = []any{storyID}
	}

	rows, err := a.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []SnapshotMeta
	for rows.Next() {
		var s SnapshotMeta
		if err := rows.Scan(&s.ID, &s.StoryID, &s.SessionID, &s.BeatCount, &s.OverallCoherence, &s.AnalysisScore, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// Load retrieves one archived ledger by snapshot id.
func (a *Archive) Load(ctx context.Context, snapshotID string) (*narrative.Ledger, error) {
	var payload []byte
	err := a.db.QueryRow(ctx,
		"SELECT payload FROM ledger_snapshots WHERE id = $1", snapshotID,
	).Scan(&payload)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", snapshotID, err)
	}

	var ledger narrative.Ledger
	if err := json.Unmarshal(payload, &ledger); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", snapshotID, err)
	}
	return &ledger, nil
}
