package yields

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/snowfolio/snowfolio/internal/domain"
)

// Repository persists and reads yield snapshots
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new yield snapshot repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "yields").Logger(),
	}
}

// Insert stores a single snapshot
func (r *Repository) Insert(snap domain.YieldSnapshot) error {
	_, err := r.db.Exec(`
		INSERT INTO yield_snapshots (protocol, apy, source, recorded_at)
		VALUES (?, ?, ?, ?)
	`, string(snap.Protocol), snap.APY, snap.Source, snap.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to insert yield snapshot: %w", err)
	}
	return nil
}

// RecentAPYs returns up to limit daily APY observations for a protocol in
// chronological order (oldest first), one per calendar day.
func (r *Repository) RecentAPYs(protocol domain.Protocol, limit int) ([]float64, error) {
	rows, err := r.db.Query(`
		SELECT apy FROM (
			SELECT apy, date(recorded_at) AS day, MAX(recorded_at)
			FROM yield_snapshots
			WHERE protocol = ?
			GROUP BY day
			ORDER BY day DESC
			LIMIT ?
		) ORDER BY day ASC
	`, string(protocol), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent APYs: %w", err)
	}
	defer rows.Close()

	var apys []float64
	for rows.Next() {
		var apy float64
		if err := rows.Scan(&apy); err != nil {
			return nil, fmt.Errorf("failed to scan APY: %w", err)
		}
		apys = append(apys, apy)
	}
	return apys, rows.Err()
}

// History returns snapshots for a protocol since the given time, oldest first.
func (r *Repository) History(protocol domain.Protocol, since time.Time) ([]domain.YieldSnapshot, error) {
	rows, err := r.db.Query(`
		SELECT protocol, apy, source, recorded_at
		FROM yield_snapshots
		WHERE protocol = ? AND recorded_at >= ?
		ORDER BY recorded_at ASC
	`, string(protocol), since)
	if err != nil {
		return nil, fmt.Errorf("failed to query yield history: %w", err)
	}
	defer rows.Close()

	var snaps []domain.YieldSnapshot
	for rows.Next() {
		var snap domain.YieldSnapshot
		var protocol string
		if err := rows.Scan(&protocol, &snap.APY, &snap.Source, &snap.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan yield snapshot: %w", err)
		}
		snap.Protocol = domain.Protocol(protocol)
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}
