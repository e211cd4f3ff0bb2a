package portfolio

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// HistoryRepository persists portfolio snapshots
type HistoryRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sql.DB, log zerolog.Logger) *HistoryRepository {
	return &HistoryRepository{
		db:  db,
		log: log.With().Str("repo", "portfolio_history").Logger(),
	}
}

// Insert records a snapshot
func (r *HistoryRepository) Insert(snap Snapshot) error {
	_, err := r.db.Exec(`
		INSERT INTO portfolio_history (address, total_value_usd, aave_pct, traderjoe_pct, yieldyak_pct, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, snap.Address, snap.TotalValueUSD,
		snap.Allocation.Aave, snap.Allocation.TraderJoe, snap.Allocation.YieldYak,
		snap.RecordedAt)
	if err != nil {
		return fmt.Errorf("failed to insert portfolio snapshot: %w", err)
	}
	return nil
}

// History returns snapshots for an address since the given time, oldest first
func (r *HistoryRepository) History(address string, since time.Time) ([]Snapshot, error) {
	rows, err := r.db.Query(`
		SELECT address, total_value_usd, aave_pct, traderjoe_pct, yieldyak_pct, recorded_at
		FROM portfolio_history
		WHERE address = ? AND recorded_at >= ?
		ORDER BY recorded_at ASC
	`, address, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio history: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.Address, &snap.TotalValueUSD,
			&snap.Allocation.Aave, &snap.Allocation.TraderJoe, &snap.Allocation.YieldYak,
			&snap.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}
