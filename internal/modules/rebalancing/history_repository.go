package rebalancing

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/snowfolio/snowfolio/internal/domain"
)

// HistoryRepository persists auto-rebalance trigger records
type HistoryRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewHistoryRepository creates a new rebalance history repository
func NewHistoryRepository(db *sql.DB, log zerolog.Logger) *HistoryRepository {
	return &HistoryRepository{
		db:  db,
		log: log.With().Str("repo", "rebalance_history").Logger(),
	}
}

// Record stores one triggered decision and returns its generated ID
func (r *HistoryRepository) Record(address string, decision Decision, executed bool) (string, error) {
	id := uuid.NewString()

	var alloc domain.Allocation
	if decision.NewAllocation != nil {
		alloc = *decision.NewAllocation
	}
	var gasCost float64
	if decision.EstimatedGasCostAVAX != nil {
		gasCost = *decision.EstimatedGasCostAVAX
	}

	_, err := r.db.Exec(`
		INSERT INTO rebalance_history (id, address, reason, urgency, executed,
			aave_pct, traderjoe_pct, yieldyak_pct, gas_cost_avax, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, address, decision.Reason, string(decision.Urgency), boolToInt(executed),
		alloc.Aave, alloc.TraderJoe, alloc.YieldYak, gasCost, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to record rebalance: %w", err)
	}

	return id, nil
}

// ForAddress returns the most recent entries for a wallet, newest first
func (r *HistoryRepository) ForAddress(address string, limit int) ([]HistoryEntry, error) {
	rows, err := r.db.Query(`
		SELECT id, address, reason, urgency, executed,
		       aave_pct, traderjoe_pct, yieldyak_pct, gas_cost_avax, created_at
		FROM rebalance_history
		WHERE address = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, address, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rebalance history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var urgency string
		var executed int
		if err := rows.Scan(&e.ID, &e.Address, &e.Reason, &urgency, &executed,
			&e.Allocation.Aave, &e.Allocation.TraderJoe, &e.Allocation.YieldYak,
			&e.GasCostAVAX, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rebalance entry: %w", err)
		}
		e.Urgency = Urgency(urgency)
		e.Executed = executed != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
