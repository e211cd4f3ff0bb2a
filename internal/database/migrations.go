package database

import (
	"database/sql"
	"fmt"
)

// migrations are applied in order; user_version tracks progress so restarts
// only run what is new.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS user_profiles (
		address TEXT PRIMARY KEY,
		age INTEGER NOT NULL DEFAULT 0,
		monthly_income REAL NOT NULL DEFAULT 0,
		monthly_expenses REAL NOT NULL DEFAULT 0,
		investment_goal TEXT NOT NULL DEFAULT 'medium_term',
		risk_tolerance TEXT NOT NULL DEFAULT 'medium',
		investment_experience TEXT NOT NULL DEFAULT 'beginner',
		time_horizon_years REAL NOT NULL DEFAULT 5,
		liquidity_need TEXT NOT NULL DEFAULT 'medium',
		risk_score INTEGER NOT NULL DEFAULT 50,
		risk_profile TEXT NOT NULL DEFAULT 'balanced',
		auto_rebalance_enabled INTEGER NOT NULL DEFAULT 0,
		rebalance_frequency_days INTEGER NOT NULL DEFAULT 30,
		check_interval_minutes INTEGER NOT NULL DEFAULT 60,
		last_rebalance_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS yield_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		protocol TEXT NOT NULL,
		apy REAL NOT NULL,
		source TEXT NOT NULL DEFAULT 'live',
		recorded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_yield_snapshots_protocol_time
		ON yield_snapshots(protocol, recorded_at DESC)`,
	`CREATE TABLE IF NOT EXISTS rebalance_history (
		id TEXT PRIMARY KEY,
		address TEXT NOT NULL,
		reason TEXT NOT NULL,
		urgency TEXT NOT NULL,
		executed INTEGER NOT NULL DEFAULT 0,
		aave_pct REAL NOT NULL DEFAULT 0,
		traderjoe_pct REAL NOT NULL DEFAULT 0,
		yieldyak_pct REAL NOT NULL DEFAULT 0,
		gas_cost_avax REAL NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rebalance_history_address
		ON rebalance_history(address, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS portfolio_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		address TEXT NOT NULL,
		total_value_usd REAL NOT NULL,
		aave_pct REAL NOT NULL DEFAULT 0,
		traderjoe_pct REAL NOT NULL DEFAULT 0,
		yieldyak_pct REAL NOT NULL DEFAULT 0,
		recorded_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_portfolio_history_address
		ON portfolio_history(address, recorded_at DESC)`,
}

// Migrate applies any pending migrations
func (db *DB) Migrate() error {
	return MigrateConn(db.conn)
}

// MigrateConn applies pending migrations on a raw connection. Split out so
// tests can migrate their own in-memory databases.
func MigrateConn(conn *sql.DB) error {
	var version int
	if err := conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for i := version; i < len(migrations); i++ {
		if _, err := conn.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		if _, err := conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			return fmt.Errorf("failed to bump schema version to %d: %w", i+1, err)
		}
	}

	return nil
}
