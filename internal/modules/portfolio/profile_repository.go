package portfolio

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/snowfolio/snowfolio/internal/domain"
)

// ErrProfileNotFound is returned when no profile exists for an address.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository persists user profiles
type ProfileRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB, log zerolog.Logger) *ProfileRepository {
	return &ProfileRepository{
		db:  db,
		log: log.With().Str("repo", "profiles").Logger(),
	}
}

// Get loads a profile by wallet address
func (r *ProfileRepository) Get(address string) (*UserProfile, error) {
	row := r.db.QueryRow(`
		SELECT address, age, monthly_income, monthly_expenses, investment_goal,
		       risk_tolerance, investment_experience, time_horizon_years, liquidity_need,
		       risk_score, risk_profile, auto_rebalance_enabled, rebalance_frequency_days,
		       check_interval_minutes, last_rebalance_at, created_at, updated_at
		FROM user_profiles
		WHERE address = ?
	`, address)

	var p UserProfile
	var profile string
	var autoRebalance int
	var lastRebalance sql.NullTime
	err := row.Scan(
		&p.Address, &p.Assessment.Age, &p.Assessment.Income, &p.Assessment.MonthlyExpenses,
		&p.Assessment.InvestmentGoal, &p.Assessment.RiskTolerance, &p.Assessment.InvestmentExperience,
		&p.Assessment.TimeHorizon, &p.Assessment.LiquidityNeed,
		&p.RiskScore, &profile, &autoRebalance, &p.RebalanceFrequencyDays,
		&p.CheckIntervalMinutes, &lastRebalance, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	p.RiskProfile = domain.RiskProfile(profile)
	p.AutoRebalanceEnabled = autoRebalance != 0
	if lastRebalance.Valid {
		t := lastRebalance.Time
		p.LastRebalanceAt = &t
	}
	return &p, nil
}

// Upsert inserts or replaces a profile. UpdatedAt is set here; CreatedAt is
// preserved for existing rows.
func (r *ProfileRepository) Upsert(p *UserProfile) error {
	now := time.Now().UTC()
	_, err := r.db.Exec(`
		INSERT INTO user_profiles (
			address, age, monthly_income, monthly_expenses, investment_goal,
			risk_tolerance, investment_experience, time_horizon_years, liquidity_need,
			risk_score, risk_profile, auto_rebalance_enabled, rebalance_frequency_days,
			check_interval_minutes, last_rebalance_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(address) DO UPDATE SET
			age = excluded.age,
			monthly_income = excluded.monthly_income,
			monthly_expenses = excluded.monthly_expenses,
			investment_goal = excluded.investment_goal,
			risk_tolerance = excluded.risk_tolerance,
			investment_experience = excluded.investment_experience,
			time_horizon_years = excluded.time_horizon_years,
			liquidity_need = excluded.liquidity_need,
			risk_score = excluded.risk_score,
			risk_profile = excluded.risk_profile,
			auto_rebalance_enabled = excluded.auto_rebalance_enabled,
			rebalance_frequency_days = excluded.rebalance_frequency_days,
			check_interval_minutes = excluded.check_interval_minutes,
			last_rebalance_at = excluded.last_rebalance_at,
			updated_at = excluded.updated_at
	`,
		p.Address, p.Assessment.Age, p.Assessment.Income, p.Assessment.MonthlyExpenses,
		p.Assessment.InvestmentGoal, p.Assessment.RiskTolerance, p.Assessment.InvestmentExperience,
		p.Assessment.TimeHorizon, p.Assessment.LiquidityNeed,
		p.RiskScore, string(p.RiskProfile), boolToInt(p.AutoRebalanceEnabled), p.RebalanceFrequencyDays,
		p.CheckIntervalMinutes, p.LastRebalanceAt, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// ListAutoRebalance returns every profile with auto-rebalance enabled.
// Used to restore autopilot schedules at startup.
func (r *ProfileRepository) ListAutoRebalance() ([]UserProfile, error) {
	rows, err := r.db.Query(`
		SELECT address, check_interval_minutes
		FROM user_profiles
		WHERE auto_rebalance_enabled = 1
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list auto-rebalance profiles: %w", err)
	}
	defer rows.Close()

	var profiles []UserProfile
	for rows.Next() {
		var p UserProfile
		if err := rows.Scan(&p.Address, &p.CheckIntervalMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		p.AutoRebalanceEnabled = true
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// SetLastRebalance records a successful rebalance execution time
func (r *ProfileRepository) SetLastRebalance(address string, at time.Time) error {
	_, err := r.db.Exec(`
		UPDATE user_profiles
		SET last_rebalance_at = ?, updated_at = ?
		WHERE address = ?
	`, at, time.Now().UTC(), address)
	if err != nil {
		return fmt.Errorf("failed to update last rebalance: %w", err)
	}
	return nil
}

// SetAutoRebalance flips the auto-rebalance flag
func (r *ProfileRepository) SetAutoRebalance(address string, enabled bool) error {
	result, err := r.db.Exec(`
		UPDATE user_profiles
		SET auto_rebalance_enabled = ?, updated_at = ?
		WHERE address = ?
	`, boolToInt(enabled), time.Now().UTC(), address)
	if err != nil {
		return fmt.Errorf("failed to update auto-rebalance flag: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
