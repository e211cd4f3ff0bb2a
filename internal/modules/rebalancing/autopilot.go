package rebalancing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/snowfolio/snowfolio/internal/domain"
	"github.com/snowfolio/snowfolio/internal/events"
	"github.com/snowfolio/snowfolio/internal/modules/portfolio"
)

// Executor hands a target allocation to whatever submits transactions.
// Submission itself is out of scope for this backend.
type Executor interface {
	Execute(ctx context.Context, address string, target domain.Allocation) error
}

// LogExecutor is the default Executor: it records the intent and does
// nothing on-chain.
type LogExecutor struct {
	log zerolog.Logger
}

// NewLogExecutor creates a logging no-op executor
func NewLogExecutor(log zerolog.Logger) *LogExecutor {
	return &LogExecutor{log: log.With().Str("service", "executor").Logger()}
}

// Execute logs the requested rebalance
func (e *LogExecutor) Execute(_ context.Context, address string, target domain.Allocation) error {
	e.log.Info().
		Str("address", address).
		Float64("aave_pct", target.Aave).
		Float64("traderjoe_pct", target.TraderJoe).
		Float64("yieldyak_pct", target.YieldYak).
		Msg("Rebalance execution requested (no-op executor)")
	return nil
}

// tickTimeout bounds one scheduled check so a hung RPC cannot pile up ticks.
const tickTimeout = 2 * time.Minute

// Autopilot owns the per-user automated rebalance schedules. Each enabled
// wallet gets a recurring cron entry; the registry maps address to entry so
// enabling is idempotent and disabling cancels cleanly.
type Autopilot struct {
	cron      *cron.Cron
	service   *Service
	profiles  *portfolio.ProfileRepository
	portfolio *portfolio.Service
	history   *HistoryRepository
	executor  Executor
	events    *events.Manager
	log       zerolog.Logger

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

// NewAutopilot creates the autopilot registry
func NewAutopilot(
	service *Service,
	profiles *portfolio.ProfileRepository,
	portfolioService *portfolio.Service,
	history *HistoryRepository,
	executor Executor,
	eventManager *events.Manager,
	log zerolog.Logger,
) *Autopilot {
	return &Autopilot{
		cron:      cron.New(),
		service:   service,
		profiles:  profiles,
		portfolio: portfolioService,
		history:   history,
		executor:  executor,
		events:    eventManager,
		log:       log.With().Str("service", "autopilot").Logger(),
		entries:   make(map[string]cron.EntryID),
	}
}

// Start begins firing scheduled checks
func (a *Autopilot) Start() {
	a.cron.Start()
	a.log.Info().Msg("Autopilot started")
}

// Stop cancels all schedules and waits for in-flight ticks
func (a *Autopilot) Stop() {
	ctx := a.cron.Stop()
	<-ctx.Done()
	a.log.Info().Msg("Autopilot stopped")
}

// Restore re-registers schedules for every profile with auto-rebalance
// enabled. Called once at startup.
func (a *Autopilot) Restore() error {
	profiles, err := a.profiles.ListAutoRebalance()
	if err != nil {
		return fmt.Errorf("failed to list auto-rebalance profiles: %w", err)
	}
	for _, p := range profiles {
		if err := a.Enable(p.Address, p.CheckIntervalMinutes); err != nil {
			return err
		}
	}
	a.log.Info().Int("schedules", len(profiles)).Msg("Autopilot schedules restored")
	return nil
}

// Enable schedules recurring checks for a wallet. Enabling an already
// scheduled wallet first cancels the prior schedule, so repeated calls are
// idempotent and never leak cron entries.
func (a *Autopilot) Enable(address string, intervalMinutes int) error {
	if intervalMinutes <= 0 {
		return fmt.Errorf("check interval must be positive, got %d", intervalMinutes)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if entryID, ok := a.entries[address]; ok {
		a.cron.Remove(entryID)
		delete(a.entries, address)
	}

	schedule := fmt.Sprintf("@every %dm", intervalMinutes)
	entryID, err := a.cron.AddFunc(schedule, func() {
		a.tick(address)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule checks for %s: %w", address, err)
	}

	a.entries[address] = entryID
	a.events.Emit(events.AutoRebalanceEnabled, "rebalancing", map[string]interface{}{
		"address":          address,
		"interval_minutes": intervalMinutes,
	})
	return nil
}

// Disable cancels a wallet's schedule. Disabling an unscheduled wallet is a
// no-op.
func (a *Autopilot) Disable(address string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	entryID, ok := a.entries[address]
	if !ok {
		return
	}
	a.cron.Remove(entryID)
	delete(a.entries, address)

	a.events.Emit(events.AutoRebalanceStopped, "rebalancing", map[string]interface{}{
		"address": address,
	})
}

// Scheduled reports whether a wallet currently has a schedule
func (a *Autopilot) Scheduled(address string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.entries[address]
	return ok
}

// tick runs one scheduled check. Errors are logged and swallowed so the
// schedule keeps firing; a failed execution leaves last_rebalance_at alone.
func (a *Autopilot) tick(address string) {
	ctx, cancel := context.WithTimeout(context.Background(), tickTimeout)
	defer cancel()

	log := a.log.With().Str("address", address).Logger()

	profile, err := a.profiles.Get(address)
	if err != nil {
		log.Error().Err(err).Msg("Scheduled check failed to load profile")
		return
	}

	// The flag may have been flipped off behind our back; honor it.
	if !profile.AutoRebalanceEnabled {
		log.Info().Msg("Auto-rebalance disabled in profile, cancelling schedule")
		a.Disable(address)
		return
	}

	snap, err := a.portfolio.CurrentSnapshot(ctx, address)
	if err != nil {
		log.Error().Err(err).Msg("Scheduled check failed to read portfolio")
		return
	}

	decision := a.service.Evaluate(ctx, profile, snap.Allocation)
	if !decision.ShouldRebalance {
		log.Debug().Msg("Scheduled check: no rebalance needed")
		return
	}

	a.events.Emit(events.RebalanceTriggered, "rebalancing", map[string]interface{}{
		"address": address,
		"reason":  decision.Reason,
		"urgency": string(decision.Urgency),
	})

	executed := false
	if decision.NewAllocation != nil {
		if err := a.executor.Execute(ctx, address, *decision.NewAllocation); err != nil {
			log.Error().Err(err).Msg("Rebalance execution failed")
		} else {
			executed = true
		}
	}

	if _, err := a.history.Record(address, decision, executed); err != nil {
		log.Error().Err(err).Msg("Failed to record rebalance")
	}

	if executed {
		if err := a.profiles.SetLastRebalance(address, time.Now().UTC()); err != nil {
			log.Error().Err(err).Msg("Failed to update last rebalance time")
		}
		a.events.Emit(events.RebalanceExecuted, "rebalancing", map[string]interface{}{
			"address": address,
		})
	}
}
