package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/snowfolio/snowfolio/internal/modules/yields"
)

// Per-run budget for fetching and persisting protocol yields.
const yieldSyncTimeout = 90 * time.Second

// YieldSyncJob refreshes protocol APYs from the upstream data sources and
// records a snapshot per protocol for trend smoothing.
type YieldSyncJob struct {
	log     zerolog.Logger
	yields  *yields.Service
	timeout time.Duration
}

// NewYieldSyncJob creates a new yield sync job
func NewYieldSyncJob(yieldService *yields.Service, log zerolog.Logger) *YieldSyncJob {
	return &YieldSyncJob{
		log:     log.With().Str("job", "yield_sync").Logger(),
		yields:  yieldService,
		timeout: yieldSyncTimeout,
	}
}

// Name returns the job name
func (j *YieldSyncJob) Name() string {
	return "yield_sync"
}

// Run fetches current yields and persists one snapshot per protocol
func (j *YieldSyncJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if err := j.yields.Sync(ctx); err != nil {
		return fmt.Errorf("yield sync: %w", err)
	}
	return nil
}
