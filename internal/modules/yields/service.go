package yields

import (
	"context"
	"math/big"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/snowfolio/snowfolio/internal/clients/avalanche"
	"github.com/snowfolio/snowfolio/internal/clients/traderjoe"
	"github.com/snowfolio/snowfolio/internal/clients/yieldyak"
	"github.com/snowfolio/snowfolio/internal/domain"
	"github.com/snowfolio/snowfolio/internal/events"
)

// Fallback APYs (percent) used when a provider is unreachable. Long-run
// averages for each protocol; deliberately conservative.
var FallbackAPYs = domain.YieldSet{
	domain.ProtocolAave:      3.8,
	domain.ProtocolTraderJoe: 8.5,
	domain.ProtocolYieldYak:  12.2,
}

const (
	cacheKeyCurrent = "yields:current"
	cacheTTL        = 5 * time.Minute

	// Benqi qiAVAX market (Compound fork) on the C-Chain; the supply rate
	// read stands in for the Aave/Benqi lending APY.
	benqiQiAVAX = "0x5C0401e81Bc07Ca70fAD469b451682c0d747Ef1c"

	// supplyRatePerBlock() selector; rate is 1e18-scaled per ~2s block.
	supplyRateCalldata = "0xae9d70b0"
	secondsPerBlock    = 2.0
	secondsPerYear     = 365 * 24 * 3600
)

// Service aggregates current APYs across the three protocols, caching
// results and degrading to fallback constants per provider on failure.
type Service struct {
	chain  *avalanche.Client
	joe    *traderjoe.Client
	yak    *yieldyak.Client
	repo   *Repository
	cache  *ristretto.Cache
	events *events.Manager
	log    zerolog.Logger
}

// NewService creates a new yield aggregation service
func NewService(
	chain *avalanche.Client,
	joe *traderjoe.Client,
	yak *yieldyak.Client,
	repo *Repository,
	eventManager *events.Manager,
	log zerolog.Logger,
) (*Service, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1 << 10,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	return &Service{
		chain:  chain,
		joe:    joe,
		yak:    yak,
		repo:   repo,
		cache:  cache,
		events: eventManager,
		log:    log.With().Str("service", "yields").Logger(),
	}, nil
}

// Current returns one snapshot per protocol. Provider failures are recovered
// with fallback constants and marked via Source; this method never errors.
func (s *Service) Current(ctx context.Context) []domain.YieldSnapshot {
	if cached, ok := s.cache.Get(cacheKeyCurrent); ok {
		if snaps, ok := cached.([]domain.YieldSnapshot); ok {
			return snaps
		}
	}

	snaps := s.fetchAll(ctx)
	s.cache.SetWithTTL(cacheKeyCurrent, snaps, 1, cacheTTL)
	return snaps
}

// CurrentSet flattens Current into a YieldSet for the calculation layers.
func (s *Service) CurrentSet(ctx context.Context) domain.YieldSet {
	set := make(domain.YieldSet, len(domain.Protocols))
	for _, snap := range s.Current(ctx) {
		set[snap.Protocol] = snap.APY
	}
	return set
}

// fetchAll queries the three providers concurrently. Each protocol degrades
// independently; a slow TraderJoe API must not block a fresh Benqi rate.
func (s *Service) fetchAll(ctx context.Context) []domain.YieldSnapshot {
	now := time.Now().UTC()
	results := make([]domain.YieldSnapshot, len(domain.Protocols))

	g, gctx := errgroup.WithContext(ctx)

	fetchers := map[domain.Protocol]func(context.Context) (float64, error){
		domain.ProtocolAave:      s.lendingAPY,
		domain.ProtocolTraderJoe: s.joe.BestStablePoolAPR,
		domain.ProtocolYieldYak:  s.yak.FarmAPY,
	}

	for i, protocol := range domain.Protocols {
		i, protocol := i, protocol
		fetch := fetchers[protocol]
		g.Go(func() error {
			apy, err := fetch(gctx)
			if err != nil {
				s.log.Warn().Err(err).Str("protocol", string(protocol)).Msg("Yield fetch failed, using fallback")
				results[i] = domain.YieldSnapshot{
					Protocol:   protocol,
					APY:        FallbackAPYs[protocol],
					Source:     "fallback",
					RecordedAt: now,
				}
				return nil
			}
			results[i] = domain.YieldSnapshot{
				Protocol:   protocol,
				APY:        apy,
				Source:     "live",
				RecordedAt: now,
			}
			return nil
		})
	}

	// Fetchers swallow their own errors, so Wait only propagates ctx cancellation.
	if err := g.Wait(); err != nil {
		s.log.Warn().Err(err).Msg("Yield fan-out interrupted")
	}

	return results
}

// lendingAPY derives the Benqi supply APY (percent) from the on-chain
// per-block rate: rate/1e18 per block, compounding ignored.
func (s *Service) lendingAPY(ctx context.Context) (float64, error) {
	rate, err := s.chain.ContractReadUint(ctx, benqiQiAVAX, supplyRateCalldata)
	if err != nil {
		return 0, err
	}

	perBlock := new(big.Float).SetInt(rate)
	perBlock.Quo(perBlock, big.NewFloat(1e18))
	r, _ := perBlock.Float64()

	blocksPerYear := secondsPerYear / secondsPerBlock
	return r * blocksPerYear * 100, nil
}

// Sync fetches current yields and persists one snapshot per protocol.
// Used by the scheduled yield-sync job.
func (s *Service) Sync(ctx context.Context) error {
	s.events.Emit(events.YieldSyncStart, "yields", nil)

	snaps := s.fetchAll(ctx)
	for _, snap := range snaps {
		if err := s.repo.Insert(snap); err != nil {
			return err
		}
	}

	// Refresh the cache with what we just stored.
	s.cache.SetWithTTL(cacheKeyCurrent, snaps, 1, cacheTTL)

	s.events.Emit(events.YieldSyncComplete, "yields", map[string]interface{}{
		"snapshots": len(snaps),
	})
	return nil
}

// SmoothedSet returns 7-day SMA APYs computed from stored snapshots where
// enough history exists, falling back to the provided current values. Used
// by the rebalance opportunity rule so single-tick APY spikes do not flap
// the trigger.
func (s *Service) SmoothedSet(current domain.YieldSet) domain.YieldSet {
	smoothed := make(domain.YieldSet, len(domain.Protocols))
	for _, p := range domain.Protocols {
		smoothed[p] = current[p]
		history, err := s.repo.RecentAPYs(p, smaPeriod)
		if err != nil {
			s.log.Warn().Err(err).Str("protocol", string(p)).Msg("Failed to load APY history")
			continue
		}
		if sma := smaOf(history); sma != nil {
			smoothed[p] = *sma
		}
	}
	return smoothed
}
