package yields

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowfolio/snowfolio/internal/domain"
	"github.com/snowfolio/snowfolio/internal/events"
)

func testService(t *testing.T, repo *Repository) *Service {
	t.Helper()
	svc, err := NewService(nil, nil, nil, repo, events.NewManager(zerolog.Nop()), zerolog.Nop())
	require.NoError(t, err)
	return svc
}

func TestFallbackAPYs_CoverAllProtocols(t *testing.T) {
	assert.True(t, FallbackAPYs.Complete())
	for _, p := range domain.Protocols {
		assert.Greater(t, FallbackAPYs[p], 0.0, "protocol %s", p)
	}
}

func TestSmoothedSet_UsesHistoryWhenAvailable(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.Nop())
	svc := testService(t, repo)

	// Seven days of Aave history averaging 4.0; a current spike to 9.0
	// should be smoothed away.
	base := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < smaPeriod; i++ {
		require.NoError(t, repo.Insert(domain.YieldSnapshot{
			Protocol:   domain.ProtocolAave,
			APY:        4.0,
			Source:     "live",
			RecordedAt: base.AddDate(0, 0, i),
		}))
	}

	current := domain.YieldSet{
		domain.ProtocolAave:      9.0,
		domain.ProtocolTraderJoe: 8.0,
		domain.ProtocolYieldYak:  12.0,
	}

	smoothed := svc.SmoothedSet(current)

	assert.InDelta(t, 4.0, smoothed[domain.ProtocolAave], 1e-9)
	// No history for the other protocols; current values pass through.
	assert.Equal(t, 8.0, smoothed[domain.ProtocolTraderJoe])
	assert.Equal(t, 12.0, smoothed[domain.ProtocolYieldYak])
}

func TestSmoothedSet_ShortHistoryFallsThrough(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.Nop())
	svc := testService(t, repo)

	// Only three days of history, below the SMA window.
	base := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Insert(domain.YieldSnapshot{
			Protocol:   domain.ProtocolYieldYak,
			APY:        20.0,
			Source:     "live",
			RecordedAt: base.AddDate(0, 0, i),
		}))
	}

	current := domain.YieldSet{domain.ProtocolYieldYak: 11.5}
	smoothed := svc.SmoothedSet(current)

	assert.Equal(t, 11.5, smoothed[domain.ProtocolYieldYak])
}
