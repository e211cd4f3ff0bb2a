package rebalancing

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowfolio/snowfolio/internal/domain"
	"github.com/snowfolio/snowfolio/internal/events"
	"github.com/snowfolio/snowfolio/internal/modules/portfolio"
)

func testAutopilot(t *testing.T, profiles *portfolio.ProfileRepository) *Autopilot {
	t.Helper()
	a := NewAutopilot(nil, profiles, nil, nil, NewLogExecutor(zerolog.Nop()), events.NewManager(zerolog.Nop()), zerolog.Nop())
	t.Cleanup(a.Stop)
	return a
}

func TestAutopilot_EnableIsIdempotent(t *testing.T) {
	a := testAutopilot(t, nil)
	addr := "0x8888888888888888888888888888888888888888"

	require.NoError(t, a.Enable(addr, 60))
	assert.True(t, a.Scheduled(addr))

	// Re-enabling replaces the schedule instead of stacking a second one.
	require.NoError(t, a.Enable(addr, 15))
	assert.True(t, a.Scheduled(addr))
	assert.Len(t, a.entries, 1)
}

func TestAutopilot_DisableCancels(t *testing.T) {
	a := testAutopilot(t, nil)
	addr := "0x9999999999999999999999999999999999999999"

	require.NoError(t, a.Enable(addr, 60))
	a.Disable(addr)
	assert.False(t, a.Scheduled(addr))

	// Disabling again is a no-op.
	a.Disable(addr)
	assert.False(t, a.Scheduled(addr))
}

func TestAutopilot_EnableRejectsBadInterval(t *testing.T) {
	a := testAutopilot(t, nil)

	assert.Error(t, a.Enable("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", 0))
	assert.Error(t, a.Enable("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", -5))
}

func TestAutopilot_RestoreSchedulesEnabledProfiles(t *testing.T) {
	profiles := portfolio.NewProfileRepository(setupTestDB(t), zerolog.Nop())

	enabled := &portfolio.UserProfile{
		Address:                "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
		RiskProfile:            domain.ProfileBalanced,
		AutoRebalanceEnabled:   true,
		RebalanceFrequencyDays: 30,
		CheckIntervalMinutes:   30,
	}
	require.NoError(t, profiles.Upsert(enabled))

	idle := &portfolio.UserProfile{
		Address:                "0xcccccccccccccccccccccccccccccccccccccccc",
		RiskProfile:            domain.ProfileBalanced,
		RebalanceFrequencyDays: 30,
		CheckIntervalMinutes:   30,
	}
	require.NoError(t, profiles.Upsert(idle))

	a := testAutopilot(t, profiles)
	require.NoError(t, a.Restore())

	assert.True(t, a.Scheduled(enabled.Address))
	assert.False(t, a.Scheduled(idle.Address))
}
