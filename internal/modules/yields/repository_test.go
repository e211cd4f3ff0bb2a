package yields

import (
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowfolio/snowfolio/internal/database"
	"github.com/snowfolio/snowfolio/internal/domain"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// In-memory sqlite gives each connection its own database.
	conn.SetMaxOpenConns(1)
	require.NoError(t, database.MigrateConn(conn))

	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestRepository_InsertAndHistory(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.Nop())

	now := time.Now().UTC()
	snaps := []domain.YieldSnapshot{
		{Protocol: domain.ProtocolAave, APY: 3.5, Source: "live", RecordedAt: now.Add(-48 * time.Hour)},
		{Protocol: domain.ProtocolAave, APY: 3.9, Source: "live", RecordedAt: now.Add(-24 * time.Hour)},
		{Protocol: domain.ProtocolTraderJoe, APY: 8.1, Source: "live", RecordedAt: now.Add(-24 * time.Hour)},
		{Protocol: domain.ProtocolAave, APY: 4.1, Source: "fallback", RecordedAt: now},
	}
	for _, snap := range snaps {
		require.NoError(t, repo.Insert(snap))
	}

	history, err := repo.History(domain.ProtocolAave, now.Add(-72*time.Hour))
	require.NoError(t, err)
	require.Len(t, history, 3)

	// Oldest first, only the requested protocol.
	assert.Equal(t, 3.5, history[0].APY)
	assert.Equal(t, 4.1, history[2].APY)
	for _, snap := range history {
		assert.Equal(t, domain.ProtocolAave, snap.Protocol)
	}

	recent, err := repo.History(domain.ProtocolAave, now.Add(-30*time.Hour))
	require.NoError(t, err)
	assert.Len(t, recent, 2, "since filter must exclude older rows")
}

func TestRepository_RecentAPYsOnePerDay(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.Nop())

	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	// Two observations on day one; the later one should win.
	require.NoError(t, repo.Insert(domain.YieldSnapshot{
		Protocol: domain.ProtocolYieldYak, APY: 11.0, Source: "live", RecordedAt: base,
	}))
	require.NoError(t, repo.Insert(domain.YieldSnapshot{
		Protocol: domain.ProtocolYieldYak, APY: 12.5, Source: "live", RecordedAt: base.Add(6 * time.Hour),
	}))
	require.NoError(t, repo.Insert(domain.YieldSnapshot{
		Protocol: domain.ProtocolYieldYak, APY: 13.0, Source: "live", RecordedAt: base.AddDate(0, 0, 1),
	}))

	apys, err := repo.RecentAPYs(domain.ProtocolYieldYak, 7)
	require.NoError(t, err)

	assert.Equal(t, []float64{12.5, 13.0}, apys)
}

func TestRepository_RecentAPYsHonorsLimit(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.Nop())

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		require.NoError(t, repo.Insert(domain.YieldSnapshot{
			Protocol:   domain.ProtocolTraderJoe,
			APY:        float64(i),
			Source:     "live",
			RecordedAt: base.AddDate(0, 0, i),
		}))
	}

	apys, err := repo.RecentAPYs(domain.ProtocolTraderJoe, 7)
	require.NoError(t, err)

	// The seven most recent days, oldest first.
	assert.Equal(t, []float64{3, 4, 5, 6, 7, 8, 9}, apys)
}

func TestRepository_EmptyResults(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.Nop())

	apys, err := repo.RecentAPYs(domain.ProtocolAave, 7)
	require.NoError(t, err)
	assert.Empty(t, apys)

	history, err := repo.History(domain.ProtocolAave, time.Now().AddDate(0, 0, -7))
	require.NoError(t, err)
	assert.Empty(t, history)
}
