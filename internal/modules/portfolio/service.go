package portfolio

import (
	"context"

	"github.com/rs/zerolog"
)

// Service exposes the portfolio read path and records every observation in
// the history table so drift can be charted later.
type Service struct {
	reader  *ChainReader
	history *HistoryRepository
	log     zerolog.Logger
}

// NewService creates a new portfolio service
func NewService(reader *ChainReader, history *HistoryRepository, log zerolog.Logger) *Service {
	return &Service{
		reader:  reader,
		history: history,
		log:     log.With().Str("service", "portfolio").Logger(),
	}
}

// CurrentSnapshot reads the wallet's on-chain allocation and records it.
// History write failures are logged, not surfaced; the live read matters more.
func (s *Service) CurrentSnapshot(ctx context.Context, address string) (Snapshot, error) {
	snap, err := s.reader.Read(ctx, address)
	if err != nil {
		return Snapshot{}, err
	}

	if err := s.history.Insert(snap); err != nil {
		s.log.Warn().Err(err).Str("address", address).Msg("Failed to record portfolio snapshot")
	}

	return snap, nil
}
