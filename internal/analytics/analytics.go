package analytics

import (
	"context"

	"warden-automod/internal/storage"
)

type Store interface {
	ViolationStatistics(ctx context.Context, guildID string, days int) (storage.Statistics, error)
	CountViolations(ctx context.Context, guildID, userID string, days int) (int, error)
}

type Service struct {
	store Store
}

func New(store Store) *Service {
	return &Service{store: store}
}

// Report aggregates guild enforcement activity over the trailing days.
func (s *Service) Report(ctx context.Context, guildID string, days int) (storage.Statistics, error) {
	return s.store.ViolationStatistics(ctx, guildID, days)
}

func (s *Service) UserCount(ctx context.Context, guildID, userID string, days int) (int, error) {
	return s.store.CountViolations(ctx, guildID, userID, days)
}
