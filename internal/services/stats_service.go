package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/folio-api/internal/repository"
)

var ErrStatKeyEmpty = errors.New("stat key cannot be empty")

// StatsService exposes the site_stats table as a flat map. Values are stored
// as written and are not recomputed from content tables.
type StatsService struct {
	repo repository.StatsRepository
}

func NewStatsService(repo repository.StatsRepository) *StatsService {
	return &StatsService{repo: repo}
}

func (s *StatsService) All(ctx context.Context) (map[string]string, error) {
	stats, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	out := make(map[string]string, len(stats))
	for _, stat := range stats {
		out[stat.Key] = stat.Value
	}
	return out, nil
}

// Set creates or replaces the value stored under key
func (s *StatsService) Set(ctx context.Context, key, value string) (map[string]string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrStatKeyEmpty
	}
	stat, err := s.repo.Upsert(ctx, key, value)
	if err != nil {
		return nil, fmt.Errorf("failed to save stat: %w", err)
	}
	return map[string]string{stat.Key: stat.Value}, nil
}
