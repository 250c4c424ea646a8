package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Qodirxon2000aa/bottt/internal/config"
	"github.com/Qodirxon2000aa/bottt/internal/model"
	"github.com/Qodirxon2000aa/bottt/internal/upstream"
)

// LeaderboardService serves the weekly top list. Rows are cleaned (no "@"
// decorations), re-sorted by stars bought and re-ranked locally, since the
// upstream ranking is not trusted to be consistent with its own numbers.
type LeaderboardService struct {
	client *upstream.Client
	log    *zap.Logger

	mu        sync.RWMutex
	cached    []model.LeaderboardEntry
	fetchedAt time.Time
}

func NewLeaderboardService(client *upstream.Client, log *zap.Logger) *LeaderboardService {
	return &LeaderboardService{client: client, log: log.Named("leaderboard")}
}

// Weekly returns the top-10, served from a short-lived cache. A fetch
// failure falls back to the previous list when one exists.
func (s *LeaderboardService) Weekly(ctx context.Context) ([]model.LeaderboardEntry, error) {
	s.mu.RLock()
	if s.cached != nil && time.Since(s.fetchedAt) < config.LeaderboardCacheTTL {
		cached := s.cached
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	rows, err := s.client.GetWeekTop(ctx)
	if err != nil {
		s.mu.RLock()
		cached := s.cached
		s.mu.RUnlock()
		if cached != nil {
			s.log.Warn("leaderboard refresh failed, serving cached", zap.Error(err))
			return cached, nil
		}
		return nil, err
	}

	entries := RankEntries(rows)

	s.mu.Lock()
	s.cached = entries
	s.fetchedAt = time.Now()
	s.mu.Unlock()
	return entries, nil
}

// RankEntries converts raw rows into clean, re-ranked entries.
func RankEntries(rows []upstream.WeekRow) []model.LeaderboardEntry {
	entries := make([]model.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(strings.ReplaceAll(row.Name, "@", ""))
		if name == "" {
			name = "Unknown"
		}
		entries = append(entries, model.LeaderboardEntry{
			DisplayName: name,
			TotalStars:  int64(row.Harid),
			TotalUZS:    int64(row.Summa),
			PhotoURL:    row.Photo,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalStars > entries[j].TotalStars
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
