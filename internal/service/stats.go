package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Qodirxon2000aa/bottt/internal/model"
	"github.com/Qodirxon2000aa/bottt/internal/upstream"
)

// StatsService proxies the admin aggregates. A logically failed upstream
// response degrades to zero values so a broken statistics section never
// takes the rest of the admin panel down with it.
type StatsService struct {
	client *upstream.Client
	log    *zap.Logger
}

func NewStatsService(client *upstream.Client, log *zap.Logger) *StatsService {
	return &StatsService{client: client, log: log.Named("stats")}
}

func (s *StatsService) Aggregate(ctx context.Context) (model.Statistics, error) {
	data, err := s.client.GetStatistics(ctx)
	if err != nil {
		return model.Statistics{}, err
	}
	if !data.OK {
		s.log.Warn("statistics endpoint reported not ok")
		return model.Statistics{}, nil
	}
	return model.Statistics{
		UsersTotal:    int64(data.Users.Total),
		UsersToday:    int64(data.Users.Today),
		StarsSold:     int64(data.Stars.Sold),
		StarsSum:      int64(data.Stars.Summa),
		TurnoverToday: int64(data.Turnover.Today),
		Date:          data.Date,
	}, nil
}
