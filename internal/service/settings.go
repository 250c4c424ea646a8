package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Qodirxon2000aa/bottt/internal/config"
	"github.com/Qodirxon2000aa/bottt/internal/model"
	"github.com/Qodirxon2000aa/bottt/internal/upstream"
)

var (
	ErrSettingsNotLoaded = errors.New("settings not loaded yet")
	ErrBadFieldValue     = errors.New("value must be a finite number >= 0")
	ErrUnknownField      = errors.New("unknown settings field")
)

// SettingsService caches the upstream rate/price snapshot. The cache is
// replaced on the periodic refresh and after confirmed admin saves; a failed
// refresh keeps serving the previous snapshot.
type SettingsService struct {
	client *upstream.Client
	log    *zap.Logger

	mu        sync.RWMutex
	current   *model.Settings
	fetchedAt time.Time
}

func NewSettingsService(client *upstream.Client, log *zap.Logger) *SettingsService {
	return &SettingsService{client: client, log: log.Named("settings")}
}

// Current returns the cached snapshot. Before the first successful fetch it
// returns ErrSettingsNotLoaded; callers treat that as "still loading" and
// keep submission disabled.
func (s *SettingsService) Current() (model.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return model.Settings{}, ErrSettingsNotLoaded
	}
	return *s.current, nil
}

// LastUpdated reports when the snapshot was last confirmed.
func (s *SettingsService) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt
}

// Refresh fetches a fresh snapshot from the upstream. On error the previous
// snapshot stays in place.
func (s *SettingsService) Refresh(ctx context.Context) error {
	data, err := s.client.GetSettings(ctx)
	if err != nil {
		s.log.Warn("settings refresh failed", zap.Error(err))
		return err
	}

	settings := &model.Settings{
		StarRateUZS: int64(data.Price),
		PremiumPrices: map[model.PremiumPackage]int64{
			model.Premium3M:  int64(data.Premium3M),
			model.Premium6M:  int64(data.Premium6M),
			model.Premium12M: int64(data.Premium12M),
		},
		TONRate:       float64(data.TONRate),
		ReferralPrice: int64(data.ReferralPrice),
	}

	s.mu.Lock()
	s.current = settings
	s.fetchedAt = time.Now()
	s.mu.Unlock()
	return nil
}

// Run keeps the snapshot fresh on the configured period until ctx ends.
func (s *SettingsService) Run(ctx context.Context) {
	if err := s.Refresh(ctx); err == nil {
		s.log.Info("settings loaded")
	}

	ticker := time.NewTicker(config.SettingsRefreshEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.Refresh(ctx)
		}
	}
}

// Save validates and writes one settings field. The cache is updated only
// after the upstream confirms; a rejected save leaves the old value intact
// and returns the upstream message.
func (s *SettingsService) Save(ctx context.Context, field model.SettingsField, value float64) error {
	if !field.Valid() {
		return ErrUnknownField
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return ErrBadFieldValue
	}
	if field != model.FieldTONRate && value != math.Trunc(value) {
		return ErrBadFieldValue
	}

	var encoded string
	if field == model.FieldTONRate {
		encoded = strconv.FormatFloat(value, 'f', -1, 64)
	} else {
		encoded = strconv.FormatInt(int64(value), 10)
	}

	ok, message, err := s.client.SetData(ctx, string(field), encoded)
	if err != nil {
		return err
	}
	if !ok {
		if message == "" {
			message = "save rejected"
		}
		return errors.New(message)
	}

	// Copy-on-write: snapshots handed out by Current share the price map,
	// so a published snapshot is never mutated in place.
	s.mu.Lock()
	if s.current != nil {
		next := *s.current
		next.PremiumPrices = make(map[model.PremiumPackage]int64, len(s.current.PremiumPrices))
		for pkg, price := range s.current.PremiumPrices {
			next.PremiumPrices[pkg] = price
		}
		switch field {
		case model.FieldStarRate:
			next.StarRateUZS = int64(value)
		case model.FieldPremium3M:
			next.PremiumPrices[model.Premium3M] = int64(value)
		case model.FieldPremium6M:
			next.PremiumPrices[model.Premium6M] = int64(value)
		case model.FieldPremium12M:
			next.PremiumPrices[model.Premium12M] = int64(value)
		case model.FieldTONRate:
			next.TONRate = value
		case model.FieldReferralPrice:
			next.ReferralPrice = int64(value)
		}
		s.current = &next
		s.fetchedAt = time.Now()
	}
	s.mu.Unlock()

	s.log.Info("settings field saved", zap.String("field", string(field)), zap.Float64("value", value))
	return nil
}
