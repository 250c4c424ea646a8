package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qodirxon2000aa/bottt/internal/model"
)

func newSettingsFixture(t *testing.T) (*fakeUpstream, *SettingsService) {
	t.Helper()
	fake := newFakeUpstream()
	client := newTestClient(t, fake)
	return fake, NewSettingsService(client, testLogger())
}

func TestCurrentBeforeFirstFetch(t *testing.T) {
	_, svc := newSettingsFixture(t)

	_, err := svc.Current()
	assert.ErrorIs(t, err, ErrSettingsNotLoaded)
	assert.True(t, svc.LastUpdated().IsZero())
}

func TestRefreshPopulatesSnapshot(t *testing.T) {
	_, svc := newSettingsFixture(t)
	require.NoError(t, svc.Refresh(context.Background()))

	settings, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, int64(1_500), settings.StarRateUZS)
	assert.Equal(t, int64(165_000), settings.PremiumPrices[model.Premium3M])
	assert.Equal(t, int64(295_000), settings.PremiumPrices[model.Premium12M])
	assert.InDelta(t, 41_200, settings.TONRate, 0.001)
	assert.False(t, svc.LastUpdated().IsZero())
}

func TestSaveValidation(t *testing.T) {
	fake, svc := newSettingsFixture(t)

	tests := []struct {
		name  string
		field model.SettingsField
		value float64
		want  error
	}{
		{"nan", model.FieldStarRate, math.NaN(), ErrBadFieldValue},
		{"inf", model.FieldStarRate, math.Inf(1), ErrBadFieldValue},
		{"negative", model.FieldStarRate, -1, ErrBadFieldValue},
		{"fractional rate", model.FieldStarRate, 1_500.5, ErrBadFieldValue},
		{"fractional premium price", model.FieldPremium3M, 165_000.5, ErrBadFieldValue},
		{"unknown field", model.SettingsField("bogus"), 10, ErrUnknownField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Save(context.Background(), tt.field, tt.value)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	// rejected input never reaches the upstream
	assert.Zero(t, fake.hitCount("/setdata.php"))
}

func TestSaveRejectedKeepsOldValue(t *testing.T) {
	fake, svc := newSettingsFixture(t)
	require.NoError(t, svc.Refresh(context.Background()))
	fake.setDataOK = false
	fake.setDataMsg = "Qiymat noto'g'ri"

	err := svc.Save(context.Background(), model.FieldStarRate, 2_000)
	require.Error(t, err)
	assert.Equal(t, "Qiymat noto'g'ri", err.Error())

	settings, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, int64(1_500), settings.StarRateUZS)
}

func TestSaveConfirmedUpdatesCache(t *testing.T) {
	_, svc := newSettingsFixture(t)
	require.NoError(t, svc.Refresh(context.Background()))

	require.NoError(t, svc.Save(context.Background(), model.FieldStarRate, 2_000))
	require.NoError(t, svc.Save(context.Background(), model.FieldPremium6M, 240_000))
	require.NoError(t, svc.Save(context.Background(), model.FieldTONRate, 39_950.5))

	settings, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, int64(2_000), settings.StarRateUZS)
	assert.Equal(t, int64(240_000), settings.PremiumPrices[model.Premium6M])
	assert.InDelta(t, 39_950.5, settings.TONRate, 0.001)
}

func TestSaveDoesNotMutatePublishedSnapshot(t *testing.T) {
	_, svc := newSettingsFixture(t)
	require.NoError(t, svc.Refresh(context.Background()))

	before, err := svc.Current()
	require.NoError(t, err)

	require.NoError(t, svc.Save(context.Background(), model.FieldPremium3M, 170_000))

	assert.Equal(t, int64(165_000), before.PremiumPrices[model.Premium3M])

	after, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, int64(170_000), after.PremiumPrices[model.Premium3M])
}

func TestRefreshFailureKeepsSnapshot(t *testing.T) {
	_, svc := newSettingsFixture(t)
	require.NoError(t, svc.Refresh(context.Background()))

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, svc.Refresh(cancelled))

	settings, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, int64(1_500), settings.StarRateUZS)
}
