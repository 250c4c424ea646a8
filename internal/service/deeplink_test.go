package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qodirxon2000aa/bottt/internal/model"
)

func TestResolveRoutes(t *testing.T) {
	tests := []struct {
		param string
		route string
		ok    bool
	}{
		{"chek", "/chek", true},
		{"chek_id=38", "/order/38", true},
		{"order_38", "/order/38", true},
		{"order_", "", false},
		{"chek_id=", "", false},
		{"", "", false},
		{"ref_12345", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			svc := NewDeepLinkService()
			route, ok := svc.Resolve(42, tt.param)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.route, route)
		})
	}
}

func TestResolveOncePerParam(t *testing.T) {
	svc := NewDeepLinkService()

	route, ok := svc.Resolve(42, "order_38")
	require.True(t, ok)
	assert.Equal(t, "/order/38", route)

	_, ok = svc.Resolve(42, "order_38")
	assert.False(t, ok)

	// a different parameter resolves again
	route, ok = svc.Resolve(42, "order_39")
	require.True(t, ok)
	assert.Equal(t, "/order/39", route)

	// and the same parameter is fresh for another user
	route, ok = svc.Resolve(43, "order_38")
	require.True(t, ok)
	assert.Equal(t, "/order/38", route)
}

func TestAggregateStats(t *testing.T) {
	fake := newFakeUpstream()
	client := newTestClient(t, fake)
	svc := NewStatsService(client, testLogger())

	stats, err := svc.Aggregate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(120), stats.UsersTotal)
	assert.Equal(t, int64(5), stats.UsersToday)
	assert.Equal(t, int64(9_000), stats.StarsSold)
	assert.Equal(t, int64(450_000), stats.TurnoverToday)
	assert.Equal(t, "01.01.2026", stats.Date)
}

func TestHistoryFilterBuckets(t *testing.T) {
	records := []model.HistoryRecord{
		{OrderID: "1", Status: model.StatusCompleted},
		{OrderID: "2", Status: model.StatusPending},
		{OrderID: "3", Status: model.StatusCancelled},
		{OrderID: "4", Status: model.StatusCompleted},
	}

	all := FilterHistory(records, "")
	assert.Len(t, all, 4)

	completed := FilterHistory(records, model.StatusCompleted)
	require.Len(t, completed, 2)
	assert.Equal(t, "1", completed[0].OrderID)
	assert.Equal(t, "4", completed[1].OrderID)

	assert.Empty(t, FilterHistory(records, model.StatusFailed))
}
