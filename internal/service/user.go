package service

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Qodirxon2000aa/bottt/internal/model"
	"github.com/Qodirxon2000aa/bottt/internal/upstream"
)

// UserService keeps one backend-authoritative snapshot per user: balance,
// order history and payment history. A snapshot is only ever replaced by a
// full re-fetch; nothing here mutates balance locally after a write.
type UserService struct {
	client *upstream.Client
	log    *zap.Logger

	mu        sync.RWMutex
	snapshots map[int64]*model.Snapshot
}

func NewUserService(client *upstream.Client, log *zap.Logger) *UserService {
	return &UserService{
		client:    client,
		log:       log.Named("user"),
		snapshots: make(map[int64]*model.Snapshot),
	}
}

// Snapshot returns the cached snapshot, fetching it on first touch.
func (s *UserService) Snapshot(ctx context.Context, user model.User) (model.Snapshot, error) {
	s.mu.RLock()
	cached, ok := s.snapshots[user.ID]
	s.mu.RUnlock()
	if ok {
		return *cached, nil
	}
	return s.Refresh(ctx, user)
}

// Balance returns the cached balance, fetching the snapshot if needed.
func (s *UserService) Balance(ctx context.Context, user model.User) (int64, error) {
	snap, err := s.Snapshot(ctx, user)
	if err != nil {
		return 0, err
	}
	return snap.Balance, nil
}

// Refresh re-fetches balance, orders and payments. Partial failures degrade
// per section: a dead history endpoint still leaves a usable balance.
func (s *UserService) Refresh(ctx context.Context, user model.User) (model.Snapshot, error) {
	data, err := s.client.GetUser(ctx, user.ID)
	if err != nil {
		return model.Snapshot{}, err
	}

	snap := &model.Snapshot{
		User:    user,
		Balance: int64(data.Balance),
	}

	if rows, err := s.client.GetOrders(ctx, user.ID); err != nil {
		s.log.Warn("orders fetch failed", zap.Int64("user_id", user.ID), zap.Error(err))
		snap.Orders = []model.HistoryRecord{}
	} else {
		snap.Orders = toHistory(rows)
	}

	if rows, err := s.client.GetPayments(ctx, user.ID); err != nil {
		s.log.Warn("payments fetch failed", zap.Int64("user_id", user.ID), zap.Error(err))
		snap.Payments = []model.HistoryRecord{}
	} else {
		snap.Payments = toHistory(rows)
	}

	s.mu.Lock()
	s.snapshots[user.ID] = snap
	s.mu.Unlock()
	return *snap, nil
}

// FilterHistory returns records matching a normalized status bucket; the
// "all" filter (empty bucket) passes everything through.
func FilterHistory(records []model.HistoryRecord, bucket model.Status) []model.HistoryRecord {
	if bucket == "" {
		return records
	}
	out := make([]model.HistoryRecord, 0, len(records))
	for _, r := range records {
		if r.Status == bucket {
			out = append(out, r)
		}
	}
	return out
}

func toHistory(rows []upstream.OrderRow) []model.HistoryRecord {
	out := make([]model.HistoryRecord, 0, len(rows))
	for _, row := range rows {
		ts, known := model.ParseBackendDate(row.Date)
		out = append(out, model.HistoryRecord{
			OrderID:     strconv.FormatInt(int64(row.ID), 10),
			Type:        orderKind(row.Type),
			Amount:      int64(row.Amount),
			TotalCost:   int64(row.Umumiy),
			Status:      model.NormalizeStatus(row.Status),
			RawStatus:   row.Status,
			Timestamp:   ts,
			DateKnown:   known,
			PaymentLink: row.Link,
			Recipient:   strings.TrimPrefix(row.Sent, "@"),
		})
	}
	return out
}

func orderKind(raw string) model.OrderKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "premium":
		return model.OrderKindPremium
	case "gift":
		return model.OrderKindGift
	default:
		return model.OrderKindStars
	}
}
