package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Qodirxon2000aa/bottt/internal/config"
	"github.com/Qodirxon2000aa/bottt/internal/model"
	"github.com/Qodirxon2000aa/bottt/internal/ton"
	"github.com/Qodirxon2000aa/bottt/internal/upstream"
)

var (
	ErrSessionNotFound  = errors.New("payment session not found")
	ErrAmountOutOfRange = fmt.Errorf("amount must be between %d and %d UZS", model.MinPaymentUZS, model.MaxPaymentUZS)
)

// TonSession is one TON payment being watched. pending -> paid is the only
// transition and it is irreversible; there is deliberately no failed or
// expired state, matching the upstream's contract.
type TonSession struct {
	SessionID string
	PaymentID string
	UserID    int64
	AmountUZS int64
	AmountTON string
	Link      string

	mu           sync.Mutex
	rawStatus    string
	paid         bool
	paidAt       time.Time
	redirectDone bool
	paidOnce     sync.Once
}

// applyStatus records an upstream status response. Display status follows
// whatever the upstream said, but only the literal "paid" transitions the
// session, exactly once; responses arriving after the transition are
// ignored so a stale "pending" can never regress a paid session.
func (s *TonSession) applyStatus(raw string, onPaid func(*TonSession)) {
	s.mu.Lock()
	if s.paid {
		s.mu.Unlock()
		return
	}
	s.rawStatus = raw
	s.mu.Unlock()

	if raw == "paid" {
		s.paidOnce.Do(func() {
			s.mu.Lock()
			s.paid = true
			s.paidAt = time.Now()
			s.mu.Unlock()
			if onPaid != nil {
				onPaid(s)
			}
		})
	}
}

// Paid reports whether the session reached its terminal state.
func (s *TonSession) Paid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paid
}

// consumeRedirect returns true exactly once per session, and only after the
// paid confirmation has been on screen for the display delay.
func (s *TonSession) consumeRedirect(delay time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.paid || s.redirectDone || time.Since(s.paidAt) < delay {
		return false
	}
	s.redirectDone = true
	return true
}

// View renders the client-facing state.
func (s *TonSession) View() model.TONPaymentView {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := model.StatusPending
	if s.paid {
		status = model.StatusCompleted
	}
	return model.TONPaymentView{
		SessionID:   s.SessionID,
		PaymentID:   s.PaymentID,
		AmountUZS:   s.AmountUZS,
		AmountTON:   s.AmountTON,
		PaymentLink: s.Link,
		Status:      status,
		RawStatus:   s.rawStatus,
		Paid:        s.paid,
	}
}

// PaymentService creates TON payment sessions against the upstream and
// serves their state to the status screen.
type PaymentService struct {
	client   *upstream.Client
	users    *UserService
	log      *zap.Logger
	notifier Notifier

	mu       sync.RWMutex
	sessions map[string]*TonSession
}

func NewPaymentService(client *upstream.Client, users *UserService, log *zap.Logger) *PaymentService {
	return &PaymentService{
		client:   client,
		users:    users,
		log:      log.Named("payment"),
		sessions: make(map[string]*TonSession),
	}
}

func (s *PaymentService) SetNotifier(n Notifier) {
	s.notifier = n
}

// InitTON creates an upstream TON payment and registers a session for it.
// The returned wallet deep link is validated before it reaches a client.
func (s *PaymentService) InitTON(ctx context.Context, user model.User, amountUZS int64) (model.TONPaymentView, error) {
	if user.ID == 0 {
		return model.TONPaymentView{}, ErrNoIdentity
	}
	if amountUZS < model.MinPaymentUZS || amountUZS > model.MaxPaymentUZS {
		return model.TONPaymentView{}, ErrAmountOutOfRange
	}

	data, err := s.client.InitTonPay(ctx, user.ID, amountUZS)
	if err != nil {
		return model.TONPaymentView{}, err
	}
	if data.PaymentID == "" {
		return model.TONPaymentView{}, errors.New("upstream returned no payment id")
	}

	transfer, err := ton.ParseTransferLink(data.Link)
	if err != nil {
		return model.TONPaymentView{}, fmt.Errorf("upstream payment link rejected: %w", err)
	}
	if !transfer.AmountMatches(float64(data.TON)) {
		s.log.Warn("payment link amount differs from quoted TON amount",
			zap.String("payment_id", data.PaymentID),
			zap.Float64("quoted_ton", float64(data.TON)),
			zap.String("link_ton", transfer.AmountTON()))
	}

	session := &TonSession{
		SessionID: uuid.NewString(),
		PaymentID: data.PaymentID,
		UserID:    user.ID,
		AmountUZS: int64(data.Sum),
		AmountTON: transfer.AmountTON(),
		Link:      data.Link,
		rawStatus: "pending",
	}

	s.mu.Lock()
	s.sessions[session.PaymentID] = session
	s.mu.Unlock()

	s.log.Info("ton payment session opened",
		zap.String("payment_id", session.PaymentID),
		zap.Int64("user_id", user.ID),
		zap.Int64("amount_uzs", session.AmountUZS),
		zap.String("amount_ton", session.AmountTON))

	// First poll happens immediately, not a watcher tick later.
	s.pollSession(ctx, session)

	return session.View(), nil
}

// Status returns the session state and polls the upstream once on behalf of
// the caller while the session is still pending. After the transition the
// view carries the one-shot redirect directive once the display delay has
// passed.
func (s *PaymentService) Status(ctx context.Context, paymentID string) (model.TONPaymentView, error) {
	session := s.session(paymentID)
	if session == nil {
		return model.TONPaymentView{}, ErrSessionNotFound
	}

	if !session.Paid() {
		s.pollSession(ctx, session)
	}

	view := session.View()
	if session.consumeRedirect(config.TonRedirectDelay) {
		view.RedirectTo = config.TonRedirectPath
	}
	return view, nil
}

// Pending snapshots the sessions still awaiting payment, for the watcher.
func (s *PaymentService) Pending() []*TonSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*TonSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		if !session.Paid() {
			out = append(out, session)
		}
	}
	return out
}

func (s *PaymentService) session(paymentID string) *TonSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[paymentID]
}

// pollSession asks the upstream for the payment status and applies it.
// Transport errors leave the session untouched; the next tick retries.
func (s *PaymentService) pollSession(ctx context.Context, session *TonSession) {
	raw, err := s.client.TonStatus(ctx, session.PaymentID)
	if err != nil {
		s.log.Debug("ton status poll failed",
			zap.String("payment_id", session.PaymentID), zap.Error(err))
		return
	}
	session.applyStatus(raw, s.onPaid)
}

func (s *PaymentService) onPaid(session *TonSession) {
	s.log.Info("ton payment confirmed",
		zap.String("payment_id", session.PaymentID),
		zap.Int64("user_id", session.UserID))

	user := model.User{ID: session.UserID, IsTelegramOrigin: true}
	if _, err := s.users.Refresh(context.Background(), user); err != nil {
		s.log.Warn("post-payment refresh failed", zap.Int64("user_id", session.UserID), zap.Error(err))
	}

	if s.notifier != nil {
		if err := s.notifier.SendTONPaid(session.UserID, session.AmountUZS, session.AmountTON); err != nil {
			s.log.Warn("payment notification failed", zap.Int64("user_id", session.UserID), zap.Error(err))
		}
	}
}
