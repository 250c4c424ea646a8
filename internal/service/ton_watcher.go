package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Qodirxon2000aa/bottt/internal/config"
)

// TonWatcher drives the background polling cadence for pending TON payment
// sessions. A session that reaches "paid" drops out of the pending set and
// is never polled again; sessions that never reach it stay pending for the
// life of the process, since the upstream models no expiry.
type TonWatcher struct {
	payments *PaymentService
	log      *zap.Logger
}

func NewTonWatcher(payments *PaymentService, log *zap.Logger) *TonWatcher {
	return &TonWatcher{payments: payments, log: log.Named("ton_watcher")}
}

// Start polls every pending session on a fixed interval until ctx ends.
// Shutdown is unconditional: cancellation stops the ticker no matter what
// state the sessions are in.
func (w *TonWatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(config.TonPollInterval)
	defer ticker.Stop()

	w.log.Info("started", zap.Duration("interval", config.TonPollInterval))

	for {
		select {
		case <-ctx.Done():
			w.log.Info("stopped")
			return
		case <-ticker.C:
			for _, session := range w.payments.Pending() {
				w.payments.pollSession(ctx, session)
			}
		}
	}
}
