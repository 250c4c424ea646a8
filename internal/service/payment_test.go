package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qodirxon2000aa/bottt/internal/config"
	"github.com/Qodirxon2000aa/bottt/internal/model"
)

const testWalletAddr = "EQD4FPq-PRD4YtG87wgL7AErgQwHUMFQ-JxyYw8jzBPhqsm3"

func newPaymentFixture(t *testing.T) (*fakeUpstream, *PaymentService) {
	t.Helper()
	fake := newFakeUpstream()
	fake.tonLink = "ton://transfer/" + testWalletAddr + "?amount=500000000"
	client := newTestClient(t, fake)
	users := NewUserService(client, testLogger())
	return fake, NewPaymentService(client, users, testLogger())
}

func TestInitTONAmountBounds(t *testing.T) {
	_, svc := newPaymentFixture(t)
	user := model.User{ID: 42}

	for _, amount := range []int64{0, 500, model.MinPaymentUZS - 1, model.MaxPaymentUZS + 1} {
		_, err := svc.InitTON(context.Background(), user, amount)
		assert.ErrorIs(t, err, ErrAmountOutOfRange, "amount=%d", amount)
	}
}

func TestInitTONWithoutIdentity(t *testing.T) {
	_, svc := newPaymentFixture(t)

	_, err := svc.InitTON(context.Background(), model.User{}, 50_000)
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestInitTONOpensPendingSession(t *testing.T) {
	fake, svc := newPaymentFixture(t)

	view, err := svc.InitTON(context.Background(), model.User{ID: 42}, 50_000)
	require.NoError(t, err)
	assert.Equal(t, "p-1", view.PaymentID)
	assert.Equal(t, int64(50_000), view.AmountUZS)
	assert.Equal(t, "0.5", view.AmountTON)
	assert.Equal(t, fake.tonLink, view.PaymentLink)
	assert.Equal(t, model.StatusPending, view.Status)
	assert.False(t, view.Paid)

	// the first status poll happens on init, not a watcher tick later
	assert.Equal(t, 1, fake.hitCount("/payments/ton_status.php"))
}

func TestInitTONRejectsBrokenLink(t *testing.T) {
	fake, svc := newPaymentFixture(t)
	fake.tonLink = "https://example.com/pay/123"

	_, err := svc.InitTON(context.Background(), model.User{ID: 42}, 50_000)
	assert.Error(t, err)
}

func TestStatusPollsUntilPaidThenStops(t *testing.T) {
	fake, svc := newPaymentFixture(t)
	fake.tonStatuses = []string{"pending", "paid"}

	_, err := svc.InitTON(context.Background(), model.User{ID: 42}, 50_000)
	require.NoError(t, err)
	require.Equal(t, 1, fake.hitCount("/payments/ton_status.php"))

	view, err := svc.Status(context.Background(), "p-1")
	require.NoError(t, err)
	assert.True(t, view.Paid)
	assert.Equal(t, model.StatusCompleted, view.Status)
	assert.Equal(t, 2, fake.hitCount("/payments/ton_status.php"))

	// a paid session is never polled again
	for i := 0; i < 3; i++ {
		view, err = svc.Status(context.Background(), "p-1")
		require.NoError(t, err)
		assert.True(t, view.Paid)
	}
	assert.Equal(t, 2, fake.hitCount("/payments/ton_status.php"))
	assert.Empty(t, svc.Pending())
}

func TestStalePendingNeverRegressesPaid(t *testing.T) {
	session := &TonSession{PaymentID: "p-9"}

	session.applyStatus("paid", nil)
	require.True(t, session.Paid())

	session.applyStatus("pending", nil)
	assert.True(t, session.Paid())
	assert.Equal(t, model.StatusCompleted, session.View().Status)
}

func TestPaidTransitionFiresOnce(t *testing.T) {
	session := &TonSession{PaymentID: "p-9"}

	fired := 0
	onPaid := func(*TonSession) { fired++ }
	session.applyStatus("paid", onPaid)
	session.applyStatus("paid", onPaid)
	session.applyStatus("paid", onPaid)

	assert.Equal(t, 1, fired)
}

func TestRedirectWaitsForDisplayDelay(t *testing.T) {
	session := &TonSession{PaymentID: "p-9"}
	session.applyStatus("paid", nil)

	assert.False(t, session.consumeRedirect(config.TonRedirectDelay))
}

func TestRedirectIssuedExactlyOnce(t *testing.T) {
	fake, svc := newPaymentFixture(t)
	fake.tonStatuses = []string{"paid"}

	_, err := svc.InitTON(context.Background(), model.User{ID: 42}, 50_000)
	require.NoError(t, err)

	session := svc.session("p-1")
	require.NotNil(t, session)
	require.True(t, session.Paid())

	session.mu.Lock()
	session.paidAt = time.Now().Add(-2 * config.TonRedirectDelay)
	session.mu.Unlock()

	view, err := svc.Status(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, config.TonRedirectPath, view.RedirectTo)

	view, err = svc.Status(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Empty(t, view.RedirectTo)
}

func TestStatusUnknownSession(t *testing.T) {
	_, svc := newPaymentFixture(t)

	_, err := svc.Status(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestWatcherStopsOnCancel(t *testing.T) {
	_, svc := newPaymentFixture(t)
	watcher := NewTonWatcher(svc, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		watcher.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop on context cancellation")
	}
}
