package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Qodirxon2000aa/bottt/internal/config"
	"github.com/Qodirxon2000aa/bottt/internal/model"
	"github.com/Qodirxon2000aa/bottt/internal/upstream"
)

var (
	ErrNoIdentity        = errors.New("user identity is missing")
	ErrRecipientNotFound = errors.New("recipient is not resolved")
	ErrBadAmount         = errors.New("amount must be positive")
	ErrUnknownOrderKind  = errors.New("unknown order kind")
	ErrUnknownPackage    = errors.New("unknown premium package")
)

// InsufficientBalanceError carries both figures so the UI can state what is
// needed and what is available.
type InsufficientBalanceError struct {
	Need int64
	Have int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: need %d, have %d", e.Need, e.Have)
}

// Notifier pushes order confirmations to the user's Telegram chat.
// Implemented by telegram.Bot.
type Notifier interface {
	SendOrderCreated(chatID int64, kind model.OrderKind, recipient string, amount, totalCost int64) error
	SendTONPaid(chatID int64, amountUZS int64, amountTON string) error
}

// OrderService owns cost computation, the submission gate and the single
// discriminated submit path for all three order kinds.
type OrderService struct {
	client   *upstream.Client
	users    *UserService
	settings *SettingsService
	log      *zap.Logger
	notifier Notifier
}

func NewOrderService(client *upstream.Client, users *UserService, settings *SettingsService, log *zap.Logger) *OrderService {
	return &OrderService{
		client:   client,
		users:    users,
		settings: settings,
		log:      log.Named("order"),
	}
}

// SetNotifier wires the bot after construction, the bot being optional.
func (s *OrderService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Quote computes the total cost of a request in UZS. Stars cost is exact
// integer stars*rate; premium cost comes straight from the package price
// table and is never derived from the flat rate; gifts carry their price.
func (s *OrderService) Quote(req model.OrderRequest) (int64, error) {
	switch req.Kind {
	case model.OrderKindStars:
		if req.Stars <= 0 {
			return 0, ErrBadAmount
		}
		settings, err := s.settings.Current()
		if err != nil {
			return 0, err
		}
		return req.Stars * settings.StarRateUZS, nil

	case model.OrderKindPremium:
		if !req.Package.Valid() {
			return 0, ErrUnknownPackage
		}
		settings, err := s.settings.Current()
		if err != nil {
			return 0, err
		}
		return settings.PremiumPrices[req.Package], nil

	case model.OrderKindGift:
		if req.GiftPrice <= 0 {
			return 0, ErrBadAmount
		}
		return req.GiftPrice, nil

	default:
		return 0, ErrUnknownOrderKind
	}
}

// CheckSubmit is the submission gate: recipient resolved, positive amount,
// settings loaded, enough balance. It returns the computed total so callers
// show the quote they were gated on.
func (s *OrderService) CheckSubmit(ctx context.Context, user model.User, req model.OrderRequest, recipient model.RecipientProfile) (int64, error) {
	if recipient.Status != model.LookupFound {
		return 0, ErrRecipientNotFound
	}
	if req.Kind == model.OrderKindStars && req.Stars <= 0 {
		return 0, ErrBadAmount
	}

	total, err := s.Quote(req)
	if err != nil {
		return 0, err
	}

	balance, err := s.users.Balance(ctx, user)
	if err != nil {
		return 0, err
	}
	if balance < total {
		return total, &InsufficientBalanceError{Need: total, Have: balance}
	}
	return total, nil
}

// Create submits an order whose preconditions the caller has already
// checked. It does not re-validate balance; it does fail soft when the
// identity is missing. On upstream success the user snapshot is re-fetched
// in full, because the backend is authoritative for the post-order balance.
func (s *OrderService) Create(ctx context.Context, user model.User, req model.OrderRequest) model.OrderResult {
	if user.ID == 0 {
		return model.OrderResult{OK: false, Message: ErrNoIdentity.Error()}
	}

	total, err := s.Quote(req)
	if err != nil {
		return model.OrderResult{OK: false, Message: err.Error()}
	}

	submissionID := uuid.NewString()
	recipient := model.NormalizeUsername(req.RecipientUsername)

	var (
		ok      bool
		message string
	)
	switch req.Kind {
	case model.OrderKindStars:
		ok, message, err = s.client.CreateOrder(ctx, user.ID, req.Stars, recipient, string(model.OrderKindStars), total)
	case model.OrderKindPremium:
		ok, message, err = s.client.CreatePremium(ctx, user.ID, model.PremiumStars[req.Package], recipient, total)
	case model.OrderKindGift:
		ok, message, err = s.client.CreateGift(ctx, user.ID, req.GiftID, recipient)
	default:
		return model.OrderResult{OK: false, Message: ErrUnknownOrderKind.Error()}
	}

	if err != nil {
		s.log.Error("order submit failed",
			zap.String("submission_id", submissionID),
			zap.String("kind", string(req.Kind)),
			zap.Int64("user_id", user.ID),
			zap.Error(err))
		return model.OrderResult{OK: false, Message: "order could not be submitted"}
	}
	if !ok {
		if message == "" {
			message = "order was rejected"
		}
		return model.OrderResult{OK: false, Message: message}
	}

	if _, err := s.users.Refresh(ctx, user); err != nil {
		s.log.Warn("post-order refresh failed", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	if s.notifier != nil {
		amount := req.Stars
		if req.Kind == model.OrderKindPremium {
			amount = model.PremiumStars[req.Package]
		}
		if err := s.notifier.SendOrderCreated(user.ID, req.Kind, recipient, amount, total); err != nil {
			s.log.Warn("order notification failed", zap.Int64("user_id", user.ID), zap.Error(err))
		}
	}

	s.log.Info("order created",
		zap.String("submission_id", submissionID),
		zap.String("kind", string(req.Kind)),
		zap.Int64("user_id", user.ID),
		zap.String("recipient", recipient),
		zap.Int64("total_cost", total))

	return model.OrderResult{
		OK:            true,
		TotalCost:     total,
		NavigateAfter: config.NavigateAfterSuccess,
	}
}

// Receipt fetches one order for the receipt view.
func (s *OrderService) Receipt(ctx context.Context, orderID string) (*model.Receipt, error) {
	row, message, err := s.client.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		if message == "" {
			message = "order not found"
		}
		return nil, errors.New(message)
	}

	ts, known := model.ParseBackendDate(row.Date)
	return &model.Receipt{
		OrderID:   fmt.Sprintf("%d", int64(row.ID)),
		Recipient: model.NormalizeUsername(row.Sent),
		Stars:     int64(row.Amount),
		TotalCost: int64(row.Umumiy),
		Status:    model.NormalizeStatus(row.Status),
		Timestamp: ts,
		DateKnown: known,
	}, nil
}
