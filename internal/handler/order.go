package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Qodirxon2000aa/bottt/internal/middleware"
	"github.com/Qodirxon2000aa/bottt/internal/model"
	"github.com/Qodirxon2000aa/bottt/internal/service"
)

type createOrderRequest struct {
	Kind      model.OrderKind      `json:"kind"`
	Recipient string               `json:"recipient_username"`
	Stars     int64                `json:"stars"`
	Package   model.PremiumPackage `json:"package"`
	GiftID    int64                `json:"gift_id"`
	GiftPrice int64                `json:"gift_price"`
}

// CreateOrder runs the whole submission path: gate first (recipient
// resolved, amount positive, settings loaded, enough balance), then the
// discriminated submit. Gate failures are 400s with field-level messages
// and never reach the upstream.
func (h *Handler) CreateOrder(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	var body createOrderRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "malformed request body",
		})
	}

	req := model.OrderRequest{
		Kind:              body.Kind,
		RecipientUsername: model.NormalizeUsername(body.Recipient),
		Stars:             body.Stars,
		Package:           body.Package,
		GiftID:            body.GiftID,
		GiftPrice:         body.GiftPrice,
	}

	recipient := h.recipients.Last(user.ID)
	if recipient.Username != req.RecipientUsername {
		// The submitted name was never resolved; force the gate to fail.
		recipient = model.RecipientProfile{Status: model.LookupIdle}
	}

	total, err := h.orders.CheckSubmit(c.Context(), user, req, recipient)
	if err != nil {
		var insufficient *service.InsufficientBalanceError
		switch {
		case errors.As(err, &insufficient):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"ok":    false,
				"error": insufficient.Error(),
				"need":  insufficient.Need,
				"have":  insufficient.Have,
			})
		case errors.Is(err, service.ErrSettingsNotLoaded):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"ok":    false,
				"error": "rates are still loading, try again",
			})
		case errors.Is(err, service.ErrRecipientNotFound),
			errors.Is(err, service.ErrBadAmount),
			errors.Is(err, service.ErrUnknownPackage),
			errors.Is(err, service.ErrUnknownOrderKind):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"ok":    false,
				"error": err.Error(),
			})
		default:
			h.log.Error("submission gate failed", zap.Int64("user_id", user.ID), zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"ok":    false,
				"error": "could not verify the order, try again",
			})
		}
	}

	result := h.orders.Create(c.Context(), user, req)
	if !result.OK {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": result.Message,
		})
	}

	return c.JSON(fiber.Map{
		"ok":                true,
		"total_cost":        total,
		"clear_form":        true,
		"navigate_to":       "/history",
		"navigate_after_ms": result.NavigateAfter.Milliseconds(),
	})
}

// GetReceipt serves the "chek" detail view for one order.
func (h *Handler) GetReceipt(c *fiber.Ctx) error {
	orderID := c.Params("order_id")
	if orderID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "missing order id",
		})
	}

	receipt, err := h.orders.Receipt(c.Context(), orderID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"ok":    false,
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"ok":      true,
		"receipt": receipt,
	})
}
