package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Qodirxon2000aa/bottt/internal/middleware"
	"github.com/Qodirxon2000aa/bottt/internal/service"
)

type initTONRequest struct {
	Amount int64 `json:"amount"`
}

// InitTONPayment opens a TON payment session. The response carries the
// validated wallet deep link the client opens via the host bridge.
func (h *Handler) InitTONPayment(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	var body initTONRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "malformed request body",
		})
	}

	view, err := h.payments.InitTON(c.Context(), user, body.Amount)
	if err != nil {
		if errors.Is(err, service.ErrAmountOutOfRange) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"ok":    false,
				"error": err.Error(),
			})
		}
		h.log.Error("ton init failed", zap.Int64("user_id", user.ID), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"ok":    false,
			"error": "could not start the payment",
		})
	}

	return c.JSON(fiber.Map{
		"ok":      true,
		"payment": view,
	})
}

// GetTONStatus is what the status screen polls. Missing parameters are an
// immediate error with no polling; after the paid transition the response
// carries the one-shot redirect directive.
func (h *Handler) GetTONStatus(c *fiber.Ctx) error {
	paymentID := c.Query("payment_id")
	if paymentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "missing payment_id",
		})
	}

	view, err := h.payments.Status(c.Context(), paymentID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"ok":    false,
				"error": "payment session not found",
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"ok":    false,
			"error": "could not check the payment",
		})
	}

	return c.JSON(fiber.Map{
		"ok":      true,
		"payment": view,
	})
}
