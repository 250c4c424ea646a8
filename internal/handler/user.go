package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Qodirxon2000aa/bottt/internal/middleware"
	"github.com/Qodirxon2000aa/bottt/internal/model"
	"github.com/Qodirxon2000aa/bottt/internal/service"
)

// GetMe returns the session identity with the backend-authoritative
// snapshot: balance, orders, payments.
func (h *Handler) GetMe(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	if user.ID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	snap, err := h.users.Snapshot(c.Context(), user)
	if err != nil {
		h.log.Error("snapshot fetch failed", zap.Int64("user_id", user.ID), zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"ok":    false,
			"error": "could not load account data",
		})
	}

	return c.JSON(fiber.Map{
		"ok":           true,
		"user":         snap.User,
		"display_name": snap.User.DisplayName(),
		"balance":      snap.Balance,
		"orders":       snap.Orders,
		"payments":     snap.Payments,
	})
}

// RefreshMe forces a full re-fetch, the pull-to-refresh equivalent.
func (h *Handler) RefreshMe(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	snap, err := h.users.Refresh(c.Context(), user)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"ok":    false,
			"error": "could not refresh account data",
		})
	}
	return c.JSON(fiber.Map{
		"ok":       true,
		"balance":  snap.Balance,
		"orders":   snap.Orders,
		"payments": snap.Payments,
	})
}

// CheckRecipient resolves a username for the recipient preview card. With
// self=1 it resolves the caller's own username, the "buy for myself" shortcut.
func (h *Handler) CheckRecipient(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	raw := c.Query("username")
	if c.QueryBool("self") {
		raw = user.Username
	}

	profile, err := h.recipients.Check(c.Context(), user.ID, raw)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"ok":    false,
			"error": "lookup failed, try again",
		})
	}
	return c.JSON(fiber.Map{
		"ok":      true,
		"profile": profile,
	})
}

// GetHistory returns order history filtered by normalized status bucket.
func (h *Handler) GetHistory(c *fiber.Ctx) error {
	return h.history(c, func(snap model.Snapshot) []model.HistoryRecord { return snap.Orders })
}

// GetPayments returns payment history with the same filter contract.
func (h *Handler) GetPayments(c *fiber.Ctx) error {
	return h.history(c, func(snap model.Snapshot) []model.HistoryRecord { return snap.Payments })
}

func (h *Handler) history(c *fiber.Ctx, pick func(model.Snapshot) []model.HistoryRecord) error {
	user := middleware.GetUser(c)
	snap, err := h.users.Snapshot(c.Context(), user)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"ok":    false,
			"error": "could not load history",
		})
	}

	filter := c.Query("filter", "all")
	bucket := model.Status("")
	if filter != "all" && filter != "" {
		bucket = model.NormalizeStatus(filter)
	}

	return c.JSON(fiber.Map{
		"ok":      true,
		"filter":  filter,
		"records": service.FilterHistory(pick(snap), bucket),
	})
}

// ResolveStart maps the deep-link launch parameter to a client route,
// at most once per parameter.
func (h *Handler) ResolveStart(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	param := c.Query("param")
	if param == "" {
		param = middleware.GetStartParam(c)
	}

	route, ok := h.deeplinks.Resolve(user.ID, param)
	return c.JSON(fiber.Map{
		"ok":    true,
		"route": route,
		"found": ok,
	})
}
