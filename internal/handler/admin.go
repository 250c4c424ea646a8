package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Qodirxon2000aa/bottt/internal/model"
	"github.com/Qodirxon2000aa/bottt/internal/service"
)

// GetAdminStats serves the aggregates card. Statistics failing must not
// block the rate editor, so errors degrade to an ok:false section instead
// of an HTTP failure.
func (h *Handler) GetAdminStats(c *fiber.Ctx) error {
	stats, err := h.stats.Aggregate(c.Context())
	if err != nil {
		h.log.Warn("statistics fetch failed", zap.Error(err))
		return c.JSON(fiber.Map{
			"ok":    false,
			"error": "statistics are unavailable",
			"stats": model.Statistics{},
		})
	}
	return c.JSON(fiber.Map{
		"ok":    true,
		"stats": stats,
	})
}

// GetAdminSettings returns the editable fields with the snapshot age.
func (h *Handler) GetAdminSettings(c *fiber.Ctx) error {
	settings, err := h.settings.Current()
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"ok":    false,
			"error": "settings are not loaded yet",
		})
	}
	return c.JSON(fiber.Map{
		"ok":         true,
		"settings":   settings,
		"updated_at": h.settings.LastUpdated().Format(time.RFC3339),
	})
}

type saveSettingRequest struct {
	Value float64 `json:"value"`
}

// SaveAdminSetting writes one field. Each field saves independently; a
// rejected save leaves the previous value on screen and surfaces the
// upstream message next to that field only.
func (h *Handler) SaveAdminSetting(c *fiber.Ctx) error {
	field := model.SettingsField(c.Params("field"))
	if !field.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "unknown settings field",
		})
	}

	var body saveSettingRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "malformed request body",
		})
	}

	if err := h.settings.Save(c.Context(), field, body.Value); err != nil {
		status := fiber.StatusBadRequest
		if !errors.Is(err, service.ErrBadFieldValue) && !errors.Is(err, service.ErrUnknownField) {
			status = fiber.StatusBadGateway
		}
		return c.Status(status).JSON(fiber.Map{
			"ok":    false,
			"field": string(field),
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"ok":    true,
		"field": string(field),
		"value": body.Value,
	})
}

// GetLeaderboard serves the weekly top list.
func (h *Handler) GetLeaderboard(c *fiber.Ctx) error {
	entries, err := h.leaderboard.Weekly(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"ok":    false,
			"error": "leaderboard is unavailable",
		})
	}
	return c.JSON(fiber.Map{
		"ok":    true,
		"top10": entries,
	})
}
