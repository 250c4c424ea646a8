package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Qodirxon2000aa/bottt/internal/config"
	"github.com/Qodirxon2000aa/bottt/internal/model"
	"github.com/Qodirxon2000aa/bottt/internal/service"
)

type Handler struct {
	cfg         *config.Config
	users       *service.UserService
	recipients  *service.RecipientService
	orders      *service.OrderService
	payments    *service.PaymentService
	settings    *service.SettingsService
	stats       *service.StatsService
	leaderboard *service.LeaderboardService
	deeplinks   *service.DeepLinkService
	log         *zap.Logger
}

func New(
	cfg *config.Config,
	users *service.UserService,
	recipients *service.RecipientService,
	orders *service.OrderService,
	payments *service.PaymentService,
	settings *service.SettingsService,
	stats *service.StatsService,
	leaderboard *service.LeaderboardService,
	deeplinks *service.DeepLinkService,
	log *zap.Logger,
) *Handler {
	return &Handler{
		cfg:         cfg,
		users:       users,
		recipients:  recipients,
		orders:      orders,
		payments:    payments,
		settings:    settings,
		stats:       stats,
		leaderboard: leaderboard,
		deeplinks:   deeplinks,
		log:         log.Named("handler"),
	}
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// GetRates is public: the buy screens need the rate before anything else
// is loaded. While settings are still loading the client gets 503 and keeps
// its submit button disabled.
func (h *Handler) GetRates(c *fiber.Ctx) error {
	settings, err := h.settings.Current()
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"ok":    false,
			"error": "rates are not available yet",
		})
	}
	return c.JSON(fiber.Map{
		"ok":         true,
		"rates":      settings,
		"updated_at": h.settings.LastUpdated().Format(time.RFC3339),
		// clients debounce recipient lookups by this much
		"lookup_debounce_ms": config.LookupDebounce.Milliseconds(),
	})
}

// GetPaymentMethods lists the selectable top-up methods and amount bounds.
func (h *Handler) GetPaymentMethods(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"ok":      true,
		"methods": model.PaymentMethods,
		"min_uzs": model.MinPaymentUZS,
		"max_uzs": model.MaxPaymentUZS,
	})
}
