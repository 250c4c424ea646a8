package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/Qodirxon2000aa/bottt/internal/config"
	"github.com/Qodirxon2000aa/bottt/internal/handler"
	"github.com/Qodirxon2000aa/bottt/internal/middleware"
	"github.com/Qodirxon2000aa/bottt/internal/service"
	"github.com/Qodirxon2000aa/bottt/internal/telegram"
	"github.com/Qodirxon2000aa/bottt/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := newLogger(cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	client := upstream.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)

	// Services
	settingsSvc := service.NewSettingsService(client, zlog)
	userSvc := service.NewUserService(client, zlog)
	recipientSvc := service.NewRecipientService(client, zlog)
	orderSvc := service.NewOrderService(client, userSvc, settingsSvc, zlog)
	paymentSvc := service.NewPaymentService(client, userSvc, zlog)
	statsSvc := service.NewStatsService(client, zlog)
	leaderboardSvc := service.NewLeaderboardService(client, zlog)
	deeplinkSvc := service.NewDeepLinkService()

	// Telegram bot (optional: the API works without it)
	var bot *telegram.Bot
	if cfg.Telegram.BotToken != "" {
		bot, err = telegram.NewBot(cfg, zlog)
		if err != nil {
			zlog.Warn("telegram bot unavailable", zap.Error(err))
		} else {
			orderSvc.SetNotifier(bot)
			paymentSvc.SetNotifier(bot)
			zlog.Info("telegram bot initialized", zap.String("username", bot.Username()))
		}
	}

	h := handler.New(cfg, userSvc, recipientSvc, orderSvc, paymentSvc, settingsSvc, statsSvc, leaderboardSvc, deeplinkSvc, zlog)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Telegram-Init-Data",
	}))

	app.Get("/health", h.Health)

	// Public API (no auth required)
	app.Get("/api/rates", h.GetRates)
	app.Get("/api/payment/methods", h.GetPaymentMethods)
	app.Get("/api/leaderboard/week", h.GetLeaderboard)

	// API routes with Telegram authentication
	api := app.Group("/api", middleware.TelegramAuth(cfg))

	api.Get("/user/me", h.GetMe)
	api.Post("/user/refresh", h.RefreshMe)
	api.Get("/recipient/check", h.CheckRecipient)
	api.Get("/start/resolve", h.ResolveStart)

	api.Post("/orders", h.CreateOrder)
	api.Get("/orders/:order_id", h.GetReceipt)
	api.Get("/history", h.GetHistory)
	api.Get("/payments", h.GetPayments)

	api.Post("/payment/ton/init", h.InitTONPayment)
	api.Get("/payment/ton/status", h.GetTONStatus)

	// Admin panel routes (auth + allow-list)
	admin := app.Group("/api/admin", middleware.TelegramAuth(cfg), middleware.AdminOnly(cfg))
	admin.Get("/stats", h.GetAdminStats)
	admin.Get("/settings", h.GetAdminSettings)
	admin.Post("/settings/:field", h.SaveAdminSetting)

	// Background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go settingsSvc.Run(ctx)

	tonWatcher := service.NewTonWatcher(paymentSvc, zlog)
	go tonWatcher.Start(ctx)

	if bot != nil {
		go bot.StartPolling(ctx)
		zlog.Info("telegram bot started with long polling")
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("shutting down server")
		cancel()
		_ = app.Shutdown()
	}()

	zlog.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(environment string) (*zap.Logger, error) {
	if environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
