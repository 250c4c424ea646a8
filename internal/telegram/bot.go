package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/Qodirxon2000aa/bottt/internal/config"
	"github.com/Qodirxon2000aa/bottt/internal/model"
)

// Bot is the storefront's Telegram side: it answers /start with the
// Mini-App button and pushes order/payment confirmations. The Mini-App
// itself talks to the HTTP API, not to the bot.
type Bot struct {
	bot *tele.Bot
	cfg *config.Config
	log *zap.Logger
}

func NewBot(cfg *config.Config, log *zap.Logger) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Telegram.BotToken,
		Poller: &tele.LongPoller{Timeout: 60 * time.Second},
	}

	bot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	b := &Bot{bot: bot, cfg: cfg, log: log.Named("bot")}
	b.registerHandlers()
	return b, nil
}

func (b *Bot) registerHandlers() {
	b.bot.Handle("/start", b.handleStart)
	b.bot.Handle("/help", b.handleHelp)
}

func (b *Bot) Username() string {
	return b.bot.Me.Username
}

func (b *Bot) StartPolling(ctx context.Context) {
	go func() {
		<-ctx.Done()
		b.bot.Stop()
	}()
	b.bot.Start()
}

// handleStart opens the Mini-App. A deep-link payload like "chek" or
// "order_<id>" is appended as startapp so the web side can route to the
// receipt screen.
func (b *Bot) handleStart(c tele.Context) error {
	url := b.cfg.Telegram.WebAppURL
	if url == "" {
		return c.Send("Do'kon hozircha sozlanmagan.")
	}

	markup := &tele.ReplyMarkup{}
	open := markup.WebApp("⭐ Do'konni ochish", &tele.WebApp{URL: url})
	markup.Inline(markup.Row(open))

	payload := strings.TrimSpace(c.Message().Payload)
	if payload != "" {
		b.log.Debug("start with payload", zap.Int64("user_id", c.Sender().ID), zap.String("payload", payload))
	}

	return c.Send("Telegram Stars va Premium do'koniga xush kelibsiz!", markup)
}

func (b *Bot) handleHelp(c tele.Context) error {
	return c.Send("Stars sotib olish, Premium sovg'a qilish va to'lovlar tarixi — hammasi do'kon ilovasida. /start bosing.")
}

// SendOrderCreated confirms a submitted order in chat.
func (b *Bot) SendOrderCreated(chatID int64, kind model.OrderKind, recipient string, amount, totalCost int64) error {
	var text string
	switch kind {
	case model.OrderKindPremium:
		text = fmt.Sprintf("✅ Premium buyurtma qabul qilindi!\n👤 @%s\n⭐ %d stars\n💰 %s UZS", recipient, amount, formatUZS(totalCost))
	case model.OrderKindGift:
		text = fmt.Sprintf("🎁 Sovg'a buyurtmasi qabul qilindi!\n👤 @%s\n💰 %s UZS", recipient, formatUZS(totalCost))
	default:
		text = fmt.Sprintf("✅ Buyurtma qabul qilindi!\n👤 @%s\n⭐ %d stars\n💰 %s UZS", recipient, amount, formatUZS(totalCost))
	}
	_, err := b.bot.Send(&tele.User{ID: chatID}, text)
	return err
}

// SendTONPaid confirms a TON payment in chat.
func (b *Bot) SendTONPaid(chatID int64, amountUZS int64, amountTON string) error {
	text := fmt.Sprintf("💎 TON to'lovi tasdiqlandi!\n💰 %s UZS (%s TON)\nBalansingiz yangilandi.", formatUZS(amountUZS), amountTON)
	_, err := b.bot.Send(&tele.User{ID: chatID}, text)
	return err
}

// formatUZS groups digits by thousands with spaces, the local convention.
func formatUZS(v int64) string {
	s := fmt.Sprintf("%d", v)
	if len(s) <= 3 {
		return s
	}
	var out []byte
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, byte(r))
	}
	return string(out)
}
