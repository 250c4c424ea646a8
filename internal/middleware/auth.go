package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Qodirxon2000aa/bottt/internal/config"
	"github.com/Qodirxon2000aa/bottt/internal/model"
)

const (
	UserKey       = "telegram_user"
	StartParamKey = "start_param"
)

var (
	ErrMissingHash   = errors.New("missing hash")
	ErrInvalidHash   = errors.New("invalid hash")
	ErrAuthDateStale = errors.New("auth_date expired")
	ErrBadInitData   = errors.New("malformed init data")
	ErrMissingInit   = errors.New("missing telegram init data")
	ErrAdminsOnly    = errors.New("admin access required")
	ErrNoIdentity    = errors.New("no user identity in init data")
)

// TelegramAuth validates the Mini-App init data carried in
// X-Telegram-Init-Data (or "Authorization: tma ...") and stores the resolved
// identity and deep-link start parameter in request locals. With auth
// disabled it falls back to the fixed development identity, mirroring the
// Mini-App's behavior outside the Telegram host.
func TelegramAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get("X-Telegram-Init-Data")
		if raw == "" {
			raw = strings.TrimPrefix(c.Get("Authorization"), "tma ")
		}

		if raw == "" {
			if cfg.Telegram.AuthDisabled {
				c.Locals(UserKey, model.User{
					ID:               cfg.Telegram.DevUserID,
					FirstName:        "Dev",
					IsTelegramOrigin: false,
				})
				return c.Next()
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": ErrMissingInit.Error(),
			})
		}

		user, startParam, err := ValidateInitData(raw, cfg.Telegram.BotToken, cfg.Telegram.AuthMaxAge)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid telegram init data: " + err.Error(),
			})
		}

		c.Locals(UserKey, user)
		c.Locals(StartParamKey, startParam)
		return c.Next()
	}
}

// AdminOnly gates a route group on the configured admin ID allow-list.
func AdminOnly(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user.ID == 0 || !cfg.IsAdmin(user.ID) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": ErrAdminsOnly.Error(),
			})
		}
		return c.Next()
	}
}

type initDataUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	PhotoURL  string `json:"photo_url"`
}

// ValidateInitData checks the WebAppData HMAC over the init data query
// string and returns the embedded user plus the deep-link start parameter.
func ValidateInitData(raw, botToken string, maxAge time.Duration) (model.User, string, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return model.User{}, "", ErrBadInitData
	}

	hash := values.Get("hash")
	if hash == "" {
		return model.User{}, "", ErrMissingHash
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return model.User{}, "", ErrBadInitData
	}
	if maxAge > 0 && time.Since(time.Unix(authDate, 0)) > maxAge {
		return model.User{}, "", ErrAuthDateStale
	}

	values.Del("hash")
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+values.Get(key))
	}
	dataCheckString := strings.Join(parts, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(dataCheckString))
	if hex.EncodeToString(mac.Sum(nil)) != hash {
		return model.User{}, "", ErrInvalidHash
	}

	var parsed initDataUser
	if userJSON := values.Get("user"); userJSON != "" {
		if err := json.Unmarshal([]byte(userJSON), &parsed); err != nil {
			return model.User{}, "", ErrBadInitData
		}
	}
	if parsed.ID == 0 {
		return model.User{}, "", ErrNoIdentity
	}

	user := model.User{
		ID:               parsed.ID,
		FirstName:        parsed.FirstName,
		LastName:         parsed.LastName,
		Username:         parsed.Username,
		PhotoURL:         parsed.PhotoURL,
		IsTelegramOrigin: true,
	}
	return user, values.Get("start_param"), nil
}

// GetUser returns the authenticated identity, or a zero User outside the
// auth middleware.
func GetUser(c *fiber.Ctx) model.User {
	user, ok := c.Locals(UserKey).(model.User)
	if !ok {
		return model.User{}
	}
	return user
}

// GetStartParam returns the deep-link launch parameter, if any.
func GetStartParam(c *fiber.Ctx) string {
	param, ok := c.Locals(StartParamKey).(string)
	if !ok {
		return ""
	}
	return param
}
