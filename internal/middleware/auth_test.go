package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "12345:test-token"

func signInitData(t *testing.T, values url.Values) string {
	t.Helper()

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+values.Get(key))
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(testBotToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(parts, "\n")))

	values.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return values.Encode()
}

func freshInitData(t *testing.T) url.Values {
	t.Helper()
	return url.Values{
		"auth_date":   {strconv.FormatInt(time.Now().Unix(), 10)},
		"query_id":    {"AAE"},
		"user":        {`{"id":7521806735,"first_name":"Qodirxon","username":"qiyossiz"}`},
		"start_param": {"order_38"},
	}
}

func TestValidateInitData(t *testing.T) {
	raw := signInitData(t, freshInitData(t))

	user, startParam, err := ValidateInitData(raw, testBotToken, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(7521806735), user.ID)
	assert.Equal(t, "Qodirxon", user.FirstName)
	assert.Equal(t, "qiyossiz", user.Username)
	assert.True(t, user.IsTelegramOrigin)
	assert.Equal(t, "order_38", startParam)
}

func TestValidateInitDataBadHash(t *testing.T) {
	values := freshInitData(t)
	raw := signInitData(t, values)
	raw = strings.Replace(raw, "first_name", "last_name", 1)

	_, _, err := ValidateInitData(raw, testBotToken, time.Hour)
	assert.ErrorIs(t, err, ErrInvalidHash)
}

func TestValidateInitDataMissingHash(t *testing.T) {
	_, _, err := ValidateInitData("auth_date=1", testBotToken, time.Hour)
	assert.ErrorIs(t, err, ErrMissingHash)
}

func TestValidateInitDataStale(t *testing.T) {
	values := freshInitData(t)
	values.Set("auth_date", strconv.FormatInt(time.Now().Add(-2*time.Hour).Unix(), 10))
	raw := signInitData(t, values)

	_, _, err := ValidateInitData(raw, testBotToken, time.Hour)
	assert.ErrorIs(t, err, ErrAuthDateStale)
}

func TestValidateInitDataNoUser(t *testing.T) {
	values := freshInitData(t)
	values.Del("user")
	raw := signInitData(t, values)

	_, _, err := ValidateInitData(raw, testBotToken, time.Hour)
	assert.ErrorIs(t, err, ErrNoIdentity)
}
