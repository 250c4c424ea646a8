package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to the PHP storefront API. All endpoints are unauthenticated
// GETs with query parameters returning {ok, ...} JSON envelopes.
type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("got status %d from %s", resp.StatusCode, path)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse %s response: %w", path, err)
	}
	return nil
}

// GetUser fetches the balance snapshot. A logical failure or missing data
// block degrades to a zero balance rather than an error.
func (c *Client) GetUser(ctx context.Context, userID int64) (UserData, error) {
	var resp userResponse
	q := url.Values{"user_id": {strconv.FormatInt(userID, 10)}}
	if err := c.get(ctx, "get_user.php", q, &resp); err != nil {
		return UserData{}, err
	}
	if !resp.OK || resp.Data == nil {
		return UserData{}, nil
	}
	return *resp.Data, nil
}

// GetOrders fetches the order history; any malformed payload yields an
// empty list.
func (c *Client) GetOrders(ctx context.Context, userID int64) ([]OrderRow, error) {
	var resp ordersResponse
	q := url.Values{"user_id": {strconv.FormatInt(userID, 10)}}
	if err := c.get(ctx, "history.php", q, &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return []OrderRow{}, nil
	}
	return resp.Orders, nil
}

// GetPayments fetches the payment history with the same degradation rule.
func (c *Client) GetPayments(ctx context.Context, userID int64) ([]OrderRow, error) {
	var resp paymentsResponse
	q := url.Values{"user_id": {strconv.FormatInt(userID, 10)}}
	if err := c.get(ctx, "payments.php", q, &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return []OrderRow{}, nil
	}
	return resp.Payments, nil
}

// CreateOrder submits a stars order. The recipient is sent @-prefixed, the
// way the upstream expects it.
func (c *Client) CreateOrder(ctx context.Context, userID, stars int64, recipient, orderType string, overall int64) (bool, string, error) {
	var resp envelope
	q := url.Values{
		"user_id": {strconv.FormatInt(userID, 10)},
		"amount":  {strconv.FormatInt(stars, 10)},
		"sent":    {"@" + strings.TrimPrefix(recipient, "@")},
		"type":    {orderType},
		"overall": {strconv.FormatInt(overall, 10)},
	}
	if err := c.get(ctx, "order.php", q, &resp); err != nil {
		return false, "", err
	}
	return resp.OK, resp.Message, nil
}

// CreatePremium submits a premium order keyed by the package's stars amount.
func (c *Client) CreatePremium(ctx context.Context, userID, stars int64, recipient string, overall int64) (bool, string, error) {
	var resp envelope
	q := url.Values{
		"user_id": {strconv.FormatInt(userID, 10)},
		"amount":  {strconv.FormatInt(stars, 10)},
		"sent":    {strings.TrimPrefix(recipient, "@")},
		"overall": {strconv.FormatInt(overall, 10)},
	}
	if err := c.get(ctx, "premium.php", q, &resp); err != nil {
		return false, "", err
	}
	return resp.OK, resp.Message, nil
}

// CreateGift submits a gift order.
func (c *Client) CreateGift(ctx context.Context, userID, giftID int64, recipient string) (bool, string, error) {
	var resp envelope
	q := url.Values{
		"user_id": {strconv.FormatInt(userID, 10)},
		"gift_id": {strconv.FormatInt(giftID, 10)},
		"sent":    {"@" + strings.TrimPrefix(recipient, "@")},
	}
	if err := c.get(ctx, "gifting.php", q, &resp); err != nil {
		return false, "", err
	}
	return resp.OK, resp.Message, nil
}

// GetSettings fetches the rate/price snapshot.
func (c *Client) GetSettings(ctx context.Context) (SettingsData, error) {
	var resp settingsResponse
	if err := c.get(ctx, "settings.php", nil, &resp); err != nil {
		return SettingsData{}, err
	}
	if !resp.OK || resp.Settings == nil {
		return SettingsData{}, fmt.Errorf("settings unavailable: %s", resp.Message)
	}
	return *resp.Settings, nil
}

// SetData writes one settings field.
func (c *Client) SetData(ctx context.Context, field, value string) (bool, string, error) {
	var resp envelope
	q := url.Values{"type": {field}, "value": {value}}
	if err := c.get(ctx, "setdata.php", q, &resp); err != nil {
		return false, "", err
	}
	return resp.OK, resp.Message, nil
}

// GetStatistics fetches admin aggregates; missing sections come back zeroed.
func (c *Client) GetStatistics(ctx context.Context) (StatisticsData, error) {
	var resp StatisticsData
	if err := c.get(ctx, "statistics.php", nil, &resp); err != nil {
		return StatisticsData{}, err
	}
	return resp, nil
}

// GetOrder fetches one order for the receipt view.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*OrderRow, string, error) {
	var resp orderResponse
	q := url.Values{"order_id": {orderID}}
	if err := c.get(ctx, "get_order.php", q, &resp); err != nil {
		return nil, "", err
	}
	if !resp.OK || resp.Order == nil {
		return nil, resp.Message, nil
	}
	return resp.Order, "", nil
}

// CheckUser looks up a recipient profile by username.
func (c *Client) CheckUser(ctx context.Context, username string) (*ProfileData, string, error) {
	var resp profileResponse
	q := url.Values{"username": {strings.TrimPrefix(username, "@")}}
	if err := c.get(ctx, "check_user.php", q, &resp); err != nil {
		return nil, "", err
	}
	if !resp.OK || resp.Data == nil {
		return nil, resp.Message, nil
	}
	return resp.Data, "", nil
}

// InitTonPay creates a TON payment on the upstream side.
func (c *Client) InitTonPay(ctx context.Context, userID, amountUZS int64) (TonPayData, error) {
	var resp TonPayData
	q := url.Values{
		"user_id": {strconv.FormatInt(userID, 10)},
		"amount":  {strconv.FormatInt(amountUZS, 10)},
	}
	if err := c.get(ctx, "payments/tonpay.php", q, &resp); err != nil {
		return TonPayData{}, err
	}
	if resp.Status != "ok" {
		msg := resp.Message
		if msg == "" {
			msg = "payment init rejected"
		}
		return TonPayData{}, fmt.Errorf("tonpay: %s", msg)
	}
	return resp, nil
}

// TonStatus fetches the raw status of a TON payment.
func (c *Client) TonStatus(ctx context.Context, paymentID string) (string, error) {
	var resp tonStatusResponse
	q := url.Values{"payment_id": {paymentID}}
	if err := c.get(ctx, "payments/ton_status.php", q, &resp); err != nil {
		return "", err
	}
	if !resp.OK {
		return "", fmt.Errorf("ton status unavailable: %s", resp.Message)
	}
	return resp.Status, nil
}

// GetWeekTop fetches the weekly leaderboard rows.
func (c *Client) GetWeekTop(ctx context.Context) ([]WeekRow, error) {
	var resp weekResponse
	if err := c.get(ctx, "week.php", nil, &resp); err != nil {
		return nil, err
	}
	if !resp.OK {
		return []WeekRow{}, nil
	}
	return resp.Top10, nil
}
