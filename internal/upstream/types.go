package upstream

import (
	"bytes"
	"strconv"
	"strings"
)

// The PHP API is loose with number types: balances and prices arrive as
// numbers or as quoted strings depending on the endpoint. FlexInt and
// FlexFloat accept both and degrade to zero on garbage.

type FlexInt int64

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	s = strings.TrimSpace(s)
	if s == "" {
		*f = 0
		return nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f = FlexInt(v)
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = FlexInt(int64(v))
		return nil
	}
	*f = 0
	return nil
}

type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

// envelope is the common {ok, message} wrapper.
type envelope struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

type UserData struct {
	Balance   FlexInt `json:"balance"`
	FirstName string  `json:"first_name,omitempty"`
	Username  string  `json:"username,omitempty"`
	PhotoURL  string  `json:"photo,omitempty"`
}

type userResponse struct {
	envelope
	Data *UserData `json:"data"`
}

type OrderRow struct {
	ID     FlexInt `json:"id"`
	Type   string  `json:"type"`
	Sent   string  `json:"sent"`
	Amount FlexInt `json:"amount"`
	Umumiy FlexInt `json:"umumiy"`
	Date   string  `json:"date"`
	Status string  `json:"status"`
	Link   string  `json:"link,omitempty"`
}

type ordersResponse struct {
	envelope
	Orders []OrderRow `json:"orders"`
}

type paymentsResponse struct {
	envelope
	Payments []OrderRow `json:"payments"`
}

type orderResponse struct {
	envelope
	Order *OrderRow `json:"order"`
}

type SettingsData struct {
	Price         FlexInt   `json:"price"`
	Premium3M     FlexInt   `json:"3oylik"`
	Premium6M     FlexInt   `json:"6oylik"`
	Premium12M    FlexInt   `json:"12oylik"`
	TONRate       FlexFloat `json:"tonkurs"`
	ReferralPrice FlexInt   `json:"referal_price"`
}

type settingsResponse struct {
	envelope
	Settings *SettingsData `json:"settings"`
}

type StatisticsData struct {
	OK    bool `json:"ok"`
	Users struct {
		Total FlexInt `json:"total"`
		Today FlexInt `json:"today"`
	} `json:"users"`
	Stars struct {
		Sold  FlexInt `json:"sold"`
		Summa FlexInt `json:"summa"`
	} `json:"stars"`
	Turnover struct {
		Today FlexInt `json:"today"`
	} `json:"turnover"`
	Date string `json:"date"`
}

type ProfileData struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Name      string `json:"name,omitempty"`
	PhotoURL  string `json:"photo,omitempty"`
	Premium   bool   `json:"premium,omitempty"`
}

type profileResponse struct {
	envelope
	Data *ProfileData `json:"data"`
}

// TonPayData comes from payments/tonpay.php, which reports "status":"ok"
// instead of the usual ok flag.
type TonPayData struct {
	Status    string    `json:"status"`
	PaymentID string    `json:"payment_id"`
	Sum       FlexInt   `json:"sum"`
	TON       FlexFloat `json:"ton"`
	Link      string    `json:"link"`
	Message   string    `json:"message,omitempty"`
}

type tonStatusResponse struct {
	envelope
	Status string `json:"status"`
}

type WeekRow struct {
	Rank  FlexInt `json:"rank"`
	Name  string  `json:"name"`
	Harid FlexInt `json:"harid"`
	Summa FlexInt `json:"summa"`
	Photo string  `json:"photo,omitempty"`
}

type weekResponse struct {
	envelope
	Top10 []WeekRow `json:"top10"`
}
