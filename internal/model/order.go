package model

import "time"

type OrderKind string

const (
	OrderKindStars   OrderKind = "stars"
	OrderKindPremium OrderKind = "premium"
	OrderKindGift    OrderKind = "gift"
)

// PremiumPackage is a subscription package key. Prices come from the
// upstream settings table, never from a stars*rate derivation.
type PremiumPackage string

const (
	Premium3M  PremiumPackage = "3m"
	Premium6M  PremiumPackage = "6m"
	Premium12M PremiumPackage = "12m"
)

// PremiumStars maps a package to its informational stars equivalent.
var PremiumStars = map[PremiumPackage]int64{
	Premium3M:  300,
	Premium6M:  600,
	Premium12M: 1200,
}

func (p PremiumPackage) Valid() bool {
	_, ok := PremiumStars[p]
	return ok
}

// OrderRequest is the tagged order variant: exactly one of the optional
// sections is set, selected by Kind. One submit path serves all three.
type OrderRequest struct {
	Kind              OrderKind      `json:"kind"`
	RecipientUsername string         `json:"recipient_username"`
	Stars             int64          `json:"stars,omitempty"`
	Package           PremiumPackage `json:"package,omitempty"`
	GiftID            int64          `json:"gift_id,omitempty"`
	GiftPrice         int64          `json:"gift_price,omitempty"`
}

// OrderResult is what the submit operation reports back to the client.
type OrderResult struct {
	OK        bool   `json:"ok"`
	Message   string `json:"message,omitempty"`
	TotalCost int64  `json:"total_cost,omitempty"`
	// NavigateAfter tells the client how long to keep the success toast
	// on screen before switching to the history view.
	NavigateAfter time.Duration `json:"navigate_after_ms,omitempty"`
}

// HistoryRecord is one normalized row of order or payment history.
type HistoryRecord struct {
	OrderID     string    `json:"order_id"`
	Type        OrderKind `json:"type,omitempty"`
	Amount      int64     `json:"amount"`
	TotalCost   int64     `json:"total_cost"`
	Status      Status    `json:"status"`
	RawStatus   string    `json:"raw_status,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	DateKnown   bool      `json:"date_known"`
	PaymentLink string    `json:"payment_link,omitempty"`
	Recipient   string    `json:"recipient,omitempty"`
}

// Receipt is the detail view behind a "chek" deep link.
type Receipt struct {
	OrderID   string    `json:"order_id"`
	Recipient string    `json:"recipient"`
	Stars     int64     `json:"stars"`
	TotalCost int64     `json:"total_cost"`
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	DateKnown bool      `json:"date_known"`
}
