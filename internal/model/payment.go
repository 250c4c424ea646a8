package model

// PaymentMethod is one of the storefront's top-up options.
type PaymentMethod string

const (
	MethodPayme     PaymentMethod = "payme"
	MethodUzcard    PaymentMethod = "uzcard"
	MethodClick     PaymentMethod = "click"
	MethodTonkeeper PaymentMethod = "tonkeeper"
)

// PaymentMethods lists the selectable methods in display order.
var PaymentMethods = []PaymentMethod{MethodPayme, MethodUzcard, MethodClick, MethodTonkeeper}

// Top-up amount bounds in UZS.
const (
	MinPaymentUZS int64 = 1_000
	MaxPaymentUZS int64 = 10_000_000
)

// TONPaymentView is the client-facing state of one TON payment session.
// RawStatus reflects whatever the upstream last said; Paid flips only on the
// literal "paid" and never flips back.
type TONPaymentView struct {
	SessionID   string `json:"session_id"`
	PaymentID   string `json:"payment_id"`
	AmountUZS   int64  `json:"amount_uzs"`
	AmountTON   string `json:"amount_ton"`
	PaymentLink string `json:"payment_link"`
	Status      Status `json:"status"`
	RawStatus   string `json:"raw_status,omitempty"`
	Paid        bool   `json:"paid"`
	// RedirectTo is set on the single status response that consumes the
	// one-shot post-payment redirect.
	RedirectTo string `json:"redirect_to,omitempty"`
}
