package ton

import (
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strconv"
	"strings"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
)

var (
	ErrNotTransferLink = errors.New("not a TON transfer link")
	ErrNoDestination   = errors.New("transfer link has no destination address")
	ErrBadAmount       = errors.New("transfer link has a malformed amount")
)

// Transfer is a parsed TON transfer deep link. The upstream builds these for
// the wallet hand-off; we validate them before exposing them to clients.
type Transfer struct {
	To         *address.Address
	AmountNano *big.Int
	Comment    string
}

// AmountTON renders the amount in whole TON decimal notation.
func (t *Transfer) AmountTON() string {
	return tlb.MustFromNano(t.AmountNano, 9).String()
}

// ParseTransferLink parses and validates a ton://transfer/<addr>?amount=N
// deep link. The https://app.tonkeeper.com/transfer/<addr> form is accepted
// too, since the upstream emits both.
func ParseTransferLink(link string) (*Transfer, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return nil, fmt.Errorf("parse transfer link: %w", err)
	}

	var rawAddr string
	switch {
	case u.Scheme == "ton" && u.Host == "transfer":
		rawAddr = strings.Trim(u.Path, "/")
	case (u.Scheme == "https" || u.Scheme == "http") && strings.HasPrefix(u.Path, "/transfer/"):
		rawAddr = strings.TrimPrefix(u.Path, "/transfer/")
	default:
		return nil, ErrNotTransferLink
	}
	if rawAddr == "" {
		return nil, ErrNoDestination
	}

	to, err := address.ParseAddr(rawAddr)
	if err != nil {
		return nil, fmt.Errorf("destination address: %w", err)
	}

	amount := new(big.Int)
	if rawAmount := u.Query().Get("amount"); rawAmount != "" {
		nano, err := strconv.ParseInt(rawAmount, 10, 64)
		if err != nil || nano < 0 {
			return nil, ErrBadAmount
		}
		amount.SetInt64(nano)
	}

	return &Transfer{
		To:         to,
		AmountNano: amount,
		Comment:    u.Query().Get("text"),
	}, nil
}

// AmountMatches checks the link's nanoTON amount against an expected TON
// value within half a milli-TON, absorbing upstream rounding.
func (t *Transfer) AmountMatches(expectedTON float64) bool {
	expected := tlb.MustFromTON(strconv.FormatFloat(expectedTON, 'f', 9, 64)).Nano()
	diff := new(big.Int).Sub(t.AmountNano, expected)
	diff.Abs(diff)
	return diff.Cmp(big.NewInt(500_000)) <= 0
}
