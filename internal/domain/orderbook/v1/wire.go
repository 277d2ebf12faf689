package orderbookv1

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

// ExternalOrder is the interchange form of an Order: every 256-bit integer
// is a decimal string, addresses and signatures are hex strings, timestamps
// are unix seconds.
type ExternalOrder struct {
	ID         string `json:"id"`
	Trader     string `json:"user"`
	Market     string `json:"target_tracer"`
	Side       string `json:"side"`
	Price      string `json:"price"`
	Quantity   string `json:"amount"`
	Remaining  string `json:"remaining"`
	Expiration int64  `json:"expiration"`
	Created    int64  `json:"created"`
	SignedData string `json:"signed_data"`
}

// ExternalBook is the interchange form of a Book. Each side maps decimal
// price strings to the time-ordered queue of orders at that price.
type ExternalBook struct {
	Market  string                      `json:"market"`
	Bids    map[string][]*ExternalOrder `json:"bids"`
	Asks    map[string][]*ExternalOrder `json:"asks"`
	LTP     string                      `json:"LTP"`
	Depth   [2]int                      `json:"depth"`
	Crossed bool                        `json:"crossed"`
	Spread  string                      `json:"spread"`
}

// ToExternal converts an order to its interchange form. The conversion is
// total: every valid order has an external form.
func (o *Order) ToExternal() *ExternalOrder {
	return &ExternalOrder{
		ID:         strconv.FormatUint(o.ID, 10),
		Trader:     o.Trader.Hex(),
		Market:     o.Market.Hex(),
		Side:       o.Side.String(),
		Price:      o.Price.String(),
		Quantity:   o.Quantity.String(),
		Remaining:  o.Remaining.String(),
		Expiration: o.Expiration.Unix(),
		Created:    o.Created.Unix(),
		SignedData: hex.EncodeToString(o.SignedData),
	}
}

// FromExternal converts the interchange form back to a native order. Every
// malformed field fails with exactly one of the parse-error kinds; no
// partial order is ever returned.
func (e *ExternalOrder) FromExternal() (*Order, error) {
	id, err := strconv.ParseUint(e.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: order id %q", ErrIntegerBounds, e.ID)
	}

	trader, err := ParseAddress(e.Trader)
	if err != nil {
		return nil, err
	}

	market, err := ParseAddress(e.Market)
	if err != nil {
		return nil, err
	}

	side, err := ParseSide(e.Side)
	if err != nil {
		return nil, err
	}

	price, err := parseUint256(e.Price)
	if err != nil {
		return nil, err
	}

	quantity, err := parseUint256(e.Quantity)
	if err != nil {
		return nil, err
	}

	remaining, err := parseUint256(e.Remaining)
	if err != nil {
		return nil, err
	}
	if remaining.Cmp(quantity) > 0 {
		return nil, fmt.Errorf("%w: remaining %s exceeds quantity %s", ErrIntegerBounds, e.Remaining, e.Quantity)
	}

	if e.Expiration < 0 {
		return nil, fmt.Errorf("%w: expiration %d", ErrInvalidTimestamp, e.Expiration)
	}
	if e.Created < 0 {
		return nil, fmt.Errorf("%w: created %d", ErrInvalidTimestamp, e.Created)
	}

	signedData, err := hex.DecodeString(e.SignedData)
	if err != nil {
		return nil, fmt.Errorf("%w: signed data", ErrInvalidHexadecimal)
	}

	return &Order{
		ID:         id,
		Trader:     trader,
		Market:     market,
		Side:       side,
		Price:      price,
		Quantity:   quantity,
		Remaining:  remaining,
		Expiration: time.Unix(e.Expiration, 0).UTC(),
		Created:    time.Unix(e.Created, 0).UTC(),
		SignedData: signedData,
	}, nil
}

// maxUint256 bounds every integer field at 2^256 - 1.
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// parseUint256 parses a non-negative decimal string into a 256-bit integer.
func parseUint256(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDecimal, s)
	}
	if v.Sign() < 0 || v.Cmp(maxUint256) > 0 {
		return nil, fmt.Errorf("%w: %q", ErrIntegerBounds, s)
	}
	return v, nil
}
