package orderbookv1

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/big"
	"time"
)

// Side represents which side of the market an order is on.
type Side uint8

const (
	// Bid is the buy side.
	Bid Side = iota
	// Ask is the sell side.
	Ask
)

// String implements fmt.Stringer.
func (s Side) String() string {
	if s == Bid {
		return "Bid"
	}
	return "Ask"
}

// ParseSide parses the wire tag of a market side.
func ParseSide(s string) (Side, error) {
	switch s {
	case "Bid":
		return Bid, nil
	case "Ask":
		return Ask, nil
	default:
		return Bid, fmt.Errorf("%w: %q", ErrInvalidSide, s)
	}
}

// Opposite returns the other side of the market.
func (s Side) Opposite() Side {
	if s == Bid {
		return Ask
	}
	return Bid
}

// OrderID is the unique 64-bit identifier of an order. The book treats it as
// an opaque key: it is derived from order content on construction and never
// regenerated.
type OrderID = uint64

// Order represents a single resting or incoming order for one market.
//
// Remaining starts equal to Quantity and only ever decreases; an order with
// zero Remaining is eligible for pruning from the book.
type Order struct {
	ID         OrderID
	Trader     Address
	Market     Address
	Side       Side
	Price      *big.Int
	Quantity   *big.Int
	Remaining  *big.Int
	Expiration time.Time
	Created    time.Time
	SignedData []byte
}

// NewOrder constructs an order and derives its identifier from the order's
// content: the first 8 bytes (big-endian) of the SHA-256 digest over the
// trader, market, side, price, quantity and expiration fields.
func NewOrder(
	trader Address,
	market Address,
	side Side,
	price *big.Int,
	quantity *big.Int,
	expiration time.Time,
	signedData []byte,
) *Order {
	order := &Order{
		Trader:     trader,
		Market:     market,
		Side:       side,
		Price:      new(big.Int).Set(price),
		Quantity:   new(big.Int).Set(quantity),
		Remaining:  new(big.Int).Set(quantity),
		Expiration: expiration,
		Created:    time.Now().UTC(),
		SignedData: signedData,
	}
	order.ID = order.digestID()

	return order
}

func (o *Order) digestID() OrderID {
	h := sha256.New()
	h.Write(o.Trader[:])
	h.Write(o.Market[:])
	if o.Side == Bid {
		h.Write([]byte{0x00})
	} else {
		h.Write([]byte{0x01})
	}
	h.Write(o.Price.Bytes())
	h.Write(o.Quantity.Bytes())

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(o.Expiration.Unix()))
	h.Write(ts[:])

	return binary.BigEndian.Uint64(h.Sum(nil)[:8])
}

// IsBid checks if the order is on the buy side.
func (o *Order) IsBid() bool {
	return o.Side == Bid
}

// IsAsk checks if the order is on the sell side.
func (o *Order) IsAsk() bool {
	return o.Side == Ask
}

// IsFilled checks if the order has no remaining quantity.
func (o *Order) IsFilled() bool {
	return o.Remaining.Sign() == 0
}

// Clone returns a deep copy of the order.
func (o *Order) Clone() *Order {
	cloned := *o
	cloned.Price = new(big.Int).Set(o.Price)
	cloned.Quantity = new(big.Int).Set(o.Quantity)
	cloned.Remaining = new(big.Int).Set(o.Remaining)
	cloned.SignedData = append([]byte(nil), o.SignedData...)
	return &cloned
}

// String implements fmt.Stringer.
func (o *Order) String() string {
	return fmt.Sprintf("#%d [%s] %s %s @ %s", o.ID, o.Market, o.Side, o.Quantity, o.Price)
}
