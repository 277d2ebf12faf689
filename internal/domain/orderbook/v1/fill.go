package orderbookv1

import "math/big"

// Fill is the immutable record of one matching event. The price is always
// the maker's resting price: both price and time priority belong to the
// resting side.
type Fill struct {
	Maker    OrderID  `json:"maker"`
	Taker    OrderID  `json:"taker"`
	Quantity *big.Int `json:"quantity"`
	Price    *big.Int `json:"price"`
}

// Fills is an ordered list of fills produced by a single submission.
type Fills []Fill

// OrderStatus is the final disposition of a submitted order.
type OrderStatus uint8

const (
	// Placed means the order did not match and rests in full.
	Placed OrderStatus = iota
	// PartialMatch means some quantity filled and the remainder rests.
	PartialMatch
	// FullMatch means the order filled completely and nothing rests.
	FullMatch
)

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	switch s {
	case Placed:
		return "Placed"
	case PartialMatch:
		return "PartialMatch"
	default:
		return "FullMatch"
	}
}

// MatchResult is the transient return value of a submission.
type MatchResult struct {
	Fills  Fills
	Status OrderStatus

	// Makers holds a point-in-time copy of the resting order behind each
	// fill, index-aligned with Fills. Downstream forwarding needs the full
	// maker order, which may already be pruned from the book by the time the
	// result is consumed.
	Makers []*Order
}
