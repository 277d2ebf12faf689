package orderbookv1

import (
	"math/big"
)

// Level is a single price level: a FIFO queue of resting orders at one
// price. Orders match strictly in arrival order; no operation reorders the
// queue except removal.
type Level struct {
	Price  *big.Int
	Orders []*Order
}

// NewLevel creates an empty level at the given price.
func NewLevel(price *big.Int) *Level {
	return &Level{
		Price:  new(big.Int).Set(price),
		Orders: make([]*Order, 0),
	}
}

// Add appends an order to the tail of the queue.
func (l *Level) Add(order *Order) error {
	if order == nil {
		return ErrNilOrder
	}

	l.Orders = append(l.Orders, order)
	return nil
}

// Remove removes the order with the given id from the queue, preserving the
// relative order of the remaining entries.
func (l *Level) Remove(id OrderID) *Order {
	for i, order := range l.Orders {
		if order.ID == id {
			l.Orders = append(l.Orders[:i], l.Orders[i+1:]...)
			return order
		}
	}
	return nil
}

// Find returns the resting order with the given id, if present.
func (l *Level) Find(id OrderID) *Order {
	for _, order := range l.Orders {
		if order.ID == id {
			return order
		}
	}
	return nil
}

// Fill matches the taker against the queue in FIFO order, decrementing the
// remaining quantity on both sides. Resting orders owned by the taker's
// account are skipped in place (self-trade prevention). Fully consumed
// makers stay in the queue with zero remaining until the next prune.
//
// Returns one fill per matched maker and an index-aligned copy of each maker
// taken immediately after the decrement.
func (l *Level) Fill(taker *Order) (Fills, []*Order) {
	var fills Fills
	var makers []*Order

	for _, maker := range l.Orders {
		if taker.Remaining.Sign() == 0 {
			break
		}

		// no self-trading allowed
		if maker.Trader == taker.Trader {
			continue
		}

		// consumed earlier in this submission, awaiting prune
		if maker.Remaining.Sign() == 0 {
			continue
		}

		amount := new(big.Int).Set(maker.Remaining)
		if taker.Remaining.Cmp(amount) < 0 {
			amount.Set(taker.Remaining)
		}

		maker.Remaining.Sub(maker.Remaining, amount)
		taker.Remaining.Sub(taker.Remaining, amount)

		fills = append(fills, Fill{
			Maker:    maker.ID,
			Taker:    taker.ID,
			Quantity: amount,
			Price:    new(big.Int).Set(l.Price),
		})
		makers = append(makers, maker.Clone())
	}

	return fills, makers
}

// Prune removes all fully filled orders from the queue.
func (l *Level) Prune() {
	live := l.Orders[:0]
	for _, order := range l.Orders {
		if order.Remaining.Sign() != 0 {
			live = append(live, order)
		}
	}
	for i := len(live); i < len(l.Orders); i++ {
		l.Orders[i] = nil
	}
	l.Orders = live
}

// Depth returns the number of resting orders with nonzero remaining quantity.
func (l *Level) Depth() int {
	depth := 0
	for _, order := range l.Orders {
		if order.Remaining.Sign() != 0 {
			depth++
		}
	}
	return depth
}

// Empty checks if the level has no orders at all.
func (l *Level) Empty() bool {
	return len(l.Orders) == 0
}
