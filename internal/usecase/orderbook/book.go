package orderbook

import (
	"math/big"
	"sync"
	"time"

	orderbookv1 "github.com/lions-mane/tracer-ome/internal/domain/orderbook/v1"
	"github.com/lions-mane/tracer-ome/pkg/logger"
)

// Book is the order book and matching engine for a single market.
//
// The book is a single-writer resource: the mutex makes every public
// mutation atomic with respect to observers, and callers must not interleave
// two submissions for the same market. Distinct markets are independent
// books and match in parallel with no shared state.
type Book struct {
	mu sync.RWMutex

	market orderbookv1.Address
	bids   *orderbookv1.LevelTree
	asks   *orderbookv1.LevelTree

	// Derived metadata, recomputed after every mutation.
	ltp      *big.Int
	bidDepth int
	askDepth int
	spread   *big.Int
	crossed  bool

	logger *logger.Logger
}

// NewBook creates an empty book for the given market.
func NewBook(market orderbookv1.Address, log *logger.Logger) *Book {
	return &Book{
		market: market,
		bids:   orderbookv1.NewLevelTree(),
		asks:   orderbookv1.NewLevelTree(),
		ltp:    new(big.Int),
		spread: new(big.Int),
		logger: log,
	}
}

// Market returns the address of the market this book matches.
func (b *Book) Market() orderbookv1.Address {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.market
}

// LTP returns the last traded price, zero if nothing has traded yet.
func (b *Book) LTP() *big.Int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return new(big.Int).Set(b.ltp)
}

// Depth returns the number of resting orders with nonzero remaining
// quantity on the bid and ask sides.
func (b *Book) Depth() (int, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bidDepth, b.askDepth
}

// Spread returns the bid-ask spread, zero when either side is empty.
func (b *Book) Spread() *big.Int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return new(big.Int).Set(b.spread)
}

// Crossed reports whether the best bid meets or exceeds the best ask. After
// any public mutation completes this is never observably true: matching
// removes crossing liquidity before returning.
func (b *Book) Crossed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.crossed
}

// Top returns the best bid and best ask prices; nil marks an empty side.
func (b *Book) Top() (*big.Int, *big.Int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.topLocked()
}

func (b *Book) topLocked() (*big.Int, *big.Int) {
	var bestBid, bestAsk *big.Int
	if lvl := b.bids.MaxLevel(); lvl != nil {
		bestBid = new(big.Int).Set(lvl.Price)
	}
	if lvl := b.asks.MinLevel(); lvl != nil {
		bestAsk = new(big.Int).Set(lvl.Price)
	}
	return bestBid, bestAsk
}

// Order returns the resting order with the given id, or nil. Lookup by id is
// a linear scan: the primary index is price, and id lookup only serves
// cancellation and introspection.
func (b *Book) Order(id orderbookv1.OrderID) *orderbookv1.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if order := findOrder(b.bids, id); order != nil {
		return order
	}
	return findOrder(b.asks, id)
}

func findOrder(tree *orderbookv1.LevelTree, id orderbookv1.OrderID) *orderbookv1.Order {
	var found *orderbookv1.Order
	tree.ForEachAscending(func(lvl *orderbookv1.Level) bool {
		if order := lvl.Find(id); order != nil {
			found = order
			return false
		}
		return true
	})
	return found
}

// Submit runs the incoming order through the matching engine.
//
// If the order's price does not cross the opposing side it rests at its own
// price level and the result is Placed. Otherwise the engine walks opposing
// levels in priority order, producing fills until the order is exhausted or
// no further level is price-viable; any remainder rests (PartialMatch), a
// fully consumed order does not (FullMatch). Maintenance (prune + metadata
// recompute) runs before returning regardless of outcome.
//
// Callers are expected to validate quantity > 0 and run any external
// validity check before submitting: Submit itself never touches the network
// and cannot fail once given a well-formed order.
func (b *Book) Submit(order *orderbookv1.Order) (*orderbookv1.MatchResult, error) {
	if order == nil {
		return nil, orderbookv1.ErrNilOrder
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.logger.Debug("Submitting order",
		logger.Field{Key: "order", Value: order.String()},
		logger.Field{Key: "side", Value: order.Side.String()},
	)

	result := b.match(order)
	b.update()

	b.logger.Info("Order matched",
		logger.Field{Key: "orderID", Value: order.ID},
		logger.Field{Key: "status", Value: result.Status.String()},
		logger.Field{Key: "fills", Value: len(result.Fills)},
	)

	return result, nil
}

// priceViable reports whether an opposing level's price can trade against
// the incoming order's limit price.
func priceViable(opposite, incoming *big.Int, incomingSide orderbookv1.Side) bool {
	if incomingSide == orderbookv1.Bid {
		return opposite.Cmp(incoming) <= 0
	}
	return opposite.Cmp(incoming) >= 0
}

func (b *Book) match(order *orderbookv1.Order) *orderbookv1.MatchResult {
	var fills orderbookv1.Fills
	var makers []*orderbookv1.Order

	bestBid, bestAsk := b.topLocked()
	opposingTop := bestAsk
	opposing := b.asks
	if order.Side == orderbookv1.Ask {
		opposingTop = bestBid
		opposing = b.bids
	}

	// if we haven't crossed the spread, we're not going to match
	if opposingTop == nil || !priceViable(opposingTop, order.Price, order.Side) {
		b.addOrder(order)
		return &orderbookv1.MatchResult{Status: orderbookv1.Placed}
	}

	walk := opposing.ForEachAscending
	if order.Side == orderbookv1.Ask {
		walk = opposing.ForEachDescending
	}

	walk(func(lvl *orderbookv1.Level) bool {
		if !priceViable(lvl.Price, order.Price, order.Side) {
			return false
		}

		lvlFills, lvlMakers := lvl.Fill(order)
		if len(lvlFills) > 0 {
			fills = append(fills, lvlFills...)
			makers = append(makers, lvlMakers...)
			b.ltp.Set(lvl.Price)
		}

		return order.Remaining.Sign() != 0
	})

	// if our incoming order has any volume left, add it to the book
	if order.Remaining.Sign() != 0 {
		b.addOrder(order)

		// a walk that produced nothing (every viable maker was skipped)
		// counts as a plain placement
		status := orderbookv1.PartialMatch
		if len(fills) == 0 {
			status = orderbookv1.Placed
		}

		return &orderbookv1.MatchResult{
			Fills:  fills,
			Status: status,
			Makers: makers,
		}
	}

	return &orderbookv1.MatchResult{
		Fills:  fills,
		Status: orderbookv1.FullMatch,
		Makers: makers,
	}
}

// addOrder rests the order at the tail of its own price level.
func (b *Book) addOrder(order *orderbookv1.Order) {
	side := b.bids
	if order.Side == orderbookv1.Ask {
		side = b.asks
	}

	lvl := side.UpsertLevel(order.Price)
	if err := lvl.Add(order); err != nil {
		// only reachable with a nil order, which Submit rejects upfront
		b.logger.Error(err, logger.Field{Key: "action", Value: "add_order"})
		return
	}

	b.logger.Debug("Order resting",
		logger.Field{Key: "orderID", Value: order.ID},
		logger.Field{Key: "price", Value: order.Price.String()},
		logger.Field{Key: "side", Value: order.Side.String()},
	)
}

// Cancel removes the resting order with the given id, provided the
// requester owns it. Returns the time of cancellation.
func (b *Book) Cancel(id orderbookv1.OrderID, requester orderbookv1.Address) (time.Time, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, tree := range []*orderbookv1.LevelTree{b.bids, b.asks} {
		var cancelled bool
		var err error
		tree.ForEachAscending(func(lvl *orderbookv1.Level) bool {
			order := lvl.Find(id)
			if order == nil {
				return true
			}
			if order.Trader != requester {
				err = orderbookv1.ErrNotOwner
				return false
			}
			lvl.Remove(id)
			cancelled = true
			return false
		})
		if err != nil {
			return time.Time{}, err
		}
		if cancelled {
			b.update()
			b.logger.Info("Order cancelled", logger.Field{Key: "orderID", Value: id})
			return time.Now().UTC(), nil
		}
	}

	return time.Time{}, orderbookv1.ErrOrderNotFound
}

// update recomputes the book's derived metadata after a mutation: it prunes
// fully filled orders and empty levels, then recomputes depth, spread and
// the crossed flag from scratch. Idempotent.
func (b *Book) update() {
	b.prune(b.bids)
	b.prune(b.asks)

	b.bidDepth = depth(b.bids)
	b.askDepth = depth(b.asks)

	bestBid, bestAsk := b.topLocked()
	if bestBid != nil && bestAsk != nil {
		b.spread = new(big.Int).Sub(bestAsk, bestBid)
		b.crossed = bestBid.Cmp(bestAsk) >= 0
	} else {
		b.spread = new(big.Int)
		b.crossed = false
	}
}

func (b *Book) prune(tree *orderbookv1.LevelTree) {
	var empty []*big.Int
	tree.ForEachAscending(func(lvl *orderbookv1.Level) bool {
		lvl.Prune()
		if lvl.Empty() {
			empty = append(empty, lvl.Price)
		}
		return true
	})

	for _, price := range empty {
		tree.DeleteLevel(price)
	}
}

func depth(tree *orderbookv1.LevelTree) int {
	total := 0
	tree.ForEachAscending(func(lvl *orderbookv1.Level) bool {
		total += lvl.Depth()
		return true
	})
	return total
}

// Snapshot converts the book's current state to its interchange form.
func (b *Book) Snapshot() *orderbookv1.ExternalBook {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return &orderbookv1.ExternalBook{
		Market:  b.market.Hex(),
		Bids:    externalSide(b.bids),
		Asks:    externalSide(b.asks),
		LTP:     b.ltp.String(),
		Depth:   [2]int{b.bidDepth, b.askDepth},
		Crossed: b.crossed,
		Spread:  b.spread.String(),
	}
}

func externalSide(tree *orderbookv1.LevelTree) map[string][]*orderbookv1.ExternalOrder {
	side := make(map[string][]*orderbookv1.ExternalOrder, tree.Size())
	tree.ForEachAscending(func(lvl *orderbookv1.Level) bool {
		queue := make([]*orderbookv1.ExternalOrder, 0, len(lvl.Orders))
		for _, order := range lvl.Orders {
			queue = append(queue, order.ToExternal())
		}
		side[lvl.Price.String()] = queue
		return true
	})
	return side
}

// Restore replaces the book's state with the given interchange form. Any
// malformed field aborts the restore with a parse error, leaving the book
// unchanged.
func (b *Book) Restore(external *orderbookv1.ExternalBook) error {
	market, err := orderbookv1.ParseAddress(external.Market)
	if err != nil {
		return err
	}

	bids, err := nativeSide(external.Bids)
	if err != nil {
		return err
	}

	asks, err := nativeSide(external.Asks)
	if err != nil {
		return err
	}

	ltp, ok := new(big.Int).SetString(external.LTP, 10)
	if !ok {
		return orderbookv1.ErrInvalidDecimal
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.market = market
	b.bids = bids
	b.asks = asks
	b.ltp = ltp
	b.update()

	return nil
}

func nativeSide(side map[string][]*orderbookv1.ExternalOrder) (*orderbookv1.LevelTree, error) {
	tree := orderbookv1.NewLevelTree()
	for price, queue := range side {
		key, ok := new(big.Int).SetString(price, 10)
		if !ok {
			return nil, orderbookv1.ErrInvalidDecimal
		}

		lvl := tree.UpsertLevel(key)
		for _, external := range queue {
			order, err := external.FromExternal()
			if err != nil {
				return nil, err
			}
			if err := lvl.Add(order); err != nil {
				return nil, err
			}
		}
	}
	return tree, nil
}
