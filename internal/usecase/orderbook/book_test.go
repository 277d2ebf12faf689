package orderbook

import (
	"math/big"
	"testing"
	"time"

	orderbookv1 "github.com/lions-mane/tracer-ome/internal/domain/orderbook/v1"
	"github.com/lions-mane/tracer-ome/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to build a deterministic address
func testAddress(last byte) orderbookv1.Address {
	var addr orderbookv1.Address
	addr[orderbookv1.AddressLength-1] = last
	return addr
}

var testMarket = testAddress(0xee)

// Helper function to create a test order
func createTestOrder(trader byte, side orderbookv1.Side, price, quantity int64) *orderbookv1.Order {
	return orderbookv1.NewOrder(
		testAddress(trader),
		testMarket,
		side,
		big.NewInt(price),
		big.NewInt(quantity),
		time.Unix(1_700_000_000, 0).UTC(),
		nil,
	)
}

func newTestBook(t *testing.T) *Book {
	t.Helper()

	log, err := logger.NewLogger(logger.WithLoggingLevel(logger.ErrorLevel))
	require.NoError(t, err)

	return NewBook(testMarket, log)
}

func TestNewBook(t *testing.T) {
	book := newTestBook(t)

	assert.Equal(t, testMarket, book.Market())
	assert.Equal(t, int64(0), book.LTP().Int64())
	assert.Equal(t, int64(0), book.Spread().Int64())
	assert.False(t, book.Crossed())

	bidDepth, askDepth := book.Depth()
	assert.Equal(t, 0, bidDepth)
	assert.Equal(t, 0, askDepth)

	bestBid, bestAsk := book.Top()
	assert.Nil(t, bestBid)
	assert.Nil(t, bestAsk)
}

func TestBook_Submit_NilOrder(t *testing.T) {
	book := newTestBook(t)

	result, err := book.Submit(nil)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, orderbookv1.ErrNilOrder)
}

// Scenario: empty book, bid rests without matching.
func TestBook_Submit_PlacedOnEmptyBook(t *testing.T) {
	book := newTestBook(t)

	result, err := book.Submit(createTestOrder(1, orderbookv1.Bid, 100, 10))
	require.NoError(t, err)

	assert.Equal(t, orderbookv1.Placed, result.Status)
	assert.Empty(t, result.Fills)

	bidDepth, askDepth := book.Depth()
	assert.Equal(t, 1, bidDepth)
	assert.Equal(t, 0, askDepth)
	assert.Equal(t, int64(0), book.LTP().Int64())
}

// Scenario: partial match against a smaller resting ask.
func TestBook_Submit_PartialMatch(t *testing.T) {
	book := newTestBook(t)

	_, err := book.Submit(createTestOrder(1, orderbookv1.Ask, 100, 5))
	require.NoError(t, err)

	taker := createTestOrder(2, orderbookv1.Bid, 100, 10)
	result, err := book.Submit(taker)
	require.NoError(t, err)

	assert.Equal(t, orderbookv1.PartialMatch, result.Status)
	require.Len(t, result.Fills, 1)
	assert.Equal(t, int64(5), result.Fills[0].Quantity.Int64())
	assert.Equal(t, int64(100), result.Fills[0].Price.Int64())
	assert.Equal(t, taker.ID, result.Fills[0].Taker)

	assert.Equal(t, int64(5), taker.Remaining.Int64())
	assert.Equal(t, int64(100), book.LTP().Int64())

	bidDepth, askDepth := book.Depth()
	assert.Equal(t, 1, bidDepth)
	assert.Equal(t, 0, askDepth)
}

// Scenario: a crossing submission that only meets the trader's own resting
// order produces no fill and rests in full.
func TestBook_Submit_SelfTradeSkipped(t *testing.T) {
	book := newTestBook(t)

	resting := createTestOrder(1, orderbookv1.Ask, 100, 10)
	_, err := book.Submit(resting)
	require.NoError(t, err)

	incoming := createTestOrder(1, orderbookv1.Bid, 100, 10)
	result, err := book.Submit(incoming)
	require.NoError(t, err)

	assert.Equal(t, orderbookv1.Placed, result.Status)
	assert.Empty(t, result.Fills)
	assert.Equal(t, int64(10), incoming.Remaining.Int64())
	assert.Equal(t, int64(10), resting.Remaining.Int64())

	bidDepth, askDepth := book.Depth()
	assert.Equal(t, 1, bidDepth)
	assert.Equal(t, 1, askDepth)
}

// Scenario: an ask sweeps two bid levels, best price first, FIFO within each.
func TestBook_Submit_PricePriorityAcrossLevels(t *testing.T) {
	book := newTestBook(t)

	betterFirst := createTestOrder(1, orderbookv1.Bid, 105, 5)
	betterSecond := createTestOrder(2, orderbookv1.Bid, 105, 5)
	worse := createTestOrder(3, orderbookv1.Bid, 100, 5)
	for _, order := range []*orderbookv1.Order{betterFirst, betterSecond, worse} {
		_, err := book.Submit(order)
		require.NoError(t, err)
	}

	result, err := book.Submit(createTestOrder(4, orderbookv1.Ask, 100, 15))
	require.NoError(t, err)

	assert.Equal(t, orderbookv1.FullMatch, result.Status)
	require.Len(t, result.Fills, 3)

	// both 105 fills before the 100 fill, arrival order within the level
	assert.Equal(t, betterFirst.ID, result.Fills[0].Maker)
	assert.Equal(t, int64(105), result.Fills[0].Price.Int64())
	assert.Equal(t, betterSecond.ID, result.Fills[1].Maker)
	assert.Equal(t, int64(105), result.Fills[1].Price.Int64())
	assert.Equal(t, worse.ID, result.Fills[2].Maker)
	assert.Equal(t, int64(100), result.Fills[2].Price.Int64())

	// ltp tracks the last level that traded
	assert.Equal(t, int64(100), book.LTP().Int64())

	bidDepth, askDepth := book.Depth()
	assert.Equal(t, 0, bidDepth)
	assert.Equal(t, 0, askDepth)
}

func TestBook_Submit_WalkStopsAtNonViablePrice(t *testing.T) {
	book := newTestBook(t)

	cheap := createTestOrder(1, orderbookv1.Ask, 100, 5)
	expensive := createTestOrder(2, orderbookv1.Ask, 110, 5)
	for _, order := range []*orderbookv1.Order{cheap, expensive} {
		_, err := book.Submit(order)
		require.NoError(t, err)
	}

	result, err := book.Submit(createTestOrder(3, orderbookv1.Bid, 105, 10))
	require.NoError(t, err)

	assert.Equal(t, orderbookv1.PartialMatch, result.Status)
	require.Len(t, result.Fills, 1)
	assert.Equal(t, cheap.ID, result.Fills[0].Maker)

	// the 110 ask is beyond the bid's limit and stays untouched
	assert.Equal(t, int64(5), expensive.Remaining.Int64())

	bidDepth, askDepth := book.Depth()
	assert.Equal(t, 1, bidDepth)
	assert.Equal(t, 1, askDepth)
}

// Conservation: the fills against one incoming order never exceed its
// original quantity, and each fill is bounded by the maker's remaining.
func TestBook_Submit_Conservation(t *testing.T) {
	book := newTestBook(t)

	for i, qty := range []int64{3, 7, 11} {
		_, err := book.Submit(createTestOrder(byte(i+1), orderbookv1.Ask, 100, qty))
		require.NoError(t, err)
	}

	taker := createTestOrder(9, orderbookv1.Bid, 100, 15)
	result, err := book.Submit(taker)
	require.NoError(t, err)

	total := new(big.Int)
	for _, fill := range result.Fills {
		assert.Equal(t, 1, fill.Quantity.Sign())
		total.Add(total, fill.Quantity)
	}
	assert.Zero(t, total.Cmp(taker.Quantity))
	assert.Equal(t, orderbookv1.FullMatch, result.Status)
}

// Never-crossed postcondition: after any submission the best bid stays
// strictly below the best ask whenever both sides are populated.
func TestBook_Submit_NeverCrossed(t *testing.T) {
	book := newTestBook(t)

	submissions := []*orderbookv1.Order{
		createTestOrder(1, orderbookv1.Bid, 100, 10),
		createTestOrder(2, orderbookv1.Ask, 110, 10),
		createTestOrder(3, orderbookv1.Bid, 115, 5),
		createTestOrder(4, orderbookv1.Ask, 95, 8),
		createTestOrder(5, orderbookv1.Bid, 98, 3),
		createTestOrder(6, orderbookv1.Ask, 98, 20),
	}

	for _, order := range submissions {
		_, err := book.Submit(order)
		require.NoError(t, err)

		assert.False(t, book.Crossed())
		bestBid, bestAsk := book.Top()
		if bestBid != nil && bestAsk != nil {
			assert.Equal(t, -1, bestBid.Cmp(bestAsk))
		}
	}
}

func TestBook_Submit_MakersAlignedWithFills(t *testing.T) {
	book := newTestBook(t)

	maker := createTestOrder(1, orderbookv1.Ask, 100, 5)
	_, err := book.Submit(maker)
	require.NoError(t, err)

	result, err := book.Submit(createTestOrder(2, orderbookv1.Bid, 100, 5))
	require.NoError(t, err)

	require.Len(t, result.Fills, 1)
	require.Len(t, result.Makers, 1)
	assert.Equal(t, maker.ID, result.Makers[0].ID)

	// the maker copy survives the prune that already removed the original
	assert.Nil(t, book.Order(maker.ID))
	assert.Equal(t, int64(0), result.Makers[0].Remaining.Int64())
}

// Maintenance is idempotent: re-running it with no intervening mutation
// leaves every derived value unchanged.
func TestBook_MaintenanceIdempotent(t *testing.T) {
	book := newTestBook(t)

	_, err := book.Submit(createTestOrder(1, orderbookv1.Ask, 100, 5))
	require.NoError(t, err)
	_, err = book.Submit(createTestOrder(2, orderbookv1.Bid, 100, 10))
	require.NoError(t, err)
	_, err = book.Submit(createTestOrder(3, orderbookv1.Ask, 110, 3))
	require.NoError(t, err)

	ltp := book.LTP()
	spread := book.Spread()
	crossed := book.Crossed()
	bidDepth, askDepth := book.Depth()

	book.update()
	book.update()

	assert.Zero(t, ltp.Cmp(book.LTP()))
	assert.Zero(t, spread.Cmp(book.Spread()))
	assert.Equal(t, crossed, book.Crossed())

	bidAfter, askAfter := book.Depth()
	assert.Equal(t, bidDepth, bidAfter)
	assert.Equal(t, askDepth, askAfter)
}

func TestBook_Spread(t *testing.T) {
	book := newTestBook(t)

	_, err := book.Submit(createTestOrder(1, orderbookv1.Bid, 95, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(0), book.Spread().Int64())

	_, err = book.Submit(createTestOrder(2, orderbookv1.Ask, 105, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(10), book.Spread().Int64())
}

func TestBook_Order(t *testing.T) {
	book := newTestBook(t)

	resting := createTestOrder(1, orderbookv1.Bid, 100, 10)
	_, err := book.Submit(resting)
	require.NoError(t, err)

	assert.Equal(t, resting, book.Order(resting.ID))
	assert.Nil(t, book.Order(12345))
}

func TestBook_Cancel(t *testing.T) {
	book := newTestBook(t)

	resting := createTestOrder(1, orderbookv1.Bid, 100, 10)
	_, err := book.Submit(resting)
	require.NoError(t, err)

	t.Run("wrong owner", func(t *testing.T) {
		_, err := book.Cancel(resting.ID, testAddress(2))
		assert.ErrorIs(t, err, orderbookv1.ErrNotOwner)
		assert.NotNil(t, book.Order(resting.ID))
	})

	t.Run("owner cancels", func(t *testing.T) {
		cancelledAt, err := book.Cancel(resting.ID, testAddress(1))
		require.NoError(t, err)
		assert.False(t, cancelledAt.IsZero())
		assert.Nil(t, book.Order(resting.ID))

		bidDepth, _ := book.Depth()
		assert.Equal(t, 0, bidDepth)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := book.Cancel(999, testAddress(1))
		assert.ErrorIs(t, err, orderbookv1.ErrOrderNotFound)
	})
}

func TestBook_SnapshotRestore(t *testing.T) {
	book := newTestBook(t)

	orders := []*orderbookv1.Order{
		createTestOrder(1, orderbookv1.Bid, 95, 10),
		createTestOrder(2, orderbookv1.Bid, 90, 4),
		createTestOrder(3, orderbookv1.Ask, 105, 7),
	}
	for _, order := range orders {
		_, err := book.Submit(order)
		require.NoError(t, err)
	}

	external := book.Snapshot()
	assert.Equal(t, testMarket.Hex(), external.Market)
	assert.Equal(t, [2]int{2, 1}, external.Depth)
	assert.False(t, external.Crossed)

	restored := newTestBook(t)
	require.NoError(t, restored.Restore(external))

	assert.Equal(t, book.Market(), restored.Market())
	assert.Zero(t, book.LTP().Cmp(restored.LTP()))
	assert.Zero(t, book.Spread().Cmp(restored.Spread()))

	bidDepth, askDepth := restored.Depth()
	assert.Equal(t, 2, bidDepth)
	assert.Equal(t, 1, askDepth)

	for _, order := range orders {
		found := restored.Order(order.ID)
		require.NotNil(t, found, "order %d missing after restore", order.ID)
		assert.Zero(t, order.Remaining.Cmp(found.Remaining))
	}

	// matching continues seamlessly on the restored book
	result, err := restored.Submit(createTestOrder(4, orderbookv1.Ask, 95, 10))
	require.NoError(t, err)
	assert.Equal(t, orderbookv1.FullMatch, result.Status)
}

func TestBook_Restore_MalformedInput(t *testing.T) {
	book := newTestBook(t)

	t.Run("bad market", func(t *testing.T) {
		err := book.Restore(&orderbookv1.ExternalBook{Market: "nope", LTP: "0"})
		assert.ErrorIs(t, err, orderbookv1.ErrInvalidAddress)
	})

	t.Run("bad level price", func(t *testing.T) {
		err := book.Restore(&orderbookv1.ExternalBook{
			Market: testMarket.Hex(),
			Bids:   map[string][]*orderbookv1.ExternalOrder{"abc": {}},
			LTP:    "0",
		})
		assert.ErrorIs(t, err, orderbookv1.ErrInvalidDecimal)
	})

	t.Run("bad ltp", func(t *testing.T) {
		err := book.Restore(&orderbookv1.ExternalBook{Market: testMarket.Hex(), LTP: "x"})
		assert.ErrorIs(t, err, orderbookv1.ErrInvalidDecimal)
	})
}
