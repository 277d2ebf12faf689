package engine

import (
	"context"
	"math/big"
	"strconv"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	matchpublisherv1 "github.com/lions-mane/tracer-ome/internal/domain/match-publisher/v1"
	matchpublishermock "github.com/lions-mane/tracer-ome/internal/domain/match-publisher/v1/mock"
	orderreaderv1 "github.com/lions-mane/tracer-ome/internal/domain/order-reader/v1"
	orderreadermock "github.com/lions-mane/tracer-ome/internal/domain/order-reader/v1/mock"
	orderbookv1 "github.com/lions-mane/tracer-ome/internal/domain/orderbook/v1"
	settlementmock "github.com/lions-mane/tracer-ome/internal/domain/settlement/v1/mock"
	snapshotv1 "github.com/lions-mane/tracer-ome/internal/domain/snapshot/v1"
	snapshotmock "github.com/lions-mane/tracer-ome/internal/domain/snapshot/v1/mock"
	"github.com/lions-mane/tracer-ome/internal/usecase/orderbook"
	"github.com/lions-mane/tracer-ome/pkg/config"
	"github.com/lions-mane/tracer-ome/pkg/errors"
	"github.com/lions-mane/tracer-ome/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test fixtures and helpers
type testFixture struct {
	ctrl               *gomock.Controller
	mockOrderReader    *orderreadermock.MockOrderReader
	mockMatchPublisher *matchpublishermock.MockMatchPublisher
	mockSettlement     *settlementmock.MockClient
	mockSnapshotStore  *snapshotmock.MockStore
	book               *orderbook.Book
	logger             *logger.Logger
	config             *config.Config
}

func testAddress(last byte) orderbookv1.Address {
	var addr orderbookv1.Address
	addr[orderbookv1.AddressLength-1] = last
	return addr
}

var testMarket = testAddress(0xee)

func setupTestFixture(t *testing.T) *testFixture {
	ctrl := gomock.NewController(t)

	log, err := logger.NewLogger(logger.WithLoggingLevel(logger.ErrorLevel))
	require.NoError(t, err)

	return &testFixture{
		ctrl:               ctrl,
		mockOrderReader:    orderreadermock.NewMockOrderReader(ctrl),
		mockMatchPublisher: matchpublishermock.NewMockMatchPublisher(ctrl),
		mockSettlement:     settlementmock.NewMockClient(ctrl),
		mockSnapshotStore:  snapshotmock.NewMockStore(ctrl),
		book:               orderbook.NewBook(testMarket, log),
		logger:             log,
		config: &config.Config{
			Market: testMarket.Hex(),
			OrderIngest: config.KafkaConfig{
				Brokers: []string{"localhost:9092"},
				Topic:   "orders",
			},
			MatchPublisher: config.MatchPublisherConfig{
				Brokers: []string{"localhost:9092"},
				Topic:   "matches",
			},
		},
	}
}

func (f *testFixture) teardown() {
	f.ctrl.Finish()
}

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

func submitRequest(order *orderbookv1.Order) *orderreaderv1.OrderRequest {
	return &orderreaderv1.OrderRequest{
		Action: orderreaderv1.ActionSubmit,
		Order:  order.ToExternal(),
	}
}

// Helper function to create engine with initialized context
func createTestEngine(f *testFixture) *Engine {
	engine := NewEngine(
		f.book,
		f.mockOrderReader,
		f.mockMatchPublisher,
		f.mockSettlement,
		f.mockSnapshotStore,
		f.logger,
		f.config,
	)

	engine.ctx = context.Background()

	return engine
}

func TestNewEngine(t *testing.T) {
	t.Run("starts empty with nil snapshot", func(t *testing.T) {
		f := setupTestFixture(t)
		defer f.teardown()

		f.mockSnapshotStore.EXPECT().
			LoadStore(gomock.Any()).
			Return(nil, nil).
			Times(1)

		engine := createTestEngine(f)
		assert.Equal(t, int64(-1), engine.GetOrderOffset())
	})

	t.Run("restores book and offset from snapshot", func(t *testing.T) {
		f := setupTestFixture(t)
		defer f.teardown()

		resting := createTestOrder(1, orderbookv1.Bid, 100, 10)
		source := orderbook.NewBook(testMarket, f.logger)
		_, err := source.Submit(resting)
		require.NoError(t, err)

		f.mockSnapshotStore.EXPECT().
			LoadStore(gomock.Any()).
			Return(&snapshotv1.Snapshot{
				OrderOffset: 100,
				Book:        source.Snapshot(),
			}, nil).
			Times(1)

		engine := createTestEngine(f)
		assert.Equal(t, int64(100), engine.GetOrderOffset())
		assert.Equal(t, int64(100), engine.GetLastSnapshotOffset())
		assert.NotNil(t, f.book.Order(resting.ID))
	})
}

func TestEngine_ProcessSubmit(t *testing.T) {
	t.Run("places a non-crossing order without publishing", func(t *testing.T) {
		f := setupTestFixture(t)
		defer f.teardown()

		f.mockSnapshotStore.EXPECT().LoadStore(gomock.Any()).Return(nil, nil)
		engine := createTestEngine(f)

		order := createTestOrder(1, orderbookv1.Bid, 100, 10)
		f.mockSettlement.EXPECT().
			CheckOrder(gomock.Any(), gomock.Any()).
			Return(true, nil).
			Times(1)

		require.NoError(t, engine.processRequest(submitRequest(order)))

		assert.NotNil(t, f.book.Order(order.ID))
		assert.Equal(t, int64(0), engine.GetTotalFills())
	})

	t.Run("publishes and forwards fills", func(t *testing.T) {
		f := setupTestFixture(t)
		defer f.teardown()

		f.mockSnapshotStore.EXPECT().LoadStore(gomock.Any()).Return(nil, nil)
		engine := createTestEngine(f)

		maker := createTestOrder(1, orderbookv1.Ask, 100, 10)
		_, err := f.book.Submit(maker)
		require.NoError(t, err)

		taker := createTestOrder(2, orderbookv1.Bid, 100, 10)
		f.mockSettlement.EXPECT().
			CheckOrder(gomock.Any(), gomock.Any()).
			Return(true, nil).
			Times(1)
		f.mockMatchPublisher.EXPECT().
			PublishMatchEvent(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, event *matchpublisherv1.MatchEvent) error {
				assert.Equal(t, testMarket.Hex(), event.Market)
				assert.Equal(t, strconv.FormatUint(maker.ID, 10), event.MakerID)
				assert.Equal(t, "10", event.Quantity)
				assert.Equal(t, "100", event.Price)
				return nil
			}).
			Times(1)
		f.mockSettlement.EXPECT().
			ForwardMatch(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(testAddress(0xaa), nil).
			Times(1)

		require.NoError(t, engine.processRequest(submitRequest(taker)))
		assert.Equal(t, int64(1), engine.GetTotalFills())
	})

	t.Run("forwarding failure does not unwind the match", func(t *testing.T) {
		f := setupTestFixture(t)
		defer f.teardown()

		f.mockSnapshotStore.EXPECT().LoadStore(gomock.Any()).Return(nil, nil)
		engine := createTestEngine(f)

		maker := createTestOrder(1, orderbookv1.Ask, 100, 10)
		_, err := f.book.Submit(maker)
		require.NoError(t, err)

		f.mockSettlement.EXPECT().CheckOrder(gomock.Any(), gomock.Any()).Return(true, nil)
		f.mockMatchPublisher.EXPECT().PublishMatchEvent(gomock.Any(), gomock.Any()).Return(nil)
		f.mockSettlement.EXPECT().
			ForwardMatch(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(orderbookv1.Address{}, errors.NewErrorDetails("down", string(errors.UpstreamUnavailable), "executioner"))

		require.NoError(t, engine.processRequest(submitRequest(createTestOrder(2, orderbookv1.Bid, 100, 10))))
		assert.Equal(t, int64(1), engine.GetTotalFills())
	})

	t.Run("rejected order never reaches the book", func(t *testing.T) {
		f := setupTestFixture(t)
		defer f.teardown()

		f.mockSnapshotStore.EXPECT().LoadStore(gomock.Any()).Return(nil, nil)
		engine := createTestEngine(f)

		order := createTestOrder(1, orderbookv1.Bid, 100, 10)
		f.mockSettlement.EXPECT().
			CheckOrder(gomock.Any(), gomock.Any()).
			Return(false, nil).
			Times(1)

		err := engine.processRequest(submitRequest(order))
		assert.True(t, errors.ErrorCodeEquals(err, errors.OrderCheckRejected))
		assert.Nil(t, f.book.Order(order.ID))
	})

	t.Run("check failure leaves the book untouched", func(t *testing.T) {
		f := setupTestFixture(t)
		defer f.teardown()

		f.mockSnapshotStore.EXPECT().LoadStore(gomock.Any()).Return(nil, nil)
		engine := createTestEngine(f)

		order := createTestOrder(1, orderbookv1.Bid, 100, 10)
		checkErr := errors.NewErrorDetails("down", string(errors.UpstreamUnavailable), "check")
		f.mockSettlement.EXPECT().
			CheckOrder(gomock.Any(), gomock.Any()).
			Return(false, checkErr).
			Times(1)

		err := engine.processRequest(submitRequest(order))
		assert.True(t, errors.ErrorCodeEquals(err, errors.UpstreamUnavailable))
		assert.Nil(t, f.book.Order(order.ID))
	})

	t.Run("malformed order fails decode", func(t *testing.T) {
		f := setupTestFixture(t)
		defer f.teardown()

		f.mockSnapshotStore.EXPECT().LoadStore(gomock.Any()).Return(nil, nil)
		engine := createTestEngine(f)

		request := submitRequest(createTestOrder(1, orderbookv1.Bid, 100, 10))
		request.Order.Side = "Buy"

		err := engine.processRequest(request)
		assert.True(t, errors.ErrorCodeEquals(err, errors.OrderDecodeError))
	})

	t.Run("submit without order payload", func(t *testing.T) {
		f := setupTestFixture(t)
		defer f.teardown()

		f.mockSnapshotStore.EXPECT().LoadStore(gomock.Any()).Return(nil, nil)
		engine := createTestEngine(f)

		err := engine.processRequest(&orderreaderv1.OrderRequest{Action: orderreaderv1.ActionSubmit})
		assert.True(t, errors.ErrorCodeEquals(err, errors.OrderDecodeError))
	})
}

func TestEngine_ProcessCancel(t *testing.T) {
	f := setupTestFixture(t)
	defer f.teardown()

	f.mockSnapshotStore.EXPECT().LoadStore(gomock.Any()).Return(nil, nil)
	engine := createTestEngine(f)

	resting := createTestOrder(1, orderbookv1.Bid, 100, 10)
	_, err := f.book.Submit(resting)
	require.NoError(t, err)

	t.Run("owner cancels", func(t *testing.T) {
		err := engine.processRequest(&orderreaderv1.OrderRequest{
			Action:  orderreaderv1.ActionCancel,
			OrderID: strconv.FormatUint(resting.ID, 10),
			Trader:  testAddress(1).Hex(),
		})
		require.NoError(t, err)
		assert.Nil(t, f.book.Order(resting.ID))
	})

	t.Run("malformed id", func(t *testing.T) {
		err := engine.processRequest(&orderreaderv1.OrderRequest{
			Action:  orderreaderv1.ActionCancel,
			OrderID: "abc",
			Trader:  testAddress(1).Hex(),
		})
		assert.True(t, errors.ErrorCodeEquals(err, errors.OrderDecodeError))
	})

	t.Run("malformed trader", func(t *testing.T) {
		err := engine.processRequest(&orderreaderv1.OrderRequest{
			Action:  orderreaderv1.ActionCancel,
			OrderID: "1",
			Trader:  "0x1",
		})
		assert.True(t, errors.ErrorCodeEquals(err, errors.OrderDecodeError))
	})

	t.Run("unknown order", func(t *testing.T) {
		err := engine.processRequest(&orderreaderv1.OrderRequest{
			Action:  orderreaderv1.ActionCancel,
			OrderID: "999",
			Trader:  testAddress(1).Hex(),
		})
		assert.ErrorIs(t, err, orderbookv1.ErrOrderNotFound)
	})
}

func TestEngine_UnknownAction(t *testing.T) {
	f := setupTestFixture(t)
	defer f.teardown()

	f.mockSnapshotStore.EXPECT().LoadStore(gomock.Any()).Return(nil, nil)
	engine := createTestEngine(f)

	err := engine.processRequest(&orderreaderv1.OrderRequest{Action: "replace"})
	assert.True(t, errors.ErrorCodeEquals(err, errors.OrderDecodeError))
}

func TestEngine_Snapshotting(t *testing.T) {
	f := setupTestFixture(t)
	defer f.teardown()

	f.mockSnapshotStore.EXPECT().LoadStore(gomock.Any()).Return(nil, nil)
	engine := createTestEngine(f)

	t.Run("no snapshot before any order", func(t *testing.T) {
		assert.False(t, engine.shouldCreateSnapshot())
	})

	t.Run("snapshot after offset delta", func(t *testing.T) {
		engine.setOrderOffset(engine.snapshotOffsetDelta + 1)
		require.True(t, engine.shouldCreateSnapshot())

		f.mockSnapshotStore.EXPECT().
			Store(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, snapshot *snapshotv1.Snapshot) error {
				assert.Equal(t, engine.GetOrderOffset(), snapshot.OrderOffset)
				assert.Equal(t, testMarket.Hex(), snapshot.Book.Market)
				return nil
			}).
			Times(1)

		engine.createAndStoreSnapshot()
		assert.Equal(t, engine.GetOrderOffset(), engine.GetLastSnapshotOffset())
		assert.False(t, engine.shouldCreateSnapshot())
	})
}

func TestEngine_StartStop(t *testing.T) {
	f := setupTestFixture(t)
	defer f.teardown()

	f.mockSnapshotStore.EXPECT().LoadStore(gomock.Any()).Return(nil, nil)
	f.mockOrderReader.EXPECT().SetOffset(int64(-1)).Return(nil)
	f.mockOrderReader.EXPECT().
		ReadMessage(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (kafka.Message, *orderreaderv1.OrderRequest, error) {
			<-ctx.Done()
			return kafka.Message{}, nil, ctx.Err()
		}).
		AnyTimes()
	f.mockOrderReader.EXPECT().Close().Return(nil)

	engine := createTestEngine(f)

	ctx := context.Background()
	require.NoError(t, engine.Start(ctx))

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, engine.Stop(stopCtx))
}
