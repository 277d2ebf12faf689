package engine

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	matchpublisherv1 "github.com/lions-mane/tracer-ome/internal/domain/match-publisher/v1"
	orderreaderv1 "github.com/lions-mane/tracer-ome/internal/domain/order-reader/v1"
	orderbookv1 "github.com/lions-mane/tracer-ome/internal/domain/orderbook/v1"
	settlementv1 "github.com/lions-mane/tracer-ome/internal/domain/settlement/v1"
	snapshotv1 "github.com/lions-mane/tracer-ome/internal/domain/snapshot/v1"
	"github.com/lions-mane/tracer-ome/pkg/config"
	"github.com/lions-mane/tracer-ome/pkg/errors"
	"github.com/lions-mane/tracer-ome/pkg/logger"
)

// Engine drives the matching loop for one market: it consumes order
// requests, runs them through the external validity check and the book,
// publishes the resulting fills, forwards matched pairs to the executioner
// and snapshots the book periodically.
type Engine struct {
	// Core components
	book           orderbookv1.Book
	orderReader    orderreaderv1.OrderReader
	matchPublisher matchpublisherv1.MatchPublisher
	settlement     settlementv1.Client
	snapshotStore  snapshotv1.Store
	logger         *logger.Logger
	config         *config.Config

	mu                 sync.RWMutex
	orderOffset        int64
	lastSnapshotOffset int64

	// Shutdown coordination
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	snapshotInterval    time.Duration
	snapshotOffsetDelta int64

	totalFills int64
	fillsMutex sync.RWMutex
}

// NewEngine creates a new instance of Engine with the provided dependencies.
func NewEngine(
	book orderbookv1.Book,
	orderReader orderreaderv1.OrderReader,
	matchPublisher matchpublisherv1.MatchPublisher,
	settlement settlementv1.Client,
	snapshotStore snapshotv1.Store,
	log *logger.Logger,
	cfg *config.Config,
) *Engine {
	return NewEngineWithOptions(book, orderReader, matchPublisher, settlement, snapshotStore, log, cfg, DefaultEngineOptions())
}

// NewEngineWithOptions creates a new engine with custom options
func NewEngineWithOptions(
	book orderbookv1.Book,
	orderReader orderreaderv1.OrderReader,
	matchPublisher matchpublisherv1.MatchPublisher,
	settlement settlementv1.Client,
	snapshotStore snapshotv1.Store,
	log *logger.Logger,
	cfg *config.Config,
	options *Options,
) *Engine {
	e := &Engine{
		book:           book,
		orderReader:    orderReader,
		matchPublisher: matchPublisher,
		settlement:     settlement,
		snapshotStore:  snapshotStore,
		logger:         log,
		config:         cfg,

		snapshotInterval:    options.SnapshotInterval,
		snapshotOffsetDelta: options.SnapshotOffsetDelta,
		orderOffset:         -1,
	}

	// Restore from the last snapshot during initialization
	if err := e.loadSnapshot(context.Background()); err != nil {
		e.logger.Fatal("Failed to load snapshot", logger.Field{
			Key:   "error",
			Value: err,
		})
	}

	return e
}

// Start launches the processing routines.
func (e *Engine) Start(ctx context.Context) error {
	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(2)
	go e.runOrderProcessor()
	go e.runSnapshotManager()

	e.logger.Info("Engine started", logger.Field{
		Key:   "market",
		Value: e.config.Market,
	})

	return nil
}

// Stop gracefully shuts down the engine
func (e *Engine) Stop(ctx context.Context) error {
	if e.cancel != nil {
		e.cancel()
	}

	// Wait for goroutines to finish with timeout
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("Engine stopped gracefully")
		return nil
	case <-ctx.Done():
		e.logger.Warn("Engine stop timeout exceeded")
		return ctx.Err()
	}
}

// runOrderProcessor reads and processes order requests in a single goroutine.
// One goroutine per market keeps submissions for a market serialized, which
// the book requires.
func (e *Engine) runOrderProcessor() {
	defer e.wg.Done()

	e.logger.Info("Starting order processor", logger.Field{
		Key:   "market",
		Value: e.config.Market,
	})

	// Resume one past the last snapshotted request
	currentOffset := e.getOrderOffset()
	if currentOffset > 0 {
		currentOffset++
	}

	if err := e.orderReader.SetOffset(currentOffset); err != nil {
		e.logger.Fatal("Failed to set offset for order reader", logger.Field{
			Key:   "error",
			Value: err,
		})
	}

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Order processor shutting down")
			e.orderReader.Close()
			return
		default:
			msg, request, err := e.orderReader.ReadMessage(e.ctx)
			if err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "read_order_message",
				})
				// Simple backoff
				time.Sleep(100 * time.Millisecond)
				continue
			}

			if err := e.processRequest(request); err != nil {
				e.logger.ErrorContext(e.ctx, err, logger.Field{
					Key:   "action",
					Value: "process_order",
				})
				// The request is consumed either way; the offset advances so a
				// restart does not replay a rejected order.
			}

			e.setOrderOffset(msg.Offset)
		}
	}
}

// runSnapshotManager handles periodic snapshots
func (e *Engine) runSnapshotManager() {
	defer e.wg.Done()

	ticker := time.NewTicker(e.snapshotInterval)
	defer ticker.Stop()

	e.logger.Info("Starting snapshot manager")

	for {
		select {
		case <-e.ctx.Done():
			e.logger.Info("Snapshot manager shutting down")
			return
		case <-ticker.C:
			if e.shouldCreateSnapshot() {
				e.createAndStoreSnapshot()
			}
		}
	}
}

// processRequest dispatches a single order request.
func (e *Engine) processRequest(request *orderreaderv1.OrderRequest) error {
	e.logger.Debug("Processing request",
		logger.Field{Key: "action", Value: request.Action},
		logger.Field{Key: "offset", Value: request.Offset},
	)

	switch request.Action {
	case orderreaderv1.ActionSubmit:
		return e.processSubmit(request)
	case orderreaderv1.ActionCancel:
		return e.processCancel(request)
	default:
		return errors.NewErrorDetails(
			fmt.Sprintf("unknown action %q", request.Action),
			string(errors.OrderDecodeError),
			"action",
		)
	}
}

// processSubmit decodes and validates an incoming order, matches it, then
// publishes and forwards the resulting fills.
func (e *Engine) processSubmit(request *orderreaderv1.OrderRequest) error {
	if request.Order == nil {
		return errors.NewErrorDetails("submit request carries no order", string(errors.OrderDecodeError), "order")
	}

	order, err := request.Order.FromExternal()
	if err != nil {
		return errors.NewErrorDetailsWithObject(err.Error(), string(errors.OrderDecodeError), "order", request.Order)
	}

	valid, err := e.settlement.CheckOrder(e.ctx, order)
	if err != nil {
		return err
	}
	if !valid {
		return errors.NewErrorDetails(
			fmt.Sprintf("order %d rejected by validity check", order.ID),
			string(errors.OrderCheckRejected),
			"order",
		)
	}

	result, err := e.book.Submit(order)
	if err != nil {
		return err
	}

	if len(result.Fills) > 0 {
		e.handleFills(order, result)
	}

	return nil
}

// processCancel removes a resting order on behalf of its owner.
func (e *Engine) processCancel(request *orderreaderv1.OrderRequest) error {
	id, err := strconv.ParseUint(request.OrderID, 10, 64)
	if err != nil {
		return errors.NewErrorDetails(
			fmt.Sprintf("invalid order id %q", request.OrderID),
			string(errors.OrderDecodeError),
			"order_id",
		)
	}

	trader, err := orderbookv1.ParseAddress(request.Trader)
	if err != nil {
		return errors.NewErrorDetails(err.Error(), string(errors.OrderDecodeError), "trader")
	}

	cancelledAt, err := e.book.Cancel(id, trader)
	if err != nil {
		return err
	}

	e.logger.Info("Order cancelled",
		logger.Field{Key: "orderID", Value: id},
		logger.Field{Key: "cancelledAt", Value: cancelledAt},
	)
	return nil
}

// handleFills publishes every fill to the match topic and forwards each
// maker/taker pair to the executioner. Both are best-effort: the book state
// is already final, so a downstream failure is logged and skipped rather
// than unwinding the match.
func (e *Engine) handleFills(taker *orderbookv1.Order, result *orderbookv1.MatchResult) {
	e.fillsMutex.Lock()
	e.totalFills += int64(len(result.Fills))
	currentTotal := e.totalFills
	e.fillsMutex.Unlock()

	e.logger.Info("Fills executed",
		logger.Field{Key: "fillCount", Value: len(result.Fills)},
		logger.Field{Key: "totalFills", Value: currentTotal},
		logger.Field{Key: "status", Value: result.Status.String()},
	)

	market := e.book.Market()
	now := time.Now().UTC()

	for i, fill := range result.Fills {
		maker := result.Makers[i]

		event := matchpublisherv1.CreateFromFill(market, fill, maker, taker, result.Status, now)
		if err := e.matchPublisher.PublishMatchEvent(e.ctx, event); err != nil {
			e.logger.ErrorContext(e.ctx, err, logger.Field{
				Key:   "action",
				Value: "publish_match_event",
			})
		}

		tx, err := e.settlement.ForwardMatch(e.ctx, maker, taker)
		if err != nil {
			e.logger.ErrorContext(e.ctx, err, logger.Field{
				Key:   "action",
				Value: "forward_match",
			})
			continue
		}

		e.logger.Info("Trade executed",
			logger.Field{Key: "fillIndex", Value: i + 1},
			logger.Field{Key: "price", Value: fill.Price.String()},
			logger.Field{Key: "quantity", Value: fill.Quantity.String()},
			logger.Field{Key: "makerID", Value: fill.Maker},
			logger.Field{Key: "takerID", Value: fill.Taker},
			logger.Field{Key: "tx", Value: tx.Hex()},
		)
	}
}

// shouldCreateSnapshot checks if a snapshot should be created
func (e *Engine) shouldCreateSnapshot() bool {
	e.mu.RLock()
	currentOffset := e.orderOffset
	lastSnapshotOffset := e.lastSnapshotOffset
	e.mu.RUnlock()

	if currentOffset <= 0 {
		return false
	}

	delta := currentOffset - lastSnapshotOffset
	return delta >= e.snapshotOffsetDelta
}

// createAndStoreSnapshot creates and stores a snapshot
func (e *Engine) createAndStoreSnapshot() {
	currentOffset := e.getOrderOffset()

	e.logger.Info("Creating snapshot", logger.Field{
		Key:   "currentOffset",
		Value: currentOffset,
	})

	snapshot := &snapshotv1.Snapshot{
		OrderOffset: currentOffset,
		Book:        e.book.Snapshot(),
	}

	if err := e.snapshotStore.Store(e.ctx, snapshot); err != nil {
		e.logger.ErrorContext(e.ctx, err, logger.Field{
			Key:   "action",
			Value: "store_snapshot",
		})
	} else {
		e.setLastSnapshotOffset(currentOffset)
		e.logger.Info("Snapshot stored successfully", logger.Field{
			Key:   "market",
			Value: e.config.Market,
		}, logger.Field{
			Key:   "offset",
			Value: currentOffset,
		})
	}
}

// Thread-safe getters and setters
func (e *Engine) getOrderOffset() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.orderOffset
}

func (e *Engine) setOrderOffset(offset int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.orderOffset = offset
}

func (e *Engine) getLastSnapshotOffset() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastSnapshotOffset
}

func (e *Engine) setLastSnapshotOffset(offset int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSnapshotOffset = offset
}

// loadSnapshot loads and restores the book from the last snapshot
func (e *Engine) loadSnapshot(ctx context.Context) error {
	snapshot, err := e.snapshotStore.LoadStore(ctx)
	if err != nil {
		return err
	}

	if snapshot != nil && snapshot.Book != nil {
		if err := e.book.Restore(snapshot.Book); err != nil {
			return err
		}

		e.mu.Lock()
		e.orderOffset = snapshot.OrderOffset
		e.lastSnapshotOffset = snapshot.OrderOffset
		e.mu.Unlock()

		e.logger.Info("Book restored from snapshot", logger.Field{
			Key:   "orderOffset",
			Value: snapshot.OrderOffset,
		})
	}

	return nil
}

// GetOrderOffset returns the current order offset
func (e *Engine) GetOrderOffset() int64 {
	return e.getOrderOffset()
}

// GetLastSnapshotOffset returns the last snapshot offset
func (e *Engine) GetLastSnapshotOffset() int64 {
	return e.getLastSnapshotOffset()
}

// GetTotalFills returns the total number of fills processed
func (e *Engine) GetTotalFills() int64 {
	e.fillsMutex.RLock()
	defer e.fillsMutex.RUnlock()
	return e.totalFills
}
