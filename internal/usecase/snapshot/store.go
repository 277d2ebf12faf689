package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	snapshotv1 "github.com/lions-mane/tracer-ome/internal/domain/snapshot/v1"
	"github.com/lions-mane/tracer-ome/pkg/errors"
	"github.com/lions-mane/tracer-ome/pkg/logger"
	"github.com/lions-mane/tracer-ome/pkg/redis"
)

// Store persists book snapshots in Redis, keyed by the market address.
type Store struct {
	market      string
	logger      *logger.Logger
	redisclient redis.Client
}

// NewSnapshotStore creates a new snapshot store for the given market.
func NewSnapshotStore(redisclient redis.Client, market string, log *logger.Logger) *Store {
	return &Store{
		market:      market,
		redisclient: redisclient,
		logger:      log,
	}
}

// Store serialises the snapshot and writes it to Redis.
func (s *Store) Store(ctx context.Context, snapshot *snapshotv1.Snapshot) error {
	buf, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "market",
			Value: s.market,
		})
		return errors.NewTracer(string(errors.SnapshotMarshalError)).Wrap(err)
	}

	if err := s.redisclient.Set(ctx, s.market, buf, 0); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "market",
			Value: s.market,
		}, logger.Field{
			Key:   "action",
			Value: "store snapshot",
		})
		return errors.NewTracer(string(errors.SnapshotStoreError)).Wrap(err)
	}

	s.logger.InfoContext(ctx, fmt.Sprintf("Snapshot stored for market %s", s.market), logger.Field{
		Key:   "orderOffset",
		Value: snapshot.OrderOffset,
	})
	return nil
}

// LoadStore reads the snapshot back from Redis. A missing snapshot is not an
// error: it returns (nil, nil) and the engine starts from an empty book.
func (s *Store) LoadStore(ctx context.Context) (*snapshotv1.Snapshot, error) {
	data, err := s.redisclient.Get(ctx, s.market)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "market",
			Value: s.market,
		}, logger.Field{
			Key:   "action",
			Value: "load snapshot",
		})
		return nil, errors.NewTracer(string(errors.SnapshotLoadError)).Wrap(err)
	}

	if data == "" {
		s.logger.WarnContext(ctx, fmt.Sprintf("No snapshot found for market %s", s.market))
		return nil, nil
	}

	var snapshot snapshotv1.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "market",
			Value: s.market,
		}, logger.Field{
			Key:   "action",
			Value: "unmarshal snapshot",
		})
		return nil, errors.NewTracer(string(errors.SnapshotLoadError)).Wrap(err)
	}

	return &snapshot, nil
}
