package snapshotv1

import (
	orderbookv1 "github.com/lions-mane/tracer-ome/internal/domain/orderbook/v1"
)

// Snapshot captures the order book state at a specific point in the order
// stream, so a restarted engine can resume from OrderOffset + 1.
type Snapshot struct {
	OrderOffset int64                     `json:"orderOffset"`
	Book        *orderbookv1.ExternalBook `json:"book"`
}
