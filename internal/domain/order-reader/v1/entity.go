package orderreaderv1

import (
	orderbookv1 "github.com/lions-mane/tracer-ome/internal/domain/orderbook/v1"
)

// Action discriminates the kinds of requests arriving on the order topic.
type Action string

const (
	// ActionSubmit asks the engine to match a new order.
	ActionSubmit Action = "submit"
	// ActionCancel asks the engine to remove a resting order.
	ActionCancel Action = "cancel"
)

// OrderRequest is the wire payload of one message on the order topic. Submit
// requests carry the full order; cancel requests carry the order id and the
// requesting trader.
type OrderRequest struct {
	Action Action                     `json:"action"`
	Order  *orderbookv1.ExternalOrder `json:"order,omitempty"`

	// Cancel fields.
	OrderID string `json:"order_id,omitempty"`
	Trader  string `json:"trader,omitempty"`

	// Offset is the position of this request in the topic, filled in by the
	// reader.
	Offset int64 `json:"-"`
}
