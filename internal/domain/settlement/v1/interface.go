package settlementv1

import (
	"context"

	orderbookv1 "github.com/lions-mane/tracer-ome/internal/domain/orderbook/v1"
)

// Client talks to the two external settlement collaborators: the validity
// checker consulted before an order enters the book, and the executioner
// that settles matched pairs on-chain.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=settlementv1_mock
type Client interface {
	// CheckOrder asks the validity checker for a verdict on the order. The
	// returned bool is the verdict; a non-nil error means no verdict could be
	// obtained and the order must not be matched.
	CheckOrder(ctx context.Context, order *orderbookv1.Order) (bool, error)
	// ForwardMatch submits a matched maker/taker pair to the executioner and
	// returns the settlement transaction address.
	ForwardMatch(ctx context.Context, maker, taker *orderbookv1.Order) (orderbookv1.Address, error)
}
