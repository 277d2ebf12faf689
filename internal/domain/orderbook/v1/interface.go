package orderbookv1

import "time"

// Book defines the matching-engine surface of a single-market order book.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=orderbookv1_mock
type Book interface {
	// Market returns the address of the market this book matches.
	Market() Address
	// Submit runs an incoming order through the matching engine.
	Submit(order *Order) (*MatchResult, error)
	// Cancel removes a resting order, provided the requester owns it.
	Cancel(id OrderID, requester Address) (time.Time, error)
	// Order returns the resting order with the given id, or nil.
	Order(id OrderID) *Order
	// Snapshot converts the book's current state to its interchange form.
	Snapshot() *ExternalBook
	// Restore replaces the book's state with the given interchange form.
	Restore(external *ExternalBook) error
}
