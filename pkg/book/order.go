package book

import (
	"fmt"

	"github.com/nikolaydubina/fpdecimal"
)

// Side represents buy or sell side of an order.
type Side int

// Order sides
const (
	Sell Side = iota
	Buy
)

// String returns side as string
func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// OrderType selects the lifetime policy of an order.
type OrderType string

// Order types
const (
	// GoodTillCancel rests in the book until filled or cancelled.
	GoodTillCancel OrderType = "GTC"
	// ImmediateOrCancel matches what it can immediately; any
	// unmatched remainder is discarded and never rests.
	ImmediateOrCancel OrderType = "IOC"
	// FillOrKill is fully satisfied in one admission attempt or has
	// zero effect on the book.
	FillOrKill OrderType = "FOK"
)

// OrderID identifies an order. Zero is never a valid ID.
type OrderID uint64

// Order stores information about a single order. The remaining
// quantity only ever decreases, through Fill, and only the matching
// sweep calls Fill.
type Order struct {
	id           OrderID
	orderType    OrderType
	side         Side
	price        fpdecimal.Decimal
	initialQty   fpdecimal.Decimal
	remainingQty fpdecimal.Decimal
}

// NewOrder creates a new order. The id must be non-zero and the
// quantity positive.
func NewOrder(orderType OrderType, id OrderID, side Side, price, quantity fpdecimal.Decimal) (*Order, error) {
	if quantity.LessThanOrEqual(fpdecimal.Zero) {
		return nil, ErrInvalidQuantity
	}
	if id == 0 {
		return nil, ErrInvalidOrderID
	}

	return &Order{
		id:           id,
		orderType:    orderType,
		side:         side,
		price:        price,
		initialQty:   quantity,
		remainingQty: quantity,
	}, nil
}

// ID returns the order's identity.
func (o *Order) ID() OrderID {
	return o.id
}

// Side returns the side of the order.
func (o *Order) Side() Side {
	return o.side
}

// Price returns the limit price.
func (o *Order) Price() fpdecimal.Decimal {
	return o.price
}

// OrderType returns the lifetime policy of the order.
func (o *Order) OrderType() OrderType {
	return o.orderType
}

// InitialQuantity returns the quantity the order was created with.
func (o *Order) InitialQuantity() fpdecimal.Decimal {
	return o.initialQty
}

// RemainingQuantity returns the unfilled quantity.
func (o *Order) RemainingQuantity() fpdecimal.Decimal {
	return o.remainingQty
}

// FilledQuantity returns how much of the order has executed.
func (o *Order) FilledQuantity() fpdecimal.Decimal {
	return o.initialQty.Sub(o.remainingQty)
}

// IsFilled reports whether the order has no remaining quantity.
func (o *Order) IsFilled() bool {
	return o.remainingQty.Equal(fpdecimal.Zero)
}

// Fill reduces the remaining quantity. Filling by zero is a no-op.
// Filling past the remaining quantity is unreachable from valid
// matching arithmetic and panics: it signals an engine defect, not
// caller misuse.
func (o *Order) Fill(quantity fpdecimal.Decimal) {
	if quantity.Equal(fpdecimal.Zero) {
		return
	}
	if quantity.LessThan(fpdecimal.Zero) || quantity.GreaterThan(o.remainingQty) {
		panic(fmt.Sprintf("book: order %d cannot be filled for %s with %s remaining",
			o.id, quantity, o.remainingQty))
	}
	o.remainingQty = o.remainingQty.Sub(quantity)
}

// String implements fmt.Stringer interface
func (o *Order) String() string {
	return fmt.Sprintf("%s %s %d %s@%s (%s remaining)",
		o.orderType, o.side, o.id, o.initialQty, o.price, o.remainingQty)
}
