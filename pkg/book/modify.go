package book

import "github.com/nikolaydubina/fpdecimal"

// OrderModify describes a cancel-and-replace request for an order
// already in the book. The replacement keeps the original's order
// type but takes the side, price and quantity given here.
type OrderModify struct {
	id       OrderID
	side     Side
	price    fpdecimal.Decimal
	quantity fpdecimal.Decimal
}

// NewOrderModify creates a modification request for the given order id.
func NewOrderModify(id OrderID, side Side, price, quantity fpdecimal.Decimal) OrderModify {
	return OrderModify{
		id:       id,
		side:     side,
		price:    price,
		quantity: quantity,
	}
}

// ID returns the id of the order to replace.
func (m OrderModify) ID() OrderID {
	return m.id
}

// Side returns the replacement side.
func (m OrderModify) Side() Side {
	return m.side
}

// Price returns the replacement limit price.
func (m OrderModify) Price() fpdecimal.Decimal {
	return m.price
}

// Quantity returns the replacement quantity.
func (m OrderModify) Quantity() fpdecimal.Decimal {
	return m.quantity
}

// toOrder builds the replacement order carrying the original's type.
func (m OrderModify) toOrder(orderType OrderType) (*Order, error) {
	return NewOrder(orderType, m.id, m.side, m.price, m.quantity)
}
