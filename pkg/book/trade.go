package book

import (
	"encoding/json"

	"github.com/nikolaydubina/fpdecimal"
)

// TradeLeg records one side of an execution: which order traded, at
// what price, and for how much.
type TradeLeg struct {
	OrderID  OrderID
	Price    fpdecimal.Decimal
	Quantity fpdecimal.Decimal
}

// Trade is a single match between a bid and an ask. Both legs always
// carry the same execution price and quantity.
type Trade struct {
	Bid TradeLeg
	Ask TradeLeg
}

// MarshalJSON implements Marshaler interface
func (t Trade) MarshalJSON() ([]byte, error) {
	type legJSON struct {
		OrderID  OrderID `json:"orderID"`
		Price    string  `json:"price"`
		Quantity string  `json:"quantity"`
	}

	return json.Marshal(struct {
		Bid legJSON `json:"bid"`
		Ask legJSON `json:"ask"`
	}{
		Bid: legJSON{OrderID: t.Bid.OrderID, Price: t.Bid.Price.String(), Quantity: t.Bid.Quantity.String()},
		Ask: legJSON{OrderID: t.Ask.OrderID, Price: t.Ask.Price.String(), Quantity: t.Ask.Quantity.String()},
	})
}

// String implements fmt.Stringer interface
func (t Trade) String() string {
	j, _ := t.MarshalJSON()
	return string(j)
}
