package book

import (
	"container/list"
	"sync"

	"github.com/nikolaydubina/fpdecimal"
	"github.com/rs/zerolog"

	"github.com/quantrian/limitbook/pkg/perf"
)

// Operation names reported to the performance tracker.
const (
	OpAddOrderSuccess     = "AddOrder_Success"
	OpAddOrderRejected    = "AddOrder_Rejected"
	OpCancelOrderSuccess  = "CancelOrder_Success"
	OpCancelOrderNotFound = "CancelOrder_NotFound"
	OpMatchOrderSuccess   = "MatchOrder_Success"
	OpMatchOrderNotFound  = "MatchOrder_NotFound"
	OpMatchOrders         = "MatchOrders"
	OpSize                = "Size"
	OpGetOrderInfos       = "GetOrderInfos"
)

// orderEntry links a live order to its position in the price level
// queue so cancels and modifies stay O(1). The level queue owns the
// order; the entry only points back into it and is dropped the
// instant the order leaves the book.
type orderEntry struct {
	order *Order
	level *priceLevel
	elem  *list.Element
}

// OrderBook is a thread-safe limit order book with price-time
// priority matching.
//
// A single readers-writer lock guards the ledgers and the order
// index. Writers (add, cancel, modify) hold it exclusively for the
// whole logical operation, matching sweep included, so submission and
// its resulting matches are atomic with respect to every other
// caller. Readers (size, depth) share it and always observe a
// complete, non-crossed book. Methods suffixed Locked assume the lock
// is held and are the only ones callable from inside another
// operation: public entry points never call other public entry points.
type OrderBook struct {
	mu     sync.RWMutex
	bids   *ledger
	asks   *ledger
	orders map[OrderID]orderEntry

	logger  zerolog.Logger
	tracker *perf.Tracker
}

// Option configures an OrderBook.
type Option func(*OrderBook)

// WithLogger sets the logger used for order lifecycle events.
func WithLogger(logger zerolog.Logger) Option {
	return func(ob *OrderBook) {
		ob.logger = logger
	}
}

// WithTracker attaches a performance tracker. The tracker observes
// public calls and matching sweeps and never influences results or
// control flow.
func WithTracker(tracker *perf.Tracker) Option {
	return func(ob *OrderBook) {
		ob.tracker = tracker
	}
}

// NewOrderBook creates an empty order book.
func NewOrderBook(opts ...Option) *OrderBook {
	ob := &OrderBook{
		bids:    newBidLedger(),
		asks:    newAskLedger(),
		orders:  make(map[OrderID]orderEntry),
		logger:  zerolog.Nop(),
		tracker: perf.Disabled(),
	}

	for _, opt := range opts {
		opt(ob)
	}

	return ob
}

// Tracker returns the attached performance tracker.
func (ob *OrderBook) Tracker() *perf.Tracker {
	return ob.tracker
}

// AddOrder admits an order and runs the matching sweep, returning the
// trades it produced. Rejections are silent (empty result): nil
// order, zero id, zero remaining quantity, duplicate id, an
// immediate-or-cancel order whose price cannot cross the opposing
// best, or a fill-or-kill order the opposing side cannot fully
// satisfy. Callers learn the outcome from the returned trades and the
// book state, never from an error.
func (ob *OrderBook) AddOrder(order *Order) []Trade {
	start := ob.tracker.Start()

	ob.mu.Lock()
	trades, admitted := ob.addOrderLocked(order)
	ob.mu.Unlock()

	if admitted {
		ob.tracker.Record(OpAddOrderSuccess, start, 1)
	} else {
		ob.tracker.Record(OpAddOrderRejected, start, 0)
	}
	return trades
}

// CancelOrder removes the order with the given id from the book.
// Unknown ids are a silent no-op. Cancellation never triggers matching.
func (ob *OrderBook) CancelOrder(id OrderID) {
	start := ob.tracker.Start()

	ob.mu.Lock()
	ok := ob.cancelOrderLocked(id)
	ob.mu.Unlock()

	if ok {
		ob.tracker.Record(OpCancelOrderSuccess, start, 1)
	} else {
		ob.tracker.Record(OpCancelOrderNotFound, start, 0)
	}
}

// MatchOrder modifies an existing order by cancel-and-replace: the
// original is cancelled and a brand-new order with the modification's
// side, price and quantity (and the original's order type) goes
// through the normal admission path, gates and matching included. The
// replacement always joins the tail of its level, so time priority is
// reset even when the price is unchanged. Unknown ids are a silent
// no-op with an empty trade result.
func (ob *OrderBook) MatchOrder(modify OrderModify) []Trade {
	start := ob.tracker.Start()

	ob.mu.Lock()
	trades, found := ob.matchOrderLocked(modify)
	ob.mu.Unlock()

	if found {
		ob.tracker.Record(OpMatchOrderSuccess, start, 1)
	} else {
		ob.tracker.Record(OpMatchOrderNotFound, start, 0)
	}
	return trades
}

// Size returns the number of live orders in the book.
func (ob *OrderBook) Size() int {
	start := ob.tracker.Start()

	ob.mu.RLock()
	n := len(ob.orders)
	ob.mu.RUnlock()

	ob.tracker.Record(OpSize, start, 0)
	return n
}

// GetOrderInfos returns a consistent point-in-time aggregation of the
// book: per-side (price, total remaining quantity) levels, bids
// descending and asks ascending. It has no side effects.
func (ob *OrderBook) GetOrderInfos() DepthSnapshot {
	start := ob.tracker.Start()

	ob.mu.RLock()
	bids := ob.bids.levelInfos()
	asks := ob.asks.levelInfos()
	n := len(ob.orders)
	ob.mu.RUnlock()

	ob.tracker.Record(OpGetOrderInfos, start, n)
	return newDepthSnapshot(bids, asks)
}

// Clear drops every resting order and price level.
func (ob *OrderBook) Clear() {
	ob.mu.Lock()
	ob.bids = newBidLedger()
	ob.asks = newAskLedger()
	ob.orders = make(map[OrderID]orderEntry)
	ob.mu.Unlock()
}

// String implements fmt.Stringer interface
func (ob *OrderBook) String() string {
	return ob.GetOrderInfos().String()
}

// internal methods, called with ob.mu held

func (ob *OrderBook) addOrderLocked(order *Order) ([]Trade, bool) {
	if order == nil || order.ID() == 0 || order.RemainingQuantity().LessThanOrEqual(fpdecimal.Zero) {
		return nil, false
	}
	if _, exists := ob.orders[order.ID()]; exists {
		ob.logger.Debug().Uint64("order_id", uint64(order.ID())).Msg("duplicate order rejected")
		return nil, false
	}

	// Admission gates run before any insertion, so a rejected IOC or
	// FOK order has zero effect on the book.
	switch order.OrderType() {
	case ImmediateOrCancel:
		if !ob.canMatchLocked(order.Side(), order.Price()) {
			ob.logger.Debug().Uint64("order_id", uint64(order.ID())).Msg("IOC order cannot cross, rejected")
			return nil, false
		}
	case FillOrKill:
		if !ob.canFillCompletelyLocked(order.Side(), order.Price(), order.RemainingQuantity()) {
			ob.logger.Debug().Uint64("order_id", uint64(order.ID())).Msg("FOK order cannot fill completely, rejected")
			return nil, false
		}
	}

	level, elem := ob.ledger(order.Side()).append(order)
	ob.orders[order.ID()] = orderEntry{order: order, level: level, elem: elem}

	ob.logger.Debug().
		Uint64("order_id", uint64(order.ID())).
		Str("side", order.Side().String()).
		Str("type", string(order.OrderType())).
		Str("price", order.Price().String()).
		Str("quantity", order.RemainingQuantity().String()).
		Msg("order admitted")

	return ob.matchOrdersLocked(order.ID()), true
}

func (ob *OrderBook) cancelOrderLocked(id OrderID) bool {
	entry, ok := ob.orders[id]
	if !ok {
		return false
	}

	ob.ledger(entry.order.Side()).remove(entry.level, entry.elem)
	delete(ob.orders, id)

	ob.logger.Debug().Uint64("order_id", uint64(id)).Msg("order cancelled")
	return true
}

func (ob *OrderBook) matchOrderLocked(modify OrderModify) ([]Trade, bool) {
	entry, ok := ob.orders[modify.ID()]
	if !ok {
		return nil, false
	}

	orderType := entry.order.OrderType()
	ob.cancelOrderLocked(modify.ID())

	replacement, err := modify.toOrder(orderType)
	if err != nil {
		// The original is gone; an invalid replacement is rejected
		// silently like any other admission failure.
		ob.logger.Debug().Uint64("order_id", uint64(modify.ID())).Err(err).Msg("replacement order rejected")
		return nil, true
	}

	trades, _ := ob.addOrderLocked(replacement)
	return trades, true
}

// matchOrdersLocked sweeps the crossed region of the two ledgers.
// aggressor is the id of the order the current operation just
// inserted; its counterparty is by definition resting, and the
// resting price is used for both legs of each trade.
func (ob *OrderBook) matchOrdersLocked(aggressor OrderID) []Trade {
	// Recorded while the book lock is held; the tracker's counters are
	// atomics and its histogram mutex is never taken by book code, so
	// there is no lock interaction.
	start := ob.tracker.Start()

	var trades []Trade

	for !ob.bids.empty() && !ob.asks.empty() {
		bidLevel := ob.bids.best()
		askLevel := ob.asks.best()

		if bidLevel.price.LessThan(askLevel.price) {
			break
		}

		for bidLevel.orders.Len() > 0 && askLevel.orders.Len() > 0 {
			bid := bidLevel.orders.Front().Value.(*Order)
			ask := askLevel.orders.Front().Value.(*Order)

			quantity := minQuantity(bid.RemainingQuantity(), ask.RemainingQuantity())

			bid.Fill(quantity)
			ask.Fill(quantity)

			price := restingPrice(bid, ask, aggressor)
			trades = append(trades, Trade{
				Bid: TradeLeg{OrderID: bid.ID(), Price: price, Quantity: quantity},
				Ask: TradeLeg{OrderID: ask.ID(), Price: price, Quantity: quantity},
			})

			ob.logger.Debug().
				Uint64("bid_id", uint64(bid.ID())).
				Uint64("ask_id", uint64(ask.ID())).
				Str("price", price.String()).
				Str("quantity", quantity.String()).
				Msg("trade executed")

			if bid.IsFilled() {
				delete(ob.orders, bid.ID())
				bidLevel.orders.Remove(bidLevel.orders.Front())
			}
			if ask.IsFilled() {
				delete(ob.orders, ask.ID())
				askLevel.orders.Remove(askLevel.orders.Front())
			}
		}

		if bidLevel.orders.Len() == 0 {
			ob.bids.removeLevel(bidLevel)
		}
		if askLevel.orders.Len() == 0 {
			ob.asks.removeLevel(askLevel)
		}
	}

	// Any IOC or FOK order still indexed after the sweep is a
	// residual that must not rest. Only the just-inserted aggressor
	// can normally hit this, but the scan is defensive.
	var residual []OrderID
	for id, entry := range ob.orders {
		switch entry.order.OrderType() {
		case ImmediateOrCancel, FillOrKill:
			residual = append(residual, id)
		}
	}
	for _, id := range residual {
		ob.cancelOrderLocked(id)
	}

	ob.tracker.Record(OpMatchOrders, start, len(trades))
	return trades
}

// canMatchLocked reports whether an order at the given price would
// cross the opposing best. Used by the immediate-or-cancel gate.
func (ob *OrderBook) canMatchLocked(side Side, price fpdecimal.Decimal) bool {
	best := ob.ledger(side.Opposite()).best()
	if best == nil {
		return false
	}
	return crosses(side, price, best.price)
}

// canFillCompletelyLocked reports whether the opposing side holds
// enough remaining quantity, scanned from the best price outward
// while the price still crosses, to satisfy quantity in full. Used by
// the fill-or-kill gate before any insertion.
func (ob *OrderBook) canFillCompletelyLocked(side Side, price, quantity fpdecimal.Decimal) bool {
	available := fpdecimal.Zero

	for el := ob.ledger(side.Opposite()).front(); el != nil; el = el.Next() {
		level := el.Value.(*priceLevel)
		if !crosses(side, price, level.price) {
			break
		}
		for e := level.orders.Front(); e != nil; e = e.Next() {
			available = available.Add(e.Value.(*Order).RemainingQuantity())
			if available.GreaterThanOrEqual(quantity) {
				return true
			}
		}
	}

	return false
}

func (ob *OrderBook) ledger(side Side) *ledger {
	if side == Buy {
		return ob.bids
	}
	return ob.asks
}

// crosses reports whether a limit price on side crosses a price on
// the opposing side.
func crosses(side Side, limit, opposing fpdecimal.Decimal) bool {
	if side == Buy {
		return limit.GreaterThanOrEqual(opposing)
	}
	return limit.LessThanOrEqual(opposing)
}

// restingPrice picks the execution price for a matched pair: the
// resting order's price on both legs, giving the aggressor any price
// improvement. Two resting orders can only pair when a modify closes
// a gap between them; the ask price is used then.
func restingPrice(bid, ask *Order, aggressor OrderID) fpdecimal.Decimal {
	if ask.ID() == aggressor {
		return bid.Price()
	}
	return ask.Price()
}

// minQuantity returns the smaller of two quantities.
func minQuantity(a, b fpdecimal.Decimal) fpdecimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
