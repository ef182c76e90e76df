package book

import (
	"container/list"

	"github.com/huandu/skiplist"
	"github.com/nikolaydubina/fpdecimal"
)

// priceLevel is a single price with a FIFO queue of live orders,
// oldest first. A level whose queue empties is removed from its
// ledger immediately; it never exists empty.
type priceLevel struct {
	price  fpdecimal.Decimal
	orders *list.List // of *Order
}

// totalQuantity sums the remaining quantity across the level's orders.
func (l *priceLevel) totalQuantity() fpdecimal.Decimal {
	total := fpdecimal.Zero
	for e := l.orders.Front(); e != nil; e = e.Next() {
		total = total.Add(e.Value.(*Order).RemainingQuantity())
	}
	return total
}

// ledger is one side of the book: price levels kept in a skip list
// ordered best price first (descending for bids, ascending for asks),
// plus a price index for O(1) level lookup. The level queues own the
// orders; the book's order index only points back into them.
type ledger struct {
	levels *skiplist.SkipList
	elems  map[fpdecimal.Decimal]*skiplist.Element
}

// newBidLedger creates the buy-side ledger, highest price first.
func newBidLedger() *ledger {
	return &ledger{
		levels: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			a, _ := lhs.(fpdecimal.Decimal)
			b, _ := rhs.(fpdecimal.Decimal)

			if a.LessThan(b) {
				return 1
			} else if a.GreaterThan(b) {
				return -1
			}

			return 0
		})),
		elems: make(map[fpdecimal.Decimal]*skiplist.Element),
	}
}

// newAskLedger creates the sell-side ledger, lowest price first.
func newAskLedger() *ledger {
	return &ledger{
		levels: skiplist.New(skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			a, _ := lhs.(fpdecimal.Decimal)
			b, _ := rhs.(fpdecimal.Decimal)

			if a.GreaterThan(b) {
				return 1
			} else if a.LessThan(b) {
				return -1
			}

			return 0
		})),
		elems: make(map[fpdecimal.Decimal]*skiplist.Element),
	}
}

// append adds the order to the tail of its price level, creating the
// level if absent, and returns the level together with the stable
// queue position handle used for later cancellation.
func (ld *ledger) append(order *Order) (*priceLevel, *list.Element) {
	if el, ok := ld.elems[order.Price()]; ok {
		level := el.Value.(*priceLevel)
		return level, level.orders.PushBack(order)
	}

	level := &priceLevel{price: order.Price(), orders: list.New()}
	ld.elems[order.Price()] = ld.levels.Set(order.Price(), level)
	return level, level.orders.PushBack(order)
}

// remove unlinks the order at elem from its level and prunes the
// level when its queue empties. The handle must not be used again.
func (ld *ledger) remove(level *priceLevel, elem *list.Element) {
	level.orders.Remove(elem)
	if level.orders.Len() == 0 {
		ld.removeLevel(level)
	}
}

// removeLevel drops an emptied price level from the ledger.
func (ld *ledger) removeLevel(level *priceLevel) {
	if el, ok := ld.elems[level.price]; ok {
		ld.levels.RemoveElement(el)
		delete(ld.elems, level.price)
	}
}

// best returns the best price level, or nil when the side is empty.
func (ld *ledger) best() *priceLevel {
	el := ld.levels.Front()
	if el == nil {
		return nil
	}
	return el.Value.(*priceLevel)
}

// empty reports whether the side has no resting orders.
func (ld *ledger) empty() bool {
	return ld.levels.Len() == 0
}

// front returns the first (best) skip list element for iteration.
func (ld *ledger) front() *skiplist.Element {
	return ld.levels.Front()
}

// levelInfos aggregates remaining quantity per level, best price first.
func (ld *ledger) levelInfos() []LevelInfo {
	infos := make([]LevelInfo, 0, ld.levels.Len())
	for el := ld.levels.Front(); el != nil; el = el.Next() {
		level := el.Value.(*priceLevel)
		infos = append(infos, LevelInfo{Price: level.price, Quantity: level.totalQuantity()})
	}
	return infos
}
