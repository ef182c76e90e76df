package book

import (
	"fmt"
	"strings"

	"github.com/nikolaydubina/fpdecimal"
)

// LevelInfo is one aggregated price level of a depth snapshot: the
// price and the summed remaining quantity of every order resting there.
type LevelInfo struct {
	Price    fpdecimal.Decimal
	Quantity fpdecimal.Decimal
}

// DepthSnapshot is a point-in-time aggregation of the book. Bids are
// ordered best (highest) price first, asks best (lowest) price first.
type DepthSnapshot struct {
	bids []LevelInfo
	asks []LevelInfo
}

func newDepthSnapshot(bids, asks []LevelInfo) DepthSnapshot {
	return DepthSnapshot{bids: bids, asks: asks}
}

// Bids returns the aggregated bid levels, best first.
func (s DepthSnapshot) Bids() []LevelInfo {
	return s.bids
}

// Asks returns the aggregated ask levels, best first.
func (s DepthSnapshot) Asks() []LevelInfo {
	return s.asks
}

// String implements fmt.Stringer interface
func (s DepthSnapshot) String() string {
	sb := strings.Builder{}

	sb.WriteString("Ask:")
	for _, level := range s.asks {
		sb.WriteString(fmt.Sprintf("\n%s -> %s", level.Price, level.Quantity))
	}
	sb.WriteString("\n")

	sb.WriteString("Bid:")
	for _, level := range s.bids {
		sb.WriteString(fmt.Sprintf("\n%s -> %s", level.Price, level.Quantity))
	}

	return sb.String()
}
