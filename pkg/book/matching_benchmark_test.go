package book

import (
	"testing"

	"github.com/nikolaydubina/fpdecimal"
)

// Core throughput benchmarks. Run with:
//
//	go test -bench=. -benchmem ./pkg/book/
func BenchmarkAddOrderResting(b *testing.B) {
	ob := NewOrderBook()
	price := fpdecimal.FromInt(100)
	quantity := fpdecimal.FromInt(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		order, err := NewOrder(GoodTillCancel, OrderID(i+1), Buy, price, quantity)
		if err != nil {
			b.Fatalf("Failed to create order: %v", err)
		}
		ob.AddOrder(order)
	}
}

func BenchmarkAddOrderMatching(b *testing.B) {
	ob := NewOrderBook()
	quantity := fpdecimal.FromInt(1)

	// Seed resting sell orders across a band of prices.
	for i := 0; i < 1000; i++ {
		price := fpdecimal.FromInt(100 + i%10)
		order, err := NewOrder(GoodTillCancel, OrderID(i+1), Sell, price, fpdecimal.FromInt(1_000_000))
		if err != nil {
			b.Fatalf("Failed to create sell order: %v", err)
		}
		ob.AddOrder(order)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		order, err := NewOrder(ImmediateOrCancel, OrderID(1_000_000+i), Buy, fpdecimal.FromInt(110), quantity)
		if err != nil {
			b.Fatalf("Failed to create buy order: %v", err)
		}
		ob.AddOrder(order)
	}
}

func BenchmarkCancelOrder(b *testing.B) {
	ob := NewOrderBook()
	quantity := fpdecimal.FromInt(1)

	for i := 0; i < b.N; i++ {
		price := fpdecimal.FromInt(100 + i%50)
		order, err := NewOrder(GoodTillCancel, OrderID(i+1), Buy, price, quantity)
		if err != nil {
			b.Fatalf("Failed to create order: %v", err)
		}
		ob.AddOrder(order)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ob.CancelOrder(OrderID(i + 1))
	}
}

func BenchmarkGetOrderInfos(b *testing.B) {
	ob := NewOrderBook()
	quantity := fpdecimal.FromInt(1)

	for i := 0; i < 1000; i++ {
		order, err := NewOrder(GoodTillCancel, OrderID(i+1), Buy, fpdecimal.FromInt(50+i%50), quantity)
		if err != nil {
			b.Fatalf("Failed to create order: %v", err)
		}
		ob.AddOrder(order)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ob.GetOrderInfos()
	}
}
