package routingtable

import (
	"context"
	"fmt"
	"testing"

	"github.com/patternmesh/patternmesh-go/pkg/routingtable"
)

// BenchmarkInMemoryRoutingTable_Subscribe measures subscription performance
func BenchmarkInMemoryRoutingTable_Subscribe(b *testing.B) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	// Pre-create subscribers to avoid allocation during benchmark
	subscribers := make([]*routingtable.LocalSubscriber, b.N)
	for i := 0; i < b.N; i++ {
		subscribers[i] = routingtable.NewLocalSubscriber(fmt.Sprintf("client-%d", i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		err := rt.Subscribe(ctx, "orders.created", subscribers[i])
		if err != nil {
			b.Fatalf("Subscribe failed: %v", err)
		}
	}
}

// BenchmarkInMemoryRoutingTable_GetSubscribers measures lookup performance
// against a mix of exact and wildcard subscriptions
func BenchmarkInMemoryRoutingTable_GetSubscribers(b *testing.B) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	// Setup: exact, "*", and "**" subscriptions all competing for the topic
	const numSubscribers = 1000
	patterns := []string{"orders.created", "orders.*", "orders.**", "**.created"}
	for i := 0; i < numSubscribers; i++ {
		subscriber := routingtable.NewLocalSubscriber(fmt.Sprintf("client-%d", i))
		rt.Subscribe(ctx, patterns[i%len(patterns)], subscriber)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := rt.GetSubscribers(ctx, "orders.created")
		if err != nil {
			b.Fatalf("GetSubscribers failed: %v", err)
		}
	}
}

// BenchmarkInMemoryRoutingTable_MixedOperations measures mixed workload performance
func BenchmarkInMemoryRoutingTable_MixedOperations(b *testing.B) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	// Pre-create subscribers and patterns
	const numPatterns = 100
	subscribers := make([]*routingtable.LocalSubscriber, b.N)
	patterns := make([]string, numPatterns)

	for i := 0; i < b.N; i++ {
		subscribers[i] = routingtable.NewLocalSubscriber(fmt.Sprintf("client-%d", i))
	}
	for i := 0; i < numPatterns; i++ {
		patterns[i] = fmt.Sprintf("topic-%d.*", i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		topicPattern := patterns[i%numPatterns]
		subscriber := subscribers[i]

		// Mix of operations: 70% subscribe, 20% lookup, 10% unsubscribe
		switch i % 10 {
		case 0: // Unsubscribe (10%)
			rt.Unsubscribe(ctx, topicPattern, subscriber.ID())
		case 1, 2: // Lookup (20%)
			rt.GetSubscribers(ctx, fmt.Sprintf("topic-%d.created", i%numPatterns))
		default: // Subscribe (70%)
			rt.Subscribe(ctx, topicPattern, subscriber)
		}
	}
}

// BenchmarkInMemoryRoutingTable_ConcurrentGetSubscribers measures concurrent lookup performance
func BenchmarkInMemoryRoutingTable_ConcurrentGetSubscribers(b *testing.B) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		subscriber := routingtable.NewLocalSubscriber(fmt.Sprintf("client-%d", i))
		if err := rt.Subscribe(ctx, fmt.Sprintf("stock.exchange%d.**", i), subscriber); err != nil {
			b.Fatalf("Subscribe failed: %v", err)
		}
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, err := rt.GetSubscribers(ctx, "stock.exchange50.ibm.price")
			if err != nil {
				b.Fatalf("GetSubscribers failed: %v", err)
			}
		}
	})
}
