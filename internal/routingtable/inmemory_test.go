package routingtable

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/patternmesh/patternmesh-go/pkg/routingtable"
)

func TestInMemoryRoutingTable_Subscribe(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	subscriber := routingtable.NewLocalSubscriber("client-1")

	err := rt.Subscribe(ctx, "orders.created", subscriber)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	subscribers, err := rt.GetSubscribers(ctx, "orders.created")
	if err != nil {
		t.Fatalf("GetSubscribers failed: %v", err)
	}

	if len(subscribers) != 1 {
		t.Fatalf("Expected 1 subscriber, got %d", len(subscribers))
	}

	if subscribers[0].ID() != "client-1" {
		t.Errorf("Expected subscriber ID 'client-1', got '%s'", subscribers[0].ID())
	}
}

func TestInMemoryRoutingTable_Subscribe_NilSubscriber(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	err := rt.Subscribe(ctx, "orders.created", nil)
	if err == nil {
		t.Fatal("Expected error for nil subscriber")
	}
}

func TestInMemoryRoutingTable_Subscribe_EmptyPattern(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	subscriber := routingtable.NewLocalSubscriber("client-1")

	err := rt.Subscribe(ctx, "", subscriber)
	if err == nil {
		t.Fatal("Expected error for empty pattern")
	}
}

func TestInMemoryRoutingTable_Subscribe_EmptySegment(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	subscriber := routingtable.NewLocalSubscriber("client-1")

	for _, p := range []string{"orders..created", ".orders", "orders."} {
		err := rt.Subscribe(ctx, p, subscriber)
		if err == nil {
			t.Errorf("Expected error for pattern '%s'", p)
		}
	}

	// A failed subscription must leave no trace.
	count, err := rt.GetSubscriberCount(ctx)
	if err != nil {
		t.Fatalf("GetSubscriberCount failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("Expected 0 subscriptions after failed subscribes, got %d", count)
	}
}

func TestInMemoryRoutingTable_Subscribe_Duplicate(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	subscriber := routingtable.NewLocalSubscriber("client-1")

	if err := rt.Subscribe(ctx, "orders.*", subscriber); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	if err := rt.Subscribe(ctx, "orders.*", subscriber); err != nil {
		t.Fatalf("Duplicate subscribe failed: %v", err)
	}

	subscribers, err := rt.GetSubscribers(ctx, "orders.created")
	if err != nil {
		t.Fatalf("GetSubscribers failed: %v", err)
	}
	if len(subscribers) != 1 {
		t.Fatalf("Expected duplicate subscribe to be a no-op, got %d subscribers", len(subscribers))
	}
}

func TestInMemoryRoutingTable_Unsubscribe(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	subscriber := routingtable.NewLocalSubscriber("client-1")

	// Subscribe first
	err := rt.Subscribe(ctx, "orders.created", subscriber)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	// Unsubscribe
	err = rt.Unsubscribe(ctx, "orders.created", "client-1")
	if err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}

	// Verify no subscribers
	subscribers, err := rt.GetSubscribers(ctx, "orders.created")
	if err != nil {
		t.Fatalf("GetSubscribers failed: %v", err)
	}

	if len(subscribers) != 0 {
		t.Fatalf("Expected 0 subscribers after unsubscribe, got %d", len(subscribers))
	}
}

func TestInMemoryRoutingTable_Unsubscribe_OtherSubscriberKept(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	sub1 := routingtable.NewLocalSubscriber("client-1")
	sub2 := routingtable.NewLocalSubscriber("client-2")

	for _, sub := range []routingtable.Subscriber{sub1, sub2} {
		if err := rt.Subscribe(ctx, "orders.**", sub); err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
	}

	if err := rt.Unsubscribe(ctx, "orders.**", "client-1"); err != nil {
		t.Fatalf("Unsubscribe failed: %v", err)
	}

	subscribers, err := rt.GetSubscribers(ctx, "orders.eu.created")
	if err != nil {
		t.Fatalf("GetSubscribers failed: %v", err)
	}
	if len(subscribers) != 1 || subscribers[0].ID() != "client-2" {
		t.Fatalf("Expected only client-2 to remain, got %v", subscribers)
	}
}

func TestInMemoryRoutingTable_GetSubscribers_NoMatch(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	subscribers, err := rt.GetSubscribers(ctx, "non.existent.topic")
	if err != nil {
		t.Fatalf("GetSubscribers failed: %v", err)
	}

	if len(subscribers) != 0 {
		t.Fatalf("Expected 0 subscribers for non-existent topic, got %d", len(subscribers))
	}
}

func TestInMemoryRoutingTable_GetSubscribers_MalformedTopic(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	for _, topic := range []string{"", "a..b"} {
		_, err := rt.GetSubscribers(ctx, topic)
		if err == nil {
			t.Errorf("Expected error for topic '%s'", topic)
		}
	}
}

func TestInMemoryRoutingTable_MultipleSubscribers(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	local1 := routingtable.NewLocalSubscriber("client-1")
	local2 := routingtable.NewLocalSubscriber("client-2")
	peer1 := routingtable.NewPeerSubscriber("node-1")

	// Subscribe all to same pattern
	for _, sub := range []routingtable.Subscriber{local1, local2, peer1} {
		if err := rt.Subscribe(ctx, "orders.created", sub); err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
	}

	subscribers, err := rt.GetSubscribers(ctx, "orders.created")
	if err != nil {
		t.Fatalf("GetSubscribers failed: %v", err)
	}

	if len(subscribers) != 3 {
		t.Fatalf("Expected 3 subscribers, got %d", len(subscribers))
	}

	// Verify all subscriber IDs are present
	ids := make(map[string]bool)
	for _, sub := range subscribers {
		ids[sub.ID()] = true
	}

	expected := []string{"client-1", "client-2", "node-1"}
	for _, id := range expected {
		if !ids[id] {
			t.Errorf("Missing subscriber ID: %s", id)
		}
	}
}

func TestInMemoryRoutingTable_GetAllSubscriptions(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	sub := routingtable.NewLocalSubscriber("client-1")
	patterns := []string{"orders.*", "inventory.**", "payments.processed"}
	for _, p := range patterns {
		if err := rt.Subscribe(ctx, p, sub); err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
	}

	subscriptions, err := rt.GetAllSubscriptions(ctx)
	if err != nil {
		t.Fatalf("GetAllSubscriptions failed: %v", err)
	}

	if len(subscriptions) != len(patterns) {
		t.Fatalf("Expected %d subscriptions, got %d", len(patterns), len(subscriptions))
	}

	seen := make(map[string]bool)
	for _, s := range subscriptions {
		if s.Subscriber.ID() != "client-1" {
			t.Errorf("Unexpected subscriber ID: %s", s.Subscriber.ID())
		}
		seen[s.Pattern] = true
	}
	for _, p := range patterns {
		if !seen[p] {
			t.Errorf("Missing pattern in snapshot: %s", p)
		}
	}
}

func TestInMemoryRoutingTable_Rebuild(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	stale := routingtable.NewLocalSubscriber("stale-client")
	if err := rt.Subscribe(ctx, "old.topic", stale); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	snapshot := []routingtable.Subscription{
		{Pattern: "orders.*", Subscriber: routingtable.NewLocalSubscriber("client-1")},
		{Pattern: "stock.**.price", Subscriber: routingtable.NewPeerSubscriber("node-1")},
	}

	if err := rt.Rebuild(ctx, snapshot); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	// Old state is gone
	subscribers, err := rt.GetSubscribers(ctx, "old.topic")
	if err != nil {
		t.Fatalf("GetSubscribers failed: %v", err)
	}
	if len(subscribers) != 0 {
		t.Fatalf("Expected stale subscription to be dropped, got %d subscribers", len(subscribers))
	}

	// Snapshot state is live, wildcards included
	subscribers, err = rt.GetSubscribers(ctx, "stock.nyse.ibm.price")
	if err != nil {
		t.Fatalf("GetSubscribers failed: %v", err)
	}
	if len(subscribers) != 1 || subscribers[0].ID() != "node-1" {
		t.Fatalf("Expected node-1 from rebuilt table, got %v", subscribers)
	}
}

func TestInMemoryRoutingTable_Rebuild_InvalidSnapshotLeavesTable(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	sub := routingtable.NewLocalSubscriber("client-1")
	if err := rt.Subscribe(ctx, "orders.*", sub); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	bad := []routingtable.Subscription{
		{Pattern: "a..b", Subscriber: routingtable.NewLocalSubscriber("client-2")},
	}
	if err := rt.Rebuild(ctx, bad); err == nil {
		t.Fatal("Expected error for malformed snapshot pattern")
	}

	subscribers, err := rt.GetSubscribers(ctx, "orders.created")
	if err != nil {
		t.Fatalf("GetSubscribers failed: %v", err)
	}
	if len(subscribers) != 1 {
		t.Fatalf("Expected original subscription to survive failed rebuild, got %d", len(subscribers))
	}
}

func TestInMemoryRoutingTable_Counts(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	sub1 := routingtable.NewLocalSubscriber("client-1")
	sub2 := routingtable.NewLocalSubscriber("client-2")

	rtMustSubscribe(t, rt, ctx, "orders.*", sub1)
	rtMustSubscribe(t, rt, ctx, "orders.*", sub2)
	rtMustSubscribe(t, rt, ctx, "inventory.**", sub1)

	patterns, err := rt.GetPatternCount(ctx)
	if err != nil {
		t.Fatalf("GetPatternCount failed: %v", err)
	}
	if patterns != 2 {
		t.Errorf("Expected 2 distinct patterns, got %d", patterns)
	}

	subscriptions, err := rt.GetSubscriberCount(ctx)
	if err != nil {
		t.Fatalf("GetSubscriberCount failed: %v", err)
	}
	if subscriptions != 3 {
		t.Errorf("Expected 3 subscriptions, got %d", subscriptions)
	}
}

func TestInMemoryRoutingTable_ConcurrentAccess(t *testing.T) {
	rt := NewInMemoryRoutingTable()
	defer rt.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	const numWorkers = 10

	// Concurrent subscribe operations
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			subscriber := routingtable.NewLocalSubscriber(fmt.Sprintf("client-%d", id))
			err := rt.Subscribe(ctx, "orders.created", subscriber)
			if err != nil {
				t.Errorf("Subscribe failed for client-%d: %v", id, err)
			}
		}(i)
	}

	// Concurrent reads while writers run
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := rt.GetSubscribers(ctx, "orders.created")
			if err != nil {
				t.Errorf("GetSubscribers failed: %v", err)
			}
		}()
	}

	wg.Wait()

	// Verify all subscribers were added
	subscribers, err := rt.GetSubscribers(ctx, "orders.created")
	if err != nil {
		t.Fatalf("GetSubscribers failed: %v", err)
	}

	if len(subscribers) != numWorkers {
		t.Fatalf("Expected %d subscribers, got %d", numWorkers, len(subscribers))
	}
}

func TestInMemoryRoutingTable_Close(t *testing.T) {
	rt := NewInMemoryRoutingTable()

	err := rt.Close()
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Operations after close should return error
	ctx := context.Background()
	subscriber := routingtable.NewLocalSubscriber("client-1")

	err = rt.Subscribe(ctx, "orders.created", subscriber)
	if err == nil {
		t.Fatal("Expected error when subscribing to closed routing table")
	}

	_, err = rt.GetSubscribers(ctx, "orders.created")
	if err == nil {
		t.Fatal("Expected error when reading from closed routing table")
	}
}

func rtMustSubscribe(t *testing.T, rt *InMemoryRoutingTable, ctx context.Context, topicPattern string, sub routingtable.Subscriber) {
	t.Helper()
	if err := rt.Subscribe(ctx, topicPattern, sub); err != nil {
		t.Fatalf("Subscribe to '%s' failed: %v", topicPattern, err)
	}
}
