package routingtable

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/patternmesh/patternmesh-go/pkg/pattern"
	"github.com/patternmesh/patternmesh-go/pkg/routingtable"
)

var (
	// ErrNilSubscriber is returned when a nil subscriber is provided
	ErrNilSubscriber = errors.New("subscriber cannot be nil")
	// ErrEmptySubscriberID is returned when a subscriber has an empty ID
	ErrEmptySubscriberID = errors.New("subscriber ID cannot be empty")
	// ErrTableClosed is returned when operating on a closed routing table
	ErrTableClosed = errors.New("routing table is closed")
)

// InMemoryRoutingTable implements the routingtable.RoutingTable interface over
// a pattern trie. The trie has no internal synchronization, so the table holds
// an exclusive lock across every mutation and a shared lock across lookups.
// It is safe for concurrent use.
type InMemoryRoutingTable struct {
	mu sync.RWMutex

	// trie answers "which subscribers match this topic".
	trie *pattern.Trie[routingtable.Subscriber]

	// subscriptions mirrors the trie for snapshots and duplicate detection:
	// pattern -> subscriber ID -> subscriber.
	subscriptions map[string]map[string]routingtable.Subscriber

	total  int
	closed bool
}

// NewInMemoryRoutingTable creates an empty in-memory routing table.
func NewInMemoryRoutingTable() *InMemoryRoutingTable {
	return &InMemoryRoutingTable{
		trie:          pattern.New[routingtable.Subscriber](),
		subscriptions: make(map[string]map[string]routingtable.Subscriber),
	}
}

// Subscribe adds a subscription for a topic pattern to a subscriber.
// Subscribing the same subscriber to the same pattern twice is a no-op.
func (rt *InMemoryRoutingTable) Subscribe(ctx context.Context, topicPattern string, subscriber routingtable.Subscriber) error {
	if subscriber == nil {
		return ErrNilSubscriber
	}
	if subscriber.ID() == "" {
		return ErrEmptySubscriberID
	}

	// Check if context is cancelled
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.closed {
		return ErrTableClosed
	}

	if bySubscriber, ok := rt.subscriptions[topicPattern]; ok {
		if _, exists := bySubscriber[subscriber.ID()]; exists {
			return nil
		}
	}

	// The trie validates the pattern before it mutates, so a failure here
	// leaves both structures untouched.
	if err := rt.trie.Register(topicPattern, subscriber); err != nil {
		return fmt.Errorf("invalid subscription pattern: %w", err)
	}

	bySubscriber, ok := rt.subscriptions[topicPattern]
	if !ok {
		bySubscriber = make(map[string]routingtable.Subscriber)
		rt.subscriptions[topicPattern] = bySubscriber
	}
	bySubscriber[subscriber.ID()] = subscriber
	rt.total++

	return nil
}

// Unsubscribe removes a subscription for a topic pattern from a subscriber.
// Removing a subscription that does not exist is a no-op.
func (rt *InMemoryRoutingTable) Unsubscribe(ctx context.Context, topicPattern string, subscriberID string) error {
	if subscriberID == "" {
		return ErrEmptySubscriberID
	}

	// Check if context is cancelled
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.closed {
		return ErrTableClosed
	}

	bySubscriber, ok := rt.subscriptions[topicPattern]
	if !ok {
		return nil
	}
	if _, exists := bySubscriber[subscriberID]; !exists {
		return nil
	}

	removed, err := rt.trie.Remove(topicPattern, func(s routingtable.Subscriber) bool {
		return s.ID() == subscriberID
	})
	if err != nil {
		return fmt.Errorf("invalid subscription pattern: %w", err)
	}

	delete(bySubscriber, subscriberID)
	if len(bySubscriber) == 0 {
		delete(rt.subscriptions, topicPattern)
	}
	rt.total -= removed

	return nil
}

// GetSubscribers returns all subscribers whose patterns match the given topic.
func (rt *InMemoryRoutingTable) GetSubscribers(ctx context.Context, topic string) ([]routingtable.Subscriber, error) {
	// Check if context is cancelled
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	rt.mu.RLock()
	defer rt.mu.RUnlock()

	if rt.closed {
		return nil, ErrTableClosed
	}

	matches, err := rt.trie.Match(topic)
	if err != nil {
		return nil, fmt.Errorf("invalid topic: %w", err)
	}

	subscribers := make([]routingtable.Subscriber, 0, len(matches))
	for _, m := range matches {
		subscribers = append(subscribers, m.ID)
	}
	return subscribers, nil
}

// GetAllSubscriptions returns a snapshot of all current subscriptions.
func (rt *InMemoryRoutingTable) GetAllSubscriptions(ctx context.Context) ([]routingtable.Subscription, error) {
	// Check if context is cancelled
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	rt.mu.RLock()
	defer rt.mu.RUnlock()

	if rt.closed {
		return nil, ErrTableClosed
	}

	subscriptions := make([]routingtable.Subscription, 0, rt.total)
	for topicPattern, bySubscriber := range rt.subscriptions {
		for _, subscriber := range bySubscriber {
			subscriptions = append(subscriptions, routingtable.Subscription{
				Pattern:    topicPattern,
				Subscriber: subscriber,
			})
		}
	}
	return subscriptions, nil
}

// Rebuild replaces the table contents from a subscription snapshot.
// On any invalid entry the table is left unchanged.
func (rt *InMemoryRoutingTable) Rebuild(ctx context.Context, subscriptions []routingtable.Subscription) error {
	// Check if context is cancelled
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	// Build the replacement structures outside the lock; swap only on success.
	trie := pattern.New[routingtable.Subscriber]()
	byPattern := make(map[string]map[string]routingtable.Subscriber)
	total := 0

	for _, sub := range subscriptions {
		if sub.Subscriber == nil {
			return ErrNilSubscriber
		}
		if sub.Subscriber.ID() == "" {
			return ErrEmptySubscriberID
		}

		bySubscriber, ok := byPattern[sub.Pattern]
		if !ok {
			bySubscriber = make(map[string]routingtable.Subscriber)
			byPattern[sub.Pattern] = bySubscriber
		}
		if _, exists := bySubscriber[sub.Subscriber.ID()]; exists {
			continue
		}

		if err := trie.Register(sub.Pattern, sub.Subscriber); err != nil {
			return fmt.Errorf("invalid subscription pattern: %w", err)
		}
		bySubscriber[sub.Subscriber.ID()] = sub.Subscriber
		total++
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.closed {
		return ErrTableClosed
	}

	rt.trie = trie
	rt.subscriptions = byPattern
	rt.total = total

	return nil
}

// GetPatternCount returns the number of distinct patterns being tracked.
func (rt *InMemoryRoutingTable) GetPatternCount(ctx context.Context) (int, error) {
	// Check if context is cancelled
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	rt.mu.RLock()
	defer rt.mu.RUnlock()

	if rt.closed {
		return 0, ErrTableClosed
	}

	return len(rt.subscriptions), nil
}

// GetSubscriberCount returns the total number of active subscriptions.
func (rt *InMemoryRoutingTable) GetSubscriberCount(ctx context.Context) (int, error) {
	// Check if context is cancelled
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	rt.mu.RLock()
	defer rt.mu.RUnlock()

	if rt.closed {
		return 0, ErrTableClosed
	}

	return rt.total, nil
}

// Close marks the routing table closed. Further operations return ErrTableClosed.
func (rt *InMemoryRoutingTable) Close() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.closed = true
	return nil
}

// Verify that InMemoryRoutingTable implements the RoutingTable interface at compile time
var _ routingtable.RoutingTable = (*InMemoryRoutingTable)(nil)
