package routingtable

import (
	"context"
	"io"
)

// Subscriber represents a local client or peer process that subscribes to
// topic patterns.
type Subscriber interface {
	// ID returns unique identifier for this subscriber
	ID() string

	// Type returns the type of subscriber (local client, peer node, etc.)
	Type() SubscriberType
}

// SubscriberType represents different types of subscribers
type SubscriberType int

const (
	// LocalClient represents a local client connection
	LocalClient SubscriberType = iota

	// PeerNode represents a remote peer process
	PeerNode
)

// Subscription represents one registered pattern and its subscriber.
type Subscription struct {
	// Pattern is the topic pattern subscribed to. It may contain the
	// single-level wildcard "*" and the multi-level wildcard "**".
	Pattern string

	// Subscriber is the entity that wants to receive events for this pattern
	Subscriber Subscriber
}

// RoutingTable manages pattern-to-subscriber mappings for event routing.
// Implementations are safe for concurrent use; the underlying pattern trie
// is not, and the table is the exclusive-access wrapper around it.
type RoutingTable interface {
	io.Closer

	// Subscribe adds a subscription for a topic pattern to a subscriber.
	// Subscribing the same subscriber to the same pattern twice is a no-op.
	Subscribe(ctx context.Context, pattern string, subscriber Subscriber) error

	// Unsubscribe removes a subscription for a topic pattern from a subscriber.
	Unsubscribe(ctx context.Context, pattern string, subscriberID string) error

	// GetSubscribers returns all subscribers whose patterns match the given
	// topic. Wildcards in registered patterns are honored; wildcard characters
	// inside the topic itself are literal text.
	GetSubscribers(ctx context.Context, topic string) ([]Subscriber, error)

	// GetAllSubscriptions returns all current subscriptions.
	// Used to snapshot subscription state for journaling or peers.
	GetAllSubscriptions(ctx context.Context) ([]Subscription, error)

	// Rebuild replaces the table contents from a subscription snapshot,
	// e.g. a journal replay after restart.
	Rebuild(ctx context.Context, subscriptions []Subscription) error

	// GetPatternCount returns the number of distinct patterns being tracked.
	// Useful for monitoring and metrics.
	GetPatternCount(ctx context.Context) (int, error)

	// GetSubscriberCount returns the total number of active subscriptions.
	// Useful for monitoring and metrics.
	GetSubscriberCount(ctx context.Context) (int, error)
}
