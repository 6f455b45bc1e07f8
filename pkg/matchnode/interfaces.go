package matchnode

import (
	"context"
	"io"

	"github.com/patternmesh/patternmesh-go/pkg/routingtable"
)

// Stats is a point-in-time snapshot of a node's state, for monitoring and CLI
// display.
type Stats struct {
	// Patterns is the number of distinct patterns in the routing table.
	Patterns int

	// Subscriptions is the total number of active subscriptions.
	Subscriptions int

	// JournalEntries is the number of operations recorded in the journal.
	JournalEntries int64
}

// Node orchestrates the subscription journal and the routing table behind the
// two-operation matching surface.
type Node interface {
	io.Closer

	// Start brings the node online, replaying the journal into the routing
	// table so restarts converge to the same state.
	Start(ctx context.Context) error

	// Subscribe journals and applies a pattern subscription.
	Subscribe(ctx context.Context, pattern string, subscriber routingtable.Subscriber) error

	// Unsubscribe journals and applies a subscription removal.
	Unsubscribe(ctx context.Context, pattern string, subscriberID string) error

	// Route returns the subscribers whose patterns match the topic.
	Route(ctx context.Context, topic string) ([]routingtable.Subscriber, error)

	// Stats returns a snapshot of node state.
	Stats(ctx context.Context) (Stats, error)
}
