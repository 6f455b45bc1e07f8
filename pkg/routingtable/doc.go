// Package routingtable provides interfaces for pattern-to-subscriber routing.
//
// This package defines the core abstractions for the PatternMesh routing table:
//   - Subscriber: Interface for entities that can receive events (clients, peers)
//   - Subscription: Represents a topic-pattern subscription with wildcard support
//   - RoutingTable: Interface for managing pattern-to-subscriber mappings
//
// The routing table is the shared-access collaborator around the pattern trie:
// the trie itself (pkg/pattern) is a plain single-threaded structure, and the
// table serializes access to it behind an exclusive lock.
//
// The interfaces use Go idioms:
//   - context.Context for cancellation and timeouts
//   - Explicit error returns following Go conventions
//   - io.Closer for resource cleanup
//   - Slice returns for multiple results
//
// Example usage:
//
//	// Subscribe a local client to a pattern
//	subscriber := routingtable.NewLocalSubscriber("client-123")
//	err := table.Subscribe(ctx, "orders.*", subscriber)
//	if err != nil {
//		return err
//	}
//
//	// Find all subscribers whose patterns match a specific topic
//	subscribers, err := table.GetSubscribers(ctx, "orders.created")
//	if err != nil {
//		return err
//	}
//
//	// Process each subscriber that matches the topic
//	for _, sub := range subscribers {
//		deliverEvent(sub, event)
//	}
//
//	// Rebuild from a journal snapshot after restart
//	err = table.Rebuild(ctx, snapshot)
//	if err != nil {
//		return err
//	}
//
// Wildcard Patterns:
//   - "*" matches any single topic segment
//   - "orders.*" matches "orders.created", "orders.updated", etc.
//   - "**" matches zero or more segments at its position
//   - "orders.**" matches "orders", "orders.created", "orders.eu.created", etc.
//   - "a.**.b" matches "a.b", "a.x.b", "a.x.y.b", etc.
package routingtable
