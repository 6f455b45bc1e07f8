package matchnode

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/patternmesh/patternmesh-go/internal/journal"
	"github.com/patternmesh/patternmesh-go/internal/routingtable"
	journalpkg "github.com/patternmesh/patternmesh-go/pkg/journal"
	"github.com/patternmesh/patternmesh-go/pkg/matchnode"
	"github.com/patternmesh/patternmesh-go/pkg/pattern"
	routingtablepkg "github.com/patternmesh/patternmesh-go/pkg/routingtable"
)

var (
	// ErrNodeClosed is returned when operating on a closed node
	ErrNodeClosed = errors.New("node is closed")
	// ErrNotStarted is returned when operating on a node before Start
	ErrNotStarted = errors.New("node not started")
	// ErrAlreadyStarted is returned when Start is called twice
	ErrAlreadyStarted = errors.New("node already started")
)

// InMemoryNode implements the matchnode.Node interface. It journals every
// subscription operation before applying it to the routing table, so replaying
// the journal in order reproduces the table.
type InMemoryNode struct {
	mu     sync.RWMutex
	config *Config
	logger zerolog.Logger

	journal      journalpkg.Journal
	routingTable routingtablepkg.RoutingTable

	started bool
	closed  bool
}

// NewNode creates a node with in-memory journal and routing table components.
// Call Start to bring it online.
func NewNode(config *Config, logger zerolog.Logger) (*InMemoryNode, error) {
	return NewNodeWithJournal(config, logger, journal.NewInMemoryJournal())
}

// NewNodeWithJournal creates a node over an existing journal, e.g. one handed
// over from a previous node instance. Start replays it into the routing table.
func NewNodeWithJournal(config *Config, logger zerolog.Logger, j journalpkg.Journal) (*InMemoryNode, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if j == nil {
		return nil, fmt.Errorf("journal cannot be nil")
	}
	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &InMemoryNode{
		config:       config,
		logger:       logger.With().Str("node", config.Name).Logger(),
		journal:      j,
		routingTable: routingtable.NewInMemoryRoutingTable(),
	}, nil
}

// Start brings the node online and replays any journal contents into the
// routing table.
func (n *InMemoryNode) Start(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return ErrNodeClosed
	}
	if n.started {
		return ErrAlreadyStarted
	}

	if err := n.replay(ctx); err != nil {
		return fmt.Errorf("journal replay failed: %w", err)
	}

	n.started = true
	n.logger.Info().Msg("node started")
	return nil
}

// Subscribe validates the pattern, journals the operation, then applies it to
// the routing table.
func (n *InMemoryNode) Subscribe(ctx context.Context, topicPattern string, subscriber routingtablepkg.Subscriber) error {
	if subscriber == nil {
		return routingtable.ErrNilSubscriber
	}
	if err := pattern.ValidatePattern(topicPattern); err != nil {
		return err
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	if err := n.operable(); err != nil {
		return err
	}

	rec := journalpkg.NewRecord(journalpkg.OpSubscribe, topicPattern, subscriber.ID())
	if _, err := n.journal.Append(ctx, rec); err != nil {
		return fmt.Errorf("failed to journal subscribe: %w", err)
	}

	if err := n.routingTable.Subscribe(ctx, topicPattern, subscriber); err != nil {
		return fmt.Errorf("failed to apply subscribe: %w", err)
	}

	n.logger.Debug().
		Str("pattern", topicPattern).
		Str("subscriber", subscriber.ID()).
		Msg("subscribed")
	return nil
}

// Unsubscribe journals the removal, then applies it to the routing table.
func (n *InMemoryNode) Unsubscribe(ctx context.Context, topicPattern string, subscriberID string) error {
	if err := pattern.ValidatePattern(topicPattern); err != nil {
		return err
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	if err := n.operable(); err != nil {
		return err
	}

	rec := journalpkg.NewRecord(journalpkg.OpUnsubscribe, topicPattern, subscriberID)
	if _, err := n.journal.Append(ctx, rec); err != nil {
		return fmt.Errorf("failed to journal unsubscribe: %w", err)
	}

	if err := n.routingTable.Unsubscribe(ctx, topicPattern, subscriberID); err != nil {
		return fmt.Errorf("failed to apply unsubscribe: %w", err)
	}

	n.logger.Debug().
		Str("pattern", topicPattern).
		Str("subscriber", subscriberID).
		Msg("unsubscribed")
	return nil
}

// Route returns the subscribers whose patterns match the topic.
func (n *InMemoryNode) Route(ctx context.Context, topic string) ([]routingtablepkg.Subscriber, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if err := n.operable(); err != nil {
		return nil, err
	}

	return n.routingTable.GetSubscribers(ctx, topic)
}

// Stats returns a snapshot of node state.
func (n *InMemoryNode) Stats(ctx context.Context) (matchnode.Stats, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if err := n.operable(); err != nil {
		return matchnode.Stats{}, err
	}

	patterns, err := n.routingTable.GetPatternCount(ctx)
	if err != nil {
		return matchnode.Stats{}, err
	}
	subscriptions, err := n.routingTable.GetSubscriberCount(ctx)
	if err != nil {
		return matchnode.Stats{}, err
	}
	end, err := n.journal.EndOffset(ctx)
	if err != nil {
		return matchnode.Stats{}, err
	}

	return matchnode.Stats{
		Patterns:       patterns,
		Subscriptions:  subscriptions,
		JournalEntries: end,
	}, nil
}

// Close shuts down the node and its components.
func (n *InMemoryNode) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return nil
	}
	n.closed = true

	var errs []error
	if err := n.routingTable.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close routing table: %w", err))
	}
	if err := n.journal.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close journal: %w", err))
	}

	n.logger.Info().Msg("node closed")
	return errors.Join(errs...)
}

// operable is called with at least a read lock held.
func (n *InMemoryNode) operable() error {
	if n.closed {
		return ErrNodeClosed
	}
	if !n.started {
		return ErrNotStarted
	}
	return nil
}

// replay folds the journal into a subscription snapshot and rebuilds the
// routing table from it. Called with the write lock held.
//
// The journal records subscriber IDs, not live handles, so replayed
// subscriptions come back as local subscribers; delivery layers resolve IDs
// to connections themselves.
func (n *InMemoryNode) replay(ctx context.Context) error {
	end, err := n.journal.EndOffset(ctx)
	if err != nil {
		return err
	}
	if end == 0 {
		return nil
	}

	live := make(map[string]map[string]struct{}) // pattern -> subscriber IDs
	for offset := int64(0); offset < end; {
		page, err := n.journal.Read(ctx, offset, n.config.ReplayPageSize)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			break
		}
		for _, entry := range page {
			switch entry.Op() {
			case journalpkg.OpSubscribe:
				ids, ok := live[entry.Pattern()]
				if !ok {
					ids = make(map[string]struct{})
					live[entry.Pattern()] = ids
				}
				ids[entry.SubscriberID()] = struct{}{}
			case journalpkg.OpUnsubscribe:
				if ids, ok := live[entry.Pattern()]; ok {
					delete(ids, entry.SubscriberID())
					if len(ids) == 0 {
						delete(live, entry.Pattern())
					}
				}
			}
			offset = entry.Offset() + 1
		}
	}

	snapshot := make([]routingtablepkg.Subscription, 0, len(live))
	for topicPattern, ids := range live {
		for id := range ids {
			snapshot = append(snapshot, routingtablepkg.Subscription{
				Pattern:    topicPattern,
				Subscriber: routingtablepkg.NewLocalSubscriber(id),
			})
		}
	}

	if err := n.routingTable.Rebuild(ctx, snapshot); err != nil {
		return err
	}

	n.logger.Info().
		Int64("journal_entries", end).
		Int("live_subscriptions", len(snapshot)).
		Msg("journal replayed")
	return nil
}

// Verify that InMemoryNode implements the Node interface at compile time
var _ matchnode.Node = (*InMemoryNode)(nil)
