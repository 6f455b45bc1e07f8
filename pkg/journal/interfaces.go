package journal

import (
	"context"
	"io"
	"time"
)

// Op identifies the kind of subscription operation a journal entry records.
type Op int

const (
	// OpSubscribe records a pattern being subscribed to.
	OpSubscribe Op = iota

	// OpUnsubscribe records a pattern subscription being removed.
	OpUnsubscribe
)

// String returns a human-readable name for the operation.
func (op Op) String() string {
	switch op {
	case OpSubscribe:
		return "subscribe"
	case OpUnsubscribe:
		return "unsubscribe"
	default:
		return "unknown"
	}
}

// Entry is one journaled subscription operation.
type Entry interface {
	// Offset returns the unique, sequential position of this entry in the journal.
	Offset() int64

	// Op returns the operation kind.
	Op() Op

	// Pattern returns the topic pattern the operation applies to.
	Pattern() string

	// SubscriberID returns the identifier of the affected subscriber.
	SubscriberID() string

	// Timestamp returns when this entry was created.
	Timestamp() time.Time
}

// Journal is an append-only log of subscription operations.
type Journal interface {
	io.Closer

	// Append adds an entry to the journal. The Offset is assigned by the
	// journal and set on the returned entry.
	Append(ctx context.Context, entry Entry) (Entry, error)

	// Read returns up to maxCount entries starting at startOffset, in offset
	// order. Reading past the end returns an empty slice, not an error.
	Read(ctx context.Context, startOffset int64, maxCount int) ([]Entry, error)

	// EndOffset returns the offset the next appended entry will receive.
	EndOffset(ctx context.Context) (int64, error)
}
