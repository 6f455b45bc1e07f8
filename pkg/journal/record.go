package journal

import (
	"time"
)

// Record implements the journal.Entry interface.
type Record struct {
	offset       int64
	op           Op
	pattern      string
	subscriberID string
	timestamp    time.Time
}

// NewRecord creates a new Record for the given operation.
func NewRecord(op Op, pattern string, subscriberID string) *Record {
	return &Record{
		offset:       0, // Will be set by the Journal when appending
		op:           op,
		pattern:      pattern,
		subscriberID: subscriberID,
		timestamp:    time.Now().UTC(),
	}
}

// WithOffset returns a new Record with the specified offset.
// This is used internally by the Journal when storing entries.
func (r *Record) WithOffset(offset int64) *Record {
	return &Record{
		offset:       offset,
		op:           r.op,
		pattern:      r.pattern,
		subscriberID: r.subscriberID,
		timestamp:    r.timestamp,
	}
}

// Offset returns the unique, sequential position of this entry in the journal.
func (r *Record) Offset() int64 {
	return r.offset
}

// Op returns the operation kind.
func (r *Record) Op() Op {
	return r.op
}

// Pattern returns the topic pattern the operation applies to.
func (r *Record) Pattern() string {
	return r.pattern
}

// SubscriberID returns the identifier of the affected subscriber.
func (r *Record) SubscriberID() string {
	return r.subscriberID
}

// Timestamp returns when this entry was created.
func (r *Record) Timestamp() time.Time {
	return r.timestamp
}

// Verify that Record implements the Entry interface at compile time
var _ Entry = (*Record)(nil)
