package journal

import (
	"context"
	"errors"
	"sync"

	"github.com/patternmesh/patternmesh-go/pkg/journal"
)

var (
	// ErrNegativeOffset is returned when a negative offset is provided
	ErrNegativeOffset = errors.New("offset cannot be negative")
	// ErrNegativeMaxCount is returned when a negative max count is provided
	ErrNegativeMaxCount = errors.New("max count cannot be negative")
	// ErrNilEntry is returned when a nil entry is provided
	ErrNilEntry = errors.New("entry cannot be nil")
	// ErrJournalClosed is returned when operating on a closed journal
	ErrJournalClosed = errors.New("journal is closed")
)

// InMemoryJournal implements the journal.Journal interface using in-memory
// storage. Offsets are sequential starting from 0. It is safe for concurrent use.
type InMemoryJournal struct {
	mu         sync.RWMutex
	entries    []*journal.Record
	nextOffset int64
	closed     bool
}

// NewInMemoryJournal creates a new empty in-memory subscription journal.
func NewInMemoryJournal() *InMemoryJournal {
	return &InMemoryJournal{}
}

// Append adds an entry to the journal, assigning it the next offset.
func (j *InMemoryJournal) Append(ctx context.Context, entry journal.Entry) (journal.Entry, error) {
	if entry == nil {
		return nil, ErrNilEntry
	}

	// Check if context is cancelled
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil, ErrJournalClosed
	}

	// Normalize to our Record type so the stored entry is immutable-by-copy
	var stored *journal.Record
	if r, ok := entry.(*journal.Record); ok {
		stored = r.WithOffset(j.nextOffset)
	} else {
		stored = journal.NewRecord(entry.Op(), entry.Pattern(), entry.SubscriberID()).
			WithOffset(j.nextOffset)
	}

	j.entries = append(j.entries, stored)
	j.nextOffset++

	return stored, nil
}

// Read returns up to maxCount entries starting at startOffset.
func (j *InMemoryJournal) Read(ctx context.Context, startOffset int64, maxCount int) ([]journal.Entry, error) {
	if startOffset < 0 {
		return nil, ErrNegativeOffset
	}
	if maxCount < 0 {
		return nil, ErrNegativeMaxCount
	}

	// Check if context is cancelled
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.closed {
		return nil, ErrJournalClosed
	}

	results := make([]journal.Entry, 0, maxCount)
	if maxCount == 0 || startOffset >= int64(len(j.entries)) {
		return results, nil
	}

	// Offsets are dense, so startOffset indexes directly into the slice
	for _, entry := range j.entries[startOffset:] {
		results = append(results, entry)
		if len(results) >= maxCount {
			break
		}
	}

	return results, nil
}

// EndOffset returns the offset the next appended entry will receive.
func (j *InMemoryJournal) EndOffset(ctx context.Context) (int64, error) {
	// Check if context is cancelled
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.closed {
		return 0, ErrJournalClosed
	}

	return j.nextOffset, nil
}

// Close marks the journal closed. Further operations return ErrJournalClosed.
func (j *InMemoryJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.closed = true
	return nil
}

// Verify that InMemoryJournal implements the Journal interface at compile time
var _ journal.Journal = (*InMemoryJournal)(nil)
