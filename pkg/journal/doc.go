// Package journal defines the subscription journal abstractions for PatternMesh.
//
// The journal is an append-only, offset-stamped record of subscription
// operations (subscribe/unsubscribe of a pattern by a subscriber). It exists so
// a routing table can be rebuilt deterministically: replaying the journal in
// offset order reproduces the table's pattern set, because registration is
// monotonic and removal is exact-text.
//
// Abstractions:
//   - Entry: one journaled operation with its offset and timestamp
//   - Record: the concrete Entry implementation
//   - Journal: append/read access with sequential offsets starting at 0
//
// Example usage:
//
//	rec := journal.NewRecord(journal.OpSubscribe, "orders.*", "client-1")
//	appended, err := j.Append(ctx, rec)
//	if err != nil {
//		return err
//	}
//	fmt.Println(appended.Offset())
//
//	entries, err := j.Read(ctx, 0, 100)
//	if err != nil {
//		return err
//	}
//	for _, e := range entries {
//		apply(table, e)
//	}
//
// The in-memory implementation lives in internal/journal. Durable storage is
// deliberately absent; the journal's boundary is the same in-process API as the
// rest of the system.
package journal
