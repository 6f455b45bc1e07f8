// Package matchnode defines the top-level PatternMesh node abstraction.
//
// A node wires the two collaborators around the pattern trie together:
//   - the routing table (pkg/routingtable), which answers topic lookups
//   - the subscription journal (pkg/journal), which records every
//     subscribe/unsubscribe so the table can be rebuilt after a restart
//
// Callers interact with the Node interface; the in-memory implementation lives
// in internal/matchnode. The node itself adds no matching semantics — it
// journals an operation, applies it to the table, and exposes Route as the
// read path.
package matchnode
