// Package pattern provides the topic-pattern trie at the heart of PatternMesh.
//
// A pattern is a dot-delimited sequence of segments. Three segment kinds exist:
//   - a literal segment, matched by exact string equality
//   - "*", the single-level wildcard, matching exactly one topic segment
//   - "**", the multi-level wildcard, matching zero or more contiguous topic segments
//
// "**" may appear anywhere in a pattern, not only at the end. Any other token,
// including "#", is a literal segment with no wildcard meaning.
//
// The trie is generic over the identifier type carried with each pattern, so callers
// can attach subscriber handles, integers, or any other opaque value:
//
//	trie := pattern.New[int]()
//	if err := trie.Register("stock.*.price", 101); err != nil {
//		return err
//	}
//	if err := trie.Register("stock.**", 105); err != nil {
//		return err
//	}
//
//	matches, err := trie.Match("stock.nyse.price")
//	if err != nil {
//		return err
//	}
//	for _, m := range matches {
//		fmt.Printf("%s -> %d\n", m.Pattern, m.ID)
//	}
//
// Register and Match are synchronous, in-memory operations with no internal
// synchronization. Concurrent use requires an external wrapper; see the
// routingtable package for a mutex-guarded table and the matchloop package for a
// single-owner actor loop, both built on this trie.
//
// Matching explores literal children first, then the "*" child, then the "**" child
// in increasing consumption order. The result order is deterministic for a fixed
// trie but otherwise unspecified; callers should treat results as a set. A pattern
// reachable through several "**" consumption choices is reported exactly once.
package pattern
