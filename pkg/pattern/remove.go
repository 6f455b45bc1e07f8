package pattern

// Remove deletes entries registered under the exact pattern text whose
// identifier satisfies match, and prunes any nodes left with no entries and no
// children. It returns the number of entries removed; zero with a nil error
// means the pattern path exists but holds no matching entry (or does not exist
// at all). Remove never affects entries registered under other pattern text,
// even text that matches the same topics.
func (t *Trie[T]) Remove(pattern string, match func(id T) bool) (int, error) {
	segments, err := splitSegments(pattern, ErrMalformedPattern)
	if err != nil {
		return 0, err
	}

	removed := t.remove(t.root, segments, match)
	t.size -= removed
	return removed, nil
}

// remove walks the exact pattern path to its terminal node, drops matching
// entries, and reports back so each parent can prune a child that became empty.
func (t *Trie[T]) remove(n *node[T], segments []string, match func(id T) bool) int {
	if len(segments) == 0 {
		kept := n.entries[:0]
		removed := 0
		for _, entry := range n.entries {
			if match(entry.ID) {
				removed++
			} else {
				kept = append(kept, entry)
			}
		}
		if len(kept) == 0 {
			n.entries = nil
		} else {
			n.entries = kept
		}
		return removed
	}

	segment := segments[0]
	switch segment {
	case SingleWildcard:
		if n.star == nil {
			return 0
		}
		removed := t.remove(n.star, segments[1:], match)
		if n.star.empty() {
			n.star = nil
		}
		return removed
	case MultiWildcard:
		if n.multi == nil {
			return 0
		}
		removed := t.remove(n.multi, segments[1:], match)
		if n.multi.empty() {
			n.multi = nil
		}
		return removed
	default:
		child, ok := n.children[segment]
		if !ok {
			return 0
		}
		removed := t.remove(child, segments[1:], match)
		if child.empty() {
			delete(n.children, segment)
			if len(n.children) == 0 {
				n.children = nil
			}
		}
		return removed
	}
}

// empty reports whether the node holds no entries and no children, i.e. is
// prunable.
func (n *node[T]) empty() bool {
	return len(n.entries) == 0 && len(n.children) == 0 && n.star == nil && n.multi == nil
}
