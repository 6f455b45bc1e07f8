package pattern

import (
	"errors"
)

var (
	// ErrMalformedPattern is returned by Register and Remove when the pattern is
	// empty or contains an empty segment (leading, trailing, or doubled delimiter).
	ErrMalformedPattern = errors.New("malformed pattern")

	// ErrMalformedTopic is returned by Match when the topic is empty or contains
	// an empty segment.
	ErrMalformedTopic = errors.New("malformed topic")
)

// Match is one result of a Match call: a registered pattern that matched the
// topic, together with the identifier it was registered with.
type Match[T any] struct {
	// Pattern is the original pattern text as passed to Register.
	Pattern string

	// ID is the identifier registered with the pattern. It is carried through
	// unchanged; the trie imposes no semantics on it.
	ID T
}

// node is one position along one or more registered patterns. Its three child
// categories are independent; a node may have all three at once.
type node[T any] struct {
	// children maps a literal segment value to its child node.
	children map[string]*node[T]

	// star is the child reached via the single-level wildcard "*".
	star *node[T]

	// multi is the child reached via the multi-level wildcard "**".
	multi *node[T]

	// entries are the (pattern, id) pairs whose pattern ends exactly here.
	entries []Match[T]
}

// Trie matches dot-delimited topics against registered wildcard patterns.
// It is not safe for concurrent use; wrap it (see routingtable or matchloop)
// when sharing across goroutines.
type Trie[T any] struct {
	root *node[T]
	size int
}

// New creates an empty pattern trie.
func New[T any]() *Trie[T] {
	return &Trie[T]{root: &node[T]{}}
}

// Register adds a pattern with its identifier. Registering the same pattern text
// twice adds two independent entries and never duplicates nodes. Register is the
// only growing mutation; the trie is validated before it is touched, so a
// returned error implies no state change.
func (t *Trie[T]) Register(pattern string, id T) error {
	segments, err := splitSegments(pattern, ErrMalformedPattern)
	if err != nil {
		return err
	}

	current := t.root
	for _, segment := range segments {
		switch segment {
		case SingleWildcard:
			if current.star == nil {
				current.star = &node[T]{}
			}
			current = current.star
		case MultiWildcard:
			if current.multi == nil {
				current.multi = &node[T]{}
			}
			current = current.multi
		default:
			if current.children == nil {
				current.children = make(map[string]*node[T])
			}
			child, ok := current.children[segment]
			if !ok {
				child = &node[T]{}
				current.children[segment] = child
			}
			current = child
		}
	}

	current.entries = append(current.entries, Match[T]{Pattern: pattern, ID: id})
	t.size++
	return nil
}

// Match returns every registered pattern that matches the topic, with its
// identifier. Wildcard characters inside the topic are matched as literal text.
// Absence of matches is not an error; the result is simply empty.
func (t *Trie[T]) Match(topic string) ([]Match[T], error) {
	segments, err := splitSegments(topic, ErrMalformedTopic)
	if err != nil {
		return nil, err
	}

	m := matcher[T]{seen: make(map[*node[T]]struct{})}
	m.walk(t.root, segments)
	return m.results, nil
}

// Len returns the number of registered entries.
func (t *Trie[T]) Len() int {
	return t.size
}

// matcher accumulates results for a single Match call. Several "**" consumption
// choices can reach the same terminal node; the seen set guarantees a node's
// entries are collected at most once, in first-visit order.
type matcher[T any] struct {
	seen    map[*node[T]]struct{}
	results []Match[T]
}

// walk is the recursive descent over (node, remaining topic segments). Branches
// are explored literal first, then "*", then "**" in increasing consumption
// order, which fixes the (otherwise unspecified) result order.
func (m *matcher[T]) walk(n *node[T], segments []string) {
	if len(segments) == 0 {
		m.collect(n)
	} else {
		if child, ok := n.children[segments[0]]; ok {
			m.walk(child, segments[1:])
		}
		if n.star != nil {
			m.walk(n.star, segments[1:])
		}
	}

	if n.multi != nil {
		// "**" may consume any number of remaining segments, including zero.
		// Every split point can lead to a different successful continuation.
		for consumed := 0; consumed <= len(segments); consumed++ {
			m.walk(n.multi, segments[consumed:])
		}
	}
}

func (m *matcher[T]) collect(n *node[T]) {
	if len(n.entries) == 0 {
		return
	}
	if _, ok := m.seen[n]; ok {
		return
	}
	m.seen[n] = struct{}{}
	m.results = append(m.results, n.entries...)
}
