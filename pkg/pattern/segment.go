package pattern

import (
	"fmt"
	"strings"
)

const (
	// Delimiter separates segments in patterns and topics.
	Delimiter = "."

	// SingleWildcard matches exactly one topic segment.
	SingleWildcard = "*"

	// MultiWildcard matches zero or more contiguous topic segments.
	MultiWildcard = "**"
)

// ValidatePattern reports whether a pattern string is well formed: non-empty
// with no empty segments. The same check Register performs before mutating.
func ValidatePattern(s string) error {
	_, err := splitSegments(s, ErrMalformedPattern)
	return err
}

// ValidateTopic reports whether a topic string is well formed.
func ValidateTopic(s string) error {
	_, err := splitSegments(s, ErrMalformedTopic)
	return err
}

// splitSegments tokenizes a pattern or topic string and validates that it is
// non-empty and contains no empty segments. The wrap error classifies the
// failure for the caller (ErrMalformedPattern or ErrMalformedTopic).
func splitSegments(s string, wrap error) ([]string, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", wrap)
	}

	segments := strings.Split(s, Delimiter)
	for i, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("%w: empty segment at position %d in %q", wrap, i, s)
		}
	}

	return segments, nil
}
