package cascade

import (
	"strings"

	"github.com/tidwall/match"
)

// Separator delimits the segments of event names and patterns.
const Separator = "."

// Wildcard matches any segment, or any substring inside a segment.
const Wildcard = "*"

// SegmentMatcher reports whether two name segments match.
// Implementations must be symmetric.
type SegmentMatcher func(a, b string) bool

// ExactSegment matches identical segments.
func ExactSegment(a, b string) bool {
	return a == b
}

// WildcardSegment matches when either side is "*", or when one side globs the
// whole of the other with "*" standing for any substring. Every other
// character is literal.
func WildcardSegment(a, b string) bool {
	if a == Wildcard || b == Wildcard {
		return true
	}
	return globs(a, b) || globs(b, a)
}

// globs reports whether pattern, with only '*' special, matches all of s.
func globs(pattern, s string) bool {
	if !strings.Contains(pattern, Wildcard) {
		return pattern == s
	}
	return match.Match(s, escapeGlob(pattern))
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `?`, `\?`)

func escapeGlob(pattern string) string {
	return globEscaper.Replace(pattern)
}

// ListOptionSegment matches when one side is a list such as "{get,set}" and
// the other side equals one of its options. Options are split on commas with
// no escaping.
func ListOptionSegment(a, b string) bool {
	return a == b || hasOption(listOptions(a), b) || hasOption(listOptions(b), a)
}

func listOptions(segment string) []string {
	if len(segment) < 2 || !strings.HasPrefix(segment, "{") || !strings.HasSuffix(segment, "}") {
		return nil
	}
	return strings.Split(segment[1:len(segment)-1], ",")
}

func hasOption(options []string, value string) bool {
	for _, opt := range options {
		if opt == value {
			return true
		}
	}
	return false
}

// Filter compares emitted names against registered patterns segment by
// segment. A pair of segments matches if any of its matchers accepts it.
type Filter struct {
	matchers []SegmentMatcher
}

// NewFilter creates a Filter. ExactSegment is always consulted first; the
// given matchers are tried after it in order.
func NewFilter(matchers ...SegmentMatcher) Filter {
	all := make([]SegmentMatcher, 0, len(matchers)+1)
	all = append(all, ExactSegment)
	for _, m := range matchers {
		if m != nil {
			all = append(all, m)
		}
	}
	return Filter{matchers: all}
}

func filterFor(wildcards, listOptions bool) Filter {
	var matchers []SegmentMatcher
	if wildcards {
		matchers = append(matchers, WildcardSegment)
	}
	if listOptions {
		matchers = append(matchers, ListOptionSegment)
	}
	return NewFilter(matchers...)
}

// Advanced reports whether the filter does more than exact comparison.
func (f Filter) Advanced() bool {
	return len(f.matchers) > 1
}

// Match reports whether name matches pattern. Names and patterns with a
// different number of segments never match; wildcards do not span separators.
func (f Filter) Match(name, pattern string) bool {
	names := strings.Split(name, Separator)
	patterns := strings.Split(pattern, Separator)
	if len(names) != len(patterns) {
		return false
	}
	for i := range names {
		if !f.matchSegment(names[i], patterns[i]) {
			return false
		}
	}
	return true
}

func (f Filter) matchSegment(a, b string) bool {
	for _, m := range f.matchers {
		if m(a, b) {
			return true
		}
	}
	return false
}
