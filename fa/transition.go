// Package fa implements the generic finite-automaton value described in
// spec.md §4.2: range-transition NFAs/DFAs, determinization, reversal,
// Brzozowski minimization, structural hashing, and maximal-munch matching.
package fa

import (
	"fmt"
	"sort"
	"strings"
)

// AlphabetMin and AlphabetMax bound the printable-ASCII alphabet that regex
// classes such as `.` and `[^...]` are complemented against. Newline is
// included alongside the printable range per spec.md §6.1.
const (
	AlphabetMin = 0x20
	AlphabetMax = 0x7e
	Newline     = '\n'
)

// Range is a span of code points [Lo, Hi], inclusive on both ends; every
// constructor in this package (Single, Span, Union) takes inclusive bounds.
type Range struct {
	Lo, Hi rune
}

// Contains reports whether c falls within the range.
func (r Range) Contains(c rune) bool {
	return c >= r.Lo && c <= r.Hi
}

// Transition is a set of disjoint, sorted ranges. An empty Transition
// denotes the ε-transition: per spec.md §3, it matches trivially when
// traversed as an ε-move during closure computation, and matches nothing
// when interpreted as a character transition (see Matches).
type Transition struct {
	Ranges []Range
}

// Epsilon returns the ε-transition.
func Epsilon() Transition {
	return Transition{}
}

// IsEpsilon reports whether t is the ε-transition (carries no ranges).
func (t Transition) IsEpsilon() bool {
	return len(t.Ranges) == 0
}

// Single returns a Transition matching exactly one code point.
func Single(c rune) Transition {
	return Transition{Ranges: []Range{{Lo: c, Hi: c}}}
}

// Span returns a Transition matching a single inclusive range.
func Span(lo, hi rune) Transition {
	if hi < lo {
		lo, hi = hi, lo
	}
	return Transition{Ranges: []Range{{Lo: lo, Hi: hi}}}
}

// Matches reports whether c is matched by t when interpreted as a
// character-consuming transition. The ε-transition never matches a
// character this way; callers doing ε-closure traversal should check
// IsEpsilon instead of calling Matches.
func (t Transition) Matches(c rune) bool {
	for _, r := range t.Ranges {
		if r.Contains(c) {
			return true
		}
	}
	return false
}

// Union builds a new Transition from a set of possibly-overlapping ranges,
// coalescing overlaps and adjacent same-target ranges into a canonical,
// sorted, disjoint form.
func Union(ranges ...Range) Transition {
	if len(ranges) == 0 {
		return Transition{}
	}
	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Lo < sorted[j].Lo })

	merged := make([]Range, 0, len(sorted))
	cur := sorted[0]
	for _, r := range sorted[1:] {
		if r.Lo <= cur.Hi+1 {
			if r.Hi > cur.Hi {
				cur.Hi = r.Hi
			}
			continue
		}
		merged = append(merged, cur)
		cur = r
	}
	merged = append(merged, cur)
	return Transition{Ranges: merged}
}

// Complement returns the transition matching every code point in
// [AlphabetMin, AlphabetMax] ∪ {Newline} that t does not match.
func Complement(t Transition) Transition {
	full := fullAlphabetRanges()
	return subtract(full, t.Ranges)
}

// AnyCharExceptNewline is the transition matched by `.` per spec.md §6.1.
func AnyCharExceptNewline() Transition {
	return Union(Range{Lo: AlphabetMin, Hi: AlphabetMax})
}

func fullAlphabetRanges() []Range {
	return []Range{{Lo: AlphabetMin, Hi: AlphabetMax}, {Lo: Newline, Hi: Newline}}
}

// subtract removes every range in minus from the coalesced union of base,
// returning the resulting (possibly empty) disjoint range set as a
// Transition.
func subtract(base, minus []Range) Transition {
	baseT := Union(base...)
	minusT := Union(minus...)

	var out []Range
	for _, b := range baseT.Ranges {
		segments := []Range{b}
		for _, m := range minusT.Ranges {
			var next []Range
			for _, s := range segments {
				if m.Hi < s.Lo || m.Lo > s.Hi {
					next = append(next, s)
					continue
				}
				if m.Lo > s.Lo {
					next = append(next, Range{Lo: s.Lo, Hi: m.Lo - 1})
				}
				if m.Hi < s.Hi {
					next = append(next, Range{Lo: m.Hi + 1, Hi: s.Hi})
				}
			}
			segments = next
		}
		out = append(out, segments...)
	}
	if len(out) == 0 {
		return Transition{}
	}
	return Union(out...)
}

// Key returns a canonical string encoding of t suitable for use as a map key
// or for hashing; equal transitions (same sorted, merged ranges) always
// produce equal keys.
func (t Transition) Key() string {
	if t.IsEpsilon() {
		return "ε"
	}
	var sb strings.Builder
	for i, r := range t.Ranges {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d-%d", r.Lo, r.Hi)
	}
	return sb.String()
}

// String gives a human-readable rendering of t, used in debug output and
// error messages, not in the wire format.
func (t Transition) String() string {
	if t.IsEpsilon() {
		return "ε"
	}
	var sb strings.Builder
	for i, r := range t.Ranges {
		if i > 0 {
			sb.WriteByte(',')
		}
		if r.Lo == r.Hi {
			fmt.Fprintf(&sb, "%q", r.Lo)
		} else {
			fmt.Fprintf(&sb, "%q-%q", r.Lo, r.Hi)
		}
	}
	return sb.String()
}

// splitPoints collects every range boundary (start, and one-past-end) across
// a set of transitions. It is used by Determinize to cut overlapping ranges
// from several outgoing edges into a common set of disjoint sub-ranges
// before grouping them by target-state set, per spec.md §4.2.
func splitPoints(transitions []Transition) []rune {
	pointSet := map[rune]bool{}
	for _, t := range transitions {
		for _, r := range t.Ranges {
			pointSet[r.Lo] = true
			pointSet[r.Hi+1] = true
		}
	}
	points := make([]rune, 0, len(pointSet))
	for p := range pointSet {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i] < points[j] })
	return points
}
