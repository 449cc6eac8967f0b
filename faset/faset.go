// Package faset implements the merged lexer DFA of spec.md §4.3: fusing
// many per-pattern automata into a single automaton that preserves pattern
// identity at accept states, and performing maximal-munch matching with
// smallest-id tie-breaking.
//
// This generalizes internal/ictiobus/automaton.NFA.Join, which namespaces
// state names by source NFA ("1:"/"2:") to merge exactly two automata; here
// an arbitrary number of per-pattern fragments are tagged by pattern index
// and merged by fa.JoinAll before a single determinization pass.
package faset

import (
	"github.com/dekarrin/parsergen/fa"
)

// FASet is a single DFA scanning for the longest prefix accepted by any of
// several tagged patterns, with the pattern's dense integer id recorded on
// every accept state it produced.
type FASet struct {
	dfa         *fa.FA
	numPatterns int
}

// Merge builds a FASet from an ordered list of per-pattern automata. The
// pattern id of fragment i is i; ids are otherwise opaque to this package.
func Merge(fragments []*fa.FA) *FASet {
	tagged := make([]*fa.FA, len(fragments))
	for i, f := range fragments {
		cp := f.Copy()
		for _, acc := range cp.AcceptStates() {
			cp.SetPatternID(acc, i)
		}
		tagged[i] = cp
	}

	joined := fa.JoinAll(tagged)
	return &FASet{dfa: joined.Determinize(), numPatterns: len(fragments)}
}

// NumPatterns returns the number of patterns this set was built from.
func (fs *FASet) NumPatterns() int {
	return fs.numPatterns
}

// DFA exposes the underlying merged automaton, e.g. for serialization.
func (fs *FASet) DFA() *fa.FA {
	return fs.dfa
}

// MatchOne consumes the longest prefix of s accepted by any pattern, and
// returns the pattern id of the last accepting state visited (maximal
// munch), tie-broken toward the smallest pattern id, per spec.md §4.3. If
// no prefix (not even the empty string) is accepted, it returns
// (fa.NoPattern, "").
func (fs *FASet) MatchOne(s string) (patternID int, lexeme string) {
	runes := []rune(s)
	cur := fs.dfa.Start()

	bestLen := -1
	bestPattern := fa.NoPattern
	if fs.dfa.IsAccepting(cur) {
		bestLen = 0
		bestPattern = fs.dfa.PatternID(cur)
	}

	for i, c := range runes {
		next, ok := fs.dfa.Step(cur, c)
		if !ok {
			break
		}
		cur = next
		if fs.dfa.IsAccepting(cur) {
			bestLen = i + 1
			bestPattern = fs.dfa.PatternID(cur)
		}
	}

	if bestLen < 0 {
		return fa.NoPattern, ""
	}
	return bestPattern, string(runes[:bestLen])
}
