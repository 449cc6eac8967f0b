package fa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abFA() *FA {
	// matches "ab"
	return Concat(Literal(Single('a')), Literal(Single('b')))
}

func Test_Determinize_BasicMatch(t *testing.T) {
	assert := assert.New(t)

	nfa := Alternate(abFA(), Literal(Single('c')))
	dfa := nfa.Determinize()

	assert.True(dfa.Deterministic())

	n, err := dfa.LongestMatch([]rune("ab"))
	assert.NoError(err)
	assert.Equal(2, n)

	n, err = dfa.LongestMatch([]rune("c"))
	assert.NoError(err)
	assert.Equal(1, n)

	n, err = dfa.LongestMatch([]rune("xyz"))
	assert.NoError(err)
	assert.Equal(-1, n)
}

func Test_MatchFirst_LongestPrefix(t *testing.T) {
	assert := assert.New(t)

	// (a|ab) should greedily match "ab" on input "ab" per longest-match,
	// once minimized into a DFA.
	nfa := Alternate(Literal(Single('a')), abFA())
	dfa := nfa.Minimize()

	got, err := dfa.MatchFirst("abc")
	assert.NoError(err)
	assert.Equal("ab", got)

	got, err = dfa.MatchFirst("zzz")
	assert.NoError(err)
	assert.Equal("", got)
}

func Test_MatchFirst_RequiresDeterministic(t *testing.T) {
	nfa := abFA()
	_, err := nfa.MatchFirst("ab")
	require.ErrorIs(t, err, ErrNotDeterministic)
}

func Test_Reverse_Reverse_IsHashEqual(t *testing.T) {
	assert := assert.New(t)

	star := Star(Alternate(Literal(Single('a')), Literal(Single('b'))))
	dfa := star.Minimize()

	roundTripped := dfa.Reverse().Reverse()

	assert.Equal(dfa.Hash(), roundTripped.Hash())
}

func Test_Minimize_Deterministic_SameHashAcrossRuns(t *testing.T) {
	assert := assert.New(t)

	build := func() *FA {
		return Alternate(
			Concat(Literal(Single('m')), Concat(Literal(Single('u')), Literal(Single('t')))),
			Star(Union2Range('a', 'z')),
		).Minimize()
	}

	h1 := build().Hash()
	h2 := build().Hash()

	assert.Equal(h1, h2)
}

func Union2Range(lo, hi rune) *FA {
	return Literal(Span(lo, hi))
}

func Test_Transition_Complement(t *testing.T) {
	assert := assert.New(t)

	notX := Complement(Single('x'))
	assert.False(notX.Matches('x'))
	assert.True(notX.Matches('y'))
	assert.True(notX.Matches(Newline))
}

func Test_Transition_Union_CoalescesOverlaps(t *testing.T) {
	assert := assert.New(t)

	u := Union(Range{Lo: 'a', Hi: 'c'}, Range{Lo: 'b', Hi: 'e'}, Range{Lo: 'g', Hi: 'h'})
	require.Len(t, u.Ranges, 2)
	assert.Equal(Range{Lo: 'a', Hi: 'e'}, u.Ranges[0])
	assert.Equal(Range{Lo: 'g', Hi: 'h'}, u.Ranges[1])
}
