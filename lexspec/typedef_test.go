package lexspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Add_IsIdempotent(t *testing.T) {
	td := New()
	id1 := td.Add("mut", false)
	id2 := td.Add("mut", false)
	assert.Equal(t, id1, id2)
	assert.Equal(t, 1, td.Len())
}

func Test_IDs_AreDenseFromZero(t *testing.T) {
	td := New()
	a := td.Add("mut", false)
	b := td.Add(`[a-z]+`, true)

	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)

	text, ok := td.TextOf(b)
	require.True(t, ok)
	assert.Equal(t, `[a-z]+`, text)

	id, ok := td.IDOf("mut")
	require.True(t, ok)
	assert.Equal(t, a, id)
}

func Test_BuildMergedDFA_MixesLiteralsAndRegexes(t *testing.T) {
	td := New()
	td.Add("mut", false)
	td.Add(`([a-zA-Z]|_)([0-9a-zA-Z]|_)*`, true)

	fs, err := td.BuildMergedDFA()
	require.NoError(t, err)

	id, lex := fs.MatchOne("mutable")
	assert.Equal(t, 1, id)
	assert.Equal(t, "mutable", lex)

	// rebuilding should reuse the cached automaton and agree with itself
	fs2, err := td.BuildMergedDFA()
	require.NoError(t, err)
	assert.Same(t, fs, fs2)
}
