package faset

import (
	"testing"

	"github.com/dekarrin/parsergen/fa"
	"github.com/dekarrin/parsergen/regex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, pattern string) *fa.FA {
	t.Helper()
	f, err := regex.Compile(pattern)
	require.NoError(t, err)
	return f.Minimize()
}

func literal(t *testing.T, s string) *fa.FA {
	t.Helper()
	var f *fa.FA
	for _, r := range s {
		lit := fa.Literal(fa.Single(r))
		if f == nil {
			f = lit
		} else {
			f = fa.Concat(f, lit)
		}
	}
	return f
}

// Test_ScannerPriority covers the §8 "Scanner priority" scenario: "mut"
// declared before an identifier regex must still lose to the identifier
// class on "mutable" because its match is longer (maximal munch).
func Test_ScannerPriority(t *testing.T) {
	mut := literal(t, "mut")
	ident := mustCompile(t, `([a-zA-Z]|_)([0-9a-zA-Z]|_)*`)

	fs := Merge([]*fa.FA{mut, ident})

	id, lex := fs.MatchOne("mut")
	assert.Equal(t, 0, id)
	assert.Equal(t, "mut", lex)

	id, lex = fs.MatchOne("mutable")
	assert.Equal(t, 1, id)
	assert.Equal(t, "mutable", lex)
}

// Test_ScannerAmbiguity_SmallestIDWins covers the §8 "Scanner ambiguity
// with string class" scenario.
func Test_ScannerAmbiguity_SmallestIDWins(t *testing.T) {
	quotedIdent := mustCompile(t, `'([a-zA-Z]|_)([0-9a-zA-Z]|_)*`)
	quotedChar := mustCompile(t, `'.'`)

	fs := Merge([]*fa.FA{quotedIdent, quotedChar})

	type step struct {
		wantID  int
		wantLex string
	}
	input := "'a '5' 'b 'c'"
	want := []step{
		{0, "'a"},
		{1, "'5'"},
		{0, "'b"},
		{1, "'c'"},
	}

	pos := 0
	for _, w := range want {
		for pos < len(input) && input[pos] == ' ' {
			pos++
		}
		id, lex := fs.MatchOne(input[pos:])
		assert.Equal(t, w.wantID, id)
		assert.Equal(t, w.wantLex, lex)
		pos += len(lex)
	}
}

func Test_MatchOne_NoMatch(t *testing.T) {
	fs := Merge([]*fa.FA{literal(t, "abc")})
	id, lex := fs.MatchOne("xyz")
	assert.Equal(t, fa.NoPattern, id)
	assert.Equal(t, "", lex)
}
