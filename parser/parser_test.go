package parser

import (
	"strconv"
	"testing"

	"github.com/dekarrin/parsergen/grammar"
	"github.com/dekarrin/parsergen/lexspec"
	"github.com/dekarrin/parsergen/lr"
	"github.com/dekarrin/parsergen/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calcGrammar = `
START -> E
E -> E "+" T | E "-" T | T
T -> T "*" F | F
F -> "(" E ")" | int
int -> r"0|-?[1-9][0-9]*"
`

func buildCalcParser(t *testing.T) (*Parser, *lexspec.TypeDefinition) {
	t.Helper()
	types := lexspec.New()
	g, err := grammar.Parse(calcGrammar, types)
	require.NoError(t, err)
	require.NoError(t, g.Validate())

	automaton, err := lr.Build(g)
	require.NoError(t, err)
	tables, err := lr.BuildTables(automaton)
	require.NoError(t, err)

	p := New(g, tables)

	must := func(text string, fn CallbackFunc) {
		require.NoError(t, p.Register(text, fn))
	}
	must(`START -> E`, func(_ *Context, v []any) (any, error) { return v[0], nil })
	must(`E -> E "+" T`, func(_ *Context, v []any) (any, error) { return v[0].(int) + v[2].(int), nil })
	must(`E -> E "-" T`, func(_ *Context, v []any) (any, error) { return v[0].(int) - v[2].(int), nil })
	must(`E -> T`, func(_ *Context, v []any) (any, error) { return v[0], nil })
	must(`T -> T "*" F`, func(_ *Context, v []any) (any, error) { return v[0].(int) * v[2].(int), nil })
	must(`T -> F`, func(_ *Context, v []any) (any, error) { return v[0], nil })
	must(`F -> "(" E ")"`, func(_ *Context, v []any) (any, error) { return v[1], nil })
	must(`F -> int`, func(_ *Context, v []any) (any, error) { return v[0], nil })
	must(`int -> r"0|-?[1-9][0-9]*"`, func(_ *Context, v []any) (any, error) {
		return strconv.Atoi(v[0].(string))
	})

	return p, types
}

func Test_Parse_CalcExpressions(t *testing.T) {
	p, types := buildCalcParser(t)
	fs, err := types.BuildMergedDFA()
	require.NoError(t, err)

	cases := []struct {
		input string
		want  int
	}{
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"10 - -5", 15},
		{"0", 0},
	}

	for _, tc := range cases {
		toks := scanner.ScanAll(fs, tc.input)
		result, err := p.Parse(toks)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.want, result, tc.input)
	}
}

func Test_Parse_SyntaxError(t *testing.T) {
	p, types := buildCalcParser(t)
	fs, err := types.BuildMergedDFA()
	require.NoError(t, err)

	toks := scanner.ScanAll(fs, "1 + + 2")
	_, err = p.Parse(toks)
	require.Error(t, err)

	var syn *SyntaxError
	require.ErrorAs(t, err, &syn)
}
