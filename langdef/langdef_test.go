package langdef

import (
	"strconv"
	"testing"

	"github.com/dekarrin/parsergen/parser"
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

func buildCalcLangDef(t *testing.T) *LangDef {
	t.Helper()
	ld, err := New(calcGrammar)
	require.NoError(t, err)

	must := func(text string, fn parser.CallbackFunc) {
		t.Helper()
		require.NoError(t, ld.Register(text, fn))
	}
	must(`START -> E`, func(_ *parser.Context, v []any) (any, error) { return v[0], nil })
	must(`E -> E "+" T`, func(_ *parser.Context, v []any) (any, error) { return v[0].(int) + v[2].(int), nil })
	must(`E -> E "-" T`, func(_ *parser.Context, v []any) (any, error) { return v[0].(int) - v[2].(int), nil })
	must(`E -> T`, func(_ *parser.Context, v []any) (any, error) { return v[0], nil })
	must(`T -> T "*" F`, func(_ *parser.Context, v []any) (any, error) { return v[0].(int) * v[2].(int), nil })
	must(`T -> F`, func(_ *parser.Context, v []any) (any, error) { return v[0], nil })
	must(`F -> "(" E ")"`, func(_ *parser.Context, v []any) (any, error) { return v[1], nil })
	must(`F -> int`, func(_ *parser.Context, v []any) (any, error) { return v[0], nil })
	must(`int -> r"0|-?[1-9][0-9]*"`, func(_ *parser.Context, v []any) (any, error) {
		return strconv.Atoi(v[0].(string))
	})
	return ld
}

// registerCalcCallbacksCanonical registers the same callbacks a reloaded
// LangDef needs, keyed by the canonical resolved production text FromJSON
// requires (grammar.Production.String()'s rendering, with terminal quoting
// already stripped) rather than the original quoted grammar source.
func registerCalcCallbacksCanonical(t *testing.T, ld *LangDef) {
	t.Helper()
	must := func(text string, fn parser.CallbackFunc) {
		t.Helper()
		require.NoError(t, ld.Register(text, fn))
	}
	must(`START -> E`, func(_ *parser.Context, v []any) (any, error) { return v[0], nil })
	must(`E -> E + T`, func(_ *parser.Context, v []any) (any, error) { return v[0].(int) + v[2].(int), nil })
	must(`E -> E - T`, func(_ *parser.Context, v []any) (any, error) { return v[0].(int) - v[2].(int), nil })
	must(`E -> T`, func(_ *parser.Context, v []any) (any, error) { return v[0], nil })
	must(`T -> T * F`, func(_ *parser.Context, v []any) (any, error) { return v[0].(int) * v[2].(int), nil })
	must(`T -> F`, func(_ *parser.Context, v []any) (any, error) { return v[0], nil })
	must(`F -> ( E )`, func(_ *parser.Context, v []any) (any, error) { return v[1], nil })
	must(`F -> int`, func(_ *parser.Context, v []any) (any, error) { return v[0], nil })
	must(`int -> 0|-?[1-9][0-9]*`, func(_ *parser.Context, v []any) (any, error) {
		return strconv.Atoi(v[0].(string))
	})
}

func Test_New_EvalCalcExpressions(t *testing.T) {
	ld := buildCalcLangDef(t)

	cases := []struct {
		input string
		want  int
	}{
		{"1 + 2 * 3", 7},
		{"(1 + 2) * 3", 9},
		{"((1+2)*(3-4))", -3},
		{"10 - -5", 15},
		{"0", 0},
	}
	for _, tc := range cases {
		got, err := ld.Eval(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.want, got, tc.input)
	}
}

func Test_ToJSON_FromJSON_RoundTrip(t *testing.T) {
	ld := buildCalcLangDef(t)

	before, err := ld.Eval("((1+2)*(3-4))")
	require.NoError(t, err)
	assert.Equal(t, -3, before)

	data, err := ld.ToJSON()
	require.NoError(t, err)

	reloaded, err := FromJSON(data)
	require.NoError(t, err)
	assert.Nil(t, reloaded.Grammar())

	registerCalcCallbacksCanonical(t, reloaded)

	after, err := reloaded.Eval("((1+2)*(3-4))")
	require.NoError(t, err)
	assert.Equal(t, -3, after)
}

func Test_FromJSON_WithoutRegister_ReducesToNilValues(t *testing.T) {
	ld := buildCalcLangDef(t)
	data, err := ld.ToJSON()
	require.NoError(t, err)

	reloaded, err := FromJSON(data)
	require.NoError(t, err)

	result, err := reloaded.Eval("1")
	require.NoError(t, err)
	assert.Nil(t, result)
}
