package grammar

import (
	"testing"

	"github.com/dekarrin/parsergen/lexspec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parse_BasicCalcGrammar(t *testing.T) {
	types := lexspec.New()
	src := `
START -> E
E -> E "+" T | E "-" T | T
T -> T "*" F | F
F -> "(" E ")" | int
int -> r"0|-?[1-9][0-9]*"
`
	g, err := Parse(src, types)
	require.NoError(t, err)

	assert.Equal(t, "START", g.StartSymbol())
	assert.ElementsMatch(t, []string{"START", "E", "T", "F", "int"}, g.NonTerminals())
	assert.True(t, g.IsNonTerminal("E"))
	assert.True(t, g.IsTerminal("+"))
	assert.False(t, g.IsTerminal("int"))

	require.NoError(t, g.Validate())
}

func Test_Parse_RegexTerminalAndEpsilon(t *testing.T) {
	types := lexspec.New()
	src := `
S -> A "b"
A -> r"[0-9]+" | ''
`
	g, err := Parse(src, types)
	require.NoError(t, err)

	id, ok := types.IDOf("[0-9]+")
	require.True(t, ok)
	assert.True(t, types.IsRegex(id))

	prods := g.ProductionsOf("A")
	require.Len(t, prods, 2)
	_, rhs := g.Production(prods[1])
	assert.Equal(t, Production{Epsilon}, rhs)
	assert.Equal(t, 0, g.ProductionLen(prods[1]))
}

func Test_Parse_UndefinedSymbol_IsError(t *testing.T) {
	types := lexspec.New()
	_, err := Parse("S -> A b", types)
	require.Error(t, err)
}

func Test_Validate_RequiresTerminalsAndRules(t *testing.T) {
	empty := New(lexspec.New())
	assert.Error(t, empty.Validate())

	noRules := New(lexspec.New())
	noRules.AddTerm("x", false)
	assert.Error(t, noRules.Validate())
}

func Test_Validate_UnreachableNonTerminal_IsError(t *testing.T) {
	types := lexspec.New()
	g := New(types)
	g.AddTerm("a", false)
	g.AddRule("S", Production{"a"})
	g.AddRule("Unused", Production{"a"})

	err := g.Validate()
	require.Error(t, err)
}

func Test_IDForText_NormalizesWhitespace(t *testing.T) {
	types := lexspec.New()
	g, err := Parse(`E -> E "+" T | T
T -> "t"`, types)
	require.NoError(t, err)

	id1, ok := g.IDForText(`E   ->    E   "+"   T`)
	require.True(t, ok)
	id2, ok := g.IDForText(`E -> E "+" T`)
	require.True(t, ok)
	assert.Equal(t, id1, id2)

	_, ok = g.IDForText(`E -> nope`)
	assert.False(t, ok)
}

func Test_First_NoLeftRecursion(t *testing.T) {
	types := lexspec.New()
	g, err := Parse(`
S -> "b" A | "b"
A -> "a"
`, types)
	require.NoError(t, err)

	first := g.First()
	aID, _ := types.IDOf("a")
	bID, _ := types.IDOf("b")

	assert.True(t, first["S"].Has(bID))
	assert.False(t, first["S"].Epsilon)
	assert.True(t, first["A"].Has(aID))
}

func Test_First_HandlesDirectLeftRecursion(t *testing.T) {
	types := lexspec.New()
	g, err := Parse(`
S -> "b" A | "b"
A -> A "a" | "a"
`, types)
	require.NoError(t, err)

	first := g.First()
	aID, _ := types.IDOf("a")
	assert.True(t, first["A"].Has(aID))
	assert.False(t, first["A"].Epsilon)
}

func Test_IsLeftRecursive(t *testing.T) {
	types := lexspec.New()
	g, err := Parse(`
S -> "b" A | "b"
A -> A "a" | "a"
`, types)
	require.NoError(t, err)
	assert.True(t, g.IsLeftRecursive())

	types2 := lexspec.New()
	g2, err := Parse(`
S -> "b" A | "b"
A -> "a"
`, types2)
	require.NoError(t, err)
	assert.False(t, g2.IsLeftRecursive())
}

func Test_RemoveLeftRecursion_ImmediateOnly(t *testing.T) {
	types := lexspec.New()
	g, err := Parse(`
S -> "b" A | "b"
A -> A "a" | "a"
`, types)
	require.NoError(t, err)

	out := g.RemoveLeftRecursion()
	require.NoError(t, out.Validate())
	assert.False(t, out.IsLeftRecursive())

	// A's productions should now be "a A'" only, with a fresh A' rule.
	aProds := out.ProductionsOf("A")
	require.Len(t, aProds, 1)
	_, rhs := out.Production(aProds[0])
	require.Len(t, rhs, 2)
	assert.Equal(t, "a", rhs[0])

	subName := rhs[1]
	assert.NotEqual(t, "A", subName)

	subProds := out.ProductionsOf(subName)
	require.Len(t, subProds, 2)
}
