package scanner

import (
	"testing"

	"github.com/dekarrin/parsergen/lexspec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDFA(t *testing.T, patterns []struct {
	text    string
	isRegex bool
}) *lexspec.TypeDefinition {
	t.Helper()
	td := lexspec.New()
	for _, p := range patterns {
		td.Add(p.text, p.isRegex)
	}
	return td
}

func Test_Scan_MaximalMunchPriority(t *testing.T) {
	td := buildDFA(t, []struct {
		text    string
		isRegex bool
	}{
		{"mut", false},
		{`([a-zA-Z]|_)([0-9a-zA-Z]|_)*`, true},
	})
	fs, err := td.BuildMergedDFA()
	require.NoError(t, err)

	toks := ScanAll(fs, "mut")
	assert.Equal(t, []Token{{0, "mut"}, {lexspec.EOF, "$"}}, toks)

	toks = ScanAll(fs, "mutable")
	assert.Equal(t, []Token{{1, "mutable"}, {lexspec.EOF, "$"}}, toks)
}

func Test_Scan_NoProgress_SkipsAndEmitsNoToken(t *testing.T) {
	td := buildDFA(t, []struct {
		text    string
		isRegex bool
	}{
		{"<", false}, {">", false}, {"+", false}, {"-", false},
		{".", false}, {",", false}, {"[", false}, {"]", false},
	})
	fs, err := td.BuildMergedDFA()
	require.NoError(t, err)

	toks := ScanAll(fs, "< abc, +def>")
	want := []Token{
		{0, "<"}, {5, ","}, {2, "+"}, {1, ">"}, {lexspec.EOF, "$"},
	}
	assert.Equal(t, want, toks)
}

func Test_Scan_EmptyInput(t *testing.T) {
	td := buildDFA(t, []struct {
		text    string
		isRegex bool
	}{{"a", false}})
	fs, err := td.BuildMergedDFA()
	require.NoError(t, err)

	toks := ScanAll(fs, "")
	assert.Equal(t, []Token{{lexspec.EOF, "$"}}, toks)
}
