// Package grammar implements the context-free grammar model of spec.md
// §4.5: grammar-text parsing, FIRST-set computation, and direct
// left-recursion elimination.
//
// Grounded on internal/ictiobus/grammar's Grammar/Rule/Production shape and
// item.go's dot-item string rendering (for the production-text canonical
// form), and on the grammar-text syntax and FIRST-set recursion of
// original_source/cfg_utils/cfg.py's ContextFreeGrammar.
package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/parsergen/internal/util"
	"github.com/dekarrin/parsergen/lexspec"
)

// EOF is the sentinel terminal id for end-of-input, matching lexspec.EOF.
const EOF = lexspec.EOF

// Epsilon is the empty-production symbol. A production consisting solely of
// Epsilon derives the empty string; it is written in grammar text as two
// adjacent single quotes: ''.
const Epsilon = ""

// Production is a right-hand-side alternative: a sequence of symbol names.
// A non-terminal symbol is its bare name; a terminal symbol is the raw
// pattern text it was registered under in the shared TypeDefinition.
type Production []string

// String renders a production as a space-joined symbol sequence, the
// canonical form used both for display and as half of the callback-lookup
// key of spec.md §4.10.
func (p Production) String() string {
	if len(p) == 0 || (len(p) == 1 && p[0] == Epsilon) {
		return "''"
	}
	return strings.Join([]string(p), " ")
}

// Equal reports whether two productions have identical symbol sequences.
func (p Production) Equal(o Production) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Rule is every alternative production for a single non-terminal, used for
// programmatic grammar construction as an alternative to Parse.
type Rule struct {
	NonTerminal string
	Productions []Production
}

type prodEntry struct {
	lhs string
	rhs Production
}

// Grammar is a context-free grammar: a set of non-terminals, each with one
// or more productions, built either incrementally via AddTerm/AddRule or in
// one shot from grammar text via Parse.
type Grammar struct {
	types *lexspec.TypeDefinition

	nonTerms     map[string]bool
	nonTermOrder []string
	start        string

	prods      []prodEntry
	prodsByLHS map[string][]int
	rawToID    map[string]int
}

// New returns an empty Grammar whose terminals are registered into types.
// Share one TypeDefinition between a Grammar and the scanner built over the
// same language, so terminal pattern ids agree between the two.
func New(types *lexspec.TypeDefinition) *Grammar {
	return &Grammar{
		types:      types,
		nonTerms:   map[string]bool{},
		prodsByLHS: map[string][]int{},
		rawToID:    map[string]int{},
	}
}

// AddTerm registers a terminal's pattern text, returning its pattern id.
// Registering the same text twice returns the original id.
func (g *Grammar) AddTerm(text string, isRegex bool) int {
	return g.types.Add(text, isRegex)
}

// IsTerminal reports whether sym is a registered terminal's pattern text.
func (g *Grammar) IsTerminal(sym string) bool {
	if sym == Epsilon {
		return false
	}
	_, ok := g.types.IDOf(sym)
	return ok
}

// IsNonTerminal reports whether sym names a non-terminal of this grammar.
func (g *Grammar) IsNonTerminal(sym string) bool {
	return g.nonTerms[sym]
}

// TerminalID returns the pattern id of a terminal symbol. Calling it on a
// symbol that is not a registered terminal returns EOF; callers should
// check IsTerminal first if the distinction matters.
func (g *Grammar) TerminalID(sym string) int {
	id, ok := g.types.IDOf(sym)
	if !ok {
		return EOF
	}
	return id
}

// Types returns the TypeDefinition terminals are registered into.
func (g *Grammar) Types() *lexspec.TypeDefinition {
	return g.types
}

// StartSymbol returns the non-terminal of the first rule added, which is
// the grammar's start symbol per spec.md §4.5.
func (g *Grammar) StartSymbol() string {
	return g.start
}

// NonTerminals returns every non-terminal name, in first-declared order.
func (g *Grammar) NonTerminals() []string {
	out := make([]string, len(g.nonTermOrder))
	copy(out, g.nonTermOrder)
	return out
}

// NumProductions returns the number of productions across all rules.
func (g *Grammar) NumProductions() int {
	return len(g.prods)
}

// Production returns the left- and right-hand sides of production id.
func (g *Grammar) Production(id int) (lhs string, rhs Production) {
	e := g.prods[id]
	return e.lhs, e.rhs
}

// SymbolAt returns the symbol at position dotPos in production id's
// right-hand side, or ("", false) if dotPos runs past the end.
func (g *Grammar) SymbolAt(id, dotPos int) (string, bool) {
	_, rhs := g.Production(id)
	if len(rhs) == 1 && rhs[0] == Epsilon {
		return "", false
	}
	if dotPos < 0 || dotPos >= len(rhs) {
		return "", false
	}
	return rhs[dotPos], true
}

// ProductionLen returns the number of symbols in production id's
// right-hand side, treating a bare epsilon production as length 0.
func (g *Grammar) ProductionLen(id int) int {
	_, rhs := g.Production(id)
	if len(rhs) == 1 && rhs[0] == Epsilon {
		return 0
	}
	return len(rhs)
}

// ProductionInfo returns the non-terminal a production reduces to and how
// many right-hand-side values a reduce for it pops (0 for an epsilon
// production). This is the minimal information parser.Parser's driver
// needs, grounded on original_source/cfg_utils/cfg.py's
// prod_id_to_nargs_and_non_terminal property, documented there as "a
// helper function solely for LangDef".
func (g *Grammar) ProductionInfo(id int) (nonTerminal string, nargs int) {
	e := g.prods[id]
	return e.lhs, g.ProductionLen(id)
}

// ProductionsOf returns the ids of every production for nonTerminal, in
// declaration order.
func (g *Grammar) ProductionsOf(nonTerminal string) []int {
	return g.prodsByLHS[nonTerminal]
}

// AddRule adds one production alternative for nonTerminal and returns its
// production id. The symbols in rhs are not checked here, so a rule may
// refer to a non-terminal whose own rule is added later; Validate reports
// any symbol that ends up neither a registered terminal nor a non-terminal.
func (g *Grammar) AddRule(nonTerminal string, rhs Production) int {
	if !g.nonTerms[nonTerminal] {
		g.nonTerms[nonTerminal] = true
		g.nonTermOrder = append(g.nonTermOrder, nonTerminal)
		if g.start == "" {
			g.start = nonTerminal
		}
	}

	id := len(g.prods)
	g.prods = append(g.prods, prodEntry{lhs: nonTerminal, rhs: rhs})
	g.prodsByLHS[nonTerminal] = append(g.prodsByLHS[nonTerminal], id)

	key := nonTerminal + " -> " + rhs.String()
	if _, exists := g.rawToID[key]; !exists {
		g.rawToID[key] = id
	}
	return id
}

// IDForText resolves grammar source text for a single production, such as
// `E -> E "+" T`, to its production id. It re-tokenizes and re-resolves the
// right-hand side the same way Parse does, so lookup is insensitive to
// incidental whitespace in the caller's text -- this is how
// spec.md §4.10's callback registration keys productions by raw text.
func (g *Grammar) IDForText(raw string) (int, bool) {
	parts := strings.SplitN(raw, "->", 2)
	if len(parts) != 2 {
		return 0, false
	}
	lhs := strings.TrimSpace(parts[0])
	rhs, err := g.resolveAlt(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	id, ok := g.rawToID[lhs+" -> "+rhs.String()]
	return id, ok
}

// Validate reports whether the grammar is well-formed: it must have at
// least one terminal and one rule, every non-terminal referenced in a
// right-hand side must have its own rule, and every non-terminal must be
// reachable from the start symbol.
func (g *Grammar) Validate() error {
	if g.types == nil || g.types.Len() == 0 {
		return fmt.Errorf("grammar: no terminals registered")
	}
	if len(g.prods) == 0 {
		return fmt.Errorf("grammar: no rules added")
	}

	undefined := util.NewSet[string]()
	for _, e := range g.prods {
		for _, sym := range e.rhs {
			if sym == Epsilon || g.IsTerminal(sym) || g.IsNonTerminal(sym) {
				continue
			}
			undefined.Add(sym)
		}
	}
	if !undefined.Empty() {
		return fmt.Errorf("grammar: undefined symbol(s) referenced: %s", util.MakeTextList(undefined.Elements()))
	}

	reached := g.reachableFrom(g.start)
	var unreachable []string
	for _, nt := range g.nonTermOrder {
		if !reached.Has(nt) {
			unreachable = append(unreachable, nt)
		}
	}
	if len(unreachable) > 0 {
		return fmt.Errorf("grammar: non-terminal(s) unreachable from start symbol %q: %s", g.start, util.MakeTextList(unreachable))
	}

	return nil
}

func (g *Grammar) reachableFrom(start string) util.Set[string] {
	seen := util.NewSet[string]()
	seen.Add(start)
	queue := []string{start}
	for len(queue) > 0 {
		nt := queue[0]
		queue = queue[1:]
		for _, id := range g.prodsByLHS[nt] {
			_, rhs := g.Production(id)
			for _, sym := range rhs {
				if g.IsNonTerminal(sym) && !seen.Has(sym) {
					seen.Add(sym)
					queue = append(queue, sym)
				}
			}
		}
	}
	return seen
}

// Augmented returns a copy of g with one extra production appended: a fresh
// non-terminal (g's start symbol with primes appended until the name is
// unused) whose sole production is that start symbol alone. It returns the
// copy and the new production's id.
//
// lr.Build uses this so the canonical collection's accept condition is
// "this exact synthetic production completed with lookahead EOF", never
// "the user's start production completed under any lookahead" -- the latter
// fires mid-parse for a recursive or bare start symbol (e.g. S -> S "a" |
// "b"), per spec.md §6.2's "the builder conventionally wraps it with a
// synthetic START -> S" and the gorgo lr package's S'->S convention.
// Production ids below NumProductions() are preserved unchanged, so callers
// that only ever see the original ids (parser.Parser reducing by production,
// in particular) are unaffected by the wrapping.
func (g *Grammar) Augmented() (aug *Grammar, startProdID int, err error) {
	if err := g.validateAugmentable(); err != nil {
		return nil, 0, err
	}

	clone := &Grammar{
		types:        g.types,
		nonTerms:     make(map[string]bool, len(g.nonTerms)+1),
		nonTermOrder: append([]string(nil), g.nonTermOrder...),
		start:        g.start,
		prods:        append([]prodEntry(nil), g.prods...),
		prodsByLHS:   make(map[string][]int, len(g.prodsByLHS)+1),
		rawToID:      make(map[string]int, len(g.rawToID)+1),
	}
	for nt, v := range g.nonTerms {
		clone.nonTerms[nt] = v
	}
	for nt, ids := range g.prodsByLHS {
		clone.prodsByLHS[nt] = append([]int(nil), ids...)
	}
	for k, v := range g.rawToID {
		clone.rawToID[k] = v
	}

	newStart := g.start + "'"
	for clone.nonTerms[newStart] {
		newStart += "'"
	}

	startProdID = clone.AddRule(newStart, Production{g.start})
	clone.start = newStart
	return clone, startProdID, nil
}

// RawProductionIndex returns a copy of the raw-text-to-production-id index
// IDForText resolves against, for callers (langdef's persistence layer)
// that need to ship it independently of the Grammar itself.
func (g *Grammar) RawProductionIndex() map[string]int {
	out := make(map[string]int, len(g.rawToID))
	for k, v := range g.rawToID {
		out[k] = v
	}
	return out
}

// ParseError reports a problem found while parsing grammar text.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("grammar: line %d: %s", e.Line, e.Msg)
}

// Parse builds a Grammar from text in the form described by spec.md §6.2:
// one rule per line, "LHS -> ALT1 | ALT2 | ...", with terminals spelled
// "literal" or r"regex" and ε spelled ''. A first pass over every line
// collects the set of non-terminal names (every symbol used as some lhs); a
// bare identifier elsewhere is resolved as a non-terminal only if it is a
// member of that set, otherwise it must use quoted terminal syntax.
//
// types is the TypeDefinition terminal pattern text is registered into;
// share it with the scanner built over the same language so pattern ids
// agree between the lexer and the grammar.
func Parse(text string, types *lexspec.TypeDefinition) (*Grammar, error) {
	lines := strings.Split(text, "\n")

	type rawRule struct {
		lineNo int
		lhs    string
		alts   []string
	}
	var rules []rawRule
	nonTerms := map[string]bool{}

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "->", 2)
		if len(parts) != 2 {
			return nil, &ParseError{Line: i + 1, Msg: fmt.Sprintf("expected 'LHS -> ...', got %q", line)}
		}
		lhs := strings.TrimSpace(parts[0])
		if lhs == "" {
			return nil, &ParseError{Line: i + 1, Msg: "empty left-hand side"}
		}
		nonTerms[lhs] = true

		// split on '|' only outside quoted terminals, so a regex terminal
		// such as r"0|-?[1-9][0-9]*" stays one alternative
		var alts []string
		var quote rune
		altStart := 0
		for j, ch := range parts[1] {
			switch {
			case quote != 0:
				if ch == quote {
					quote = 0
				}
			case ch == '"' || ch == '\'':
				quote = ch
			case ch == '|':
				alts = append(alts, parts[1][altStart:j])
				altStart = j + 1
			}
		}
		alts = append(alts, parts[1][altStart:])
		rawAlts := make([]string, len(alts))
		for j, a := range alts {
			rawAlts[j] = strings.TrimSpace(a)
		}
		rules = append(rules, rawRule{lineNo: i + 1, lhs: lhs, alts: rawAlts})
	}

	if len(rules) == 0 {
		return nil, fmt.Errorf("grammar: no rules found in input")
	}

	g := New(types)
	g.nonTerms = nonTerms
	for _, r := range rules {
		for _, alt := range r.alts {
			rhs, err := g.resolveAltAt(alt, r.lineNo)
			if err != nil {
				return nil, err
			}
			g.AddRule(r.lhs, rhs)
		}
	}
	// AddRule above leaves nonTermOrder and start unset, since the first pass
	// already filled g.nonTerms with every lhs; set them here in
	// rule-declaration order.
	g.nonTermOrder = nil
	seen := map[string]bool{}
	for _, r := range rules {
		if !seen[r.lhs] {
			seen[r.lhs] = true
			g.nonTermOrder = append(g.nonTermOrder, r.lhs)
		}
	}
	g.start = rules[0].lhs

	return g, nil
}

func (g *Grammar) resolveAlt(alt string) (Production, error) {
	return g.resolveAltAt(alt, 0)
}

func (g *Grammar) resolveAltAt(alt string, lineNo int) (Production, error) {
	fields := strings.Fields(alt)
	if len(fields) == 0 {
		return nil, &ParseError{Line: lineNo, Msg: "empty alternative"}
	}
	if len(fields) == 1 && fields[0] == "''" {
		return Production{Epsilon}, nil
	}

	rhs := make(Production, 0, len(fields))
	for _, tok := range fields {
		if tok == "''" {
			return nil, &ParseError{Line: lineNo, Msg: "ε ('') must be the entire alternative, not mixed with other symbols"}
		}
		if g.nonTerms[tok] {
			rhs = append(rhs, tok)
			continue
		}
		text, isRegex, ok := parseTerminalToken(tok)
		if !ok {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("undefined non-terminal or malformed terminal: %q", tok)}
		}
		g.types.Add(text, isRegex)
		rhs = append(rhs, text)
	}
	return rhs, nil
}

// parseTerminalToken recognizes "literal", 'literal', r"regex", and
// r'regex' terminal syntax, per original_source/cfg_utils/cfg.py's
// parse_terminal.
func parseTerminalToken(tok string) (text string, isRegex bool, ok bool) {
	if len(tok) >= 3 && (tok[0] == 'r' || tok[0] == 'R') {
		inner := tok[1:]
		if len(inner) >= 2 && ((inner[0] == '"' && inner[len(inner)-1] == '"') || (inner[0] == '\'' && inner[len(inner)-1] == '\'')) {
			return inner[1 : len(inner)-1], true, true
		}
	}
	if len(tok) >= 2 && ((tok[0] == '"' && tok[len(tok)-1] == '"') || (tok[0] == '\'' && tok[len(tok)-1] == '\'')) {
		return tok[1 : len(tok)-1], false, true
	}
	return "", false, false
}
