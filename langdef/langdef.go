// Package langdef provides the top-level façade of spec.md §4.10: a
// LangDef binds a scanner (merged lexer DFA), a grammar, and its LR(1)
// tables into one object offering Register/Scan/Parse/Eval, with a JSON
// persisted form that can be reloaded without recomputing the tables.
//
// Grounded on original_source/lang_def.py's LangDef (owning typedef, cfg,
// action/goto, and a production-fn register together) and
// original_source/Parser.py's top-level genActionGoto+parse pairing.
package langdef

import (
	"fmt"

	"github.com/dekarrin/parsergen/faset"
	"github.com/dekarrin/parsergen/grammar"
	"github.com/dekarrin/parsergen/lexspec"
	"github.com/dekarrin/parsergen/lr"
	"github.com/dekarrin/parsergen/parser"
	"github.com/dekarrin/parsergen/scanner"
)

// LangDef is a complete, ready-to-run language definition: a lexer, a
// grammar, and the LR(1) tables built from it.
type LangDef struct {
	types   *lexspec.TypeDefinition
	grammar *grammar.Grammar // nil when reloaded from JSON
	tables  *lr.Tables
	scan    *faset.FASet
	parse   *parser.Parser
}

// New parses grammarText (spec.md §6.2 syntax) and builds its scanner and
// LR(1) ACTION/GOTO tables. It returns an error if the grammar text is
// malformed, fails validation, or is not LR(1).
func New(grammarText string) (*LangDef, error) {
	types := lexspec.New()
	g, err := grammar.Parse(grammarText, types)
	if err != nil {
		return nil, fmt.Errorf("langdef: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("langdef: %w", err)
	}

	automaton, err := lr.Build(g)
	if err != nil {
		return nil, fmt.Errorf("langdef: %w", err)
	}
	tables, err := lr.BuildTables(automaton)
	if err != nil {
		return nil, fmt.Errorf("langdef: %w", err)
	}

	fs, err := types.BuildMergedDFA()
	if err != nil {
		return nil, fmt.Errorf("langdef: %w", err)
	}

	return &LangDef{
		types:   types,
		grammar: g,
		tables:  tables,
		scan:    fs,
		parse:   parser.New(g, tables),
	}, nil
}

// Register binds fn to run whenever the production identified by raw
// grammar-text (e.g. `E -> E "+" T`) is reduced during Parse/Eval. A LangDef
// built by New accepts the original quoted grammar source for
// productionText; one reloaded via FromJSON only has the canonical resolved
// form available (as grammar.Production.String() renders it, with quoting
// already stripped), since no terminal table survives the round trip.
func (ld *LangDef) Register(productionText string, fn parser.CallbackFunc) error {
	return ld.parse.Register(productionText, fn)
}

// Scan tokenizes input against the merged scanner DFA.
func (ld *LangDef) Scan(input string) []scanner.Token {
	return scanner.ScanAll(ld.scan, input)
}

// Parse scans input and drives the LR(1) parser over the result, returning
// the value the start symbol's registered callback produced.
func (ld *LangDef) Parse(input string) (any, error) {
	return ld.parse.Parse(ld.Scan(input))
}

// Eval is an alias for Parse: evaluating input end-to-end through the
// registered callbacks is the common case this façade exists for.
func (ld *LangDef) Eval(input string) (any, error) {
	return ld.Parse(input)
}

// Types returns the TypeDefinition backing this LangDef's scanner, for
// callers that need pattern ids or raw pattern text directly.
func (ld *LangDef) Types() *lexspec.TypeDefinition {
	return ld.types
}

// Grammar returns the parsed grammar, or nil if this LangDef was built via
// FromJSON (a reloaded LangDef keeps only the tables and production
// metadata it needs to parse and dispatch callbacks, not the full grammar
// used to derive them).
func (ld *LangDef) Grammar() *grammar.Grammar {
	return ld.grammar
}
