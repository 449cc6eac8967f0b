// Package parser implements the shift/reduce parse driver of spec.md §4.9:
// a two-stack LR(1) machine over a lr.Tables, with callback dispatch keyed
// by production text.
//
// Grounded on original_source/Parser.py's parse() (the state-stack and
// node-stack shift/reduce loop, with reduce popping len(production)
// symbols and pushing a new node via GOTO) and production_fn_register.py's
// ProductionFnRegister (callbacks registered by raw production text,
// invoked with one positional value per non-epsilon right-hand-side
// symbol, each call producing the reduced value for its non-terminal).
package parser

import (
	"fmt"

	"github.com/dekarrin/parsergen/lr"
	"github.com/dekarrin/parsergen/scanner"
)

// Grammar is the minimal view of a grammar the parse driver needs: enough
// to resolve callback-registration text to a production id, and to drive a
// reduce (the non-terminal a production reduces to, and how many values to
// pop for it). *grammar.Grammar satisfies this directly; langdef also
// builds a lightweight implementation from persisted production metadata
// alone when a LangDef is reloaded from JSON, without reconstructing a
// full grammar.Grammar or its FIRST sets.
type Grammar interface {
	IDForText(raw string) (id int, ok bool)
	ProductionInfo(id int) (nonTerminal string, nargs int)
}

// Context is passed to every callback invocation. It currently carries no
// state but gives callbacks a stable extension point (e.g. for future
// position tracking) without changing every registered function's
// signature.
type Context struct{}

// CallbackFunc computes the value of a non-terminal from the already
// reduced (or, for terminals, raw lexeme) values of its production's
// right-hand-side symbols, in left-to-right order. Epsilon productions are
// called with an empty values slice.
type CallbackFunc func(ctx *Context, values []any) (any, error)

// SyntaxError reports that no ACTION table entry exists for the current
// state and lookahead terminal.
type SyntaxError struct {
	State       int
	Token       scanner.Token
	RecentInput []scanner.Token
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("parser: syntax error: unexpected token %s in state %d (recent input: %v)",
		e.Token, e.State, e.RecentInput)
}

// Parser drives an LR(1) parse over a grammar and its precomputed tables,
// dispatching a registered callback for every completed production.
type Parser struct {
	g         Grammar
	tables    *lr.Tables
	callbacks map[int]CallbackFunc
}

// New returns a Parser for g using the given ACTION/GOTO tables, which must
// have been built from an Automaton over g (via lr.Build/lr.BuildTables).
func New(g Grammar, tables *lr.Tables) *Parser {
	return &Parser{g: g, tables: tables, callbacks: map[int]CallbackFunc{}}
}

// Register binds fn to run whenever the production identified by raw
// grammar-text (e.g. `E -> E "+" T`) is reduced. The text is resolved by
// g.IDForText: a *grammar.Grammar normalizes whitespace the same way
// grammar.Parse does, so incidental spacing doesn't matter there, while the
// grammar langdef rebuilds from JSON matches the canonical text exactly.
func (p *Parser) Register(productionText string, fn CallbackFunc) error {
	id, ok := p.g.IDForText(productionText)
	if !ok {
		return fmt.Errorf("parser: unknown production %q", productionText)
	}
	p.callbacks[id] = fn
	return nil
}

type stackEntry struct {
	state int
	value any
}

// Parse drives the shift/reduce machine over tokens, which must end with
// the scanner package's EOF sentinel token, and returns the value the
// start symbol's production callback produced.
func (p *Parser) Parse(tokens []scanner.Token) (any, error) {
	stack := []stackEntry{{state: 0}}
	pos := 0

	for {
		if pos >= len(tokens) {
			return nil, fmt.Errorf("parser: internal error: ran out of input before an accept action")
		}
		tok := tokens[pos]
		cur := stack[len(stack)-1].state

		entry, ok := p.tables.Action[cur][tok.PatternID]
		if !ok {
			return nil, &SyntaxError{State: cur, Token: tok, RecentInput: recentWindow(tokens, pos)}
		}

		switch entry.Type {
		case lr.Shift:
			stack = append(stack, stackEntry{state: entry.Target, value: tok.Lexeme})
			pos++

		case lr.Reduce:
			lhs, n := p.g.ProductionInfo(entry.Target)
			values := make([]any, n)
			for i := n - 1; i >= 0; i-- {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				values[i] = top.value
			}

			var result any
			if cb, ok := p.callbacks[entry.Target]; ok {
				var err error
				result, err = cb(&Context{}, values)
				if err != nil {
					return nil, fmt.Errorf("parser: callback for production %d (%s -> ...): %w", entry.Target, lhs, err)
				}
			}

			topState := stack[len(stack)-1].state
			dest, ok := p.tables.Goto[topState][lhs]
			if !ok {
				return nil, fmt.Errorf("parser: internal error: no goto from state %d on %q", topState, lhs)
			}
			stack = append(stack, stackEntry{state: dest, value: result})

		case lr.Accept:
			return stack[len(stack)-1].value, nil
		}
	}
}

func recentWindow(tokens []scanner.Token, pos int) []scanner.Token {
	start := pos - 3
	if start < 0 {
		start = 0
	}
	end := pos + 1
	if end > len(tokens) {
		end = len(tokens)
	}
	out := make([]scanner.Token, end-start)
	copy(out, tokens[start:end])
	return out
}
