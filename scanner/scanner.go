// Package scanner implements the scanner driver of spec.md §4.8: greedy
// maximal-munch tokenization against a merged lexer DFA, with
// scan-no-progress recovery.
//
// Grounded on internal/ictiobus/lex/lazy.go's Next loop: a lazy,
// one-token-at-a-time stream with a panic-mode-style recovery path when no
// pattern matches at the current position.
package scanner

import (
	"fmt"

	"github.com/dekarrin/parsergen/faset"
	"github.com/dekarrin/parsergen/lexspec"
)

// Token is a lexeme read from text combined with the pattern id of the
// matching terminal, per spec.md §6.3.
type Token struct {
	PatternID int
	Lexeme    string
}

// String renders the token for debugging/error-message purposes.
func (t Token) String() string {
	return fmt.Sprintf("(%d, %q)", t.PatternID, t.Lexeme)
}

// EOFToken is emitted once a Scanner reaches the end of input.
func EOFToken() Token {
	return Token{PatternID: lexspec.EOF, Lexeme: "$"}
}

var whitespace = map[rune]bool{' ': true, '\t': true, '\n': true}

// Scanner lazily tokenizes an input string against a merged DFA, one token
// at a time: Next performs only enough work to produce the next token.
type Scanner struct {
	fs    *faset.FASet
	runes []rune
	pos   int
	done  bool
}

// New returns a Scanner over input using the merged DFA fs.
func New(fs *faset.FASet, input string) *Scanner {
	return &Scanner{fs: fs, runes: []rune(input)}
}

// HasNext reports whether the stream has not yet emitted its terminating
// EOF token.
func (s *Scanner) HasNext() bool {
	return !s.done
}

// Next returns the next token in the stream and advances it by one token.
// Once the stream is exhausted, every subsequent call returns the EOF
// sentinel token (-1, "$"), per spec.md §4.8 and §6.3.
func (s *Scanner) Next() Token {
	if s.done {
		return EOFToken()
	}

	for {
		s.skipWhitespace()

		if s.pos >= len(s.runes) {
			s.done = true
			return EOFToken()
		}

		id, lexeme := s.fs.MatchOne(string(s.runes[s.pos:]))
		if lexeme == "" {
			// scan-no-progress (spec.md §7): the merged DFA cannot advance
			// from here. Consume exactly one character and continue; no
			// token is emitted for it.
			s.pos++
			continue
		}

		s.pos += len([]rune(lexeme))
		return Token{PatternID: id, Lexeme: lexeme}
	}
}

func (s *Scanner) skipWhitespace() {
	for s.pos < len(s.runes) && whitespace[s.runes[s.pos]] {
		s.pos++
	}
}

// ScanAll drains a Scanner into a slice, ending with the EOF token. This is
// a convenience for callers (and tests) that don't need the lazy,
// one-token-at-a-time interface.
func ScanAll(fs *faset.FASet, input string) []Token {
	s := New(fs, input)
	var out []Token
	for {
		tok := s.Next()
		out = append(out, tok)
		if tok.PatternID == lexspec.EOF {
			return out
		}
	}
}
