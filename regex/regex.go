// Package regex implements the regex→NFA compiler of spec.md §4.1: a
// recursive-descent parser over the surface syntax in spec.md §6.1 that
// builds its result directly as Thompson-construction fragments (see the
// fa package), rather than first building an AST and lowering it
// separately — the construction functions in fa/build.go are themselves
// the interpretation of each grammar rule, following the style
// internal/ictiobus/lex/regex.go sketches (createSingleSymbolFA,
// createJuxtapositionFA, createKleeneStarFA, createAlternationFA) but
// completing what that file leaves as a stub, and over range-set
// transitions instead of single-character ones.
package regex

import (
	"fmt"

	"github.com/dekarrin/parsergen/fa"
)

// ParseError describes a malformed regex, with the rune offset into the
// source pattern where the problem was found, per spec.md §7.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("regex parse error at position %d: %s", e.Pos, e.Msg)
}

const epsilonLiteral = 'ϵ' // ϵ

// Compile parses pattern and returns the NFA built for it via Thompson
// construction.
func Compile(pattern string) (*fa.FA, error) {
	p := &parser{src: []rune(pattern)}
	f, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos])
	}
	return f, nil
}

type parser struct {
	src []rune
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Pos: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) atEnd() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() rune {
	return p.src[p.pos]
}

// parseAlt parses the lowest-precedence level: concat ('|' concat)*.
func (p *parser) parseAlt() (*fa.FA, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}

	for !p.atEnd() && p.peek() == '|' {
		p.pos++
		right, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		left = fa.Alternate(left, right)
	}

	return left, nil
}

// parseConcat parses one or more juxtaposed repeat-level terms.
func (p *parser) parseConcat() (*fa.FA, error) {
	var result *fa.FA

	for !p.atEnd() && p.peek() != '|' && p.peek() != ')' {
		term, err := p.parseRepeat()
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = term
		} else {
			result = fa.Concat(result, term)
		}
	}

	if result == nil {
		return nil, p.errorf("empty expression")
	}
	return result, nil
}

// parseRepeat parses an atom followed by zero or more postfix `*`, `+`, `?`
// operators, which bind tighter than concatenation per spec.md §4.1.
func (p *parser) parseRepeat() (*fa.FA, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for !p.atEnd() {
		switch p.peek() {
		case '*':
			p.pos++
			atom = fa.Star(atom)
		case '+':
			p.pos++
			atom = fa.Plus(atom)
		case '?':
			p.pos++
			atom = fa.Optional(atom)
		default:
			return atom, nil
		}
	}

	return atom, nil
}

func (p *parser) parseAtom() (*fa.FA, error) {
	if p.atEnd() {
		return nil, p.errorf("unexpected end of pattern")
	}

	c := p.peek()
	switch c {
	case '(':
		p.pos++
		inner, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if p.atEnd() || p.peek() != ')' {
			return nil, p.errorf("unbalanced parenthesis")
		}
		p.pos++
		return inner, nil
	case ')':
		return nil, p.errorf("unbalanced parenthesis")
	case '[':
		return p.parseClass()
	case '.':
		p.pos++
		return fa.Literal(fa.AnyCharExceptNewline()), nil
	case '\\':
		p.pos++
		if p.atEnd() {
			return nil, p.errorf("trailing escape")
		}
		esc := p.peek()
		p.pos++
		return fa.Literal(fa.Single(esc)), nil
	case epsilonLiteral:
		p.pos++
		return fa.EpsilonLiteral(), nil
	case '*', '+', '?', '|':
		return nil, p.errorf("unexpected operator %q with no operand", c)
	default:
		if !inAlphabet(c) {
			return nil, p.errorf("character %q is outside the supported alphabet", c)
		}
		p.pos++
		return fa.Literal(fa.Single(c)), nil
	}
}

// parseClass parses `[...]`, `[^...]`, and `[a-z]` range members, per
// spec.md §6.1. Complement is taken against the full printable-ASCII +
// newline alphabet.
func (p *parser) parseClass() (*fa.FA, error) {
	p.pos++ // consume '['

	complement := false
	if !p.atEnd() && p.peek() == '^' {
		complement = true
		p.pos++
	}

	var ranges []fa.Range
	for {
		if p.atEnd() {
			return nil, p.errorf("unbalanced character class")
		}
		if p.peek() == ']' {
			break
		}

		lo, err := p.classChar()
		if err != nil {
			return nil, err
		}

		if !p.atEnd() && p.peek() == '-' && p.pos+1 < len(p.src) && p.src[p.pos+1] != ']' {
			p.pos++ // consume '-'
			hi, err := p.classChar()
			if err != nil {
				return nil, err
			}
			if hi < lo {
				return nil, p.errorf("invalid range %q-%q", lo, hi)
			}
			ranges = append(ranges, fa.Range{Lo: lo, Hi: hi})
		} else {
			ranges = append(ranges, fa.Range{Lo: lo, Hi: lo})
		}
	}

	if len(ranges) == 0 {
		return nil, p.errorf("empty character class")
	}
	p.pos++ // consume ']'

	trans := fa.Union(ranges...)
	if complement {
		trans = fa.Complement(trans)
	}
	return fa.Literal(trans), nil
}

func (p *parser) classChar() (rune, error) {
	c := p.peek()
	if c == '\\' {
		p.pos++
		if p.atEnd() {
			return 0, p.errorf("trailing escape")
		}
		c = p.peek()
	}
	if !inAlphabet(c) {
		return 0, p.errorf("character %q is outside the supported alphabet", c)
	}
	p.pos++
	return c, nil
}

func inAlphabet(c rune) bool {
	return (c >= fa.AlphabetMin && c <= fa.AlphabetMax) || c == fa.Newline
}
