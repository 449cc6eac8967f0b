package grammar

import "github.com/dekarrin/parsergen/internal/util"

// FirstSet is the result of computing FIRST(α) for some symbol or symbol
// sequence α: the set of terminal pattern ids that can begin a string
// derived from α, plus whether α can derive the empty string.
type FirstSet struct {
	Terminals util.Set[int]
	Epsilon   bool
}

func newFirstSet() *FirstSet {
	return &FirstSet{Terminals: util.NewSet[int]()}
}

// Has reports whether terminal id is in the set.
func (fs *FirstSet) Has(id int) bool {
	return fs.Terminals[id]
}

// First computes the FIRST set of every non-terminal, via fixed-point
// iteration over every production until no set changes. A worklist fixed
// point (rather than recursive descent) converges regardless of direct or
// indirect left recursion in the grammar, since FIRST sets only ever grow
// and the domain (terminal ids plus epsilon) is finite -- so, unlike
// original_source/cfg_utils/cfg.py's recursive gen_first_set_of_symbol,
// this never needs a self-recursion guard.
func (g *Grammar) First() map[string]*FirstSet {
	result := make(map[string]*FirstSet, len(g.nonTermOrder))
	for _, nt := range g.nonTermOrder {
		result[nt] = newFirstSet()
	}

	for changed := true; changed; {
		changed = false
		for _, nt := range g.nonTermOrder {
			dst := result[nt]
			for _, prodID := range g.prodsByLHS[nt] {
				_, rhs := g.Production(prodID)
				sizeBefore, epsBefore := len(dst.Terminals), dst.Epsilon
				g.accumulateFirstOfSequence(rhs, result, dst)
				if len(dst.Terminals) != sizeBefore || dst.Epsilon != epsBefore {
					changed = true
				}
			}
		}
	}
	return result
}

// FirstOfSequence computes FIRST(seq) given the grammar's non-terminal
// FIRST sets (as returned by First). This is the form the lr package's item
// closure needs: FIRST of the symbols following a dot, followed by a
// lookahead symbol.
func (g *Grammar) FirstOfSequence(seq Production, firsts map[string]*FirstSet) *FirstSet {
	dst := newFirstSet()
	g.accumulateFirstOfSequence(seq, firsts, dst)
	return dst
}

func (g *Grammar) accumulateFirstOfSequence(seq Production, firsts map[string]*FirstSet, dst *FirstSet) {
	if len(seq) == 0 || (len(seq) == 1 && seq[0] == Epsilon) {
		dst.Epsilon = true
		return
	}

	allEpsilonSoFar := true
	for _, sym := range seq {
		if g.IsTerminal(sym) {
			dst.Terminals[g.TerminalID(sym)] = true
			allEpsilonSoFar = false
			break
		}

		sub := firsts[sym]
		if sub == nil {
			allEpsilonSoFar = false
			break
		}
		dst.Terminals.AddAll(sub.Terminals)
		if !sub.Epsilon {
			allEpsilonSoFar = false
			break
		}
	}
	if allEpsilonSoFar {
		dst.Epsilon = true
	}
}
