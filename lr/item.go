// Package lr implements the LR(1) item sets, canonical collection, and
// ACTION/GOTO table construction of spec.md §4.6/§4.7.
//
// Grounded on original_source/lr1/lr1_item.go... (lr1_item.py,
// lr1_itemset.py, lr1_itemset_automata.py): the (production id, dot
// position, lookahead set) item shape, the closure/goto split between a
// kernel and its closure, and the canonical-collection BFS over kernels
// memoized by their closure. Conflict reporting is grounded on
// internal/ictiobus/parse/lraction.go's makeLRConflictError.
package lr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/parsergen/grammar"
	"github.com/dekarrin/parsergen/internal/util"
)

// core identifies an LR(1) item without its lookahead set: a dot position
// within one production.
type core struct {
	ProductionID int
	Dot          int
}

// ItemSet is a set of LR(1) items, represented as a core-to-lookaheads map
// so that items sharing a core (common in practice) don't duplicate
// storage.
type ItemSet struct {
	lookaheads map[core]util.Set[int]
}

func newItemSet() *ItemSet {
	return &ItemSet{lookaheads: map[core]util.Set[int]{}}
}

// Add inserts the item (c, lookahead), returning true if this grew the set.
func (s *ItemSet) Add(c core, lookahead int) bool {
	set, ok := s.lookaheads[c]
	if !ok {
		set = util.NewSet[int]()
		s.lookaheads[c] = set
	}
	if set.Has(lookahead) {
		return false
	}
	set.Add(lookahead)
	return true
}

// Cores returns every distinct (production, dot) pair in the set, sorted
// for determinism.
func (s *ItemSet) Cores() []core {
	out := make([]core, 0, len(s.lookaheads))
	for c := range s.lookaheads {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductionID != out[j].ProductionID {
			return out[i].ProductionID < out[j].ProductionID
		}
		return out[i].Dot < out[j].Dot
	})
	return out
}

// Lookaheads returns the sorted lookahead terminal ids recorded for c.
func (s *ItemSet) Lookaheads(c core) []int {
	set := s.lookaheads[c]
	out := make([]int, 0, len(set))
	for la := range set {
		out = append(out, la)
	}
	sort.Ints(out)
	return out
}

// Len reports the number of distinct cores in the set.
func (s *ItemSet) Len() int {
	return len(s.lookaheads)
}

// Signature renders a canonical string encoding of the item set, suitable
// as a map key for deduplicating item sets discovered during canonical
// collection construction (LRItemSet's __hash__/__eq__ in the original).
func (s *ItemSet) Signature() string {
	var b strings.Builder
	for _, c := range s.Cores() {
		fmt.Fprintf(&b, "%d.%d:", c.ProductionID, c.Dot)
		for i, la := range s.Lookaheads(c) {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "%d", la)
		}
		b.WriteByte(';')
	}
	return b.String()
}

func atEnd(g *grammar.Grammar, c core) bool {
	return c.Dot == g.ProductionLen(c.ProductionID)
}

// Closure computes the closure of a kernel item set: repeatedly, for every
// item [A -> α.Bβ, a] with B a non-terminal, add [B -> .γ, b] for every
// production B -> γ and every b in FIRST(βa).
func Closure(g *grammar.Grammar, firsts map[string]*grammar.FirstSet, seed *ItemSet) *ItemSet {
	result := newItemSet()

	type pending struct {
		c  core
		la int
	}
	var queue []pending
	push := func(c core, la int) {
		if result.Add(c, la) {
			queue = append(queue, pending{c, la})
		}
	}

	for _, c := range seed.Cores() {
		for _, la := range seed.Lookaheads(c) {
			push(c, la)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		sym, ok := g.SymbolAt(cur.c.ProductionID, cur.c.Dot)
		if !ok || !g.IsNonTerminal(sym) {
			continue
		}

		_, rhs := g.Production(cur.c.ProductionID)
		beta := rhs[cur.c.Dot+1:]
		firstBeta := g.FirstOfSequence(beta, firsts)

		lookaheads := make([]int, 0, len(firstBeta.Terminals)+1)
		for t := range firstBeta.Terminals {
			lookaheads = append(lookaheads, t)
		}
		if firstBeta.Epsilon {
			lookaheads = append(lookaheads, cur.la)
		}

		for _, prodID := range g.ProductionsOf(sym) {
			for _, la := range lookaheads {
				push(core{ProductionID: prodID, Dot: 0}, la)
			}
		}
	}

	return result
}

// NextSymbols returns every grammar symbol that some item in itemset has
// immediately after its dot, sorted for determinism.
func NextSymbols(g *grammar.Grammar, itemset *ItemSet) []string {
	seen := util.NewSet[string]()
	var out []string
	for _, c := range itemset.Cores() {
		sym, ok := g.SymbolAt(c.ProductionID, c.Dot)
		if ok && !seen.Has(sym) {
			seen.Add(sym)
			out = append(out, sym)
		}
	}
	sort.Strings(out)
	return out
}

// Goto returns the kernel (not yet closed) of the item set reached from
// itemset by shifting over step: every item whose symbol at the dot is
// step, with the dot advanced one position.
func Goto(g *grammar.Grammar, itemset *ItemSet, step string) *ItemSet {
	result := newItemSet()
	for _, c := range itemset.Cores() {
		sym, ok := g.SymbolAt(c.ProductionID, c.Dot)
		if !ok || sym != step {
			continue
		}
		nc := core{ProductionID: c.ProductionID, Dot: c.Dot + 1}
		for _, la := range itemset.Lookaheads(c) {
			result.Add(nc, la)
		}
	}
	return result
}
