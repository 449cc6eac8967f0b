package lr

import (
	"fmt"

	"github.com/dekarrin/parsergen/grammar"
)

// Automaton is the canonical collection of LR(1) item sets for an augmented
// grammar, plus the shift/goto edges discovered between them during its BFS
// construction. State 0 is always the initial state.
type Automaton struct {
	// Grammar is g.Augmented(): g plus a synthetic start production. Every
	// production id below the original g.NumProductions() is unchanged, so
	// parser.Parser can keep driving reduces against the caller's own g;
	// only AcceptProductionID refers to the synthetic addition.
	Grammar *grammar.Grammar
	States  []*ItemSet
	Edges   []map[string]int

	// AcceptProductionID is the synthetic augmented production
	// (g.Augmented()'s new-start -> old-start) whose completed item, under
	// lookahead EOF, signals accept. Because this production appears
	// nowhere in the user's grammar, completing it can only ever mean the
	// whole input has been reduced to the start symbol -- unlike treating
	// the start symbol's own first production as special, which also fires
	// mid-parse whenever that production is recursive (spec.md §6.2, §9
	// OQ2).
	AcceptProductionID int
}

// Build constructs the canonical LR(1) collection for an augmented copy of
// g (see Grammar field doc). If g is directly left-recursive, FIRST sets are
// computed over a left-recursion-eliminated copy (left recursion doesn't
// change what a grammar generates, only its derivation shape, so this is
// safe), matching original_source/lr1/lr1_itemset_automata.py's
// LRItemSetAutomata.new.
func Build(g *grammar.Grammar) (*Automaton, error) {
	aug, acceptProd, err := g.Augmented()
	if err != nil {
		return nil, fmt.Errorf("lr: %w", err)
	}

	firstSrc := aug
	if aug.IsLeftRecursive() {
		firstSrc = aug.RemoveLeftRecursion()
	}
	firsts := firstSrc.First()

	seed := newItemSet()
	seed.Add(core{ProductionID: acceptProd, Dot: 0}, grammar.EOF)
	initState := Closure(aug, firsts, seed)

	states := []*ItemSet{initState}
	edges := []map[string]int{{}}
	sigToID := map[string]int{initState.Signature(): 0}

	queue := []int{0}
	for len(queue) > 0 {
		curID := queue[0]
		queue = queue[1:]
		cur := states[curID]

		for _, sym := range NextSymbols(aug, cur) {
			kernel := Goto(aug, cur, sym)
			closed := Closure(aug, firsts, kernel)
			sig := closed.Signature()

			destID, ok := sigToID[sig]
			if !ok {
				destID = len(states)
				sigToID[sig] = destID
				states = append(states, closed)
				edges = append(edges, map[string]int{})
				queue = append(queue, destID)
			}
			edges[curID][sym] = destID
		}
	}

	return &Automaton{
		Grammar:            aug,
		States:             states,
		Edges:              edges,
		AcceptProductionID: acceptProd,
	}, nil
}
