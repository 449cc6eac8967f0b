package grammar

import "fmt"

// substituteSuffix is appended to a non-terminal's name to build the fresh
// non-terminal left-recursion elimination introduces for it.
const substituteSuffix = "'"

// IsLeftRecursive reports whether any production directly begins with its
// own non-terminal: A -> A α.
func (g *Grammar) IsLeftRecursive() bool {
	for _, e := range g.prods {
		if len(e.rhs) > 0 && e.rhs[0] == e.lhs {
			return true
		}
	}
	return false
}

// RemoveLeftRecursion returns a new Grammar with every direct
// (A -> A α | β) left recursion rewritten as:
//
//	A  -> β1 A' | β2 A' | ...
//	A' -> α1 A' | α2 A' | ... | ε
//
// Only direct recursion is eliminated, per
// original_source/cfg_utils/cfg.py's remove_left_recursion; indirect
// recursion across multiple non-terminals (the Purple Dragon book's full
// Algorithm 4.20, with a non-terminal ordering and substitution pass) is
// not implemented here. lr.Build calls this only to get a grammar to
// compute FIRST sets over; the LR(1) items and tables are still built from
// the original, left-recursive grammar.
func (g *Grammar) RemoveLeftRecursion() *Grammar {
	out := New(g.types)
	out.nonTerms = map[string]bool{}
	for nt := range g.nonTerms {
		out.nonTerms[nt] = true
	}
	out.nonTermOrder = append(out.nonTermOrder, g.nonTermOrder...)
	out.start = g.start

	for _, nt := range g.nonTermOrder {
		ids := g.prodsByLHS[nt]

		recursive := false
		for _, id := range ids {
			_, rhs := g.Production(id)
			if len(rhs) > 0 && rhs[0] == nt {
				recursive = true
				break
			}
		}

		if !recursive {
			for _, id := range ids {
				_, rhs := g.Production(id)
				out.AddRule(nt, rhs)
			}
			continue
		}

		sub := nt + substituteSuffix
		for out.nonTerms[sub] {
			sub += substituteSuffix
		}
		out.nonTerms[sub] = true
		out.nonTermOrder = append(out.nonTermOrder, sub)

		var betas, alphas []Production
		for _, id := range ids {
			_, rhs := g.Production(id)
			if len(rhs) > 0 && rhs[0] == nt {
				alphas = append(alphas, rhs[1:])
			} else if len(rhs) == 1 && rhs[0] == Epsilon {
				betas = append(betas, nil)
			} else {
				betas = append(betas, rhs)
			}
		}

		for _, beta := range betas {
			out.AddRule(nt, append(append(Production{}, beta...), sub))
		}
		for _, alpha := range alphas {
			out.AddRule(sub, append(append(Production{}, alpha...), sub))
		}
		out.AddRule(sub, Production{Epsilon})
	}

	return out
}

// validateAugmentable reports whether the grammar's start symbol has at
// least one production, a precondition for Augmented (whose synthetic
// production, new-start -> start, seeds the LR(1) automaton's initial item).
func (g *Grammar) validateAugmentable() error {
	if g.start == "" || len(g.prodsByLHS[g.start]) == 0 {
		return fmt.Errorf("grammar: start symbol %q has no productions", g.start)
	}
	return nil
}
