package fa

// This file implements the Thompson-construction primitives of spec.md
// §4.1: literal, concatenation, alternation, Kleene star, one-or-more, and
// optional. Each primitive consumes its operand FA(s) by value (copying
// their graphs into a freshly allocated arena) and returns a new fragment
// with exactly one start and one accept state, ready to be combined again.

// mergeArenas copies the node graphs of fas into a single new arena,
// renumbering states by offset, and returns the combined FA along with the
// (start, accept) ids of each input fragment in the new numbering. Each
// input FA must have exactly one accept state, the Thompson-fragment
// invariant every construction here maintains.
func mergeArenas(fas ...*FA) (combined *FA, starts []int, accepts []int) {
	combined = &FA{}
	offsets := make([]int, len(fas))

	for i, f := range fas {
		offsets[i] = len(combined.nodes)
		for _, n := range f.nodes {
			newEdges := make([]edge, len(n.edges))
			for j, e := range n.edges {
				newEdges[j] = edge{trans: e.trans, to: e.to + offsets[i]}
			}
			combined.nodes = append(combined.nodes, node{
				edges:     newEdges,
				accept:    n.accept,
				patternID: n.patternID,
			})
		}
	}

	for i, f := range fas {
		accs := f.AcceptStates()
		if len(accs) != 1 {
			panic("fa: Thompson construction requires exactly one accept state per fragment")
		}
		starts = append(starts, f.start+offsets[i])
		accepts = append(accepts, accs[0]+offsets[i])
	}

	return combined, starts, accepts
}

// Literal builds the two-node fragment for a single transition t: a start
// state and an accept state joined by one edge.
func Literal(t Transition) *FA {
	f := &FA{}
	a := f.AddState(false)
	b := f.AddState(true)
	f.start = a
	f.AddTransition(a, t, b)
	return f
}

// EpsilonLiteral builds the fragment matching only the empty string, used
// for the `ϵ` literal of spec.md §6.1.
func EpsilonLiteral() *FA {
	f := &FA{}
	a := f.AddState(true)
	f.start = a
	return f
}

// Concat builds the fragment for L·R: an ε-edge from L's accept to R's
// start, with L's former accept demoted to non-accepting.
func Concat(left, right *FA) *FA {
	combined, starts, accepts := mergeArenas(left, right)
	combined.start = starts[0]
	combined.nodes[accepts[0]].accept = false
	combined.AddTransition(accepts[0], Epsilon(), starts[1])
	return combined
}

// Alternate builds the fragment for L|R: a new start with ε-edges to each
// branch, and each branch's accept ε-linked to a new shared accept.
func Alternate(left, right *FA) *FA {
	combined, starts, accepts := mergeArenas(left, right)

	newStart := combined.AddState(false)
	newAccept := combined.AddState(true)
	combined.start = newStart

	combined.AddTransition(newStart, Epsilon(), starts[0])
	combined.AddTransition(newStart, Epsilon(), starts[1])

	combined.nodes[accepts[0]].accept = false
	combined.nodes[accepts[1]].accept = false
	combined.AddTransition(accepts[0], Epsilon(), newAccept)
	combined.AddTransition(accepts[1], Epsilon(), newAccept)

	return combined
}

// Star builds the Kleene-star fragment: optional over (expr with an ε
// back-edge from its accept to its start).
func Star(expr *FA) *FA {
	combined, starts, accepts := mergeArenas(expr)
	exprStart, exprAccept := starts[0], accepts[0]

	newStart := combined.AddState(false)
	newAccept := combined.AddState(true)
	combined.start = newStart

	combined.AddTransition(newStart, Epsilon(), newAccept)
	combined.AddTransition(newStart, Epsilon(), exprStart)

	combined.nodes[exprAccept].accept = false
	combined.AddTransition(exprAccept, Epsilon(), exprStart)
	combined.AddTransition(exprAccept, Epsilon(), newAccept)

	return combined
}

// Optional builds the `?` fragment: a new start with ε-edges to a new
// accept and to expr's start, with expr's accept ε-linked to the new
// accept.
func Optional(expr *FA) *FA {
	combined, starts, accepts := mergeArenas(expr)
	exprStart, exprAccept := starts[0], accepts[0]

	newStart := combined.AddState(false)
	newAccept := combined.AddState(true)
	combined.start = newStart

	combined.AddTransition(newStart, Epsilon(), newAccept)
	combined.AddTransition(newStart, Epsilon(), exprStart)

	combined.nodes[exprAccept].accept = false
	combined.AddTransition(exprAccept, Epsilon(), newAccept)

	return combined
}

// JoinAll combines many already-built automata into one, under a single
// fresh start state with an ε-edge to each fragment's start. Unlike the
// Thompson operators above, inputs may carry more than one accept state
// (and pre-existing pattern-id tags) each; this is the construction
// spec.md §4.3 uses to fuse per-pattern automata into a merged lexer DFA
// before determinizing.
func JoinAll(fragments []*FA) *FA {
	combined := &FA{}
	offsets := make([]int, len(fragments))

	for i, f := range fragments {
		offsets[i] = len(combined.nodes)
		for _, n := range f.nodes {
			newEdges := make([]edge, len(n.edges))
			for j, e := range n.edges {
				newEdges[j] = edge{trans: e.trans, to: e.to + offsets[i]}
			}
			combined.nodes = append(combined.nodes, node{
				edges:     newEdges,
				accept:    n.accept,
				patternID: n.patternID,
			})
		}
	}

	newStart := combined.AddState(false)
	combined.start = newStart
	for i, f := range fragments {
		combined.AddTransition(newStart, Epsilon(), f.start+offsets[i])
	}

	return combined
}

// Plus builds the `+` fragment: a deep copy of expr concatenated with
// Star(expr), per spec.md §4.1.
func Plus(expr *FA) *FA {
	return Concat(expr.Copy(), Star(expr.Copy()))
}
