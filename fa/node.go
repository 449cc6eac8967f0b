package fa

// NoPattern is the sentinel pattern id carried by nodes that are not
// tagged with pattern identity (i.e. every node of an automaton that isn't
// part of a merged lexer DFA; see faset for the tagged case).
const NoPattern = -1

type edge struct {
	trans Transition
	to    int
}

// node is an identity-based automaton state, held in the owning FA's arena
// and referenced only by index (spec.md §9's design note: index-based ids
// make cyclic graphs and deep copies straightforward).
type node struct {
	edges     []edge
	accept    bool
	patternID int
}

func newNode(accept bool) node {
	return node{accept: accept, patternID: NoPattern}
}
