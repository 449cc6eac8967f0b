package lr

import (
	"fmt"

	"github.com/dekarrin/parsergen/grammar"
)

// ActionType distinguishes the three kinds of entry an ACTION table cell
// can hold.
type ActionType int

const (
	Shift ActionType = iota
	Reduce
	Accept
)

func (t ActionType) String() string {
	switch t {
	case Shift:
		return "shift"
	case Reduce:
		return "reduce"
	case Accept:
		return "accept"
	default:
		return "unknown"
	}
}

// ActionEntry is one cell of the ACTION table: Target is the state to shift
// to when Type is Shift, or the production id to reduce by when Type is
// Reduce. It is unused for Accept.
type ActionEntry struct {
	Type   ActionType
	Target int
}

func (e ActionEntry) equal(o ActionEntry) bool {
	return e.Type == o.Type && e.Target == o.Target
}

// Tables holds the ACTION and GOTO tables built from an Automaton: ACTION
// is indexed by state then terminal pattern id (EOF uses grammar.EOF);
// GOTO is indexed by state then non-terminal name.
type Tables struct {
	NumStates int
	Action    []map[int]ActionEntry
	Goto      []map[string]int
}

// ConflictError reports that two distinct actions were both derived for the
// same (state, terminal) cell, meaning the grammar is not LR(1).
type ConflictError struct {
	State    int
	Terminal string
	Existing ActionEntry
	New      ActionEntry
	Msg      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("lr: state %d: %s", e.State, e.Msg)
}

// BuildTables constructs the ACTION/GOTO tables for an Automaton, returning
// a *ConflictError the first time two actions collide in the same
// cell -- the grammar is then not LR(1) and the caller's generator should
// reject it, per spec.md §4.7.
func BuildTables(a *Automaton) (*Tables, error) {
	g := a.Grammar
	n := len(a.States)

	t := &Tables{
		NumStates: n,
		Action:    make([]map[int]ActionEntry, n),
		Goto:      make([]map[string]int, n),
	}
	for i := 0; i < n; i++ {
		t.Action[i] = map[int]ActionEntry{}
		t.Goto[i] = map[string]int{}
	}

	for state, edges := range a.Edges {
		for sym, dest := range edges {
			switch {
			case g.IsTerminal(sym):
				id := g.TerminalID(sym)
				if err := t.setAction(g, state, id, ActionEntry{Type: Shift, Target: dest}); err != nil {
					return nil, err
				}
			case g.IsNonTerminal(sym):
				t.Goto[state][sym] = dest
			}
		}
	}

	for state, items := range a.States {
		for _, c := range items.Cores() {
			if !atEnd(g, c) {
				continue
			}
			for _, la := range items.Lookaheads(c) {
				entry := ActionEntry{Type: Reduce, Target: c.ProductionID}
				// Accept only the synthetic augmented production completing
				// at true end-of-input -- never the user's own start
				// production, which may be recursive and complete again
				// mid-parse (spec.md §6.2, §9 OQ2).
				if c.ProductionID == a.AcceptProductionID && la == grammar.EOF {
					entry = ActionEntry{Type: Accept}
				}
				if err := t.setAction(g, state, la, entry); err != nil {
					return nil, err
				}
			}
		}
	}

	return t, nil
}

func (t *Tables) setAction(g *grammar.Grammar, state, terminal int, entry ActionEntry) error {
	existing, ok := t.Action[state][terminal]
	if ok && !existing.equal(entry) {
		return &ConflictError{
			State:    state,
			Terminal: terminalDisplay(g, terminal),
			Existing: existing,
			New:      entry,
			Msg:      conflictMessage(g, existing, entry, terminalDisplay(g, terminal)),
		}
	}
	t.Action[state][terminal] = entry
	return nil
}

func terminalDisplay(g *grammar.Grammar, terminal int) string {
	if terminal == grammar.EOF {
		return "$"
	}
	text, ok := g.Types().TextOf(terminal)
	if !ok {
		return fmt.Sprintf("<%d>", terminal)
	}
	return text
}

func reduceDescription(g *grammar.Grammar, prodID int) string {
	lhs, rhs := g.Production(prodID)
	return lhs + " -> " + rhs.String()
}

// conflictMessage renders a human-readable explanation of an ACTION table
// collision, grounded on internal/ictiobus/parse/lraction.go's
// makeLRConflictError.
func conflictMessage(g *grammar.Grammar, act1, act2 ActionEntry, onTerminal string) string {
	isReduce := func(a ActionEntry) bool { return a.Type == Reduce }
	isShift := func(a ActionEntry) bool { return a.Type == Shift }

	switch {
	case isReduce(act1) && isShift(act2), isShift(act1) && isReduce(act2):
		reduceAct := act1
		if isShift(act1) {
			reduceAct = act2
		}
		return fmt.Sprintf("shift/reduce conflict on terminal %q (shift or reduce %s)",
			onTerminal, reduceDescription(g, reduceAct.Target))
	case isReduce(act1) && isReduce(act2):
		return fmt.Sprintf("reduce/reduce conflict on terminal %q (reduce %s or reduce %s)",
			onTerminal, reduceDescription(g, act1.Target), reduceDescription(g, act2.Target))
	case act1.Type == Accept || act2.Type == Accept:
		other := act2
		if act2.Type == Accept {
			other = act1
		}
		if other.Type == Shift {
			return fmt.Sprintf("accept/shift conflict on terminal %q", onTerminal)
		}
		if other.Type == Reduce {
			return fmt.Sprintf("accept/reduce conflict on terminal %q (accept or reduce %s)",
				onTerminal, reduceDescription(g, other.Target))
		}
		return fmt.Sprintf("accept/accept conflict on terminal %q", onTerminal)
	case isShift(act1) && isShift(act2):
		return fmt.Sprintf("(!) shift/shift conflict on terminal %q", onTerminal)
	default:
		return fmt.Sprintf("LR action conflict on terminal %q (%s or %s)", onTerminal, act1.Type, act2.Type)
	}
}
