// Package lexspec implements the TypeDefinition registry of spec.md §4.4:
// an insertion-ordered mapping between raw pattern text and dense integer
// pattern ids, which builds the per-pattern automata and owns the merged
// scanner DFA built from them.
//
// Grounded on internal/ictiobus/lex/lex.go's lexerTemplate (pattern list
// keyed by registration order, literal-vs-regex distinction) and
// internal/ictiobus/types/class.go's TokenClass (id/text duality).
package lexspec

import (
	"fmt"

	"github.com/dekarrin/parsergen/fa"
	"github.com/dekarrin/parsergen/faset"
	"github.com/dekarrin/parsergen/regex"
)

// EOF is the sentinel terminal id for end-of-input, per spec.md §3.
const EOF = -1

type entry struct {
	text    string
	isRegex bool
}

// TypeDefinition is an insertion-ordered registry of pattern text, each
// identified by a dense integer id starting at 0.
type TypeDefinition struct {
	entries []entry
	ids     map[string]int

	merged *faset.FASet // lazily built, invalidated by Add
}

// New returns an empty TypeDefinition.
func New() *TypeDefinition {
	return &TypeDefinition{ids: map[string]int{}}
}

// Add registers a pattern, returning its id. Inserting text that is already
// registered is a no-op that returns the existing id, preserving it
// regardless of the is_regex flag passed this time.
func (td *TypeDefinition) Add(text string, isRegex bool) int {
	if id, ok := td.ids[text]; ok {
		return id
	}
	id := len(td.entries)
	td.entries = append(td.entries, entry{text: text, isRegex: isRegex})
	td.ids[text] = id
	td.merged = nil
	return id
}

// IDOf returns the id of a registered pattern's raw text, or false if it is
// not registered.
func (td *TypeDefinition) IDOf(text string) (int, bool) {
	id, ok := td.ids[text]
	return id, ok
}

// TextOf returns the raw text registered under id, or false if id is out of
// range.
func (td *TypeDefinition) TextOf(id int) (string, bool) {
	if id < 0 || id >= len(td.entries) {
		return "", false
	}
	return td.entries[id].text, true
}

// Len returns the number of registered patterns.
func (td *TypeDefinition) Len() int {
	return len(td.entries)
}

// IsRegex reports whether the pattern registered under id was added as a
// regex (as opposed to a literal).
func (td *TypeDefinition) IsRegex(id int) bool {
	return td.entries[id].isRegex
}

// BuildMergedDFA builds (or returns the cached) merged scanner DFA of
// spec.md §4.3: literal patterns take a fast path straight to a
// straight-line automaton; regex patterns go through the regex compiler
// and are minimized individually before merging.
func (td *TypeDefinition) BuildMergedDFA() (*faset.FASet, error) {
	if td.merged != nil {
		return td.merged, nil
	}
	if len(td.entries) == 0 {
		return nil, fmt.Errorf("lexspec: no patterns registered")
	}

	fragments := make([]*fa.FA, len(td.entries))
	for i, e := range td.entries {
		if e.isRegex {
			f, err := regex.Compile(e.text)
			if err != nil {
				return nil, fmt.Errorf("pattern %d (%q): %w", i, e.text, err)
			}
			fragments[i] = f.Minimize()
		} else {
			fragments[i] = literalAutomaton(e.text)
		}
	}

	td.merged = faset.Merge(fragments)
	return td.merged, nil
}

// literalAutomaton builds the straight-line automaton for a literal
// pattern: one state per character, each linked by a single-codepoint
// transition, already deterministic by construction.
func literalAutomaton(text string) *fa.FA {
	runes := []rune(text)
	f := fa.New()
	cur := f.Start()
	if len(runes) == 0 {
		f.SetAccept(cur, true)
		return f
	}
	for i, r := range runes {
		var next int
		if i == len(runes)-1 {
			next = f.AddState(true)
		} else {
			next = f.AddState(false)
		}
		f.AddTransition(cur, fa.Single(r), next)
		cur = next
	}
	return f
}
