package fa

import "encoding/json"

// jsonRange, jsonEdge, jsonNode, and jsonFA mirror node/edge/FA's unexported
// fields for persistence, following the teacher's jsonXxx/toXxx marshaling
// idiom (internal/game/marshaling.go): a dedicated exported-field shadow
// type carries the encoding/json tags, and a method converts it back to the
// real type.
type jsonRange struct {
	Lo rune `json:"lo"`
	Hi rune `json:"hi"`
}

type jsonEdge struct {
	Ranges []jsonRange `json:"ranges"`
	To     int         `json:"to"`
}

type jsonNode struct {
	Accept    bool       `json:"accept"`
	PatternID int        `json:"pattern_id"`
	Edges     []jsonEdge `json:"edges"`
}

type jsonFA struct {
	Nodes         []jsonNode `json:"nodes"`
	Start         int        `json:"start"`
	Deterministic bool       `json:"deterministic"`
}

func (jf jsonFA) toFA() *FA {
	f := &FA{
		nodes:         make([]node, len(jf.Nodes)),
		start:         jf.Start,
		deterministic: jf.Deterministic,
	}
	for i, jn := range jf.Nodes {
		n := node{accept: jn.Accept, patternID: jn.PatternID, edges: make([]edge, len(jn.Edges))}
		for j, je := range jn.Edges {
			ranges := make([]Range, len(je.Ranges))
			for k, r := range je.Ranges {
				ranges[k] = Range{Lo: r.Lo, Hi: r.Hi}
			}
			n.edges[j] = edge{trans: Transition{Ranges: ranges}, to: je.To}
		}
		f.nodes[i] = n
	}
	return f
}

// MarshalJSON renders the automaton's full node and edge structure. This
// is the per-automaton encoding faset.FASet composes into spec.md §4.10's
// persisted dfa_set_json form.
func (f *FA) MarshalJSON() ([]byte, error) {
	jf := jsonFA{
		Nodes:         make([]jsonNode, len(f.nodes)),
		Start:         f.start,
		Deterministic: f.deterministic,
	}
	for i, n := range f.nodes {
		jn := jsonNode{Accept: n.accept, PatternID: n.patternID, Edges: make([]jsonEdge, len(n.edges))}
		for j, e := range n.edges {
			ranges := make([]jsonRange, len(e.trans.Ranges))
			for k, r := range e.trans.Ranges {
				ranges[k] = jsonRange{Lo: r.Lo, Hi: r.Hi}
			}
			jn.Edges[j] = jsonEdge{Ranges: ranges, To: e.to}
		}
		jf.Nodes[i] = jn
	}
	return json.Marshal(jf)
}

// UnmarshalJSON restores an automaton from MarshalJSON's encoding.
func (f *FA) UnmarshalJSON(data []byte) error {
	var jf jsonFA
	if err := json.Unmarshal(data, &jf); err != nil {
		return err
	}
	*f = *jf.toFA()
	return nil
}
