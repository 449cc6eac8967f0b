package faset

import (
	"encoding/json"

	"github.com/dekarrin/parsergen/fa"
)

type jsonFASet struct {
	DFA         *fa.FA `json:"dfa"`
	NumPatterns int    `json:"num_patterns"`
}

// MarshalJSON renders the merged DFA and its pattern count, the
// dfa_set_json artifact of spec.md §4.10.
func (fs *FASet) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonFASet{DFA: fs.dfa, NumPatterns: fs.numPatterns})
}

// UnmarshalJSON restores a FASet from MarshalJSON's encoding.
func (fs *FASet) UnmarshalJSON(data []byte) error {
	var j jsonFASet
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	fs.dfa = j.DFA
	fs.numPatterns = j.NumPatterns
	return nil
}
