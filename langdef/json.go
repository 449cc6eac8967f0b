package langdef

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dekarrin/parsergen/faset"
	"github.com/dekarrin/parsergen/lexspec"
	"github.com/dekarrin/parsergen/lr"
	"github.com/dekarrin/parsergen/parser"
)

// jsonProdInfo mirrors the grammar.Grammar.ProductionInfo result for a
// single production id, persisted so a reloaded LangDef can dispatch
// reduces without reconstructing the full grammar -- the
// prod_id_to_narg_and_non_terminal artifact of spec.md §4.10, grounded on
// original_source/cfg_utils/cfg.py's prod_id_to_nargs_and_non_terminal
// property, documented there as "a helper function solely for LangDef".
type jsonProdInfo struct {
	NonTerminal string `json:"non_terminal"`
	NArgs       int    `json:"nargs"`
}

// jsonLangDef is the full persisted form of a LangDef: the merged scanner
// DFA, the callback-lookup index, per-production dispatch metadata, and the
// LR(1) tables. Callbacks are never part of this: a caller reloading a
// LangDef from JSON must Register them again before Parse/Eval will produce
// anything but the zero value for every non-terminal.
type jsonLangDef struct {
	DFASet                     *faset.FASet            `json:"dfa_set_json"`
	RawGrammarToID             map[string]int          `json:"raw_grammar_to_id"`
	ProdIDToNargAndNonTerminal map[string]jsonProdInfo  `json:"prod_id_to_narg_and_non_terminal"`
	Tables                     *lr.Tables               `json:"tables"`
}

// ToJSON renders the persisted form of ld: its scanner, its callback-lookup
// index, its per-production dispatch metadata, and its LR(1) tables.
// Registered callbacks are not included; a LangDef built from this JSON via
// FromJSON must have them re-registered.
func (ld *LangDef) ToJSON() ([]byte, error) {
	fs, err := ld.types.BuildMergedDFA()
	if err != nil {
		return nil, fmt.Errorf("langdef: %w", err)
	}

	numProds := ld.grammar.NumProductions()
	prodInfo := make(map[string]jsonProdInfo, numProds)
	for id := 0; id < numProds; id++ {
		nonTerminal, nargs := ld.grammar.ProductionInfo(id)
		prodInfo[strconv.Itoa(id)] = jsonProdInfo{NonTerminal: nonTerminal, NArgs: nargs}
	}

	jl := jsonLangDef{
		DFASet:                     fs,
		RawGrammarToID:             ld.grammar.RawProductionIndex(),
		ProdIDToNargAndNonTerminal: prodInfo,
		Tables:                     ld.tables,
	}
	return json.Marshal(jl)
}

// compiledGrammar implements parser.Grammar from persisted production
// metadata alone, with no grammar.Grammar (and so no FIRST sets, no
// terminal/non-terminal symbol table) behind it. This is the reloaded
// counterpart to *grammar.Grammar that original_source/lang_def.py's
// from_json path needs: enough to resolve a callback-registration string to
// a production id and to look up a reduce's arity and target non-terminal,
// nothing more.
type compiledGrammar struct {
	rawToID  map[string]int
	prodInfo map[int]jsonProdInfo
}

// IDForText looks up raw against the persisted callback index. Unlike
// grammar.Grammar.IDForText, it cannot re-resolve quoted terminal syntax (it
// has no terminal table to resolve against), so raw must match the
// canonical resolved form a production was registered under before
// persisting -- i.e. the same text grammar.Production.String() renders, not
// the original quoted grammar source.
func (c *compiledGrammar) IDForText(raw string) (int, bool) {
	id, ok := c.rawToID[raw]
	return id, ok
}

func (c *compiledGrammar) ProductionInfo(id int) (nonTerminal string, nargs int) {
	info := c.prodInfo[id]
	return info.NonTerminal, info.NArgs
}

// FromJSON reconstructs a LangDef from ToJSON's encoding. The returned
// LangDef has no usable Grammar() (it returns nil) and no registered
// callbacks: callers must Register every production callback again before
// calling Parse or Eval.
func FromJSON(data []byte) (*LangDef, error) {
	var jl jsonLangDef
	if err := json.Unmarshal(data, &jl); err != nil {
		return nil, fmt.Errorf("langdef: %w", err)
	}

	cg := &compiledGrammar{
		rawToID:  jl.RawGrammarToID,
		prodInfo: make(map[int]jsonProdInfo, len(jl.ProdIDToNargAndNonTerminal)),
	}
	for key, info := range jl.ProdIDToNargAndNonTerminal {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("langdef: %w", err)
		}
		cg.prodInfo[id] = info
	}

	types := lexspec.New()

	return &LangDef{
		types: types,
		scan:  jl.DFASet,
		tables: jl.Tables,
		parse: parser.New(cg, jl.Tables),
	}, nil
}
