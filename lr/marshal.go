package lr

import (
	"encoding/json"
	"strconv"
)

// jsonActionEntry mirrors ActionEntry with a symbolic Type for readability
// in the persisted form, following the teacher's jsonXxx/toXxx marshaling
// idiom (internal/game/marshaling.go).
type jsonActionEntry struct {
	Type   string `json:"type"`
	Target int    `json:"target"`
}

func (e ActionEntry) toJSON() jsonActionEntry {
	return jsonActionEntry{Type: e.Type.String(), Target: e.Target}
}

func (j jsonActionEntry) toEntry() (ActionEntry, error) {
	var t ActionType
	switch j.Type {
	case "shift":
		t = Shift
	case "reduce":
		t = Reduce
	case "accept":
		t = Accept
	default:
		return ActionEntry{}, errUnknownActionType(j.Type)
	}
	return ActionEntry{Type: t, Target: j.Target}, nil
}

type errUnknownActionType string

func (e errUnknownActionType) Error() string {
	return "lr: unknown action type " + strconv.Quote(string(e))
}

// jsonTables mirrors Tables for persistence. Action and Goto are encoded as
// one array entry per state holding a string-keyed object, since JSON
// object keys must be strings and ACTION is naturally keyed by terminal
// pattern id (an int, and EOF is negative).
type jsonTables struct {
	NumStates int                            `json:"num_states"`
	Action    []map[string]jsonActionEntry   `json:"action_json"`
	Goto      []map[string]int               `json:"goto_json"`
}

// MarshalJSON renders the ACTION and GOTO tables, the action_json and
// goto_json artifacts of spec.md §4.10.
func (t *Tables) MarshalJSON() ([]byte, error) {
	jt := jsonTables{
		NumStates: t.NumStates,
		Action:    make([]map[string]jsonActionEntry, len(t.Action)),
		Goto:      make([]map[string]int, len(t.Goto)),
	}
	for i, row := range t.Action {
		m := make(map[string]jsonActionEntry, len(row))
		for terminal, entry := range row {
			m[strconv.Itoa(terminal)] = entry.toJSON()
		}
		jt.Action[i] = m
	}
	for i, row := range t.Goto {
		m := make(map[string]int, len(row))
		for nonTerminal, dest := range row {
			m[nonTerminal] = dest
		}
		jt.Goto[i] = m
	}
	return json.Marshal(jt)
}

// UnmarshalJSON restores Tables from MarshalJSON's encoding.
func (t *Tables) UnmarshalJSON(data []byte) error {
	var jt jsonTables
	if err := json.Unmarshal(data, &jt); err != nil {
		return err
	}

	out := Tables{
		NumStates: jt.NumStates,
		Action:    make([]map[int]ActionEntry, len(jt.Action)),
		Goto:      make([]map[string]int, len(jt.Goto)),
	}
	for i, row := range jt.Action {
		m := make(map[int]ActionEntry, len(row))
		for key, jentry := range row {
			terminal, err := strconv.Atoi(key)
			if err != nil {
				return err
			}
			entry, err := jentry.toEntry()
			if err != nil {
				return err
			}
			m[terminal] = entry
		}
		out.Action[i] = m
	}
	for i, row := range jt.Goto {
		m := make(map[string]int, len(row))
		for nonTerminal, dest := range row {
			m[nonTerminal] = dest
		}
		out.Goto[i] = m
	}

	*t = out
	return nil
}
