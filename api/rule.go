package api

import "fmt"

// RuleRecord is the persisted form of a pattern rule. Features are stored as
// canonical strings relative to the board identified by BoardID.
type RuleRecord struct {
	BoardID    string   `json:"board_id"`
	BoardName  string   `json:"board_name"`
	Highlander bool     `json:"highlander"`
	Input      []string `json:"input"`
	Output     []string `json:"output"`
}

// Generic converts the record to plain maps and slices for encoding and
// JSONPath queries.
func (r RuleRecord) Generic() map[string]any {
	return map[string]any{
		"board_id":   r.BoardID,
		"board_name": r.BoardName,
		"highlander": r.Highlander,
		"input":      stringsToAny(r.Input),
		"output":     stringsToAny(r.Output),
	}
}

// RuleRecordFromGeneric reads a record from decoded JSON.
func RuleRecordFromGeneric(v any) (RuleRecord, error) {
	var r RuleRecord
	m, ok := v.(map[string]any)
	if !ok {
		return r, fmt.Errorf("%w: rule must be an object", ErrMalformed)
	}
	r.BoardID, _ = m["board_id"].(string)
	r.BoardName, _ = m["board_name"].(string)
	r.Highlander, _ = m["highlander"].(bool)
	var err error
	if r.Input, err = toStrings(m["input"]); err != nil {
		return r, fmt.Errorf("input: %w", err)
	}
	if r.Output, err = toStrings(m["output"]); err != nil {
		return r, fmt.Errorf("output: %w", err)
	}
	return r, nil
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func toStrings(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected list, got %T", ErrMalformed, v)
	}
	out := make([]string, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected string, got %T", ErrMalformed, item)
		}
		out[i] = s
	}
	return out, nil
}
