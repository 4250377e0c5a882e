package rules

import (
	"slices"
	"sync"

	"github.com/agentic-research/patternmine/internal/feature"
)

// Table is a read-only collection of rules indexed by board id.
type Table struct {
	byBoard map[string][]*PatternRule
	size    int
}

// NewTable indexes rules, keeping their order within each board.
func NewTable(rules []*PatternRule) *Table {
	t := &Table{byBoard: make(map[string][]*PatternRule)}
	for _, r := range rules {
		id := r.Board().ID()
		t.byBoard[id] = append(t.byBoard[id], r)
	}
	t.size = len(rules)
	return t
}

// Len returns the number of rules.
func (t *Table) Len() int { return t.size }

// Boards returns the indexed board ids in sorted order.
func (t *Table) Boards() []string {
	ids := make([]string, 0, len(t.byBoard))
	for id := range t.byBoard {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Rules returns the rules of a board.
func (t *Table) Rules(boardID string) []*PatternRule {
	return t.byBoard[boardID]
}

// Applicable returns the rules whose input the state implies and whose
// output adds at least one feature the state does not already imply. Boards
// match by id, so rules decoded on another instance of the board apply.
func (t *Table) Applicable(state *feature.Set) []*PatternRule {
	var out []*PatternRule
	for _, r := range t.byBoard[state.Board().ID()] {
		if !impliesAll(state, r.input.Features()) {
			continue
		}
		if impliesAll(state, r.Deduced()) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func impliesAll(state *feature.Set, fs []feature.Feature) bool {
	for _, f := range fs {
		if !state.ImpliesFeature(f) {
			return false
		}
	}
	return true
}

// HotSwapTable lets readers keep querying while a freshly mined table
// replaces the current one.
type HotSwapTable struct {
	mu      sync.RWMutex
	current *Table
}

func NewHotSwapTable(initial *Table) *HotSwapTable {
	if initial == nil {
		initial = NewTable(nil)
	}
	return &HotSwapTable{current: initial}
}

// Swap installs next and returns the table it replaced.
func (h *HotSwapTable) Swap(next *Table) *Table {
	h.mu.Lock()
	defer h.mu.Unlock()
	prev := h.current
	h.current = next
	return prev
}

// Current returns the installed table.
func (h *HotSwapTable) Current() *Table {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Rules delegates to the current table.
func (h *HotSwapTable) Rules(boardID string) []*PatternRule {
	return h.Current().Rules(boardID)
}

// Applicable delegates to the current table.
func (h *HotSwapTable) Applicable(state *feature.Set) []*PatternRule {
	return h.Current().Applicable(state)
}
