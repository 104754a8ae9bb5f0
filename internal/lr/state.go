package lr

import (
	"sort"
	"strconv"
	"strings"

	"github.com/forax/lazylr/internal/util"
)

// State is an immutable canonical LR(1) state: a set of Items, closed
// under the closure rule (§4.2). Two states are equal iff their item
// sets are equal; the Engine guarantees that equal item sets always
// share the same *State (the canonicalization invariant in §4.3), so
// pointer equality on *State is safe and cheap for every comparison
// after a state has been interned once.
type State struct {
	items []Item
	key   string

	// index is the order in which the Engine first interned this state,
	// used only for diagnostic output (trace lines, error messages).
	index int
}

// Items returns the state's item set. The returned slice is shared and
// must not be modified.
func (s *State) Items() []Item { return s.items }

// Index returns the state's interning order within its owning Engine.
func (s *State) Index() int { return s.index }

// String renders the state's items in canonical (production index, dot,
// lookahead) order, via the same KeySet the closure dedup set is built
// from, so two printouts of the same item set are byte-identical
// regardless of the order closure happened to discover them in.
func (s *State) String() string {
	var sb strings.Builder
	sb.WriteString("state#")
	sb.WriteString(strconv.Itoa(s.index))
	sb.WriteString(" {\n")
	ordered := util.SortedElements(util.KeySetOf(s.items), itemLess)
	for _, it := range ordered {
		sb.WriteString("  ")
		sb.WriteString(it.String())
		sb.WriteByte('\n')
	}
	sb.WriteString("}")
	return sb.String()
}

func itemLess(a, b Item) bool {
	if a.Production.Index() != b.Production.Index() {
		return a.Production.Index() < b.Production.Index()
	}
	if a.Dot != b.Dot {
		return a.Dot < b.Dot
	}
	return a.Lookahead.Name() < b.Lookahead.Name()
}

// stateKey computes the canonicalization key for a closed item set: the
// items sorted by (production index, dot, lookahead name) and joined.
// Two item sets that contain the same items, regardless of discovery
// order, produce the same key, which is exactly the property the
// canonical-state cache in Engine relies on.
func stateKey(items []Item) string {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return itemLess(sorted[i], sorted[j]) })

	var sb strings.Builder
	for i, it := range sorted {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(it.key())
	}
	return sb.String()
}
