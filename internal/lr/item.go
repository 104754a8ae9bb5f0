// Package lr implements the lazy LR(1) engine: items, canonical states,
// closure, memoized GOTO, the precedence-driven action resolver, and the
// shift/reduce driver built on top of the immutable grammar model in
// package grammar. States and tables are never precomputed; they are
// built the first time the driver observes a given (state, symbol) pair
// and cached for the lifetime of the owning Engine.
package lr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/forax/lazylr/grammar"
)

// Item is an LR(1) item: a production, a dot position in [0, len(body)],
// and a single-terminal lookahead. Two items are equal iff all three
// match; the production field is compared by pointer identity, per the
// grammar package's identity-based Production equality.
type Item struct {
	Production *grammar.Production
	Dot        int
	Lookahead  grammar.Terminal
}

// NextSymbol returns the symbol immediately right of the dot, and true,
// or the zero Symbol and false if the item is complete (the dot is at
// the end of the body).
func (it Item) NextSymbol() (grammar.Symbol, bool) {
	if it.Dot >= len(it.Production.Body) {
		return nil, false
	}
	return it.Production.Body[it.Dot], true
}

// IsComplete reports whether the dot has reached the end of the body.
func (it Item) IsComplete() bool {
	return it.Dot >= len(it.Production.Body)
}

// Advance returns the item obtained by moving the dot one symbol to the
// right. It must only be called on an incomplete item.
func (it Item) Advance() Item {
	return Item{Production: it.Production, Dot: it.Dot + 1, Lookahead: it.Lookahead}
}

// key returns a string uniquely identifying this item by production
// declaration index, dot position, and lookahead name. Two items with
// the same key are the same item, since the grammar that owns them
// assigns each production a stable, distinct index at construction.
func (it Item) key() string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(it.Production.Index()))
	sb.WriteByte('.')
	sb.WriteString(strconv.Itoa(it.Dot))
	sb.WriteByte('@')
	sb.WriteString(it.Lookahead.Name())
	return sb.String()
}

func (it Item) String() string {
	var sb strings.Builder
	sb.WriteString(it.Production.Head.Name())
	sb.WriteString(" -> ")
	for i, s := range it.Production.Body {
		if i == it.Dot {
			sb.WriteString(". ")
		}
		sb.WriteString(s.Name())
		sb.WriteByte(' ')
	}
	if it.Dot == len(it.Production.Body) {
		sb.WriteString(".")
	}
	return fmt.Sprintf("[%s, %s]", strings.TrimSpace(sb.String()), it.Lookahead.Name())
}
