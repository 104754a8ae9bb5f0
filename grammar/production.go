package grammar

import (
	"strings"

	"github.com/forax/lazylr/internal/lrerrors"
)

// Production is an ordered pair (head, body). Productions are compared
// by identity, not by structure: two productions built from the same
// head and body via separate calls to NewProduction are distinct, so
// that precedence attached to one never leaks to the other. Callers
// must always pass around *Production, never copy the value pointed to.
type Production struct {
	Head NonTerminal
	Body []Symbol

	// index is the production's declaration order within the Grammar
	// that first owns it, assigned once by Grammar construction and
	// never rewritten afterward. It gives productions a stable total
	// order for canonical state-key serialization (internal/lr's
	// stateKey) and the verifier's LR(0) item sorting; it plays no
	// part in resolving reduce/reduce ties, which go by first
	// occurrence in a state's stored item order instead.
	//
	// -1 means "not yet assigned"; NewGrammar stamps it on first use.
	index int
}

// NewProduction allocates a fresh Production. The returned pointer is
// the production's identity; it is never equal (by ==) to any other
// *Production, even one built from an identical head and body.
//
// NewProduction panics if body contains Epsilon: Epsilon exists only to
// mark nullability in a FIRST set, and must never appear in a
// production's own body (an empty body already expresses "derives the
// empty string"). This is a construction-time precondition failure, not
// a condition any caller can usefully recover from.
func NewProduction(head NonTerminal, body ...Symbol) *Production {
	for _, s := range body {
		if t, ok := s.(Terminal); ok && t.Equal(Epsilon) {
			panic(lrerrors.NewConstruction("grammar: production body for %q must not contain Epsilon", head.Name()))
		}
	}
	return &Production{Head: head, Body: body, index: -1}
}

// Name returns the production's canonical display form, "head : s1 s2
// ..." or "head : ε" for an empty body.
func (p *Production) Name() string {
	if len(p.Body) == 0 {
		return p.Head.Name() + " : ε"
	}
	parts := make([]string, len(p.Body))
	for i, s := range p.Body {
		parts[i] = s.Name()
	}
	return p.Head.Name() + " : " + strings.Join(parts, " ")
}

func (p *Production) String() string { return p.Name() }

// Index returns the production's declaration order within its owning
// Grammar, used to order productions and items deterministically for
// canonical serialization and sorting.
func (p *Production) Index() int { return p.index }

// RightmostTerminal returns the rightmost terminal symbol in the
// production's body and true, or the zero Terminal and false if the
// body contains no terminal. Used by precedence completion.
func (p *Production) RightmostTerminal() (Terminal, bool) {
	for i := len(p.Body) - 1; i >= 0; i-- {
		if t, ok := p.Body[i].(Terminal); ok {
			return t, true
		}
	}
	return Terminal{}, false
}
