package grammar

import "github.com/forax/lazylr/internal/lrerrors"

// Grammar is an immutable (start, productions) pair plus the derived
// index from non-terminal name to the productions it heads. Build one
// with NewGrammar; there is no way to mutate a Grammar afterward.
type Grammar struct {
	start       NonTerminal
	productions []*Production
	byHead      map[string][]*Production
}

// NewGrammar validates and constructs a Grammar. start must be the head
// of at least one production in productions, or NewGrammar panics: a
// grammar whose start symbol derives nothing is a construction-time
// precondition failure, not a condition any caller can usefully recover
// from.
//
// Every production in productions that has not yet been stamped with a
// declaration index (fresh out of NewProduction) is assigned one here,
// in the order given, continuing after the highest index already
// present. A production that arrives already indexed — because it is
// being reused from another Grammar's construction, the way the engine
// folds an already-built grammar's productions into a new augmented
// one — keeps its existing index untouched, so building a Grammar never
// mutates a production another Grammar still owns.
func NewGrammar(start NonTerminal, productions ...*Production) *Grammar {
	g := &Grammar{
		start:       start,
		productions: productions,
		byHead:      make(map[string][]*Production),
	}

	nextIndex := 0
	for _, p := range productions {
		if p.index+1 > nextIndex {
			nextIndex = p.index + 1
		}
	}

	startHeads := false
	for _, p := range productions {
		if p.index < 0 {
			p.index = nextIndex
			nextIndex++
		}
		g.byHead[p.Head.Name()] = append(g.byHead[p.Head.Name()], p)
		if p.Head.Name() == start.Name() {
			startHeads = true
		}
	}

	if !startHeads {
		panic(lrerrors.NewConstruction("grammar: start symbol %q is not the head of any production", start.Name()))
	}

	return g
}

// Start returns the grammar's start non-terminal.
func (g *Grammar) Start() NonTerminal { return g.start }

// Productions returns every production in the grammar, in declaration
// order. The returned slice is shared and must not be modified.
func (g *Grammar) Productions() []*Production { return g.productions }

// ProductionsFor returns the productions headed by nt, in declaration
// order, or nil if nt heads none.
func (g *Grammar) ProductionsFor(nt NonTerminal) []*Production {
	return g.byHead[nt.Name()]
}

// IsNonTerminal reports whether name is the name of some non-terminal
// appearing as a production head in the grammar.
func (g *Grammar) IsNonTerminal(name string) bool {
	_, ok := g.byHead[name]
	return ok
}

// NonTerminals returns the grammar's non-terminals, in the order their
// first production was declared.
func (g *Grammar) NonTerminals() []NonTerminal {
	seen := make(map[string]bool)
	var out []NonTerminal
	for _, p := range g.productions {
		if !seen[p.Head.Name()] {
			seen[p.Head.Name()] = true
			out = append(out, p.Head)
		}
	}
	return out
}

// Terminals returns the distinct terminals referenced in any
// production body, in first-appearance order. EOF and Epsilon are never
// included since neither may appear in a body.
func (g *Grammar) Terminals() []Terminal {
	seen := make(map[string]bool)
	var out []Terminal
	for _, p := range g.productions {
		for _, s := range p.Body {
			if t, ok := s.(Terminal); ok {
				if !seen[t.Name()] {
					seen[t.Name()] = true
					out = append(out, t)
				}
			}
		}
	}
	return out
}
