package grammar

import "github.com/forax/lazylr/internal/lrerrors"

// Associativity breaks a level tie between two precedence entities.
type Associativity int

const (
	LEFT Associativity = iota
	RIGHT
)

func (a Associativity) String() string {
	if a == RIGHT {
		return "RIGHT"
	}
	return "LEFT"
}

// Precedence is a (level, associativity) pair. Levels are compared
// numerically; associativity only matters on a tie.
type Precedence struct {
	Level int
	Assoc Associativity
}

// NewPrecedence validates level and returns a Precedence. A negative
// level is a construction-time precondition failure.
func NewPrecedence(level int, assoc Associativity) Precedence {
	if level < 0 {
		panic(lrerrors.NewConstruction("grammar: precedence level must be non-negative, got %d", level))
	}
	return Precedence{Level: level, Assoc: assoc}
}

// PrecedenceMap maps terminals and productions to their Precedence. The
// zero value behaves as an empty map for lookups and Complete, but
// SetTerminal and SetProduction panic on it; build a map to fill with
// NewPrecedenceMap.
type PrecedenceMap struct {
	terms map[string]Precedence
	prods map[*Production]Precedence
}

// NewPrecedenceMap returns an empty PrecedenceMap ready for use.
func NewPrecedenceMap() *PrecedenceMap {
	return &PrecedenceMap{
		terms: make(map[string]Precedence),
		prods: make(map[*Production]Precedence),
	}
}

// SetTerminal assigns p as the precedence of the terminal named name.
func (m *PrecedenceMap) SetTerminal(name string, p Precedence) {
	m.terms[name] = p
}

// SetProduction assigns p as the precedence of prod specifically; it
// does not affect any other production with the same body.
func (m *PrecedenceMap) SetProduction(prod *Production, p Precedence) {
	m.prods[prod] = p
}

// Terminal looks up the precedence explicitly assigned to the terminal
// named name.
func (m *PrecedenceMap) Terminal(name string) (Precedence, bool) {
	if m == nil {
		return Precedence{}, false
	}
	p, ok := m.terms[name]
	return p, ok
}

// Production looks up the precedence explicitly assigned to prod. It
// does not consult rightmost-terminal inheritance; that fallback is
// applied once, at parser/verifier construction time, by Complete.
func (m *PrecedenceMap) Production(prod *Production) (Precedence, bool) {
	if m == nil {
		return Precedence{}, false
	}
	p, ok := m.prods[prod]
	return p, ok
}

// Complete returns a new PrecedenceMap with an explicit entry for every
// production in g: productions already present in m keep their
// assigned precedence; the rest inherit the precedence of their
// rightmost terminal, or (0, LEFT) if they have none. The receiver is
// never mutated.
func (m *PrecedenceMap) Complete(g *Grammar) *PrecedenceMap {
	out := NewPrecedenceMap()
	for k, v := range m.terms {
		out.terms[k] = v
	}
	for _, prod := range g.Productions() {
		if p, ok := m.Production(prod); ok {
			out.prods[prod] = p
			continue
		}
		if rt, ok := prod.RightmostTerminal(); ok {
			if p, ok := m.Terminal(rt.Name()); ok {
				out.prods[prod] = p
				continue
			}
		}
		out.prods[prod] = Precedence{Level: 0, Assoc: LEFT}
	}
	return out
}
