package lr

import (
	"fmt"

	"github.com/forax/lazylr/grammar"
)

// TraceFunc receives a human-readable trace line from an Engine or
// Parser. It is called synchronously; the engine builds a fresh string
// per call, so a TraceFunc may retain it freely.
type TraceFunc func(line string)

// Engine is the lazy LR(1) engine for a single grammar: it owns the
// canonical-state cache, the memoized GOTO transition table, and the
// memoized action table, all populated on first observation of a given
// (state, symbol) pair (§4.3, §9 "Lazy table growth during parsing").
// An Engine is built once per grammar and is safe to reuse across
// multiple parses as long as those parses do not run concurrently
// against it (§5); build one Engine per goroutine for concurrent
// parses.
type Engine struct {
	g     *grammar.Grammar
	aug   *grammar.Grammar // g augmented with S' -> S at the front
	prec  *grammar.PrecedenceMap
	first *grammar.FirstSets

	augStart grammar.NonTerminal
	augProd  *grammar.Production

	states   map[string]*State
	initial  *State
	gotoTbl  map[gotoKey]*State
	actionTb map[actionKey]Action

	trace TraceFunc
}

type gotoKey struct {
	state string
	sym   string
}

type actionKey struct {
	state string
	term  string
}

// NewEngine builds the Engine for g under prec (§4.5 step 1-3): it
// constructs the augmented start production S' -> S, completes the
// precedence map against the augmented grammar, computes FIRST sets,
// and interns the initial state as the closure of { [S' -> . S, EOF] }.
// prec may be nil, equivalent to an empty PrecedenceMap. trace may be
// nil to disable tracing.
//
// g's own productions already carry the declaration indices g stamped
// when it was built; folding them into the augmented grammar here only
// assigns a fresh index to the new S' -> S production, appended after
// the highest index already in use. g is never mutated.
func NewEngine(g *grammar.Grammar, prec *grammar.PrecedenceMap, trace TraceFunc) *Engine {
	if prec == nil {
		prec = grammar.NewPrecedenceMap()
	}

	augStart := grammar.NT(g.Start().Name() + "'")
	augProd := grammar.NewProduction(augStart, g.Start())
	aug := grammar.NewGrammar(augStart, append([]*grammar.Production{augProd}, g.Productions()...)...)

	e := &Engine{
		g:        g,
		aug:      aug,
		prec:     prec.Complete(aug),
		first:    grammar.ComputeFirst(g),
		augStart: augStart,
		augProd:  augProd,
		states:   make(map[string]*State),
		gotoTbl:  make(map[gotoKey]*State),
		actionTb: make(map[actionKey]Action),
		trace:    trace,
	}

	seed := []Item{{Production: augProd, Dot: 0, Lookahead: grammar.EOF}}
	e.initial = e.intern(e.closeItems(seed))

	return e
}

// Grammar returns the grammar the engine was built for (not the
// internal augmented grammar).
func (e *Engine) Grammar() *grammar.Grammar { return e.g }

// Initial returns the engine's initial state.
func (e *Engine) Initial() *State { return e.initial }

// AugmentedProduction returns the synthetic S' -> S production; a
// reduction of this production is the sole acceptance condition.
func (e *Engine) AugmentedProduction() *grammar.Production { return e.augProd }

// Precedence returns the completed precedence map (every production has
// an explicit entry).
func (e *Engine) Precedence() *grammar.PrecedenceMap { return e.prec }

func (e *Engine) notef(format string, args ...interface{}) {
	if e.trace != nil {
		e.trace(fmt.Sprintf(format, args...))
	}
}

// closeItems computes the closure of seed against the augmented
// grammar, so that [S' -> . S, $] in the initial state's seed correctly
// expands S's own productions.
func (e *Engine) closeItems(seed []Item) []Item {
	return closure(e.aug, e.first, seed)
}

// intern looks up the canonical *State for items by its deterministic
// key, creating and storing one if this is the first time this exact
// item set has been seen. This is what makes two GOTO computations that
// yield the same item set return the same *State object (§4.3).
func (e *Engine) intern(items []Item) *State {
	k := stateKey(items)
	if s, ok := e.states[k]; ok {
		return s
	}
	s := &State{items: items, key: k, index: len(e.states)}
	e.states[k] = s
	e.notef("interned state#%d with %d item(s)", s.index, len(items))
	return s
}

// Goto computes GOTO(s, sym) (§4.3): the kernel of items in s whose next
// symbol is sym, advanced and closed, then canonicalized. It returns
// (nil, false) if no item in s has sym right of the dot. The result is
// memoized per (s, sym) so repeat lookups are O(1).
func (e *Engine) Goto(s *State, sym grammar.Symbol) (*State, bool) {
	key := gotoKey{state: s.key, sym: sym.Name()}
	if target, ok := e.gotoTbl[key]; ok {
		return target, true
	}

	var kernel []Item
	for _, it := range s.items {
		next, ok := it.NextSymbol()
		if !ok || next.Name() != sym.Name() || next.IsTerminal() != sym.IsTerminal() {
			continue
		}
		kernel = append(kernel, it.Advance())
	}
	if kernel == nil {
		return nil, false
	}

	target := e.intern(e.closeItems(kernel))
	e.gotoTbl[key] = target
	e.notef("GOTO(state#%d, %s) = state#%d", s.index, sym.Name(), target.index)
	return target, true
}
