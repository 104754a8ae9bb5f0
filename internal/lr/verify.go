package lr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/forax/lazylr/grammar"
)

// lr0Item is an LR(0) item: a production and a dot position, with no
// lookahead. The offline verifier works over LR(0) states annotated
// with FOLLOW-derived lookaheads (§4.6), which is cheaper to build than
// the full LR(1) canonical collection the runtime Engine constructs
// on demand.
type lr0Item struct {
	prod *grammar.Production
	dot  int
}

func (it lr0Item) nextSymbol() (grammar.Symbol, bool) {
	if it.dot >= len(it.prod.Body) {
		return nil, false
	}
	return it.prod.Body[it.dot], true
}

func (it lr0Item) advance() lr0Item { return lr0Item{prod: it.prod, dot: it.dot + 1} }

func (it lr0Item) key() string {
	return strconv.Itoa(it.prod.Index()) + "." + strconv.Itoa(it.dot)
}

// lr0State is a state of the LR(0) automaton built by buildLR0Automaton:
// an item set plus its outgoing transitions, keyed by symbol name.
type lr0State struct {
	items       []lr0Item
	index       int
	transitions map[string]int
}

func lr0Closure(g *grammar.Grammar, seed []lr0Item) []lr0Item {
	seen := make(map[string]bool, len(seed)*2)
	var out []lr0Item
	var queue []lr0Item

	add := func(it lr0Item) {
		k := it.key()
		if seen[k] {
			return
		}
		seen[k] = true
		out = append(out, it)
		queue = append(queue, it)
	}
	for _, it := range seed {
		add(it)
	}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		sym, ok := it.nextSymbol()
		if !ok || sym.IsTerminal() {
			continue
		}
		for _, p := range g.ProductionsFor(sym.(grammar.NonTerminal)) {
			add(lr0Item{prod: p, dot: 0})
		}
	}
	return out
}

func lr0Key(items []lr0Item) string {
	sorted := make([]lr0Item, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].prod.Index() != sorted[j].prod.Index() {
			return sorted[i].prod.Index() < sorted[j].prod.Index()
		}
		return sorted[i].dot < sorted[j].dot
	})
	var sb strings.Builder
	for i, it := range sorted {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(it.key())
	}
	return sb.String()
}

// buildLR0Automaton enumerates the LR(0) states reachable from the
// closure of { augProd -> . S } by BFS (§4.6 step 3), using aug (the
// grammar already augmented with augProd at its front) to resolve
// non-terminal productions during closure.
func buildLR0Automaton(aug *grammar.Grammar, augProd *grammar.Production) []*lr0State {
	byKey := make(map[string]*lr0State)
	var states []*lr0State

	intern := func(items []lr0Item) *lr0State {
		k := lr0Key(items)
		if s, ok := byKey[k]; ok {
			return s
		}
		s := &lr0State{items: items, index: len(states), transitions: make(map[string]int)}
		byKey[k] = s
		states = append(states, s)
		return s
	}

	initial := intern(lr0Closure(aug, []lr0Item{{prod: augProd, dot: 0}}))

	queue := []*lr0State{initial}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]

		bySymbol := make(map[string][]lr0Item)
		var order []string
		for _, it := range s.items {
			sym, ok := it.nextSymbol()
			if !ok {
				continue
			}
			if _, seen := bySymbol[sym.Name()]; !seen {
				order = append(order, sym.Name())
			}
			bySymbol[sym.Name()] = append(bySymbol[sym.Name()], it.advance())
		}

		for _, name := range order {
			if _, already := s.transitions[name]; already {
				continue
			}
			target := intern(lr0Closure(aug, bySymbol[name]))
			s.transitions[name] = target.index
			if target.index == len(states)-1 {
				queue = append(queue, target)
			}
		}
	}

	return states
}

// followSets is FOLLOW(A) for every non-terminal, computed per §4.6
// step 2: FOLLOW(start') includes EOF; for A -> alpha B beta, FOLLOW(B)
// gains FIRST(beta)\{eps}, and if beta is nullable, also FOLLOW(A).
type followSets map[string]map[string]bool

func (f followSets) has(nt, term string) bool { return f[nt] != nil && f[nt][term] }

func (f followSets) add(nt, term string) bool {
	if f[nt] == nil {
		f[nt] = make(map[string]bool)
	}
	if f[nt][term] {
		return false
	}
	f[nt][term] = true
	return true
}

func computeFollow(aug *grammar.Grammar, first *grammar.FirstSets, augProd *grammar.Production) followSets {
	follow := make(followSets)
	follow.add(augProd.Head.Name(), grammar.EOF.Name())

	for {
		grew := false
		for _, p := range aug.Productions() {
			for i, sym := range p.Body {
				nt, ok := sym.(grammar.NonTerminal)
				if !ok {
					continue
				}
				beta := p.Body[i+1:]
				betaFirst := first.FirstOfSequence(beta)
				for name, t := range betaFirst {
					if name == grammar.Epsilon.Name() {
						continue
					}
					if follow.add(nt.Name(), t.Name()) {
						grew = true
					}
				}
				if _, nullable := betaFirst[grammar.Epsilon.Name()]; nullable {
					for term := range follow[p.Head.Name()] {
						if follow.add(nt.Name(), term) {
							grew = true
						}
					}
				}
			}
		}
		if !grew {
			break
		}
	}

	return follow
}

// Conflict is a single unresolved action-table entry reported by
// Verify: two or more completed productions remain reducible on the
// same (state, lookahead) pair at equal precedence, so no deterministic
// choice exists (§4.6 step 5, §9 Open Questions).
type Conflict struct {
	State    int
	Terminal grammar.Terminal
	Actions  []string
}

func (c Conflict) String() string {
	return fmt.Sprintf("state#%d, lookahead %s: %v", c.State, c.Terminal.Name(), c.Actions)
}

// ConflictSink receives every unresolved conflict Verify finds. Verify
// itself never fails because of a conflict; it is pure reporting.
type ConflictSink interface {
	Conflict(c Conflict)
}

// ConflictSinkFunc adapts a function to a ConflictSink.
type ConflictSinkFunc func(c Conflict)

func (f ConflictSinkFunc) Conflict(c Conflict) { f(c) }

// Report is the structured result of Verify.
type Report struct {
	StateCount int
	Conflicts  []Conflict
}

// Verify runs the offline LALR(1) check described in §4.6: builds the
// LR(0) automaton, computes FOLLOW sets, derives candidate actions per
// state and lookahead, resolves shift/reduce conflicts exactly as the
// runtime Action resolver does (§4.4, always deterministic), and
// reports every reduce/reduce pair that remains tied at the highest
// precedence level to sink. sink may be nil to only collect the
// Report.
func Verify(g *grammar.Grammar, prec *grammar.PrecedenceMap, sink ConflictSink) *Report {
	if prec == nil {
		prec = grammar.NewPrecedenceMap()
	}

	augStart := grammar.NT(g.Start().Name() + "__verify_start__")
	augProd := grammar.NewProduction(augStart, g.Start())
	aug := grammar.NewGrammar(augStart, append([]*grammar.Production{augProd}, g.Productions()...)...)
	completePrec := prec.Complete(aug)

	first := grammar.ComputeFirst(g)
	follow := computeFollow(aug, first, augProd)
	states := buildLR0Automaton(aug, augProd)

	rep := &Report{StateCount: len(states)}

	terms := append(append([]grammar.Terminal{}, g.Terminals()...), grammar.EOF)

	for _, st := range states {
		for _, t := range terms {
			var shiftTo *lr0State
			var reduces []*grammar.Production

			for _, it := range st.items {
				sym, ok := it.nextSymbol()
				if ok {
					if sym.IsTerminal() && sym.Name() == t.Name() {
						shiftTo = states[st.transitions[sym.Name()]]
					}
					continue
				}
				if it.prod == augProd {
					if t.Name() == grammar.EOF.Name() {
						// accept: modeled as a reduce of augProd, same
						// as the runtime's acceptance condition.
						reduces = append(reduces, augProd)
					}
					continue
				}
				if follow.has(it.prod.Head.Name(), t.Name()) {
					reduces = append(reduces, it.prod)
				}
			}

			if len(reduces) == 0 {
				continue
			}

			sort.Slice(reduces, func(i, j int) bool { return reduces[i].Index() < reduces[j].Index() })

			maxLevel := -1
			var atMax []*grammar.Production
			for _, p := range reduces {
				lvl := 0
				if pp, ok := completePrec.Production(p); ok {
					lvl = pp.Level
				}
				if lvl > maxLevel {
					maxLevel = lvl
					atMax = []*grammar.Production{p}
				} else if lvl == maxLevel {
					atMax = append(atMax, p)
				}
			}

			if len(atMax) >= 2 {
				names := make([]string, len(reduces))
				for i, p := range reduces {
					names[i] = "reduce " + p.Name()
				}
				if shiftTo != nil {
					names = append(names, fmt.Sprintf("shift state#%d", shiftTo.index))
				}
				c := Conflict{State: st.index, Terminal: t, Actions: names}
				rep.Conflicts = append(rep.Conflicts, c)
				if sink != nil {
					sink.Conflict(c)
				}
				continue
			}

			// Exactly one production wins the reduce side; resolve
			// shift/reduce deterministically, mirroring
			// Engine.preferShift.
			if shiftTo == nil {
				continue
			}
			best := atMax[0]
			pp, hasP := completePrec.Production(best)
			tp, hasT := completePrec.Terminal(t.Name())
			if !hasP || !hasT {
				continue // shift wins, nothing to report
			}
			if pp.Level > tp.Level {
				continue // reduce wins, nothing to report
			}
			if pp.Level < tp.Level {
				continue // shift wins
			}
			// level tie: associativity always decides, never ambiguous
		}
	}

	return rep
}

// String renders the verifier's conflict report as a fixed-width table,
// in the style of the teacher's own LALR table dump.
func (r *Report) String() string {
	data := [][]string{{"state", "terminal", "actions"}}
	for _, c := range r.Conflicts {
		data = append(data, []string{fmt.Sprintf("%d", c.State), c.Terminal.Name(), fmt.Sprint(c.Actions)})
	}

	return rosed.
		Edit(fmt.Sprintf("LALR(1) verification: %d state(s), %d conflict(s)\n", r.StateCount, len(r.Conflicts))).
		InsertTableOpts(-1, data, 100, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
