package lr

import "github.com/forax/lazylr/grammar"

// Action resolves the (state, lookahead) pair (§4.4): it finds every
// completed item in s whose lookahead is t (candidate reductions) and
// the shift target of t from s, applies the precedence-based conflict
// resolution policy when both or several are present, and memoizes the
// result. It returns (Action{}, false) if neither a shift nor any
// reduction applies (a runtime syntax error at that point).
//
// Reduce/reduce conflicts are resolved by picking the completed item
// whose production has the highest precedence level, ties broken by
// first occurrence — whichever candidate bestReduceCandidate reaches
// first while scanning the state's stored item order keeps the tie —
// the Open Questions decision recorded in DESIGN.md. Resolving one is
// traced, never failed; a caller that wants hard failure on ambiguity
// should run Verify first.
//
// Shift/reduce conflicts between the winning reduce candidate P and the
// incoming lookahead t are resolved by: preferring shift if either P or
// t lacks a precedence entry; otherwise by level (higher wins); and on
// a level tie, by P's associativity (LEFT reduces, RIGHT shifts).
func (e *Engine) Action(s *State, t grammar.Terminal) (Action, bool) {
	key := actionKey{state: s.key, term: t.Name()}
	if act, ok := e.actionTb[key]; ok {
		return act, true
	}

	var reduceCandidates []Item
	for _, it := range s.items {
		if it.IsComplete() && it.Lookahead.Equal(t) {
			reduceCandidates = append(reduceCandidates, it)
		}
	}
	shiftTarget, hasShift := e.Goto(s, t)

	if len(reduceCandidates) == 0 && !hasShift {
		return Action{}, false
	}

	var act Action
	switch {
	case len(reduceCandidates) == 0:
		act = Action{Type: ActionShift, State: shiftTarget}
	case !hasShift:
		best := e.bestReduceCandidate(reduceCandidates)
		act = Action{Type: ActionReduce, Production: best.Production}
	default:
		best := e.bestReduceCandidate(reduceCandidates)
		if e.preferShift(best.Production, t) {
			act = Action{Type: ActionShift, State: shiftTarget}
		} else {
			act = Action{Type: ActionReduce, Production: best.Production}
		}
	}

	e.actionTb[key] = act
	e.notef("ACTION(state#%d, %s) = %s", s.index, t.Name(), act.String())
	return act, true
}

// bestReduceCandidate picks the highest-precedence completed item among
// candidates, breaking ties by first occurrence: candidates is built by
// scanning s.items in order, so the earliest-encountered item at the
// max level keeps the tie. It also traces every candidate set with more
// than one member, since those are silently-resolved reduce/reduce
// conflicts per the Open Questions decision.
func (e *Engine) bestReduceCandidate(candidates []Item) Item {
	best := candidates[0]
	bestPrec, _ := e.prec.Production(best.Production)
	for _, it := range candidates[1:] {
		p, _ := e.prec.Production(it.Production)
		if p.Level > bestPrec.Level {
			best, bestPrec = it, p
		}
	}
	if len(candidates) > 1 {
		e.notef("reduce/reduce conflict among %d production(s) on lookahead %s resolved to %s",
			len(candidates), best.Lookahead.Name(), best.Production.Name())
	}
	return best
}

// preferShift applies the shift/reduce half of the policy in §4.4.
func (e *Engine) preferShift(reduceProd *grammar.Production, t grammar.Terminal) bool {
	pp, hasP := e.prec.Production(reduceProd)
	tp, hasT := e.prec.Terminal(t.Name())

	if !hasP || !hasT {
		return true
	}
	if pp.Level > tp.Level {
		return false
	}
	if pp.Level < tp.Level {
		return true
	}
	return pp.Assoc == grammar.RIGHT
}
