package lr

import (
	"strconv"

	"github.com/forax/lazylr/grammar"
)

// ActionType discriminates the members of the Action sum type, rendered
// as an enum discriminant plus a struct carrying the union of possible
// payload fields, in the style of the teacher's LRActionType/LRAction
// pair, rather than as separate interface implementations requiring a
// downcast at every call site.
type ActionType int

const (
	// ActionShift reads one token of input and transitions to State.
	ActionShift ActionType = iota

	// ActionReduce pops len(Production.Body) entries off the state and
	// value stacks and transitions via GOTO on Production.Head.
	ActionReduce
)

func (t ActionType) String() string {
	switch t {
	case ActionShift:
		return "shift"
	case ActionReduce:
		return "reduce"
	default:
		return "unknown"
	}
}

// Action is the result of resolving a (state, lookahead) pair: either a
// shift to State, or a reduce of Production. Only the field matching
// Type is meaningful.
type Action struct {
	Type       ActionType
	State      *State
	Production *grammar.Production
}

func (a Action) String() string {
	switch a.Type {
	case ActionShift:
		return "ACTION<shift state#" + strconv.Itoa(a.State.index) + ">"
	case ActionReduce:
		return "ACTION<reduce " + a.Production.Name() + ">"
	default:
		return "ACTION<unknown>"
	}
}
