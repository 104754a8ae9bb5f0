package lr

import (
	"context"
	"fmt"

	"github.com/forax/lazylr/grammar"
	"github.com/forax/lazylr/internal/lrerrors"
	"github.com/forax/lazylr/internal/util"
)

// TokenSource produces the terminals a Parser consumes. It is the one
// collaborator this package assumes but does not implement: a
// regex-based lexer or any other producer of (name, value) pairs,
// pre-filtered of whitespace and comments, is expected to sit behind
// it. Next returns ok=false once the source is exhausted; the driver
// appends the EOF sentinel itself rather than requiring the source to
// produce it (§4.5 step 1). Next honors ctx at this, the one blocking
// point of a parse (§5).
type TokenSource interface {
	Next(ctx context.Context) (t grammar.Terminal, ok bool, err error)
}

// ParserListener receives the low-level shift/reduce event stream of a
// parse, in reduction order (§5). It is the lower of the two surfaces
// Parser.Parse exposes; Evaluator is built on top of it.
type ParserListener interface {
	// OnShift is called when the driver shifts tok onto the stack.
	OnShift(tok grammar.Terminal)

	// OnReduce is called when the driver reduces p. The current token
	// has not yet been consumed.
	OnReduce(p *grammar.Production)
}

// Evaluator computes a value of type V for a parse, bottom-up: it is
// asked to evaluate every shifted terminal, then asked to combine the
// evaluated children of a production into the value for that
// production, in reduction order (§4.5 "Value-stack semantics").
type Evaluator[V any] interface {
	// EvaluateTerminal computes the value for a single shifted token.
	EvaluateTerminal(tok grammar.Terminal) V

	// Evaluate computes the value for a reduction of p given the
	// already-evaluated values of its body, in body order.
	Evaluate(p *grammar.Production, values []V) V
}

// Parser drives the shift/reduce loop for a single Engine. Build one
// with NewParser; the same Parser may run many parses in sequence
// (§4.5 "Thread-safety"), each pulling from its own TokenSource.
type Parser struct {
	engine *Engine
	trace  TraceFunc
}

// NewParser wraps engine in a Parser. A Parser and its Engine may be
// reused across any number of sequential parses.
func NewParser(engine *Engine) *Parser {
	return &Parser{engine: engine}
}

// Engine returns the Parser's underlying Engine, e.g. to run Verify
// against the same (grammar, precedence) pair beforehand.
func (p *Parser) Engine() *Engine { return p.engine }

// Parse runs the shift/reduce loop described in §4.5 over src, invoking
// listener.OnShift and listener.OnReduce in reduction order, until the
// augmented start production is reduced (acceptance) or a syntax error
// is raised. It returns a *lrerrors.SyntaxError wrapped value if the
// action resolver finds no applicable action, or a *lrerrors.InternalError
// value if a stack invariant is violated (should be unreachable for any
// grammar that passes Verify).
func (p *Parser) Parse(ctx context.Context, src TokenSource, listener ParserListener) error {
	e := p.engine

	states := util.Stack[*State]{}
	states.Push(e.Initial())

	tok, err := nextOrEOF(ctx, src)
	if err != nil {
		return err
	}

	for {
		top := states.Peek()
		act, ok := e.Action(top, tok)
		if !ok {
			return lrerrors.NewSyntaxError(tok.Name(), valueOf(tok), describeExpected(e, top))
		}

		switch act.Type {
		case ActionShift:
			listener.OnShift(tok)
			states.Push(act.State)
			tok, err = nextOrEOF(ctx, src)
			if err != nil {
				return err
			}

		case ActionReduce:
			listener.OnReduce(act.Production)
			n := len(act.Production.Body)
			if states.Len() < n+1 {
				return lrerrors.NewInternal(fmt.Sprintf(
					"stack underflow: reduce of %q needs %d state(s) but only %d remain",
					act.Production.Name(), n, states.Len()))
			}
			states.PopN(n)

			if act.Production == e.AugmentedProduction() {
				return nil
			}

			gotoState, ok := e.Goto(states.Peek(), act.Production.Head)
			if !ok {
				return lrerrors.NewInternal(fmt.Sprintf(
					"no GOTO from state#%d on %q after reducing %q",
					states.Peek().Index(), act.Production.Head.Name(), act.Production.Name()))
			}
			states.Push(gotoState)
		}
	}
}

func nextOrEOF(ctx context.Context, src TokenSource) (grammar.Terminal, error) {
	t, ok, err := src.Next(ctx)
	if err != nil {
		return grammar.Terminal{}, err
	}
	if !ok {
		return grammar.EOF, nil
	}
	return t, nil
}

func valueOf(t grammar.Terminal) string {
	v, _ := t.Value()
	return v
}

// describeExpected renders the set of terminals that would not
// immediately error in state s, for a friendlier syntax error message,
// in the style of the teacher's getExpectedString.
func describeExpected(e *Engine, s *State) string {
	var names []string
	for _, t := range e.Grammar().Terminals() {
		if _, ok := e.Action(s, t); ok {
			names = append(names, t.Name())
		}
	}
	if _, ok := e.Action(s, grammar.EOF); ok {
		names = append(names, grammar.EOF.Name())
	}
	return util.MakeTextList(names, false)
}

// evalListener adapts an Evaluator[V] into a ParserListener by closing
// over a value stack: each shift evaluates and pushes a terminal value,
// each reduce pops len(body) values, calls Evaluate, and pushes the
// result. This is the only implementation of the value-stack variant;
// Parser.Parse itself knows nothing about V (§9 "Evaluator vs listener
// duality").
//
// The reduce of startProduction, the synthetic S' -> S production, is
// left alone: it has no counterpart in the user's grammar, so there is
// nothing for Evaluate to sensibly combine, and the single child value
// already on the stack (the evaluated start symbol) is exactly the
// value ParseWithEvaluator must return. This mirrors the Java original's
// onReduce override, which returns immediately when production ==
// startProduction without touching the stack.
type evalListener[V any] struct {
	ev              Evaluator[V]
	startProduction *grammar.Production
	values          util.Stack[V]
}

func (l *evalListener[V]) OnShift(tok grammar.Terminal) {
	l.values.Push(l.ev.EvaluateTerminal(tok))
}

func (l *evalListener[V]) OnReduce(p *grammar.Production) {
	if p == l.startProduction {
		return
	}
	n := len(p.Body)
	args := l.values.PopN(n)
	l.values.Push(l.ev.Evaluate(p, args))
}

// ParseWithEvaluator runs p.Parse with an internal listener that
// evaluates eagerly on shift and combines bottom-up on reduce, and
// returns the value computed for the start symbol. It is a free
// function rather than a generic method because Go methods cannot
// introduce their own type parameters.
func ParseWithEvaluator[V any](p *Parser, ctx context.Context, src TokenSource, ev Evaluator[V]) (V, error) {
	l := &evalListener[V]{ev: ev, startProduction: p.Engine().AugmentedProduction()}
	err := p.Parse(ctx, src, l)
	if err != nil {
		var zero V
		return zero, err
	}
	if l.values.Len() != 1 {
		var zero V
		return zero, lrerrors.NewInternal(fmt.Sprintf(
			"value stack has %d entries after acceptance, expected 1", l.values.Len()))
	}
	return l.values.Pop(), nil
}
