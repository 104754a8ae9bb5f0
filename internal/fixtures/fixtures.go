// Package fixtures ships the handful of grammars cmd/lazylrdemo lets a
// caller parse or verify: arithmetic expressions with precedence, the
// dangling-else grammar, and a JSON-token grammar. Each is built
// directly against the grammar package's construction API, the same
// way a real caller would build theirs; none of them goes through a
// lexer or meta-grammar DSL, since both are out of scope for this
// module.
package fixtures

import (
	"fmt"
	"strconv"

	"github.com/forax/lazylr/grammar"
	"github.com/forax/lazylr/internal/lr"
)

// Fixture bundles a grammar, its precedence map, and an Evaluator
// constructor so the demo can both verify and evaluate the same
// definition. Evaluator values are untyped (any) since the demo picks
// a fixture at runtime and cannot know V at compile time.
type Fixture struct {
	Name         string
	Description  string
	Grammar      *grammar.Grammar
	Precedence   *grammar.PrecedenceMap
	NewEvaluator func() lr.Evaluator[any]
}

// Names returns the registered fixture names, in a stable order
// suitable for a -g flag's usage text.
func Names() []string {
	return []string{"arith", "dangling-else", "json"}
}

// Get returns the fixture registered under name, or false if none
// matches.
func Get(name string) (Fixture, bool) {
	switch name {
	case "arith":
		return arithFixture(), true
	case "dangling-else":
		return danglingElseFixture(), true
	case "json":
		return jsonFixture(), true
	}
	return Fixture{}, false
}

// arithFixture builds E -> E + E | E * E | E ^ E | num, with + and *
// left-associative and ^ right-associative, ^ binding tightest.
func arithFixture() Fixture {
	e := grammar.NT("E")
	num := grammar.Term("num")
	plus := grammar.Term("+")
	star := grammar.Term("*")
	caret := grammar.Term("^")

	g := grammar.NewGrammar(e,
		grammar.NewProduction(e, e, plus, e),
		grammar.NewProduction(e, e, star, e),
		grammar.NewProduction(e, e, caret, e),
		grammar.NewProduction(e, num),
	)

	pm := grammar.NewPrecedenceMap()
	pm.SetTerminal("+", grammar.NewPrecedence(10, grammar.LEFT))
	pm.SetTerminal("*", grammar.NewPrecedence(20, grammar.LEFT))
	pm.SetTerminal("^", grammar.NewPrecedence(30, grammar.RIGHT))

	return Fixture{
		Name:        "arith",
		Description: "arithmetic expressions over +, *, ^ and num, with standard precedence",
		Grammar:     g,
		Precedence:  pm,
		NewEvaluator: func() lr.Evaluator[any] { return arithEvaluator{} },
	}
}

type arithEvaluator struct{}

func (arithEvaluator) EvaluateTerminal(t grammar.Terminal) any {
	v, _ := t.Value()
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0.0
	}
	return n
}

func (arithEvaluator) Evaluate(p *grammar.Production, values []any) any {
	if len(values) == 1 {
		return values[0]
	}
	a, b := values[0].(float64), values[2].(float64)
	switch op := p.Body[1].Name(); op {
	case "+":
		return a + b
	case "*":
		return a * b
	case "^":
		result := 1.0
		for i := 0; i < int(b); i++ {
			result *= a
		}
		return result
	}
	return 0.0
}

// danglingElseFixture builds the classic dangling-else grammar, with a
// precedence declaration that binds a trailing else to the nearest
// unmatched if, matching the dangling-else policy's usual yacc-style
// resolution.
func danglingElseFixture() Fixture {
	e := grammar.NT("E")
	num := grammar.Term("num")
	ifT := grammar.Term("if")
	thenT := grammar.Term("then")
	elseT := grammar.Term("else")

	g := grammar.NewGrammar(e,
		grammar.NewProduction(e, num),
		grammar.NewProduction(e, ifT, e, thenT, e),
		grammar.NewProduction(e, ifT, e, thenT, e, elseT, e),
	)

	pm := grammar.NewPrecedenceMap()
	pm.SetTerminal("if", grammar.NewPrecedence(0, grammar.RIGHT))
	pm.SetTerminal("else", grammar.NewPrecedence(40, grammar.RIGHT))

	return Fixture{
		Name:        "dangling-else",
		Description: "if/then/else with the else bound to the nearest unmatched if",
		Grammar:     g,
		Precedence:  pm,
		NewEvaluator: func() lr.Evaluator[any] { return danglingElseEvaluator{} },
	}
}

type danglingElseEvaluator struct{}

func (danglingElseEvaluator) EvaluateTerminal(t grammar.Terminal) any {
	v, _ := t.Value()
	return v
}

func (danglingElseEvaluator) Evaluate(p *grammar.Production, values []any) any {
	switch len(p.Body) {
	case 1:
		return values[0]
	case 4:
		return values[3]
	case 6:
		if values[1] == "0" {
			return values[5]
		}
		return values[3]
	}
	return nil
}

// jsonFixture builds a minimal JSON-token grammar covering objects,
// arrays, and scalar values; lexing a real JSON document into STRING/
// NUMBER/true/false/null tokens is left to the caller, per the module's
// no-lexer non-goal.
func jsonFixture() Fixture {
	value := grammar.NT("Value")
	object := grammar.NT("Object")
	array := grammar.NT("Array")
	members := grammar.NT("Members")
	elements := grammar.NT("Elements")
	pair := grammar.NT("Pair")

	lbrace := grammar.Term("{")
	rbrace := grammar.Term("}")
	lbrack := grammar.Term("[")
	rbrack := grammar.Term("]")
	comma := grammar.Term(",")
	colon := grammar.Term(":")
	str := grammar.Term("STRING")
	num := grammar.Term("NUMBER")
	tru := grammar.Term("true")
	fals := grammar.Term("false")
	null := grammar.Term("null")

	g := grammar.NewGrammar(value,
		grammar.NewProduction(value, object),
		grammar.NewProduction(value, array),
		grammar.NewProduction(value, str),
		grammar.NewProduction(value, num),
		grammar.NewProduction(value, tru),
		grammar.NewProduction(value, fals),
		grammar.NewProduction(value, null),

		grammar.NewProduction(object, lbrace, rbrace),
		grammar.NewProduction(object, lbrace, members, rbrace),

		grammar.NewProduction(members, pair),
		grammar.NewProduction(members, pair, comma, members),

		grammar.NewProduction(pair, str, colon, value),

		grammar.NewProduction(array, lbrack, rbrack),
		grammar.NewProduction(array, lbrack, elements, rbrack),

		grammar.NewProduction(elements, value),
		grammar.NewProduction(elements, value, comma, elements),
	)

	return Fixture{
		Name:        "json",
		Description: "a JSON-token grammar over pre-lexed {, }, [, ], STRING, NUMBER, true, false, null",
		Grammar:     g,
		Precedence:  grammar.NewPrecedenceMap(),
		NewEvaluator: func() lr.Evaluator[any] { return jsonEvaluator{} },
	}
}

type jsonEvaluator struct{}

func (jsonEvaluator) EvaluateTerminal(t grammar.Terminal) any {
	v, has := t.Value()
	if has {
		return v
	}
	return t.Name()
}

func (jsonEvaluator) Evaluate(p *grammar.Production, values []any) any {
	if len(values) == 1 {
		return values[0]
	}
	return fmt.Sprint(values)
}
