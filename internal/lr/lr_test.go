package lr

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"unicode"

	"github.com/forax/lazylr/grammar"
	"github.com/forax/lazylr/internal/lrerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceSource is a TokenSource over a fixed slice of terminals, built
// from the toks/sym/num helpers below for readability in test tables.
type sliceSource struct {
	toks []grammar.Terminal
	i    int
}

func toks(ts ...grammar.Terminal) *sliceSource {
	return &sliceSource{toks: ts}
}

// sym builds a terminal whose name is its own literal text, for
// keywords and operators ("if", "+", "x", ...).
func sym(name string) grammar.Terminal { return grammar.TermValue(name, name) }

// num builds a "num" terminal carrying v as its matched lexeme.
func num(v string) grammar.Terminal { return grammar.TermValue("num", v) }

func (s *sliceSource) Next(ctx context.Context) (grammar.Terminal, bool, error) {
	if s.i >= len(s.toks) {
		return grammar.Terminal{}, false, nil
	}
	t := s.toks[s.i]
	s.i++
	return t, true, nil
}

// intEvaluator evaluates the arithmetic fixtures used below: "num"
// terminals parse to their integer value, and E -> E op E productions
// combine their two operand values per the operator baked into prod.
type intEvaluator struct {
	combine map[*grammar.Production]func(a, b int) int
}

func (e *intEvaluator) EvaluateTerminal(t grammar.Terminal) int {
	v, _ := t.Value()
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func (e *intEvaluator) Evaluate(p *grammar.Production, values []int) int {
	if fn, ok := e.combine[p]; ok {
		return fn(values[0], values[2])
	}
	if len(values) == 1 {
		return values[0]
	}
	return 0
}

// tracingListener records shift/reduce events as short strings, e.g.
// "shift num" / "reduce E : num", for asserting reduction order.
type tracingListener struct {
	events []string
}

func (l *tracingListener) OnShift(t grammar.Terminal) {
	l.events = append(l.events, "shift "+t.Name())
}

func (l *tracingListener) OnReduce(p *grammar.Production) {
	l.events = append(l.events, "reduce "+p.Name())
}

func buildArithmeticGrammar(t *testing.T) (*grammar.Grammar, *grammar.PrecedenceMap, *grammar.Production, *grammar.Production, *grammar.Production) {
	e := grammar.NT("E")
	numT := grammar.Term("num")
	plus := grammar.Term("+")
	star := grammar.Term("*")
	caret := grammar.Term("^")

	pAdd := grammar.NewProduction(e, e, plus, e)
	pMul := grammar.NewProduction(e, e, star, e)
	pExp := grammar.NewProduction(e, e, caret, e)
	pNum := grammar.NewProduction(e, numT)

	g := grammar.NewGrammar(e, pAdd, pMul, pExp, pNum)

	pm := grammar.NewPrecedenceMap()
	pm.SetTerminal("+", grammar.NewPrecedence(10, grammar.LEFT))
	pm.SetTerminal("*", grammar.NewPrecedence(20, grammar.LEFT))
	pm.SetTerminal("^", grammar.NewPrecedence(30, grammar.RIGHT))

	return g, pm, pAdd, pMul, pExp
}

func TestParse_SingleNumber(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g, pm, _, _, _ := buildArithmeticGrammar(t)
	engine := NewEngine(g, pm, nil)
	parser := NewParser(engine)

	ev := &intEvaluator{combine: map[*grammar.Production]func(int, int) int{}}
	listener := &tracingListener{}

	err := parser.Parse(context.Background(), toks(num("7")), listener)
	require.NoError(err)
	assert.Equal([]string{"shift num", "reduce E : num", "reduce E' : E"}, listener.events)

	result, err := ParseWithEvaluator[int](parser, context.Background(), toks(num("42")), ev)
	require.NoError(err)
	assert.Equal(42, result)
}

func TestParse_LeftAssociativeAddition(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	g, pm, pAdd, _, _ := buildArithmeticGrammar(t)
	engine := NewEngine(g, pm, nil)
	parser := NewParser(engine)

	ev := &intEvaluator{combine: map[*grammar.Production]func(int, int) int{
		pAdd: func(a, b int) int { return a + b },
	}}

	result, err := ParseWithEvaluator[int](parser, context.Background(),
		toks(num("1"), sym("+"), num("2"), sym("+"), num("3")), ev)
	require.NoError(err)
	assert.Equal(6, result)
}

func TestParse_PrecedenceMultiplyBeforeAdd(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	g, pm, pAdd, pMul, _ := buildArithmeticGrammar(t)
	engine := NewEngine(g, pm, nil)
	parser := NewParser(engine)

	ev := &intEvaluator{combine: map[*grammar.Production]func(int, int) int{
		pAdd: func(a, b int) int { return a + b },
		pMul: func(a, b int) int { return a * b },
	}}

	result, err := ParseWithEvaluator[int](parser, context.Background(),
		toks(num("2"), sym("+"), num("3"), sym("*"), num("4")), ev)
	require.NoError(err)
	assert.Equal(14, result)
}

func TestParse_RightAssociativeExponent(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	g, pm, _, _, pExp := buildArithmeticGrammar(t)
	engine := NewEngine(g, pm, nil)
	parser := NewParser(engine)

	ev := &intEvaluator{combine: map[*grammar.Production]func(int, int) int{
		pExp: func(a, b int) int {
			result := 1
			for i := 0; i < b; i++ {
				result *= a
			}
			return result
		},
	}}

	result, err := ParseWithEvaluator[int](parser, context.Background(),
		toks(num("2"), sym("^"), num("3"), sym("^"), num("2")), ev)
	require.NoError(err)
	assert.Equal(512, result, "right associativity must reduce 3^2 before applying the outer ^")
}

func TestParse_DanglingElseBindsToInnerIf(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	e := grammar.NT("E")
	numT := grammar.Term("num")
	ifT := grammar.Term("if")
	thenT := grammar.Term("then")
	elseT := grammar.Term("else")

	pNum := grammar.NewProduction(e, numT)
	pIf := grammar.NewProduction(e, ifT, e, thenT, e)
	pIfElse := grammar.NewProduction(e, ifT, e, thenT, e, elseT, e)

	g := grammar.NewGrammar(e, pNum, pIf, pIfElse)

	pm := grammar.NewPrecedenceMap()
	pm.SetTerminal("if", grammar.NewPrecedence(0, grammar.RIGHT))
	pm.SetTerminal("else", grammar.NewPrecedence(40, grammar.RIGHT))

	engine := NewEngine(g, pm, nil)
	parser := NewParser(engine)

	ev := &dangleEvaluator{}

	result, err := ParseWithEvaluator[string](parser, context.Background(),
		toks(sym("if"), num("1"), sym("then"), sym("if"), num("0"), sym("then"), num("99"), sym("else"), num("42")), ev)
	require.NoError(err)
	assert.Equal("42", result)
}

// dangleEvaluator evaluates the dangling-else fixture: num evaluates to
// its own text, an if-then keeps the then-branch's value, and an
// if-then-else picks the then- or else-branch by the condition text
// ("0" is false, anything else is true) so the test can assert which
// branch actually won structurally, not just arithmetically.
type dangleEvaluator struct{}

func (dangleEvaluator) EvaluateTerminal(t grammar.Terminal) string {
	v, _ := t.Value()
	return v
}

func (dangleEvaluator) Evaluate(p *grammar.Production, values []string) string {
	switch len(p.Body) {
	case 1: // E -> num
		return values[0]
	case 4: // E -> if E then E
		return values[3]
	case 6: // E -> if E then E else E
		if values[1] == "0" {
			return values[5]
		}
		return values[3]
	}
	return ""
}

func TestParse_EpsilonStartAcceptsEmptyInput(t *testing.T) {
	require := require.New(t)

	s := grammar.NT("S")
	g := grammar.NewGrammar(s, grammar.NewProduction(s))

	engine := NewEngine(g, nil, nil)
	parser := NewParser(engine)

	listener := &tracingListener{}
	err := parser.Parse(context.Background(), toks(), listener)
	require.NoError(err)
}

func TestParse_LeftRecursionGroupsLeft(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	a := grammar.NT("A")
	x := grammar.Term("x")
	pRec := grammar.NewProduction(a, a, x)
	pBase := grammar.NewProduction(a, x)
	g := grammar.NewGrammar(a, pRec, pBase)

	engine := NewEngine(g, nil, nil)
	parser := NewParser(engine)

	ev := &groupEvaluator{recProd: pRec}
	result, err := ParseWithEvaluator[string](parser, context.Background(),
		toks(sym("x"), sym("x"), sym("x")), ev)
	require.NoError(err)
	assert.Equal("((x x) x)", result)
}

func TestParse_RightRecursionGroupsRight(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	a := grammar.NT("A")
	x := grammar.Term("x")
	pRec := grammar.NewProduction(a, x, a)
	pBase := grammar.NewProduction(a, x)
	g := grammar.NewGrammar(a, pRec, pBase)

	engine := NewEngine(g, nil, nil)
	parser := NewParser(engine)

	ev := &rightGroupEvaluator{recProd: pRec}
	result, err := ParseWithEvaluator[string](parser, context.Background(),
		toks(sym("x"), sym("x"), sym("x")), ev)
	require.NoError(err)
	assert.Equal("(x (x x))", result)
}

type groupEvaluator struct{ recProd *grammar.Production }

func (groupEvaluator) EvaluateTerminal(t grammar.Terminal) string { return t.Name() }

func (e groupEvaluator) Evaluate(p *grammar.Production, values []string) string {
	if p == e.recProd {
		return "(" + values[0] + " " + values[1] + ")"
	}
	return values[0]
}

type rightGroupEvaluator struct{ recProd *grammar.Production }

func (rightGroupEvaluator) EvaluateTerminal(t grammar.Terminal) string { return t.Name() }

func (e rightGroupEvaluator) Evaluate(p *grammar.Production, values []string) string {
	if p == e.recProd {
		return "(" + values[0] + " " + values[1] + ")"
	}
	return values[0]
}

func TestParse_SyntaxErrorOnUnexpectedToken(t *testing.T) {
	assert := assert.New(t)

	g, pm, _, _, _ := buildArithmeticGrammar(t)
	engine := NewEngine(g, pm, nil)
	parser := NewParser(engine)

	err := parser.Parse(context.Background(), toks(num("1"), num("2")), &tracingListener{})
	if assert.Error(err) {
		se, ok := lrerrors.IsSyntax(err)
		if assert.True(ok) {
			assert.Equal("num", se.Terminal)
		}
	}
}

func TestEngine_GotoIsCanonical(t *testing.T) {
	assert := assert.New(t)

	g, pm, _, _, _ := buildArithmeticGrammar(t)
	engine := NewEngine(g, pm, nil)

	numTerm := grammar.Term("num")

	s1, ok1 := engine.Goto(engine.Initial(), numTerm)
	s2, ok2 := engine.Goto(engine.Initial(), numTerm)
	assert.True(ok1)
	assert.True(ok2)
	assert.Same(s1, s2, "GOTO must return the same canonical State object on repeat calls")
}

func TestParse_JSONLikeGrammarAccepts(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	g, pm := buildJSONGrammar()
	engine := NewEngine(g, pm, nil)
	parser := NewParser(engine)

	input := `{ "a" : [ false , { "b" : [ true , null , 123 ] } , "nested" ] , "c" : { "d" : { } } }`
	var stream []grammar.Terminal
	for _, word := range strings.Fields(input) {
		stream = append(stream, jsonToken(word))
	}

	listener := &tracingListener{}
	err := parser.Parse(context.Background(), toks(stream...), listener)
	require.NoError(err)
	require.NotEmpty(listener.events)
	last := listener.events[len(listener.events)-1]
	assert.Equal("reduce Value' : Value", last)
}

// jsonToken maps one whitespace-split word of a JSON-like document to
// the terminal the buildJSONGrammar fixture expects: punctuation and
// the true/false/null keywords are terminals named after themselves;
// a quoted word becomes a STRING terminal and a digit-leading word
// becomes a NUMBER terminal.
func jsonToken(word string) grammar.Terminal {
	switch word {
	case "{", "}", "[", "]", ",", ":", "true", "false", "null":
		return sym(word)
	}
	if strings.HasPrefix(word, `"`) {
		return grammar.TermValue("STRING", word)
	}
	if len(word) > 0 && unicode.IsDigit(rune(word[0])) {
		return grammar.TermValue("NUMBER", word)
	}
	return sym(word)
}

// buildJSONGrammar builds a minimal JSON-token grammar covering objects,
// arrays, and scalar values, for the §8 end-to-end acceptance scenario.
// Commas and punctuation are ordinary terminals; STRING/NUMBER/true/
// false/null are treated as single-token scalars since lexing is out of
// scope.
func buildJSONGrammar() (*grammar.Grammar, *grammar.PrecedenceMap) {
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
	numT := grammar.Term("NUMBER")
	tru := grammar.Term("true")
	fals := grammar.Term("false")
	null := grammar.Term("null")

	productions := []*grammar.Production{
		grammar.NewProduction(value, object),
		grammar.NewProduction(value, array),
		grammar.NewProduction(value, str),
		grammar.NewProduction(value, numT),
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
	}

	return grammar.NewGrammar(value, productions...), grammar.NewPrecedenceMap()
}
