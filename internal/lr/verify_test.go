package lr

import (
	"testing"

	"github.com/forax/lazylr/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_ConflictFreeArithmeticGrammar(t *testing.T) {
	require := require.New(t)

	g, pm, _, _, _ := buildArithmeticGrammar(t)
	report := Verify(g, pm, nil)

	require.Empty(report.Conflicts, "precedence resolves every shift/reduce ambiguity, leaving no reduce/reduce ties")
	require.Greater(report.StateCount, 0)
}

func TestVerify_ReportsUnresolvedReduceReduceAtEqualPrecedence(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	// Classic ambiguous grammar: "id" reduces equally well to either A or
	// B with no precedence distinguishing them, so on lookahead $ both
	// A -> id and B -> id are live reduce candidates at the same
	// (default) precedence level.
	s := grammar.NT("S")
	a := grammar.NT("A")
	b := grammar.NT("B")
	id := grammar.Term("id")

	g := grammar.NewGrammar(s,
		grammar.NewProduction(s, a),
		grammar.NewProduction(s, b),
		grammar.NewProduction(a, id),
		grammar.NewProduction(b, id),
	)

	var sunk []Conflict
	sink := ConflictSinkFunc(func(c Conflict) { sunk = append(sunk, c) })

	report := Verify(g, nil, sink)

	require.NotEmpty(report.Conflicts, "A -> id and B -> id both reduce on lookahead $ with no precedence to break the tie")
	assert.Equal(len(sunk), len(report.Conflicts), "every conflict reported in Report must also reach the sink")

	c := report.Conflicts[0]
	assert.Equal(grammar.EOF.Name(), c.Terminal.Name())
	assert.Len(c.Actions, 2)
}

func TestVerify_PrecedenceResolvesOtherwiseAmbiguousGrammar(t *testing.T) {
	require := require.New(t)

	e := grammar.NT("E")
	num := grammar.Term("num")
	plus := grammar.Term("+")
	star := grammar.Term("*")

	g := grammar.NewGrammar(e,
		grammar.NewProduction(e, e, plus, e),
		grammar.NewProduction(e, e, star, e),
		grammar.NewProduction(e, num),
	)

	pm := grammar.NewPrecedenceMap()
	pm.SetTerminal("+", grammar.NewPrecedence(10, grammar.LEFT))
	pm.SetTerminal("*", grammar.NewPrecedence(20, grammar.LEFT))

	report := Verify(g, pm, nil)
	require.Empty(report.Conflicts)
}

func TestVerify_ReportStringRendersConflictTable(t *testing.T) {
	assert := assert.New(t)

	s := grammar.NT("S")
	a := grammar.NT("A")
	b := grammar.NT("B")
	id := grammar.Term("id")

	g := grammar.NewGrammar(s,
		grammar.NewProduction(s, a),
		grammar.NewProduction(s, b),
		grammar.NewProduction(a, id),
		grammar.NewProduction(b, id),
	)

	report := Verify(g, nil, nil)
	out := report.String()

	assert.Contains(out, "conflict")
	assert.Contains(out, "id")
}
