package lr

import (
	"github.com/forax/lazylr/grammar"
	"github.com/forax/lazylr/internal/util"
)

// closure computes the LR(1) closure of seed (§4.2): repeatedly, for
// every item [A -> alpha . B beta, a] in the set where B is a
// non-terminal, add [B -> . gamma, c] for every production B -> gamma
// and every terminal c in FIRST(beta . a), until no new item is added.
// Duplicates by (production, dot, lookahead) are collapsed by
// construction, since the seen-set is keyed on Item.key().
func closure(g *grammar.Grammar, first *grammar.FirstSets, seed []Item) []Item {
	seen := util.NewKeySet[string]()
	var out []Item
	var queue []Item

	add := func(it Item) {
		k := it.key()
		if seen.Has(k) {
			return
		}
		seen.Add(k)
		out = append(out, it)
		queue = append(queue, it)
	}

	for _, it := range seed {
		add(it)
	}

	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]

		sym, ok := it.NextSymbol()
		if !ok || sym.IsTerminal() {
			continue
		}
		b := sym.(grammar.NonTerminal)

		beta := it.Production.Body[it.Dot+1:]
		lookaheads := first.FirstOfSequence(beta)
		nullableBeta := false
		if _, hasEps := lookaheads[grammar.Epsilon.Name()]; hasEps {
			nullableBeta = true
			delete(lookaheads, grammar.Epsilon.Name())
		}

		for _, gamma := range g.ProductionsFor(b) {
			for _, c := range lookaheads {
				add(Item{Production: gamma, Dot: 0, Lookahead: c})
			}
			if nullableBeta {
				add(Item{Production: gamma, Dot: 0, Lookahead: it.Lookahead})
			}
		}
	}

	return out
}
