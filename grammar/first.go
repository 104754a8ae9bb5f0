package grammar

// FirstSets is the total mapping first: Symbol -> set<Terminal>,
// computed once for a Grammar and safe to share across every parser and
// verifier built from that grammar.
type FirstSets struct {
	byName map[string]map[string]Terminal
}

// ComputeFirst runs the fixed-point FIRST-set analysis described for
// this package: first(t) = {t} for every terminal, first(A) is the
// union of firstOfSequence(body) over every production headed by A, and
// firstOfSequence accumulates first(Yi)\{EPSILON} while each Yi seen so
// far is nullable, including EPSILON itself only if the whole sequence
// is nullable.
func ComputeFirst(g *Grammar) *FirstSets {
	fs := &FirstSets{byName: make(map[string]map[string]Terminal)}

	for _, t := range g.Terminals() {
		fs.set(t.Name(), t)
	}
	fs.set(EOF.Name(), EOF)

	for _, nt := range g.NonTerminals() {
		if fs.byName[nt.Name()] == nil {
			fs.byName[nt.Name()] = make(map[string]Terminal)
		}
	}

	for {
		grew := false
		for _, p := range g.Productions() {
			seq := fs.FirstOfSequence(p.Body)
			for name, t := range seq {
				if fs.add(p.Head.Name(), name, t) {
					grew = true
				}
			}
		}
		if !grew {
			break
		}
	}

	return fs
}

func (fs *FirstSets) set(name string, t Terminal) {
	if fs.byName[name] == nil {
		fs.byName[name] = make(map[string]Terminal)
	}
	fs.byName[name][t.Name()] = t
}

func (fs *FirstSets) add(headName, termName string, t Terminal) bool {
	if fs.byName[headName] == nil {
		fs.byName[headName] = make(map[string]Terminal)
	}
	if _, ok := fs.byName[headName][termName]; ok {
		return false
	}
	fs.byName[headName][termName] = t
	return true
}

// Of returns FIRST(sym): the terminals (possibly including Epsilon)
// that can begin some derivation from sym.
func (fs *FirstSets) Of(sym Symbol) map[string]Terminal {
	if t, ok := sym.(Terminal); ok {
		return map[string]Terminal{t.Name(): t}
	}
	out := make(map[string]Terminal, len(fs.byName[sym.Name()]))
	for k, v := range fs.byName[sym.Name()] {
		out[k] = v
	}
	return out
}

// IsNullable reports whether sym's FIRST set contains Epsilon.
func (fs *FirstSets) IsNullable(sym Symbol) bool {
	if sym.IsTerminal() {
		return false
	}
	_, ok := fs.byName[sym.Name()][Epsilon.Name()]
	return ok
}

// FirstOfSequence computes FIRST(Y1...Yn): it accumulates FIRST(Yi) \
// {EPSILON} while each Yi encountered so far is nullable, and includes
// EPSILON itself only if every symbol in seq is nullable (including the
// empty sequence, whose FIRST is {EPSILON}).
func (fs *FirstSets) FirstOfSequence(seq []Symbol) map[string]Terminal {
	out := make(map[string]Terminal)
	allNullable := true

	for _, sym := range seq {
		for name, t := range fs.Of(sym) {
			if name != Epsilon.Name() {
				out[name] = t
			}
		}
		if !fs.IsNullable(sym) {
			allNullable = false
			break
		}
	}

	if allNullable {
		out[Epsilon.Name()] = Epsilon
	}

	return out
}
