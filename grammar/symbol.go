// Package grammar holds the immutable grammar model: terminals,
// non-terminals, productions, precedence entries, and the grammar that
// groups them. Nothing in this package knows how to parse; it is pure
// data plus the handful of queries (FIRST, precedence lookup) the engine
// needs to run.
package grammar

import (
	"fmt"

	"github.com/forax/lazylr/internal/lrerrors"
)

// Symbol is anything that can appear in a production body: a Terminal or
// a NonTerminal. Equality between symbols is by name; identity is only
// load-bearing for Production, not for Symbol.
type Symbol interface {
	// Name returns the symbol's unique name.
	Name() string

	// IsTerminal distinguishes the two members of the Symbol union
	// without requiring a type switch at every call site.
	IsTerminal() bool

	fmt.Stringer
}

// NonTerminal is a grammar symbol that is the head of zero or more
// productions.
type NonTerminal struct {
	name string
}

// NT creates a NonTerminal with the given name. Names must be non-empty;
// NT panics otherwise, since a malformed name is a construction-time
// precondition failure per the error taxonomy, not a runtime condition
// callers are expected to recover from.
func NT(name string) NonTerminal {
	if name == "" {
		panic(lrerrors.NewConstruction("grammar: non-terminal name must not be empty"))
	}
	return NonTerminal{name: name}
}

func (nt NonTerminal) Name() string     { return nt.name }
func (nt NonTerminal) IsTerminal() bool { return false }
func (nt NonTerminal) String() string   { return nt.name }

// Terminal is a grammar symbol produced by the lexer. It may carry a
// matched lexeme value; two terminals are equal (for the purposes of
// grammar matching) iff their names are equal, regardless of value, so
// that a lexer-produced terminal such as TermValue("NUMBER", "42")
// matches a grammar-template terminal such as Term("NUMBER").
type Terminal struct {
	name  string
	value string
	has   bool
}

// Term creates a Terminal with no associated value, suitable for use in
// a production body or a precedence map key.
func Term(name string) Terminal {
	if name == "" {
		panic(lrerrors.NewConstruction("grammar: terminal name must not be empty"))
	}
	return Terminal{name: name}
}

// TermValue creates a Terminal carrying the given matched lexeme, as a
// lexer would produce when handing a token to the driver.
func TermValue(name, value string) Terminal {
	t := Term(name)
	t.value = value
	t.has = true
	return t
}

func (t Terminal) Name() string     { return t.name }
func (t Terminal) IsTerminal() bool { return true }

// Value returns the matched lexeme and whether one was ever set.
func (t Terminal) Value() (string, bool) { return t.value, t.has }

func (t Terminal) String() string {
	if t.has {
		return fmt.Sprintf("%s<%q>", t.name, t.value)
	}
	return t.name
}

// Equal compares terminals by name only, per the grammar's equality
// rule; matched values never affect whether two terminals are the same
// grammar symbol.
func (t Terminal) Equal(o Terminal) bool { return t.name == o.name }

// EOF is the end-of-input sentinel appended by the driver after the
// last real token of a parse. It is never part of a production body.
var EOF = Term("$")

// Epsilon is used only as a member of FIRST sets to record nullability;
// it must never appear in a production body.
var Epsilon = Term("ε")

// Error is a sentinel terminal a lexer may emit to signal a lexical
// failure; the core parser has no special handling for it beyond
// treating it like any other terminal name with (most likely) no
// grammar rule referencing it, which surfaces as an ordinary syntax
// error.
var Error = Term("ERROR")
