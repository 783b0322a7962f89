package main

import (
	"fmt"

	"github.com/TirousCoded/TAUL-sub003"
)

// buildExampleGrammar hand-builds one of a small set of named example
// grammars via the spec-event Loader, the same entry point a textual
// grammar front end (out of scope for this library) would drive.
func buildExampleGrammar(name string) (*taul.Grammar, error) {
	switch name {
	case "arithmetic":
		return buildArithmeticGrammar(), nil
	default:
		return nil, fmt.Errorf("unknown example grammar %q", name)
	}
}

// buildArithmeticGrammar builds the grammar from the specification's S1
// scenario: PLUS := "+", A := "a", B := "b", WS := " "|"\t" (skip);
// Number := A | B, Expr := Number (PLUS Expr)?.
func buildArithmeticGrammar() *taul.Grammar {
	l := taul.NewLoader()

	l.AddLPRDecl("PLUS")
	l.AddLPRDecl("A")
	l.AddLPRDecl("B")
	l.AddLPRDecl("WS")
	l.AddPPRDecl("Number")
	l.AddPPRDecl("Expr")

	l.BeginRule("PLUS", taul.QualifierNone)
	l.StringLit("+")
	l.Close()

	l.BeginRule("A", taul.QualifierNone)
	l.StringLit("a")
	l.Close()

	l.BeginRule("B", taul.QualifierNone)
	l.StringLit("b")
	l.Close()

	l.BeginRule("WS", taul.QualifierSkip)
	l.StringLit(" ")
	l.Alternative()
	l.StringLit("\t")
	l.Close()

	l.BeginRule("Number", taul.QualifierNone)
	l.NameRef("A")
	l.Alternative()
	l.NameRef("B")
	l.Close()

	l.BeginRule("Expr", taul.QualifierNone)
	l.NameRef("Number")
	l.NameRef("PLUS")
	l.NameRef("Expr")
	l.Sequence()
	l.Optional()
	l.Sequence()
	l.Close()

	g, _, _, ok := l.GetResult()
	if !ok {
		panic("built-in arithmetic example grammar failed to build")
	}
	return g
}
