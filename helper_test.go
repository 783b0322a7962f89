package taul

import "testing"

// buildArithmeticTestGrammar builds the same small grammar used throughout
// the test suite:
//
//	PLUS := "+"
//	A := "a"
//	B := "b"
//	WS := " " | "\t"   (skip)
//	Number := A | B
//	Expr := Number (PLUS Expr)?
//
// LPR declaration order is PLUS, A, B, WS, so their token IDs are 0..3
// respectively; callers that need to hand-build token sequences rely on
// this fixed order.
func buildArithmeticTestGrammar(t *testing.T) *Grammar {
	t.Helper()
	l := NewLoader()

	l.AddLPRDecl("PLUS")
	l.AddLPRDecl("A")
	l.AddLPRDecl("B")
	l.AddLPRDecl("WS")
	l.AddPPRDecl("Number")
	l.AddPPRDecl("Expr")

	l.BeginRule("PLUS", QualifierNone)
	l.StringLit("+")
	l.Close()

	l.BeginRule("A", QualifierNone)
	l.StringLit("a")
	l.Close()

	l.BeginRule("B", QualifierNone)
	l.StringLit("b")
	l.Close()

	l.BeginRule("WS", QualifierSkip)
	l.StringLit(" ")
	l.Alternative()
	l.StringLit("\t")
	l.Close()

	l.BeginRule("Number", QualifierNone)
	l.NameRef("A")
	l.Alternative()
	l.NameRef("B")
	l.Close()

	l.BeginRule("Expr", QualifierNone)
	l.NameRef("Number")
	l.NameRef("PLUS")
	l.NameRef("Expr")
	l.Sequence()
	l.Optional()
	l.Sequence()
	l.Close()

	g, lprDiag, pprDiag, ok := l.GetResult()
	if !ok {
		t.Fatalf("arithmetic test grammar failed to build: lpr=%+v ppr=%+v", lprDiag, pprDiag)
	}
	return g
}
