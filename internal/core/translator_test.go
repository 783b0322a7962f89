package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBuild(t *testing.T, tr *Translator) *GrammarData {
	t.Helper()
	gd, lprDetails, pprDetails, ok := tr.GetResult()
	if !ok {
		if lprDetails != nil {
			require.True(t, lprDetails.OK(), "lpr table: %v, errs=%v", lprDetails.Count(), tr.Errs())
		}
		if pprDetails != nil {
			require.True(t, pprDetails.OK(), "ppr table: %v, errs=%v", pprDetails.Count(), tr.Errs())
		}
		t.Fatalf("translator failed to build: errs=%v", tr.Errs())
	}
	return gd
}

func recognizeGlyphs(t *testing.T, table *Table, nt SymbolID, s string) (int, bool) {
	t.Helper()
	ids := make([]SymbolID, len([]rune(s)))
	for i, r := range []rune(s) {
		ids[i] = SymbolID(r)
	}
	cur := &sliceCursor{ids: ids, end: GlyphTraits.End}
	return Recognize(table, nt, cur)
}

func TestTranslator_OptionalDesugarsToEpsilonOrInner(t *testing.T) {
	tr := NewTranslator()
	tr.AddLPRDecl("AB")
	tr.BeginRule("AB", QualifierNone)
	tr.StringLit("a")
	tr.StringLit("b")
	tr.Optional()
	tr.Sequence()
	tr.Close()

	gd := mustBuild(t, tr)
	nt := GlyphTraits.NonTerminalID(0)

	n, ok := recognizeGlyphs(t, gd.LPRTable, nt, "a")
	require.True(t, ok)
	assert.Equal(t, 1, n)

	n, ok = recognizeGlyphs(t, gd.LPRTable, nt, "ab")
	require.True(t, ok)
	assert.Equal(t, 2, n)
}

func TestTranslator_KleeneStarAcceptsZeroOrMore(t *testing.T) {
	tr := NewTranslator()
	tr.AddLPRDecl("As")
	tr.BeginRule("As", QualifierNone)
	tr.StringLit("a")
	tr.KleeneStar()
	tr.Close()

	gd := mustBuild(t, tr)
	nt := GlyphTraits.NonTerminalID(0)

	for _, tc := range []struct {
		in   string
		want int
	}{{"", 0}, {"a", 1}, {"aaaa", 4}} {
		n, ok := recognizeGlyphs(t, gd.LPRTable, nt, tc.in)
		require.True(t, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, n, "input %q", tc.in)
	}
}

func TestTranslator_KleenePlusRequiresAtLeastOne(t *testing.T) {
	tr := NewTranslator()
	tr.AddLPRDecl("As")
	tr.BeginRule("As", QualifierNone)
	tr.StringLit("a")
	tr.KleenePlus()
	tr.Close()

	gd := mustBuild(t, tr)
	nt := GlyphTraits.NonTerminalID(0)

	_, ok := recognizeGlyphs(t, gd.LPRTable, nt, "")
	assert.False(t, ok)

	n, ok := recognizeGlyphs(t, gd.LPRTable, nt, "aaa")
	require.True(t, ok)
	assert.Equal(t, 3, n)
}

func TestTranslator_LookaheadDoesNotConsume(t *testing.T) {
	tr := NewTranslator()
	tr.AddLPRDecl("Peek")
	tr.BeginRule("Peek", QualifierNone)
	tr.StringLit("a")
	tr.Lookahead()
	tr.Close()

	gd := mustBuild(t, tr)
	nt := GlyphTraits.NonTerminalID(0)

	n, ok := recognizeGlyphs(t, gd.LPRTable, nt, "a")
	require.True(t, ok)
	assert.Equal(t, 0, n, "lookahead assertion must not consume input")
}

func TestTranslator_CharsetMatchesAnyListedRun(t *testing.T) {
	tr := NewTranslator()
	tr.AddLPRDecl("Ident")
	tr.BeginRule("Ident", QualifierNone)
	tr.Charset("a-z,0-9,_")
	tr.Close()

	gd := mustBuild(t, tr)
	nt := GlyphTraits.NonTerminalID(0)

	for _, in := range []string{"m", "5", "_"} {
		n, ok := recognizeGlyphs(t, gd.LPRTable, nt, in)
		require.True(t, ok, "input %q should match charset", in)
		assert.Equal(t, 1, n)
	}
	_, ok := recognizeGlyphs(t, gd.LPRTable, nt, "!")
	assert.False(t, ok, "input outside every charset run should not match")
}

func TestTranslator_UndeclaredNameReferenceCancels(t *testing.T) {
	tr := NewTranslator()
	tr.AddLPRDecl("A")
	tr.BeginRule("A", QualifierNone)
	tr.Name("Ghost")

	assert.True(t, tr.Cancelled())
	assert.NotEmpty(t, tr.Errs())

	_, _, _, ok := tr.GetResult()
	assert.False(t, ok)
}

// TestTranslator_PPRCrossReferencesLPRAndPPR builds a tiny two-level grammar
// (one LPR, two PPRs where one PPR references the other and an LPR by name)
// and checks the resulting token-universe table recognizes the expected
// sequences — this exercises the PPR non-terminal ID re-homing GetResult
// performs once the real token FirstNonTerminal is known.
func TestTranslator_PPRCrossReferencesLPRAndPPR(t *testing.T) {
	tr := NewTranslator()
	tr.AddLPRDecl("A")
	tr.AddPPRDecl("Inner")
	tr.AddPPRDecl("Outer")

	tr.BeginRule("A", QualifierNone)
	tr.StringLit("a")
	tr.Close()

	tr.BeginRule("Inner", QualifierNone)
	tr.Name("A")
	tr.Close()

	tr.BeginRule("Outer", QualifierNone)
	tr.Name("Inner")
	tr.Name("Inner")
	tr.Sequence()
	tr.Close()

	gd := mustBuild(t, tr)

	tokenTraits := NewTokenTraits(1)
	outerNT := tokenTraits.NonTerminalID(1) // Outer declared second

	aTokenID := SymbolID(0)
	cur := &sliceCursor{ids: []SymbolID{aTokenID, aTokenID}, end: tokenTraits.End}
	n, ok := Recognize(gd.PPRTable, outerNT, cur)
	require.True(t, ok)
	assert.Equal(t, 2, n)
}
