package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSimpleGrammar builds, over the glyph universe, three non-terminals:
//
//	S -> A B | ε
//	A -> 'a'
//	B -> 'b'
//
// used across several table-builder tests below.
func buildSimpleGrammar() *Builder {
	b := NewBuilder(GlyphTraits, 3)
	S := GlyphTraits.NonTerminalID(0)
	A := GlyphTraits.NonTerminalID(1)
	B := GlyphTraits.NonTerminalID(2)

	b.AddRule(S, Production{NonTerminalAtom(A), NonTerminalAtom(B)})
	b.AddRule(S, Production{}) // epsilon alternative
	b.AddRule(A, Production{TerminalAtom('a', 'a', false)})
	b.AddRule(B, Production{TerminalAtom('b', 'b', false)})
	return b
}

func TestBuilder_NullableAndFirstFollow(t *testing.T) {
	b := buildSimpleGrammar()
	table, details := b.Build()
	require.True(t, details.OK())

	// S is nullable (epsilon alternative), so FIRST(S) carries epsilon.
	assert.True(t, table.First[0].HasEpsilon())
	assert.True(t, table.First[0].Includes('a'))

	// A is not nullable; FOLLOW(A) = FIRST(B) = {'b'}.
	assert.False(t, table.First[1].HasEpsilon())
	assert.True(t, table.Follow[1].Includes('b'))

	// B ends S's only non-epsilon production; FOLLOW(B) = FOLLOW(S) = {end}.
	assert.True(t, table.Follow[2].Includes(GlyphTraits.End))
}

func TestBuilder_TableLookupResolvesBothBranches(t *testing.T) {
	b := buildSimpleGrammar()
	table, details := b.Build()
	require.True(t, details.OK())

	S := GlyphTraits.NonTerminalID(0)
	grp := table.Grouper

	// lookahead 'a' selects the non-epsilon alternative
	prod, ok := table.Get(S, grp.GroupID('a'))
	require.True(t, ok)
	assert.Len(t, prod, 2)

	// lookahead end selects the epsilon alternative
	prod, ok = table.Get(S, grp.GroupID(GlyphTraits.End))
	require.True(t, ok)
	assert.Len(t, prod, 0)
}

func TestBuilder_DetectsFirstSetCollision(t *testing.T) {
	b := NewBuilder(GlyphTraits, 1)
	X := GlyphTraits.NonTerminalID(0)
	b.AddRule(X, Production{TerminalAtom('a', 'a', false)})
	b.AddRule(X, Production{TerminalAtom('a', 'a', false), TerminalAtom('b', 'b', false)})

	_, details := b.Build()
	require.False(t, details.OK())
	require.Len(t, details.Collisions, 1)
	assert.Equal(t, X, details.Collisions[0].NonTerminal)
}

func TestBuilder_FlagsUndefinedNonTerminal(t *testing.T) {
	b := NewBuilder(GlyphTraits, 1)
	X := GlyphTraits.NonTerminalID(0)
	ghost := GlyphTraits.NonTerminalID(5) // never declared; NumRules is 1
	b.AddRule(X, Production{NonTerminalAtom(ghost)})

	_, details := b.Build()
	require.False(t, details.OK())
	assert.Contains(t, details.NonTerminalNotInRulesVector, ghost)
}

// TestBuilder_IsDeterministic builds the same entry set twice and checks the
// resulting tables answer every query identically, the determinism property
// the parser/lexer recognizers depend on.
func TestBuilder_IsDeterministic(t *testing.T) {
	t1, d1 := buildSimpleGrammar().Build()
	t2, d2 := buildSimpleGrammar().Build()
	require.True(t, d1.OK())
	require.True(t, d2.OK())

	S := GlyphTraits.NonTerminalID(0)
	for _, lookahead := range []SymbolID{'a', 'b', GlyphTraits.End} {
		p1, ok1 := t1.Get(S, t1.Grouper.GroupID(lookahead))
		p2, ok2 := t2.Get(S, t2.Grouper.GroupID(lookahead))
		assert.Equal(t, ok1, ok2)
		assert.Equal(t, len(p1), len(p2))
	}
}
