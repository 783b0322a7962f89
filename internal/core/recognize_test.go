package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceCursor is a minimal Cursor over a fixed slice of symbol IDs, padded
// with an End ID once exhausted, for driving Recognize in tests without a
// full glyph/token stream.
type sliceCursor struct {
	ids []SymbolID
	pos int
	end SymbolID
}

func (c *sliceCursor) Peek() SymbolID {
	if c.pos >= len(c.ids) {
		return c.end
	}
	return c.ids[c.pos]
}

func (c *sliceCursor) Next() SymbolID {
	id := c.Peek()
	if c.pos < len(c.ids) {
		c.pos++
	}
	return id
}

func TestRecognize_MatchesNonEpsilonAlternative(t *testing.T) {
	table, details := buildSimpleGrammar().Build()
	require.True(t, details.OK())

	S := GlyphTraits.NonTerminalID(0)
	cur := &sliceCursor{ids: []SymbolID{'a', 'b'}, end: GlyphTraits.End}

	consumed, ok := Recognize(table, S, cur)
	assert.True(t, ok)
	assert.Equal(t, 2, consumed)
}

func TestRecognize_MatchesEpsilonAlternativeOnEnd(t *testing.T) {
	table, details := buildSimpleGrammar().Build()
	require.True(t, details.OK())

	S := GlyphTraits.NonTerminalID(0)
	cur := &sliceCursor{ids: nil, end: GlyphTraits.End}

	consumed, ok := Recognize(table, S, cur)
	assert.True(t, ok)
	assert.Equal(t, 0, consumed)
}

func TestRecognize_FailsOnUnrecognizedLookahead(t *testing.T) {
	table, details := buildSimpleGrammar().Build()
	require.True(t, details.OK())

	S := GlyphTraits.NonTerminalID(0)
	cur := &sliceCursor{ids: []SymbolID{'z'}, end: GlyphTraits.End}

	_, ok := Recognize(table, S, cur)
	assert.False(t, ok)
}

func TestRecognize_AssertionDoesNotConsume(t *testing.T) {
	b := NewBuilder(GlyphTraits, 1)
	X := GlyphTraits.NonTerminalID(0)
	b.AddRule(X, Production{TerminalAtom('a', 'a', true)}) // lookahead assertion only
	table, details := b.Build()
	require.True(t, details.OK())

	cur := &sliceCursor{ids: []SymbolID{'a'}, end: GlyphTraits.End}
	consumed, ok := Recognize(table, X, cur)
	assert.True(t, ok)
	assert.Equal(t, 0, consumed)
	assert.Equal(t, 0, cur.pos, "assertion atom must not advance the cursor")
}
