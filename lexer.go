package taul

import "github.com/TirousCoded/TAUL-sub003/internal/core"

// TokenizeOptions controls how a Lexer turns a GlyphStream into a
// TokenStream.
type TokenizeOptions struct {
	// IncludeSkips, if true, emits tokens for LPRs qualified skip instead of
	// filtering them out of the resulting stream.
	IncludeSkips bool
}

// Lexer drives a grammar's lexical (glyph-universe) parse table to turn a
// GlyphStream into a TokenStream. Candidate non-support LPRs are tried in
// declaration order at each position; the first whose LL(1) derivation
// completes wins, matching the original implementation's ordered-choice
// lexing discipline rather than a longest-match-wins one. Runs of glyphs
// matched by no LPR are coalesced into a single failure token each, so
// lexing never errors outright (§6).
type Lexer struct {
	g *Grammar
}

// NewLexer binds a Lexer to g's lexical parse table.
func NewLexer(g *Grammar) *Lexer {
	return &Lexer{g: g}
}

// Tokenize consumes gs to completion and returns the resulting TokenStream,
// terminated by a TokenEnd token.
func (lx *Lexer) Tokenize(gs GlyphStream, opts TokenizeOptions) TokenStream {
	cur := newGlyphCursor(gs)

	var toks []Token
	failStart, failLen := -1, 0
	flushFailure := func() {
		if failStart >= 0 {
			toks = append(toks, NewFailureToken(failStart, failLen))
			failStart, failLen = -1, 0
		}
	}

	for {
		p := cur.Peek()
		if p == core.GlyphTraits.End {
			break
		}

		lprIdx, length, matched := lx.matchOne(cur)
		if matched && length > 0 {
			flushFailure()
			pos := cur.commitPos()
			rule := lx.g.data.LPRs[lprIdx]
			cur.advance(length)
			if rule.Qualifier != core.QualifierSkip || opts.IncludeSkips {
				toks = append(toks, NewToken(lprIdx, pos, cur.consumedLen(pos)))
			}
			continue
		}

		g := cur.consumeOneRaw()
		if failStart < 0 {
			failStart = g.Pos
		}
		failLen += g.Len
	}
	flushFailure()
	return NewSliceTokenStream(toks)
}

// matchOne tries every non-support LPR in declaration order against cur,
// without committing consumption, returning the first that matches along
// with how many glyphs it consumed.
func (lx *Lexer) matchOne(cur *glyphCursor) (lprIndex int, length int, ok bool) {
	for i, rule := range lx.g.data.LPRs {
		if rule.Qualifier == core.QualifierSupport {
			continue
		}
		mark := cur.mark()
		nt := lx.g.data.LPRTable.Traits.NonTerminalID(i)
		n, matched := core.Recognize(lx.g.data.LPRTable, nt, cur)
		cur.rewind(mark)
		if matched {
			return i, n, true
		}
	}
	return 0, 0, false
}

// glyphCursor adapts a GlyphStream to core.Cursor with a small replay
// buffer, so several candidate LPRs can each be tried from the same
// starting position without the underlying GlyphStream supporting
// backtracking itself.
type glyphCursor struct {
	gs  GlyphStream
	buf []Glyph
	idx int
}

func newGlyphCursor(gs GlyphStream) *glyphCursor {
	return &glyphCursor{gs: gs}
}

func (c *glyphCursor) fill() {
	if c.idx >= len(c.buf) {
		c.buf = append(c.buf, c.gs.Next())
	}
}

func (c *glyphCursor) Peek() core.SymbolID {
	c.fill()
	return core.SymbolID(c.buf[c.idx].ID)
}

func (c *glyphCursor) Next() core.SymbolID {
	id := c.Peek()
	c.idx++
	return id
}

func (c *glyphCursor) mark() int { return c.idx }

func (c *glyphCursor) rewind(m int) { c.idx = m }

func (c *glyphCursor) curPos() int64 {
	c.fill()
	return int64(c.buf[c.idx].Pos)
}

// commitPos returns the source position a match-in-progress started at.
func (c *glyphCursor) commitPos() int {
	c.fill()
	return c.buf[c.idx].Pos
}

// advance drops n already-buffered glyphs from the front of the buffer,
// committing them as consumed by the token just recognized.
func (c *glyphCursor) advance(n int) {
	c.buf = c.buf[n:]
	c.idx = 0
}

// consumedLen sums the lengths of the glyphs most recently dropped by
// advance; callers invoke it immediately after advance using the position
// recorded beforehand, so it recomputes length from pos deltas instead of
// keeping extra state.
func (c *glyphCursor) consumedLen(startPos int) int {
	if len(c.buf) == 0 {
		return int(c.curPos()) - startPos
	}
	return c.buf[0].Pos - startPos
}

// consumeOneRaw consumes exactly one glyph unconditionally, for the failure
// path where no LPR matches at the current position.
func (c *glyphCursor) consumeOneRaw() Glyph {
	c.fill()
	g := c.buf[c.idx]
	c.advance(1)
	return g
}
