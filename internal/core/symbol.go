// Package core holds the mutable, build-time machinery of the grammar
// compiler: symbol IDs, symbol sets, the ID grouper, the LL(1) parse-table
// builder, grammar data, and the spec-event translator. None of it is part
// of the public API; callers use the wrappers in the root taul package.
package core

// SymbolID is a dense integer identifying a single symbol (terminal or
// non-terminal) within one of the two symbol universes described by the
// grammar compiler: the glyph universe (Unicode code points) and the token
// universe (LPR indices).
type SymbolID int64

// EpsilonMarker is a sentinel used only inside Set to flag that a set
// contains the empty-string symbol. It is never a valid SymbolID produced by
// a Traits value and must never be compared against real IDs.
const EpsilonMarker SymbolID = -1

// Traits describes the boundary IDs of a symbol universe. FirstNonTerminal
// is the start of the dense non-terminal ID range; the range's upper bound
// is not fixed (it grows with the number of rules), so it is tracked
// separately wherever it's needed rather than stored here.
type Traits struct {
	FirstTerminal    SymbolID
	LastTerminal     SymbolID
	End              SymbolID
	Failure          SymbolID
	HasFailure       bool
	FirstNonTerminal SymbolID
}

// GlyphTraits is the fixed universe of the lexical level: terminals are
// Unicode code points 0..0x10FFFF plus the end sentinel; non-terminals are
// LPR indices, with IDs starting immediately after the end sentinel.
var GlyphTraits = Traits{
	FirstTerminal:    0,
	LastTerminal:     0x10FFFF,
	End:              0x110000,
	HasFailure:       false,
	FirstNonTerminal: 0x110001,
}

// NewTokenTraits builds the token-universe traits for a grammar with the
// given number of LPRs. Token terminals are LPR indices (0..numLPR-1) plus
// the end and failure sentinels, so the boundaries depend on the grammar
// being compiled and cannot be a single package-level constant.
func NewTokenTraits(numLPR int) Traits {
	last := SymbolID(numLPR) - 1
	if numLPR == 0 {
		last = -1
	}
	end := SymbolID(numLPR)
	failure := SymbolID(numLPR) + 1
	return Traits{
		FirstTerminal:    0,
		LastTerminal:     last,
		End:              end,
		Failure:          failure,
		HasFailure:       true,
		FirstNonTerminal: SymbolID(numLPR) + 2,
	}
}

// IsTerminal reports whether id falls in the universe's terminal range
// (including end/failure sentinels).
func (t Traits) IsTerminal(id SymbolID) bool {
	if id >= t.FirstTerminal && id <= t.LastTerminal {
		return true
	}
	if id == t.End {
		return true
	}
	if t.HasFailure && id == t.Failure {
		return true
	}
	return false
}

// IsNonTerminal reports whether id is a non-terminal ID for a universe whose
// rule count is numRules.
func (t Traits) IsNonTerminal(id SymbolID, numRules int) bool {
	if numRules <= 0 {
		return false
	}
	lastNT := t.FirstNonTerminal + SymbolID(numRules) - 1
	return id >= t.FirstNonTerminal && id <= lastNT
}

// NonTerminalIndex converts a non-terminal ID into its dense rule index.
func (t Traits) NonTerminalIndex(id SymbolID) int {
	return int(id - t.FirstNonTerminal)
}

// NonTerminalID converts a dense rule index into a non-terminal ID.
func (t Traits) NonTerminalID(index int) SymbolID {
	return t.FirstNonTerminal + SymbolID(index)
}
