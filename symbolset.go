package taul

import "github.com/TirousCoded/TAUL-sub003/internal/core"

// SymbolRange is an inclusive span of symbol IDs.
type SymbolRange struct {
	Lo, Hi int64
}

// SymbolSet is a read-only view over a computed FIRST/FOLLOW/PREFIX set (or
// any other symbol set produced internally): an ordered, disjoint collection
// of inclusive ID ranges plus an optional epsilon marker.
type SymbolSet struct {
	s *core.Set
}

func wrapSet(s *core.Set) SymbolSet { return SymbolSet{s: s} }

// Includes reports whether id is a member of the set.
func (s SymbolSet) Includes(id int64) bool {
	if s.s == nil {
		return false
	}
	return s.s.Includes(core.SymbolID(id))
}

// HasEpsilon reports whether the set contains the empty-string symbol.
func (s SymbolSet) HasEpsilon() bool {
	return s.s != nil && s.s.HasEpsilon()
}

// Size is the number of discrete symbol IDs in the set, excluding epsilon.
func (s SymbolSet) Size() int64 {
	if s.s == nil {
		return 0
	}
	return s.s.Size()
}

// Ranges returns the coalesced range view of the set.
func (s SymbolSet) Ranges() []SymbolRange {
	if s.s == nil {
		return nil
	}
	rs := s.s.Ranges()
	out := make([]SymbolRange, len(rs))
	for i, r := range rs {
		out[i] = SymbolRange{Lo: int64(r.Lo), Hi: int64(r.Hi)}
	}
	return out
}

func (s SymbolSet) String() string {
	if s.s == nil {
		return "{}"
	}
	return s.s.String()
}
