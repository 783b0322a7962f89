package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_CoalescesOverlappingAndAdjacentRanges(t *testing.T) {
	s := NewSet()
	s.AddRange(10, 20)
	s.AddRange(21, 25) // adjacent, should merge with the above
	s.AddRange(5, 8)   // disjoint, stays separate
	s.AddRange(15, 18) // fully contained, no-op

	assert.Equal(t, []Range{{Lo: 5, Hi: 8}, {Lo: 10, Hi: 25}}, s.Ranges())
	assert.Equal(t, int64(4+16), s.Size())
}

func TestSet_AddIsIdempotent(t *testing.T) {
	s := NewSet()
	s.Add(42)
	s.Add(42)
	assert.Equal(t, []Range{{Lo: 42, Hi: 42}}, s.Ranges())
}

func TestSet_RemoveSplitsRanges(t *testing.T) {
	s := NewSet()
	s.AddRange(0, 10)
	s.Remove(5)
	assert.Equal(t, []Range{{Lo: 0, Hi: 4}, {Lo: 6, Hi: 10}}, s.Ranges())
}

func TestSet_RemoveRangeAtBoundary(t *testing.T) {
	s := NewSet()
	s.AddRange(0, 10)
	s.RemoveRange(8, 15)
	assert.Equal(t, []Range{{Lo: 0, Hi: 7}}, s.Ranges())
}

func TestSet_IncludesAndIncludesSet(t *testing.T) {
	s := NewSet()
	s.AddRange(0, 100)
	assert.True(t, s.Includes(50))
	assert.False(t, s.Includes(200))

	sub := NewSet()
	sub.AddRange(10, 20)
	assert.True(t, s.IncludesSet(sub))

	sub.AddRange(90, 150)
	assert.False(t, s.IncludesSet(sub))
}

// TestSet_InverseIsInvolution checks the Inverse ∘ Inverse = identity property
// (over a fixed universe) that the ID-grouper and FIRST/FOLLOW math both rely
// on implicitly via lookahead_not/not lowering.
func TestSet_InverseIsInvolution(t *testing.T) {
	s := NewSet()
	s.AddRange(5, 10)
	s.AddRange(20, 25)
	s.AddEpsilon()

	const lo, hi SymbolID = 0, 100
	twice := s.Inverse(lo, hi).Inverse(lo, hi)

	assert.True(t, s.Equal(twice), "expected %s, got %s", s, twice)
}

func TestSet_InverseCoversComplement(t *testing.T) {
	s := NewSet()
	s.AddRange(5, 10)

	inv := s.Inverse(0, 20)
	assert.False(t, inv.Includes(7))
	assert.True(t, inv.Includes(0))
	assert.True(t, inv.Includes(20))
	assert.True(t, inv.Includes(4))
	assert.True(t, inv.Includes(11))
}

func TestSet_CopyIsIndependent(t *testing.T) {
	s := NewSet()
	s.AddRange(1, 5)
	cp := s.Copy()
	cp.AddRange(10, 12)

	assert.Equal(t, []Range{{Lo: 1, Hi: 5}}, s.Ranges())
	assert.Equal(t, []Range{{Lo: 1, Hi: 5}, {Lo: 10, Hi: 12}}, cp.Ranges())
}

func TestWithEpsilon(t *testing.T) {
	s := WithEpsilon()
	assert.True(t, s.HasEpsilon())
	assert.Equal(t, int64(0), s.Size())
}
