package core

// Collision records two productions of the same non-terminal mapping to the
// same parse-table cell. A non-terminal that left-recurses surfaces here: its
// own FIRST set collides with that of a sibling alternative.
type Collision struct {
	NonTerminal SymbolID
	Group       int
	ProdA       int
	ProdB       int
}

// BuildDetails accumulates every diagnostic found while building a parse
// table. A grammar with any non-empty field here yields no grammar.
type BuildDetails struct {
	NonTerminalIDIsTerminalID  []SymbolID
	TerminalIDsNotInLegalRange []Range
	NonTerminalNotInRulesVector []SymbolID
	Collisions                 []Collision
}

// OK reports whether no diagnostics were recorded.
func (d *BuildDetails) OK() bool {
	return len(d.NonTerminalIDIsTerminalID) == 0 &&
		len(d.TerminalIDsNotInLegalRange) == 0 &&
		len(d.NonTerminalNotInRulesVector) == 0 &&
		len(d.Collisions) == 0
}

// Count returns the total number of diagnostics recorded, keyed by kind, for
// reporting purposes (e.g. "3 collisions, 1 undefined non-terminal").
func (d *BuildDetails) Count() map[string]int {
	return map[string]int{
		"nonterminal_id_is_terminal_id":  len(d.NonTerminalIDIsTerminalID),
		"terminal_ids_not_in_legal_range": len(d.TerminalIDsNotInLegalRange),
		"nonterminal_not_in_rules_vector": len(d.NonTerminalNotInRulesVector),
		"collisions":                      len(d.Collisions),
	}
}

// Table is the built, immutable LL(1) parse table for one symbol universe.
type Table struct {
	Traits      Traits
	NumRules    int
	Grouper     *Grouper
	Productions []RuleEntry // flat, globally-indexed list of every production

	First  []*Set // indexed by non-terminal index
	Follow []*Set
	Prefix []*Set

	cells map[int64]int // key: ntIndex*groupCount + groupID -> production index (+1; 0 means absent)
}

func cellKey(ntIndex, groupID, groupCount int) int64 {
	return int64(ntIndex)*int64(groupCount) + int64(groupID)
}

// Get returns the production to expand non-terminal nt when the lookahead
// terminal maps to the given group, and whether an entry exists.
func (t *Table) Get(nt SymbolID, groupID int) (Production, bool) {
	idx := t.Traits.NonTerminalIndex(nt)
	key := cellKey(idx, groupID, t.Grouper.GroupCount())
	v, ok := t.cells[key]
	if !ok || v == 0 {
		return nil, false
	}
	return t.Productions[v-1].Prod, true
}

// Builder accumulates rule entries for one symbol universe and computes the
// LL(1) parse table (nullable/FIRST/FOLLOW/PREFIX, mapping, diagnostics).
type Builder struct {
	Traits   Traits
	NumRules int
	Entries  []RuleEntry
}

// NewBuilder creates a builder for a universe with the given traits and
// number of declared non-terminals (rules).
func NewBuilder(traits Traits, numRules int) *Builder {
	return &Builder{Traits: traits, NumRules: numRules}
}

// AddRule registers one alternative production for a non-terminal. Call
// multiple times for the same non-terminal to add alternatives.
func (b *Builder) AddRule(nt SymbolID, prod Production) {
	b.Entries = append(b.Entries, RuleEntry{NonTerminal: nt, Prod: prod})
}

// Build computes the finished table and any diagnostics found along the way.
func (b *Builder) Build() (*Table, *BuildDetails) {
	details := &BuildDetails{}

	byNT := make(map[SymbolID][]int) // nt id -> indices into b.Entries
	for i, e := range b.Entries {
		if !b.Traits.IsNonTerminal(e.NonTerminal, b.NumRules) {
			if b.Traits.IsTerminal(e.NonTerminal) {
				details.NonTerminalIDIsTerminalID = append(details.NonTerminalIDIsTerminalID, e.NonTerminal)
			} else {
				details.NonTerminalNotInRulesVector = append(details.NonTerminalNotInRulesVector, e.NonTerminal)
			}
			continue
		}
		for _, atom := range e.Prod {
			if atom.Kind == AtomTerminal {
				if !b.legalTerminalRange(atom.Lo, atom.Hi) {
					details.TerminalIDsNotInLegalRange = append(details.TerminalIDsNotInLegalRange, Range{Lo: atom.Lo, Hi: atom.Hi})
				}
			} else if atom.Kind == AtomNonTerminal {
				if !b.Traits.IsNonTerminal(atom.NonTerminal, b.NumRules) {
					details.NonTerminalNotInRulesVector = append(details.NonTerminalNotInRulesVector, atom.NonTerminal)
				}
			}
		}
		byNT[e.NonTerminal] = append(byNT[e.NonTerminal], i)
	}

	grouper := NewGrouper(b.Traits.FirstTerminal, b.legalUniverseTop())
	grouper.AddUseCase(b.Traits.End, b.Traits.End)
	if b.Traits.HasFailure {
		grouper.AddUseCase(b.Traits.Failure, b.Traits.Failure)
	}
	for _, e := range b.Entries {
		for _, atom := range e.Prod {
			if atom.Kind == AtomTerminal {
				grouper.AddUseCase(atom.Lo, atom.Hi)
			}
		}
	}

	nullable := b.computeNullable(byNT)
	first := b.computeFirst(byNT, nullable)
	follow := b.computeFollow(byNT, first)
	prefix := make([]*Set, b.NumRules)
	for i := 0; i < b.NumRules; i++ {
		p := first[i].Copy()
		if first[i].HasEpsilon() {
			p.AddSet(follow[i])
		}
		p.RemoveEpsilon()
		prefix[i] = p
	}

	table := &Table{
		Traits:      b.Traits,
		NumRules:    b.NumRules,
		Grouper:     grouper,
		Productions: append([]RuleEntry(nil), b.Entries...),
		First:       first,
		Follow:      follow,
		Prefix:      prefix,
		cells:       map[int64]int{},
	}

	groupCount := grouper.GroupCount()
	assign := func(ntIndex, groupID, prodGlobalIdx int) {
		key := cellKey(ntIndex, groupID, groupCount)
		if existing, ok := table.cells[key]; ok && existing != 0 && existing != prodGlobalIdx+1 {
			details.Collisions = append(details.Collisions, Collision{
				NonTerminal: b.Traits.NonTerminalID(ntIndex),
				Group:       groupID,
				ProdA:       existing - 1,
				ProdB:       prodGlobalIdx,
			})
			return
		}
		table.cells[key] = prodGlobalIdx + 1
	}

	for i, e := range b.Entries {
		if !b.Traits.IsNonTerminal(e.NonTerminal, b.NumRules) {
			continue
		}
		ntIndex := b.Traits.NonTerminalIndex(e.NonTerminal)
		rhsFirst := b.firstOfSequence(e.Prod, first)
		for _, r := range rhsFirst.Ranges() {
			for _, gid := range groupsCovering(grouper, r.Lo, r.Hi) {
				assign(ntIndex, gid, i)
			}
		}
		if rhsFirst.HasEpsilon() {
			for _, r := range follow[ntIndex].Ranges() {
				for _, gid := range groupsCovering(grouper, r.Lo, r.Hi) {
					assign(ntIndex, gid, i)
				}
			}
		}
	}

	return table, details
}

// groupsCovering returns every group ID the grouper partitions [lo, hi]
// into, without visiting each individual terminal ID in the range. Every
// range passed here was also submitted via AddUseCase before the grouper
// sealed, so it always falls exactly on group boundaries (§2.3): walking
// groups from the one containing lo up to the one containing hi is
// equivalent to, but far cheaper than, querying GroupID per terminal — the
// difference matters for wide ranges like "any" (FIRST = the whole universe).
func groupsCovering(grouper *Grouper, lo, hi SymbolID) []int {
	if lo > hi {
		return nil
	}
	first := grouper.GroupID(lo)
	count := grouper.GroupCount()
	ids := make([]int, 0, count-first)
	for g := first; g < count; g++ {
		if grouper.SymbolRange(g).Lo > hi {
			break
		}
		ids = append(ids, g)
	}
	return ids
}

func (b *Builder) legalUniverseTop() SymbolID {
	if b.Traits.HasFailure {
		return b.Traits.Failure
	}
	return b.Traits.End
}

func (b *Builder) legalTerminalRange(lo, hi SymbolID) bool {
	return lo >= b.Traits.FirstTerminal && hi <= b.legalUniverseTop()
}

func (b *Builder) computeNullable(byNT map[SymbolID][]int) map[SymbolID]bool {
	nullable := map[SymbolID]bool{}
	changed := true
	for changed {
		changed = false
		for nt, idxs := range byNT {
			if nullable[nt] {
				continue
			}
			for _, idx := range idxs {
				if b.prodNullable(b.Entries[idx].Prod, nullable) {
					nullable[nt] = true
					changed = true
					break
				}
			}
		}
	}
	return nullable
}

func (b *Builder) prodNullable(p Production, nullable map[SymbolID]bool) bool {
	for _, atom := range p {
		if atom.Assertion {
			continue
		}
		if atom.Kind == AtomTerminal {
			return false
		}
		if atom.Kind == AtomNonTerminal && !nullable[atom.NonTerminal] {
			return false
		}
	}
	return true
}

func (b *Builder) computeFirst(byNT map[SymbolID][]int, nullable map[SymbolID]bool) []*Set {
	first := make([]*Set, b.NumRules)
	for i := range first {
		first[i] = NewSet()
	}

	changed := true
	for changed {
		changed = false
		for nt, idxs := range byNT {
			ntIndex := b.Traits.NonTerminalIndex(nt)
			for _, idx := range idxs {
				seq := b.firstOfSequenceUsingPartial(b.Entries[idx].Prod, first, nullable)
				before := first[ntIndex].Size()
				hadEps := first[ntIndex].HasEpsilon()
				first[ntIndex].AddSet(seq)
				if first[ntIndex].Size() != before || first[ntIndex].HasEpsilon() != hadEps {
					changed = true
				}
			}
		}
	}
	return first
}

// firstOfSequenceUsingPartial computes FIRST(atoms) using a possibly
// still-converging table of per-non-terminal FIRST sets (used during
// fixed-point iteration).
func (b *Builder) firstOfSequenceUsingPartial(atoms Production, first []*Set, nullable map[SymbolID]bool) *Set {
	result := NewSet()
	for _, atom := range atoms {
		var atomFirst *Set
		var atomNullable bool
		if atom.Kind == AtomTerminal {
			atomFirst = NewSet()
			atomFirst.AddRange(atom.Lo, atom.Hi)
			atomNullable = false
		} else {
			idx := b.Traits.NonTerminalIndex(atom.NonTerminal)
			if idx >= 0 && idx < len(first) {
				atomFirst = first[idx]
			} else {
				atomFirst = NewSet()
			}
			atomNullable = nullable[atom.NonTerminal]
		}
		result.AddSet(atomFirst)
		if atom.Assertion {
			continue
		}
		if !atomNullable {
			result.RemoveEpsilon()
			return result
		}
	}
	result.AddEpsilon()
	return result
}

// firstOfSequence computes FIRST(atoms) against a fully-converged first
// table, for use once fixed-point iteration is complete.
func (b *Builder) firstOfSequence(atoms Production, first []*Set) *Set {
	nullable := map[SymbolID]bool{}
	for i, s := range first {
		nullable[b.Traits.NonTerminalID(i)] = s.HasEpsilon()
	}
	return b.firstOfSequenceUsingPartial(atoms, first, nullable)
}

func (b *Builder) computeFollow(byNT map[SymbolID][]int, first []*Set) []*Set {
	follow := make([]*Set, b.NumRules)
	for i := range follow {
		follow[i] = NewSet()
		follow[i].AddRange(b.Traits.End, b.Traits.End)
	}

	changed := true
	for changed {
		changed = false
		for _, e := range b.Entries {
			for i, atom := range e.Prod {
				if atom.Kind != AtomNonTerminal {
					continue
				}
				ntIdx := b.Traits.NonTerminalIndex(atom.NonTerminal)
				if ntIdx < 0 || ntIdx >= len(follow) {
					continue
				}
				beta := e.Prod[i+1:]
				betaFirst := b.firstOfSequence(beta, first)

				before := follow[ntIdx].Size()
				follow[ntIdx].AddSet(betaFirst)
				follow[ntIdx].RemoveEpsilon()

				if betaFirst.HasEpsilon() {
					parentIdx := b.Traits.NonTerminalIndex(e.NonTerminal)
					if parentIdx >= 0 && parentIdx < len(follow) {
						follow[ntIdx].AddSet(follow[parentIdx])
					}
				}
				if follow[ntIdx].Size() != before {
					changed = true
				}
			}
		}
	}
	return follow
}
