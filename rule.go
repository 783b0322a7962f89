package taul

import "fmt"

// LPRRef is a lightweight handle to one lexer production rule, bound to the
// specific Grammar that produced it. Two LPRRefs are Equal only if they
// refer to the same rule of the same Grammar instance — two grammars built
// from identical specs are never equal, per the identity-within-grammar
// contract of §3.
type LPRRef struct {
	g   *Grammar
	idx int
}

// Name returns the rule's declared name.
func (r LPRRef) Name() string {
	if r.g == nil {
		return ""
	}
	return r.g.data.LPRs[r.idx].Name
}

// Index returns the rule's dense index within the grammar's LPR vector.
func (r LPRRef) Index() int { return r.idx }

// Qualifier returns the rule's qualifier.
func (r LPRRef) Qualifier() Qualifier {
	if r.g == nil {
		return QualifierNone
	}
	return Qualifier(r.g.data.LPRs[r.idx].Qualifier)
}

// FirstSet returns FIRST(rule) over the glyph universe.
func (r LPRRef) FirstSet() SymbolSet {
	return wrapSet(r.g.data.LPRTable.First[r.idx])
}

// FollowSet returns FOLLOW(rule) over the glyph universe.
func (r LPRRef) FollowSet() SymbolSet {
	return wrapSet(r.g.data.LPRTable.Follow[r.idx])
}

// PrefixSet returns PREFIX(rule): FIRST ∪ (FOLLOW if nullable), minus
// epsilon.
func (r LPRRef) PrefixSet() SymbolSet {
	return wrapSet(r.g.data.LPRTable.Prefix[r.idx])
}

// BoundTo reports whether this reference was minted by g.
func (r LPRRef) BoundTo(g *Grammar) bool { return r.g == g }

// Equal reports whether r and o refer to the same rule of the same Grammar.
func (r LPRRef) Equal(o LPRRef) bool { return r.g == o.g && r.idx == o.idx }

func (r LPRRef) String() string {
	return fmt.Sprintf("lpr %s[%d] (%s)", r.Name(), r.idx, r.Qualifier())
}

// PPRRef is the parser-rule analogue of LPRRef.
type PPRRef struct {
	g   *Grammar
	idx int
}

func (r PPRRef) Name() string {
	if r.g == nil {
		return ""
	}
	return r.g.data.PPRs[r.idx].Name
}

func (r PPRRef) Index() int { return r.idx }

func (r PPRRef) FirstSet() SymbolSet {
	return wrapSet(r.g.data.PPRTable.First[r.idx])
}

func (r PPRRef) FollowSet() SymbolSet {
	return wrapSet(r.g.data.PPRTable.Follow[r.idx])
}

func (r PPRRef) PrefixSet() SymbolSet {
	return wrapSet(r.g.data.PPRTable.Prefix[r.idx])
}

func (r PPRRef) BoundTo(g *Grammar) bool { return r.g == g }

func (r PPRRef) Equal(o PPRRef) bool { return r.g == o.g && r.idx == o.idx }

func (r PPRRef) String() string {
	return fmt.Sprintf("ppr %s[%d]", r.Name(), r.idx)
}
