package core

import (
	"fmt"

	"github.com/dekarrin/rezi"
)

const serializeMagic = "TAULgrmr"
const serializeVersion = 1

// wireAtom, wireEntry, wireTable, and wireGrammar are the serializable
// mirrors of Atom/RuleEntry/Table/GrammarData: plain structs of exported
// fields rezi can encode by reflection, since the live types carry derived
// (Grouper, cells map) state that is cheaper to recompute on load than to
// serialize byte-for-byte.
type wireAtom struct {
	Kind        int
	Lo, Hi      int64
	Assertion   bool
	NonTerminal int64
}

type wireEntry struct {
	NonTerminal int64
	Atoms       []wireAtom
}

type wireRule struct {
	Name      string
	Index     int
	Qualifier int
}

type wireGrammar struct {
	Magic   string
	Version int
	BuildID string

	LPRs []wireRule
	PPRs []wireRule

	LPREntries []wireEntry
	PPREntries []wireEntry

	NumLPRRules int
	NumPPRRules int
}

func toWireEntries(entries []RuleEntry) []wireEntry {
	out := make([]wireEntry, len(entries))
	for i, e := range entries {
		atoms := make([]wireAtom, len(e.Prod))
		for j, a := range e.Prod {
			atoms[j] = wireAtom{
				Kind:        int(a.Kind),
				Lo:          int64(a.Lo),
				Hi:          int64(a.Hi),
				Assertion:   a.Assertion,
				NonTerminal: int64(a.NonTerminal),
			}
		}
		out[i] = wireEntry{NonTerminal: int64(e.NonTerminal), Atoms: atoms}
	}
	return out
}

func fromWireEntries(entries []wireEntry) []RuleEntry {
	out := make([]RuleEntry, len(entries))
	for i, e := range entries {
		prod := make(Production, len(e.Atoms))
		for j, a := range e.Atoms {
			prod[j] = Atom{
				Kind:        AtomKind(a.Kind),
				Lo:          SymbolID(a.Lo),
				Hi:          SymbolID(a.Hi),
				Assertion:   a.Assertion,
				NonTerminal: SymbolID(a.NonTerminal),
			}
		}
		out[i] = RuleEntry{NonTerminal: SymbolID(e.NonTerminal), Prod: prod}
	}
	return out
}

// Serialize encodes gd into a self-describing byte buffer, per the grammar
// serialization format described in the external interfaces section: a
// magic header and version, both rule vectors, and both parse tables'
// source rule-entries (from which the tables, including the ID groupers and
// FIRST/FOLLOW/PREFIX sets, are rebuilt deterministically on load).
func Serialize(gd *GrammarData) ([]byte, error) {
	w := wireGrammar{
		Magic:       serializeMagic,
		Version:     serializeVersion,
		BuildID:     gd.BuildID,
		LPREntries:  toWireEntries(gd.LPRTable.Productions),
		PPREntries:  toWireEntries(gd.PPRTable.Productions),
		NumLPRRules: gd.LPRTable.NumRules,
		NumPPRRules: gd.PPRTable.NumRules,
	}
	for _, r := range gd.LPRs {
		w.LPRs = append(w.LPRs, wireRule{Name: r.Name, Index: r.Index, Qualifier: int(r.Qualifier)})
	}
	for _, r := range gd.PPRs {
		w.PPRs = append(w.PPRs, wireRule{Name: r.Name, Index: r.Index})
	}

	data := rezi.EncBinary(w)
	return data, nil
}

// Deserialize decodes a buffer produced by Serialize back into an
// equivalent GrammarData: both parse tables are rebuilt from their stored
// rule-entries with the same builder used at compile time, so the result is
// behaviorally indistinguishable from the original (the round-trip law of
// §6).
func Deserialize(data []byte) (*GrammarData, error) {
	var w wireGrammar
	n, err := rezi.DecBinary(data, &w)
	if err != nil {
		return nil, fmt.Errorf("decode grammar: %w", err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("decoded byte count mismatch; only consumed %d/%d bytes", n, len(data))
	}
	if w.Magic != serializeMagic {
		return nil, fmt.Errorf("not a grammar buffer: bad magic %q", w.Magic)
	}
	if w.Version != serializeVersion {
		return nil, fmt.Errorf("unsupported grammar format version %d", w.Version)
	}

	gd := &GrammarData{BuildID: w.BuildID}
	for _, r := range w.LPRs {
		gd.LPRs = append(gd.LPRs, LexerRule{Name: r.Name, Index: r.Index, Qualifier: Qualifier(r.Qualifier)})
	}
	for _, r := range w.PPRs {
		gd.PPRs = append(gd.PPRs, ParserRule{Name: r.Name, Index: r.Index})
	}
	gd.BuildLookup()

	lprBuilder := NewBuilder(GlyphTraits, w.NumLPRRules)
	lprBuilder.Entries = fromWireEntries(w.LPREntries)
	lprTable, lprDetails := lprBuilder.Build()
	if !lprDetails.OK() {
		return nil, fmt.Errorf("deserialized lexical parse table failed rebuild: %v", lprDetails.Count())
	}

	tokenTraits := NewTokenTraits(len(gd.LPRs))
	pprBuilder := NewBuilder(tokenTraits, w.NumPPRRules)
	pprBuilder.Entries = fromWireEntries(w.PPREntries)
	pprTable, pprDetails := pprBuilder.Build()
	if !pprDetails.OK() {
		return nil, fmt.Errorf("deserialized syntactic parse table failed rebuild: %v", pprDetails.Count())
	}

	gd.LPRTable = lprTable
	gd.PPRTable = pprTable
	return gd, nil
}
