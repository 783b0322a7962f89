package taul

import (
	"fmt"
	"strings"

	"github.com/TirousCoded/TAUL-sub003/internal/core"
	"github.com/google/uuid"
)

// Grammar is the shared, immutable-after-build result of the grammar
// translator: both rule vectors, the name lookup, and both parse tables.
// Rule references (LPRRef, PPRRef) minted from a Grammar are only valid for
// the lifetime of that Grammar value; Go's garbage collector keeps the
// backing data alive for as long as any reference (or the Grammar itself)
// is reachable, so there is no explicit refcounting API to manage.
type Grammar struct {
	data *core.GrammarData
}

func newGrammar(data *core.GrammarData) *Grammar {
	if data.BuildID == "" {
		data.BuildID = uuid.NewString()
	}
	return &Grammar{data: data}
}

// BuildID is a UUID stamped onto the grammar at build time. Two grammars
// compiled from byte-identical specs still get distinct BuildIDs, making
// concrete the spec's "two grammars built from identical specs are not
// equal" rule (§3) — this is the value that differs between them.
func (g *Grammar) BuildID() string { return g.data.BuildID }

// LPRCount returns the number of LPRs in the grammar.
func (g *Grammar) LPRCount() int { return len(g.data.LPRs) }

// PPRCount returns the number of PPRs in the grammar.
func (g *Grammar) PPRCount() int { return len(g.data.PPRs) }

// NonSupportLPRCount returns the number of LPRs whose qualifier is not
// support — i.e. the rules the lexer may match at top level.
func (g *Grammar) NonSupportLPRCount() int { return g.data.NonSupportLPRCount() }

// LPRAt returns the LPR at the given dense index, or a usage error if out
// of range.
func (g *Grammar) LPRAt(index int) (LPRRef, error) {
	if index < 0 || index >= len(g.data.LPRs) {
		return LPRRef{}, newUsageErrorf(ErrOutOfRange, "lpr_at index %d out of range [0,%d)", index, len(g.data.LPRs))
	}
	return LPRRef{g: g, idx: index}, nil
}

// PPRAt returns the PPR at the given dense index, or a usage error if out
// of range.
func (g *Grammar) PPRAt(index int) (PPRRef, error) {
	if index < 0 || index >= len(g.data.PPRs) {
		return PPRRef{}, newUsageErrorf(ErrOutOfRange, "ppr_at index %d out of range [0,%d)", index, len(g.data.PPRs))
	}
	return PPRRef{g: g, idx: index}, nil
}

// LPR resolves a name to an LPR reference, or ErrLPRNotFound.
func (g *Grammar) LPR(name string) (LPRRef, error) {
	entry, ok := g.data.Lookup[name]
	if !ok || !entry.IsLPR {
		return LPRRef{}, newUsageErrorf(ErrLPRNotFound, "no LPR named %q", name)
	}
	return LPRRef{g: g, idx: entry.Index}, nil
}

// PPR resolves a name to a PPR reference, or ErrPPRNotFound.
func (g *Grammar) PPR(name string) (PPRRef, error) {
	entry, ok := g.data.Lookup[name]
	if !ok || entry.IsLPR {
		return PPRRef{}, newUsageErrorf(ErrPPRNotFound, "no PPR named %q", name)
	}
	return PPRRef{g: g, idx: entry.Index}, nil
}

// HasRule reports whether name is declared as either an LPR or a PPR.
func (g *Grammar) HasRule(name string) bool {
	_, ok := g.data.Lookup[name]
	return ok
}

// HasLPR reports whether name is declared as an LPR.
func (g *Grammar) HasLPR(name string) bool {
	e, ok := g.data.Lookup[name]
	return ok && e.IsLPR
}

// HasPPR reports whether name is declared as a PPR.
func (g *Grammar) HasPPR(name string) bool {
	e, ok := g.data.Lookup[name]
	return ok && !e.IsLPR
}

// Fmt renders a human-readable dump of the grammar's rules, in the style of
// the original implementation's grammar::fmt.
func (g *Grammar) Fmt() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "grammar %s\n", g.data.BuildID)
	fmt.Fprintf(&sb, "  lprs (%d):\n", len(g.data.LPRs))
	for _, r := range g.data.LPRs {
		fmt.Fprintf(&sb, "    %s [%d] %s\n", r.Name, r.Index, core.Qualifier(r.Qualifier))
	}
	fmt.Fprintf(&sb, "  pprs (%d):\n", len(g.data.PPRs))
	for _, r := range g.data.PPRs {
		fmt.Fprintf(&sb, "    %s [%d]\n", r.Name, r.Index)
	}
	return sb.String()
}

// FmtInternals renders Fmt plus a dump of both parse tables' FIRST/FOLLOW
// sets, for debugging a built grammar.
func (g *Grammar) FmtInternals() string {
	var sb strings.Builder
	sb.WriteString(g.Fmt())
	sb.WriteString("  lpr table:\n")
	for i, r := range g.data.LPRs {
		fmt.Fprintf(&sb, "    %s: first=%s follow=%s\n", r.Name, g.data.LPRTable.First[i], g.data.LPRTable.Follow[i])
	}
	sb.WriteString("  ppr table:\n")
	for i, r := range g.data.PPRs {
		fmt.Fprintf(&sb, "    %s: first=%s follow=%s\n", r.Name, g.data.PPRTable.First[i], g.data.PPRTable.Follow[i])
	}
	return sb.String()
}

// Serialize encodes the grammar to a byte buffer per §6's binary format.
func (g *Grammar) Serialize() ([]byte, error) {
	return core.Serialize(g.data)
}

// DeserializeGrammar decodes a buffer produced by (*Grammar).Serialize.
func DeserializeGrammar(data []byte) (*Grammar, error) {
	gd, err := core.Deserialize(data)
	if err != nil {
		return nil, err
	}
	return newGrammar(gd), nil
}
