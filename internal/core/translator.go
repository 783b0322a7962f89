package core

import (
	"fmt"
	"strings"
)

// side tracks the per-universe bookkeeping the translator needs: declared
// rule names (in index order), the accumulated rule-entries for the parse
// table builder, and the counter used to mint fresh anonymous non-terminal
// indices for desugared constructs (optional, kleene_*, etc).
type side struct {
	isLPR      bool
	declNames  []string
	qualifiers []Qualifier // only meaningful when isLPR
	entries    []RuleEntry
	anonNext   int
	sealed     bool
}

func (s *side) declare(name string, q Qualifier) int {
	idx := len(s.declNames)
	s.declNames = append(s.declNames, name)
	if s.isLPR {
		s.qualifiers = append(s.qualifiers, q)
	}
	return idx
}

func (s *side) numRulesSoFar() int {
	if s.anonNext == 0 {
		return len(s.declNames)
	}
	return s.anonNext
}

// freshNonTerminal allocates a new anonymous non-terminal index, seeding the
// counter from the declared rule count on first use (valid because every
// add_*_decl event must precede any rule body, per the spec-event
// interface).
func (s *side) freshNonTerminal() int {
	if s.anonNext == 0 {
		s.anonNext = len(s.declNames)
	}
	idx := s.anonNext
	s.anonNext++
	return idx
}

// Translator consumes the abstract spec-event vocabulary (§4.4 of the
// specification) and lowers it into two LL(1) rule-entry sets, one per
// symbol universe, ready for the parse-table builder. It is the single-pass,
// stack-machine implementation of the grammar front-end's interface
// boundary.
type Translator struct {
	lpr side
	ppr side

	// name -> which side declared it, used to resolve name(target) events
	// to either a terminal (an LPR referenced from a PPR body) or a
	// non-terminal (any same-universe reference).
	declKind map[string]bool // true = LPR

	// current rule under construction
	curName      string
	curIsLPR     bool
	curQualifier Qualifier
	curAlts      []Production
	stack        []*expr

	cancelled bool
	errs      []string
}

// NewTranslator creates an empty Translator, ready to receive spec events.
func NewTranslator() *Translator {
	return &Translator{
		lpr:      side{isLPR: true},
		ppr:      side{isLPR: false},
		declKind: map[string]bool{},
	}
}

// Cancel stops the translator from processing any further events. Once
// called, every subsequent event is a no-op and GetResult yields nothing.
// Idempotent.
func (t *Translator) Cancel() {
	t.cancelled = true
}

func (t *Translator) Cancelled() bool { return t.cancelled }

// AddLPRDecl declares an LPR by name, assigning it a dense index.
func (t *Translator) AddLPRDecl(name string) {
	if t.cancelled {
		return
	}
	t.lpr.declare(name, QualifierNone)
	t.declKind[name] = true
}

// AddPPRDecl declares a PPR by name, assigning it a dense index.
func (t *Translator) AddPPRDecl(name string) {
	if t.cancelled {
		return
	}
	t.ppr.declare(name, QualifierNone)
	t.declKind[name] = false
}

// BeginRule opens the body of a previously-declared rule. q is ignored for
// PPRs (qualifiers apply only to LPRs).
func (t *Translator) BeginRule(name string, q Qualifier) {
	if t.cancelled {
		return
	}
	isLPR, ok := t.declKind[name]
	if !ok {
		t.errs = append(t.errs, fmt.Sprintf("begin-rule for undeclared name %q", name))
		t.cancelled = true
		return
	}
	t.curName = name
	t.curIsLPR = isLPR
	t.curQualifier = q
	t.curAlts = nil
	t.stack = nil

	if isLPR {
		for i, n := range t.lpr.declNames {
			if n == name {
				t.lpr.qualifiers[i] = q
			}
		}
	}
}

// Alternative closes out the currently-accumulated top-of-stack expression
// as one alternative of the rule body, and resets the stack for the next
// alternative.
func (t *Translator) Alternative() {
	if t.cancelled {
		return
	}
	t.commitAlt()
}

func (t *Translator) commitAlt() {
	if len(t.stack) == 0 {
		t.curAlts = append(t.curAlts, Production{})
		return
	}
	top := t.pop()
	prod := t.lower(top)
	t.curAlts = append(t.curAlts, prod)
	t.stack = nil
}

// Close finalizes the rule body: the last pending expression (if any)
// becomes the final alternative, and every alternative is lowered into
// rule-entries for the appropriate universe's builder.
func (t *Translator) Close() {
	if t.cancelled {
		return
	}
	if len(t.stack) > 0 || len(t.curAlts) == 0 {
		t.commitAlt()
	}

	var ntID SymbolID
	if t.curIsLPR {
		idx := indexOf(t.lpr.declNames, t.curName)
		ntID = GlyphTraits.NonTerminalID(idx)
	} else {
		idx := indexOf(t.ppr.declNames, t.curName)
		ntID = tokenFirstNonTerminalPlaceholder + SymbolID(idx)
	}

	for _, prod := range t.curAlts {
		if t.curIsLPR {
			t.lpr.entries = append(t.lpr.entries, RuleEntry{NonTerminal: ntID, Prod: prod})
		} else {
			t.ppr.entries = append(t.ppr.entries, RuleEntry{NonTerminal: ntID, Prod: prod})
		}
	}

	t.curAlts = nil
	t.stack = nil
	t.curName = ""
}

// tokenFirstNonTerminalPlaceholder is resolved to the real token-universe
// FirstNonTerminal once the LPR count is known, at GetResult time; until
// then PPR rule entries carry a relative (0-based) ID offset by this zero
// value so no LPR-count dependent math is needed mid-stream.
const tokenFirstNonTerminalPlaceholder SymbolID = 0

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func (t *Translator) pop() *expr {
	n := len(t.stack)
	e := t.stack[n-1]
	t.stack = t.stack[:n-1]
	return e
}

func (t *Translator) push(e *expr) {
	t.stack = append(t.stack, e)
}

// Any pushes a "match any single terminal" primitive.
func (t *Translator) Any() {
	if t.cancelled {
		return
	}
	t.push(&expr{kind: exprAny})
}

// StringLit pushes a literal-string primitive; one terminal atom per code
// point in the literal, desugared at lowering time.
func (t *Translator) StringLit(s string) {
	if t.cancelled {
		return
	}
	t.push(&expr{kind: exprString, lit: s})
}

// Charset pushes a charset primitive. The charset syntax is a comma
// separated list of single characters or "lo-hi" ranges, e.g. "a-z,0-9,_".
func (t *Translator) Charset(s string) {
	if t.cancelled {
		return
	}
	t.push(&expr{kind: exprCharset, lit: s})
}

// End pushes a reference to the universe's end sentinel.
func (t *Translator) End() {
	if t.cancelled {
		return
	}
	t.push(&expr{kind: exprEnd})
}

// TokenEvt pushes a "match any token" primitive (PPR bodies only).
func (t *Translator) TokenEvt() {
	if t.cancelled {
		return
	}
	t.push(&expr{kind: exprToken})
}

// Failure pushes a reference to the token universe's failure sentinel (PPR
// bodies only).
func (t *Translator) Failure() {
	if t.cancelled {
		return
	}
	t.push(&expr{kind: exprFailure})
}

// Name pushes a reference to another declared rule by name.
func (t *Translator) Name(target string) {
	if t.cancelled {
		return
	}
	if _, ok := t.declKind[target]; !ok {
		t.errs = append(t.errs, fmt.Sprintf("name(%q) references undeclared rule", target))
		t.cancelled = true
		return
	}
	t.push(&expr{kind: exprName, lit: target})
}

// Sequence pops the top two operands and pushes their concatenation.
func (t *Translator) Sequence() {
	if t.cancelled {
		return
	}
	if len(t.stack) < 2 {
		t.errs = append(t.errs, "sequence event with fewer than two operands on the stack")
		t.cancelled = true
		return
	}
	b := t.pop()
	a := t.pop()
	t.push(&expr{kind: exprSequence, a: a, b: b})
}

func (t *Translator) unary(kind exprKind) {
	if t.cancelled {
		return
	}
	if len(t.stack) < 1 {
		t.errs = append(t.errs, "unary event with no operand on the stack")
		t.cancelled = true
		return
	}
	a := t.pop()
	t.push(&expr{kind: kind, a: a})
}

func (t *Translator) Lookahead()    { t.unary(exprLookahead) }
func (t *Translator) LookaheadNot() { t.unary(exprLookaheadNot) }
func (t *Translator) Not()          { t.unary(exprNot) }
func (t *Translator) Optional()     { t.unary(exprOptional) }
func (t *Translator) KleeneStar()   { t.unary(exprKleeneStar) }
func (t *Translator) KleenePlus()   { t.unary(exprKleenePlus) }

// GetResult finalizes both parse tables and returns the built grammar data,
// or ok=false if any diagnostic fired (or the translator was cancelled).
func (t *Translator) GetResult() (*GrammarData, *BuildDetails, *BuildDetails, bool) {
	if t.cancelled {
		return nil, nil, nil, false
	}

	numLPR := len(t.lpr.declNames)
	tokenTraits := NewTokenTraits(numLPR)

	// re-home the placeholder-relative PPR non-terminal IDs now that the
	// real FirstNonTerminal for the token universe is known.
	for i := range t.ppr.entries {
		t.ppr.entries[i].NonTerminal += tokenTraits.FirstNonTerminal
		for j := range t.ppr.entries[i].Prod {
			a := &t.ppr.entries[i].Prod[j]
			if a.Kind == AtomNonTerminal {
				a.NonTerminal += tokenTraits.FirstNonTerminal
			}
		}
	}

	lprBuilder := NewBuilder(GlyphTraits, t.lpr.numRulesSoFar())
	lprBuilder.Entries = t.lpr.entries
	lprTable, lprDetails := lprBuilder.Build()

	pprBuilder := NewBuilder(tokenTraits, t.ppr.numRulesSoFar())
	pprBuilder.Entries = t.ppr.entries
	pprTable, pprDetails := pprBuilder.Build()

	if !lprDetails.OK() || !pprDetails.OK() {
		return nil, lprDetails, pprDetails, false
	}

	gd := &GrammarData{}
	for i, name := range t.lpr.declNames {
		gd.LPRs = append(gd.LPRs, LexerRule{Name: name, Index: i, Qualifier: t.lpr.qualifiers[i]})
	}
	for i, name := range t.ppr.declNames {
		gd.PPRs = append(gd.PPRs, ParserRule{Name: name, Index: i})
	}
	gd.BuildLookup()
	gd.LPRTable = lprTable
	gd.PPRTable = pprTable

	return gd, lprDetails, pprDetails, true
}

// lower desugars an expr tree into a flat Production for the universe the
// translator is currently building a rule for (t.curIsLPR), allocating fresh
// anonymous non-terminals for choice-bearing constructs as needed.
func (t *Translator) lower(e *expr) Production {
	switch e.kind {
	case exprSequence:
		return append(t.lower(e.a), t.lower(e.b)...)
	case exprAny:
		if t.curIsLPR {
			return Production{TerminalAtom(GlyphTraits.FirstTerminal, GlyphTraits.LastTerminal, false)}
		}
		return Production{TerminalAtom(0, SymbolID(len(t.lpr.declNames))-1, false)}
	case exprString:
		var prod Production
		for _, r := range e.lit {
			prod = append(prod, TerminalAtom(SymbolID(r), SymbolID(r), false))
		}
		return prod
	case exprCharset:
		return t.lowerCharset(e.lit)
	case exprEnd:
		if t.curIsLPR {
			return Production{TerminalAtom(GlyphTraits.End, GlyphTraits.End, false)}
		}
		return Production{TerminalAtom(SymbolID(len(t.lpr.declNames)), SymbolID(len(t.lpr.declNames)), false)}
	case exprToken:
		return Production{TerminalAtom(0, SymbolID(len(t.lpr.declNames))-1, false)}
	case exprFailure:
		return Production{TerminalAtom(SymbolID(len(t.lpr.declNames))+1, SymbolID(len(t.lpr.declNames))+1, false)}
	case exprName:
		return t.lowerName(e.lit)
	case exprLookahead:
		prod := t.lower(e.a)
		if len(prod) > 0 {
			prod[0].Assertion = true
		}
		return prod
	case exprLookaheadNot:
		prod := t.lower(e.a)
		if len(prod) > 0 {
			prod[0].Assertion = true
			t.invertFirstTerminal(&prod[0])
		}
		return prod
	case exprNot:
		prod := t.lower(e.a)
		if len(prod) > 0 {
			t.invertFirstTerminal(&prod[0])
		}
		return prod
	case exprOptional:
		anon := t.allocAnon()
		inner := t.lower(e.a)
		t.addAnonRule(anon, inner)
		t.addAnonRule(anon, Production{})
		return Production{NonTerminalAtom(t.anonID(anon))}
	case exprKleeneStar:
		anon := t.allocAnon()
		inner := t.lower(e.a)
		tail := append(Production{}, inner...)
		tail = append(tail, NonTerminalAtom(t.anonID(anon)))
		t.addAnonRule(anon, tail)
		t.addAnonRule(anon, Production{})
		return Production{NonTerminalAtom(t.anonID(anon))}
	case exprKleenePlus:
		starAnon := t.allocAnon()
		inner := t.lower(e.a)
		starTail := append(Production{}, inner...)
		starTail = append(starTail, NonTerminalAtom(t.anonID(starAnon)))
		t.addAnonRule(starAnon, starTail)
		t.addAnonRule(starAnon, Production{})

		plusAnon := t.allocAnon()
		plusProd := append(Production{}, inner...)
		plusProd = append(plusProd, NonTerminalAtom(t.anonID(starAnon)))
		t.addAnonRule(plusAnon, plusProd)
		return Production{NonTerminalAtom(t.anonID(plusAnon))}
	}
	return nil
}

// anonHandle identifies a freshly-minted anonymous non-terminal by its
// 0-based index within the current universe's side.
type anonHandle int

func (t *Translator) allocAnon() anonHandle {
	if t.curIsLPR {
		return anonHandle(t.lpr.freshNonTerminal())
	}
	return anonHandle(t.ppr.freshNonTerminal())
}

func (t *Translator) anonID(h anonHandle) SymbolID {
	if t.curIsLPR {
		return GlyphTraits.NonTerminalID(int(h))
	}
	// relative; re-homed in GetResult alongside every other PPR entry.
	return SymbolID(h)
}

func (t *Translator) addAnonRule(h anonHandle, prod Production) {
	id := t.anonID(h)
	if t.curIsLPR {
		t.lpr.entries = append(t.lpr.entries, RuleEntry{NonTerminal: id, Prod: prod})
	} else {
		t.ppr.entries = append(t.ppr.entries, RuleEntry{NonTerminal: id, Prod: prod})
	}
}

func (t *Translator) lowerName(target string) Production {
	isLPR := t.declKind[target]
	if t.curIsLPR {
		// LPR bodies only reference other LPRs, as non-terminals of the
		// glyph universe.
		idx := indexOf(t.lpr.declNames, target)
		return Production{NonTerminalAtom(GlyphTraits.NonTerminalID(idx))}
	}
	if isLPR {
		// PPR referencing an LPR by name: a terminal (the LPR's token ID).
		idx := indexOf(t.lpr.declNames, target)
		return Production{TerminalAtom(SymbolID(idx), SymbolID(idx), false)}
	}
	// PPR referencing another PPR: a non-terminal, relative ID re-homed
	// later in GetResult.
	idx := indexOf(t.ppr.declNames, target)
	return Production{NonTerminalAtom(SymbolID(idx))}
}

func (t *Translator) invertFirstTerminal(a *Atom) {
	if a.Kind != AtomTerminal {
		return
	}
	s := NewSet()
	s.AddRange(a.Lo, a.Hi)
	var lo, hi SymbolID
	if t.curIsLPR {
		lo, hi = GlyphTraits.FirstTerminal, GlyphTraits.LastTerminal
	} else {
		lo, hi = 0, SymbolID(len(t.lpr.declNames))-1
	}
	inv := s.Inverse(lo, hi)
	rs := inv.Ranges()
	if len(rs) == 0 {
		return
	}
	if len(rs) == 1 || a.Assertion {
		a.Lo, a.Hi = rs[0].Lo, rs[0].Hi
		return
	}
	anon := t.allocAnon()
	for _, r := range rs {
		t.addAnonRule(anon, Production{TerminalAtom(r.Lo, r.Hi, false)})
	}
	*a = NonTerminalAtom(t.anonID(anon))
}

// lowerCharset parses the "a-z,0-9,_" charset syntax into a set of
// alternative single-glyph ranges: the resulting production matches exactly
// one glyph drawn from any of the comma-separated runs. A charset with a
// single contiguous run lowers directly to one terminal atom; a charset
// with more than one disjoint run allocates an anonymous non-terminal with
// one alternative per run, since a single Atom can only carry one
// contiguous range.
func (t *Translator) lowerCharset(spec string) Production {
	var ranges []Range
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		runes := []rune(part)
		if len(runes) == 3 && runes[1] == '-' {
			ranges = append(ranges, normalizeRange(SymbolID(runes[0]), SymbolID(runes[2])))
		} else {
			for _, r := range runes {
				ranges = append(ranges, Range{Lo: SymbolID(r), Hi: SymbolID(r)})
			}
		}
	}
	if len(ranges) == 0 {
		return Production{}
	}
	if len(ranges) == 1 {
		return Production{TerminalAtom(ranges[0].Lo, ranges[0].Hi, false)}
	}
	anon := t.allocAnon()
	for _, r := range ranges {
		t.addAnonRule(anon, Production{TerminalAtom(r.Lo, r.Hi, false)})
	}
	return Production{NonTerminalAtom(t.anonID(anon))}
}

// Errs returns every diagnostic message produced by ill-formed event
// sequences (as opposed to parse-table build diagnostics).
func (t *Translator) Errs() []string {
	return t.errs
}
