package taul

import (
	"strings"

	"github.com/TirousCoded/TAUL-sub003/internal/core"
)

// Loader receives the abstract spec-event vocabulary from a grammar
// front-end (out of scope here — see §1) and lowers it into a Grammar. Event
// order matters: every add_lpr_decl/add_ppr_decl must precede any rule body;
// every BeginRule must be matched by a Close; within a body, Alternative
// separates alternatives; expression-building events nest LIFO. An
// ill-formed event sequence produces a diagnostic, never a panic.
type Loader struct {
	t *core.Translator
}

// NewLoader creates an empty Loader.
func NewLoader() *Loader {
	return &Loader{t: core.NewTranslator()}
}

// AddLPRDecl declares an LPR by name, assigning it a dense index.
func (l *Loader) AddLPRDecl(name string) { l.t.AddLPRDecl(name) }

// AddPPRDecl declares a PPR by name, assigning it a dense index.
func (l *Loader) AddPPRDecl(name string) { l.t.AddPPRDecl(name) }

// BeginRule opens the body of a previously-declared rule with the given
// qualifier (ignored for PPRs).
func (l *Loader) BeginRule(name string, q Qualifier) { l.t.BeginRule(name, q.toCore()) }

// Alternative closes the current alternative and starts a new one.
func (l *Loader) Alternative() { l.t.Alternative() }

// Close finalizes the current rule body.
func (l *Loader) Close() { l.t.Close() }

// Any pushes a "match any single terminal" primitive.
func (l *Loader) Any() { l.t.Any() }

// StringLit pushes a literal-string primitive.
func (l *Loader) StringLit(s string) { l.t.StringLit(s) }

// Charset pushes a charset primitive ("a-z,0-9,_" syntax).
func (l *Loader) Charset(s string) { l.t.Charset(s) }

// End pushes a reference to the universe's end sentinel.
func (l *Loader) End() { l.t.End() }

// TokenEvt pushes a "match any token" primitive (PPR bodies only).
func (l *Loader) TokenEvt() { l.t.TokenEvt() }

// FailureEvt pushes a reference to the failure sentinel (PPR bodies only).
func (l *Loader) FailureEvt() { l.t.Failure() }

// NameRef pushes a reference to another declared rule.
func (l *Loader) NameRef(target string) { l.t.Name(target) }

// Sequence pops the top two operands and pushes their concatenation.
func (l *Loader) Sequence() { l.t.Sequence() }

// Lookahead pops one operand and pushes it with its first atom marked as an
// assertion.
func (l *Loader) Lookahead() { l.t.Lookahead() }

// LookaheadNot is Lookahead with the first atom's terminal range inverted.
func (l *Loader) LookaheadNot() { l.t.LookaheadNot() }

// Not inverts the first atom's terminal range without marking it as an
// assertion (it still consumes input).
func (l *Loader) Not() { l.t.Not() }

// Optional desugars to an anonymous non-terminal with X and epsilon as
// alternatives.
func (l *Loader) Optional() { l.t.Optional() }

// KleeneStar desugars to a right-recursive anonymous non-terminal.
func (l *Loader) KleeneStar() { l.t.KleeneStar() }

// KleenePlus desugars to X followed by KleeneStar(X).
func (l *Loader) KleenePlus() { l.t.KleenePlus() }

// Cancel stops the loader from processing further events; idempotent.
func (l *Loader) Cancel() { l.t.Cancel() }

// GetResult finalizes the grammar. ok is false if any event sequence was
// ill-formed or if any collision/structural diagnostic fired while building
// either parse table; lprDiag/pprDiag report which. When ok is false because
// of an ill-formed event sequence (as opposed to a parse-table collision),
// Err returns the diagnostic describing it.
func (l *Loader) GetResult() (g *Grammar, lprDiag, pprDiag *BuildDetails, ok bool) {
	gd, lprDetails, pprDetails, good := l.t.GetResult()
	if !good {
		return nil, wrapDetails(lprDetails), wrapDetails(pprDetails), false
	}
	return newGrammar(gd), wrapDetails(lprDetails), wrapDetails(pprDetails), true
}

// Err returns a diagnostic describing the first ill-formed event sequence
// encountered while building the grammar (a Sequence or unary event without
// enough operands, a Name referencing an undeclared rule, and so on), or nil
// if none occurred. It is
// meaningful only once GetResult has reported ok=false; a false ok caused
// instead by a parse-table collision leaves Err nil (see lprDiag/pprDiag for
// that case).
func (l *Loader) Err() error {
	errs := l.t.Errs()
	if len(errs) == 0 {
		return nil
	}
	return newSyntaxErrorf("%s", strings.Join(errs, "; "))
}

// BuildDetails mirrors core.BuildDetails as a public diagnostics report.
type BuildDetails struct {
	Collisions int
	Other      int
	raw        *core.BuildDetails
}

func wrapDetails(d *core.BuildDetails) *BuildDetails {
	if d == nil {
		return nil
	}
	counts := d.Count()
	return &BuildDetails{
		Collisions: counts["collisions"],
		Other: counts["nonterminal_id_is_terminal_id"] +
			counts["terminal_ids_not_in_legal_range"] +
			counts["nonterminal_not_in_rules_vector"],
		raw: d,
	}
}

// OK reports whether no diagnostics were recorded.
func (d *BuildDetails) OK() bool {
	return d == nil || d.raw.OK()
}
