package taul

import "github.com/TirousCoded/TAUL-sub003/internal/core"

// Qualifier is a per-LPR flag. None is the default (normal, matchable,
// top-level rule); Skip means matched but filtered from the token stream;
// Support means only reachable by reference from other rules, never matched
// at grammar-top-level. Qualifiers have no effect on PPRs.
type Qualifier int

const (
	QualifierNone Qualifier = Qualifier(core.QualifierNone)
	QualifierSkip Qualifier = Qualifier(core.QualifierSkip)
	QualifierSupport Qualifier = Qualifier(core.QualifierSupport)
)

func (q Qualifier) String() string {
	return core.Qualifier(q).String()
}

func (q Qualifier) toCore() core.Qualifier { return core.Qualifier(q) }
