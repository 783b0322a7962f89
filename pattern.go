package taul

import "fmt"

// patternKind distinguishes the pattern-tree node shapes a Pattern can
// assert. It mirrors NodeKind with one addition: loose_syntactic, which has
// no counterpart among actual tree nodes (§4.8).
type patternKind int

const (
	patternLexical patternKind = iota
	patternSyntactic
	patternLooseSyntactic
	patternSkip
	patternEnd
	patternAbort
)

// patternNode is one element of a Pattern's expectation tree.
type patternNode struct {
	kind     patternKind
	name     string // lexical/syntactic: rule name; empty for skip/end/abort
	pos      int
	len      int // skip: expected length; loose_syntactic: expected total span
	children []*patternNode
}

// Pattern is a parallel builder to the parse-tree builder (§4.2's fluent
// tree-construction style, reused here for test specifications): it
// describes the shape a ParseTree is expected to have, for use in
// PatternMatches. loose_syntactic relaxes an ordinary syntactic node's
// exact-shape requirement down to just its root name, position, and total
// span.
type Pattern struct {
	root  *patternNode
	stack []*patternNode
}

// NewPattern creates an empty Pattern ready to receive builder calls.
func NewPattern() *Pattern {
	return &Pattern{}
}

func (p *Pattern) attach(n *patternNode) {
	if len(p.stack) > 0 {
		parent := p.stack[len(p.stack)-1]
		parent.children = append(parent.children, n)
	} else if p.root == nil {
		p.root = n
	}
}

// Syntactic opens an interior node expecting an exact shape: every child
// subsequently added (until the matching Close) must match one-for-one.
func (p *Pattern) Syntactic(name string, pos int) *Pattern {
	n := &patternNode{kind: patternSyntactic, name: name, pos: pos}
	p.attach(n)
	p.stack = append(p.stack, n)
	return p
}

// LooseSyntactic matches any subtree whose root is name at pos and whose
// total span (sum of lexical lengths plus skips) equals totalLen, regardless
// of internal shape (§4.8, S6). It has no children and needs no Close.
func (p *Pattern) LooseSyntactic(name string, pos, totalLen int) *Pattern {
	p.attach(&patternNode{kind: patternLooseSyntactic, name: name, pos: pos, len: totalLen})
	return p
}

// Lexical attaches a leaf expecting a lexical token from the rule named name
// at the given position and length.
func (p *Pattern) Lexical(name string, pos, length int) *Pattern {
	p.attach(&patternNode{kind: patternLexical, name: name, pos: pos, len: length})
	return p
}

// Skip attaches a leaf expecting an elided span of the given length.
func (p *Pattern) Skip(length int) *Pattern {
	p.attach(&patternNode{kind: patternSkip, len: length})
	return p
}

// End attaches a leaf expecting the end-of-input sentinel at pos.
func (p *Pattern) End(pos int) *Pattern {
	p.attach(&patternNode{kind: patternEnd, pos: pos})
	return p
}

// Abort attaches a leaf expecting the parse to have aborted at this point.
// Matching is tolerant of abort anywhere beyond the already-matched prefix,
// so Abort is usually the last call before the matching Close (§4.8).
func (p *Pattern) Abort() *Pattern {
	p.attach(&patternNode{kind: patternAbort})
	return p
}

// Close pops the currently open Syntactic node.
func (p *Pattern) Close() *Pattern {
	if len(p.stack) > 0 {
		p.stack = p.stack[:len(p.stack)-1]
	}
	return p
}

// Matches reports whether t conforms to the pattern built so far. See
// PatternMatches for the matching semantics.
func (p *Pattern) Matches(t *ParseTree) bool {
	if t == nil || t.Root == nil || p.root == nil {
		return t == nil && p.root == nil
	}
	ok, _ := matchNode(p.root, t.Root)
	return ok
}

// PatternMatches reports whether t conforms to pattern, traversing both
// structures in lockstep. loose_syntactic descends only into span
// accounting, not shape. An abort node in t matches regardless of what the
// pattern expects at that position or after, so tests can assert a prefix
// was produced before an unrecovered error (§4.8).
func PatternMatches(pattern *Pattern, t *ParseTree) bool {
	return pattern.Matches(t)
}

// matchNode compares one pattern node against one actual tree node. ok
// reports whether the subtree matched (accounting for trailing-abort
// tolerance); consumedAbort reports whether the match bottomed out on an
// abort node, which callers use to stop demanding any further siblings.
func matchNode(p *patternNode, n *Node) (ok bool, consumedAbort bool) {
	if n.Kind == NodeAbort {
		return true, true
	}

	switch p.kind {
	case patternLooseSyntactic:
		if n.Kind != NodeSyntactic || n.Name != p.name || n.Pos() != p.pos {
			return false, false
		}
		return totalSpan(n) == p.len, false

	case patternSyntactic:
		if n.Kind != NodeSyntactic || n.Name != p.name || n.Pos() != p.pos {
			return false, false
		}
		return matchChildren(p.children, n.Children)

	case patternLexical:
		return n.Kind == NodeLexical && n.Name == p.name && n.Token.Pos == p.pos && n.Token.Len == p.len, false

	case patternSkip:
		return n.Kind == NodeSkip && n.Token.Len == p.len, false

	case patternEnd:
		return n.Kind == NodeEnd && n.Token.Pos == p.pos, false

	case patternAbort:
		return n.Kind == NodeAbort, true

	default:
		return false, false
	}
}

// matchChildren matches an exact-shape child list, with tolerance for the
// actual list ending early on an abort: once a child bottoms out on abort,
// any remaining pattern children are not required.
func matchChildren(pchildren []*patternNode, nchildren []*Node) (ok bool, consumedAbort bool) {
	i := 0
	for i < len(pchildren) {
		if i >= len(nchildren) {
			return false, false
		}
		childOK, abort := matchNode(pchildren[i], nchildren[i])
		if !childOK {
			return false, false
		}
		if abort {
			return true, true
		}
		i++
	}
	// pattern exhausted; tolerate one trailing abort node in the actual
	// tree that the pattern didn't ask for.
	if i < len(nchildren) {
		if nchildren[i].Kind == NodeAbort {
			return true, true
		}
		return false, false
	}
	return true, false
}

// totalSpan is the sum of lexical lengths plus skip lengths beneath n,
// the "total span" a loose_syntactic pattern checks against (§4.8).
func totalSpan(n *Node) int {
	if n.Kind != NodeSyntactic {
		return n.Token.Len
	}
	total := 0
	for _, c := range n.Children {
		total += totalSpan(c)
	}
	return total
}

func (n *patternNode) String() string {
	return fmt.Sprintf("pattern(%v %q @%d)", n.kind, n.name, n.pos)
}
