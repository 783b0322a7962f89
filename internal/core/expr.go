package core

// exprKind tags the variant of an expression node built by the spec-event
// translator's operand stack.
type exprKind int

const (
	exprAny exprKind = iota
	exprString
	exprCharset
	exprEnd
	exprToken
	exprFailure
	exprName
	exprSequence
	exprLookahead
	exprLookaheadNot
	exprNot
	exprOptional
	exprKleeneStar
	exprKleenePlus
)

// expr is a node of the small expression tree assembled by the translator's
// LIFO operand stack, one node per expression-building spec event.
type expr struct {
	kind exprKind

	lit    string // exprString, exprCharset, exprName (target rule name)
	a, b   *expr  // exprSequence: a then b; unary kinds: a is the operand
}
