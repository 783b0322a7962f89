package taul

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatten collects every leaf (lexical, skip, end, abort) node under root in
// document order, for assertions that don't want to hand-write the full
// nested tree shape.
func flatten(n *Node) []*Node {
	if n.Kind != NodeSyntactic {
		return []*Node{n}
	}
	var out []*Node
	for _, c := range n.Children {
		out = append(out, flatten(c)...)
	}
	return out
}

func parseString(t *testing.T, g *Grammar, start string, input string, handler ErrorHandler) (*ParseTree, bool) {
	t.Helper()
	reader := NewStringGlyphReaderFromString(input)
	lx := NewLexer(g)
	ts := lx.Tokenize(reader, TokenizeOptions{})

	ppr, err := g.PPR(start)
	require.NoError(t, err)

	p := NewParser(g)
	tree, ok := p.Parse(ts, ppr, ParserOptions{ErrorHandler: handler})
	tree.SetSource([]byte(input))
	return tree, ok
}

func TestParser_ParsesArithmeticExpressionEndToEnd(t *testing.T) {
	g := buildArithmeticTestGrammar(t)
	tree, ok := parseString(t, g, "Expr", "a+b", nil)
	require.True(t, ok)

	leaves := flatten(tree.Root)
	var lexemes []string
	for _, leaf := range leaves {
		if leaf.Kind == NodeLexical {
			lexemes = append(lexemes, leaf.Name)
		}
	}
	assert.Equal(t, []string{"A", "PLUS", "B"}, lexemes)
}

func TestParser_NoRecoveryHandlerAbortsOnFirstError(t *testing.T) {
	g := buildArithmeticTestGrammar(t)
	tree, ok := parseString(t, g, "Expr", "a#b", NoRecoveryHandler{})

	assert.False(t, ok)
	leaves := flatten(tree.Root)
	require.Len(t, leaves, 2)
	assert.Equal(t, NodeLexical, leaves[0].Kind)
	assert.Equal(t, NodeAbort, leaves[1].Kind)
}

func TestParser_RegularHandlerRecoversBySkippingOffendingTokens(t *testing.T) {
	g := buildArithmeticTestGrammar(t)
	tree, ok := parseString(t, g, "Expr", "a#b", NewRegularHandler())

	require.True(t, ok, "RegularHandler should recover past the failure token and the orphaned B")
	leaves := flatten(tree.Root)

	var kinds []NodeKind
	for _, leaf := range leaves {
		kinds = append(kinds, leaf.Kind)
	}
	assert.Equal(t, []NodeKind{NodeLexical, NodeSkip, NodeSkip}, kinds)
}

func TestParser_RegularHandlerStillAbortsAtEndOfInput(t *testing.T) {
	g := buildArithmeticTestGrammar(t)
	// "a+" needs another Number after PLUS, but input ends there; the error
	// handler is never offered a non-end token to skip.
	tree, ok := parseString(t, g, "Expr", "a+", NewRegularHandler())

	assert.False(t, ok)
	leaves := flatten(tree.Root)
	require.NotEmpty(t, leaves)
	assert.Equal(t, NodeAbort, leaves[len(leaves)-1].Kind)
}

// TestParser_ProducesCanonicalNestedShapeForChainedExpression is S1's exact
// tree-shape contract: Expr(Number(A), anon(PLUS, Expr(...))) at every
// recursion, down to the trailing anon alternative matching epsilon. It
// asserts the live parser's actual output, not a hand-built stand-in, so a
// regression that re-introduces an extra wrapper node around the start rule
// (or drops the anonymous non-terminal Optional desugars to) fails it.
func TestParser_ProducesCanonicalNestedShapeForChainedExpression(t *testing.T) {
	g := buildArithmeticTestGrammar(t)
	tree, ok := parseString(t, g, "Expr", "a + b + a", nil)
	require.True(t, ok)

	want := NewPattern().
		Syntactic("Expr", 0).
		Syntactic("Number", 0).
		Lexical("A", 0, 1).
		Close().
		Syntactic("", 2). // anonymous non-terminal Optional(Sequence(PLUS, Expr)) desugars to
		Lexical("PLUS", 2, 1).
		Syntactic("Expr", 4).
		Syntactic("Number", 4).
		Lexical("B", 4, 1).
		Close().
		Syntactic("", 6).
		Lexical("PLUS", 6, 1).
		Syntactic("Expr", 8).
		Syntactic("Number", 8).
		Lexical("A", 8, 1).
		Close().
		Syntactic("", -1). // epsilon alternative: no lookahead left to extend the chain
		Close().
		Close().
		Close().
		Close().
		Close().
		Close().
		Close().
		Close()

	assert.True(t, PatternMatches(want, tree), "parse tree:\n%s", tree.Fmt())
}

func TestParser_NullableOptionalMatchesEpsilonAtEndOfInput(t *testing.T) {
	g := buildArithmeticTestGrammar(t)
	tree, ok := parseString(t, g, "Expr", "a", nil)
	require.True(t, ok)

	leaves := flatten(tree.Root)
	require.Len(t, leaves, 1)
	assert.Equal(t, "A", leaves[0].Name)
}
