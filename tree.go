package taul

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
)

// lexemePreviewWrapWidth is the column at which ParseTree.Fmt wraps a long
// lexeme preview onto multiple indented lines.
const lexemePreviewWrapWidth = 40

// NodeKind distinguishes the five shapes a parse tree node can take (§8).
type NodeKind int

const (
	// NodeLexical is a leaf wrapping a single matched token: a TokenNormal
	// token, or a TokenFailure token matched by a failure expression.
	NodeLexical NodeKind = iota
	// NodeSyntactic is an interior node: one PPR's expansion, with its
	// matched atoms (terminal leaves and nested non-terminal nodes) as
	// children.
	NodeSyntactic
	// NodeSkip wraps a token discarded by error recovery.
	NodeSkip
	// NodeEnd wraps the end-of-input sentinel token.
	NodeEnd
	// NodeAbort marks the point an unrecovered parse error stopped the
	// parse; it has no token and is always the last child added before its
	// ancestors are closed out.
	NodeAbort
)

func (k NodeKind) String() string {
	switch k {
	case NodeLexical:
		return "lexical"
	case NodeSyntactic:
		return "syntactic"
	case NodeSkip:
		return "skip"
	case NodeEnd:
		return "end"
	case NodeAbort:
		return "abort"
	default:
		return "?"
	}
}

// Node is one element of a ParseTree. Name is the LPR/PPR name for
// lexical/syntactic nodes (empty for anonymous non-terminals), empty for
// skip/end/abort. Token is meaningful for lexical/skip/end nodes only.
type Node struct {
	Kind     NodeKind
	Name     string
	Token    Token
	Children []*Node
}

// Pos returns the node's source position: its own token's for a leaf, or its
// first child's, recursively, for an interior node. Returns -1 for an empty
// syntactic node (possible only for a nullable rule that matched epsilon).
func (n *Node) Pos() int {
	switch n.Kind {
	case NodeSyntactic:
		if len(n.Children) == 0 {
			return -1
		}
		return n.Children[0].Pos()
	default:
		return n.Token.Pos
	}
}

// Len returns the total source span covered by the node.
func (n *Node) Len() int {
	if n.Kind != NodeSyntactic {
		return n.Token.Len
	}
	total := 0
	for _, c := range n.Children {
		total += c.Len()
	}
	return total
}

// ParseTree is the result of a (possibly partial, on error) parse.
type ParseTree struct {
	Root *Node

	// Source, if set via SetSource, lets Fmt print the actual lexeme text
	// under each lexical leaf instead of just its length.
	Source []byte
}

// SetSource attaches the original source bytes to t, so that subsequent
// calls to Fmt can render the matched lexeme text for each leaf instead of
// just its span length.
func (t *ParseTree) SetSource(src []byte) { t.Source = src }

// Fmt renders the tree as an indented textual dump, in the style of the
// original implementation's parse_tree::fmt.
func (t *ParseTree) Fmt() string {
	if t == nil || t.Root == nil {
		return "<empty>\n"
	}
	var sb strings.Builder
	fmtNode(&sb, t.Root, 0, t.Source)
	return sb.String()
}

func fmtNode(sb *strings.Builder, n *Node, depth int, src []byte) {
	indent := strings.Repeat("  ", depth)
	switch n.Kind {
	case NodeSyntactic:
		fmt.Fprintf(sb, "%s%s\n", indent, n.Name)
		for _, c := range n.Children {
			fmtNode(sb, c, depth+1, src)
		}
	case NodeLexical:
		fmt.Fprintf(sb, "%s%s \"%s\"@%d\n", indent, n.Name, previewTokenText(n, src, indent), n.Token.Pos)
	case NodeSkip:
		fmt.Fprintf(sb, "%sskip@%d..%d\n", indent, n.Token.Pos, n.Token.Pos+n.Token.Len)
	case NodeEnd:
		fmt.Fprintf(sb, "%send\n", indent)
	case NodeAbort:
		fmt.Fprintf(sb, "%sABORT\n", indent)
	}
}

// previewTokenText renders the lexeme matched by n's token. When the parse
// tree carries its source text and the lexeme is long enough to matter, the
// preview is word-wrapped (with the node's indent preserved on wrapped
// lines) instead of being dumped as one long line.
func previewTokenText(n *Node, src []byte, indent string) string {
	if src == nil || n.Token.Pos < 0 || n.Token.Pos+n.Token.Len > len(src) {
		return fmt.Sprintf("len=%d", n.Token.Len)
	}
	lexeme := string(src[n.Token.Pos : n.Token.Pos+n.Token.Len])
	if len(lexeme) <= lexemePreviewWrapWidth {
		return lexeme
	}
	wrapped := rosed.Edit(lexeme).Wrap(lexemePreviewWrapWidth).String()
	return strings.ReplaceAll(wrapped, "\n", "\n"+indent+"  ")
}
