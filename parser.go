package taul

import "github.com/TirousCoded/TAUL-sub003/internal/core"

// ParserState is the lifecycle state of a Parser across one Parse call.
type ParserState int

const (
	ParserIdle ParserState = iota
	ParserRunning
	ParserSucceeded
	ParserAborted
)

func (s ParserState) String() string {
	switch s {
	case ParserRunning:
		return "running"
	case ParserSucceeded:
		return "succeeded"
	case ParserAborted:
		return "aborted"
	default:
		return "idle"
	}
}

// ErrorAction is what an ErrorHandler instructs the Parser to do after a
// lookahead failure.
type ErrorAction int

const (
	// ActionAbort stops the parse; an Abort node marks where.
	ActionAbort ErrorAction = iota
	// ActionSkip discards the offending token (recorded as a Skip node) and
	// retries the same obligation against the next one.
	ActionSkip
)

// ErrorHandler is notified of parse lifecycle events and lookahead
// failures, and chooses how (or whether) to recover (§7).
type ErrorHandler interface {
	Startup(p *Parser)
	Shutdown(p *Parser)
	TerminalError(p *Parser, got Token) ErrorAction
	NonTerminalError(p *Parser, rule PPRRef, got Token) ErrorAction
}

// NoRecoveryHandler aborts on the first error, with no recovery attempt.
type NoRecoveryHandler struct{}

func (NoRecoveryHandler) Startup(*Parser)  {}
func (NoRecoveryHandler) Shutdown(*Parser) {}
func (NoRecoveryHandler) TerminalError(*Parser, Token) ErrorAction    { return ActionAbort }
func (NoRecoveryHandler) NonTerminalError(*Parser, PPRRef, Token) ErrorAction { return ActionAbort }

// RegularHandler recovers from a lookahead failure by skipping the one
// offending token (single-token panic mode) and retrying. It does not check
// whether the token after the skipped one can continue the parse: each
// further failure at a later position skips one more token, so a run of
// offending tokens is skipped in full. It aborts only when a failure repeats
// at the same token position as the previous one; the parser also aborts
// whenever the offending token is the end of input.
type RegularHandler struct {
	lastFailPos int
	primed      bool
}

func NewRegularHandler() *RegularHandler {
	return &RegularHandler{lastFailPos: -1}
}

func (h *RegularHandler) Startup(*Parser) { h.lastFailPos = -1 }
func (h *RegularHandler) Shutdown(*Parser) {}

func (h *RegularHandler) TerminalError(_ *Parser, got Token) ErrorAction {
	return h.decide(got)
}

func (h *RegularHandler) NonTerminalError(_ *Parser, _ PPRRef, got Token) ErrorAction {
	return h.decide(got)
}

func (h *RegularHandler) decide(got Token) ErrorAction {
	if h.primed && got.Pos == h.lastFailPos {
		return ActionAbort
	}
	h.primed = true
	h.lastFailPos = got.Pos
	return ActionSkip
}

// ParserOptions configures a Parse call. A nil ErrorHandler defaults to
// NoRecoveryHandler.
type ParserOptions struct {
	ErrorHandler ErrorHandler
}

// Parser drives a grammar's syntactic (token-universe) parse table over a
// TokenStream to build a ParseTree.
type Parser struct {
	g     *Grammar
	state ParserState
	ts    TokenStream
}

// NewParser binds a Parser to g's syntactic parse table.
func NewParser(g *Grammar) *Parser {
	return &Parser{g: g, state: ParserIdle}
}

// State returns the parser's current lifecycle state.
func (p *Parser) State() ParserState { return p.state }

// tokenSymbol maps a Token onto its SymbolID in the token universe.
func tokenSymbol(tok Token, traits core.Traits) core.SymbolID {
	switch tok.Kind {
	case TokenEnd:
		return traits.End
	case TokenFailure:
		return traits.Failure
	default:
		return core.SymbolID(tok.LPR)
	}
}

func tokenNodeKind(tok Token) NodeKind {
	if tok.Kind == TokenEnd {
		return NodeEnd
	}
	return NodeLexical
}

func lprName(g *Grammar, tok Token) string {
	if tok.Kind != TokenNormal || tok.LPR < 0 || tok.LPR >= len(g.data.LPRs) {
		return ""
	}
	return g.data.LPRs[tok.LPR].Name
}

// Parse runs ts through start's expansion, returning the resulting tree and
// whether the parse succeeded without an unrecovered error.
func (p *Parser) Parse(ts TokenStream, start PPRRef, opts ParserOptions) (*ParseTree, bool) {
	if p.g == nil {
		panic(newUsageErrorf(ErrNoGrammarBound, "parser has no grammar bound"))
	}
	if !start.BoundTo(p.g) {
		panic(newUsageErrorf(ErrNoGrammarBound, "start rule %q was not bound to this parser's grammar", start.Name()))
	}

	handler := opts.ErrorHandler
	if handler == nil {
		handler = NoRecoveryHandler{}
	}

	p.ts = ts
	p.state = ParserRunning
	handler.Startup(p)

	traits := p.g.data.PPRTable.Traits
	var root *Node
	var nodeStack []*Node
	workStack := []workItem{{kind: workAtom, atom: core.NonTerminalAtom(p.toNTID(start.Index()))}}

	// attachChild appends n under the innermost open node. If nothing has
	// been opened yet — the start rule's own lookahead failed before any
	// derivation began — n is parked directly under a synthetic root so the
	// tree stays well-formed.
	attachChild := func(n *Node) {
		if len(nodeStack) > 0 {
			cur := nodeStack[len(nodeStack)-1]
			cur.Children = append(cur.Children, n)
			return
		}
		if root == nil {
			root = &Node{Kind: NodeSyntactic, Name: start.Name()}
		}
		root.Children = append(root.Children, n)
	}

	aborted := false

loop:
	for len(workStack) > 0 {
		top := workStack[len(workStack)-1]
		workStack = workStack[:len(workStack)-1]

		switch top.kind {
		case workClose:
			if len(nodeStack) == 0 {
				continue
			}
			finished := nodeStack[len(nodeStack)-1]
			nodeStack = nodeStack[:len(nodeStack)-1]
			if len(nodeStack) > 0 {
				parent := nodeStack[len(nodeStack)-1]
				parent.Children = append(parent.Children, finished)
			} else if root != nil {
				root.Children = append(root.Children, finished)
			} else {
				root = finished
			}

		case workAtom:
			atom := top.atom
			if atom.Kind == core.AtomTerminal {
				tok := ts.Peek()
				id := tokenSymbol(tok, traits)
				if id >= atom.Lo && id <= atom.Hi {
					if !atom.Assertion {
						ts.Next()
						leaf := &Node{Kind: tokenNodeKind(tok), Name: lprName(p.g, tok), Token: tok}
						attachChild(leaf)
					}
					continue
				}
				action := handler.TerminalError(p, tok)
				if action == ActionSkip && tok.Kind != TokenEnd {
					ts.Next()
					attachChild(&Node{Kind: NodeSkip, Token: tok})
					workStack = append(workStack, top) // retry same atom
					continue
				}
				p.abortAt(attachChild)
				aborted = true
				break loop
			}

			// non-terminal: expand via the table
			tok := ts.Peek()
			lookahead := tokenSymbol(tok, traits)
			groupID := p.g.data.PPRTable.Grouper.GroupID(lookahead)
			prod, found := p.g.data.PPRTable.Get(atom.NonTerminal, groupID)
			if !found {
				idx := traits.NonTerminalIndex(atom.NonTerminal)
				var rule PPRRef
				if idx >= 0 && idx < len(p.g.data.PPRs) {
					rule = PPRRef{g: p.g, idx: idx}
				}
				action := handler.NonTerminalError(p, rule, tok)
				if action == ActionSkip && tok.Kind != TokenEnd {
					ts.Next()
					attachChild(&Node{Kind: NodeSkip, Token: tok})
					workStack = append(workStack, top) // retry same non-terminal
					continue
				}
				p.abortAt(attachChild)
				aborted = true
				break loop
			}

			idx := traits.NonTerminalIndex(atom.NonTerminal)
			name := ""
			if idx >= 0 && idx < len(p.g.data.PPRs) {
				name = p.g.data.PPRs[idx].Name
			}
			child := &Node{Kind: NodeSyntactic, Name: name}
			nodeStack = append(nodeStack, child)
			workStack = append(workStack, workItem{kind: workClose})
			for i := len(prod) - 1; i >= 0; i-- {
				workStack = append(workStack, workItem{kind: workAtom, atom: prod[i]})
			}
		}
	}

	// drain any still-open nodes onto their parents so the partial tree
	// stays well-formed after an abort mid-derivation.
	for len(nodeStack) > 1 {
		finished := nodeStack[len(nodeStack)-1]
		nodeStack = nodeStack[:len(nodeStack)-1]
		parent := nodeStack[len(nodeStack)-1]
		parent.Children = append(parent.Children, finished)
	}
	if len(nodeStack) == 1 {
		if root != nil {
			root.Children = append(root.Children, nodeStack[0])
		} else {
			root = nodeStack[0]
		}
	}

	handler.Shutdown(p)
	if aborted {
		p.state = ParserAborted
		return &ParseTree{Root: root}, false
	}
	p.state = ParserSucceeded
	return &ParseTree{Root: root}, true
}

func (p *Parser) abortAt(attachChild func(*Node)) {
	attachChild(&Node{Kind: NodeAbort})
}

func (p *Parser) toNTID(index int) core.SymbolID {
	return p.g.data.PPRTable.Traits.NonTerminalID(index)
}

type workKind int

const (
	workAtom workKind = iota
	workClose
)

type workItem struct {
	kind workKind
	atom core.Atom
}
