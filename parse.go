package exprtree

import (
	"io"
	"strings"
)

// Expr = num | '(' Expr op Expr ')'
// op = '+' | '-' | '*' | '/' | '^'
// num = digit { digit }

// Expr is a parsed expression that can be evaluated with a context. An Expr
// is never modified after parsing, so it is safe to share between
// goroutines.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// size is the number of nodes in the tree.
	size int
}

// Parse parses an expression so it can be evaluated with a context. The given
// options are applied in order.
func Parse(src io.RuneScanner, opts ...ParseOption) (*Expr, error) {
	scan := lex(src)
	var p parsectx
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	n := new(node)
	if err := fill(scan, &p, n, 0); err != nil {
		return nil, err
	}
	tok, err := scan.next(p.wseof)
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok)
	}
	return &Expr{n: n, size: p.nodes}, nil
}

// ParseString is a shortcut to parse an expression from a string.
func ParseString(src string, opts ...ParseOption) (*Expr, error) {
	return Parse(strings.NewReader(src), opts...)
}

// fill parses a single operand into n. A numeral makes n a leaf. An open
// bracket gives n a left child, which is filled in turn; then n takes the
// operator that follows, gets a right child filled the same way, and the
// close bracket ends n. depth is the number of brackets enclosing n.
func fill(scan *lexer, p *parsectx, n *node, depth int) error {
	p.nodes++
	open, err := scan.next("")
	if err != nil {
		return err
	}
	switch open.kind {
	case tokenNum:
		n.kind = nodeNum
		n.label = open.text
		return nil
	case tokenOpen:
		if p.maxdepth > 0 && depth >= p.maxdepth {
			return &DepthError{Col: open.pos, Max: p.maxdepth}
		}
	case tokenOp:
		return &OperatorError{Col: open.pos, Operator: open.text}
	case tokenClose:
		return &EmptyExpressionError{Col: open.pos, End: open.text}
	case tokenEOF:
		return &EmptyExpressionError{Col: open.pos}
	default:
		panic("exprtree: unknown token: " + open.String())
	}

	n.left = new(node)
	if err := fill(scan, p, n.left, depth+1); err != nil {
		return err
	}

	tok, err := scan.next("")
	if err != nil {
		return err
	}
	switch tok.kind {
	case tokenOp:
		n.kind = opkind(tok.text)
		n.label = tok.text
	case tokenNum, tokenOpen, tokenClose:
		return &OperatorError{Col: tok.pos}
	case tokenEOF:
		return &BracketError{Col: open.pos, Left: open.text}
	default:
		panic("exprtree: unknown token: " + tok.String())
	}

	n.right = new(node)
	if err := fill(scan, p, n.right, depth+1); err != nil {
		return err
	}

	tok, err = scan.next("")
	if err != nil {
		return err
	}
	switch tok.kind {
	case tokenClose:
		return nil
	case tokenOp:
		// (a + b + c): every operation needs its own brackets.
		return &OperatorError{Col: tok.pos, Operator: tok.text}
	case tokenNum, tokenOpen:
		return &OperandError{Col: tok.pos, Operand: tok.text}
	case tokenEOF:
		return &BracketError{Col: open.pos, Left: open.text}
	default:
		panic("exprtree: unknown token: " + tok.String())
	}
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token following a complete expression.
func itShouldNotHaveEndedThisWay(tok lexToken) error {
	switch tok.kind {
	case tokenClose:
		return &BracketError{Col: tok.pos, Right: tok.text}
	case tokenOp:
		return &OperatorError{Col: tok.pos, Operator: tok.text}
	case tokenNum, tokenOpen:
		return &OperandError{Col: tok.pos, Operand: tok.text}
	default:
		panic("exprtree: it really should not have ended this way: " + tok.String())
	}
}

// String creates a fully-parenthesized representation of the parsed
// expression. Parsing the result gives an identical tree.
func (e *Expr) String() string {
	return e.n.String()
}

// Len returns the number of nodes in the expression tree.
func (e *Expr) Len() int {
	return e.size
}

// InOrder returns the labels of the expression tree in in-order: left
// subtree, node, right subtree. The result resembles the source with the
// brackets removed.
func (e *Expr) InOrder() []string {
	return e.n.inorder(make([]string, 0, e.size))
}

// PostOrder returns the labels of the expression tree in post-order: left
// subtree, right subtree, node. This is the order in which evaluation visits
// the tree.
func (e *Expr) PostOrder() []string {
	return e.n.postorder(make([]string, 0, e.size))
}
