package exprtree

import (
	"errors"
	"io"
	"math/big"
	"strings"
)

// ErrNoExpression is returned by a Session asked to evaluate before any
// expression has been built.
var ErrNoExpression = errors.New("exprtree: no expression built")

// Session holds one expression tree at a time along with the context used to
// evaluate it. Each successful Build replaces the tree. A Session is not safe
// to use concurrently.
type Session struct {
	ctx  *Context
	opts []ParseOption
	expr *Expr
	src  string
}

// NewSession creates a session which evaluates with ctx and parses with
// opts. If ctx is nil, the session uses a new context with default options.
func NewSession(ctx *Context, opts ...ParseOption) *Session {
	if ctx == nil {
		ctx = NewContext()
	}
	return &Session{ctx: ctx, opts: opts}
}

// Build parses expression and makes it the session's tree. An empty
// expression does nothing. If expression does not parse, the error is
// returned and the session keeps its previous tree.
func (s *Session) Build(expression string) error {
	if expression == "" {
		return nil
	}
	e, err := ParseString(expression, s.opts...)
	if err != nil {
		return err
	}
	s.expr = e
	s.src = expression
	return nil
}

// Use makes an already parsed expression the session's tree. A nil e does
// nothing.
func (s *Session) Use(e *Expr) {
	if e == nil {
		return
	}
	s.expr = e
	s.src = e.String()
}

// Expr returns the session's current tree, or nil if none has been built.
func (s *Session) Expr() *Expr {
	return s.expr
}

// Source returns the text of the session's current tree.
func (s *Session) Source() string {
	return s.src
}

// Context returns the context the session evaluates with.
func (s *Session) Context() *Context {
	return s.ctx
}

// Value evaluates the current tree. The tree is unchanged, so Value may be
// called any number of times.
func (s *Session) Value() (*big.Float, error) {
	if s.expr == nil {
		return nil, ErrNoExpression
	}
	r := s.ctx.Eval(s.expr)
	if r == nil {
		return nil, s.ctx.Err()
	}
	return r, nil
}

// Evaluate evaluates the current tree and formats the result with Text.
func (s *Session) Evaluate() (string, error) {
	r, err := s.Value()
	if err != nil {
		return "", err
	}
	return Text(r), nil
}

// InOrderLabels returns the in-order labels of the current tree, or nil if
// none has been built.
func (s *Session) InOrderLabels() []string {
	if s.expr == nil {
		return nil
	}
	return s.expr.InOrder()
}

// PostOrderLabels returns the post-order labels of the current tree, or nil if
// none has been built.
func (s *Session) PostOrderLabels() []string {
	if s.expr == nil {
		return nil
	}
	return s.expr.PostOrder()
}

// Display writes the in-order and post-order traversals of the current tree
// to w, one per line.
func (s *Session) Display(w io.Writer) error {
	if s.expr == nil {
		return ErrNoExpression
	}
	var b strings.Builder
	b.WriteString("The expression seen using in-order traversal: ")
	b.WriteString(strings.Join(s.expr.InOrder(), " "))
	b.WriteString("\nThe expression seen using post-order traversal: ")
	b.WriteString(strings.Join(s.expr.PostOrder(), " "))
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}
