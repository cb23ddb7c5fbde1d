package exprtree

import (
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// DefaultPrec is the precision of contexts created without the Prec option.
// It matches the significand of an IEEE 754 double.
const DefaultPrec = 53

// MaxCachedNumerals is the most numerals a context keeps parsed values for.
const MaxCachedNumerals = 4096

// Context is a context for evaluating expressions. It is not safe to use a
// Context concurrently.
//
// A context caches the values of numerals it has seen. The cache holds at
// most MaxCachedNumerals entries and is emptied when it fills, so a
// long-lived context evaluating many different numerals stays bounded.
type Context struct {
	stack []*big.Float
	nums  map[string]*big.Float
	prec  uint
	res   *big.Float
	err   error
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type precopt uint

func (precopt) ctxOption() {}

// Prec sets the precision of calculations in bits. A precision of 0 selects
// DefaultPrec.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// NewContext creates a new evaluation context. If no precision is given, the
// default is DefaultPrec.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{nums: make(map[string]*big.Float), prec: DefaultPrec}
	return ctx.Clone(opts...)
}

// Eval evaluates an expression and returns the result. If an error occurs,
// e.g. an operation with no defined result like 0/0, then the result is nil
// and ctx.Err returns the error. The value stack is empty when Eval returns,
// whether or not evaluation succeeded.
func (ctx *Context) Eval(e *Expr) *big.Float {
	if len(ctx.stack) != 0 {
		panic("exprtree: Eval during Eval")
	}
	ctx.res = nil
	ctx.err = e.n.eval(ctx)
	if ctx.err != nil {
		ctx.stack = ctx.stack[:0]
		return nil
	}
	if len(ctx.stack) != 1 {
		panic("exprtree: inconsistent stack: " + strconv.Itoa(len(ctx.stack)) + " items (bad tree?)")
	}
	// The popped slot is reused by the next evaluation, so the result needs
	// its own value.
	ctx.res = new(big.Float).SetPrec(ctx.prec).Set(ctx.pop())
	return ctx.res
}

// Eval evaluates the expression with ctx. It is the same as ctx.Eval(e).
func (e *Expr) Eval(ctx *Context) *big.Float {
	return ctx.Eval(e)
}

// Result returns the result obtained by the last evaluation. Panics if ctx
// has not been used to evaluate an expression. Returns nil if an error
// occurred during evaluation.
func (ctx *Context) Result() *big.Float {
	if ctx.err != nil {
		return nil
	}
	if ctx.res == nil {
		panic("exprtree: Context.Result called before evaluating any expression")
	}
	return ctx.res
}

// Err returns the error that occurred during the last evaluation, if any.
func (ctx *Context) Err() error {
	return ctx.err
}

// Prec returns the precision to which values are computed in the context.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Len returns the number of values on the context's stack. It is zero
// except during evaluation.
func (ctx *Context) Len() int {
	return len(ctx.stack)
}

// Clone creates a copy of a context and applies options to it. The returned
// context has no Result and is safe to use to evaluate an expression.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		stack: make([]*big.Float, 0, cap(ctx.stack)),
		nums:  make(map[string]*big.Float, len(ctx.nums)),
		prec:  ctx.prec,
	}
	// Loop backward so we apply the last precision.
	for i := len(opts) - 1; i >= 0; i-- {
		if p, ok := opts[i].(precopt); ok {
			n.prec = uint(p)
			break
		}
	}
	if n.prec == 0 {
		// A zero-precision big.Float is always zero.
		n.prec = DefaultPrec
	}
	for _, opt := range opts {
		switch opt.(type) {
		case nil, precopt: // already done
		default:
			panic("exprtree: unknown option type")
		}
	}
	// Cached numerals are only valid at the precision they were parsed with.
	if n.prec == ctx.prec {
		for k, v := range ctx.nums {
			n.nums[k] = v
		}
	}
	return &n
}

// push ensures a settable value on the stack.
func (ctx *Context) push() *big.Float {
	if len(ctx.stack) < cap(ctx.stack) {
		ctx.stack = ctx.stack[:len(ctx.stack)+1]
		if ctx.stack[len(ctx.stack)-1] == nil {
			ctx.stack[len(ctx.stack)-1] = new(big.Float).SetPrec(ctx.prec)
		}
	} else {
		ctx.stack = append(ctx.stack, new(big.Float).SetPrec(ctx.prec))
	}
	return ctx.stack[len(ctx.stack)-1]
}

// pop removes the top from the stack and returns it. The returned value may be
// modified by future node evaluations.
func (ctx *Context) pop() *big.Float {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

// top is a shortcut to get the top element of the stack.
func (ctx *Context) top() *big.Float {
	return ctx.stack[len(ctx.stack)-1]
}

// num gets a possibly cached number from its text.
func (ctx *Context) num(s string) *big.Float {
	if r := ctx.nums[s]; r != nil {
		return r
	}
	r, _, err := new(big.Float).SetPrec(ctx.prec).Parse(s, 10)
	switch {
	case err == nil: // do nothing
	case err.Error() == "exponent overflow",
		strings.HasSuffix(err.Error(), ": value out of range"):
		// There isn't realistically any better way to detect this error.
		// Numerals have no sign, so this is always positive.
		r = new(big.Float).SetPrec(ctx.prec).SetInf(false)
	default:
		panic("exprtree: invalid number: " + s + " (" + err.Error() + ")")
	}
	if len(ctx.nums) >= MaxCachedNumerals {
		clear(ctx.nums)
	}
	ctx.nums[s] = r
	return r
}

// eval pushes the node's value to the context's stack.
func (n *node) eval(ctx *Context) error {
	if n.kind == nodeNum {
		ctx.push().Set(ctx.num(n.label))
		return nil
	}
	if err := n.left.eval(ctx); err != nil {
		return err
	}
	if err := n.right.eval(ctx); err != nil {
		return err
	}
	// The right operand is on top; the left is under it and receives the
	// result.
	r := ctx.pop()
	l := ctx.top()
	switch n.kind {
	case nodeAdd:
		// Guard against Inf + -Inf.
		if l.IsInf() && r.IsInf() && l.Signbit() != r.Signbit() {
			return domain(r, "+")
		}
		l.Add(l, r)
	case nodeSub:
		// Guard against Inf - Inf.
		if l.IsInf() && r.IsInf() && l.Signbit() == r.Signbit() {
			return domain(r, "-")
		}
		l.Sub(l, r)
	case nodeMul:
		// Guard against 0 * Inf.
		if l.Sign() == 0 && r.IsInf() || l.IsInf() && r.Sign() == 0 {
			return domain(r, "*")
		}
		l.Mul(l, r)
	case nodeDiv:
		// Guard against invalid divisions, 0/0 or inf/inf. Any other
		// division by zero is an infinity.
		if l.Sign() == 0 && r.Sign() == 0 || l.IsInf() && r.IsInf() {
			return domain(r, "/")
		}
		l.Quo(l, r)
	case nodePow:
		if err := pow(l, l, r); err != nil {
			return err
		}
	default:
		panic("exprtree: invalid tree node " + n.kind.String())
	}
	return nil
}

// pow sets z to x^y. z may alias x or y. Integer exponents allow negative
// bases; any other exponent requires a base that isn't negative. Results too
// large or too small for the exponent range of big.Float become Inf or 0.
func pow(z, x, y *big.Float) error {
	prec := z.Prec()
	one := big.NewFloat(1)
	if y.IsInf() {
		// Only the magnitude of the base matters.
		switch c := new(big.Float).Abs(x).Cmp(one); {
		case c == 0:
			z.SetPrec(prec).Set(one)
		case (c > 0) == (y.Sign() > 0):
			z.SetPrec(prec).SetInf(false)
		default:
			z.SetPrec(prec).SetInt64(0)
		}
		return nil
	}
	neg := false
	if x.Sign() < 0 {
		if !y.IsInt() {
			return domain(x, "^")
		}
		neg = odd(y)
	}
	// Compute with guard bits and round once into z.
	r := new(big.Float).SetPrec(prec + 32)
	powabs(r, new(big.Float).Abs(x), new(big.Float).Abs(y))
	if y.Sign() < 0 {
		// 1/0 is +Inf and 1/Inf is 0, which are what we want.
		r.Quo(one, r)
	}
	z.SetPrec(prec).Set(r)
	if neg {
		z.Neg(z)
	}
	return nil
}

// odd returns whether the integer y is odd.
func odd(y *big.Float) bool {
	i, _ := y.Int(nil)
	return i.Bit(0) == 1
}

// powabs sets z to x^y for x >= 0 and finite y >= 0 at the precision of z.
// The integer part of y is applied by repeated squaring and the fractional
// part by fracpow.
func powabs(z, x, y *big.Float) {
	n, _ := y.Int(nil)
	switch {
	case y.Sign() == 0:
		z.SetInt64(1)
		return
	case x.Sign() == 0:
		z.SetInt64(0)
		return
	case x.IsInf():
		z.SetInf(false)
		return
	case !n.IsUint64():
		// Any base other than 1 leaves the exponent range.
		switch x.Cmp(big.NewFloat(1)) {
		case 0:
			z.SetInt64(1)
		case 1:
			z.SetInf(false)
		default:
			z.SetInt64(0)
		}
		return
	}
	intpow(z, x, n.Uint64())
	// y - n only keeps bits of y, so it is exact.
	f := new(big.Float).Sub(y, new(big.Float).SetInt(n))
	if f.Sign() != 0 {
		z.Mul(z, fracpow(z.Prec(), x, f))
	}
}

// intpow sets z to x^n by repeated squaring at the precision of z.
func intpow(z, x *big.Float, n uint64) {
	prec := z.Prec()
	b := new(big.Float).SetPrec(prec).Set(x)
	r := new(big.Float).SetPrec(prec).SetInt64(1)
	for n > 0 {
		if n&1 == 1 {
			r.Mul(r, b)
		}
		n >>= 1
		if n > 0 {
			b.Mul(b, b)
		}
	}
	z.Set(r)
}

// fracpow returns x^f for finite x > 0 and 0 < f < 1. With x = m * 2^e and
// 1/2 <= m < 1, x^f = m^f * 2^g * 2^k where e*f = k + g and |g| < 1, so
// neither Pow sees a large argument.
func fracpow(prec uint, x, f *big.Float) *big.Float {
	wp := prec + 64
	m := new(big.Float)
	e := x.MantExp(m)
	m.SetPrec(wp)
	// e has at most 32 significant bits, so the product is exact.
	ef := new(big.Float).SetPrec(f.Prec() + 64).SetInt64(int64(e))
	ef.Mul(ef, f)
	k, _ := ef.Int64()
	g := ef.Sub(ef, new(big.Float).SetInt64(k))
	// Pow may return a new value instead of its first argument.
	r := new(big.Float).SetPrec(wp).Set(bigfloat.Pow(new(big.Float).SetPrec(wp), m, f))
	two := new(big.Float).SetPrec(wp).SetInt64(2)
	r.Mul(r, bigfloat.Pow(new(big.Float).SetPrec(wp), two, g))
	return r.SetMantExp(r, int(k))
}

// Eval is a shortcut to parse an expression and return its result.
func Eval(src io.RuneScanner, opts ...ContextOption) (*big.Float, error) {
	ctx := NewContext(opts...)
	a, err := Parse(src)
	if err != nil {
		return nil, err
	}
	ctx.Eval(a)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return ctx.Result(), nil
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...ContextOption) (*big.Float, error) {
	return Eval(strings.NewReader(src), opts...)
}

// Text formats x the way Session.Evaluate does: the shortest decimal
// representation that identifies x at its precision, switching to an
// exponent for large and small magnitudes.
func Text(x *big.Float) string {
	return x.Text('g', -1)
}

// DomainError is an error returned when an operator is applied to operands
// outside its domain, i.e. where the result would be NaN.
type DomainError struct {
	// X is the out-of-domain operand.
	X *big.Float
	// Func is the operator symbol.
	Func string
}

// domain creates a DomainError holding a copy of x, since stack values are
// reused.
func domain(x *big.Float, op string) error {
	return &DomainError{X: new(big.Float).Copy(x), Func: op}
}

func (err DomainError) Error() string {
	r := err.X.String() + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	return r
}
