package calc

import (
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// maxFactorial is the largest operand for which a float64 factorial is
// finite.
const maxFactorial = 170

// Eval evaluates the expression in float64 arithmetic. Division by zero and
// functions outside their domains follow floating-point semantics. The only
// error is a *DomainError from a factorial of a negative or non-integral
// value.
func (e *Expr) Eval() (float64, error) {
	return e.n.value()
}

func (n *node) value() (float64, error) {
	switch n.kind {
	case nodeInt:
		return float64(n.n), nil
	case nodeFloat:
		return n.f, nil
	case nodeConst:
		return n.c.value(), nil
	case nodeNeg:
		x, err := n.left.value()
		return -x, err
	case nodeFact:
		x, err := n.left.value()
		if err != nil {
			return 0, err
		}
		return factorial(x)
	case nodeFunc:
		x, err := n.left.value()
		if err != nil {
			return 0, err
		}
		return n.fn.call(x), nil
	}
	l, err := n.left.value()
	if err != nil {
		return 0, err
	}
	r, err := n.right.value()
	if err != nil {
		return 0, err
	}
	switch n.kind {
	case nodeAdd:
		return l + r, nil
	case nodeSub:
		return l - r, nil
	case nodeMul:
		return l * r, nil
	case nodeDiv:
		return l / r, nil
	case nodePow:
		return math.Pow(l, r), nil
	default:
		panic("calc: invalid AST node " + n.kind.String())
	}
}

// factorial computes x! for non-negative integers x.
func factorial(x float64) (float64, error) {
	if x < 0 || x != math.Trunc(x) || math.IsNaN(x) {
		return 0, &DomainError{X: x, Func: "!"}
	}
	if x > maxFactorial {
		return math.Inf(1), nil
	}
	r := 1.0
	for i := 2.0; i <= x; i++ {
		r *= i
	}
	return r, nil
}

// Context is a context for evaluating expressions to arbitrary precision. It
// is not safe to use a Context concurrently.
type Context struct {
	stack []*big.Float
	prec  uint
	err   error
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type precopt uint

func (precopt) ctxOption() {}

// Prec sets the precision of calculations in bits. Zero leaves the
// precision unchanged.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// NewContext creates a new evaluation context. If no precision is given, the
// default is 64.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{prec: 64}
	return ctx.Clone(opts...)
}

// Eval evaluates an expression and returns the result. If an error occurs,
// e.g. an argument to a function is outside the function's domain, then the
// result is nil and ctx.Err returns the error.
func (ctx *Context) Eval(e *Expr) *big.Float {
	switch len(ctx.stack) {
	case 0: // do nothing
	case 1:
		ctx.stack[0] = new(big.Float).SetPrec(ctx.prec)
		ctx.stack = ctx.stack[:0]
	default:
		panic("calc: Eval during Eval")
	}
	err := e.n.eval(ctx)
	ctx.err = err
	if err != nil {
		ctx.stack = ctx.stack[:0]
		return nil
	}
	return ctx.Result()
}

// Result returns the result obtained after evaluating an expression. Panics if
// ctx has not been used to evaluate an expression. Returns nil if an error
// occurred during evaluation.
func (ctx *Context) Result() *big.Float {
	if ctx.err != nil {
		return nil
	}
	switch len(ctx.stack) {
	case 0:
		panic("calc: Context.Result called before evaluating any expression")
	case 1:
		return ctx.stack[0]
	default:
		panic("calc: inconsistent stack: " + strconv.Itoa(len(ctx.stack)) + " items (bad AST?)")
	}
}

// Err returns the error that occurred while evaluating the last expression
// with ctx, if any.
func (ctx *Context) Err() error {
	return ctx.err
}

// Prec returns the precision to which values are computed in the context.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Clone creates a copy of a context and applies options to it. The returned
// context has no Result and is safe to use to evaluate an expression.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		stack: make([]*big.Float, 0, cap(ctx.stack)),
		prec:  ctx.prec,
	}
	for _, opt := range opts {
		switch opt := opt.(type) {
		case nil: // do nothing
		case precopt:
			if opt != 0 {
				n.prec = uint(opt)
			}
		default:
			panic("calc: unknown option type")
		}
	}
	return &n
}

// push ensures a settable value on the stack.
func (ctx *Context) push() *big.Float {
	if len(ctx.stack) < cap(ctx.stack) {
		ctx.stack = ctx.stack[:len(ctx.stack)+1]
		if ctx.stack[len(ctx.stack)-1] == nil {
			ctx.stack[len(ctx.stack)-1] = new(big.Float)
		}
	} else {
		ctx.stack = append(ctx.stack, new(big.Float))
	}
	return ctx.stack[len(ctx.stack)-1].SetPrec(ctx.prec)
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

// eval pushes the node's value to the context's stack.
func (n *node) eval(ctx *Context) error {
	switch n.kind {
	case nodeInt:
		ctx.push().SetUint64(n.n)
	case nodeFloat:
		ctx.push().SetFloat64(n.f)
	case nodeConst:
		n.c.bigValue(ctx.push())
	case nodeNeg:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		v := ctx.top()
		v.Neg(v)
	case nodeFact:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		v := ctx.top()
		if err := bigFactorial(v); err != nil {
			return err
		}
	case nodeFunc:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		x := ctx.top()
		r := new(big.Float).SetPrec(ctx.prec)
		if err := n.fn.bigCall(r, x); err != nil {
			return err
		}
		x.Set(r)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		if err := n.left.eval(ctx); err != nil {
			return err
		}
		if err := n.right.eval(ctx); err != nil {
			return err
		}
		r := ctx.pop()
		l := ctx.top()
		return binop(n.kind, l, r)
	default:
		panic("calc: invalid AST node " + n.kind.String())
	}
	return nil
}

// binop sets l to l op r.
func binop(op nodeKind, l, r *big.Float) error {
	switch op {
	case nodeAdd:
		// Inf + -Inf has no value.
		if l.IsInf() && r.IsInf() && l.Signbit() != r.Signbit() {
			return domain(r, "+")
		}
		l.Add(l, r)
	case nodeSub:
		if l.IsInf() && r.IsInf() && l.Signbit() == r.Signbit() {
			return domain(r, "-")
		}
		l.Sub(l, r)
	case nodeMul:
		if l.IsInf() && r.Sign() == 0 || l.Sign() == 0 && r.IsInf() {
			return domain(r, "*")
		}
		l.Mul(l, r)
	case nodeDiv:
		// Guard against invalid divisions, 0/0 or inf/inf.
		if l.Sign() == 0 && r.Sign() == 0 || l.IsInf() && r.IsInf() {
			return domain(r, "/")
		}
		l.Quo(l, r)
	case nodePow:
		return bigPow(l, r)
	}
	return nil
}

// bigPow sets l to l^r.
func bigPow(l, r *big.Float) error {
	switch {
	case r.Sign() == 0:
		l.SetInt64(1)
		return nil
	case l.Sign() == 0:
		if r.Sign() < 0 {
			l.SetInf(false)
		} else {
			l.SetInt64(0)
		}
		return nil
	case l.IsInf() || r.IsInf():
		// Infinities are exact in float64.
		x, _ := l.Float64()
		y, _ := r.Float64()
		v := math.Pow(x, y)
		if math.IsNaN(v) {
			return domain(l, "^")
		}
		l.SetFloat64(v)
		return nil
	case l.Sign() > 0:
		pow(l, r)
		return nil
	}
	// Negative base requires an integer exponent.
	if !r.IsInt() {
		return domain(l, "^")
	}
	odd := false
	if y, acc := r.Int(nil); acc == big.Exact {
		odd = y.Bit(0) == 1
	}
	l.Neg(l)
	pow(l, r)
	if odd {
		l.Neg(l)
	}
	return nil
}

// pow sets l to l^r for positive l. The result of bigfloat.Pow must not
// share storage with its operands.
func pow(l, r *big.Float) {
	z := new(big.Float).SetPrec(l.Prec())
	l.Set(bigfloat.Pow(z, l, r))
}

// bigFactorial sets v to v!.
func bigFactorial(v *big.Float) error {
	if v.Sign() < 0 || !v.IsInt() {
		return domain(v, "!")
	}
	n, acc := v.Uint64()
	if acc != big.Exact || n > maxBigFactorial {
		return domain(v, "!")
	}
	v.SetInt64(1)
	var k big.Float
	k.SetPrec(v.Prec())
	for i := uint64(2); i <= n; i++ {
		v.Mul(v, k.SetUint64(i))
	}
	return nil
}

// maxBigFactorial bounds the work of an arbitrary-precision factorial.
const maxBigFactorial = 1 << 16

// Calculate parses src and evaluates it in float64 arithmetic. It returns the
// fully parenthesized form of the expression along with its value.
func Calculate(src string) (display string, value float64, err error) {
	e, err := ParseString(src)
	if err != nil {
		return "", 0, err
	}
	v, err := e.Eval()
	if err != nil {
		return e.String(), 0, err
	}
	return e.String(), v, nil
}

// EvalString is a shortcut to parse and evaluate a string expression to
// arbitrary precision.
func EvalString(src string, opts ...ContextOption) (*big.Float, error) {
	ctx := NewContext(opts...)
	e, err := ParseString(src)
	if err != nil {
		return nil, err
	}
	ctx.Eval(e)
	return ctx.Result(), ctx.Err()
}
